// Package utf8str provides String, a UTF-8 string that can be indexed by
// codepoint.
//
// A String stores its content as UTF-8 bytes together with an ascending
// table of the byte offsets of every multibyte codepoint. The table turns a
// codepoint position into a byte offset without decoding the text in front
// of it, so access by position costs time proportional to the number of
// multibyte codepoints that precede it. Strings made of ASCII only carry no
// table at all and are addressed directly.
//
// Invalid UTF-8 is never rejected. The first time a String meets a broken
// sequence it marks itself malformed, and from then on every length
// computation re-validates continuation bytes. Broken sequences decode as
// their raw leading byte or as codec.FallbackCodepoint.
//
// Every edit goes through one byte-range splice which rebuilds the buffer and
// the table together:
//
//	s := utf8str.FromString("a€b")
//	s.Len()                     // 3 codepoints
//	s.Size()                    // 5 bytes
//	s.At(1)                     // '€'
//	s.Replace(1, 1, utf8str.FromString("X"))
//	s.String()                  // "aXb"
//
// Methods taking a position count codepoints. Their Raw counterparts take
// byte offsets, which must fall on codepoint boundaries. Lookups that fail
// return NPos; access beyond the end returns 0.
//
// String is a value type without internal locking. Iterators hold a byte
// offset into a String and become meaningless after the String is edited.
package utf8str
