package utf8str

import (
	"bytes"

	"github.com/dshills/runestr/internal/codec"
	"github.com/dshills/runestr/internal/index"
)

// NPos is returned by lookups that find nothing. It differs from every valid
// position and byte offset.
const NPos = -1

// storage tells whether a String owns its buffer.
type storage uint8

const (
	// owned buffers were allocated by the String.
	owned storage = iota

	// borrowed buffers belong to the caller and are never written to.
	borrowed
)

// String is a UTF-8 string indexed by codepoint.
//
// The zero value is the empty string and is ready to use.
type String struct {
	buf       []byte      // UTF-8 content, no terminator
	count     int         // Number of codepoints in buf
	index     index.Table // Offsets of multibyte codepoints, nil for ASCII
	malformed bool        // Sticky: invalid UTF-8 was seen
	mode      storage
}

// Empty returns the empty string.
func Empty() String {
	return String{}
}

// Len returns the number of codepoints.
func (s String) Len() int {
	return s.count
}

// Size returns the number of bytes.
func (s String) Size() int {
	return len(s.buf)
}

// IsEmpty returns true if the string holds no text.
func (s String) IsEmpty() bool {
	return len(s.buf) == 0
}

// Malformed returns true if invalid UTF-8 has been part of this string at any
// point of its history.
func (s String) Malformed() bool {
	return s.malformed
}

// RequiresUnicode returns true if any codepoint occupies more than one byte.
func (s String) RequiresUnicode() bool {
	return len(s.index) > 0
}

// Borrowed returns true if the buffer belongs to the caller.
func (s String) Borrowed() bool {
	return s.mode == borrowed
}

// Bytes returns the underlying UTF-8 buffer. The slice aliases the string's
// storage and must not be modified.
func (s String) Bytes() []byte {
	return s.buf
}

// String returns the content as a Go string.
func (s String) String() string {
	return string(s.buf)
}

// MultibyteOffsets returns a copy of the byte offsets of all codepoints that
// occupy more than one byte.
func (s String) MultibyteOffsets() []int {
	return s.index.Clone()
}

// Clone returns a deep copy in owned storage, whatever the storage of s.
func (s String) Clone() String {
	if s.IsEmpty() {
		return String{malformed: s.malformed}
	}
	return String{
		buf:       bytes.Clone(s.buf),
		count:     s.count,
		index:     s.index.Clone(),
		malformed: s.malformed,
	}
}

// Take moves the content out of s and resets s to the empty string.
func (s *String) Take() String {
	moved := *s
	*s = String{}
	return moved
}

// Assign replaces the content of s with a deep copy of other.
func (s *String) Assign(other String) {
	*s = other.Clone()
}

// AssignMove replaces the content of s with the content of other and resets
// other to the empty string.
func (s *String) AssignMove(other *String) {
	if s == other {
		return
	}
	*s = other.Take()
}

// Clear resets s to the empty string. The malformed flag is kept.
func (s *String) Clear() {
	*s = String{malformed: s.malformed}
}

// width returns the byte length of the codepoint at off, validating
// continuation bytes once the string is malformed.
func (s String) width(off int) int {
	return codec.LenAt(s.buf, off, s.malformed)
}

// widthBefore returns the byte length of the codepoint ending at off.
func (s String) widthBefore(off int) int {
	return codec.LenBefore(s.buf, off, s.malformed)
}

// WidthAt returns the byte length of the codepoint starting at byte offset
// off. Offsets at or past the end report 1.
func (s String) WidthAt(off int) int {
	return s.width(off)
}

// WidthBefore returns the byte length of the codepoint ending at byte offset
// off, or 0 at the start.
func (s String) WidthBefore(off int) int {
	return s.widthBefore(off)
}

// backIndex returns the byte offset of the last codepoint, or 0 if empty.
func (s String) backIndex() int {
	if s.IsEmpty() {
		return 0
	}
	return len(s.buf) - s.widthBefore(len(s.buf))
}

// Equal returns true if both strings hold the same bytes.
func (s String) Equal(other String) bool {
	return bytes.Equal(s.buf, other.buf)
}

// EqualString returns true if s holds exactly the bytes of str.
func (s String) EqualString(str string) bool {
	return string(s.buf) == str
}

// Compare compares two strings codepoint by codepoint and returns -1, 0 or +1.
// A proper prefix sorts first.
func (s String) Compare(other String) int {
	a, b := s.Begin(), other.Begin()
	for a.Valid() && b.Valid() {
		ra, rb := a.Value(), b.Value()
		if ra != rb {
			if ra < rb {
				return -1
			}
			return 1
		}
		a.Next()
		b.Next()
	}
	switch {
	case a.Valid():
		return 1
	case b.Valid():
		return -1
	}
	return 0
}
