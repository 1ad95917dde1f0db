// Package transcode converts between utf8str strings and other character
// encodings.
//
// Encoding names follow the WHATWG Encoding Standard labels understood by
// golang.org/x/text/encoding/htmlindex ("utf-8", "windows-1252", "latin1",
// "shift_jis", "utf-16le", ...). UTF-8 input is never re-encoded: invalid
// bytes reach the string as they are and mark it malformed.
package transcode

import (
	"errors"
	"fmt"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"

	"github.com/dshills/runestr/utf8str"
)

// ErrUnknownEncoding indicates an encoding name htmlindex does not know.
var ErrUnknownEncoding = errors.New("unknown encoding")

// Lookup returns the encoding registered under name. The empty name means
// UTF-8.
func Lookup(name string) (encoding.Encoding, error) {
	if name == "" {
		return unicode.UTF8, nil
	}
	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEncoding, name)
	}
	return enc, nil
}

// IsUTF8 reports whether name refers to UTF-8.
func IsUTF8(name string) bool {
	enc, err := Lookup(name)
	return err == nil && enc == unicode.UTF8
}

// Decode converts data from the named encoding and keeps at most
// maxCodepoints codepoints (NPos keeps all).
func Decode(data []byte, name string, maxCodepoints int) (utf8str.String, error) {
	enc, err := Lookup(name)
	if err != nil {
		return utf8str.String{}, err
	}
	if enc == unicode.UTF8 {
		return utf8str.FromBytes(data, maxCodepoints), nil
	}

	out, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return utf8str.String{}, fmt.Errorf("decoding %s: %w", name, err)
	}
	return utf8str.FromBytes(out, maxCodepoints), nil
}

// Encode converts s to the named encoding. Codepoints the target cannot
// represent are replaced by its substitution character.
func Encode(s *utf8str.String, name string) ([]byte, error) {
	enc, err := Lookup(name)
	if err != nil {
		return nil, err
	}
	if enc == unicode.UTF8 {
		return append([]byte(nil), s.Bytes()...), nil
	}

	out, err := encoding.ReplaceUnsupported(enc.NewEncoder()).Bytes(s.Bytes())
	if err != nil {
		return nil, fmt.Errorf("encoding %s: %w", name, err)
	}
	return out, nil
}

// EncodeUTF16 converts s to UTF-16 without a byte order mark. Codepoints
// beyond U+10FFFF become U+FFFD.
func EncodeUTF16(s *utf8str.String, bigEndian bool) ([]byte, error) {
	order := unicode.LittleEndian
	if bigEndian {
		order = unicode.BigEndian
	}
	out, err := unicode.UTF16(order, unicode.IgnoreBOM).NewEncoder().Bytes(s.Bytes())
	if err != nil {
		return nil, fmt.Errorf("encoding utf-16: %w", err)
	}
	return out, nil
}
