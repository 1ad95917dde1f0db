package utf8str

import (
	"fmt"
	"io"
	"math"

	"github.com/dshills/runestr/internal/codec"
	"github.com/dshills/runestr/internal/index"
)

// Repeat returns a string of n copies of the codepoint r.
//
// It panics if n is negative, if r is outside [0, 0x7FFFFFFF] or if the
// result would overflow.
func Repeat(n int, r rune) String {
	if n < 0 {
		panic("utf8str: negative Repeat count")
	}
	if !codec.Valid(r) {
		panic("utf8str: Repeat codepoint out of range")
	}
	if n == 0 {
		return String{}
	}

	w := codec.EncodedLen(r)
	if n > math.MaxInt/w {
		panic("utf8str: Repeat output length overflow")
	}
	buf := make([]byte, n*w)

	// ASCII never needs a table.
	if w == 1 {
		for i := range buf {
			buf[i] = byte(r)
		}
		return String{buf: buf, count: n}
	}

	var enc [codec.MaxLen]byte
	codec.Encode(enc[:], r)
	table := make(index.Table, n)
	for i := 0; i < n; i++ {
		copy(buf[i*w:], enc[:w])
		table[i] = i * w
	}
	return String{buf: buf, count: n, index: table}
}

// FromRune returns a string holding the single codepoint r.
func FromRune(r rune) String {
	return Repeat(1, r)
}

// FromBytes returns a string holding a copy of at most maxCodepoints
// codepoints from p. A negative maxCodepoints (NPos) reads all of p.
//
// Invalid or truncated sequences mark the string malformed; they are kept
// byte for byte and never read past the end of p.
func FromBytes(p []byte, maxCodepoints int) String {
	end, malformed := scanPrefix(p, maxCodepoints)
	buf := make([]byte, end)
	copy(buf, p)
	return build(buf, malformed, owned)
}

// FromString returns a string holding a copy of str.
func FromString(str string) String {
	buf := []byte(str)
	_, malformed := scanPrefix(buf, NPos)
	return build(buf, malformed, owned)
}

// Borrow returns a string that reads p in place instead of copying it. The
// caller must not modify p while the string is in use. Edits never write to
// p: the first edit moves the string to storage of its own.
func Borrow(p []byte) String {
	_, malformed := scanPrefix(p, NPos)
	return build(p[:len(p):len(p)], malformed, borrowed)
}

// FromRunes returns a string encoding every codepoint of rs. It fails with
// ErrInvalidCodepoint if any codepoint is negative.
func FromRunes(rs []rune) (String, error) {
	total, multi := 0, 0
	for i, r := range rs {
		n := codec.EncodedLen(r)
		if n == 0 {
			return String{}, fmt.Errorf("codepoint %d at position %d: %w", r, i, ErrInvalidCodepoint)
		}
		total += n
		if n > 1 {
			multi++
		}
	}
	if total == 0 {
		return String{}, nil
	}

	// Sized up front; encoding writes straight into place.
	buf := make([]byte, total)
	var table index.Table
	if multi > 0 {
		table = make(index.Table, 0, multi)
	}
	w := 0
	for _, r := range rs {
		n := codec.Encode(buf[w:], r)
		if n > 1 {
			table = append(table, w)
		}
		w += n
	}
	return String{buf: buf, count: len(rs), index: table}, nil
}

// FromReader reads r to EOF and returns its content as a string.
func FromReader(r io.Reader) (String, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return String{}, fmt.Errorf("reading input: %w", err)
	}
	_, malformed := scanPrefix(data, NPos)
	return build(data, malformed, owned), nil
}

// scanPrefix decodes p from the start until limit codepoints have been read
// (limit < 0 means no limit) or p ends. It returns the number of bytes
// covered and whether any sequence was malformed.
func scanPrefix(p []byte, limit int) (end int, malformed bool) {
	for count := 0; end < len(p) && (limit < 0 || count < limit); count++ {
		_, n, ok := codec.Decode(p[end:])
		if !ok {
			malformed = true
		}
		end += n
	}
	return end, malformed
}

// build derives the table and codepoint count of buf by walking it again
// with the classifier selected by malformed.
func build(buf []byte, malformed bool, mode storage) String {
	if len(buf) == 0 {
		return String{malformed: malformed}
	}
	table, count := index.Scan(buf, malformed)
	return String{
		buf:       buf,
		count:     count,
		index:     table,
		malformed: malformed,
		mode:      mode,
	}
}

// Runes returns one codepoint per logical position.
func (s String) Runes() []rune {
	out := make([]rune, 0, s.count)
	for off := 0; off < len(s.buf); {
		r, n, _ := codec.Decode(s.buf[off:])
		out = append(out, r)
		off += n
	}
	return out
}
