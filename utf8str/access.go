package utf8str

import "github.com/dshills/runestr/internal/codec"

// ByteOffset translates the codepoint position pos into a byte offset.
// Positions at or past the end translate to Size().
func (s String) ByteOffset(pos int) int {
	if pos < 0 {
		return 0
	}
	if pos >= s.count {
		return len(s.buf)
	}
	return s.index.ToByte(pos, s.width)
}

// At returns the codepoint at position pos, or 0 if pos is out of range.
func (s String) At(pos int) rune {
	if pos < 0 || pos >= s.count {
		return 0
	}
	if !s.RequiresUnicode() {
		return rune(s.buf[pos])
	}
	r, _, _ := codec.Decode(s.buf[s.index.ToByte(pos, s.width):])
	return r
}

// RawAt returns the codepoint starting at byte offset off, or 0 if off is out
// of range.
func (s String) RawAt(off int) rune {
	if off < 0 || off >= len(s.buf) {
		return 0
	}
	if !s.RequiresUnicode() {
		return rune(s.buf[off])
	}
	r, _, _ := codec.Decode(s.buf[off:])
	return r
}

// Front returns the first codepoint, or 0 if s is empty.
func (s String) Front() rune {
	return s.RawAt(0)
}

// Back returns the last codepoint, or 0 if s is empty.
func (s String) Back() rune {
	if s.IsEmpty() {
		return 0
	}
	return s.RawAt(s.backIndex())
}

// byteCount returns the number of bytes taken by count codepoints starting
// at byte offset start.
func (s String) byteCount(start, count int) int {
	if count < 0 {
		return len(s.buf) - start
	}
	if !s.RequiresUnicode() {
		return min(count, len(s.buf)-start)
	}
	off := start
	for ; off < len(s.buf) && count > 0; count-- {
		off += s.width(off)
	}
	return off - start
}

// Substr returns count codepoints starting at position pos. A negative count
// (NPos) takes everything up to the end.
func (s String) Substr(pos, count int) String {
	start := s.ByteOffset(pos)
	return s.RawSubstr(start, s.byteCount(start, count))
}

// RawSubstr returns the byteCount bytes starting at byte offset byteStart.
// The count is clamped to the bytes available; a negative count takes
// everything up to the end. A start past the end returns the empty string.
//
// A range that cuts through a multibyte sequence yields a malformed string.
func (s String) RawSubstr(byteStart, byteCount int) String {
	if byteStart < 0 {
		byteStart = 0
	}
	if byteStart > len(s.buf) {
		return String{}
	}
	if byteCount < 0 || byteCount > len(s.buf)-byteStart {
		byteCount = len(s.buf) - byteStart
	}
	if byteCount == 0 {
		return String{}
	}

	end := byteStart + byteCount
	buf := make([]byte, byteCount)
	copy(buf, s.buf[byteStart:end])

	if s.cuts(byteStart) || s.cuts(end) {
		_, malformed := scanPrefix(buf, NPos)
		return build(buf, s.malformed || malformed, owned)
	}
	return String{
		buf:       buf,
		count:     s.index.Count(byteStart, end, s.width),
		index:     s.index.Sub(byteStart, end),
		malformed: s.malformed,
	}
}

// cuts reports whether byte offset off falls inside a multibyte sequence,
// which is the case when a continuation byte sits right at it.
func (s String) cuts(off int) bool {
	return off > 0 && off < len(s.buf) && codec.IsContinuation(s.buf[off])
}
