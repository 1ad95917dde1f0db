package utf8str

import "github.com/dshills/runestr/internal/codec"

// RawReplace replaces replacedBytes bytes starting at byte offset byteStart
// with repl. The start is clamped to the end of s and the replaced range
// never extends past it; a negative replacedBytes (NPos) replaces everything
// up to the end.
//
// It is the one edit primitive: every other mutator calls it. The buffer and
// the multibyte table are rebuilt together and installed at once, so s is
// never observed half edited. A malformed replacement makes s malformed; a
// replacement never clears the flag. Borrowed storage is never written to.
func (s *String) RawReplace(byteStart, replacedBytes int, repl String) {
	size := len(s.buf)
	byteStart = min(max(byteStart, 0), size)
	if replacedBytes < 0 || replacedBytes > size-byteStart {
		replacedBytes = size - byteStart
	}
	end := byteStart + replacedBytes
	malformed := s.malformed || repl.malformed

	newLen := size - replacedBytes + len(repl.buf)
	if newLen == 0 {
		*s = String{malformed: malformed}
		return
	}
	if replacedBytes == 0 && len(repl.buf) == 0 {
		s.malformed = malformed
		return
	}

	buf := make([]byte, newLen)
	copy(buf, s.buf[:byteStart])
	copy(buf[byteStart:], repl.buf)
	copy(buf[byteStart+len(repl.buf):], s.buf[end:])

	// An edit that splits a sequence invalidates the classification of the
	// bytes around it, so derive everything from the new buffer instead.
	tailCut := end < size && codec.IsContinuation(s.buf[end])
	if s.cuts(byteStart) || continuationAt(buf, byteStart) || tailCut {
		_, broken := scanPrefix(buf, NPos)
		*s = build(buf, malformed || broken, owned)
		return
	}

	count := s.count - s.index.Count(byteStart, end, s.width) + repl.count
	table := s.index.Splice(byteStart, end, len(repl.buf), repl.index)
	*s = String{
		buf:       buf,
		count:     count,
		index:     table,
		malformed: malformed,
	}
}

// continuationAt reports whether a continuation byte sits at off, with off
// strictly inside buf.
func continuationAt(buf []byte, off int) bool {
	return off > 0 && off < len(buf) && codec.IsContinuation(buf[off])
}

// Replace replaces count codepoints starting at position pos with repl.
// A negative count (NPos) replaces everything up to the end.
func (s *String) Replace(pos, count int, repl String) {
	start := s.ByteOffset(pos)
	s.RawReplace(start, s.byteCount(start, count), repl)
}

// RawInsert inserts repl at byte offset off.
func (s *String) RawInsert(off int, repl String) {
	s.RawReplace(off, 0, repl)
}

// Insert inserts repl before the codepoint at position pos.
func (s *String) Insert(pos int, repl String) {
	s.RawInsert(s.ByteOffset(pos), repl)
}

// RawErase removes byteCount bytes starting at byte offset byteStart.
func (s *String) RawErase(byteStart, byteCount int) {
	s.RawReplace(byteStart, byteCount, String{})
}

// Erase removes count codepoints starting at position pos.
func (s *String) Erase(pos, count int) {
	s.Replace(pos, count, String{})
}

// Append adds repl to the end of s.
func (s *String) Append(repl String) {
	s.RawReplace(len(s.buf), 0, repl)
}

// AppendString adds str to the end of s.
func (s *String) AppendString(str string) {
	s.Append(FromString(str))
}

// PushBack adds the codepoint r to the end of s.
func (s *String) PushBack(r rune) {
	s.Append(FromRune(r))
}

// PopBack removes the last codepoint and returns it, or returns 0 if s is
// empty.
func (s *String) PopBack() rune {
	if s.IsEmpty() {
		return 0
	}
	off := s.backIndex()
	r := s.RawAt(off)
	s.RawErase(off, len(s.buf)-off)
	return r
}

// Set replaces the codepoint at position pos with r. Positions out of range
// are ignored.
func (s *String) Set(pos int, r rune) {
	if pos < 0 || pos >= s.count {
		return
	}
	s.Replace(pos, 1, FromRune(r))
}
