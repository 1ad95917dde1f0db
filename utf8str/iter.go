package utf8str

import (
	"iter"

	"github.com/dshills/runestr/internal/codec"
)

// Iterator walks a String forward one codepoint at a time.
//
// An Iterator is a byte offset paired with the string it reads. It is cheap
// to copy; copies move independently. Editing the string leaves existing
// iterators pointing at stale offsets.
type Iterator struct {
	s   *String
	off int
}

// Begin returns an iterator at the first codepoint.
func (s String) Begin() Iterator {
	return Iterator{s: &s}
}

// End returns the iterator one past the last codepoint.
func (s String) End() Iterator {
	return Iterator{s: &s, off: len(s.buf)}
}

// IterAt returns an iterator at position pos. Positions past the end yield End.
func (s String) IterAt(pos int) Iterator {
	return Iterator{s: &s, off: s.ByteOffset(pos)}
}

// RawIterAt returns an iterator at byte offset off.
func (s String) RawIterAt(off int) Iterator {
	return Iterator{s: &s, off: min(max(off, 0), len(s.buf))}
}

// Offset returns the byte offset of the current codepoint.
func (it Iterator) Offset() int {
	return it.off
}

// Valid returns true while the iterator points at a codepoint.
func (it Iterator) Valid() bool {
	return it.s != nil && it.off < len(it.s.buf)
}

// Value decodes the current codepoint. It returns 0 at End.
func (it Iterator) Value() rune {
	if !it.Valid() {
		return 0
	}
	r, _, _ := codec.Decode(it.s.buf[it.off:])
	return r
}

// Width returns the byte length of the current codepoint.
func (it Iterator) Width() int {
	return it.s.width(it.off)
}

// Next moves to the following codepoint and reports whether the iterator
// still points at one.
func (it *Iterator) Next() bool {
	if !it.Valid() {
		return false
	}
	it.off += it.s.width(it.off)
	return it.Valid()
}

// Prev moves to the preceding codepoint. It returns false, without moving,
// at the first codepoint.
func (it *Iterator) Prev() bool {
	if it.s == nil || it.off == 0 {
		return false
	}
	it.off -= it.s.widthBefore(it.off)
	return true
}

// Advance moves n codepoints forward, or backward for negative n, stopping
// at either end. The cost is linear in n.
func (it *Iterator) Advance(n int) {
	for ; n > 0 && it.Next(); n-- {
	}
	for ; n < 0 && it.Prev(); n++ {
	}
}

// Distance returns the number of codepoints from other to it: positive if it
// is ahead of other, negative if behind. Both must come from the same string.
func (it Iterator) Distance(other Iterator) int {
	lo, hi := min(it.off, other.off), max(it.off, other.off)
	n := it.s.countBetween(lo, hi)
	if it.off < other.off {
		return -n
	}
	return n
}

// ReverseIterator walks a String backward one codepoint at a time. Its
// offset is that of the current codepoint; REnd sits before the first
// codepoint at offset -1.
type ReverseIterator struct {
	s   *String
	off int
}

// RBegin returns a reverse iterator at the last codepoint.
func (s String) RBegin() ReverseIterator {
	if s.IsEmpty() {
		return ReverseIterator{s: &s, off: -1}
	}
	return ReverseIterator{s: &s, off: s.backIndex()}
}

// REnd returns the reverse iterator past the first codepoint.
func (s String) REnd() ReverseIterator {
	return ReverseIterator{s: &s, off: -1}
}

// RIterAt returns a reverse iterator at position pos. Positions past the end
// yield RBegin; negative positions yield REnd.
func (s String) RIterAt(pos int) ReverseIterator {
	if pos < 0 {
		return s.REnd()
	}
	if pos >= s.count {
		return s.RBegin()
	}
	return ReverseIterator{s: &s, off: s.ByteOffset(pos)}
}

// RawRIterAt returns a reverse iterator at byte offset off. Offsets past the
// end yield RBegin.
func (s String) RawRIterAt(off int) ReverseIterator {
	if off >= len(s.buf) {
		return s.RBegin()
	}
	return ReverseIterator{s: &s, off: max(off, -1)}
}

// Offset returns the byte offset of the current codepoint, -1 at REnd.
func (it ReverseIterator) Offset() int {
	return it.off
}

// Valid returns true while the iterator points at a codepoint.
func (it ReverseIterator) Valid() bool {
	return it.s != nil && it.off >= 0 && it.off < len(it.s.buf)
}

// Value decodes the current codepoint. It returns 0 at REnd.
func (it ReverseIterator) Value() rune {
	if !it.Valid() {
		return 0
	}
	r, _, _ := codec.Decode(it.s.buf[it.off:])
	return r
}

// Next moves to the preceding codepoint in the string and reports whether
// the iterator still points at one.
func (it *ReverseIterator) Next() bool {
	if !it.Valid() {
		return false
	}
	if it.off == 0 {
		it.off = -1
		return false
	}
	it.off -= it.s.widthBefore(it.off)
	return true
}

// Advance moves n codepoints toward the start of the string, stopping at REnd.
func (it *ReverseIterator) Advance(n int) {
	for ; n > 0 && it.Next(); n-- {
	}
}

// Distance returns the number of codepoints from other to it in reverse
// order: positive if it is closer to the start of the string than other.
func (it ReverseIterator) Distance(other ReverseIterator) int {
	lo, hi := min(it.off, other.off), max(it.off, other.off)
	n := 0
	if lo < 0 {
		// REnd counts as one step before offset 0.
		n = 1
		lo = 0
	}
	n += it.s.countBetween(lo, hi)
	if it.off > other.off {
		return -n
	}
	return n
}

// countBetween returns the number of codepoints in the byte range [lo, hi).
func (s String) countBetween(lo, hi int) int {
	if !s.RequiresUnicode() {
		return hi - lo
	}
	return s.index.Count(lo, hi, s.width)
}

// All returns an iterator over the byte offset and value of each codepoint.
func (s String) All() iter.Seq2[int, rune] {
	return func(yield func(int, rune) bool) {
		for it := s.Begin(); it.Valid(); it.Next() {
			if !yield(it.off, it.Value()) {
				return
			}
		}
	}
}

// Backward returns an iterator over the byte offset and value of each
// codepoint, last to first.
func (s String) Backward() iter.Seq2[int, rune] {
	return func(yield func(int, rune) bool) {
		for it := s.RBegin(); it.Valid(); it.Next() {
			if !yield(it.off, it.Value()) {
				return
			}
		}
	}
}
