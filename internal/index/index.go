// Package index maintains the multibyte offset table of a UTF-8 buffer.
//
// The table lists, in strictly ascending order, the byte offset of every
// codepoint that occupies more than one byte. Pure ASCII text needs no table.
// Translating a codepoint position into a byte offset only visits entries
// that precede the target, so the cost grows with the number of multibyte
// codepoints in front of it rather than with the length of the buffer.
//
// Tables are treated as immutable values: every edit builds a new one.
package index

import (
	"slices"

	"github.com/dshills/runestr/internal/codec"
)

// Table holds the byte offsets of multibyte codepoints, ascending.
type Table []int

// WidthFunc returns the byte length of the codepoint starting at off.
type WidthFunc func(off int) int

// linearSearchMax is the table size below which a linear scan beats
// binary search.
const linearSearchMax = 8

// Scan walks p from the start, classifying each codepoint with the trusting
// or validating classifier, and returns the table and the codepoint count.
// The table is nil when no codepoint occupies more than one byte.
func Scan(p []byte, validate bool) (Table, int) {
	var (
		t     Table
		count int
	)
	for off := 0; off < len(p); count++ {
		n := codec.LenAt(p, off, validate)
		if n > 1 {
			t = append(t, off)
		}
		off += n
	}
	return t, count
}

// Search returns the position of the first entry at or after off.
func (t Table) Search(off int) int {
	if len(t) <= linearSearchMax {
		for i, v := range t {
			if v >= off {
				return i
			}
		}
		return len(t)
	}
	i, _ := slices.BinarySearch(t, off)
	return i
}

// Span returns the half-open range [lo, hi) of entries whose offset lies in
// the byte range [start, end).
func (t Table) Span(start, end int) (lo, hi int) {
	lo = t.Search(start)
	hi = lo + t[lo:].Search(end)
	return lo, hi
}

// Overhead returns the number of bytes beyond one that the codepoints at
// entries [lo, hi) occupy.
func (t Table) Overhead(lo, hi int, width WidthFunc) int {
	extra := 0
	for _, off := range t[lo:hi] {
		extra += width(off) - 1
	}
	return extra
}

// ToByte translates the codepoint position pos into a byte offset. It walks
// the entries accumulating the overhead of each multibyte codepoint that
// starts before the position reached so far.
func (t Table) ToByte(pos int, width WidthFunc) int {
	extra := 0
	for _, off := range t {
		if off >= pos+extra {
			break
		}
		extra += width(off) - 1
	}
	return pos + extra
}

// Count returns the number of codepoints in the byte range [start, end),
// which must start and end on codepoint boundaries.
func (t Table) Count(start, end int, width WidthFunc) int {
	if end <= start {
		return 0
	}
	lo, hi := t.Span(start, end)
	return end - start - t.Overhead(lo, hi, width)
}

// Sub returns the entries inside the byte range [start, end), rebased so
// that start becomes offset zero.
func (t Table) Sub(start, end int) Table {
	lo, hi := t.Span(start, end)
	if lo == hi {
		return nil
	}
	out := make(Table, hi-lo)
	for i, off := range t[lo:hi] {
		out[i] = off - start
	}
	return out
}

// Splice returns the table that results from replacing the byte range
// [start, end) with replLen bytes whose own table is repl. Entries before the
// range are kept, entries inside it are dropped, the replacement's entries
// are shifted by start and the remaining entries are shifted by the change
// in length.
func (t Table) Splice(start, end, replLen int, repl Table) Table {
	lo, hi := t.Span(start, end)
	size := lo + len(repl) + len(t) - hi
	if size == 0 {
		return nil
	}

	delta := replLen - (end - start)
	out := make(Table, 0, size)
	out = append(out, t[:lo]...)
	for _, off := range repl {
		out = append(out, off+start)
	}
	for _, off := range t[hi:] {
		out = append(out, off+delta)
	}
	return out
}

// Clone returns a copy of t that shares no storage with it.
func (t Table) Clone() Table {
	if len(t) == 0 {
		return nil
	}
	return slices.Clone(t)
}

// Verify reports whether t is strictly ascending and every entry starts a
// codepoint of at least two bytes according to width.
func (t Table) Verify(width WidthFunc) bool {
	for i, off := range t {
		if i > 0 && off <= t[i-1] {
			return false
		}
		if width(off) < 2 {
			return false
		}
	}
	return true
}
