package utf8str

import "slices"

// Lookups run a linear scan from a start position and decode one codepoint
// per step. Positional variants take and return codepoint positions and
// translate the start once; Raw variants take and return byte offsets. All
// of them return NPos when nothing matches.

// Find returns the position of the first r at or after position start.
func (s String) Find(r rune, start int) int {
	return s.scanForward(start, func(c rune) bool { return c == r })
}

// RawFind returns the byte offset of the first r at or after byteStart.
func (s String) RawFind(r rune, byteStart int) int {
	return s.rawScanForward(byteStart, func(c rune) bool { return c == r })
}

// RFind returns the position of the last r at or before position start.
// A start past the end, or NPos, searches the whole string.
func (s String) RFind(r rune, start int) int {
	return s.scanBackward(start, func(c rune) bool { return c == r })
}

// RawRFind returns the byte offset of the last r at or before byteStart.
func (s String) RawRFind(r rune, byteStart int) int {
	return s.rawScanBackward(byteStart, func(c rune) bool { return c == r })
}

// FindFirstOf returns the position of the first codepoint at or after start
// that is in set.
func (s String) FindFirstOf(set []rune, start int) int {
	return s.scanForward(start, inSet(set))
}

// RawFindFirstOf is the byte offset variant of FindFirstOf.
func (s String) RawFindFirstOf(set []rune, byteStart int) int {
	return s.rawScanForward(byteStart, inSet(set))
}

// FindLastOf returns the position of the last codepoint at or before start
// that is in set.
func (s String) FindLastOf(set []rune, start int) int {
	return s.scanBackward(start, inSet(set))
}

// RawFindLastOf is the byte offset variant of FindLastOf.
func (s String) RawFindLastOf(set []rune, byteStart int) int {
	return s.rawScanBackward(byteStart, inSet(set))
}

// FindFirstNotOf returns the position of the first codepoint at or after
// start that is not in set.
func (s String) FindFirstNotOf(set []rune, start int) int {
	return s.scanForward(start, notInSet(set))
}

// RawFindFirstNotOf is the byte offset variant of FindFirstNotOf.
func (s String) RawFindFirstNotOf(set []rune, byteStart int) int {
	return s.rawScanForward(byteStart, notInSet(set))
}

// FindLastNotOf returns the position of the last codepoint at or before start
// that is not in set.
func (s String) FindLastNotOf(set []rune, start int) int {
	return s.scanBackward(start, notInSet(set))
}

// RawFindLastNotOf is the byte offset variant of FindLastNotOf.
func (s String) RawFindLastNotOf(set []rune, byteStart int) int {
	return s.rawScanBackward(byteStart, notInSet(set))
}

// Contains returns true if r occurs anywhere in s.
func (s String) Contains(r rune) bool {
	return s.RawFind(r, 0) != NPos
}

func inSet(set []rune) func(rune) bool {
	return func(c rune) bool { return slices.Contains(set, c) }
}

func notInSet(set []rune) func(rune) bool {
	return func(c rune) bool { return !slices.Contains(set, c) }
}

func (s String) scanForward(start int, match func(rune) bool) int {
	start = max(start, 0)
	if start >= s.count {
		return NPos
	}
	pos := start
	for it := s.IterAt(start); it.Valid(); it.Next() {
		if match(it.Value()) {
			return pos
		}
		pos++
	}
	return NPos
}

func (s String) scanBackward(start int, match func(rune) bool) int {
	if s.count == 0 {
		return NPos
	}
	if start < 0 || start >= s.count {
		start = s.count - 1
	}
	pos := start
	for it := s.RIterAt(start); it.Valid(); it.Next() {
		if match(it.Value()) {
			return pos
		}
		pos--
	}
	return NPos
}

func (s String) rawScanForward(byteStart int, match func(rune) bool) int {
	for off := max(byteStart, 0); off < len(s.buf); off += s.width(off) {
		if match(s.RawAt(off)) {
			return off
		}
	}
	return NPos
}

func (s String) rawScanBackward(byteStart int, match func(rune) bool) int {
	if s.IsEmpty() {
		return NPos
	}
	if byteStart < 0 || byteStart >= len(s.buf) {
		byteStart = s.backIndex()
	}
	for it := s.RawRIterAt(byteStart); it.Valid(); it.Next() {
		if match(it.Value()) {
			return it.off
		}
	}
	return NPos
}
