package codec

// Decode decodes the sequence at the start of p and returns the codepoint,
// the number of bytes consumed and whether the sequence was well formed.
//
// Continuation bytes are always validated, and Decode never reads past the
// end of p. An empty p decodes to (0, 0, true).
func Decode(p []byte) (r rune, n int, ok bool) {
	if len(p) == 0 {
		return 0, 0, true
	}

	lead := p[0]
	if lead <= max1 {
		return rune(lead), 1, true
	}

	n = LeadLen(lead)
	if n == 0 {
		return rune(lead), 1, false
	}

	// The lead keeps 7-n payload bits.
	r = rune(lead & (0x7F >> n))
	for i := 1; i < n; i++ {
		if i >= len(p) || !IsContinuation(p[i]) {
			if i == 1 {
				return rune(lead), 1, false
			}
			return FallbackCodepoint, i, false
		}
		r = r<<6 | rune(p[i]&payload)
	}
	return r, n, true
}

// ValidBytes reports whether p holds a whole number of well-formed sequences.
func ValidBytes(p []byte) bool {
	for i := 0; i < len(p); {
		_, n, ok := Decode(p[i:])
		if !ok {
			return false
		}
		i += n
	}
	return true
}
