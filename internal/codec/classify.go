package codec

// LenAt returns the byte length of the sequence starting at off.
//
// In trusting mode (validate false) only the leading byte's pattern is read.
// In validating mode each announced continuation byte is checked and the
// result matches the n returned by Decode. Offsets at or beyond len(p) and
// bytes that are not leading bytes report 1. The result never extends past
// the end of p.
func LenAt(p []byte, off int, validate bool) int {
	if off < 0 || off >= len(p) {
		return 1
	}

	n := LeadLen(p[off])
	if n <= 1 {
		return 1
	}
	if !validate {
		if rest := len(p) - off; n > rest {
			return rest
		}
		return n
	}
	for i := 1; i < n; i++ {
		if off+i >= len(p) || !IsContinuation(p[off+i]) {
			return i
		}
	}
	return n
}

// LenBefore returns the byte length of the sequence that ends right before
// off. It looks back at most MaxLen bytes for a leading byte whose sequence
// ends exactly at off; if none is found the previous byte stands alone and
// 1 is returned. Offsets beyond len(p) are clamped. It returns 0 at the
// start of p.
//
// Validating mode accepts a candidate only if LenAt in validating mode
// agrees with its distance from off, so walking backwards visits the same
// boundaries as walking forwards.
func LenBefore(p []byte, off int, validate bool) int {
	if off > len(p) {
		off = len(p)
	}
	if off <= 0 {
		return 0
	}
	if !IsContinuation(p[off-1]) {
		return 1
	}

	for k := 2; k <= MaxLen && off-k >= 0; k++ {
		b := p[off-k]
		if IsContinuation(b) {
			continue
		}
		if validate {
			if LenAt(p, off-k, true) == k {
				return k
			}
		} else if LeadLen(b) == k {
			return k
		}
		return 1
	}
	return 1
}
