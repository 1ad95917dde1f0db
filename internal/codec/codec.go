package codec

// Encoding limits.
const (
	// MaxLen is the longest sequence the codec reads or writes.
	MaxLen = 6

	// MaxCodepoint is the largest value representable in six bytes.
	MaxCodepoint rune = 0x7FFFFFFF

	// FallbackCodepoint replaces sequences that break after at least one
	// valid continuation byte.
	FallbackCodepoint rune = 0xFFFD
)

// Upper bounds of each sequence length.
const (
	max1 = 0x7F
	max2 = 0x7FF
	max3 = 0xFFFF
	max4 = 0x1FFFFF
	max5 = 0x3FFFFFF
)

// Bit patterns.
const (
	contMask = 0xC0 // 11000000
	contBits = 0x80 // 10000000
	payload  = 0x3F // 00111111
)

// Valid reports whether r is inside the encodable domain [0, MaxCodepoint].
// rune is an int32, so only negative values fall outside.
func Valid(r rune) bool {
	return r >= 0
}

// EncodedLen returns the number of bytes needed to encode r.
// It returns 0 if r is outside the encodable domain.
func EncodedLen(r rune) int {
	switch {
	case r < 0:
		return 0
	case r <= max1:
		return 1
	case r <= max2:
		return 2
	case r <= max3:
		return 3
	case r <= max4:
		return 4
	case r <= max5:
		return 5
	default:
		return 6
	}
}

// Encode writes the encoding of r into dst and returns the number of bytes
// written. dst must have room for EncodedLen(r) bytes. Values outside the
// encodable domain write nothing and return 0.
func Encode(dst []byte, r rune) int {
	n := EncodedLen(r)
	switch n {
	case 0:
		return 0
	case 1:
		dst[0] = byte(r)
		return 1
	}

	// Fill continuation bytes from the end, six payload bits each.
	v := uint32(r)
	for i := n - 1; i > 0; i-- {
		dst[i] = contBits | byte(v&payload)
		v >>= 6
	}
	dst[0] = leadBits(n) | byte(v)
	return n
}

// AppendRune appends the encoding of r to dst.
func AppendRune(dst []byte, r rune) []byte {
	var tmp [MaxLen]byte
	n := Encode(tmp[:], r)
	return append(dst, tmp[:n]...)
}

// leadBits returns the length prefix of a leading byte: n-1 ones followed by
// a zero, left aligned. Single bytes carry no prefix.
func leadBits(n int) byte {
	if n <= 1 {
		return 0
	}
	return ^(byte(0xFF) >> n)
}

// LeadLen classifies a leading byte by bit pattern alone. It returns the
// announced sequence length (1-6), or 0 if b is not a leading byte
// (a continuation byte, 0xFE or 0xFF).
func LeadLen(b byte) int {
	switch {
	case b <= max1:
		return 1
	case b&0xE0 == 0xC0: // 110xxxxx
		return 2
	case b&0xF0 == 0xE0: // 1110xxxx
		return 3
	case b&0xF8 == 0xF0: // 11110xxx
		return 4
	case b&0xFC == 0xF8: // 111110xx
		return 5
	case b&0xFE == 0xFC: // 1111110x
		return 6
	default:
		return 0
	}
}

// IsContinuation reports whether b has the 10xxxxxx continuation prefix.
func IsContinuation(b byte) bool {
	return b&contMask == contBits
}
