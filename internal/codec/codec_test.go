package codec

import (
	"bytes"
	"testing"
	"testing/quick"
	"unicode/utf8"
)

func TestEncodedLen(t *testing.T) {
	tests := []struct {
		r    rune
		want int
	}{
		{-1, 0},
		{0, 1},
		{'A', 1},
		{0x7F, 1},
		{0x80, 2},
		{0x7FF, 2},
		{0x800, 3},
		{0x20AC, 3},
		{0xFFFF, 3},
		{0x10000, 4},
		{0x1F600, 4},
		{0x1FFFFF, 4},
		{0x200000, 5},
		{0x3FFFFFF, 5},
		{0x4000000, 6},
		{MaxCodepoint, 6},
	}

	for _, tt := range tests {
		if got := EncodedLen(tt.r); got != tt.want {
			t.Errorf("EncodedLen(%#x) = %d, want %d", tt.r, got, tt.want)
		}
	}
}

func TestEncode(t *testing.T) {
	tests := []struct {
		name string
		r    rune
		want []byte
	}{
		{"ascii", 'a', []byte{'a'}},
		{"nul", 0, []byte{0}},
		{"two bytes", 0xE9, []byte{0xC3, 0xA9}},
		{"euro", 0x20AC, []byte{0xE2, 0x82, 0xAC}},
		{"emoji", 0x1F600, []byte{0xF0, 0x9F, 0x98, 0x80}},
		{"five bytes", 0x200000, []byte{0xF8, 0x88, 0x80, 0x80, 0x80}},
		{"six bytes max", MaxCodepoint, []byte{0xFD, 0xBF, 0xBF, 0xBF, 0xBF, 0xBF}},
		{"out of domain", -5, []byte{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf [MaxLen]byte
			n := Encode(buf[:], tt.r)
			if !bytes.Equal(buf[:n], tt.want) {
				t.Errorf("Encode(%#x) = % x, want % x", tt.r, buf[:n], tt.want)
			}
		})
	}
}

func TestEncodeMatchesStdlib(t *testing.T) {
	for _, r := range []rune{0, 'z', 0x7FF, 0x800, 0xD7FF, 0xE000, 0xFFFD, 0x10FFFF} {
		got := AppendRune(nil, r)
		want := utf8.AppendRune(nil, r)
		if !bytes.Equal(got, want) {
			t.Errorf("AppendRune(%#x) = % x, want % x", r, got, want)
		}
	}
}

func TestDecodeRoundTrip(t *testing.T) {
	f := func(v uint32) bool {
		r := rune(v & uint32(MaxCodepoint))
		enc := AppendRune(nil, r)
		got, n, ok := Decode(enc)
		return ok && got == r && n == len(enc) && n == EncodedLen(r)
	}
	if err := quick.Check(f, nil); err != nil {
		t.Error(err)
	}

	// Boundaries of every length class.
	for _, r := range []rune{0x7F, 0x80, 0x7FF, 0x800, 0xFFFF, 0x10000, 0x1FFFFF, 0x200000, 0x3FFFFFF, 0x4000000, MaxCodepoint} {
		enc := AppendRune(nil, r)
		got, n, ok := Decode(enc)
		if !ok || got != r || n != len(enc) {
			t.Errorf("Decode(Encode(%#x)) = (%#x, %d, %v)", r, got, n, ok)
		}
	}
}

func TestDecodeMalformed(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
		r     rune
		n     int
		ok    bool
	}{
		{"empty", nil, 0, 0, true},
		{"nul", []byte{0}, 0, 1, true},
		{"lone continuation", []byte{0x80, 'a'}, 0x80, 1, false},
		{"invalid lead 0xFE", []byte{0xFE}, 0xFE, 1, false},
		{"invalid lead 0xFF", []byte{0xFF, 0x80}, 0xFF, 1, false},
		{"truncated lead at end", []byte{0xE2}, 0xE2, 1, false},
		{"first continuation invalid", []byte{0xE2, 'a', 'b'}, 0xE2, 1, false},
		{"first continuation nul", []byte{0xC3, 0x00}, 0xC3, 1, false},
		{"three byte truncated after one", []byte{0xE2, 0x82}, FallbackCodepoint, 2, false},
		{"three byte broken after one", []byte{0xE2, 0x82, 'b'}, FallbackCodepoint, 2, false},
		{"four byte broken after two", []byte{0xF0, 0x9F, 0x98, 'x'}, FallbackCodepoint, 3, false},
		{"six byte truncated", []byte{0xFC, 0x80, 0x80}, FallbackCodepoint, 3, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, n, ok := Decode(tt.input)
			if r != tt.r || n != tt.n || ok != tt.ok {
				t.Errorf("Decode(% x) = (%#x, %d, %v), want (%#x, %d, %v)",
					tt.input, r, n, ok, tt.r, tt.n, tt.ok)
			}
		})
	}
}

func TestValidBytes(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"", true},
		{"hello", true},
		{"a€b", true},
		{"日本語", true},
		{"\xe2\x82", false},
		{"a\x80b", false},
		{"\xff", false},
	}

	for _, tt := range tests {
		if got := ValidBytes([]byte(tt.input)); got != tt.want {
			t.Errorf("ValidBytes(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestLeadLen(t *testing.T) {
	tests := []struct {
		b    byte
		want int
	}{
		{0x00, 1},
		{0x7F, 1},
		{0x80, 0},
		{0xBF, 0},
		{0xC0, 2},
		{0xDF, 2},
		{0xE0, 3},
		{0xEF, 3},
		{0xF0, 4},
		{0xF7, 4},
		{0xF8, 5},
		{0xFB, 5},
		{0xFC, 6},
		{0xFD, 6},
		{0xFE, 0},
		{0xFF, 0},
	}

	for _, tt := range tests {
		if got := LeadLen(tt.b); got != tt.want {
			t.Errorf("LeadLen(%#x) = %d, want %d", tt.b, got, tt.want)
		}
	}
}
