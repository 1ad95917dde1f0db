package index

import (
	"slices"
	"strings"
	"testing"

	"github.com/dshills/runestr/internal/codec"
)

func widthOf(p []byte) WidthFunc {
	return func(off int) int { return codec.LenAt(p, off, false) }
}

func TestScan(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		validate bool
		table    Table
		count    int
	}{
		{"empty", "", false, nil, 0},
		{"ascii", "hello", false, nil, 5},
		{"euro in middle", "a€b", false, Table{1}, 3},
		{"mixed", "é日😀x", false, Table{0, 2, 5}, 4},
		{"broken pair validating", "\xe2\x82b", true, Table{0}, 2},
		{"broken first validating", "\xe2ab", true, nil, 3},
		{"stray continuation validating", "a\x80b", true, nil, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, count := Scan([]byte(tt.input), tt.validate)
			if !slices.Equal(table, tt.table) {
				t.Errorf("table = %v, want %v", table, tt.table)
			}
			if count != tt.count {
				t.Errorf("count = %d, want %d", count, tt.count)
			}
		})
	}
}

func TestToByte(t *testing.T) {
	s := []byte("aé日b😀c")
	table, count := Scan(s, false)
	width := widthOf(s)

	want := []int{0, 1, 3, 6, 7, 11}
	if count != len(want) {
		t.Fatalf("count = %d, want %d", count, len(want))
	}
	for pos, off := range want {
		if got := table.ToByte(pos, width); got != off {
			t.Errorf("ToByte(%d) = %d, want %d", pos, got, off)
		}
	}
}

func TestToByteASCII(t *testing.T) {
	var table Table
	for pos := 0; pos < 10; pos++ {
		if got := table.ToByte(pos, nil); got != pos {
			t.Errorf("ToByte(%d) = %d on empty table", pos, got)
		}
	}
}

func TestSearch(t *testing.T) {
	small := Table{2, 5, 9}
	large := make(Table, 0, 64)
	for i := 0; i < 64; i++ {
		large = append(large, i*3)
	}

	tests := []struct {
		name  string
		table Table
		off   int
		want  int
	}{
		{"small before all", small, 0, 0},
		{"small exact", small, 5, 1},
		{"small between", small, 6, 2},
		{"small after all", small, 10, 3},
		{"large exact", large, 30, 10},
		{"large between", large, 31, 11},
		{"large after all", large, 1000, 64},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.table.Search(tt.off); got != tt.want {
				t.Errorf("Search(%d) = %d, want %d", tt.off, got, tt.want)
			}
		})
	}
}

func TestSub(t *testing.T) {
	table := Table{1, 4, 8, 12}

	tests := []struct {
		start, end int
		want       Table
	}{
		{0, 20, Table{1, 4, 8, 12}},
		{4, 12, Table{0, 4}},
		{5, 8, nil},
		{2, 9, Table{2, 6}},
	}

	for _, tt := range tests {
		if got := table.Sub(tt.start, tt.end); !slices.Equal(got, tt.want) {
			t.Errorf("Sub(%d, %d) = %v, want %v", tt.start, tt.end, got, tt.want)
		}
	}
}

func TestSplice(t *testing.T) {
	tests := []struct {
		name       string
		table      Table
		start, end int
		replLen    int
		repl       Table
		want       Table
	}{
		{"replace multibyte with ascii", Table{1}, 1, 4, 1, nil, nil},
		{"insert multibyte at front", Table{1}, 0, 0, 3, Table{0}, Table{0, 4}},
		{"erase middle", Table{0, 3, 6, 9}, 3, 9, 0, nil, Table{0, 3}},
		{"grow in middle", Table{0, 10}, 5, 6, 4, Table{1}, Table{0, 6, 13}},
		{"empty everything", Table{0, 3}, 0, 6, 0, nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.table.Splice(tt.start, tt.end, tt.replLen, tt.repl)
			if !slices.Equal(got, tt.want) {
				t.Errorf("Splice = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSpliceMatchesRescan(t *testing.T) {
	base := "aé日b😀c€d"
	insert := "ñ✓"
	p := []byte(base)
	table, _ := Scan(p, false)
	repl, _ := Scan([]byte(insert), false)

	// Every pair of codepoint boundaries.
	var bounds []int
	for off := 0; off <= len(p); off += codec.LenAt(p, off, false) {
		bounds = append(bounds, off)
		if off == len(p) {
			break
		}
	}

	for _, start := range bounds {
		for _, end := range bounds {
			if end < start {
				continue
			}
			edited := base[:start] + insert + base[end:]
			want, _ := Scan([]byte(edited), false)
			got := table.Splice(start, end, len(insert), repl)
			if !slices.Equal(got, want) {
				t.Fatalf("Splice(%d, %d) = %v, rescan = %v", start, end, got, want)
			}
		}
	}
}

func TestCount(t *testing.T) {
	p := []byte(strings.Repeat("a€", 4))
	table, count := Scan(p, false)
	width := widthOf(p)

	if got := table.Count(0, len(p), width); got != count {
		t.Errorf("Count(all) = %d, want %d", got, count)
	}
	if got := table.Count(1, 8, width); got != 3 {
		t.Errorf("Count(1, 8) = %d, want 3", got)
	}
	if got := table.Count(5, 5, width); got != 0 {
		t.Errorf("Count(empty) = %d, want 0", got)
	}
}

func TestVerify(t *testing.T) {
	p := []byte("a€b€")
	width := widthOf(p)

	if !(Table{1, 5}).Verify(width) {
		t.Error("valid table rejected")
	}
	if (Table{5, 1}).Verify(width) {
		t.Error("descending table accepted")
	}
	if (Table{0}).Verify(width) {
		t.Error("single-byte entry accepted")
	}
}
