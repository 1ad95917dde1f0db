// Package report describes the layout of a utf8str string: where each
// codepoint lives in the buffer, how wide it is in bytes and on screen, and
// which offsets the multibyte table holds.
package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/rivo/uniseg"

	"github.com/dshills/runestr/internal/codec"
	"github.com/dshills/runestr/utf8str"
)

// Row describes one codepoint.
type Row struct {
	Pos       int  // Logical position
	Offset    int  // Byte offset
	Width     int  // Byte length
	Codepoint rune // Decoded value
	Display   int  // Terminal cells
	Valid     bool // Sequence is well formed
}

// Report is the layout of a whole string.
type Report struct {
	Size             int
	Len              int
	Graphemes        int
	Malformed        bool
	RequiresUnicode  bool
	MultibyteOffsets []int
	Rows             []Row
}

// Build walks s once and records a row per codepoint. A positive limit
// stops after that many rows; totals always cover the whole string.
func Build(s *utf8str.String, limit int) Report {
	r := Report{
		Size:             s.Size(),
		Len:              s.Len(),
		Graphemes:        uniseg.GraphemeClusterCount(s.String()),
		Malformed:        s.Malformed(),
		RequiresUnicode:  s.RequiresUnicode(),
		MultibyteOffsets: s.MultibyteOffsets(),
	}

	buf := s.Bytes()
	pos := 0
	for off, cp := range s.All() {
		if limit > 0 && pos >= limit {
			break
		}
		_, _, ok := codec.Decode(buf[off:])
		r.Rows = append(r.Rows, Row{
			Pos:       pos,
			Offset:    off,
			Width:     s.WidthAt(off),
			Codepoint: cp,
			Display:   displayWidth(cp, ok),
			Valid:     ok,
		})
		pos++
	}
	return r
}

// displayWidth returns the terminal cells taken by cp. Bytes that failed to
// decode print as a replacement character.
func displayWidth(cp rune, ok bool) int {
	if !ok {
		return 1
	}
	return uniseg.StringWidth(string(cp))
}

// FormatCodepoint renders cp as U+XXXX, with at least four hex digits.
func FormatCodepoint(cp rune) string {
	return fmt.Sprintf("U+%04X", cp)
}

// glyph returns a printable form of the row's codepoint for the table view.
func glyph(row Row) string {
	switch {
	case !row.Valid:
		return "�"
	case row.Codepoint < 0x20 || row.Codepoint == 0x7F:
		return "."
	case row.Codepoint > 0x10FFFF:
		return "?"
	}
	return string(row.Codepoint)
}

// WriteTable renders r as an aligned text table.
func WriteTable(w io.Writer, r Report) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "size\t%d bytes\n", r.Size)
	fmt.Fprintf(tw, "length\t%d codepoints\n", r.Len)
	fmt.Fprintf(tw, "graphemes\t%d\n", r.Graphemes)
	fmt.Fprintf(tw, "malformed\t%t\n", r.Malformed)
	fmt.Fprintf(tw, "multibyte\t%s\n", joinInts(r.MultibyteOffsets))
	fmt.Fprintln(tw)

	fmt.Fprintln(tw, "POS\tOFFSET\tBYTES\tCODEPOINT\tCELLS\tCHAR")
	for _, row := range r.Rows {
		mark := ""
		if !row.Valid {
			mark = " !"
		}
		fmt.Fprintf(tw, "%d\t%d\t%d\t%s%s\t%d\t%s\n",
			row.Pos, row.Offset, row.Width, FormatCodepoint(row.Codepoint), mark, row.Display, glyph(row))
	}
	if len(r.Rows) < r.Len {
		fmt.Fprintf(tw, "...\t\t\t(%d more)\t\t\n", r.Len-len(r.Rows))
	}
	return tw.Flush()
}

func joinInts(vals []int) string {
	if len(vals) == 0 {
		return "-"
	}
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = fmt.Sprint(v)
	}
	return strings.Join(parts, " ")
}
