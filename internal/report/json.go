package report

import (
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"
)

// JSON encodes r as a compact JSON document:
//
//	{"size":5,"len":3,"graphemes":3,"malformed":false,"requires_unicode":true,
//	 "multibyte":[1],"rows":[{"pos":0,"offset":0,"width":1,"codepoint":"U+0061",
//	 "value":97,"display":1,"valid":true}, ...]}
func JSON(r Report) ([]byte, error) {
	doc := []byte(`{}`)
	set := func(path string, value any) error {
		var err error
		doc, err = sjson.SetBytes(doc, path, value)
		if err != nil {
			return fmt.Errorf("setting %s: %w", path, err)
		}
		return nil
	}

	fields := []struct {
		path  string
		value any
	}{
		{"size", r.Size},
		{"len", r.Len},
		{"graphemes", r.Graphemes},
		{"malformed", r.Malformed},
		{"requires_unicode", r.RequiresUnicode},
	}
	for _, f := range fields {
		if err := set(f.path, f.value); err != nil {
			return nil, err
		}
	}

	multibyte := r.MultibyteOffsets
	if multibyte == nil {
		multibyte = []int{}
	}
	if err := set("multibyte", multibyte); err != nil {
		return nil, err
	}

	rows := make([]byte, 0, 2+len(r.Rows)*96)
	rows = append(rows, '[')
	for i, row := range r.Rows {
		obj, err := rowJSON(row)
		if err != nil {
			return nil, err
		}
		if i > 0 {
			rows = append(rows, ',')
		}
		rows = append(rows, obj...)
	}
	rows = append(rows, ']')
	if err := setRaw(&doc, "rows", rows); err != nil {
		return nil, err
	}
	return doc, nil
}

// rowJSON encodes one row as an object.
func rowJSON(row Row) ([]byte, error) {
	fields := []struct {
		path  string
		value any
	}{
		{"pos", row.Pos},
		{"offset", row.Offset},
		{"width", row.Width},
		{"codepoint", FormatCodepoint(row.Codepoint)},
		{"value", int64(row.Codepoint)},
		{"display", row.Display},
		{"valid", row.Valid},
	}
	obj := []byte(`{}`)
	for _, f := range fields {
		var err error
		if obj, err = sjson.SetBytes(obj, f.path, f.value); err != nil {
			return nil, fmt.Errorf("setting row %s: %w", f.path, err)
		}
	}
	return obj, nil
}

func setRaw(doc *[]byte, path string, raw []byte) error {
	out, err := sjson.SetRawBytes(*doc, path, raw)
	if err != nil {
		return fmt.Errorf("setting %s: %w", path, err)
	}
	*doc = out
	return nil
}

// Query evaluates a gjson path against a JSON document and returns the raw
// JSON of the result. ok is false when the path matches nothing.
func Query(doc []byte, path string) (result string, ok bool) {
	res := gjson.GetBytes(doc, path)
	if !res.Exists() {
		return "", false
	}
	return res.Raw, true
}

// Pretty indents doc for reading, adding terminal colors when color is set.
func Pretty(doc []byte, color bool) []byte {
	out := pretty.Pretty(doc)
	if color {
		out = pretty.Color(out, nil)
	}
	return out
}
