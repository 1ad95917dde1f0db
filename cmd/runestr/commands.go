package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/tidwall/sjson"

	"github.com/dshills/runestr/internal/logging"
	"github.com/dshills/runestr/internal/report"
	"github.com/dshills/runestr/internal/script"
	"github.com/dshills/runestr/internal/transcode"
	"github.com/dshills/runestr/internal/watch"
	"github.com/dshills/runestr/utf8str"
)

func (a *app) dispatch(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "inspect":
		return a.inspect(ctx, args)
	case "at":
		return a.at(ctx, args)
	case "find":
		return a.find(ctx, args)
	case "replace":
		return a.replace(ctx, args)
	case "run":
		return a.runScript(ctx, args)
	case "watch":
		return a.watch(ctx, args)
	case "version":
		printVersion(a.stdout)
		return nil
	}
	return usageErrorf("unknown command %q", cmd)
}

// load reads the input named by args[0], or stdin when it is absent or "-",
// and builds a string from it.
func (a *app) load(ctx context.Context, args []string) (utf8str.String, error) {
	name := "-"
	if len(args) > 0 {
		name = args[0]
	}
	if len(args) > 1 {
		return utf8str.String{}, usageErrorf("unexpected arguments %q", args[1:])
	}

	var (
		data []byte
		err  error
	)
	if name == "-" {
		data, err = io.ReadAll(a.stdin)
	} else {
		data, err = os.ReadFile(name)
	}
	if err != nil {
		return utf8str.String{}, fmt.Errorf("reading input: %w", err)
	}

	s, err := transcode.Decode(data, a.cfg.Inspect.Encoding, a.cfg.Inspect.MaxCodepoints)
	if err != nil {
		return utf8str.String{}, err
	}

	logging.FromContext(ctx).V(logging.DEBUG).Info("loaded input",
		"source", name,
		"bytes", s.Size(),
		"codepoints", s.Len(),
		"malformed", s.Malformed())
	return s, nil
}

func (a *app) inspect(ctx context.Context, args []string) error {
	s, err := a.load(ctx, args)
	if err != nil {
		return err
	}
	return a.writeReport(report.Build(&s, 0))
}

// writeReport prints r in the configured format.
func (a *app) writeReport(r report.Report) error {
	if a.cfg.Output.Format == "table" && a.opts.query == "" {
		return report.WriteTable(a.stdout, r)
	}

	doc, err := report.JSON(r)
	if err != nil {
		return err
	}
	return a.writeJSON(doc)
}

// writeJSON prints doc, or the result of the query flag applied to it.
func (a *app) writeJSON(doc []byte) error {
	if a.opts.query != "" {
		res, ok := report.Query(doc, a.opts.query)
		if !ok {
			return fmt.Errorf("query %q matched nothing", a.opts.query)
		}
		doc = []byte(res)
	}
	_, err := a.stdout.Write(report.Pretty(doc, a.color))
	return err
}

func (a *app) at(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return usageErrorf("at requires a position")
	}
	pos, err := strconv.Atoi(args[0])
	if err != nil {
		return usageErrorf("invalid position %q", args[0])
	}
	s, err := a.load(ctx, args[1:])
	if err != nil {
		return err
	}
	if pos < 0 || pos >= s.Len() {
		return fmt.Errorf("position %d out of range [0, %d)", pos, s.Len())
	}

	cp := s.At(pos)
	off := s.ByteOffset(pos)
	if a.cfg.Output.Format == "json" {
		doc := []byte(`{}`)
		for _, f := range []struct {
			path  string
			value any
		}{
			{"pos", pos},
			{"offset", off},
			{"width", s.WidthAt(off)},
			{"codepoint", report.FormatCodepoint(cp)},
			{"value", int64(cp)},
		} {
			if doc, err = sjson.SetBytes(doc, f.path, f.value); err != nil {
				return err
			}
		}
		return a.writeJSON(doc)
	}
	fmt.Fprintf(a.stdout, "%s\toffset %d\twidth %d\n", report.FormatCodepoint(cp), off, s.WidthAt(off))
	return nil
}

// parseCodepoint accepts a single character, U+XXXX or 0xXXXX.
func parseCodepoint(arg string) (rune, error) {
	if s := utf8str.FromString(arg); s.Len() == 1 && !s.Malformed() {
		return s.Front(), nil
	}
	upper := strings.ToUpper(arg)
	for _, prefix := range []string{"U+", "0X"} {
		if hex, ok := strings.CutPrefix(upper, prefix); ok {
			v, err := strconv.ParseUint(hex, 16, 31)
			if err != nil {
				break
			}
			return rune(v), nil
		}
	}
	return 0, usageErrorf("invalid codepoint %q (want a character, U+XXXX or 0xXXXX)", arg)
}

func (a *app) find(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return usageErrorf("find requires a codepoint")
	}
	cp, err := parseCodepoint(args[0])
	if err != nil {
		return err
	}
	s, err := a.load(ctx, args[1:])
	if err != nil {
		return err
	}

	positions := []int{}
	for p := s.Find(cp, 0); p != utf8str.NPos; p = s.Find(cp, p+1) {
		positions = append(positions, p)
	}

	if a.cfg.Output.Format == "json" {
		doc, err := sjson.SetBytes([]byte(`{}`), "codepoint", report.FormatCodepoint(cp))
		if err != nil {
			return err
		}
		if doc, err = sjson.SetBytes(doc, "positions", positions); err != nil {
			return err
		}
		return a.writeJSON(doc)
	}
	for _, p := range positions {
		fmt.Fprintln(a.stdout, p)
	}
	return nil
}

func (a *app) replace(ctx context.Context, args []string) error {
	if len(args) < 3 {
		return usageErrorf("replace requires <pos> <count> <text>")
	}
	pos, err := strconv.Atoi(args[0])
	if err != nil {
		return usageErrorf("invalid position %q", args[0])
	}
	count, err := strconv.Atoi(args[1])
	if err != nil {
		return usageErrorf("invalid count %q", args[1])
	}
	s, err := a.load(ctx, args[3:])
	if err != nil {
		return err
	}

	s.Replace(pos, count, utf8str.FromString(args[2]))
	if a.cfg.Output.Format == "json" {
		return a.writeReport(report.Build(&s, 0))
	}
	fmt.Fprintln(a.stdout, s.String())
	return nil
}

func (a *app) runScript(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return usageErrorf("run requires a script path")
	}
	s, err := a.load(ctx, args[1:])
	if err != nil {
		return err
	}

	state := script.NewState(
		script.WithInstructionLimit(a.cfg.Script.InstructionLimit),
		script.WithOutput(a.stdout),
		script.WithLogger(a.log),
	)
	defer state.Close()

	if err := state.SetString("input", s); err != nil {
		return err
	}
	if err := state.DoFile(ctx, args[0]); err != nil {
		return err
	}
	if result, ok := state.GetString("result"); ok {
		fmt.Fprintln(a.stdout, result.String())
	}
	return nil
}

func (a *app) watch(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usageErrorf("watch requires exactly one file")
	}
	w, err := watch.New(args[0], a.cfg.DebounceDuration())
	if err != nil {
		return err
	}

	if err := a.inspect(ctx, args); err != nil {
		return err
	}
	a.log.Info("watching for changes", "path", w.Path())

	return w.Run(ctx, func(ctx context.Context, ev watch.Event) error {
		logging.FromContext(ctx).V(logging.DEBUG).Info("file changed", "op", ev.Op.String())
		fmt.Fprintln(a.stdout)
		return a.inspect(ctx, args)
	})
}
