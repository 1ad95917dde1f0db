package script

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dshills/runestr/utf8str"
)

func newTestState(t *testing.T, opts ...StateOption) (*State, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	s := NewState(append([]StateOption{WithOutput(&out)}, opts...)...)
	t.Cleanup(func() { s.Close() })
	return s, &out
}

func TestDoString(t *testing.T) {
	s, out := newTestState(t)

	err := s.DoString(context.Background(), `
		local s = utf8str.new("a€b")
		print(#s, s:size(), s:len())
		s:replace(1, 1, "X")
		print(s, s:find("b"))
	`)
	if err != nil {
		t.Fatalf("DoString failed: %v", err)
	}
	if want := "3\t5\t3\naXb\t2\n"; out.String() != want {
		t.Errorf("output = %q, want %q", out.String(), want)
	}
}

func TestModuleFunctions(t *testing.T) {
	tests := []struct {
		name string
		code string
	}{
		{"rep", `assert(tostring(utf8str.rep(2, 0x20AC)) == "€€")`},
		{"rep char", `assert(tostring(utf8str.rep(3, "A")) == "AAA")`},
		{"from_codepoints", `assert(tostring(utf8str.from_codepoints({0x61, 0x65E5})) == "a日")`},
		{"largest codepoint", `assert(utf8str.from_codepoints({0x7FFFFFFF}):size() == 6)`},
		{"empty new", `assert(utf8str.new():len() == 0)`},
		{"at", `local s = utf8str.new("a€b"); assert(s:at(1) == 0x20AC and s:at(3) == nil)`},
		{"raw_at", `local s = utf8str.new("a€b"); assert(s:raw_at(4) == 0x62 and s:raw_at(-1) == nil)`},
		{"sub", `local s = utf8str.new("日本語"); assert(tostring(s:sub(1)) == "本語" and tostring(s:sub(0, 1)) == "日")`},
		{"insert erase", `local s = utf8str.new("ac"); s:insert(1, "b"); s:erase(0, 1); assert(tostring(s) == "bc")`},
		{"chaining", `assert(tostring(utf8str.new("a"):append("b"):append(utf8str.new("€"))) == "ab€")`},
		{"find nil", `local s = utf8str.new("hello"); assert(s:find("z") == nil and s:find_first_of("xyz") == nil)`},
		{"rfind", `local s = utf8str.new("a€b€"); assert(s:rfind(0x20AC) == 3 and s:rfind("€", 2) == 1)`},
		{"sets", `local s = utf8str.new("a€b€c")
			assert(s:find_first_of({0x62, 0x63}) == 2)
			assert(s:find_last_of("ab") == 2)
			assert(s:find_first_not_of("a€") == 2)
			assert(s:find_last_not_of("c€") == 2)`},
		{"codepoints", `local t = utf8str.new("a€"):codepoints(); assert(#t == 2 and t[1] == 0x61 and t[2] == 0x20AC)`},
		{"concat eq", `local a = utf8str.new("ab"); assert(a .. "c" == utf8str.new("abc")); assert("x" .. a == utf8str.new("xab"))`},
		{"malformed", `assert(not utf8str.new("ok"):malformed())`},
		{"require", `local m = require("utf8str"); assert(m == utf8str); assert(require("string") == string)`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := newTestState(t)
			if err := s.DoString(context.Background(), tt.code); err != nil {
				t.Fatalf("script failed: %v", err)
			}
		})
	}
}

func TestModuleArgumentErrors(t *testing.T) {
	scripts := []string{
		`utf8str.rep(-1, "a")`,
		`utf8str.rep(1, "ab")`,
		`utf8str.from_codepoints({-5})`,
		`utf8str.from_codepoints({2^32})`,
		`utf8str.from_codepoints({97.5})`,
		`utf8str.rep(2, 2^31)`,
		`utf8str.new("a"):find(-1)`,
		`utf8str.new("a"):find_first_of({0x80000000})`,
		`utf8str.new("a"):find({})`,
		`utf8str.new("a"):find_first_of(42)`,
		`utf8str.new({})`,
	}
	for _, code := range scripts {
		s, _ := newTestState(t)
		if err := s.DoString(context.Background(), code); err == nil {
			t.Errorf("%s: expected error", code)
		}
	}
}

func TestSandbox(t *testing.T) {
	scripts := map[string]string{
		"dofile":     `dofile("/etc/passwd")`,
		"loadstring": `loadstring("return 1")()`,
		"require io": `require("io")`,
		"os":         `os.exit(1)`,
		"io":         `io.open("/etc/passwd")`,
	}
	for name, code := range scripts {
		t.Run(name, func(t *testing.T) {
			s, _ := newTestState(t)
			if err := s.DoString(context.Background(), code); err == nil {
				t.Error("expected sandbox to reject the script")
			}
		})
	}
}

func TestInstructionLimit(t *testing.T) {
	s, _ := newTestState(t, WithInstructionLimit(10))

	err := s.DoString(context.Background(), `
		local s = utf8str.new("abc")
		for i = 1, 100 do s:len() end
	`)
	if !errors.Is(err, ErrInstructionLimit) {
		t.Fatalf("error = %v, want ErrInstructionLimit", err)
	}

	// The budget is per run.
	if err := s.DoString(context.Background(), `utf8str.new("x"):len()`); err != nil {
		t.Errorf("second run failed: %v", err)
	}
	if n := s.Sandbox().InstructionCount(); n != 2 {
		t.Errorf("InstructionCount() = %d, want 2", n)
	}
}

func TestExecutionTimeout(t *testing.T) {
	s, _ := newTestState(t, WithExecutionTimeout(50*time.Millisecond))

	err := s.DoString(context.Background(), `while true do end`)
	if !errors.Is(err, ErrExecutionTimeout) {
		t.Fatalf("error = %v, want ErrExecutionTimeout", err)
	}
}

func TestCanceledContext(t *testing.T) {
	s, _ := newTestState(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := s.DoString(ctx, `while true do end`)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("error = %v, want context.Canceled", err)
	}
}

func TestSyntaxError(t *testing.T) {
	s, _ := newTestState(t)
	err := s.DoString(context.Background(), `local = 1`)
	if err == nil || errors.Is(err, ErrInstructionLimit) || errors.Is(err, ErrExecutionTimeout) {
		t.Fatalf("error = %v, want plain script error", err)
	}
	if !strings.Contains(err.Error(), "<string>") {
		t.Errorf("error should name the chunk: %v", err)
	}
}

func TestSetGetString(t *testing.T) {
	s, _ := newTestState(t)

	input := utf8str.FromString("日本")
	if err := s.SetString("input", input); err != nil {
		t.Fatal(err)
	}
	if err := s.DoString(context.Background(), `input:append("語"); result = input:len()`); err != nil {
		t.Fatalf("DoString failed: %v", err)
	}

	got, ok := s.GetString("input")
	if !ok || got.String() != "日本語" {
		t.Errorf("GetString = %q, %v", got.String(), ok)
	}
	if input.String() != "日本" {
		t.Errorf("script modified the caller's string: %q", input.String())
	}
	if _, ok := s.GetString("result"); ok {
		t.Error("number global should not convert to a string")
	}

	if err := s.DoString(context.Background(), `plain = "héllo"`); err != nil {
		t.Fatal(err)
	}
	if got, ok := s.GetString("plain"); !ok || got.Len() != 5 {
		t.Errorf("plain Lua string = %q, %v", got.String(), ok)
	}
}

func TestMalformedInput(t *testing.T) {
	s, _ := newTestState(t)
	if err := s.SetString("input", utf8str.FromBytes([]byte("a\xffb"), utf8str.NPos)); err != nil {
		t.Fatal(err)
	}
	if err := s.DoString(context.Background(), `assert(input:malformed() and input:len() == 3)`); err != nil {
		t.Fatalf("script failed: %v", err)
	}
}

func TestDoFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "upper.lua")
	code := `print(utf8str.new("€"):size())`
	if err := os.WriteFile(path, []byte(code), 0o644); err != nil {
		t.Fatal(err)
	}

	s, out := newTestState(t)
	if err := s.DoFile(context.Background(), path); err != nil {
		t.Fatalf("DoFile failed: %v", err)
	}
	if out.String() != "3\n" {
		t.Errorf("output = %q", out.String())
	}

	if err := s.DoFile(context.Background(), filepath.Join(t.TempDir(), "missing.lua")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestClosedState(t *testing.T) {
	s := NewState()
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}
	if !s.IsClosed() {
		t.Error("IsClosed() = false after Close")
	}
	if err := s.DoString(context.Background(), `x = 1`); !errors.Is(err, ErrStateClosed) {
		t.Errorf("DoString after Close = %v", err)
	}
	if err := s.SetString("x", utf8str.String{}); !errors.Is(err, ErrStateClosed) {
		t.Errorf("SetString after Close = %v", err)
	}
	if err := s.Close(); err != nil {
		t.Errorf("second Close = %v", err)
	}
}
