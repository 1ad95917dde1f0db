package config

import (
	"errors"
	"testing"
)

func envFrom(vars map[string]string) func(string) (string, bool) {
	return func(name string) (string, bool) {
		v, ok := vars[name]
		return v, ok
	}
}

func TestEnvLoader_Apply(t *testing.T) {
	l := NewEnvLoader(DefaultEnvPrefix)
	l.lookup = envFrom(map[string]string{
		"RUNESTR_LOG_LEVEL":         "warn",
		"RUNESTR_MAX_CODEPOINTS":    "10",
		"RUNESTR_COLOR":             "ALWAYS",
		"RUNESTR_INSTRUCTION_LIMIT": "99",
		"RUNESTR_DEBOUNCE":          "50ms",
		"OTHER_LOG_LEVEL":           "error",
	})

	cfg := Default()
	if err := l.Apply(cfg); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("Level = %q", cfg.Logging.Level)
	}
	if cfg.Inspect.MaxCodepoints != 10 {
		t.Errorf("MaxCodepoints = %d", cfg.Inspect.MaxCodepoints)
	}
	if cfg.Output.Color != "always" {
		t.Errorf("Color = %q", cfg.Output.Color)
	}
	if cfg.Script.InstructionLimit != 99 {
		t.Errorf("InstructionLimit = %d", cfg.Script.InstructionLimit)
	}
	if cfg.Watch.Debounce != "50ms" {
		t.Errorf("Debounce = %q", cfg.Watch.Debounce)
	}
	if cfg.Output.Format != "table" {
		t.Errorf("unset variable changed Format to %q", cfg.Output.Format)
	}
}

func TestEnvLoader_BadValue(t *testing.T) {
	l := NewEnvLoader(DefaultEnvPrefix)
	l.lookup = envFrom(map[string]string{"RUNESTR_MAX_CODEPOINTS": "lots"})

	if err := l.Apply(Default()); !errors.Is(err, ErrInvalidValue) {
		t.Errorf("Apply() = %v, want ErrInvalidValue", err)
	}
}

func TestEnvLoader_RealEnvironment(t *testing.T) {
	t.Setenv("RUNESTR_ENCODING", "utf-16le")

	cfg := Default()
	if err := NewEnvLoader(DefaultEnvPrefix).Apply(cfg); err != nil {
		t.Fatal(err)
	}
	if cfg.Inspect.Encoding != "utf-16le" {
		t.Errorf("Encoding = %q", cfg.Inspect.Encoding)
	}
}
