package config

import (
	"errors"
	"slices"
	"strings"
	"time"
)

// Config is the complete runestr configuration.
type Config struct {
	Logging LoggingConfig `toml:"logging" yaml:"logging"`
	Inspect InspectConfig `toml:"inspect" yaml:"inspect"`
	Output  OutputConfig  `toml:"output" yaml:"output"`
	Script  ScriptConfig  `toml:"script" yaml:"script"`
	Watch   WatchConfig   `toml:"watch" yaml:"watch"`
}

// LoggingConfig controls the structured logger.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `toml:"level" yaml:"level"`
	// Format is console or json.
	Format string `toml:"format" yaml:"format"`
}

// InspectConfig controls how input is turned into a string.
type InspectConfig struct {
	// MaxCodepoints caps the codepoints read from input; -1 reads everything.
	MaxCodepoints int `toml:"max_codepoints" yaml:"max_codepoints"`
	// Encoding names the input encoding.
	Encoding string `toml:"encoding" yaml:"encoding"`
}

// OutputConfig controls report rendering.
type OutputConfig struct {
	// Format is table or json.
	Format string `toml:"format" yaml:"format"`
	// Color is auto, always or never.
	Color string `toml:"color" yaml:"color"`
}

// ScriptConfig controls the Lua runtime.
type ScriptConfig struct {
	// InstructionLimit bounds the VM instructions a script may run; 0 disables
	// the limit.
	InstructionLimit int64 `toml:"instruction_limit" yaml:"instruction_limit"`
}

// WatchConfig controls file watching.
type WatchConfig struct {
	// Debounce is a duration string such as "200ms".
	Debounce string `toml:"debounce" yaml:"debounce"`
}

// Accepted values for enumerated settings.
var (
	LogLevels     = []string{"debug", "info", "warn", "error"}
	LogFormats    = []string{"console", "json"}
	OutputFormats = []string{"table", "json"}
	ColorModes    = []string{"auto", "always", "never"}
)

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{Level: "info", Format: "console"},
		Inspect: InspectConfig{MaxCodepoints: -1, Encoding: "utf-8"},
		Output:  OutputConfig{Format: "table", Color: "auto"},
		Script:  ScriptConfig{InstructionLimit: 10_000_000},
		Watch:   WatchConfig{Debounce: "200ms"},
	}
}

// DebounceDuration returns the parsed watch debounce interval.
func (c *Config) DebounceDuration() time.Duration {
	d, err := time.ParseDuration(c.Watch.Debounce)
	if err != nil {
		return 0
	}
	return d
}

// Validate checks every setting and returns all problems found.
func (c *Config) Validate() error {
	var errs []error
	oneOf := func(path, value string, allowed []string) {
		if !slices.Contains(allowed, value) {
			errs = append(errs, &ValidationError{Path: path, Value: value, Message: "must be one of " + strings.Join(allowed, "|")})
		}
	}

	oneOf("logging.level", c.Logging.Level, LogLevels)
	oneOf("logging.format", c.Logging.Format, LogFormats)
	oneOf("output.format", c.Output.Format, OutputFormats)
	oneOf("output.color", c.Output.Color, ColorModes)

	if c.Inspect.MaxCodepoints < -1 {
		errs = append(errs, &ValidationError{Path: "inspect.max_codepoints", Value: c.Inspect.MaxCodepoints, Message: "must be -1 or a non-negative count"})
	}
	if c.Inspect.Encoding == "" {
		errs = append(errs, &ValidationError{Path: "inspect.encoding", Value: c.Inspect.Encoding, Message: "must not be empty"})
	}
	if c.Script.InstructionLimit < 0 {
		errs = append(errs, &ValidationError{Path: "script.instruction_limit", Value: c.Script.InstructionLimit, Message: "must not be negative"})
	}
	if d, err := time.ParseDuration(c.Watch.Debounce); err != nil || d < 0 {
		errs = append(errs, &ValidationError{Path: "watch.debounce", Value: c.Watch.Debounce, Message: "must be a non-negative duration"})
	}

	return errors.Join(errs...)
}
