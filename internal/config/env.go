package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// DefaultEnvPrefix is the prefix of environment overrides.
const DefaultEnvPrefix = "RUNESTR_"

// EnvLoader applies environment variable overrides to a Config.
type EnvLoader struct {
	prefix  string            // Environment variable prefix (e.g., "RUNESTR_")
	mapping map[string]string // Env var suffix -> config path
	lookup  func(string) (string, bool)
}

// NewEnvLoader creates a new environment variable loader.
// The prefix should include the trailing underscore (e.g., "RUNESTR_").
func NewEnvLoader(prefix string) *EnvLoader {
	return &EnvLoader{
		prefix:  prefix,
		mapping: defaultEnvMapping(),
		lookup:  os.LookupEnv,
	}
}

// defaultEnvMapping returns the default environment variable mappings,
// keyed by the name without prefix.
func defaultEnvMapping() map[string]string {
	return map[string]string{
		"LOG_LEVEL":         "logging.level",
		"LOG_FORMAT":        "logging.format",
		"MAX_CODEPOINTS":    "inspect.max_codepoints",
		"ENCODING":          "inspect.encoding",
		"OUTPUT_FORMAT":     "output.format",
		"COLOR":             "output.color",
		"INSTRUCTION_LIMIT": "script.instruction_limit",
		"DEBOUNCE":          "watch.debounce",
	}
}

// Apply overwrites the settings of cfg named by set environment variables.
// Empty values are treated as set.
func (l *EnvLoader) Apply(cfg *Config) error {
	for suffix, path := range l.mapping {
		val, ok := l.lookup(l.prefix + suffix)
		if !ok {
			continue
		}
		if err := Set(cfg, path, val); err != nil {
			return fmt.Errorf("%s%s: %w", l.prefix, suffix, err)
		}
	}
	return nil
}

// Set assigns the string value to the setting at the dotted path.
func Set(cfg *Config, path, value string) error {
	switch path {
	case "logging.level":
		cfg.Logging.Level = strings.ToLower(value)
	case "logging.format":
		cfg.Logging.Format = strings.ToLower(value)
	case "inspect.max_codepoints":
		n, err := strconv.Atoi(value)
		if err != nil {
			return &ValidationError{Path: path, Value: value, Message: "must be an integer"}
		}
		cfg.Inspect.MaxCodepoints = n
	case "inspect.encoding":
		cfg.Inspect.Encoding = value
	case "output.format":
		cfg.Output.Format = strings.ToLower(value)
	case "output.color":
		cfg.Output.Color = strings.ToLower(value)
	case "script.instruction_limit":
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return &ValidationError{Path: path, Value: value, Message: "must be an integer"}
		}
		cfg.Script.InstructionLimit = n
	case "watch.debounce":
		cfg.Watch.Debounce = value
	default:
		return fmt.Errorf("%w: %s", ErrUnknownSetting, path)
	}
	return nil
}
