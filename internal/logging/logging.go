// Package logging builds the structured logger used by runestr's command
// line tools.
//
// Loggers are go-logr/logr values backed by zap. Verbosity follows the logr
// convention: plain Info is always shown at info level, V(DEBUG) and
// V(TRACE) only when the level is debug.
package logging

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Verbosity levels for logger.V.
const (
	DEBUG = 1
	TRACE = 2
)

// ErrUnknownLevel indicates a level name that is not recognized.
var ErrUnknownLevel = errors.New("unknown log level")

// Options configures New.
type Options struct {
	// Level is one of debug, info, warn, error. Empty means info.
	Level string
	// Format is console or json. Empty means console.
	Format string
	// OutputPaths overrides where entries are written; stderr by default.
	OutputPaths []string
	// Writer, when set, receives entries instead of OutputPaths.
	Writer io.Writer
}

// ParseLevel maps a level name to the zap level that enables it. The debug
// level also enables every logr verbosity up to TRACE.
func ParseLevel(name string) (zapcore.Level, error) {
	switch name {
	case "debug":
		return zapcore.Level(-TRACE), nil
	case "", "info":
		return zapcore.InfoLevel, nil
	case "warn":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownLevel, name)
}

// New builds a logger from opts. The returned sync function flushes
// buffered entries and should be deferred by the caller.
func New(opts Options) (logr.Logger, func() error, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return logr.Discard(), nil, err
	}

	var cfg zap.Config
	switch opts.Format {
	case "", "console":
		cfg = zap.NewDevelopmentConfig()
		cfg.DisableStacktrace = true
	case "json":
		cfg = zap.NewProductionConfig()
		cfg.Sampling = nil
	default:
		return logr.Discard(), nil, fmt.Errorf("unknown log format %q", opts.Format)
	}
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	if len(opts.OutputPaths) > 0 {
		cfg.OutputPaths = opts.OutputPaths
	}

	if opts.Writer != nil {
		var enc zapcore.Encoder
		if cfg.Encoding == "json" {
			enc = zapcore.NewJSONEncoder(cfg.EncoderConfig)
		} else {
			enc = zapcore.NewConsoleEncoder(cfg.EncoderConfig)
		}
		zl := zap.New(zapcore.NewCore(enc, zapcore.AddSync(opts.Writer), cfg.Level))
		return zapr.NewLogger(zl), zl.Sync, nil
	}

	zl, err := cfg.Build()
	if err != nil {
		return logr.Discard(), nil, fmt.Errorf("building logger: %w", err)
	}
	return zapr.NewLogger(zl), zl.Sync, nil
}

// IntoContext returns a copy of ctx carrying logger.
func IntoContext(ctx context.Context, logger logr.Logger) context.Context {
	return logr.NewContext(ctx, logger)
}

// FromContext returns the logger carried by ctx, or a logger that discards
// everything.
func FromContext(ctx context.Context) logr.Logger {
	return logr.FromContextOrDiscard(ctx)
}
