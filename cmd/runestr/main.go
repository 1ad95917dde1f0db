// Package main is the entry point for the runestr command.
//
// runestr inspects UTF-8 text by codepoint: it reports where each codepoint
// lives in the byte buffer, answers positional queries, applies codepoint
// edits and runs Lua scripts against the text.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-logr/logr"
	"github.com/google/uuid"
	"golang.org/x/term"

	"github.com/dshills/runestr/internal/config"
	"github.com/dshills/runestr/internal/logging"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Exit codes.
const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

// errUsage marks errors caused by bad command line arguments.
var errUsage = errors.New("usage")

func usageErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{errUsage}, args...)...)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// options holds the parsed global flags.
type options struct {
	configPath  string
	query       string
	showVersion bool
	set         map[string]string // Config path -> flag value, explicit flags only
}

// app carries what every command needs.
type app struct {
	cfg    *config.Config
	opts   options
	log    logr.Logger
	stdin  io.Reader
	stdout io.Writer
	color  bool
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	opts, rest, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}
	if opts.showVersion {
		printVersion(stdout)
		return exitOK
	}
	if len(rest) == 0 {
		fmt.Fprintln(stderr, "Error: missing command")
		return exitUsage
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitError
	}

	logger, sync, err := logging.New(logging.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Writer: stderr,
	})
	if err != nil {
		fmt.Fprintf(stderr, "Error: failed to initialize logging: %v\n", err)
		return exitError
	}
	defer sync()

	runID := uuid.NewString()
	logger = logger.WithValues("run", runID)
	ctx = logging.IntoContext(ctx, logger)

	a := &app{
		cfg:    cfg,
		opts:   opts,
		log:    logger,
		stdin:  stdin,
		stdout: stdout,
		color:  useColor(cfg.Output.Color, stdout),
	}

	logger.V(logging.DEBUG).Info("starting", "command", rest[0], "version", version)
	if err := a.dispatch(ctx, rest[0], rest[1:]); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		if errors.Is(err, errUsage) {
			return exitUsage
		}
		return exitError
	}
	return exitOK
}

func parseFlags(args []string, stderr io.Writer) (options, []string, error) {
	fs := flag.NewFlagSet("runestr", flag.ContinueOnError)
	fs.SetOutput(stderr)

	opts := options{set: make(map[string]string)}
	settings := map[string]string{
		"log-level":  "logging.level",
		"log-format": "logging.format",
		"format":     "output.format",
		"color":      "output.color",
		"encoding":   "inspect.encoding",
		"max":        "inspect.max_codepoints",
		"limit":      "script.instruction_limit",
		"debounce":   "watch.debounce",
	}

	fs.StringVar(&opts.configPath, "config", "", "Path to configuration file (.toml, .yaml)")
	fs.StringVar(&opts.configPath, "c", "", "Path to configuration file (shorthand)")
	fs.String("log-level", "", "Log level (debug, info, warn, error)")
	fs.String("log-format", "", "Log format (console, json)")
	fs.String("format", "", "Output format (table, json)")
	fs.String("color", "", "Colorize JSON output (auto, always, never)")
	fs.String("encoding", "", "Input encoding (utf-8, windows-1252, shift_jis, utf-16le, ...)")
	fs.String("max", "", "Read at most this many codepoints (-1 for all)")
	fs.String("limit", "", "Instruction limit for scripts")
	fs.String("debounce", "", "Quiet period before watch re-inspects")
	fs.StringVar(&opts.query, "query", "", "gjson path applied to JSON output")
	fs.BoolVar(&opts.showVersion, "version", false, "Show version information")
	fs.BoolVar(&opts.showVersion, "v", false, "Show version information (shorthand)")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "runestr - inspect and edit UTF-8 text by codepoint\n\n")
		fmt.Fprintf(stderr, "Usage: runestr [options] <command> [args]\n\n")
		fmt.Fprintf(stderr, "Commands:\n")
		fmt.Fprintf(stderr, "  inspect [file|-]                    Show the codepoint layout\n")
		fmt.Fprintf(stderr, "  at <pos> [file|-]                   Print the codepoint at a position\n")
		fmt.Fprintf(stderr, "  find <char> [file|-]                Print every position of a codepoint\n")
		fmt.Fprintf(stderr, "  replace <pos> <count> <text> [file]  Replace codepoints and print the result\n")
		fmt.Fprintf(stderr, "  run <script.lua> [file|-]           Run a Lua script with the text bound to input\n")
		fmt.Fprintf(stderr, "  watch <file>                        Re-inspect a file whenever it changes\n")
		fmt.Fprintf(stderr, "  version                             Show version information\n\n")
		fmt.Fprintf(stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(stderr, "\nExamples:\n")
		fmt.Fprintf(stderr, "  echo 'a€b' | runestr inspect\n")
		fmt.Fprintf(stderr, "  runestr -format json -query 'rows.#' inspect notes.txt\n")
		fmt.Fprintf(stderr, "  runestr find U+20AC prices.txt\n")
	}

	if err := fs.Parse(args); err != nil {
		return opts, nil, err
	}
	fs.Visit(func(f *flag.Flag) {
		if path, ok := settings[f.Name]; ok {
			opts.set[path] = f.Value.String()
		}
	})
	return opts, fs.Args(), nil
}

// loadConfig layers defaults, the config file, the environment and explicit
// flags, then validates the result.
func loadConfig(opts options) (*config.Config, error) {
	cfg, err := config.NewLoader().Load(opts.configPath)
	if err != nil {
		return nil, err
	}
	if err := config.NewEnvLoader(config.DefaultEnvPrefix).Apply(cfg); err != nil {
		return nil, err
	}
	for path, value := range opts.set {
		if err := config.Set(cfg, path, value); err != nil {
			return nil, err
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// useColor resolves the color mode against the output stream.
func useColor(mode string, w io.Writer) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	}
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func printVersion(w io.Writer) {
	fmt.Fprintf(w, "runestr %s\n", version)
	fmt.Fprintf(w, "Commit: %s\n", commit)
	fmt.Fprintf(w, "Built: %s\n", date)
}
