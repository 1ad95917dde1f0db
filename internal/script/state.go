package script

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/go-logr/logr"
	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/runestr/internal/logging"
	"github.com/dshills/runestr/utf8str"
)

// Default limits for Lua state.
const (
	DefaultExecutionTimeout = 5 * time.Second // Wall clock bound per run
	DefaultInstructionLimit = 10_000_000      // Maximum utf8str operations per run
)

// State wraps gopher-lua with the sandbox and the utf8str module.
//
// gopher-lua's LState is not goroutine-safe. The mutex serializes calls made
// through State; Lua code itself always runs on the calling goroutine.
type State struct {
	L *lua.LState

	mu sync.Mutex

	// Configuration
	executionTimeout time.Duration
	instructionLimit int64
	out              io.Writer
	log              logr.Logger

	sandbox *Sandbox
	module  *Module

	closed bool
}

// StateOption configures a State.
type StateOption func(*State)

// WithExecutionTimeout bounds the wall clock time of each run. Zero disables
// the bound.
func WithExecutionTimeout(d time.Duration) StateOption {
	return func(s *State) {
		s.executionTimeout = d
	}
}

// WithInstructionLimit sets the maximum utf8str operations per run. Zero
// disables the limit.
func WithInstructionLimit(limit int64) StateOption {
	return func(s *State) {
		s.instructionLimit = limit
	}
}

// WithOutput sends print output to w.
func WithOutput(w io.Writer) StateOption {
	return func(s *State) {
		s.out = w
	}
}

// WithLogger sets the logger for run diagnostics.
func WithLogger(log logr.Logger) StateOption {
	return func(s *State) {
		s.log = log
	}
}

// NewState creates a new sandboxed Lua state with the utf8str module loaded.
func NewState(opts ...StateOption) *State {
	state := &State{
		executionTimeout: DefaultExecutionTimeout,
		instructionLimit: DefaultInstructionLimit,
		log:              logr.Discard(),
	}
	for _, opt := range opts {
		opt(state)
	}

	L := lua.NewState(lua.Options{
		SkipOpenLibs: true, // We'll open selectively
	})
	state.L = L

	openSafeLibraries(L)

	state.sandbox = NewSandbox(L, state.instructionLimit, state.out)
	state.sandbox.Install()

	state.module = NewModule(state.sandbox)
	state.module.Register(L)

	return state
}

// openSafeLibraries opens only safe Lua standard libraries.
func openSafeLibraries(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)

	// io, os, debug and package stay closed.
}

// DoString executes a chunk of Lua source.
func (s *State) DoString(ctx context.Context, code string) error {
	return s.run(ctx, "<string>", func() error {
		return s.L.DoString(code)
	})
}

// DoFile executes the Lua file at path.
func (s *State) DoFile(ctx context.Context, path string) error {
	return s.run(ctx, path, func() error {
		return s.L.DoFile(path)
	})
}

// run executes fn under the lock, the timeout and the instruction budget,
// and maps the outcome to the package errors.
func (s *State) run(ctx context.Context, name string, fn func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStateClosed
	}

	if s.executionTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.executionTimeout)
		defer cancel()
	}
	s.L.SetContext(ctx)
	defer s.L.RemoveContext()

	s.sandbox.ResetInstructionCount()
	start := time.Now()
	err := s.doWithRecovery(fn)

	log := logging.FromContext(ctx)
	if log.GetSink() == nil {
		log = s.log
	}
	log.V(logging.DEBUG).Info("script finished",
		"script", name,
		"elapsed", time.Since(start),
		"instructions", s.sandbox.InstructionCount(),
		"failed", err != nil)

	switch {
	case err == nil:
		return nil
	case s.sandbox.Exceeded():
		return fmt.Errorf("%w: %s", ErrInstructionLimit, name)
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		return fmt.Errorf("%w: %s", ErrExecutionTimeout, name)
	case ctx.Err() != nil:
		return fmt.Errorf("running %s: %w", name, ctx.Err())
	}
	return fmt.Errorf("running %s: %w", name, err)
}

// doWithRecovery executes a function with panic recovery.
func (s *State) doWithRecovery(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("lua panic: %v", r)
		}
	}()
	return fn()
}

// SetString binds a copy of str to the global name as a utf8str value.
func (s *State) SetString(name string, str utf8str.String) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStateClosed
	}
	s.L.SetGlobal(name, s.module.wrap(s.L, str.Clone()))
	return nil
}

// GetString returns the string held by the global name. Plain Lua strings
// are converted; other values report false.
func (s *State) GetString(name string) (utf8str.String, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return utf8str.String{}, false
	}
	switch v := s.L.GetGlobal(name).(type) {
	case *lua.LUserData:
		if str, ok := v.Value.(*utf8str.String); ok {
			return str.Clone(), true
		}
	case lua.LString:
		return utf8str.FromString(string(v)), true
	}
	return utf8str.String{}, false
}

// Sandbox returns the sandbox of the state.
func (s *State) Sandbox() *Sandbox {
	return s.sandbox
}

// IsClosed returns true if the state has been closed.
func (s *State) IsClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Close releases all resources associated with the Lua state.
// After Close is called, all other methods will return ErrStateClosed.
func (s *State) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.L.Close()
	s.closed = true
	return nil
}
