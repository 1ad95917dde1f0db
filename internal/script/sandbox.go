package script

import (
	"fmt"
	"io"
	"strings"
	"sync/atomic"

	lua "github.com/yuin/gopher-lua"
)

// Sandbox restricts Lua execution to safe operations.
type Sandbox struct {
	L *lua.LState

	out io.Writer

	// Instruction limiting
	instructionLimit int64
	instructionCount int64
	exceeded         atomic.Bool
}

// NewSandbox creates a new sandbox for the Lua state. print output goes to
// out; a nil out discards it.
func NewSandbox(L *lua.LState, instructionLimit int64, out io.Writer) *Sandbox {
	if out == nil {
		out = io.Discard
	}
	return &Sandbox{
		L:                L,
		out:              out,
		instructionLimit: instructionLimit,
	}
}

// Install sets up the sandbox restrictions.
func (s *Sandbox) Install() {
	// Remove functions that reach the file system or compile arbitrary chunks
	dangerousFuncs := []string{
		"dofile",
		"loadfile",
		"load",
		"loadstring",
	}
	for _, name := range dangerousFuncs {
		s.L.SetGlobal(name, lua.LNil)
	}

	s.installPrint()
	s.installSafeRequire()
}

// installPrint replaces print with a version writing to the sandbox output.
func (s *Sandbox) installPrint() {
	s.L.SetGlobal("print", s.L.NewFunction(func(L *lua.LState) int {
		top := L.GetTop()
		parts := make([]string, top)
		for i := 1; i <= top; i++ {
			parts[i-1] = lua.LVAsString(L.ToStringMeta(L.Get(i)))
		}
		fmt.Fprintln(s.out, strings.Join(parts, "\t"))
		return 0
	}))
}

// installSafeRequire replaces require with a version that only resolves
// built-in modules and the utf8str module.
func (s *Sandbox) installSafeRequire() {
	safeModules := map[string]bool{
		"string": true,
		"table":  true,
		"math":   true,
	}

	s.L.SetGlobal("require", s.L.NewFunction(func(L *lua.LState) int {
		modName := L.CheckString(1)
		if safeModules[modName] || modName == ModuleName {
			L.Push(L.GetGlobal(modName))
			return 1
		}
		L.RaiseError("module %q is not available", modName)
		return 0
	}))
}

// ResetInstructionCount resets the instruction counter.
func (s *Sandbox) ResetInstructionCount() {
	atomic.StoreInt64(&s.instructionCount, 0)
	s.exceeded.Store(false)
}

// InstructionCount returns the current instruction count.
func (s *Sandbox) InstructionCount() int64 {
	return atomic.LoadInt64(&s.instructionCount)
}

// IncrementInstructions adds to the instruction count and returns true if
// the limit is exceeded.
func (s *Sandbox) IncrementInstructions(n int64) bool {
	if s.instructionLimit <= 0 {
		atomic.AddInt64(&s.instructionCount, n)
		return false
	}
	count := atomic.AddInt64(&s.instructionCount, n)
	if count > s.instructionLimit {
		s.exceeded.Store(true)
		return true
	}
	return false
}

// Exceeded reports whether the limit tripped during the current run.
func (s *Sandbox) Exceeded() bool {
	return s.exceeded.Load()
}
