package script

import (
	"math"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/runestr/internal/codec"
	"github.com/dshills/runestr/utf8str"
)

// ModuleName is the global under which the string API is registered.
const ModuleName = "utf8str"

// typeName names the userdata metatable in the Lua registry.
const typeName = "utf8str.String"

// Module implements the utf8str Lua API.
type Module struct {
	sandbox *Sandbox
}

// NewModule creates the module. Each call into it is charged to sandbox.
func NewModule(sandbox *Sandbox) *Module {
	return &Module{sandbox: sandbox}
}

// Register installs the module table and the userdata metatable.
func (m *Module) Register(L *lua.LState) {
	mod := L.NewTable()
	L.SetField(mod, "new", L.NewFunction(m.charged(m.newString)))
	L.SetField(mod, "rep", L.NewFunction(m.charged(m.rep)))
	L.SetField(mod, "from_codepoints", L.NewFunction(m.charged(m.fromCodepoints)))
	L.SetField(mod, "npos", lua.LNil)
	L.SetGlobal(ModuleName, mod)

	methods := map[string]lua.LGFunction{
		"len":               m.length,
		"size":              m.size,
		"at":                m.at,
		"raw_at":            m.rawAt,
		"sub":               m.sub,
		"replace":           m.replace,
		"insert":            m.insert,
		"erase":             m.erase,
		"append":            m.append,
		"find":              m.find,
		"rfind":             m.rfind,
		"find_first_of":     m.findFirstOf,
		"find_last_of":      m.findLastOf,
		"find_first_not_of": m.findFirstNotOf,
		"find_last_not_of":  m.findLastNotOf,
		"malformed":         m.malformed,
		"codepoints":        m.codepoints,
		"tostring":          m.toString,
	}
	for name, fn := range methods {
		methods[name] = m.charged(fn)
	}

	mt := L.NewTypeMetatable(typeName)
	L.SetField(mt, "__index", L.SetFuncs(L.NewTable(), methods))
	L.SetField(mt, "__tostring", L.NewFunction(m.toString))
	L.SetField(mt, "__len", L.NewFunction(m.length))
	L.SetField(mt, "__concat", L.NewFunction(m.charged(m.concat)))
	L.SetField(mt, "__eq", L.NewFunction(m.equal))
}

// charged wraps fn so each call counts against the instruction limit.
func (m *Module) charged(fn lua.LGFunction) lua.LGFunction {
	return func(L *lua.LState) int {
		if m.sandbox.IncrementInstructions(1) {
			L.RaiseError("instruction limit exceeded")
			return 0
		}
		return fn(L)
	}
}

// wrap returns a userdata holding s.
func (m *Module) wrap(L *lua.LState, s utf8str.String) *lua.LUserData {
	ud := L.NewUserData()
	ud.Value = &s
	L.SetMetatable(ud, L.GetTypeMetatable(typeName))
	return ud
}

// check returns the string held by argument n.
func check(L *lua.LState, n int) *utf8str.String {
	ud := L.CheckUserData(n)
	s, ok := ud.Value.(*utf8str.String)
	if !ok {
		L.ArgError(n, "utf8str expected")
		return nil
	}
	return s
}

// toStr converts argument n, a utf8str value or a Lua string, into a string.
func toStr(L *lua.LState, n int) utf8str.String {
	switch v := L.Get(n).(type) {
	case *lua.LUserData:
		if s, ok := v.Value.(*utf8str.String); ok {
			return *s
		}
	case lua.LString:
		return utf8str.FromString(string(v))
	case lua.LNumber:
		return utf8str.FromString(v.String())
	}
	L.ArgError(n, "string or utf8str expected")
	return utf8str.String{}
}

// checkCodepoint reads argument n as a codepoint: a number, or the first
// codepoint of a string.
func checkCodepoint(L *lua.LState, n int) rune {
	switch v := L.Get(n).(type) {
	case lua.LNumber:
		r, ok := toCodepoint(v)
		if !ok {
			L.ArgError(n, "codepoint out of range")
		}
		return r
	case lua.LString:
		s := utf8str.FromString(string(v))
		if s.Len() != 1 {
			L.ArgError(n, "single character expected")
		}
		return s.Front()
	}
	L.ArgError(n, "codepoint expected")
	return 0
}

// checkSet reads argument n as a set of codepoints: a string or an array of
// codepoints.
func checkSet(L *lua.LState, n int) []rune {
	switch v := L.Get(n).(type) {
	case lua.LString:
		s := utf8str.FromString(string(v))
		return s.Runes()
	case *lua.LTable:
		set := make([]rune, 0, v.Len())
		for i := 1; i <= v.Len(); i++ {
			num, ok := v.RawGetInt(i).(lua.LNumber)
			if !ok {
				L.ArgError(n, "array of codepoints expected")
			}
			r, ok := toCodepoint(num)
			if !ok {
				L.ArgError(n, "codepoint out of range")
			}
			set = append(set, r)
		}
		return set
	}
	L.ArgError(n, "string or table expected")
	return nil
}

// toCodepoint converts a Lua number to a codepoint. Fractions and values
// outside [0, 0x7FFFFFFF] are rejected.
func toCodepoint(num lua.LNumber) (rune, bool) {
	f := float64(num)
	if f != math.Trunc(f) || f < 0 || f > float64(codec.MaxCodepoint) {
		return 0, false
	}
	return rune(f), true
}

// optInt reads argument n as an integer, or def when absent or nil.
func optInt(L *lua.LState, n, def int) int {
	if L.Get(n) == lua.LNil {
		return def
	}
	return L.CheckInt(n)
}

// pushPos pushes a position, or nil for NPos.
func pushPos(L *lua.LState, pos int) int {
	if pos == utf8str.NPos {
		L.Push(lua.LNil)
	} else {
		L.Push(lua.LNumber(pos))
	}
	return 1
}

// new(text) -> utf8str
func (m *Module) newString(L *lua.LState) int {
	if L.GetTop() == 0 {
		L.Push(m.wrap(L, utf8str.String{}))
		return 1
	}
	L.Push(m.wrap(L, toStr(L, 1).Clone()))
	return 1
}

// rep(n, cp) -> utf8str
func (m *Module) rep(L *lua.LState) int {
	n := L.CheckInt(1)
	if n < 0 {
		L.ArgError(1, "count must be non-negative")
	}
	r := checkCodepoint(L, 2)
	L.Push(m.wrap(L, utf8str.Repeat(n, r)))
	return 1
}

// from_codepoints({cp, ...}) -> utf8str
func (m *Module) fromCodepoints(L *lua.LState) int {
	tbl := L.CheckTable(1)
	rs := make([]rune, 0, tbl.Len())
	for i := 1; i <= tbl.Len(); i++ {
		num, ok := tbl.RawGetInt(i).(lua.LNumber)
		if !ok {
			L.ArgError(1, "array of codepoints expected")
		}
		r, ok := toCodepoint(num)
		if !ok {
			L.ArgError(1, "codepoint out of range")
		}
		rs = append(rs, r)
	}
	s, err := utf8str.FromRunes(rs)
	if err != nil {
		L.RaiseError("from_codepoints: %v", err)
	}
	L.Push(m.wrap(L, s))
	return 1
}

// s:len() -> number
func (m *Module) length(L *lua.LState) int {
	L.Push(lua.LNumber(check(L, 1).Len()))
	return 1
}

// s:size() -> number
func (m *Module) size(L *lua.LState) int {
	L.Push(lua.LNumber(check(L, 1).Size()))
	return 1
}

// s:at(pos) -> codepoint or nil
func (m *Module) at(L *lua.LState) int {
	s := check(L, 1)
	pos := L.CheckInt(2)
	if pos < 0 || pos >= s.Len() {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(lua.LNumber(s.At(pos)))
	return 1
}

// s:raw_at(offset) -> codepoint or nil
func (m *Module) rawAt(L *lua.LState) int {
	s := check(L, 1)
	off := L.CheckInt(2)
	if off < 0 || off >= s.Size() {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(lua.LNumber(s.RawAt(off)))
	return 1
}

// s:sub(pos [, count]) -> utf8str
func (m *Module) sub(L *lua.LState) int {
	s := check(L, 1)
	L.Push(m.wrap(L, s.Substr(L.CheckInt(2), optInt(L, 3, utf8str.NPos))))
	return 1
}

// s:replace(pos, count, text) -> s
func (m *Module) replace(L *lua.LState) int {
	s := check(L, 1)
	s.Replace(L.CheckInt(2), optInt(L, 3, utf8str.NPos), toStr(L, 4))
	L.Push(L.Get(1))
	return 1
}

// s:insert(pos, text) -> s
func (m *Module) insert(L *lua.LState) int {
	s := check(L, 1)
	s.Insert(L.CheckInt(2), toStr(L, 3))
	L.Push(L.Get(1))
	return 1
}

// s:erase(pos [, count]) -> s
func (m *Module) erase(L *lua.LState) int {
	s := check(L, 1)
	s.Erase(L.CheckInt(2), optInt(L, 3, utf8str.NPos))
	L.Push(L.Get(1))
	return 1
}

// s:append(text) -> s
func (m *Module) append(L *lua.LState) int {
	s := check(L, 1)
	s.Append(toStr(L, 2))
	L.Push(L.Get(1))
	return 1
}

// s:find(cp [, start]) -> pos or nil
func (m *Module) find(L *lua.LState) int {
	s := check(L, 1)
	return pushPos(L, s.Find(checkCodepoint(L, 2), optInt(L, 3, 0)))
}

// s:rfind(cp [, start]) -> pos or nil
func (m *Module) rfind(L *lua.LState) int {
	s := check(L, 1)
	return pushPos(L, s.RFind(checkCodepoint(L, 2), optInt(L, 3, utf8str.NPos)))
}

// s:find_first_of(set [, start]) -> pos or nil
func (m *Module) findFirstOf(L *lua.LState) int {
	s := check(L, 1)
	return pushPos(L, s.FindFirstOf(checkSet(L, 2), optInt(L, 3, 0)))
}

// s:find_last_of(set [, start]) -> pos or nil
func (m *Module) findLastOf(L *lua.LState) int {
	s := check(L, 1)
	return pushPos(L, s.FindLastOf(checkSet(L, 2), optInt(L, 3, utf8str.NPos)))
}

// s:find_first_not_of(set [, start]) -> pos or nil
func (m *Module) findFirstNotOf(L *lua.LState) int {
	s := check(L, 1)
	return pushPos(L, s.FindFirstNotOf(checkSet(L, 2), optInt(L, 3, 0)))
}

// s:find_last_not_of(set [, start]) -> pos or nil
func (m *Module) findLastNotOf(L *lua.LState) int {
	s := check(L, 1)
	return pushPos(L, s.FindLastNotOf(checkSet(L, 2), optInt(L, 3, utf8str.NPos)))
}

// s:malformed() -> boolean
func (m *Module) malformed(L *lua.LState) int {
	L.Push(lua.LBool(check(L, 1).Malformed()))
	return 1
}

// s:codepoints() -> {cp, ...}
func (m *Module) codepoints(L *lua.LState) int {
	s := check(L, 1)
	tbl := L.CreateTable(s.Len(), 0)
	for _, r := range s.All() {
		tbl.Append(lua.LNumber(r))
	}
	L.Push(tbl)
	return 1
}

// tostring(s) -> string
func (m *Module) toString(L *lua.LState) int {
	L.Push(lua.LString(check(L, 1).String()))
	return 1
}

// a .. b -> utf8str
func (m *Module) concat(L *lua.LState) int {
	out := toStr(L, 1).Clone()
	out.Append(toStr(L, 2))
	L.Push(m.wrap(L, out))
	return 1
}

// a == b -> boolean
func (m *Module) equal(L *lua.LState) int {
	a, b := check(L, 1), check(L, 2)
	L.Push(lua.LBool(a.Equal(*b)))
	return 1
}
