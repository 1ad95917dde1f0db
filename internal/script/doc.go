// Package script runs Lua scripts against utf8str strings.
//
// Scripts execute in a sandboxed gopher-lua state: only the base, table,
// string and math libraries are open, file loading functions are removed,
// and require only resolves built-in modules. The global table utf8str
// exposes the string type:
//
//	local s = utf8str.new("a€b")
//	print(#s, s:size())          --> 3  5
//	s:replace(1, 1, "X")
//	print(s, s:find("b"))        --> aXb  2
//	print(utf8str.rep(2, 0x20AC)) --> €€
//
// Positions are 0-based codepoint indices as in the Go API. Lookups that find
// nothing return nil. Codepoint arguments accept a number or a one-character
// string.
//
// Every call into the utf8str module is charged against the state's
// instruction limit, and the whole run is bounded by the execution timeout.
package script
