package reaction

import (
	"errors"
	"fmt"
	"log"
	"sync"

	lua "github.com/yuin/gopher-lua"
)

// ErrNoHandler is returned when a script does not define on_match.
var ErrNoHandler = errors.New("script does not define an on_match function")

const handlerName = "on_match"

// Info describes the detector a script reacts to.
type Info struct {
	Pattern string
	Source  string
}

// Script runs a Lua on_match(info) function for every match. The Lua state
// only has the base, table, string and math libraries.
type Script struct {
	path string
	info Info

	mu     sync.Mutex
	L      *lua.LState
	count  int
	closed bool
}

// NewScript loads the script at path and checks that it defines on_match.
func NewScript(path string, info Info) (*Script, error) {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)

	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "require"} {
		L.SetGlobal(name, lua.LNil)
	}

	s := &Script{path: path, info: info, L: L}
	L.SetGlobal("log", L.NewFunction(s.luaLog))

	if err := L.DoFile(path); err != nil {
		L.Close()
		return nil, fmt.Errorf("load reaction script %s: %w", path, err)
	}
	if fn := L.GetGlobal(handlerName); fn.Type() != lua.LTFunction {
		L.Close()
		return nil, fmt.Errorf("%s: %w", path, ErrNoHandler)
	}

	return s, nil
}

// React implements Reaction by calling on_match with a table of
// {pattern, source, count}.
func (s *Script) React() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return fmt.Errorf("reaction script %s is closed", s.path)
	}

	s.count++
	arg := s.L.NewTable()
	arg.RawSetString("pattern", lua.LString(s.info.Pattern))
	arg.RawSetString("source", lua.LString(s.info.Source))
	arg.RawSetString("count", lua.LNumber(s.count))

	err := s.L.CallByParam(lua.P{
		Fn:      s.L.GetGlobal(handlerName),
		NRet:    0,
		Protect: true,
	}, arg)
	if err != nil {
		return fmt.Errorf("%s %s: %w", s.path, handlerName, err)
	}
	return nil
}

// Close releases the Lua state. It is safe to call more than once.
func (s *Script) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.L.Close()
}

func (s *Script) luaLog(L *lua.LState) int {
	log.Printf("[%s] %s", s.path, L.CheckString(1))
	return 0
}
