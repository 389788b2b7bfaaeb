package scripting

import (
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// RegisterModules installs the duel.* table into L:
//
//	duel.roll(chance)      -> bool, a logged percent check
//	duel.clamp(v, lo, hi)  -> number
//	duel.log.debug|info|warn|error(msg)
//
// Precondition: L must be from NewSandboxedState.
func (m *Manager) RegisterModules(L *lua.LState) {
	duel := L.NewTable()
	L.SetField(duel, "roll", L.NewFunction(m.luaRoll))
	L.SetField(duel, "clamp", L.NewFunction(luaClamp))

	logTbl := L.NewTable()
	for name, fn := range map[string]func(string, ...zap.Field){
		"debug": m.logger.Debug,
		"info":  m.logger.Info,
		"warn":  m.logger.Warn,
		"error": m.logger.Error,
	} {
		L.SetField(logTbl, name, L.NewFunction(luaLog(fn)))
	}
	L.SetField(duel, "log", logTbl)

	L.SetGlobal("duel", duel)
}

func (m *Manager) luaRoll(L *lua.LState) int {
	chance := float64(L.CheckNumber(1))
	L.Push(lua.LBool(m.roller.Check("lua", chance)))
	return 1
}

func luaClamp(L *lua.LState) int {
	v, lo, hi := L.CheckNumber(1), L.CheckNumber(2), L.CheckNumber(3)
	switch {
	case v < lo:
		v = lo
	case v > hi:
		v = hi
	}
	L.Push(v)
	return 1
}

func luaLog(fn func(string, ...zap.Field)) lua.LGFunction {
	return func(L *lua.LState) int {
		fn(L.CheckString(1), zap.String("source", "lua"))
		return 0
	}
}
