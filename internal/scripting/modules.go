package scripting

import (
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// RegisterModules registers all engine.* Lua tables into L:
//
//	engine.log.debug(msg) / engine.log.info(msg) / engine.log.warn(msg)
//	engine.entity.get(id) -> {id, name, hp, max_hp, dead} or nil
//	engine.entity.heal(id, amount) -> healed
//
// Precondition: L must be from NewSandboxedState.
// Postcondition: engine global is defined in L.
func (m *Manager) RegisterModules(L *lua.LState) {
	engine := L.NewTable()
	L.SetField(engine, "log", m.newLogModule(L))
	L.SetField(engine, "entity", m.newEntityModule(L))
	L.SetGlobal("engine", engine)
}

func (m *Manager) newLogModule(L *lua.LState) *lua.LTable {
	mod := L.NewTable()
	logAt := func(fn func(string, ...zap.Field)) lua.LGFunction {
		return func(L *lua.LState) int {
			fn("lua: "+L.CheckString(1), zap.String("source", "script"))
			return 0
		}
	}
	L.SetField(mod, "debug", L.NewFunction(logAt(m.logger.Debug)))
	L.SetField(mod, "info", L.NewFunction(logAt(m.logger.Info)))
	L.SetField(mod, "warn", L.NewFunction(logAt(m.logger.Warn)))
	return mod
}

func (m *Manager) newEntityModule(L *lua.LState) *lua.LTable {
	mod := L.NewTable()
	L.SetField(mod, "get", L.NewFunction(func(L *lua.LState) int {
		id := L.CheckString(1)
		if m.GetEntity == nil {
			L.Push(lua.LNil)
			return 1
		}
		info := m.GetEntity(id)
		if info == nil {
			L.Push(lua.LNil)
			return 1
		}
		t := L.NewTable()
		t.RawSetString("id", lua.LString(info.ID))
		t.RawSetString("name", lua.LString(info.Name))
		t.RawSetString("hp", lua.LNumber(info.HP))
		t.RawSetString("max_hp", lua.LNumber(info.MaxHP))
		t.RawSetString("dead", lua.LBool(info.Dead))
		L.Push(t)
		return 1
	}))
	L.SetField(mod, "heal", L.NewFunction(func(L *lua.LState) int {
		id := L.CheckString(1)
		amount := float64(L.CheckNumber(2))
		if m.Heal == nil {
			L.Push(lua.LNumber(0))
			return 1
		}
		L.Push(lua.LNumber(m.Heal(id, amount)))
		return 1
	}))
	return mod
}
