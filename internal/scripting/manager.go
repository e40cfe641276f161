package scripting

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// Hook names dispatched by the game session.
const (
	HookOnHit              = "on_hit"
	HookOnDeath            = "on_death"
	HookOnEquipmentChanged = "on_equipment_changed"
)

// EntityInfo is a snapshot of an entity's state passed to Lua callbacks.
type EntityInfo struct {
	ID    string
	Name  string
	HP    float64
	MaxHP float64
	Dead  bool
}

// Manager owns one sandboxed LState holding every loaded script and exposes
// hook dispatch. Each load and each hook call gets its own instruction budget.
//
// Manager is safe for concurrent use; calls into the VM are serialized.
type Manager struct {
	mu     sync.Mutex
	L      *lua.LState
	cancel context.CancelFunc
	limit  int
	logger *zap.Logger

	// Injected after construction. nil = no-op in engine.* modules.
	GetEntity func(id string) *EntityInfo
	Heal      func(id string, amount float64) float64
}

// NewManager creates a Manager with no scripts loaded.
//
// Precondition: logger must be non-nil; instLimit <= 0 uses DefaultInstructionLimit.
// Postcondition: Returns a non-nil Manager; CallHook is a no-op until Load succeeds.
func NewManager(logger *zap.Logger, instLimit int) *Manager {
	return &Manager{logger: logger, limit: resolveLimit(instLimit)}
}

// Load creates a sandboxed VM, registers the engine.* modules, then executes
// every *.lua file in scriptDir in lexicographic order. A successful Load
// replaces any previously loaded VM.
//
// Precondition: scriptDir must be a readable directory.
// Postcondition: returns error on read or Lua load failure and keeps the previous VM.
func (m *Manager) Load(scriptDir string) error {
	L, cancel := NewSandboxedState(m.limit)
	m.RegisterModules(L)

	entries, err := os.ReadDir(scriptDir)
	if err != nil {
		cancel()
		L.Close()
		return fmt.Errorf("scripting: reading script dir %q: %w", scriptDir, err)
	}

	var luaFiles []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".lua" {
			luaFiles = append(luaFiles, filepath.Join(scriptDir, e.Name()))
		}
	}
	sort.Strings(luaFiles)

	for _, path := range luaFiles {
		if err := L.DoFile(path); err != nil {
			cancel()
			L.Close()
			return fmt.Errorf("scripting: loading %q: %w", path, err)
		}
	}

	m.mu.Lock()
	m.closeLocked()
	m.L = L
	m.cancel = cancel
	m.mu.Unlock()
	m.logger.Debug("scripts loaded", zap.String("dir", scriptDir), zap.Int("files", len(luaFiles)))
	return nil
}

// HasHook reports whether a global function named hook is defined.
func (m *Manager) HasHook(hook string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.L == nil {
		return false
	}
	_, ok := m.L.GetGlobal(hook).(*lua.LFunction)
	return ok
}

// CallHook calls the named Lua global function. Returns (LNil, nil) if no VM
// is loaded or the hook is not defined. Lua runtime errors, including an
// exhausted instruction budget, are logged at Warn level and never propagated.
//
// Precondition: args must be valid lua.LValue instances.
// Postcondition: Returns the first return value of the hook, or LNil.
func (m *Manager) CallHook(hook string, args ...lua.LValue) (lua.LValue, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.L == nil {
		return lua.LNil, nil
	}
	fn := m.L.GetGlobal(hook)
	if fn == lua.LNil {
		return lua.LNil, nil
	}

	m.cancel()
	m.cancel = armLimit(m.L, m.limit)

	if err := m.L.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, args...); err != nil {
		m.logger.Warn("scripting: Lua runtime error",
			zap.String("hook", hook),
			zap.Error(err),
		)
		return lua.LNil, nil
	}

	ret := m.L.Get(-1)
	m.L.Pop(1)
	return ret, nil
}

// Close releases the VM. Safe to call multiple times.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closeLocked()
}

func (m *Manager) closeLocked() {
	if m.L == nil {
		return
	}
	m.cancel()
	m.L.Close()
	m.L = nil
	m.cancel = nil
}

// OnHit dispatches on_hit(target_id, damage, crit).
func (m *Manager) OnHit(targetID string, damage float64, crit bool) {
	_, _ = m.CallHook(HookOnHit, lua.LString(targetID), lua.LNumber(damage), lua.LBool(crit))
}

// OnDeath dispatches on_death(entity_id).
func (m *Manager) OnDeath(entityID string) {
	_, _ = m.CallHook(HookOnDeath, lua.LString(entityID))
}

// OnEquipmentChanged dispatches on_equipment_changed(slot_count).
func (m *Manager) OnEquipmentChanged(equipped int) {
	_, _ = m.CallHook(HookOnEquipmentChanged, lua.LNumber(equipped))
}
