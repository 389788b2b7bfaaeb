package scripting

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/cory-johannsen/duel/internal/game/dice"
)

// GlobalScope is the reserved scope for scripts loaded via LoadGlobal.
// CallHook falls back to it when the requested scope has no VM.
const GlobalScope = "__global__"

// vm is one sandboxed LState. An LState is single-threaded, so every call
// holds mu.
type vm struct {
	mu     sync.Mutex
	L      *lua.LState
	limit  int
	closed bool
}

func (v *vm) close() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.closed {
		v.L.Close()
		v.closed = true
	}
}

// Manager owns one sandboxed VM per scope and dispatches hook calls.
//
// Manager is safe for concurrent use. Calls into the same scope are
// serialized; different scopes run concurrently.
type Manager struct {
	mu     sync.RWMutex
	vms    map[string]*vm
	roller *dice.Roller
	logger *zap.Logger
}

// NewManager creates a Manager.
//
// Precondition: roller and logger must be non-nil.
// Postcondition: Returns a non-nil Manager with no scopes.
func NewManager(roller *dice.Roller, logger *zap.Logger) *Manager {
	if roller == nil || logger == nil {
		panic("scripting: NewManager precondition violated: roller and logger must be non-nil")
	}
	return &Manager{
		vms:    make(map[string]*vm),
		roller: roller,
		logger: logger,
	}
}

// LoadScope creates a sandboxed VM for scope, registers the duel.* module,
// then executes every *.lua file in scriptDir in lexicographic order.
// Reloading a scope replaces and closes its previous VM.
//
// Precondition: scope must be non-empty; scriptDir must be a readable directory.
// Postcondition: the scope's VM is registered; returns error on Lua load failure.
func (m *Manager) LoadScope(scope, scriptDir string, instLimit int) error {
	if scope == "" {
		return fmt.Errorf("scripting: scope must not be empty")
	}
	return m.loadInto(scope, scriptDir, instLimit)
}

// LoadGlobal loads scriptDir into the GlobalScope VM.
func (m *Manager) LoadGlobal(scriptDir string, instLimit int) error {
	return m.loadInto(GlobalScope, scriptDir, instLimit)
}

func (m *Manager) loadInto(scope, scriptDir string, instLimit int) error {
	entries, err := os.ReadDir(scriptDir)
	if err != nil {
		return fmt.Errorf("scripting: reading script dir %q for %q: %w", scriptDir, scope, err)
	}
	var luaFiles []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".lua" {
			luaFiles = append(luaFiles, filepath.Join(scriptDir, e.Name()))
		}
	}
	sort.Strings(luaFiles)

	L := NewSandboxedState(instLimit)
	m.RegisterModules(L)
	for _, path := range luaFiles {
		done := withBudget(L, instLimit)
		err := L.DoFile(path)
		done()
		if err != nil {
			L.Close()
			return fmt.Errorf("scripting: loading %q for %q: %w", path, scope, err)
		}
	}
	L.RemoveContext()

	m.mu.Lock()
	old := m.vms[scope]
	m.vms[scope] = &vm{L: L, limit: instLimit}
	m.mu.Unlock()

	if old != nil {
		old.close()
	}
	m.logger.Info("scripts loaded",
		zap.String("scope", scope),
		zap.Int("files", len(luaFiles)),
	)
	return nil
}

// Scopes returns the loaded scope names in sorted order.
func (m *Manager) Scopes() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, 0, len(m.vms))
	for k := range m.vms {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// CallHook calls the Lua global function hook in scope's VM, falling back to
// the GlobalScope VM when scope has none. Returns (LNil, nil) if no VM exists
// or the hook is not defined. Lua runtime errors, including an exhausted
// instruction budget, are logged at Warn level and never propagated.
//
// Precondition: args must be valid lua.LValue instances.
// Postcondition: Returns the first return value of the hook, or LNil.
func (m *Manager) CallHook(scope, hook string, args ...lua.LValue) (lua.LValue, error) {
	m.mu.RLock()
	v, ok := m.vms[scope]
	if !ok {
		v = m.vms[GlobalScope]
	}
	m.mu.RUnlock()

	if v == nil {
		m.logger.Debug("no script VM for scope",
			zap.String("scope", scope),
			zap.String("hook", hook),
		)
		return lua.LNil, nil
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return lua.LNil, nil
	}

	fn := v.L.GetGlobal(hook)
	if fn.Type() != lua.LTFunction {
		return lua.LNil, nil
	}

	done := withBudget(v.L, v.limit)
	defer done()
	if err := v.L.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, args...); err != nil {
		m.logger.Warn("lua hook failed",
			zap.String("scope", scope),
			zap.String("hook", hook),
			zap.Error(err),
		)
		return lua.LNil, nil
	}

	ret := v.L.Get(-1)
	v.L.Pop(1)
	return ret, nil
}

// Close releases every VM. CallHook afterwards returns LNil.
func (m *Manager) Close() {
	m.mu.Lock()
	vms := m.vms
	m.vms = make(map[string]*vm)
	m.mu.Unlock()

	for _, v := range vms {
		v.close()
	}
}
