package combat

import (
	"context"
	"fmt"
	"sync"
)

// Engine tracks every live battle Environment, keyed by ID.
// All methods are safe for concurrent use; each Environment is still driven
// by a single goroutine.
type Engine struct {
	mu      sync.RWMutex
	battles map[string]*Environment
}

// NewEngine creates an empty combat Engine.
//
// Postcondition: Returns a non-nil Engine ready for use.
func NewEngine() *Engine {
	return &Engine{battles: make(map[string]*Environment)}
}

// StartBattle enters env with fighters and registers it.
//
// Precondition: env must be idle.
// Postcondition: Returns an error if env.ID is already registered or Enter fails;
// nothing is registered on error.
func (e *Engine) StartBattle(ctx context.Context, env *Environment, fighters ...*Fighter) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, exists := e.battles[env.ID]; exists {
		return fmt.Errorf("battle %q already active", env.ID)
	}
	if err := env.Enter(ctx, fighters...); err != nil {
		return err
	}
	e.battles[env.ID] = env
	return nil
}

// GetBattle returns the live battle with id.
//
// Postcondition: Returns (env, true) if found, or (nil, false) otherwise.
func (e *Engine) GetBattle(id string) (*Environment, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	env, ok := e.battles[id]
	return env, ok
}

// EndBattle exits and removes the battle with id. Unknown ids are a no-op.
func (e *Engine) EndBattle(ctx context.Context, id string) error {
	e.mu.Lock()
	env, ok := e.battles[id]
	delete(e.battles, id)
	e.mu.Unlock()
	if !ok {
		return nil
	}
	return env.Exit(ctx)
}

// Active returns the number of live battles.
func (e *Engine) Active() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.battles)
}
