// Package scripting runs sandboxed GopherLua hooks that tune AI planning.
// Scripts are grouped into scopes, one VM per scope, and see only the safe
// standard libraries plus the duel.* module.
package scripting

import (
	"context"
	"sync/atomic"

	lua "github.com/yuin/gopher-lua"
)

// DefaultInstructionLimit is the maximum number of Lua opcodes one load or
// hook call may execute when no override is configured.
const DefaultInstructionLimit = 100_000

// countingContext cancels itself after Done() has been called limit times.
// GopherLua's mainLoopWithContext calls Done() once per opcode, making this
// an exact instruction-count limit.
type countingContext struct {
	context.Context
	cancel    context.CancelFunc
	remaining *atomic.Int64
}

// Done decrements the remaining budget and fires cancel when it runs out.
func (c *countingContext) Done() <-chan struct{} {
	if c.remaining.Add(-1) <= 0 {
		c.cancel()
	}
	return c.Context.Done()
}

// newCountingContext returns a context that cancels after limit calls to Done().
//
// Precondition: limit > 0.
func newCountingContext(limit int) (context.Context, context.CancelFunc) {
	base, cancel := context.WithCancel(context.Background())
	rem := &atomic.Int64{}
	rem.Store(int64(limit))
	return &countingContext{
		Context:   base,
		cancel:    cancel,
		remaining: rem,
	}, cancel
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultInstructionLimit
	}
	return limit
}

// withBudget installs a fresh instruction budget of limit opcodes on L and
// returns the function that removes it. Each load and hook call gets its own
// budget so a long-lived VM never exhausts.
func withBudget(L *lua.LState, limit int) func() {
	ctx, cancel := newCountingContext(normalizeLimit(limit))
	L.SetContext(ctx)
	return func() {
		cancel()
		L.RemoveContext()
	}
}

// NewSandboxedState creates a GopherLua LState with:
//   - Only safe stdlib loaded: base, table, string, math
//   - Dangerous globals removed: dofile, loadfile, load, collectgarbage, require
//   - An initial budget of instLimit opcodes for the code run on it directly
//
// Precondition: instLimit >= 0; 0 uses DefaultInstructionLimit.
// Postcondition: Returns a non-nil LState. The caller owns it and must Close it.
func NewSandboxedState(instLimit int) *lua.LState {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})

	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)

	for _, name := range []string{"dofile", "loadfile", "load", "collectgarbage", "require"} {
		L.SetGlobal(name, lua.LNil)
	}

	ctx, _ := newCountingContext(normalizeLimit(instLimit)) //nolint:govet // cancel fires when the budget runs out
	L.SetContext(ctx)
	return L
}
