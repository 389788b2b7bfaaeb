package ai

import (
	"strings"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/cory-johannsen/duel/internal/game/combat"
	"github.com/cory-johannsen/duel/internal/game/move"
	"github.com/cory-johannsen/duel/internal/game/stat"
)

// ScriptCaller evaluates the Lua weight hooks named by domain actions.
type ScriptCaller interface {
	// CallHook calls a named Lua function in the given scope's VM.
	// Returns (LNil, nil) if the function is not defined.
	CallHook(scope, hook string, args ...lua.LValue) (lua.LValue, error)
}

// Footsies is the goal-oriented strategy: each turn it observes the world
// state, prices every domain action it can perform, plans the cheapest route
// to the domain goal and sends the move behind the first step.
// Counters come from Generic.
type Footsies struct {
	*Generic
	domain   *Domain
	caller   ScriptCaller
	lastPlan []*Action
}

// NewFootsies creates a Footsies AI for domain. caller may be nil, in which
// case action hooks are ignored.
//
// Precondition: g and domain must be non-nil.
func NewFootsies(g *Generic, domain *Domain, caller ScriptCaller) *Footsies {
	if g == nil || domain == nil {
		panic("ai: NewFootsies precondition violated: generic and domain must be non-nil")
	}
	return &Footsies{Generic: g, domain: domain, caller: caller}
}

// AnalyseMove implements combat.AI.
func (a *Footsies) AnalyseMove(self, target *combat.Fighter) *move.Move {
	ws := BuildWorldState(self, target, a.domain.LowHealth)
	performs := make(map[*Action]*move.Move, len(a.domain.Actions))
	var actions []*Action
	for _, act := range a.domain.Actions {
		if m, ok := perform(self, act); ok {
			performs[act] = m
			actions = append(actions, act)
		}
	}

	plan, total, ok := Plan(ws, a.domain.Goal, actions, func(act *Action) float64 {
		return a.weight(self, target, act, performs[act])
	})
	if !ok || len(plan) == 0 {
		a.lastPlan = nil
		a.logger.Debug("no plan", zap.String("fighter", self.Name), zap.Stringer("state", ws))
		return move.None
	}
	a.lastPlan = plan
	ids := make([]string, len(plan))
	for i, act := range plan {
		ids[i] = act.ID
	}
	a.logger.Debug("plan",
		zap.String("fighter", self.Name),
		zap.Stringer("state", ws),
		zap.String("steps", strings.Join(ids, " > ")),
		zap.Float64("weight", total),
	)
	return performs[plan[0]]
}

// LastPlan returns the plan chosen on the most recent AnalyseMove.
func (a *Footsies) LastPlan() []*Action { return a.lastPlan }

// perform returns the move that carries out act for self.
func perform(self *combat.Fighter, act *Action) (*move.Move, bool) {
	if len(act.Moves) == 0 {
		return move.None, true
	}
	for _, name := range act.Moves {
		if m, ok := known(self, name); ok {
			return m, true
		}
	}
	return nil, false
}

// weight prices act for this turn: its base cost grown by the weighted cost
// of its move, or whatever its Lua hook returns.
func (a *Footsies) weight(self, target *combat.Fighter, act *Action, m *move.Move) float64 {
	w := act.Cost
	if !m.IsNone() {
		w *= 1 + a.costWeight(self, m)
	}
	if act.Hook == "" || a.caller == nil {
		return w
	}
	ret, err := a.caller.CallHook(a.domain.ID, act.Hook,
		lua.LNumber(fraction(self, stat.HP)),
		lua.LNumber(fraction(self, stat.ST)),
		lua.LNumber(fraction(target, stat.HP)),
		lua.LNumber(w),
	)
	if err != nil {
		a.logger.Warn("weight hook failed", zap.String("hook", act.Hook), zap.Error(err))
		return w
	}
	if n, ok := ret.(lua.LNumber); ok {
		return float64(n)
	}
	return w
}

func fraction(f *combat.Fighter, k stat.Key) float64 {
	if s, ok := f.Stat(k); ok {
		return s.Fraction()
	}
	return 0
}
