package ai_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/cory-johannsen/duel/internal/config"
	"github.com/cory-johannsen/duel/internal/game/combat"
	"github.com/cory-johannsen/duel/internal/game/dice"
	"github.com/cory-johannsen/duel/internal/game/move"
	"github.com/cory-johannsen/duel/internal/game/stat"
)

// fixedSrc returns val for every Float64 call and n for every Intn call.
type fixedSrc struct {
	val float64
	n   int
}

func (f fixedSrc) Intn(_ int) int    { return f.n }
func (f fixedSrc) Float64() float64 { return f.val }

// mockScriptCaller returns the configured value for the named hook and LNil otherwise.
type mockScriptCaller struct {
	hooks map[string]lua.LValue
	calls []string
}

func (m *mockScriptCaller) CallHook(_, hook string, _ ...lua.LValue) (lua.LValue, error) {
	m.calls = append(m.calls, hook)
	if v, ok := m.hooks[hook]; ok {
		return v, nil
	}
	return lua.LNil, nil
}

func aiConfig() config.AIConfig {
	return config.AIConfig{
		GenericTries:        10,
		DesperationExponent: map[string]float64{"hp": 3, "st": 2, "mp": 2},
	}
}

// statsWith returns the default stat table with the given current values.
func statsWith(values map[stat.Key]int) []stat.Def {
	defs := stat.Defaults()
	for i := range defs {
		if v, ok := values[defs[i].Key]; ok {
			defs[i].Value = v
		}
	}
	return defs
}

func fighter(t *testing.T, name string, defs []stat.Def, moves ...*move.Move) *combat.Fighter {
	t.Helper()
	if defs == nil {
		defs = stat.Defaults()
	}
	f, err := combat.NewFighter(combat.FighterConfig{Name: name, Stats: defs, Moves: moves})
	require.NoError(t, err)
	return f
}

func battle(t *testing.T, fighters ...*combat.Fighter) *combat.Environment {
	t.Helper()
	env := combat.NewEnvironment(config.DefaultBattle(), dice.NewLoggedRoller(fixedSrc{val: 0.99}, zap.NewNop()), nil, zap.NewNop())
	require.NoError(t, env.Enter(context.Background(), fighters...))
	return env
}

func costly(name string, k stat.Key, cost float64) *move.Move {
	return &move.Move{
		Name:   name,
		Speed:  100,
		Costs:  map[stat.Key]stat.Bound{k: stat.Fixed(cost)},
		Values: map[move.ValueKey]stat.Bound{{Branch: move.Normal, Stat: stat.HP}: stat.Fixed(-10)},
	}
}

func free(name string) *move.Move {
	return &move.Move{
		Name:   name,
		Speed:  100,
		Values: map[move.ValueKey]stat.Bound{{Branch: move.Normal, Stat: stat.HP}: stat.Fixed(-10)},
	}
}
