package combat_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cory-johannsen/duel/internal/config"
	"github.com/cory-johannsen/duel/internal/game/combat"
	"github.com/cory-johannsen/duel/internal/game/dice"
	"github.com/cory-johannsen/duel/internal/game/move"
	"github.com/cory-johannsen/duel/internal/game/narration"
	"github.com/cory-johannsen/duel/internal/game/stat"
)

// fixedSrc returns val for every Float64 call and n for every Intn call.
type fixedSrc struct {
	val float64
	n   int
}

func (f fixedSrc) Intn(_ int) int    { return f.n }
func (f fixedSrc) Float64() float64 { return f.val }

// fakeAI always answers with the configured move and counter and records
// every notification.
type fakeAI struct {
	move         *move.Move
	counter      move.Counter
	counterCalls int
	received     []move.Info
}

func (a *fakeAI) AnalyseMove(_, _ *combat.Fighter) *move.Move {
	if a.move == nil {
		return move.None
	}
	return a.move
}

func (a *fakeAI) AnalyseCounter(_, _ *combat.Fighter, _ *move.Move) move.Counter {
	a.counterCalls++
	if a.counter == "" {
		return move.CounterNone
	}
	return a.counter
}

func (a *fakeAI) AnalyseMoveReceive(_, _ *combat.Fighter, _ *move.Move, info move.Info) {
	a.received = append(a.received, info)
}

func newFighter(t *testing.T, name string, ai combat.AI, moves ...*move.Move) *combat.Fighter {
	t.Helper()
	f, err := combat.NewFighter(combat.FighterConfig{
		Name:  name,
		Stats: stat.Defaults(),
		Moves: moves,
		AI:    ai,
	})
	require.NoError(t, err)
	return f
}

// newBattle enters a and b into a fresh environment rolling with src.
func newBattle(t *testing.T, cfg config.BattleConfig, src dice.Source, a, b *combat.Fighter) (*combat.Environment, *narration.Recorder) {
	t.Helper()
	rec := &narration.Recorder{}
	env := combat.NewEnvironment(cfg, dice.NewLoggedRoller(src, zap.NewNop()), rec, zap.NewNop())
	require.NoError(t, env.Enter(context.Background(), a, b))
	return env, rec
}

func hpValue(b move.Branch, v float64) map[move.ValueKey]stat.Bound {
	return map[move.ValueKey]stat.Bound{{Branch: b, Stat: stat.HP}: stat.Fixed(v)}
}
