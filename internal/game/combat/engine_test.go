package combat_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cory-johannsen/duel/internal/config"
	"github.com/cory-johannsen/duel/internal/game/combat"
	"github.com/cory-johannsen/duel/internal/game/dice"
)

func newEnv() *combat.Environment {
	return combat.NewEnvironment(config.DefaultBattle(), dice.NewLoggedRoller(fixedSrc{val: 0.99}, zap.NewNop()), nil, zap.NewNop())
}

func TestEngine_StartGetEnd(t *testing.T) {
	ctx := context.Background()
	eng := combat.NewEngine()
	a, b := newFighter(t, "Ayla", nil), newFighter(t, "Brom", nil)
	env := newEnv()

	require.NoError(t, eng.StartBattle(ctx, env, a, b))
	assert.Equal(t, 1, eng.Active())

	got, ok := eng.GetBattle(env.ID)
	require.True(t, ok)
	assert.Same(t, env, got)

	assert.Error(t, eng.StartBattle(ctx, env), "duplicate id")

	require.NoError(t, eng.EndBattle(ctx, env.ID))
	assert.Zero(t, eng.Active())
	assert.Equal(t, combat.StateClosed, env.State())
	assert.Nil(t, a.Env())

	_, ok = eng.GetBattle(env.ID)
	assert.False(t, ok)
	assert.NoError(t, eng.EndBattle(ctx, "unknown"))
}

func TestEngine_FailedEnterIsNotRegistered(t *testing.T) {
	ctx := context.Background()
	eng := combat.NewEngine()
	a, b := newFighter(t, "Ayla", nil), newFighter(t, "Brom", nil)
	require.NoError(t, eng.StartBattle(ctx, newEnv(), a, b))

	second := newEnv()
	assert.Error(t, eng.StartBattle(ctx, second, a))
	_, ok := eng.GetBattle(second.ID)
	assert.False(t, ok)
	assert.Equal(t, 1, eng.Active())
}

func TestEngine_ConcurrentBattles(t *testing.T) {
	ctx := context.Background()
	eng := combat.NewEngine()

	const n = 8
	var wg sync.WaitGroup
	for i := range n {
		a := newFighter(t, "Ayla", &fakeAI{move: heavyBlow()})
		b := newFighter(t, "Brom", &fakeAI{})
		env := newEnv()
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := eng.StartBattle(ctx, env, a, b); err != nil {
				t.Errorf("battle %d: %v", i, err)
				return
			}
			res, err := env.Run(ctx, a, b)
			if err != nil {
				t.Errorf("battle %d: %v", i, err)
				return
			}
			if res.Winner != a {
				t.Errorf("battle %d: winner %v", i, res.Winner)
			}
			if err := eng.EndBattle(ctx, env.ID); err != nil {
				t.Errorf("battle %d: %v", i, err)
			}
		}()
	}
	wg.Wait()
	assert.Zero(t, eng.Active())
}
