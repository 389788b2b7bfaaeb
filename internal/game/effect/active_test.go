package effect_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/duel/internal/game/effect"
	"github.com/cory-johannsen/duel/internal/game/move"
)

func bleeding(duration int) *move.EffectDef {
	return &move.EffectDef{Name: "Bleeding", Target: move.TargetTarget, Duration: duration}
}

func stunned() *move.EffectDef {
	return &move.EffectDef{Name: "Stunned", Target: move.TargetTarget, Duration: 1, NoCounter: true}
}

func TestActiveSet_Receive_New(t *testing.T) {
	s := effect.NewActiveSet()
	a := s.Receive(bleeding(3), "Ayla", true)
	assert.True(t, s.Has("Bleeding"))
	assert.Equal(t, 3, a.Remaining)
	assert.Equal(t, "Ayla", a.Source)
	assert.NotEmpty(t, a.ID)
}

func TestActiveSet_Receive_StacksDuration(t *testing.T) {
	s := effect.NewActiveSet()
	s.Receive(bleeding(4), "Ayla", true)
	s.Tick()
	s.Tick()
	require.Equal(t, 2, s.Remaining("Bleeding"))

	s.Receive(bleeding(3), "Ayla", true)
	assert.Equal(t, 1, s.Len(), "stacking replaces rather than duplicating")
	assert.Equal(t, 5, s.Remaining("Bleeding"))
}

func TestActiveSet_Receive_NoStackReplaces(t *testing.T) {
	s := effect.NewActiveSet()
	s.Receive(bleeding(4), "Ayla", false)
	s.Receive(bleeding(3), "Brom", false)
	assert.Equal(t, 1, s.Len())
	assert.Equal(t, 3, s.Remaining("Bleeding"))
	a, ok := s.Get("Bleeding")
	require.True(t, ok)
	assert.Equal(t, "Brom", a.Source)
}

func TestActiveSet_Receive_DoesNotMutateDefinition(t *testing.T) {
	def := bleeding(2)
	s := effect.NewActiveSet()
	s.Receive(def, "Ayla", true)
	s.Tick()
	s.Receive(def, "Ayla", true)
	assert.Equal(t, 2, def.Duration)
}

func TestActiveSet_Receive_PanicsOnNil(t *testing.T) {
	assert.Panics(t, func() { effect.NewActiveSet().Receive(nil, "", true) })
}

func TestActiveSet_Tick_ExpiresInOrder(t *testing.T) {
	s := effect.NewActiveSet()
	s.Receive(stunned(), "Ayla", true)
	s.Receive(bleeding(2), "Ayla", true)
	s.Receive(&move.EffectDef{Name: "Dazed", Target: move.TargetTarget, Duration: 1}, "Ayla", true)

	expired := s.Tick()
	require.Len(t, expired, 2)
	assert.Equal(t, "Stunned", expired[0].Name())
	assert.Equal(t, "Dazed", expired[1].Name())
	assert.Equal(t, 1, s.Len())

	expired = s.Tick()
	require.Len(t, expired, 1)
	assert.Equal(t, 0, s.Len())
}

func TestActiveSet_NoCounter(t *testing.T) {
	s := effect.NewActiveSet()
	s.Receive(bleeding(2), "Ayla", true)
	assert.False(t, s.NoCounter())
	s.Receive(stunned(), "Ayla", true)
	assert.True(t, s.NoCounter())
	s.Remove("Stunned")
	assert.False(t, s.NoCounter())
}

func TestProperty_TickNeverLeavesNonPositive(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		s := effect.NewActiveSet()
		names := []string{"A", "B", "C"}
		ops := rapid.SliceOfN(rapid.IntRange(0, 3), 1, 40).Draw(rt, "ops")
		for i, op := range ops {
			if op == 3 {
				s.Tick()
			} else {
				d := rapid.IntRange(1, 5).Draw(rt, "duration")
				s.Receive(&move.EffectDef{Name: names[op], Target: move.TargetTarget, Duration: d}, "x", i%2 == 0)
			}
			seen := map[string]bool{}
			for _, a := range s.All() {
				if a.Remaining <= 0 {
					rt.Fatalf("effect %s left with remaining %d", a.Name(), a.Remaining)
				}
				if seen[a.Name()] {
					rt.Fatalf("duplicate effect %s", a.Name())
				}
				seen[a.Name()] = true
			}
		}
	})
}

// recordingRoll answers every roll with result and records the chances rolled.
type recordingRoll struct {
	result bool
	rolled []float64
}

func (r *recordingRoll) roll(_ string, chance float64) bool {
	r.rolled = append(r.rolled, chance)
	return r.result
}

func withChances(chances ...move.Chance) *move.EffectDef {
	return &move.EffectDef{Name: "Burn", Target: move.TargetTarget, Duration: 2, Chances: chances}
}

func TestTriggered_SituationBeforeDefault(t *testing.T) {
	def := withChances(move.Chance{Percent: 10}, move.Chance{Percent: 80, Situation: "critical"})
	r := &recordingRoll{result: true}
	ok, err := effect.Triggered(def, move.Info{Branch: move.Critical, Counter: move.CounterNone}, r.roll)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []float64{80}, r.rolled)
}

func TestTriggered_DefaultOnlyWhenNothingMatched(t *testing.T) {
	def := withChances(move.Chance{Percent: 10}, move.Chance{Percent: 80, Situation: "critical"})

	r := &recordingRoll{result: true}
	ok, err := effect.Triggered(def, move.Info{Branch: move.Normal, Counter: move.CounterNone}, r.roll)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []float64{10}, r.rolled)

	r = &recordingRoll{result: false}
	ok, err = effect.Triggered(def, move.Info{Branch: move.Critical}, r.roll)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, []float64{80}, r.rolled, "a matched but failed situation suppresses the default")
}

func TestTriggered_DefaultNeverOnSenderFail(t *testing.T) {
	def := withChances(move.Chance{Percent: 100})
	r := &recordingRoll{result: true}
	ok, err := effect.Triggered(def, move.Info{Branch: move.Failure}, r.roll)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, r.rolled)

	ok, err = effect.Triggered(def, move.Info{LowStat: "st"}, r.roll)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestTriggered_FirstSuccessfulMatchStops(t *testing.T) {
	def := withChances(
		move.Chance{Percent: 30, Situation: "block"},
		move.Chance{Percent: 60, Situation: "blockFailure"},
		move.Chance{Percent: 90, Situation: "critical"},
	)
	r := &recordingRoll{result: true}
	ok, err := effect.Triggered(def, move.Info{Branch: move.BlockFailCritical, Counter: move.CounterBlock}, r.roll)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []float64{30}, r.rolled)

	r = &recordingRoll{result: false}
	_, err = effect.Triggered(def, move.Info{Branch: move.BlockFailCritical, Counter: move.CounterBlock}, r.roll)
	require.NoError(t, err)
	assert.Equal(t, []float64{30, 60, 90}, r.rolled, "failed rolls fall through to later matching situations")
}

func TestTriggered_SituationTable(t *testing.T) {
	cases := []struct {
		situation string
		info      move.Info
		want      bool
	}{
		{"failure", move.Info{Branch: move.Failure}, true},
		{"failure", move.Info{Branch: move.Normal}, false},
		{"senderFail", move.Info{LowStat: "hp"}, true},
		{"fast", move.Info{Branch: move.FastCritical}, true},
		{"fast", move.Info{Branch: move.Critical, Counter: move.CounterNone}, false},
		{"critical", move.Info{Branch: move.EvadeFailCritical, Counter: move.CounterEvade}, true},
		{"uncountered", move.Info{Branch: move.Normal, Counter: move.CounterNone}, true},
		{"uncountered", move.Info{Branch: move.Fast}, true},
		{"uncountered", move.Info{Branch: move.Failure}, true},
		{"uncountered", move.Info{Branch: move.Block, Counter: move.CounterBlock}, false},
		{"none", move.Info{Branch: move.Normal, Counter: move.CounterNone}, true},
		{"evade", move.Info{Branch: move.EvadeFail, Counter: move.CounterEvade}, true},
		{"evade", move.Info{Branch: move.Fast}, false},
		{"evadeSuccess", move.Info{Branch: move.Evade, Counter: move.CounterEvade}, true},
		{"evadeSuccess", move.Info{Branch: move.EvadeFail, Counter: move.CounterEvade}, false},
		{"blockFailure", move.Info{Branch: move.BlockFail, Counter: move.CounterBlock}, true},
		{"blockFailure", move.Info{Branch: move.EvadeFail, Counter: move.CounterEvade}, false},
	}
	for _, tc := range cases {
		t.Run(tc.situation+"/"+tc.info.String(), func(t *testing.T) {
			r := &recordingRoll{result: true}
			ok, err := effect.Triggered(withChances(move.Chance{Percent: 50, Situation: tc.situation}), tc.info, r.roll)
			require.NoError(t, err)
			assert.Equal(t, tc.want, ok)
		})
	}
}

func TestTriggered_UnknownSituationIsError(t *testing.T) {
	def := withChances(move.Chance{Percent: 50, Situation: "parry"})
	_, err := effect.Triggered(def, move.Info{Branch: move.Normal}, (&recordingRoll{}).roll)
	var use *move.UnknownSituationError
	require.True(t, errors.As(err, &use))
	assert.Equal(t, "Burn", use.Effect)
}
