package match_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/duel/internal/game/match"
)

type named struct {
	name string
	kind string
	tier int
}

func (n named) Attributes() map[string]any {
	return map[string]any{"name": n.name, "kind": n.kind, "tier": n.tier}
}

var moves = []named{
	{name: "Kick", kind: "leg", tier: 1},
	{name: "Kicker", kind: "leg", tier: 2},
	{name: "Punch", kind: "arm", tier: 1},
	{name: "Power Punch", kind: "arm", tier: 3},
}

func TestFind_ExactBeatsPartial(t *testing.T) {
	res := match.Find(moves, match.Name("Kick"), false)
	require.Equal(t, match.Match, res.Status)
	assert.Equal(t, "Kick", res.Value.name)
}

func TestFind_ExactBeatsPartial_CaseInsensitive(t *testing.T) {
	res := match.Find(moves, match.Name("kick"), false)
	require.True(t, res.Ok())
	assert.Equal(t, "Kick", res.Value.name)
}

func TestFind_PartialUnique(t *testing.T) {
	res := match.Find(moves, match.Name("pow"), false)
	require.True(t, res.Ok())
	assert.Equal(t, "Power Punch", res.Value.name)
}

func TestFind_PartialAmbiguousCarriesCount(t *testing.T) {
	res := match.Find(moves, match.Name("unc"), false)
	assert.Equal(t, match.Ambiguous, res.Status)
	assert.Equal(t, 2, res.Count)

	var amb *match.AmbiguousError
	require.True(t, errors.As(res.Err(), &amb))
	assert.Equal(t, 2, amb.Count)
}

func TestFind_NoMatch(t *testing.T) {
	res := match.Find(moves, match.Name("Headbutt"), false)
	assert.Equal(t, match.NoMatch, res.Status)
	assert.ErrorIs(t, res.Err(), match.ErrNotFound)
}

func TestFind_NonStringCriteriaAreExact(t *testing.T) {
	res := match.Find(moves, match.Criteria{"kind": "arm", "tier": 3}, false)
	require.True(t, res.Ok())
	assert.Equal(t, "Power Punch", res.Value.name)
}

func TestFind_ExactMode_FirstSuperset(t *testing.T) {
	res := match.Find(moves, match.Criteria{"kind": "leg"}, true)
	require.True(t, res.Ok())
	assert.Equal(t, "Kick", res.Value.name)

	res = match.Find(moves, match.Name("kick"), true)
	assert.Equal(t, match.NoMatch, res.Status, "exact mode is case-sensitive")
}

func TestFind_UnknownAttributeNeverMatches(t *testing.T) {
	res := match.Find(moves, match.Criteria{"colour": "red"}, false)
	assert.Equal(t, match.NoMatch, res.Status)
}

func TestFilter(t *testing.T) {
	arms := match.Filter(moves, func(n named) bool { return n.kind == "arm" })
	assert.Len(t, arms, 2)
	assert.Equal(t, "Punch", arms[0].name)
}

func TestSatisfies_OrOfAnd(t *testing.T) {
	combos := [][]string{{"A", "B"}, {"C"}}

	ok, _ := match.Satisfies(combos, match.Set("C"), false)
	assert.True(t, ok, "C alone satisfies the second combination")

	ok, _ = match.Satisfies(combos, match.Set("A", "B"), false)
	assert.True(t, ok, "A and B satisfy the first combination")

	ok, _ = match.Satisfies(combos, match.Set("A"), false)
	assert.False(t, ok, "A alone satisfies neither combination")
}

func TestSatisfies_EmptyIsTrivial(t *testing.T) {
	ok, missing := match.Satisfies[string](nil, match.Set[string](), true)
	assert.True(t, ok)
	assert.Empty(t, missing)
}

func TestSatisfies_VerboseMissingOnlyForSingleCombination(t *testing.T) {
	ok, missing := match.Satisfies([][]string{{"A", "B", "C"}}, match.Set("B"), true)
	assert.False(t, ok)
	assert.Equal(t, []string{"A", "C"}, missing)

	ok, missing = match.Satisfies([][]string{{"A", "B"}, {"C"}}, match.Set("B"), true)
	assert.False(t, ok)
	assert.Nil(t, missing, "no missing list when alternatives exist")

	ok, missing = match.Satisfies([][]string{{"A"}}, match.Set("B"), false)
	assert.False(t, ok)
	assert.Nil(t, missing, "missing list only in verbose mode")
}

func TestSatisfies_NilHasPanics(t *testing.T) {
	assert.Panics(t, func() { match.Satisfies([][]string{{"A"}}, nil, false) })
}

func TestProperty_FindExactNameAlwaysWins(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		base := rapid.StringMatching(`[a-z]{1,6}`).Draw(rt, "base")
		n := rapid.IntRange(1, 5).Draw(rt, "extensions")
		objs := []named{{name: base}}
		for i := 0; i < n; i++ {
			objs = append(objs, named{name: fmt.Sprintf("%s%d", base, i)})
		}
		res := match.Find(objs, match.Name(base), false)
		if !res.Ok() || res.Value.name != base {
			rt.Fatalf("expected exact match %q, got %v", base, res.Status)
		}
	})
}

func TestProperty_SatisfiesMatchesBruteForce(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		universe := []string{"A", "B", "C", "D"}
		held := rapid.SliceOfDistinct(rapid.SampledFrom(universe), func(s string) string { return s }).Draw(rt, "held")
		combos := rapid.SliceOfN(rapid.SliceOfN(rapid.SampledFrom(universe), 1, 3), 1, 3).Draw(rt, "combos")
		has := match.Set(held...)

		want := false
		for _, c := range combos {
			okAll := true
			for _, m := range c {
				okAll = okAll && has(m)
			}
			want = want || okAll
		}
		got, _ := match.Satisfies(combos, has, true)
		if got != want {
			rt.Fatalf("Satisfies(%v, %v) = %v, want %v", combos, held, got, want)
		}
	})
}
