// Package ai implements the heuristic strategies that pick moves and counters
// for non-player fighters, and the goal-oriented action planner one of them uses.
package ai

import (
	"math"

	"github.com/cory-johannsen/duel/internal/game/combat"
	"github.com/cory-johannsen/duel/internal/game/move"
	"github.com/cory-johannsen/duel/internal/game/stat"
)

// Strategy names accepted by Registry.New.
const (
	StrategyGeneric    = "generic"
	StrategyDummy      = "dummy"
	StrategyMimic      = "mimic"
	StrategySwordFirst = "swordfirst"
	StrategyFootsies   = "footsies"
)

// minFraction floors a stat's fill fraction so desperation stays finite.
const minFraction = 0.05

// desperation weights a stat by how close it is to empty: 1 when full,
// growing as fraction^-exponent when it drains.
func desperation(s *stat.Stat, exponent float64) float64 {
	return math.Pow(math.Max(s.Fraction(), minFraction), -exponent)
}

// attacks returns the moves self can use right now, excluding None.
func attacks(self *combat.Fighter) []*move.Move {
	var out []*move.Move
	for _, m := range self.AvailableMoves() {
		if !m.IsNone() {
			out = append(out, m)
		}
	}
	return out
}

// usable reports whether self knows-or-can-borrow m and can pay for it on average.
func usable(self *combat.Fighter, m *move.Move) bool {
	if m == nil || self.CheckRequirements(m) != nil {
		return false
	}
	ok, _ := self.CanAfford(m, true)
	return ok
}

// known returns self's move named name if it is usable.
func known(self *combat.Fighter, name string) (*move.Move, bool) {
	res := self.FindMove(name, true)
	if !res.Ok() || !usable(self, res.Value) {
		return nil, false
	}
	return res.Value, true
}

func clamp01(v float64) float64 { return math.Max(0, math.Min(1, v)) }
