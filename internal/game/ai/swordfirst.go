package ai

import (
	"github.com/cory-johannsen/duel/internal/game/combat"
	"github.com/cory-johannsen/duel/internal/game/move"
	"github.com/cory-johannsen/duel/internal/game/stat"
)

// Named moves and effects the SwordFirst ladder knows about.
const (
	MoveSecondWind  = "Second Wind"
	MoveRend        = "Rend"
	MoveSwordThrust = "Sword Thrust"
	MoveSwordSlash  = "Sword Slash"
	MovePunch       = "Punch"

	EffectBleeding = "Bleeding"
)

// swordFirstHeal is the HP fraction at or below which SwordFirst heals.
const swordFirstHeal = 0.35

// SwordFirst walks a fixed priority ladder of named moves and sends the first
// one it can use: heal when hurt, open a bleed, then its sword moves, then a
// punch. Counters come from Generic.
type SwordFirst struct {
	*Generic
}

// NewSwordFirst creates a SwordFirst AI on top of g.
func NewSwordFirst(g *Generic) *SwordFirst { return &SwordFirst{Generic: g} }

// AnalyseMove implements combat.AI.
func (a *SwordFirst) AnalyseMove(self, target *combat.Fighter) *move.Move {
	if hp, ok := self.Stat(stat.HP); ok && hp.Fraction() <= swordFirstHeal {
		if m, ok := known(self, MoveSecondWind); ok {
			return m
		}
	}
	if !target.Effects.Has(EffectBleeding) {
		if m, ok := known(self, MoveRend); ok {
			return m
		}
	}
	for _, name := range []string{MoveSwordThrust, MoveSwordSlash, MovePunch} {
		if m, ok := known(self, name); ok {
			return m
		}
	}
	return move.None
}
