package ai

import (
	"github.com/cory-johannsen/duel/internal/game/combat"
	"github.com/cory-johannsen/duel/internal/game/stat"
)

// BuildWorldState observes the footsies predicates for self facing target.
//
//   - target_can_attack: target has a non-None move it can use and afford on average
//   - target_has_died:   target's HP is at its minimum
//   - has_energy:        self has a non-None move it can use and afford on average
//   - low_on_health:     self's HP fraction is at or below lowHealth
//
// Precondition: self and target must be in a battle.
func BuildWorldState(self, target *combat.Fighter, lowHealth float64) WorldState {
	ws := WorldState{
		PredTargetCanAttack: canAttack(target),
		PredTargetHasDied:   target.Dead(),
		PredHasEnergy:       canAttack(self),
	}
	if hp, ok := self.Stat(stat.HP); ok {
		ws[PredLowOnHealth] = hp.Fraction() <= lowHealth
	}
	return ws
}

func canAttack(f *combat.Fighter) bool {
	for _, m := range attacks(f) {
		if ok, _ := f.CanAfford(m, true); ok {
			return true
		}
	}
	return false
}
