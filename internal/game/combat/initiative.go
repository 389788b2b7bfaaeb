package combat

import "github.com/cory-johannsen/duel/internal/game/dice"

// RollFirstTurn flips a coin to decide which of a and b opens the battle.
//
// Precondition: src must be non-nil.
// Postcondition: returns (a, b) or (b, a).
func RollFirstTurn(a, b *Fighter, src dice.Source) (first, second *Fighter) {
	if src.Intn(2) == 1 {
		return b, a
	}
	return a, b
}
