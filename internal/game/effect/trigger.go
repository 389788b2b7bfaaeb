package effect

import (
	"fmt"

	"github.com/cory-johannsen/duel/internal/game/move"
)

// Roll performs a labelled percent check. combat passes a closure over its
// dice.Roller that also applies the environment's chance multiplier.
type Roll func(label string, chance float64) bool

// Triggered decides whether a move outcome described by info applies def.
//
// Situational chances are evaluated in order; the first one whose situation
// matches info and whose roll succeeds applies the effect. The bare default
// chance is only rolled when no situation matched and the move did not fail
// on the sender's side.
//
// Precondition: def and roll must not be nil.
// Postcondition: returns *move.UnknownSituationError for an unrecognised tag.
func Triggered(def *move.EffectDef, info move.Info, roll Roll) (bool, error) {
	if def == nil || roll == nil {
		panic("effect: Triggered precondition violated: def and roll must not be nil")
	}
	matched := false
	var fallback *move.Chance
	for i := range def.Chances {
		c := def.Chances[i]
		if c.IsDefault() {
			fallback = &def.Chances[i]
			continue
		}
		ok, err := situationMatches(c.Situation, info)
		if err != nil {
			return false, &move.UnknownSituationError{Effect: def.Name, Situation: c.Situation}
		}
		if !ok {
			continue
		}
		matched = true
		if roll(fmt.Sprintf("%s (%s)", def.Name, c.Situation), c.Percent) {
			return true, nil
		}
	}
	if matched || fallback == nil || info.SenderFail() {
		return false, nil
	}
	return roll(def.Name, fallback.Percent), nil
}

func situationMatches(tag string, info move.Info) (bool, error) {
	if !move.ValidSituation(tag) {
		return false, fmt.Errorf("unknown situation %q", tag)
	}
	switch tag {
	case move.SituationFailure:
		return info.Branch == move.Failure, nil
	case move.SituationSenderFail:
		return info.SenderFail(), nil
	case move.SituationFast:
		return info.Fast(), nil
	case move.SituationCritical:
		return info.Branch.IsCritical(), nil
	case move.SituationUncountered:
		switch info.Branch {
		case move.Normal, move.Critical, move.Fast, move.FastCritical:
			return true, nil
		}
		return info.SenderFail(), nil
	}
	if info.SenderFail() {
		return false, nil
	}
	for _, c := range []move.Counter{move.CounterBlock, move.CounterEvade} {
		switch tag {
		case string(c) + "Success":
			return info.Counter == c && info.CounterSucceeded(), nil
		case string(c) + "Failure":
			return info.Counter == c && info.CounterFailed(), nil
		}
	}
	// a bare counter name: that counter was attempted
	return string(info.Counter) == tag, nil
}
