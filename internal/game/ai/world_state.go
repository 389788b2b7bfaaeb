package ai

import (
	"sort"
	"strings"
)

// Predicates observed by the footsies strategy.
const (
	PredTargetCanAttack = "target_can_attack"
	PredTargetHasDied   = "target_has_died"
	PredHasEnergy       = "has_energy"
	PredLowOnHealth     = "low_on_health"
)

// WorldState is a set of boolean predicates. A missing predicate is false.
type WorldState map[string]bool

// Satisfies reports whether every predicate in cond holds in ws.
//
// Postcondition: an empty cond is always satisfied.
func (ws WorldState) Satisfies(cond WorldState) bool {
	for k, want := range cond {
		if ws[k] != want {
			return false
		}
	}
	return true
}

// Apply returns a copy of ws with effects written over it. ws is unchanged.
func (ws WorldState) Apply(effects WorldState) WorldState {
	out := make(WorldState, len(ws)+len(effects))
	for k, v := range ws {
		out[k] = v
	}
	for k, v := range effects {
		out[k] = v
	}
	return out
}

// Key returns a canonical encoding of the true predicates, so states that
// differ only in explicit false entries compare equal.
func (ws WorldState) Key() string {
	keys := make([]string, 0, len(ws))
	for k, v := range ws {
		if v {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return strings.Join(keys, ",")
}

// String renders the true predicates, e.g. "{has_energy,target_can_attack}".
func (ws WorldState) String() string { return "{" + ws.Key() + "}" }
