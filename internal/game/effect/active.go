// Package effect tracks status effects applied to a fighter and decides when a
// move outcome triggers a new one.
package effect

import (
	"github.com/google/uuid"

	"github.com/cory-johannsen/duel/internal/game/move"
)

// Active tracks one applied status effect on a fighter.
// Def is shared with the catalog and never mutated; only Remaining counts down.
type Active struct {
	ID        string
	Def       *move.EffectDef
	Remaining int
	Source    string // name of the fighter whose move applied it
}

// Name returns the definition's name.
func (a *Active) Name() string { return a.Def.Name }

// ActiveSet tracks all status effects currently applied to one fighter, in
// the order they were received.
// It is not safe for concurrent use; the caller must serialise access.
type ActiveSet struct {
	effects []*Active
}

// NewActiveSet creates an empty ActiveSet.
func NewActiveSet() *ActiveSet {
	return &ActiveSet{}
}

// Receive applies def to the set. An existing effect with the same name is
// replaced; when stackDuration is set the replaced effect's remaining duration
// is added to the new one.
//
// Precondition: def must not be nil and def.Duration >= 1.
// Postcondition: exactly one effect named def.Name is active; it is the last in All().
func (s *ActiveSet) Receive(def *move.EffectDef, source string, stackDuration bool) *Active {
	if def == nil {
		panic("effect: Receive precondition violated: def must not be nil")
	}
	if def.Duration < 1 {
		panic("effect: Receive precondition violated: duration must be >= 1")
	}
	a := &Active{ID: uuid.NewString(), Def: def, Remaining: def.Duration, Source: source}
	if i := s.index(def.Name); i >= 0 {
		if stackDuration {
			a.Remaining += s.effects[i].Remaining
		}
		s.effects = append(s.effects[:i], s.effects[i+1:]...)
	}
	s.effects = append(s.effects, a)
	return a
}

// Tick decrements every effect's remaining duration by one and removes those
// reaching zero.
//
// Postcondition: the returned effects are no longer in the set, in their prior order.
func (s *ActiveSet) Tick() []*Active {
	var expired []*Active
	kept := s.effects[:0]
	for _, a := range s.effects {
		a.Remaining--
		if a.Remaining <= 0 {
			expired = append(expired, a)
			continue
		}
		kept = append(kept, a)
	}
	for i := len(kept); i < len(s.effects); i++ {
		s.effects[i] = nil
	}
	s.effects = kept
	return expired
}

// Remove deletes the effect named name. Missing names are a no-op.
//
// Postcondition: Has(name) is false.
func (s *ActiveSet) Remove(name string) {
	if i := s.index(name); i >= 0 {
		s.effects = append(s.effects[:i], s.effects[i+1:]...)
	}
}

// Has reports whether an effect named name is active.
func (s *ActiveSet) Has(name string) bool { return s.index(name) >= 0 }

// Get returns the active effect named name.
func (s *ActiveSet) Get(name string) (*Active, bool) {
	if i := s.index(name); i >= 0 {
		return s.effects[i], true
	}
	return nil, false
}

// Remaining returns the remaining duration of name, or 0 if not active.
func (s *ActiveSet) Remaining(name string) int {
	if a, ok := s.Get(name); ok {
		return a.Remaining
	}
	return 0
}

// Len returns the number of active effects.
func (s *ActiveSet) Len() int { return len(s.effects) }

// NoCounter reports whether any active effect forbids countering.
func (s *ActiveSet) NoCounter() bool {
	for _, a := range s.effects {
		if a.Def.NoCounter {
			return true
		}
	}
	return false
}

// All returns the active effects in received order. The slice is a copy but
// the pointed-to values are shared; callers must not modify them.
func (s *ActiveSet) All() []*Active {
	out := make([]*Active, len(s.effects))
	copy(out, s.effects)
	return out
}

// Clear removes every effect.
func (s *ActiveSet) Clear() { s.effects = nil }

func (s *ActiveSet) index(name string) int {
	for i, a := range s.effects {
		if a.Def.Name == name {
			return i
		}
	}
	return -1
}
