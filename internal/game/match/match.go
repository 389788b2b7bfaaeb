// Package match searches collections of tagged objects (moves, items,
// counters) and checks OR-of-AND requirement combinations against them.
package match

import (
	"errors"
	"fmt"
	"strings"
)

// Searchable is anything that exposes a flat attribute set to search over.
type Searchable interface {
	Attributes() map[string]any
}

// Criteria is the set of attribute key/value pairs a search must satisfy.
type Criteria map[string]any

// Name is shorthand for Criteria{"name": name}.
func Name(name string) Criteria { return Criteria{"name": name} }

// Status classifies a search result.
type Status int

const (
	NoMatch Status = iota
	Match
	Ambiguous
)

func (s Status) String() string {
	switch s {
	case Match:
		return "match"
	case Ambiguous:
		return "ambiguous"
	default:
		return "no match"
	}
}

// ErrNotFound is returned by Result.Err when nothing matched.
var ErrNotFound = errors.New("match: not found")

// AmbiguousError is returned by Result.Err when several candidates matched at
// the same precision level.
type AmbiguousError struct {
	Count int
}

func (e *AmbiguousError) Error() string {
	return fmt.Sprintf("match: ambiguous, %d candidates", e.Count)
}

// Result is the outcome of Find. Value is set only when Status is Match;
// Count is the number of candidates at the winning precision level.
type Result[T any] struct {
	Status Status
	Value  T
	Count  int
}

// Ok reports whether exactly one object matched.
func (r Result[T]) Ok() bool { return r.Status == Match }

// Err converts a non-match into ErrNotFound or *AmbiguousError. It returns nil on Match.
func (r Result[T]) Err() error {
	switch r.Status {
	case Match:
		return nil
	case Ambiguous:
		return &AmbiguousError{Count: r.Count}
	default:
		return ErrNotFound
	}
}

// Find searches objs for criteria.
//
// In exact mode the first object whose attributes contain every criteria pair
// verbatim is returned. Otherwise string criteria match case-insensitively as
// substrings and other values must be equal; any object matching every pair in
// full (case-insensitively) beats every partial candidate, and more than one
// candidate at the winning level is Ambiguous.
//
// Postcondition: Status == Match iff Value is the single winning candidate.
func Find[T Searchable](objs []T, criteria Criteria, exact bool) Result[T] {
	var res Result[T]
	if exact {
		for _, o := range objs {
			if matchesExact(o.Attributes(), criteria) {
				return Result[T]{Status: Match, Value: o, Count: 1}
			}
		}
		return res
	}

	var full, partial []T
	for _, o := range objs {
		attrs := o.Attributes()
		switch {
		case matchesFold(attrs, criteria):
			full = append(full, o)
		case matchesPartial(attrs, criteria):
			partial = append(partial, o)
		}
	}
	level := partial
	if len(full) > 0 {
		level = full
	}
	switch len(level) {
	case 0:
		return res
	case 1:
		return Result[T]{Status: Match, Value: level[0], Count: 1}
	default:
		return Result[T]{Status: Ambiguous, Count: len(level)}
	}
}

func matchesExact(attrs map[string]any, criteria Criteria) bool {
	for k, want := range criteria {
		got, ok := attrs[k]
		if !ok || got != want {
			return false
		}
	}
	return true
}

func matchesFold(attrs map[string]any, criteria Criteria) bool {
	for k, want := range criteria {
		got, ok := attrs[k]
		if !ok {
			return false
		}
		ws, wok := want.(string)
		gs, gok := got.(string)
		if wok && gok {
			if !strings.EqualFold(gs, ws) {
				return false
			}
			continue
		}
		if got != want {
			return false
		}
	}
	return true
}

func matchesPartial(attrs map[string]any, criteria Criteria) bool {
	for k, want := range criteria {
		got, ok := attrs[k]
		if !ok {
			return false
		}
		ws, wok := want.(string)
		gs, gok := got.(string)
		if wok && gok {
			if !strings.Contains(strings.ToLower(gs), strings.ToLower(ws)) {
				return false
			}
			continue
		}
		if got != want {
			return false
		}
	}
	return true
}

// Filter returns every object in objs for which keep is true, preserving order.
func Filter[T any](objs []T, keep func(T) bool) []T {
	out := make([]T, 0, len(objs))
	for _, o := range objs {
		if keep(o) {
			out = append(out, o)
		}
	}
	return out
}

// Satisfies checks an OR-list of AND-combinations against has.
//
// An empty combos list is trivially satisfied. The first combination whose
// every member passes has satisfies the requirement. When verbose is set and
// combos holds exactly one combination, the members failing has are returned;
// with several alternatives no missing list is computed.
//
// Precondition: has must not be nil.
func Satisfies[T any](combos [][]T, has func(T) bool, verbose bool) (bool, []T) {
	if has == nil {
		panic("match: Satisfies precondition violated: has must not be nil")
	}
	if len(combos) == 0 {
		return true, nil
	}
	for _, combo := range combos {
		if all(combo, has) {
			return true, nil
		}
	}
	if !verbose || len(combos) != 1 {
		return false, nil
	}
	var missing []T
	for _, member := range combos[0] {
		if !has(member) {
			missing = append(missing, member)
		}
	}
	return false, missing
}

func all[T any](combo []T, has func(T) bool) bool {
	for _, member := range combo {
		if !has(member) {
			return false
		}
	}
	return true
}

// Set returns a membership function over the given values.
func Set[T comparable](values ...T) func(T) bool {
	m := make(map[T]struct{}, len(values))
	for _, v := range values {
		m[v] = struct{}{}
	}
	return func(v T) bool {
		_, ok := m[v]
		return ok
	}
}
