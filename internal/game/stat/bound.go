// Package stat provides bounded numeric ranges and clamped fighter statistics.
package stat

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/duel/internal/game/dice"
)

// Bound is an inclusive numeric range.
//
// Invariant: Lower <= Upper.
type Bound struct {
	Lower float64
	Upper float64
}

// NewBound returns the range [lo, hi].
//
// Postcondition: returns an error iff lo > hi or either bound is NaN.
func NewBound(lo, hi float64) (Bound, error) {
	if math.IsNaN(lo) || math.IsNaN(hi) {
		return Bound{}, fmt.Errorf("stat: bound must not be NaN")
	}
	if lo > hi {
		return Bound{}, fmt.Errorf("stat: bound lower %v exceeds upper %v", lo, hi)
	}
	return Bound{Lower: lo, Upper: hi}, nil
}

// MustBound is NewBound that panics on error. Useful for fixtures and defaults.
func MustBound(lo, hi float64) Bound {
	b, err := NewBound(lo, hi)
	if err != nil {
		panic(err.Error())
	}
	return b
}

// Fixed returns the degenerate range [v, v].
func Fixed(v float64) Bound { return Bound{Lower: v, Upper: v} }

// Integral reports whether both ends are whole numbers; such bounds sample integers.
func (b Bound) Integral() bool {
	return b.Lower == math.Trunc(b.Lower) && b.Upper == math.Trunc(b.Upper)
}

// Average returns the midpoint (Lower+Upper)/2.
func (b Bound) Average() float64 { return (b.Lower + b.Upper) / 2 }

// Sample draws a uniform value in [Lower, Upper].
// Integral bounds yield whole numbers; a degenerate bound consumes no randomness.
//
// Precondition: src must be non-nil.
// Postcondition: Lower <= result <= Upper.
func (b Bound) Sample(src dice.Source) float64 {
	if b.Lower == b.Upper {
		return b.Lower
	}
	if b.Integral() {
		span := int(b.Upper-b.Lower) + 1
		return b.Lower + float64(src.Intn(span))
	}
	return b.Lower + src.Float64()*(b.Upper-b.Lower)
}

// Clamp returns v limited to [Lower, Upper].
func (b Bound) Clamp(v float64) float64 {
	return math.Max(b.Lower, math.Min(b.Upper, v))
}

// Contains reports whether v lies in [Lower, Upper].
func (b Bound) Contains(v float64) bool { return v >= b.Lower && v <= b.Upper }

// String returns "v" for a degenerate bound and "lo..hi" otherwise.
func (b Bound) String() string {
	if b.Lower == b.Upper {
		return formatNumber(b.Lower)
	}
	return formatNumber(b.Lower) + ".." + formatNumber(b.Upper)
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// ParseBound parses "v" or "lo..hi" into a Bound.
// Supported forms: "5", "-10", "2.5", "-12..-8", "0.5..1.5"
//
// Postcondition: Returns a valid Bound or a descriptive error.
func ParseBound(s string) (Bound, error) {
	raw := s
	s = strings.TrimSpace(s)
	if s == "" {
		return Bound{}, fmt.Errorf("stat: empty bound")
	}
	lo, hi, ranged := strings.Cut(s, "..")
	if !ranged {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return Bound{}, fmt.Errorf("stat: invalid bound %q: %w", raw, err)
		}
		return Fixed(v), nil
	}
	l, err := strconv.ParseFloat(strings.TrimSpace(lo), 64)
	if err != nil {
		return Bound{}, fmt.Errorf("stat: invalid lower bound in %q: %w", raw, err)
	}
	h, err := strconv.ParseFloat(strings.TrimSpace(hi), 64)
	if err != nil {
		return Bound{}, fmt.Errorf("stat: invalid upper bound in %q: %w", raw, err)
	}
	b, err := NewBound(l, h)
	if err != nil {
		return Bound{}, fmt.Errorf("stat: invalid bound %q: %w", raw, err)
	}
	return b, nil
}

// UnmarshalYAML accepts a scalar ("-10", "-12..-8") or a two-element sequence ([-12, -8]).
func (b *Bound) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		parsed, err := ParseBound(node.Value)
		if err != nil {
			return fmt.Errorf("line %d: %w", node.Line, err)
		}
		*b = parsed
		return nil
	case yaml.SequenceNode:
		var pair []float64
		if err := node.Decode(&pair); err != nil {
			return fmt.Errorf("line %d: bound sequence: %w", node.Line, err)
		}
		if len(pair) != 2 {
			return fmt.Errorf("line %d: bound sequence must have 2 elements, got %d", node.Line, len(pair))
		}
		parsed, err := NewBound(pair[0], pair[1])
		if err != nil {
			return fmt.Errorf("line %d: %w", node.Line, err)
		}
		*b = parsed
		return nil
	default:
		return fmt.Errorf("line %d: bound must be a scalar or a sequence", node.Line)
	}
}

// MarshalYAML renders the bound in its scalar form.
func (b Bound) MarshalYAML() (interface{}, error) {
	return b.String(), nil
}
