package stat

import (
	"fmt"
	"math"
	"strings"
)

// Key identifies a statistic, e.g. "hp". Keys are always lower case.
type Key string

// Well-known stat keys.
const (
	HP Key = "hp"
	ST Key = "st"
	MP Key = "mp"
)

// ParseKey normalises s into a Key ("HP" and "hp" are the same stat).
func ParseKey(s string) Key { return Key(strings.ToLower(strings.TrimSpace(s))) }

// Upper returns the key as used inside convention field names, e.g. "HP".
func (k Key) Upper() string { return strings.ToUpper(string(k)) }

// Def is the static description of a stat used to construct a Stat.
type Def struct {
	Key   Key    `yaml:"key" mapstructure:"key"`
	Name  string `yaml:"name" mapstructure:"name"`   // internal name, e.g. "health"
	Short string `yaml:"short" mapstructure:"short"` // display abbreviation, e.g. "HP"
	Full  string `yaml:"full" mapstructure:"full"`   // display name, e.g. "Health"
	Color string `yaml:"color" mapstructure:"color"`
	Value int    `yaml:"value" mapstructure:"value"`
	Min   int    `yaml:"min" mapstructure:"min"`
	Max   int    `yaml:"max" mapstructure:"max"`
	Rate  int    `yaml:"rate" mapstructure:"rate"` // per-turn regeneration before environment scaling
}

// Validate checks the definition's invariants.
//
// Postcondition: nil iff Key is non-empty and Min <= Max.
func (d Def) Validate() error {
	if d.Key == "" {
		return fmt.Errorf("stat def: key must not be empty")
	}
	if d.Min > d.Max {
		return fmt.Errorf("stat def %q: min %d exceeds max %d", d.Key, d.Min, d.Max)
	}
	return nil
}

// Defaults returns the default stat table: health, stamina and mana.
func Defaults() []Def {
	return []Def{
		{Key: HP, Name: "health", Short: "HP", Full: "Health", Color: "red", Value: 100, Min: 0, Max: 100, Rate: 0},
		{Key: ST, Name: "stamina", Short: "ST", Full: "Stamina", Color: "green", Value: 100, Min: 0, Max: 100, Rate: 10},
		{Key: MP, Name: "mana", Short: "MP", Full: "Mana", Color: "blue", Value: 100, Min: 0, Max: 100, Rate: 5},
	}
}

// Stat is a named, bounded quantity with a per-turn regeneration rate.
//
// Invariant: Min() <= Value() <= Max() after every write.
// It is not safe for concurrent use; the owning Fighter serialises access.
type Stat struct {
	Key   Key
	Name  string
	Short string
	Full  string
	Color string

	value int
	min   int
	max   int
	rate  int
}

// New constructs a Stat from d, clamping the initial value into [Min, Max].
//
// Precondition: d.Validate() == nil.
func New(d Def) *Stat {
	if err := d.Validate(); err != nil {
		panic("stat: New precondition violated: " + err.Error())
	}
	s := &Stat{
		Key:   d.Key,
		Name:  d.Name,
		Short: d.Short,
		Full:  d.Full,
		Color: d.Color,
		min:   d.Min,
		max:   d.Max,
		rate:  d.Rate,
	}
	if s.Short == "" {
		s.Short = d.Key.Upper()
	}
	if s.Full == "" {
		s.Full = s.Short
	}
	s.Set(d.Value)
	return s
}

// Value returns the current value.
func (s *Stat) Value() int { return s.value }

// Min returns the lower bound.
func (s *Stat) Min() int { return s.min }

// Max returns the upper bound.
func (s *Stat) Max() int { return s.max }

// Rate returns the unscaled per-turn regeneration delta.
func (s *Stat) Rate() int { return s.rate }

// Bound returns [Min, Max] as a Bound.
func (s *Stat) Bound() Bound { return Bound{Lower: float64(s.min), Upper: float64(s.max)} }

// Set writes v clamped into [Min, Max] and returns the stored value.
func (s *Stat) Set(v int) int {
	switch {
	case v < s.min:
		v = s.min
	case v > s.max:
		v = s.max
	}
	s.value = v
	return v
}

// Add applies delta with clamping and returns the change actually applied.
func (s *Stat) Add(delta int) int {
	before := s.value
	return s.Set(before+delta) - before
}

// Fraction returns how full the stat is in [0, 1]; 1 when Min == Max.
func (s *Stat) Fraction() float64 {
	if s.max == s.min {
		return 1
	}
	return float64(s.value-s.min) / float64(s.max-s.min)
}

// Depleted reports whether the stat sits at its minimum.
func (s *Stat) Depleted() bool { return s.value <= s.min }

// String renders "HP 90/100".
func (s *Stat) String() string {
	return fmt.Sprintf("%s %d/%d", s.Short, s.value, s.max)
}

// Round converts a scaled delta to the integer applied to a Stat,
// rounding half away from zero.
func Round(v float64) int { return int(math.Round(v)) }
