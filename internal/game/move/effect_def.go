package move

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/duel/internal/game/stat"
)

// EffectTarget names which side of an exchange receives a move-triggered effect.
type EffectTarget string

const (
	TargetSender EffectTarget = "sender"
	TargetTarget EffectTarget = "target"
)

// Situation tags understood by effect chances.
const (
	SituationFailure     = "failure"
	SituationSenderFail  = "senderFail"
	SituationFast        = "fast"
	SituationCritical    = "critical"
	SituationUncountered = "uncountered"
)

// ValidSituation reports whether tag is a recognised chance situation:
// failure, senderFail, fast, critical, uncountered, a counter name, or
// "<block|evade>Success" / "<block|evade>Failure".
func ValidSituation(tag string) bool {
	switch tag {
	case SituationFailure, SituationSenderFail, SituationFast, SituationCritical, SituationUncountered:
		return true
	}
	if c, ok := ParseCounter(tag); ok && string(c) == tag {
		return true
	}
	for _, c := range []Counter{CounterBlock, CounterEvade} {
		if tag == string(c)+"Success" || tag == string(c)+"Failure" {
			return true
		}
	}
	return false
}

// UnknownSituationError reports an effect chance using an unrecognised situation tag.
// It indicates malformed data and is fatal.
type UnknownSituationError struct {
	Effect    string
	Situation string
}

func (e *UnknownSituationError) Error() string {
	return fmt.Sprintf("status effect %q: unknown chance situation %q", e.Effect, e.Situation)
}

// Chance is one `(percentage, situation)` entry; an empty Situation is the bare default.
type Chance struct {
	Percent   float64
	Situation string
}

// IsDefault reports whether c is the bare `(percentage,)` entry.
func (c Chance) IsDefault() bool { return c.Situation == "" }

// UnmarshalYAML accepts `[pct]`, `[pct, situation]` or a bare scalar percentage.
func (c *Chance) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		return node.Decode(&c.Percent)
	}
	if node.Kind != yaml.SequenceNode || len(node.Content) < 1 || len(node.Content) > 2 {
		return fmt.Errorf("line %d: chance must be [percent] or [percent, situation]", node.Line)
	}
	if err := node.Content[0].Decode(&c.Percent); err != nil {
		return fmt.Errorf("line %d: chance percent: %w", node.Line, err)
	}
	if len(node.Content) == 2 {
		return node.Content[1].Decode(&c.Situation)
	}
	return nil
}

// EffectDef is the static definition of a status effect. Fighters hold
// effect.Active instances that point at a shared EffectDef; the definition
// itself is never mutated, so duration countdown never touches the template.
type EffectDef struct {
	Name        string
	Description string
	Target      EffectTarget
	Chances     []Chance
	Duration    int
	Values      map[stat.Key]stat.Bound
	NoCounter   bool

	ReceiveMessage string
	ApplyMessage   string
	WearOffMessage string

	// Ref names a catalog effect this entry stands in for; resolved by Catalog.Link.
	Ref string
}

// ValueKeys returns the stats this effect changes, sorted.
func (d *EffectDef) ValueKeys() []stat.Key {
	keys := make([]stat.Key, 0, len(d.Values))
	for k := range d.Values {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// Validate checks the definition, including every chance situation.
//
// Postcondition: returns *UnknownSituationError (wrapped) for a bad situation tag.
func (d *EffectDef) Validate() error {
	var errs []error
	if d.Name == "" {
		errs = append(errs, errors.New("name must not be empty"))
	}
	if d.Target != TargetSender && d.Target != TargetTarget {
		errs = append(errs, fmt.Errorf("target must be sender or target, got %q", d.Target))
	}
	if d.Duration < 1 {
		errs = append(errs, fmt.Errorf("duration must be >= 1, got %d", d.Duration))
	}
	defaults := 0
	for _, c := range d.Chances {
		if c.IsDefault() {
			defaults++
			continue
		}
		if !ValidSituation(c.Situation) {
			errs = append(errs, &UnknownSituationError{Effect: d.Name, Situation: c.Situation})
		}
	}
	if defaults > 1 {
		errs = append(errs, fmt.Errorf("at most one default chance allowed, got %d", defaults))
	}
	if len(errs) > 0 {
		return fmt.Errorf("status effect %q: %w", d.Name, errors.Join(errs...))
	}
	return nil
}

// UnmarshalYAML decodes an effect. A scalar node is shorthand for `ref: <name>`.
// Stat deltas use the `<STAT>Value` convention.
func (d *EffectDef) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		*d = EffectDef{Ref: node.Value}
		return nil
	}
	pairs, err := mappingPairs(node)
	if err != nil {
		return err
	}
	out := EffectDef{Target: TargetTarget, Values: make(map[stat.Key]stat.Bound)}
	for _, p := range pairs {
		key, val := p[0].Value, p[1]
		var derr error
		switch key {
		case "name":
			derr = val.Decode(&out.Name)
		case "description":
			derr = val.Decode(&out.Description)
		case "target":
			derr = val.Decode(&out.Target)
		case "chances":
			derr = val.Decode(&out.Chances)
		case "duration":
			derr = val.Decode(&out.Duration)
		case "noCounter":
			derr = val.Decode(&out.NoCounter)
		case "receiveMessage":
			derr = val.Decode(&out.ReceiveMessage)
		case "applyMessage":
			derr = val.Decode(&out.ApplyMessage)
		case "wearOffMessage":
			derr = val.Decode(&out.WearOffMessage)
		case "ref":
			derr = val.Decode(&out.Ref)
		default:
			prefix, ok := strings.CutSuffix(key, "Value")
			if !ok || prefix == "" {
				derr = fmt.Errorf("unknown key")
				break
			}
			var b stat.Bound
			derr = val.Decode(&b)
			out.Values[stat.ParseKey(prefix)] = b
		}
		if derr != nil {
			return fmt.Errorf("effect field %q: %w", key, derr)
		}
	}
	*d = out
	return nil
}
