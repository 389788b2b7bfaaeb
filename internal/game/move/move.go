// Package move holds the immutable, data-driven definitions the combat
// resolver consumes: moves, status effect definitions and items, plus the
// YAML catalog they are loaded from.
package move

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/duel/internal/game/stat"
)

// NoneName is the reserved name of the universal no-op move.
const NoneName = "None"

// None is the universal no-op move. It is exempt from every requirement and cost check.
var None = &Move{Name: NoneName, Description: "Do nothing."}

// ValueKey addresses one `<branch><STAT>Value` entry.
type ValueKey struct {
	Branch Branch
	Stat   stat.Key
}

// String renders the convention key, e.g. "blockFailHPValue".
func (k ValueKey) String() string { return k.Branch.String() + k.Stat.Upper() + "Value" }

// Move is a data-defined combat action. Moves are shared by reference between
// fighters and must not be mutated after the catalog is linked.
type Move struct {
	Name        string
	Description string

	// Requirement lists are alternatives (OR) of combinations (AND).
	MoveTypes     [][]string
	SkillRequired [][]string
	ItemRequired  [][]ItemRequirement

	// Speed in [0, 100]; the target may counter with chance 100-Speed.
	Speed          float64
	FailureChance  float64
	CriticalChance float64
	BlockChance    float64 // chance a block holds
	EvadeChance    float64 // chance an evade holds

	Costs    map[stat.Key]stat.Bound // negative numbers are consumed
	Values   map[ValueKey]stat.Bound
	Messages map[Branch]string
	Effects  []*EffectDef
}

// IsNone reports whether m is the no-op move. A nil move is treated as None.
func (m *Move) IsNone() bool { return m == nil || m.Name == NoneName }

// Value returns the bound for branch b and stat k, falling back from the fast
// branches to their counterpart when the fast-specific key is absent.
func (m *Move) Value(b Branch, k stat.Key) (stat.Bound, bool) {
	if v, ok := m.Values[ValueKey{Branch: b, Stat: k}]; ok {
		return v, true
	}
	if fb, ok := b.Fallback(); ok {
		v, ok := m.Values[ValueKey{Branch: fb, Stat: k}]
		return v, ok
	}
	return stat.Bound{}, false
}

// Message returns the narration template for b with the same fallback as Value.
// The second result is the branch whose template was chosen.
func (m *Move) Message(b Branch) (string, Branch) {
	if msg, ok := m.Messages[b]; ok {
		return msg, b
	}
	if fb, ok := b.Fallback(); ok {
		if msg, ok := m.Messages[fb]; ok {
			return msg, fb
		}
	}
	return "", BranchNone
}

// Cost returns the cost bound for stat k.
func (m *Move) Cost(k stat.Key) (stat.Bound, bool) {
	c, ok := m.Costs[k]
	return c, ok
}

// CostKeys returns the stats this move costs, sorted for deterministic iteration.
func (m *Move) CostKeys() []stat.Key {
	keys := make([]stat.Key, 0, len(m.Costs))
	for k := range m.Costs {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// Attributes exposes the move to the requirement matcher.
func (m *Move) Attributes() map[string]any {
	return map[string]any{
		"name":        m.Name,
		"description": m.Description,
	}
}

// Validate checks the move's invariants.
//
// Postcondition: nil iff Name is non-empty and every chance lies in [0, 100].
func (m *Move) Validate() error {
	var errs []error
	if m.Name == "" {
		errs = append(errs, errors.New("name must not be empty"))
	}
	for label, v := range map[string]float64{
		"speed":          m.Speed,
		"failureChance":  m.FailureChance,
		"criticalChance": m.CriticalChance,
		"blockChance":    m.BlockChance,
		"evadeChance":    m.EvadeChance,
	} {
		if v < 0 || v > 100 {
			errs = append(errs, fmt.Errorf("%s must be in [0, 100], got %v", label, v))
		}
	}
	for _, combo := range m.ItemRequired {
		for _, ir := range combo {
			if ir.Count < 1 {
				errs = append(errs, fmt.Errorf("item requirement %q: count must be >= 1", ir.Name))
			}
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("move %q: %w", m.Name, errors.Join(errs...))
	}
	return nil
}

// parseValueKey splits "<branch><STAT>Value" into its parts, preferring the
// longest branch prefix so "blockFailHPValue" is blockFail/hp, not block/failhp.
// A bare "<stat>Value" key names the normal branch and reports bare.
func parseValueKey(key string) (vk ValueKey, bare, ok bool) {
	prefix, ok := strings.CutSuffix(key, "Value")
	if !ok || prefix == "" {
		return ValueKey{}, false, false
	}
	best := BranchNone
	for _, b := range Branches() {
		name := b.String()
		if len(prefix) > len(name) && strings.HasPrefix(prefix, name) && len(name) > len(best.String()) {
			best = b
		}
	}
	if best == BranchNone {
		if _, isBranch := ParseBranch(prefix); isBranch {
			return ValueKey{}, false, false
		}
		return ValueKey{Branch: Normal, Stat: stat.ParseKey(prefix)}, true, true
	}
	return ValueKey{Branch: best, Stat: stat.ParseKey(prefix[len(best.String()):])}, false, true
}

// mappingPairs returns the key/value node pairs of a YAML mapping.
func mappingPairs(node *yaml.Node) ([][2]*yaml.Node, error) {
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: expected a mapping", node.Line)
	}
	pairs := make([][2]*yaml.Node, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		pairs = append(pairs, [2]*yaml.Node{node.Content[i], node.Content[i+1]})
	}
	return pairs, nil
}

// UnmarshalYAML decodes a move. Besides the named fields it accepts the
// convention keys `<branch><STAT>Value`, `<stat>Value` (normal branch),
// `<stat>Cost` and `<branch>Message`, and rejects anything else.
func (m *Move) UnmarshalYAML(node *yaml.Node) error {
	pairs, err := mappingPairs(node)
	if err != nil {
		return err
	}
	out := Move{
		Costs:    make(map[stat.Key]stat.Bound),
		Values:   make(map[ValueKey]stat.Bound),
		Messages: make(map[Branch]string),
	}
	bare := make(map[ValueKey]stat.Bound)
	for _, p := range pairs {
		key, val := p[0].Value, p[1]
		var derr error
		switch key {
		case "name":
			derr = val.Decode(&out.Name)
		case "description":
			derr = val.Decode(&out.Description)
		case "moveTypes":
			derr = val.Decode(&out.MoveTypes)
		case "skillRequired":
			derr = val.Decode(&out.SkillRequired)
		case "itemRequired":
			derr = val.Decode(&out.ItemRequired)
		case "speed":
			derr = val.Decode(&out.Speed)
		case "failureChance":
			derr = val.Decode(&out.FailureChance)
		case "criticalChance":
			derr = val.Decode(&out.CriticalChance)
		case "blockChance":
			derr = val.Decode(&out.BlockChance)
		case "evadeChance":
			derr = val.Decode(&out.EvadeChance)
		case "effects":
			derr = val.Decode(&out.Effects)
		default:
			derr = out.decodeConventionKey(key, val, bare)
		}
		if derr != nil {
			return fmt.Errorf("move field %q: %w", key, derr)
		}
	}
	// An explicit normal<STAT>Value overrides the bare <stat>Value form.
	for vk, b := range bare {
		if _, ok := out.Values[vk]; !ok {
			out.Values[vk] = b
		}
	}
	*m = out
	return nil
}

func (m *Move) decodeConventionKey(key string, val *yaml.Node, bare map[ValueKey]stat.Bound) error {
	if vk, isBare, ok := parseValueKey(key); ok {
		var b stat.Bound
		if err := val.Decode(&b); err != nil {
			return err
		}
		if isBare {
			bare[vk] = b
		} else {
			m.Values[vk] = b
		}
		return nil
	}
	if prefix, ok := strings.CutSuffix(key, "Message"); ok {
		br, ok := ParseBranch(prefix)
		if !ok {
			return fmt.Errorf("unknown branch %q", prefix)
		}
		var msg string
		if err := val.Decode(&msg); err != nil {
			return err
		}
		m.Messages[br] = msg
		return nil
	}
	if prefix, ok := strings.CutSuffix(key, "Cost"); ok && prefix != "" {
		var b stat.Bound
		if err := val.Decode(&b); err != nil {
			return err
		}
		m.Costs[stat.ParseKey(prefix)] = b
		return nil
	}
	return fmt.Errorf("unknown key")
}
