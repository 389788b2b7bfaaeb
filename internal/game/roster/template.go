// Package roster provides fighter template definitions and builds combat
// fighters from them.
package roster

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/duel/internal/game/move"
	"github.com/cory-johannsen/duel/internal/game/stat"
)

// StatOverride replaces selected fields of a battle-default stat.
// Nil fields keep the default.
type StatOverride struct {
	Value *int `yaml:"value"`
	Min   *int `yaml:"min"`
	Max   *int `yaml:"max"`
	Rate  *int `yaml:"rate"`
}

// apply returns d with the override's fields written over it. A Max override
// without a Value override also refills the stat.
func (o StatOverride) apply(d stat.Def) stat.Def {
	if o.Min != nil {
		d.Min = *o.Min
	}
	if o.Max != nil {
		d.Max = *o.Max
		d.Value = *o.Max
	}
	if o.Value != nil {
		d.Value = *o.Value
	}
	if o.Rate != nil {
		d.Rate = *o.Rate
	}
	return d
}

// Template defines a reusable fighter loaded from YAML.
type Template struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	// AI is the strategy name; "player" marks a fighter driven by a Decider.
	AI        string                  `yaml:"ai"`
	Stats     map[string]StatOverride `yaml:"stats"`
	Skills    []string                `yaml:"skills"`
	MoveTypes []string                `yaml:"move_types"`
	Moves     []string                `yaml:"moves"`
	Counters  []string                `yaml:"counters"`
	Inventory []move.ItemRequirement  `yaml:"inventory"`
}

// Attributes exposes the template to the requirement matcher.
func (t *Template) Attributes() map[string]any {
	return map[string]any{"id": t.ID, "name": t.Name}
}

// StrategyPlayer is the AI name that hands control to a player Decider.
const StrategyPlayer = "player"

// Validate checks that the template satisfies basic invariants.
//
// Precondition: t must not be nil.
// Postcondition: Returns nil iff ID and Name are non-empty, every counter is
// known and every inventory entry names an item with a positive count;
// returns an error on the first violation otherwise.
func (t *Template) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("fighter template: id must not be empty")
	}
	if t.Name == "" {
		return fmt.Errorf("fighter template %q: name must not be empty", t.ID)
	}
	for _, c := range t.Counters {
		if _, ok := move.ParseCounter(c); !ok {
			return fmt.Errorf("fighter template %q: unknown counter %q", t.ID, c)
		}
	}
	for _, r := range t.Inventory {
		if r.Name == "" || r.Count < 1 {
			return fmt.Errorf("fighter template %q: inventory entry %q needs a name and count >= 1", t.ID, r.String())
		}
	}
	for k, o := range t.Stats {
		if o.Min != nil && o.Max != nil && *o.Min > *o.Max {
			return fmt.Errorf("fighter template %q: stat %q min exceeds max", t.ID, k)
		}
	}
	return nil
}

// IsPlayer reports whether the template is driven by a player Decider.
func (t *Template) IsPlayer() bool {
	return strings.EqualFold(t.AI, StrategyPlayer)
}

// LoadTemplateFromBytes parses a single fighter template from raw YAML bytes.
//
// Postcondition: Returns a validated *Template, or an error.
func LoadTemplateFromBytes(data []byte) (*Template, error) {
	var tmpl Template
	if err := yaml.Unmarshal(data, &tmpl); err != nil {
		return nil, fmt.Errorf("parsing template YAML: %w", err)
	}
	if err := tmpl.Validate(); err != nil {
		return nil, err
	}
	return &tmpl, nil
}

// LoadTemplates reads all *.yaml files in dir and returns the parsed templates.
//
// Precondition: dir must be a readable directory.
// Postcondition: Returns all templates or an error on the first parse or
// validate failure; on error, the partial result is discarded.
func LoadTemplates(dir string) ([]*Template, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading fighter dir %q: %w", dir, err)
	}

	var templates []*Template
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", path, err)
		}
		tmpl, err := LoadTemplateFromBytes(data)
		if err != nil {
			return nil, fmt.Errorf("loading %q: %w", path, err)
		}
		templates = append(templates, tmpl)
	}
	return templates, nil
}
