package ai

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Action is one planner step: applicable when Pre holds, it writes Effects.
//
// Moves lists the move names that perform the action, in preference order;
// an action without moves is performed by sending None.
// Precondition: ID must be non-empty and Cost >= 0.
type Action struct {
	ID      string     `yaml:"id"`
	Pre     WorldState `yaml:"pre"`
	Effects WorldState `yaml:"effects"`
	Cost    float64    `yaml:"cost"`
	Moves   []string   `yaml:"moves"`
	// Hook names a Lua function that returns the action's weight for the
	// current turn; empty means the built-in weighting.
	Hook string `yaml:"hook"`
}

// Domain holds a goal and the actions available to reach it, loaded from YAML.
//
// Invariant: all Action IDs are unique.
type Domain struct {
	ID          string     `yaml:"id"`
	Description string     `yaml:"description"`
	Goal        WorldState `yaml:"goal"`
	// LowHealth is the HP fraction at or below which low_on_health holds.
	LowHealth float64   `yaml:"low_health"`
	Actions   []*Action `yaml:"actions"`
}

// Validate checks all required fields and cross-field constraints.
//
// Postcondition: nil return guarantees a non-empty ID, a non-empty goal, at
// least one action, unique non-empty action IDs, non-negative costs, and
// LowHealth in [0, 1].
func (d *Domain) Validate() error {
	if d.ID == "" {
		return errors.New("ai.Domain: ID must not be empty")
	}
	if len(d.Goal) == 0 {
		return fmt.Errorf("ai.Domain %q: goal must not be empty", d.ID)
	}
	if len(d.Actions) == 0 {
		return fmt.Errorf("ai.Domain %q: must have at least one action", d.ID)
	}
	if d.LowHealth < 0 || d.LowHealth > 1 {
		return fmt.Errorf("ai.Domain %q: low_health must be in [0, 1], got %v", d.ID, d.LowHealth)
	}
	ids := make(map[string]struct{}, len(d.Actions))
	for _, a := range d.Actions {
		if a.ID == "" {
			return fmt.Errorf("ai.Domain %q: action has empty ID", d.ID)
		}
		if a.Cost < 0 {
			return fmt.Errorf("ai.Domain %q action %q: cost must be >= 0", d.ID, a.ID)
		}
		if len(a.Effects) == 0 {
			return fmt.Errorf("ai.Domain %q action %q: effects must not be empty", d.ID, a.ID)
		}
		if _, dup := ids[a.ID]; dup {
			return fmt.Errorf("ai.Domain %q: duplicate action ID %q", d.ID, a.ID)
		}
		ids[a.ID] = struct{}{}
	}
	return nil
}

// ActionByID returns the action with the given ID, or false if not found.
func (d *Domain) ActionByID(id string) (*Action, bool) {
	for _, a := range d.Actions {
		if a.ID == id {
			return a, true
		}
	}
	return nil, false
}

// yamlDomainFile wraps the YAML top-level key.
type yamlDomainFile struct {
	Domain *Domain `yaml:"domain"`
}

// LoadDomains reads all *.yaml files from dir and returns parsed Domains.
//
// Precondition: dir must be a readable directory.
// Postcondition: returns error if any YAML file fails to parse or validate.
// Postcondition: returns (nil, nil) if dir contains no .yaml files.
func LoadDomains(dir string) ([]*Domain, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("ai.LoadDomains: reading %q: %w", dir, err)
	}
	var domains []*Domain
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("ai.LoadDomains: reading %s: %w", e.Name(), err)
		}
		var f yamlDomainFile
		if err := yaml.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("ai.LoadDomains: parsing %s: %w", e.Name(), err)
		}
		if f.Domain == nil {
			return nil, fmt.Errorf("ai.LoadDomains: %s missing top-level 'domain' key", e.Name())
		}
		if err := f.Domain.Validate(); err != nil {
			return nil, err
		}
		domains = append(domains, f.Domain)
	}
	return domains, nil
}
