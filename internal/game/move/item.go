package move

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Item is the static definition of something a fighter can carry.
type Item struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

// Validate checks the item's invariants.
func (i *Item) Validate() error {
	if i.Name == "" {
		return fmt.Errorf("item: name must not be empty")
	}
	return nil
}

// Attributes exposes the item to the requirement matcher.
func (i *Item) Attributes() map[string]any {
	return map[string]any{"name": i.Name, "description": i.Description}
}

// ItemRequirement is one member of an itemRequired combination: Count units of
// the named item, consumed when the move is sent unless Keep is set.
type ItemRequirement struct {
	Name  string `yaml:"name"`
	Count int    `yaml:"count"`
	Keep  bool   `yaml:"keep"`
}

// String renders "2x Potion".
func (r ItemRequirement) String() string {
	if r.Count == 1 {
		return r.Name
	}
	return fmt.Sprintf("%dx %s", r.Count, r.Name)
}

// UnmarshalYAML accepts a bare item name (count 1) or a mapping.
func (r *ItemRequirement) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		*r = ItemRequirement{Name: node.Value, Count: 1}
		return nil
	}
	type plain ItemRequirement
	p := plain{Count: 1}
	if err := node.Decode(&p); err != nil {
		return err
	}
	*r = ItemRequirement(p)
	return nil
}
