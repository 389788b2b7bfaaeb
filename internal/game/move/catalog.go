package move

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Catalog holds every Move, EffectDef and Item known to a session.
// It is built once, linked, and then treated as immutable.
type Catalog struct {
	moves   []*Move
	byName  map[string]*Move
	effects []*EffectDef
	effByNm map[string]*EffectDef
	items   []*Item
	itemsBy map[string]*Item
}

// NewCatalog creates a Catalog that already contains the None move.
func NewCatalog() *Catalog {
	c := &Catalog{
		byName:  make(map[string]*Move),
		effByNm: make(map[string]*EffectDef),
		itemsBy: make(map[string]*Item),
	}
	c.moves = append(c.moves, None)
	c.byName[NoneName] = None
	return c
}

// AddMove registers m.
//
// Postcondition: returns an error on a duplicate name or an invalid move.
func (c *Catalog) AddMove(m *Move) error {
	if err := m.Validate(); err != nil {
		return err
	}
	if _, dup := c.byName[m.Name]; dup {
		return fmt.Errorf("catalog: duplicate move %q", m.Name)
	}
	c.moves = append(c.moves, m)
	c.byName[m.Name] = m
	return nil
}

// AddEffect registers d.
func (c *Catalog) AddEffect(d *EffectDef) error {
	if err := d.Validate(); err != nil {
		return err
	}
	if _, dup := c.effByNm[d.Name]; dup {
		return fmt.Errorf("catalog: duplicate status effect %q", d.Name)
	}
	c.effects = append(c.effects, d)
	c.effByNm[d.Name] = d
	return nil
}

// AddItem registers i.
func (c *Catalog) AddItem(i *Item) error {
	if err := i.Validate(); err != nil {
		return err
	}
	if _, dup := c.itemsBy[i.Name]; dup {
		return fmt.Errorf("catalog: duplicate item %q", i.Name)
	}
	c.items = append(c.items, i)
	c.itemsBy[i.Name] = i
	return nil
}

// Move returns the move named name.
func (c *Catalog) Move(name string) (*Move, bool) {
	m, ok := c.byName[name]
	return m, ok
}

// Moves returns all moves in registration order, None first.
func (c *Catalog) Moves() []*Move {
	out := make([]*Move, len(c.moves))
	copy(out, c.moves)
	return out
}

// Effect returns the status effect named name.
func (c *Catalog) Effect(name string) (*EffectDef, bool) {
	d, ok := c.effByNm[name]
	return d, ok
}

// Effects returns all status effects in registration order.
func (c *Catalog) Effects() []*EffectDef {
	out := make([]*EffectDef, len(c.effects))
	copy(out, c.effects)
	return out
}

// Item returns the item named name.
func (c *Catalog) Item(name string) (*Item, bool) {
	i, ok := c.itemsBy[name]
	return i, ok
}

// Items returns all items in registration order.
func (c *Catalog) Items() []*Item {
	out := make([]*Item, len(c.items))
	copy(out, c.items)
	return out
}

// Link resolves effect references inside moves and validates cross references.
//
// Postcondition: every Move.Effects entry is a validated definition; every
// item requirement names a known item. Returns all violations joined.
func (c *Catalog) Link() error {
	var errs []error
	for _, m := range c.moves {
		for i, eff := range m.Effects {
			if eff.Ref != "" {
				def, ok := c.effByNm[eff.Ref]
				if !ok {
					errs = append(errs, fmt.Errorf("move %q: unknown status effect %q", m.Name, eff.Ref))
					continue
				}
				m.Effects[i] = def
				continue
			}
			if err := eff.Validate(); err != nil {
				errs = append(errs, fmt.Errorf("move %q: %w", m.Name, err))
			}
		}
		for _, combo := range m.ItemRequired {
			for _, ir := range combo {
				if _, ok := c.itemsBy[ir.Name]; !ok {
					errs = append(errs, fmt.Errorf("move %q: unknown required item %q", m.Name, ir.Name))
				}
			}
		}
	}
	return errors.Join(errs...)
}

// LoadCatalog reads dir/moves, dir/effects and dir/items. Each *.yaml file holds
// either a single definition or a sequence of them. Missing subdirectories are
// treated as empty.
//
// Precondition: dir must be a readable directory.
// Postcondition: Returns a linked Catalog, or an error if any file fails to parse,
// validate or link.
func LoadCatalog(dir string) (*Catalog, error) {
	if _, err := os.Stat(dir); err != nil {
		return nil, fmt.Errorf("reading catalog dir %q: %w", dir, err)
	}
	c := NewCatalog()

	items, err := loadDefs[Item](filepath.Join(dir, "items"))
	if err != nil {
		return nil, err
	}
	for _, i := range items {
		if err := c.AddItem(i); err != nil {
			return nil, err
		}
	}

	effects, err := loadDefs[EffectDef](filepath.Join(dir, "effects"))
	if err != nil {
		return nil, err
	}
	for _, d := range effects {
		if err := c.AddEffect(d); err != nil {
			return nil, err
		}
	}

	moves, err := loadDefs[Move](filepath.Join(dir, "moves"))
	if err != nil {
		return nil, err
	}
	for _, m := range moves {
		if err := c.AddMove(m); err != nil {
			return nil, err
		}
	}

	if err := c.Link(); err != nil {
		return nil, fmt.Errorf("linking catalog %q: %w", dir, err)
	}
	return c, nil
}

func loadDefs[T any](dir string) ([]*T, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %q: %w", dir, err)
	}
	var out []*T
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", path, err)
		}
		defs, err := decodeDefs[T](data)
		if err != nil {
			return nil, fmt.Errorf("parsing %q: %w", path, err)
		}
		out = append(out, defs...)
	}
	return out, nil
}

func decodeDefs[T any](data []byte) ([]*T, error) {
	var doc yaml.Node
	dec := yaml.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&doc); err != nil {
		return nil, err
	}
	if len(doc.Content) == 0 {
		return nil, nil
	}
	root := doc.Content[0]
	if root.Kind == yaml.SequenceNode {
		var defs []*T
		if err := root.Decode(&defs); err != nil {
			return nil, err
		}
		return defs, nil
	}
	var def T
	if err := root.Decode(&def); err != nil {
		return nil, err
	}
	return []*T{&def}, nil
}
