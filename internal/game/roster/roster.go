package roster

import (
	"fmt"
	"sort"
	"strings"

	"github.com/cory-johannsen/duel/internal/game/combat"
	"github.com/cory-johannsen/duel/internal/game/inventory"
	"github.com/cory-johannsen/duel/internal/game/match"
	"github.com/cory-johannsen/duel/internal/game/move"
	"github.com/cory-johannsen/duel/internal/game/stat"
)

// AIFactory builds a fresh AI for a strategy name.
type AIFactory interface {
	New(name string) (combat.AI, error)
}

// Deps are the collaborators Build resolves a template against.
type Deps struct {
	Catalog *move.Catalog
	// Stats is the battle's default stat table that templates override.
	Stats []stat.Def
	AIs   AIFactory
	// Player drives templates whose AI is "player". May be nil when no
	// template needs it.
	Player combat.Decider
}

// Roster indexes fighter templates by ID.
//
// Invariant: each ID is registered at most once.
type Roster struct {
	byID map[string]*Template
}

// New returns a Roster over templates.
//
// Postcondition: returns an error on a duplicate ID.
func New(templates []*Template) (*Roster, error) {
	r := &Roster{byID: make(map[string]*Template, len(templates))}
	for _, t := range templates {
		if _, dup := r.byID[t.ID]; dup {
			return nil, fmt.Errorf("roster: duplicate fighter id %q", t.ID)
		}
		r.byID[t.ID] = t
	}
	return r, nil
}

// Load reads every template in dir into a Roster.
func Load(dir string) (*Roster, error) {
	templates, err := LoadTemplates(dir)
	if err != nil {
		return nil, err
	}
	return New(templates)
}

// IDs returns the template IDs in sorted order.
func (r *Roster) IDs() []string {
	ids := make([]string, 0, len(r.byID))
	for id := range r.byID {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Find resolves query to a template: an exact ID first, then the template
// name with partial matching.
func (r *Roster) Find(query string) (*Template, error) {
	if t, ok := r.byID[query]; ok {
		return t, nil
	}
	templates := make([]*Template, 0, len(r.byID))
	for _, id := range r.IDs() {
		templates = append(templates, r.byID[id])
	}
	res := match.Find(templates, match.Name(query), false)
	if err := res.Err(); err != nil {
		return nil, fmt.Errorf("roster: fighter %q: %w", query, err)
	}
	return res.Value, nil
}

// Build constructs a new Fighter from the template identified by query.
func (r *Roster) Build(query string, deps Deps) (*combat.Fighter, error) {
	t, err := r.Find(query)
	if err != nil {
		return nil, err
	}
	return Build(t, deps)
}

// Build constructs a new Fighter from t. Each call yields an independent
// fighter with full stats, its own inventory and a fresh AI instance.
//
// Precondition: deps.Catalog must be non-nil; t must be valid.
// Postcondition: returns an error for an unknown move, item, stat or strategy,
// or when a player template has no deps.Player.
func Build(t *Template, deps Deps) (*combat.Fighter, error) {
	if deps.Catalog == nil {
		panic("roster: Build precondition violated: catalog must be non-nil")
	}
	cfg := combat.FighterConfig{
		Name:      t.Name,
		Skills:    t.Skills,
		MoveTypes: t.MoveTypes,
	}

	stats, err := t.stats(deps.Stats)
	if err != nil {
		return nil, err
	}
	cfg.Stats = stats

	for _, name := range t.Moves {
		m, ok := deps.Catalog.Move(name)
		if !ok {
			return nil, fmt.Errorf("roster: fighter %q: unknown move %q", t.ID, name)
		}
		cfg.Moves = append(cfg.Moves, m)
	}

	for _, c := range t.Counters {
		counter, _ := move.ParseCounter(c)
		cfg.Counters = append(cfg.Counters, counter)
	}

	cfg.Inventory = inventory.NewBackpack()
	for _, req := range t.Inventory {
		item, ok := deps.Catalog.Item(req.Name)
		if !ok {
			return nil, fmt.Errorf("roster: fighter %q: unknown item %q", t.ID, req.Name)
		}
		if _, err := cfg.Inventory.Add(item, req.Count); err != nil {
			return nil, fmt.Errorf("roster: fighter %q: %w", t.ID, err)
		}
	}

	switch {
	case t.IsPlayer():
		if deps.Player == nil {
			return nil, fmt.Errorf("roster: fighter %q is player-controlled but no player is attached", t.ID)
		}
		cfg.Player = deps.Player
	case t.AI != "":
		if deps.AIs == nil {
			return nil, fmt.Errorf("roster: fighter %q: no AI factory for strategy %q", t.ID, t.AI)
		}
		a, err := deps.AIs.New(t.AI)
		if err != nil {
			return nil, fmt.Errorf("roster: fighter %q: %w", t.ID, err)
		}
		cfg.AI = a
	}

	return combat.NewFighter(cfg)
}

// stats applies the template's overrides to defaults, in the defaults' order.
func (t *Template) stats(defaults []stat.Def) ([]stat.Def, error) {
	if len(defaults) == 0 {
		defaults = stat.Defaults()
	}
	out := make([]stat.Def, len(defaults))
	copy(out, defaults)
	seen := make(map[stat.Key]bool, len(t.Stats))
	for i, d := range out {
		o, ok := t.Stats[string(d.Key)]
		if !ok {
			continue
		}
		out[i] = o.apply(d)
		seen[d.Key] = true
	}
	for k := range t.Stats {
		if !seen[stat.Key(k)] {
			return nil, fmt.Errorf("roster: fighter %q: unknown stat %q (known: %s)", t.ID, k, keys(defaults))
		}
	}
	return out, nil
}

func keys(defs []stat.Def) string {
	parts := make([]string, len(defs))
	for i, d := range defs {
		parts[i] = string(d.Key)
	}
	return strings.Join(parts, ", ")
}
