package combat

import (
	"errors"
	"fmt"
	"slices"

	"github.com/google/uuid"

	"github.com/cory-johannsen/duel/internal/game/effect"
	"github.com/cory-johannsen/duel/internal/game/inventory"
	"github.com/cory-johannsen/duel/internal/game/match"
	"github.com/cory-johannsen/duel/internal/game/move"
	"github.com/cory-johannsen/duel/internal/game/narration"
	"github.com/cory-johannsen/duel/internal/game/stat"
)

// AI chooses moves and counters for a non-player fighter.
type AI interface {
	// AnalyseMove picks the move self sends at target.
	AnalyseMove(self, target *Fighter) *move.Move
	// AnalyseCounter picks self's counter to m sent by sender.
	AnalyseCounter(self, sender *Fighter, m *move.Move) move.Counter
	// AnalyseMoveReceive is told how every move aimed at self resolved.
	AnalyseMoveReceive(self, sender *Fighter, m *move.Move, info move.Info)
}

// Decider is the player-side selection contract supplied by an interactive shell.
type Decider interface {
	SelectMove(self, opponent *Fighter) (*move.Move, error)
	SelectCounter(self, sender *Fighter, m *move.Move) (move.Counter, error)
}

// FighterConfig describes a fighter to construct.
type FighterConfig struct {
	Name      string
	Stats     []stat.Def
	Skills    []string
	MoveTypes []string
	Moves     []*move.Move
	// Counters available to the fighter; empty means none, block and evade.
	Counters  []move.Counter
	Inventory *inventory.Backpack
	AI        AI
	Player    Decider
}

// Fighter is the mutable combatant aggregate. Moves are shared catalog
// references; stats, effects and inventory are owned.
//
// It is not safe for concurrent use; the battle turn loop serialises access.
type Fighter struct {
	ID   string
	Name string

	Effects   *effect.ActiveSet
	Inventory *inventory.Backpack
	AI        AI
	Player    Decider

	stats     map[stat.Key]*stat.Stat
	statOrder []stat.Key
	skills    []string
	moveTypes []string
	moves     []*move.Move
	counters  []move.Counter

	env       *Environment
	lastCosts map[stat.Key]int
}

// NewFighter constructs a fighter from cfg. The None move is always available
// and listed first; the none counter is always available.
//
// Postcondition: returns an error if the name is empty, a stat def is invalid
// or duplicated, hp is missing, or a counter is unknown.
func NewFighter(cfg FighterConfig) (*Fighter, error) {
	if cfg.Name == "" {
		return nil, errors.New("combat: fighter name must not be empty")
	}
	f := &Fighter{
		ID:        uuid.NewString(),
		Name:      cfg.Name,
		Effects:   effect.NewActiveSet(),
		Inventory: cfg.Inventory,
		AI:        cfg.AI,
		Player:    cfg.Player,
		stats:     make(map[stat.Key]*stat.Stat, len(cfg.Stats)),
		skills:    slices.Clone(cfg.Skills),
		moveTypes: slices.Clone(cfg.MoveTypes),
	}
	if f.Inventory == nil {
		f.Inventory = inventory.NewBackpack()
	}
	for _, d := range cfg.Stats {
		if err := d.Validate(); err != nil {
			return nil, fmt.Errorf("combat: fighter %s: %w", cfg.Name, err)
		}
		if _, dup := f.stats[d.Key]; dup {
			return nil, fmt.Errorf("combat: fighter %s: duplicate stat %q", cfg.Name, d.Key)
		}
		f.stats[d.Key] = stat.New(d)
		f.statOrder = append(f.statOrder, d.Key)
	}
	if _, ok := f.stats[stat.HP]; !ok {
		return nil, fmt.Errorf("combat: fighter %s: hp stat is required", cfg.Name)
	}

	f.moves = append(f.moves, move.None)
	for _, m := range cfg.Moves {
		if m == nil || m.IsNone() {
			continue
		}
		f.moves = append(f.moves, m)
	}

	counters := cfg.Counters
	if len(counters) == 0 {
		counters = move.Counters()
	}
	f.counters = []move.Counter{move.CounterNone}
	for _, c := range counters {
		if !c.Valid() {
			return nil, fmt.Errorf("combat: fighter %s: unknown counter %q", cfg.Name, c)
		}
		if !slices.Contains(f.counters, c) {
			f.counters = append(f.counters, c)
		}
	}
	return f, nil
}

// Env returns the environment the fighter is attached to, or nil.
func (f *Fighter) Env() *Environment { return f.env }

// IsPlayer reports whether moves and counters come from a Decider.
func (f *Fighter) IsPlayer() bool { return f.Player != nil }

// Stat returns the stat keyed k.
func (f *Fighter) Stat(k stat.Key) (*stat.Stat, bool) {
	s, ok := f.stats[k]
	return s, ok
}

// Stats returns the fighter's stats in definition order.
func (f *Fighter) Stats() []*stat.Stat {
	out := make([]*stat.Stat, 0, len(f.statOrder))
	for _, k := range f.statOrder {
		out = append(out, f.stats[k])
	}
	return out
}

// HP returns the health stat.
func (f *Fighter) HP() *stat.Stat { return f.stats[stat.HP] }

// Dead reports whether health has reached its minimum.
func (f *Fighter) Dead() bool { return f.HP().Depleted() }

// Skills returns the fighter's skills.
func (f *Fighter) Skills() []string { return slices.Clone(f.skills) }

// MoveTypes returns the move types the fighter can perform.
func (f *Fighter) MoveTypes() []string { return slices.Clone(f.moveTypes) }

// Moves returns every move the fighter knows, None first.
func (f *Fighter) Moves() []*move.Move { return slices.Clone(f.moves) }

// Counters returns the counters available to the fighter, none first.
func (f *Fighter) Counters() []move.Counter { return slices.Clone(f.counters) }

// HasCounter reports whether c is available to the fighter.
func (f *Fighter) HasCounter(c move.Counter) bool { return slices.Contains(f.counters, c) }

// String renders "Name (HP 90/100, ST 80/100)".
func (f *Fighter) String() string {
	s := f.Name + " ("
	for i, st := range f.Stats() {
		if i > 0 {
			s += ", "
		}
		s += st.String()
	}
	return s + ")"
}

// CheckRequirements validates m's moveTypes, skillRequired and itemRequired
// lists in that order. None always passes.
//
// Postcondition: returns nil or a *RequirementError.
func (f *Fighter) CheckRequirements(m *move.Move) error {
	if m.IsNone() {
		return nil
	}
	if ok, missing := match.Satisfies(m.MoveTypes, match.Set(f.moveTypes...), true); !ok {
		return &RequirementError{Fighter: f.Name, Move: m.Name, Kind: RequireMoveType, Missing: missing}
	}
	if ok, missing := match.Satisfies(m.SkillRequired, match.Set(f.skills...), true); !ok {
		return &RequirementError{Fighter: f.Name, Move: m.Name, Kind: RequireSkill, Missing: missing}
	}
	if ok, missing := match.Satisfies(m.ItemRequired, f.Inventory.Has, true); !ok {
		names := make([]string, len(missing))
		for i, r := range missing {
			names[i] = r.String()
		}
		return &RequirementError{Fighter: f.Name, Move: m.Name, Kind: RequireItem, Missing: names}
	}
	return nil
}

// itemCombo returns the first itemRequired combination the inventory satisfies.
func (f *Fighter) itemCombo(m *move.Move) []move.ItemRequirement {
	for _, combo := range m.ItemRequired {
		if ok, _ := match.Satisfies([][]move.ItemRequirement{combo}, f.Inventory.Has, false); ok {
			return combo
		}
	}
	return nil
}

// AvailableMoves returns the known moves whose requirements the fighter
// currently satisfies, None first. Costs are not considered.
func (f *Fighter) AvailableMoves() []*move.Move {
	return match.Filter(f.moves, func(m *move.Move) bool { return f.CheckRequirements(m) == nil })
}

// CanAfford reports whether f can pay every cost of m. With average set the
// bound averages are used; otherwise each cost's worst case (its lower bound).
// The second result is the first stat that cannot be covered.
//
// Precondition: f is in a battle.
func (f *Fighter) CanAfford(m *move.Move, average bool) (bool, stat.Key) {
	if m.IsNone() {
		return true, ""
	}
	env := f.mustEnv()
	for _, k := range m.CostKeys() {
		b, _ := m.Cost(k)
		s, ok := f.stats[k]
		if !ok {
			continue
		}
		sample := b.Lower
		if average {
			sample = b.Average()
		}
		if s.Value()+env.ScaleCost(k, sample) < 0 {
			return false, k
		}
	}
	return true, ""
}

// CheckMove is the raising form of the move preconditions: requirements and
// worst-case affordability.
//
// Postcondition: returns nil, *RequirementError or *InsufficientResourceError.
func (f *Fighter) CheckMove(m *move.Move) error {
	if err := f.CheckRequirements(m); err != nil {
		return err
	}
	if f.env == nil {
		return ErrNotInBattle
	}
	if ok, k := f.CanAfford(m, false); !ok {
		b, _ := m.Cost(k)
		return &InsufficientResourceError{
			Fighter: f.Name, Move: m.Name, Stat: k,
			Have: f.stats[k].Value(), Cost: f.env.ScaleCost(k, b.Lower),
		}
	}
	return nil
}

// FindMove searches the fighter's known moves by name.
func (f *Fighter) FindMove(name string, exact bool) match.Result[*move.Move] {
	return match.Find(f.moves, match.Name(name), exact)
}

// FindItem searches the fighter's inventory by item name.
func (f *Fighter) FindItem(name string, exact bool) match.Result[*inventory.Stack] {
	return match.Find(f.Inventory.Stacks(), match.Name(name), exact)
}

// FindCounter searches the fighter's available counters by name.
func (f *Fighter) FindCounter(name string, exact bool) match.Result[move.Counter] {
	return match.Find(f.counters, match.Name(name), exact)
}

// UpdateStats applies one turn of regeneration to every stat.
//
// Precondition: f is in a battle.
func (f *Fighter) UpdateStats() {
	env := f.mustEnv()
	for _, s := range f.Stats() {
		if d := env.regen(s); d != 0 {
			s.Add(d)
		}
	}
}

// ReceiveEffect applies def to f, stacking by name per the battle config.
//
// Precondition: f is in a battle.
func (f *Fighter) ReceiveEffect(def *move.EffectDef, source string) *effect.Active {
	env := f.mustEnv()
	a := f.Effects.Receive(def, source, env.cfg.StackEffectDuration)
	env.narrate(narration.Event{
		Kind:   narration.KindEffectReceive,
		Sender: source,
		Target: f.Name,
		Text:   narration.Render(def.ReceiveMessage, source, f.Name, nil),
	})
	return a
}

// TickEffects runs the two per-turn status effect passes: expiry, then values.
//
// Precondition: f is in a battle.
// Postcondition: returns the effects that wore off.
func (f *Fighter) TickEffects() []*effect.Active {
	env := f.mustEnv()
	expired := f.Effects.Tick()
	for _, a := range expired {
		env.narrate(narration.Event{
			Kind:   narration.KindEffectWearOff,
			Sender: a.Source,
			Target: f.Name,
			Text:   narration.Render(a.Def.WearOffMessage, a.Source, f.Name, nil),
		})
	}
	for _, a := range f.Effects.All() {
		if len(a.Def.Values) == 0 {
			continue
		}
		vals := narration.Values{}
		for _, k := range a.Def.ValueKeys() {
			s, ok := f.stats[k]
			if !ok {
				continue
			}
			b := a.Def.Values[k]
			vals[string(k)] = s.Add(env.effectValue(k, b.Sample(env.roller)))
		}
		env.narrate(narration.Event{
			Kind:   narration.KindEffectApply,
			Sender: a.Source,
			Target: f.Name,
			Text:   narration.Render(a.Def.ApplyMessage, a.Source, f.Name, vals),
		})
	}
	return expired
}

func (f *Fighter) mustEnv() *Environment {
	if f.env == nil {
		panic(fmt.Sprintf("combat: %s used outside a battle", f.Name))
	}
	return f.env
}
