// Package inventory holds the counted item stacks a fighter carries.
package inventory

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/cory-johannsen/duel/internal/game/move"
)

// Stack is a counted pile of one item in a backpack.
type Stack struct {
	InstanceID string
	Item       *move.Item
	Quantity   int
}

// Attributes exposes the stack to the requirement matcher.
func (s *Stack) Attributes() map[string]any {
	return map[string]any{"name": s.Item.Name, "description": s.Item.Description, "count": s.Quantity}
}

// Backpack is an ordered set of item stacks, at most one per item name.
// It is not safe for concurrent use; the owning Fighter serialises access.
type Backpack struct {
	stacks []*Stack
}

// NewBackpack creates an empty Backpack.
func NewBackpack() *Backpack {
	return &Backpack{}
}

// Add places quantity units of item into the backpack, merging with an
// existing stack of the same name.
//
// Precondition: item must not be nil and quantity > 0.
// Postcondition: Count(item.Name) increases by quantity.
func (b *Backpack) Add(item *move.Item, quantity int) (*Stack, error) {
	if item == nil {
		return nil, fmt.Errorf("backpack: item must not be nil")
	}
	if quantity <= 0 {
		return nil, fmt.Errorf("backpack: quantity must be > 0")
	}
	if s := b.find(item.Name); s != nil {
		s.Quantity += quantity
		return s, nil
	}
	s := &Stack{InstanceID: uuid.New().String(), Item: item, Quantity: quantity}
	b.stacks = append(b.stacks, s)
	return s, nil
}

// Remove takes quantity units of the named item out of the backpack. A stack
// reaching zero is dropped.
//
// Postcondition: on error the backpack is unchanged.
func (b *Backpack) Remove(name string, quantity int) error {
	if quantity <= 0 {
		return fmt.Errorf("backpack: quantity must be > 0")
	}
	for i, s := range b.stacks {
		if s.Item.Name != name {
			continue
		}
		if s.Quantity < quantity {
			return fmt.Errorf("backpack: only %d of %q, need %d", s.Quantity, name, quantity)
		}
		s.Quantity -= quantity
		if s.Quantity == 0 {
			b.stacks = append(b.stacks[:i], b.stacks[i+1:]...)
		}
		return nil
	}
	return fmt.Errorf("backpack: no %q", name)
}

// Count returns how many units of the named item are held.
func (b *Backpack) Count(name string) int {
	if s := b.find(name); s != nil {
		return s.Quantity
	}
	return 0
}

// Has reports whether the backpack can satisfy r.
func (b *Backpack) Has(r move.ItemRequirement) bool {
	return b.Count(r.Name) >= r.Count
}

// Consume removes every non-Keep requirement in combo.
//
// Precondition: every member of combo is satisfied by Has.
// Postcondition: on error the backpack is unchanged.
func (b *Backpack) Consume(combo []move.ItemRequirement) error {
	need := make(map[string]int)
	for _, r := range combo {
		if !r.Keep {
			need[r.Name] += r.Count
		}
	}
	for name, n := range need {
		if b.Count(name) < n {
			return fmt.Errorf("backpack: only %d of %q, need %d", b.Count(name), name, n)
		}
	}
	for _, r := range combo {
		if r.Keep {
			continue
		}
		if err := b.Remove(r.Name, r.Count); err != nil {
			return err
		}
	}
	return nil
}

// Stacks returns the stacks in the order they were first added.
func (b *Backpack) Stacks() []*Stack {
	out := make([]*Stack, len(b.stacks))
	copy(out, b.stacks)
	return out
}

// Len returns the number of distinct stacks.
func (b *Backpack) Len() int { return len(b.stacks) }

func (b *Backpack) find(name string) *Stack {
	for _, s := range b.stacks {
		if s.Item.Name == name {
			return s
		}
	}
	return nil
}
