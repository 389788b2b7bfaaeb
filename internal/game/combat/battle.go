package combat

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/duel/internal/game/narration"
)

// Result summarises a finished battle. Winner and Loser are nil on a draw.
type Result struct {
	Winner *Fighter
	Loser  *Fighter
	Turns  int
	Draw   bool
}

// String renders "Ayla defeats Brom in 12 turns" or "draw after 500 turns".
func (r *Result) String() string {
	if r.Draw {
		return fmt.Sprintf("draw after %d turns", r.Turns)
	}
	return fmt.Sprintf("%s defeats %s in %d turns", r.Winner.Name, r.Loser.Name, r.Turns)
}

// Turn runs one turn for actor: status effects tick, stats regenerate, then
// actor moves against target. A recoverable move failure only skips the action.
//
// Precondition: actor and target are in this battle.
func (e *Environment) Turn(actor, target *Fighter) (*Report, error) {
	if actor.env != e || target.env != e {
		return nil, ErrNotInBattle
	}
	actor.TickEffects()
	if actor.Dead() {
		return nil, nil
	}
	actor.UpdateStats()
	rep, err := actor.Move(target, nil)
	if err != nil {
		return nil, err
	}
	if rep.Err != nil {
		e.logger.Info("move aborted", zap.String("fighter", actor.Name), zap.Error(rep.Err))
	}
	return rep, nil
}

// Run alternates turns between a and b until one of them dies, MaxTurns is
// reached, or ctx is cancelled. With RandomFirstTurn set the opening fighter
// is chosen by a coin flip; otherwise a moves first.
//
// Precondition: State() == StateActive with a and b attached.
// Postcondition: a non-nil Result unless an error is returned.
func (e *Environment) Run(ctx context.Context, a, b *Fighter) (*Result, error) {
	if e.State() != StateActive {
		return nil, fmt.Errorf("combat: battle %s is %s: %w", e.ID, e.State(), ErrNotInBattle)
	}
	order := [2]*Fighter{a, b}
	if e.cfg.RandomFirstTurn {
		order[0], order[1] = RollFirstTurn(a, b, e.roller)
	}
	e.narrate(narration.Event{Kind: narration.KindBattle, Sender: order[0].Name, Target: order[1].Name,
		Text: fmt.Sprintf("%s faces %s.", order[0].Name, order[1].Name)})

	for turn := 1; ; turn++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		actor, target := order[(turn-1)%2], order[turn%2]
		if _, err := e.Turn(actor, target); err != nil {
			return nil, fmt.Errorf("combat: turn %d (%s): %w", turn, actor.Name, err)
		}
		if res := e.decide(a, b, turn); res != nil {
			e.logger.Info("battle over", zap.Stringer("result", res))
			e.narrate(narration.Event{Kind: narration.KindBattle, Text: res.String() + "."})
			return res, nil
		}
	}
}

func (e *Environment) decide(a, b *Fighter, turn int) *Result {
	aDead, bDead := a.Dead(), b.Dead()
	switch {
	case aDead && bDead:
		return &Result{Turns: turn, Draw: true}
	case aDead:
		return &Result{Winner: b, Loser: a, Turns: turn}
	case bDead:
		return &Result{Winner: a, Loser: b, Turns: turn}
	case e.cfg.MaxTurns > 0 && turn >= e.cfg.MaxTurns:
		return &Result{Turns: turn, Draw: true}
	}
	return nil
}
