// Package combat resolves moves between two fighters inside a battle
// environment that owns the percentage multipliers and the turn loop.
package combat

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/looplab/fsm"
	"go.uber.org/zap"

	"github.com/cory-johannsen/duel/internal/config"
	"github.com/cory-johannsen/duel/internal/game/dice"
	"github.com/cory-johannsen/duel/internal/game/move"
	"github.com/cory-johannsen/duel/internal/game/narration"
	"github.com/cory-johannsen/duel/internal/game/stat"
)

// Lifecycle states and events of an Environment.
const (
	StateIdle   = "idle"
	StateActive = "active"
	StateClosed = "closed"

	eventEnter = "enter"
	eventExit  = "exit"
)

// Environment holds the immutable battle configuration and the fighters
// currently attached to it. Fighters only have a valid environment between
// Enter and Exit.
//
// It is not safe for concurrent use; a battle runs on one goroutine.
type Environment struct {
	ID string

	cfg       config.BattleConfig
	roller    *dice.Roller
	sink      narration.Sink
	logger    *zap.Logger
	lifecycle *fsm.FSM
	fighters  []*Fighter
}

// NewEnvironment creates an idle Environment.
//
// Precondition: roller and logger must be non-nil; cfg.Validate() == nil.
// Postcondition: State() == StateIdle. A nil sink discards narration.
func NewEnvironment(cfg config.BattleConfig, roller *dice.Roller, sink narration.Sink, logger *zap.Logger) *Environment {
	if roller == nil || logger == nil {
		panic("combat: NewEnvironment precondition violated: roller and logger must be non-nil")
	}
	if sink == nil {
		sink = narration.Discard
	}
	e := &Environment{
		ID:     uuid.NewString(),
		cfg:    cfg,
		roller: roller,
		sink:   sink,
	}
	e.logger = logger.With(zap.String("battle", e.ID))
	e.lifecycle = fsm.NewFSM(
		StateIdle,
		fsm.Events{
			{Name: eventEnter, Src: []string{StateIdle}, Dst: StateActive},
			{Name: eventExit, Src: []string{StateActive}, Dst: StateClosed},
		},
		fsm.Callbacks{
			"enter_state": func(_ context.Context, ev *fsm.Event) {
				e.logger.Debug("battle state", zap.String("from", ev.Src), zap.String("to", ev.Dst))
			},
		},
	)
	return e
}

// Config returns the battle configuration.
func (e *Environment) Config() config.BattleConfig { return e.cfg }

// Roller returns the environment's logged roller.
func (e *Environment) Roller() *dice.Roller { return e.roller }

// Logger returns the environment's logger.
func (e *Environment) Logger() *zap.Logger { return e.logger }

// State returns the lifecycle state: idle, active or closed.
func (e *Environment) State() string { return e.lifecycle.Current() }

// Fighters returns the attached fighters.
func (e *Environment) Fighters() []*Fighter {
	out := make([]*Fighter, len(e.fighters))
	copy(out, e.fighters)
	return out
}

// Enter attaches fighters to the environment and activates it.
//
// Precondition: State() == StateIdle; no fighter is attached elsewhere.
// Postcondition: on success every fighter's Env() is e.
func (e *Environment) Enter(ctx context.Context, fighters ...*Fighter) error {
	for _, f := range fighters {
		if f.env != nil {
			return fmt.Errorf("combat: %s is already in battle %s", f.Name, f.env.ID)
		}
	}
	if err := e.lifecycle.Event(ctx, eventEnter); err != nil {
		return fmt.Errorf("combat: entering battle %s: %w", e.ID, err)
	}
	for _, f := range fighters {
		f.env = e
	}
	e.fighters = append(e.fighters, fighters...)
	e.logger.Info("battle entered", zap.Int("fighters", len(fighters)))
	return nil
}

// Exit detaches every fighter and closes the environment.
//
// Postcondition: every previously attached fighter has a nil Env().
func (e *Environment) Exit(ctx context.Context) error {
	if err := e.lifecycle.Event(ctx, eventExit); err != nil {
		return fmt.Errorf("combat: exiting battle %s: %w", e.ID, err)
	}
	for _, f := range e.fighters {
		f.env = nil
	}
	e.fighters = nil
	e.logger.Info("battle exited")
	return nil
}

// Scope enters the environment with fighters, runs fn, and always exits.
func (e *Environment) Scope(ctx context.Context, fighters []*Fighter, fn func() error) (err error) {
	if err := e.Enter(ctx, fighters...); err != nil {
		return err
	}
	defer func() {
		if xerr := e.Exit(ctx); err == nil {
			err = xerr
		}
	}()
	return fn()
}

// FailureChance is the scaled chance that m fails on the sender's side.
func (e *Environment) FailureChance(m *move.Move) float64 {
	return m.FailureChance * e.cfg.FailureChancePercent / 100
}

// CounterChance is the scaled chance that the target may counter m.
func (e *Environment) CounterChance(m *move.Move) float64 {
	return (100 - m.Speed) * e.cfg.SpeedPercent / 100
}

// CriticalChance is the scaled chance that m lands critically.
func (e *Environment) CriticalChance(m *move.Move) float64 {
	return m.CriticalChance * e.cfg.CriticalChancePercent / 100
}

// BlockChance is the scaled chance that a block against m holds.
func (e *Environment) BlockChance(m *move.Move) float64 {
	return m.BlockChance * e.cfg.BlockChancePercent / 100
}

// EvadeChance is the scaled chance that an evade against m holds.
func (e *Environment) EvadeChance(m *move.Move) float64 {
	return m.EvadeChance * e.cfg.EvadeChancePercent / 100
}

// EffectChance scales a status effect chance.
func (e *Environment) EffectChance(pct float64) float64 {
	return pct * e.cfg.EffectChancePercent / 100
}

// ScaleValue scales a sampled move value for stat k and rounds it.
func (e *Environment) ScaleValue(k stat.Key, sampled float64) int {
	return stat.Round(sampled * e.cfg.ValueScale(k))
}

// ScaleCost scales a sampled move cost for stat k and rounds it.
func (e *Environment) ScaleCost(k stat.Key, sampled float64) int {
	return stat.Round(sampled * e.cfg.CostScale(k))
}

// ExpectedValue is the scaled average of m's value for branch b and stat k, or
// 0 when the move does not touch k in that branch.
func (e *Environment) ExpectedValue(m *move.Move, b move.Branch, k stat.Key) float64 {
	v, ok := m.Value(b, k)
	if !ok {
		return 0
	}
	return v.Average() * e.cfg.ValueScale(k)
}

// ExpectedCost is the scaled average of m's cost for stat k.
func (e *Environment) ExpectedCost(m *move.Move, k stat.Key) float64 {
	c, ok := m.Cost(k)
	if !ok {
		return 0
	}
	return c.Average() * e.cfg.CostScale(k)
}

// regen returns the scaled per-turn regeneration for s.
func (e *Environment) regen(s *stat.Stat) int {
	return stat.Round(float64(s.Rate()) * e.cfg.RateScale(s.Key))
}

func (e *Environment) effectValue(k stat.Key, sampled float64) int {
	return stat.Round(sampled * e.cfg.EffectValueScale(k))
}

func (e *Environment) check(label string, chance float64) bool {
	return e.roller.Check(label, chance)
}

func (e *Environment) narrate(ev narration.Event) {
	if ev.Text == "" {
		return
	}
	e.sink.Narrate(ev)
}
