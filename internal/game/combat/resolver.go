package combat

import (
	"fmt"
	"maps"
	"slices"

	"go.uber.org/zap"

	"github.com/cory-johannsen/duel/internal/game/effect"
	"github.com/cory-johannsen/duel/internal/game/move"
	"github.com/cory-johannsen/duel/internal/game/narration"
	"github.com/cory-johannsen/duel/internal/game/stat"
)

// Outcome describes how one move resolved against its target.
type Outcome struct {
	Move *move.Move
	Info move.Info
	// Recipient is the fighter whose stats Deltas were applied to: the
	// target, or the sender on failure.
	Recipient string
	Deltas    map[stat.Key]int
	Effects   []string
	Message   string
}

// String renders e.g. "Slash block/fail hp=-8".
func (o *Outcome) String() string {
	s := fmt.Sprintf("%s %s", o.Move.Name, o.Info)
	for _, k := range slices.Sorted(maps.Keys(o.Deltas)) {
		s += fmt.Sprintf(" %s=%d", k, o.Deltas[k])
	}
	return s
}

// Report is the sender-side result of Fighter.Move. Err carries a
// recoverable problem (unmet requirement or unaffordable cost) that aborted
// the move before it reached the target; Outcome is nil in that case.
type Report struct {
	Move    *move.Move
	Costs   map[stat.Key]int
	Outcome *Outcome
	Err     error
}

// Move sends m at target. A nil m is chosen by the fighter's player Decider or AI.
//
// Requirements are checked first, then costs are sampled and checked, then
// costs are paid, then required items are consumed, and finally the move is
// handed to target.ReceiveMove. An unaffordable cost notifies the target's AI
// with a lowStats Info and charges nothing.
//
// Precondition: f and target are in the same battle.
// Postcondition: recoverable failures are returned in Report.Err with a nil
// error; the error result is reserved for contract violations.
func (f *Fighter) Move(target *Fighter, m *move.Move) (*Report, error) {
	env := f.env
	if env == nil || target.env != env {
		return nil, ErrNotInBattle
	}
	if m == nil {
		var err error
		if m, err = f.selectMove(target); err != nil {
			return nil, err
		}
	}
	rep := &Report{Move: m, Costs: map[stat.Key]int{}}
	f.lastCosts = rep.Costs

	if !m.IsNone() {
		if err := f.CheckRequirements(m); err != nil {
			rep.Err = err
			env.narrate(narration.Event{Kind: narration.KindNotice, Sender: f.Name, Target: target.Name, Text: err.Error()})
			return rep, nil
		}
		for _, k := range m.CostKeys() {
			s, ok := f.stats[k]
			if !ok {
				continue
			}
			b, _ := m.Cost(k)
			cost := env.ScaleCost(k, b.Sample(env.roller))
			if s.Value()+cost < 0 {
				rep.Err = &InsufficientResourceError{Fighter: f.Name, Move: m.Name, Stat: k, Have: s.Value(), Cost: cost}
				rep.Costs = map[stat.Key]int{}
				env.narrate(narration.Event{Kind: narration.KindNotice, Sender: f.Name, Target: target.Name, Text: rep.Err.Error()})
				target.notify(f, m, move.Info{LowStat: k})
				return rep, nil
			}
			rep.Costs[k] = cost
		}
		for k, cost := range rep.Costs {
			f.stats[k].Add(cost)
		}
		if combo := f.itemCombo(m); combo != nil {
			if err := f.Inventory.Consume(combo); err != nil {
				return nil, fmt.Errorf("combat: consuming items for %s: %w", m.Name, err)
			}
		}
	}

	out, err := target.ReceiveMove(m, f)
	if err != nil {
		return nil, err
	}
	rep.Outcome = out
	return rep, nil
}

func (f *Fighter) selectMove(target *Fighter) (*move.Move, error) {
	switch {
	case f.Player != nil:
		m, err := f.Player.SelectMove(f, target)
		if err != nil {
			return nil, fmt.Errorf("combat: %s selecting move: %w", f.Name, err)
		}
		return m, nil
	case f.AI != nil:
		return f.AI.AnalyseMove(f, target), nil
	default:
		return move.None, nil
	}
}

// ReceiveMove resolves m sent by sender against f: failure roll, counter
// eligibility, counter selection, branch sub-rolls, stat application,
// status effects and AI notification. sender may be nil for environmental
// moves, which skip the failure and counter rolls.
//
// Precondition: f is in a battle.
// Postcondition: errors are fatal: *InvalidCounterError,
// *move.UnknownSituationError or a Decider failure.
func (f *Fighter) ReceiveMove(m *move.Move, sender *Fighter) (*Outcome, error) {
	env := f.env
	if env == nil {
		return nil, ErrNotInBattle
	}
	if m == nil {
		m = move.None
	}
	out := &Outcome{Move: m, Recipient: f.Name, Deltas: map[stat.Key]int{}}
	senderName := ""
	if sender != nil {
		senderName = sender.Name
	}
	if m.IsNone() {
		f.notify(sender, m, out.Info)
		return out, nil
	}

	if sender != nil && env.check(m.Name+" failure", env.FailureChance(m)) {
		out.Info = move.Info{Branch: move.Failure}
		out.Recipient = sender.Name
		out.Deltas = sender.applyValues(m, move.Failure)
	} else {
		info, err := f.resolveCounter(m, sender)
		if err != nil {
			return nil, err
		}
		out.Info = info
		out.Deltas = f.applyValues(m, info.Branch)
	}

	env.logger.Debug("move resolved",
		zap.String("move", m.Name),
		zap.String("sender", senderName),
		zap.String("target", f.Name),
		zap.Stringer("info", out.Info),
		zap.Any("deltas", out.Deltas),
	)

	tmpl, _ := m.Message(out.Info.Branch)
	out.Message = narration.Render(tmpl, senderName, f.Name, f.narrationValues(sender, out.Deltas))
	env.narrate(narration.Event{Kind: narration.KindMove, Sender: senderName, Target: f.Name, Text: out.Message})

	applied, err := f.triggerEffects(m, sender, out.Info)
	if err != nil {
		return nil, err
	}
	out.Effects = applied
	f.notify(sender, m, out.Info)
	return out, nil
}

// resolveCounter runs the counter-eligibility roll, asks for a counter when
// permitted, and rolls the branch sub-chances.
func (f *Fighter) resolveCounter(m *move.Move, sender *Fighter) (move.Info, error) {
	env := f.env
	if sender == nil {
		return move.Info{Branch: f.critical(m, move.Normal, move.Critical), Counter: move.CounterNone}, nil
	}
	if !env.check(m.Name+" counter", env.CounterChance(m)) {
		return move.Info{Branch: f.critical(m, move.Fast, move.FastCritical)}, nil
	}

	counter := move.CounterNone
	if !f.Effects.NoCounter() {
		var err error
		if counter, err = f.selectCounter(sender, m); err != nil {
			return move.Info{}, err
		}
	}
	if !counter.Valid() || !f.HasCounter(counter) {
		return move.Info{}, &InvalidCounterError{Fighter: f.Name, Counter: counter}
	}

	info := move.Info{Counter: counter}
	switch counter {
	case move.CounterBlock:
		if env.check(m.Name+" block", env.BlockChance(m)) {
			info.Branch = move.Block
		} else {
			info.Branch = f.critical(m, move.BlockFail, move.BlockFailCritical)
		}
	case move.CounterEvade:
		if env.check(m.Name+" evade", env.EvadeChance(m)) {
			info.Branch = move.Evade
		} else {
			info.Branch = f.critical(m, move.EvadeFail, move.EvadeFailCritical)
		}
	default:
		info.Branch = f.critical(m, move.Normal, move.Critical)
	}
	return info, nil
}

func (f *Fighter) critical(m *move.Move, plain, crit move.Branch) move.Branch {
	if f.env.check(m.Name+" critical", f.env.CriticalChance(m)) {
		return crit
	}
	return plain
}

func (f *Fighter) selectCounter(sender *Fighter, m *move.Move) (move.Counter, error) {
	switch {
	case f.Player != nil:
		c, err := f.Player.SelectCounter(f, sender, m)
		if err != nil {
			return "", fmt.Errorf("combat: %s selecting counter: %w", f.Name, err)
		}
		return c, nil
	case f.AI != nil:
		return f.AI.AnalyseCounter(f, sender, m), nil
	default:
		return move.CounterNone, nil
	}
}

// applyValues samples, scales and applies every <branch><STAT>Value of m to f.
// The returned deltas are the amounts actually applied after clamping.
func (f *Fighter) applyValues(m *move.Move, b move.Branch) map[stat.Key]int {
	env := f.env
	deltas := map[stat.Key]int{}
	for _, k := range f.statOrder {
		bound, ok := m.Value(b, k)
		if !ok {
			continue
		}
		deltas[k] = f.stats[k].Add(env.ScaleValue(k, bound.Sample(env.roller)))
	}
	return deltas
}

func (f *Fighter) narrationValues(sender *Fighter, deltas map[stat.Key]int) narration.Values {
	vals := narration.Values{}
	for k, v := range deltas {
		vals[string(k)] = v
	}
	if sender != nil {
		for k, v := range sender.lastCosts {
			vals[string(k)+"Cost"] = v
		}
	}
	return vals
}

// triggerEffects evaluates every status effect attached to m against info and
// applies those that trigger to their recipient.
func (f *Fighter) triggerEffects(m *move.Move, sender *Fighter, info move.Info) ([]string, error) {
	env := f.env
	roll := func(label string, chance float64) bool {
		return env.check("effect "+label, env.EffectChance(chance))
	}
	source := f.Name
	if sender != nil {
		source = sender.Name
	}
	var applied []string
	for _, def := range m.Effects {
		ok, err := effect.Triggered(def, info, roll)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		recipient := f
		if def.Target == move.TargetSender {
			if sender == nil {
				continue
			}
			recipient = sender
		}
		recipient.ReceiveEffect(def, source)
		applied = append(applied, def.Name)
	}
	return applied, nil
}

// notify tells a non-player fighter's AI how a move aimed at it resolved.
func (f *Fighter) notify(sender *Fighter, m *move.Move, info move.Info) {
	if f.IsPlayer() || f.AI == nil {
		return
	}
	f.AI.AnalyseMoveReceive(f, sender, m, info)
}
