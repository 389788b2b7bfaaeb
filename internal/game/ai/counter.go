package ai

import (
	"github.com/cory-johannsen/duel/internal/config"
	"github.com/cory-johannsen/duel/internal/game/combat"
	"github.com/cory-johannsen/duel/internal/game/move"
	"github.com/cory-johannsen/duel/internal/game/stat"
)

// expected holds the scaled expected stat deltas a counter leads to.
type expected map[stat.Key]float64

// counterCache memoises per-move expected outcomes for one AI instance.
// Entries depend only on the move and the battle multipliers, so the cache
// is keyed by the catalog move pointer and dropped when the battle changes.
type counterCache struct {
	env    *combat.Environment
	byMove map[*move.Move]map[move.Counter]expected
}

func (c *counterCache) lookup(env *combat.Environment, m *move.Move) map[move.Counter]expected {
	if c.env != env {
		c.env = env
		c.byMove = make(map[*move.Move]map[move.Counter]expected)
	}
	if out, ok := c.byMove[m]; ok {
		return out
	}
	out := map[move.Counter]expected{
		move.CounterNone:  outcome(env, m, move.Normal, move.Critical, 0, move.BranchNone),
		move.CounterBlock: outcome(env, m, move.BlockFail, move.BlockFailCritical, env.BlockChance(m), move.Block),
		move.CounterEvade: outcome(env, m, move.EvadeFail, move.EvadeFailCritical, env.EvadeChance(m), move.Evade),
	}
	c.byMove[m] = out
	return out
}

// len reports how many moves are memoised.
func (c *counterCache) len() int { return len(c.byMove) }

// outcome mixes the branch expectations of one counter: held with chance
// hold%, otherwise plain or critical by the move's critical chance.
func outcome(env *combat.Environment, m *move.Move, plain, crit move.Branch, hold float64, held move.Branch) expected {
	p := clamp01(hold / 100)
	c := clamp01(env.CriticalChance(m) / 100)
	out := expected{}
	for _, d := range env.Config().Stats {
		k := d.Key
		v := (1 - p) * ((1-c)*env.ExpectedValue(m, plain, k) + c*env.ExpectedValue(m, crit, k))
		if held != move.BranchNone {
			v += p * env.ExpectedValue(m, held, k)
		}
		if v != 0 {
			out[k] = v
		}
	}
	return out
}

// bestCounter picks the available counter whose expected deltas, weighted by
// each stat's desperation, leave self best off. Ties keep the earlier counter
// in self.Counters(), so none wins when nothing differs.
func bestCounter(cache *counterCache, cfg config.AIConfig, self *combat.Fighter, m *move.Move) move.Counter {
	env := self.Env()
	if env == nil || m.IsNone() {
		return move.CounterNone
	}
	table := cache.lookup(env, m)
	best, bestScore := move.CounterNone, 0.0
	for i, c := range self.Counters() {
		score := 0.0
		for k, v := range table[c] {
			s, ok := self.Stat(k)
			if !ok {
				continue
			}
			score += v * desperation(s, cfg.Exponent(k))
		}
		if i == 0 || score > bestScore {
			best, bestScore = c, score
		}
	}
	return best
}
