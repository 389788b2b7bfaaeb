package ai

import (
	"math"

	"go.uber.org/zap"

	"github.com/cory-johannsen/duel/internal/config"
	"github.com/cory-johannsen/duel/internal/game/combat"
	"github.com/cory-johannsen/duel/internal/game/move"
)

// Generic is the utility AI every other strategy builds on.
//
// AnalyseMove draws up to GenericTries random moves and keeps the first one
// affordable on average; failing that it takes the move with the lowest
// desperation-weighted cost, or None when even that cannot be paid.
// AnalyseCounter picks the counter with the best expected outcome.
type Generic struct {
	cfg    config.AIConfig
	logger *zap.Logger
	cache  counterCache
}

// NewGeneric creates a Generic AI.
//
// Precondition: logger must be non-nil.
func NewGeneric(cfg config.AIConfig, logger *zap.Logger) *Generic {
	if logger == nil {
		panic("ai: NewGeneric precondition violated: logger must be non-nil")
	}
	return &Generic{cfg: cfg, logger: logger}
}

// AnalyseMove implements combat.AI.
func (g *Generic) AnalyseMove(self, _ *combat.Fighter) *move.Move {
	candidates := attacks(self)
	if len(candidates) == 0 {
		return move.None
	}
	roller := self.Env().Roller()
	for range g.cfg.GenericTries {
		m := candidates[roller.Intn(len(candidates))]
		if ok, _ := self.CanAfford(m, true); ok {
			return m
		}
	}
	m := g.lowestCostWeighted(self, candidates)
	if ok, _ := self.CanAfford(m, true); !ok {
		g.logger.Debug("no affordable move", zap.String("fighter", self.Name), zap.String("cheapest", m.Name))
		return move.None
	}
	return m
}

// AnalyseCounter implements combat.AI.
func (g *Generic) AnalyseCounter(self, _ *combat.Fighter, m *move.Move) move.Counter {
	return bestCounter(&g.cache, g.cfg, self, m)
}

// AnalyseMoveReceive implements combat.AI. The generic AI does not learn.
func (g *Generic) AnalyseMoveReceive(_, _ *combat.Fighter, _ *move.Move, _ move.Info) {}

// lowestCostWeighted returns the candidate whose weighted cost is smallest.
//
// Precondition: candidates is non-empty.
func (g *Generic) lowestCostWeighted(self *combat.Fighter, candidates []*move.Move) *move.Move {
	best, bestWeight := candidates[0], math.Inf(1)
	for _, m := range candidates {
		if w := g.costWeight(self, m); w < bestWeight {
			best, bestWeight = m, w
		}
	}
	return best
}

// costWeight folds every cost of m into one scalar: the cost relative to the
// stat's current value, its span and its regeneration, scaled by desperation.
// Gains count as free.
func (g *Generic) costWeight(self *combat.Fighter, m *move.Move) float64 {
	env := self.Env()
	total := 0.0
	for _, k := range m.CostKeys() {
		s, ok := self.Stat(k)
		if !ok {
			continue
		}
		cost := -env.ExpectedCost(m, k)
		if cost <= 0 {
			continue
		}
		current := math.Max(float64(s.Value()-s.Min()), 1)
		span := math.Max(float64(s.Max()-s.Min()), 1)
		regen := math.Max(float64(s.Rate())*env.Config().RateScale(k), 1)
		ratio := cost/current + cost/span + cost/regen
		total += ratio * desperation(s, g.cfg.Exponent(k))
	}
	return total
}

// Dummy never acts and never counters.
type Dummy struct{}

// AnalyseMove implements combat.AI.
func (Dummy) AnalyseMove(_, _ *combat.Fighter) *move.Move { return move.None }

// AnalyseCounter implements combat.AI.
func (Dummy) AnalyseCounter(_, _ *combat.Fighter, _ *move.Move) move.Counter {
	return move.CounterNone
}

// AnalyseMoveReceive implements combat.AI.
func (Dummy) AnalyseMoveReceive(_, _ *combat.Fighter, _ *move.Move, _ move.Info) {}
