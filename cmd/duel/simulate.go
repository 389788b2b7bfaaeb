package main

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/cory-johannsen/duel/internal/config"
	"github.com/cory-johannsen/duel/internal/content"
	"github.com/cory-johannsen/duel/internal/game/combat"
	"github.com/cory-johannsen/duel/internal/game/dice"
)

// tally aggregates simulation results.
type tally struct {
	mu      sync.Mutex
	battles int
	draws   int
	turns   int
	wins    map[string]int
}

func (t *tally) add(r *combat.Result) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.battles++
	t.turns += r.Turns
	if r.Draw {
		t.draws++
		return
	}
	t.wins[r.Winner.Name]++
}

// String renders one line per fighter sorted by wins, then draws and the
// average battle length.
func (t *tally) String() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	names := make([]string, 0, len(t.wins))
	for n := range t.wins {
		names = append(names, n)
	}
	sort.Slice(names, func(i, j int) bool {
		if t.wins[names[i]] != t.wins[names[j]] {
			return t.wins[names[i]] > t.wins[names[j]]
		}
		return names[i] < names[j]
	})
	var b strings.Builder
	fmt.Fprintf(&b, "%d battles\n", t.battles)
	for _, n := range names {
		fmt.Fprintf(&b, "  %-20s %5d wins (%.1f%%)\n", n, t.wins[n], pct(t.wins[n], t.battles))
	}
	fmt.Fprintf(&b, "  %-20s %5d (%.1f%%)\n", "draws", t.draws, pct(t.draws, t.battles))
	if t.battles > 0 {
		fmt.Fprintf(&b, "  average length %.1f turns\n", float64(t.turns)/float64(t.battles))
	}
	return b.String()
}

func pct(n, of int) float64 {
	if of == 0 {
		return 0
	}
	return 100 * float64(n) / float64(of)
}

// simulateBattles runs cfg.Simulation.Battles independent battles on
// cfg.Simulation.Workers goroutines. Every battle gets fresh fighters and its
// own source; with a non-zero seed battle i uses seed+i, so runs repeat.
// Narration is discarded.
//
// Precondition: neither configured fighter may be player-controlled.
func simulateBattles(ctx context.Context, cfg config.Config, bundle *content.Bundle, logger *zap.Logger) (*tally, error) {
	engine := combat.NewEngine()
	res := &tally{wins: make(map[string]int)}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Simulation.Workers)
	for i := range cfg.Simulation.Battles {
		g.Go(func() error {
			a, err := bundle.Fighter(cfg.Duel.FighterA, nil)
			if err != nil {
				return err
			}
			b, err := bundle.Fighter(cfg.Duel.FighterB, nil)
			if err != nil {
				return err
			}
			src := dice.NewCryptoSource()
			if cfg.Simulation.Seed != 0 {
				src = dice.NewSeededSource(cfg.Simulation.Seed + uint64(i))
			}
			env := combat.NewEnvironment(cfg.Battle, dice.NewLoggedRoller(src, logger), nil, logger.With(zap.Int("battle_no", i)))
			if err := engine.StartBattle(gctx, env, a, b); err != nil {
				return err
			}
			defer func() {
				if err := engine.EndBattle(context.WithoutCancel(gctx), env.ID); err != nil {
					logger.Warn("ending battle", zap.String("battle", env.ID), zap.Error(err))
				}
			}()
			r, err := env.Run(gctx, a, b)
			if err != nil {
				return fmt.Errorf("battle %d: %w", i, err)
			}
			res.add(r)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	logger.Info("simulation finished", zap.Int("battles", res.battles), zap.Int("draws", res.draws))
	return res, nil
}
