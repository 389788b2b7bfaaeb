// Package main runs a narrated duel between two fighter templates, or a batch
// of silent AI-versus-AI simulations.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/duel/internal/config"
	"github.com/cory-johannsen/duel/internal/content"
	"github.com/cory-johannsen/duel/internal/frontend/console"
	"github.com/cory-johannsen/duel/internal/game/combat"
	"github.com/cory-johannsen/duel/internal/game/dice"
	"github.com/cory-johannsen/duel/internal/game/narration"
	"github.com/cory-johannsen/duel/internal/observability"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/duel.yaml", "path to configuration file")
	fighterA := flag.String("a", "", "first fighter template (default duel.fighter_a)")
	fighterB := flag.String("b", "", "second fighter template (default duel.fighter_b)")
	simulate := flag.Bool("simulate", false, "run simulation.battles silent AI battles instead of one narrated duel")
	battles := flag.Int("battles", 0, "override simulation.battles")
	workers := flag.Int("workers", 0, "override simulation.workers")
	seed := flag.Uint64("seed", 0, "override simulation.seed; also seeds a single duel")
	color := flag.Bool("color", true, "colorize console output")
	logNarration := flag.Bool("log-narration", false, "send narration to the logger instead of the console")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	if *fighterA != "" {
		cfg.Duel.FighterA = *fighterA
	}
	if *fighterB != "" {
		cfg.Duel.FighterB = *fighterB
	}
	if *battles > 0 {
		cfg.Simulation.Battles = *battles
	}
	if *workers > 0 {
		cfg.Simulation.Workers = *workers
	}
	if *seed != 0 {
		cfg.Simulation.Seed = *seed
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	roller := dice.NewLoggedRoller(sourceFor(cfg.Simulation.Seed), logger)
	bundle, err := content.Load(cfg, roller, logger)
	if err != nil {
		logger.Fatal("loading content", zap.Error(err))
	}
	defer bundle.Close()

	logger.Info("duel ready",
		zap.Duration("startup", time.Since(start)),
		zap.String("fighter_a", cfg.Duel.FighterA),
		zap.String("fighter_b", cfg.Duel.FighterB),
	)

	if *simulate {
		summary, err := simulateBattles(ctx, cfg, bundle, logger)
		if err != nil {
			logger.Fatal("simulation failed", zap.Error(err))
		}
		fmt.Print(summary)
		return
	}

	var sink narration.Sink = observability.NarrationSink(logger)
	if !*logNarration {
		sink = console.NewSink(os.Stdout, *color)
	}
	player := console.NewPlayer(os.Stdin, os.Stdout, *color)
	res, err := duel(ctx, cfg, bundle, roller, sink, player, logger)
	switch {
	case errors.Is(err, console.ErrQuit):
		logger.Info("player quit")
	case err != nil:
		logger.Fatal("duel failed", zap.Error(err))
	default:
		logger.Info("duel finished", zap.Stringer("result", res))
	}
}

// sourceFor returns a seeded source for a non-zero seed and crypto randomness otherwise.
func sourceFor(seed uint64) dice.Source {
	if seed == 0 {
		return dice.NewCryptoSource()
	}
	return dice.NewSeededSource(seed)
}

// duel runs one narrated battle between the configured fighters.
func duel(ctx context.Context, cfg config.Config, bundle *content.Bundle, roller *dice.Roller, sink narration.Sink, player combat.Decider, logger *zap.Logger) (*combat.Result, error) {
	a, err := bundle.Fighter(cfg.Duel.FighterA, player)
	if err != nil {
		return nil, err
	}
	b, err := bundle.Fighter(cfg.Duel.FighterB, player)
	if err != nil {
		return nil, err
	}
	env := combat.NewEnvironment(cfg.Battle, roller, sink, logger)
	var res *combat.Result
	err = env.Scope(ctx, []*combat.Fighter{a, b}, func() error {
		var rerr error
		res, rerr = env.Run(ctx, a, b)
		return rerr
	})
	return res, err
}
