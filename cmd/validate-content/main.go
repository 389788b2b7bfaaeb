// Package main validates the content tree: the move catalog, fighter
// templates, planner domains and Lua hooks. It exits non-zero on any problem.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"go.uber.org/zap"

	"github.com/cory-johannsen/duel/internal/config"
	"github.com/cory-johannsen/duel/internal/content"
	"github.com/cory-johannsen/duel/internal/game/dice"
	"github.com/cory-johannsen/duel/internal/observability"
)

func main() {
	configPath := flag.String("config", "configs/duel.yaml", "path to configuration file")
	contentDir := flag.String("content", "", "override content.dir")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	if *contentDir != "" {
		cfg.Content.Dir = *contentDir
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	if err := validate(cfg, logger); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Println("content OK")
}

// validate loads the content tree and cross-checks it.
func validate(cfg config.Config, logger *zap.Logger) error {
	roller := dice.NewLoggedRoller(dice.NewCryptoSource(), logger)
	b, err := content.Load(cfg, roller, logger)
	if err != nil {
		return err
	}
	defer b.Close()
	if err := b.Validate(); err != nil {
		return fmt.Errorf("content %q: %w", cfg.Content.Dir, err)
	}
	return nil
}
