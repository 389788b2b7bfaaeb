// Package content loads everything a battle is built from: the move catalog,
// fighter templates, planner domains and their Lua weight hooks.
package content

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/cory-johannsen/duel/internal/config"
	"github.com/cory-johannsen/duel/internal/game/ai"
	"github.com/cory-johannsen/duel/internal/game/combat"
	"github.com/cory-johannsen/duel/internal/game/dice"
	"github.com/cory-johannsen/duel/internal/game/move"
	"github.com/cory-johannsen/duel/internal/game/roster"
	"github.com/cory-johannsen/duel/internal/scripting"
)

// globalScriptDir is the script subdirectory loaded into the global scope.
const globalScriptDir = "global"

// Bundle is the loaded content set.
type Bundle struct {
	Catalog *move.Catalog
	Roster  *roster.Roster
	AIs     *ai.Registry
	Domains []*ai.Domain
	// Scripts is nil when scripting is disabled or no script directory exists.
	Scripts *scripting.Manager
	stats   config.BattleConfig
}

// Load reads the catalog from cfg.Content.Dir, fighter templates from its
// fighters/ subdirectory, planner domains from cfg.AI.DomainDir and Lua hooks
// from cfg.AI.ScriptDir. Missing domain and script directories are treated as
// empty.
//
// Precondition: roller and logger must be non-nil.
// Postcondition: Returns a Bundle whose registry knows every loaded domain, or
// an error; on error nothing needs closing.
func Load(cfg config.Config, roller *dice.Roller, logger *zap.Logger) (*Bundle, error) {
	catalog, err := move.LoadCatalog(cfg.Content.Dir)
	if err != nil {
		return nil, fmt.Errorf("content: %w", err)
	}
	r, err := roster.Load(filepath.Join(cfg.Content.Dir, "fighters"))
	if err != nil {
		return nil, fmt.Errorf("content: %w", err)
	}

	var domains []*ai.Domain
	if exists(cfg.AI.DomainDir) {
		if domains, err = ai.LoadDomains(cfg.AI.DomainDir); err != nil {
			return nil, fmt.Errorf("content: %w", err)
		}
	}

	scripts, err := loadScripts(cfg.AI, roller, logger)
	if err != nil {
		return nil, fmt.Errorf("content: %w", err)
	}

	var caller ai.ScriptCaller
	if scripts != nil {
		caller = scripts
	}
	reg := ai.NewRegistry(cfg.AI, caller, logger)
	for _, d := range domains {
		if err := reg.Register(d); err != nil {
			if scripts != nil {
				scripts.Close()
			}
			return nil, fmt.Errorf("content: %w", err)
		}
	}

	logger.Info("content loaded",
		zap.String("dir", cfg.Content.Dir),
		zap.Int("moves", len(catalog.Moves())),
		zap.Int("effects", len(catalog.Effects())),
		zap.Int("items", len(catalog.Items())),
		zap.Int("fighters", len(r.IDs())),
		zap.Int("domains", len(domains)),
	)
	return &Bundle{
		Catalog: catalog,
		Roster:  r,
		AIs:     reg,
		Domains: domains,
		Scripts: scripts,
		stats:   cfg.Battle,
	}, nil
}

// loadScripts loads every subdirectory of cfg.ScriptDir as a scope named after
// it; "global" becomes the fallback scope.
func loadScripts(cfg config.AIConfig, roller *dice.Roller, logger *zap.Logger) (*scripting.Manager, error) {
	if cfg.ScriptDir == "" || !exists(cfg.ScriptDir) {
		return nil, nil
	}
	entries, err := os.ReadDir(cfg.ScriptDir)
	if err != nil {
		return nil, fmt.Errorf("reading script dir %q: %w", cfg.ScriptDir, err)
	}
	mgr := scripting.NewManager(roller, logger)
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		dir := filepath.Join(cfg.ScriptDir, e.Name())
		if e.Name() == globalScriptDir {
			err = mgr.LoadGlobal(dir, cfg.ScriptInstructionLimit)
		} else {
			err = mgr.LoadScope(e.Name(), dir, cfg.ScriptInstructionLimit)
		}
		if err != nil {
			mgr.Close()
			return nil, err
		}
	}
	return mgr, nil
}

// Fighter builds a fresh fighter from the template matching query.
func (b *Bundle) Fighter(query string, player combat.Decider) (*combat.Fighter, error) {
	return b.Roster.Build(query, roster.Deps{
		Catalog: b.Catalog,
		Stats:   b.stats.Stats,
		AIs:     b.AIs,
		Player:  player,
	})
}

// Validate cross-checks the bundle: every fighter template builds, and every
// move a planner action names exists in the catalog.
//
// Postcondition: returns every problem found joined into one error, or nil.
func (b *Bundle) Validate() error {
	var errs []error
	for _, id := range b.Roster.IDs() {
		if _, err := b.Fighter(id, validationPlayer{}); err != nil {
			errs = append(errs, err)
		}
	}
	for _, d := range b.Domains {
		for _, a := range d.Actions {
			for _, name := range a.Moves {
				if _, ok := b.Catalog.Move(name); !ok {
					errs = append(errs, fmt.Errorf("content: domain %q action %q: unknown move %q", d.ID, a.ID, name))
				}
			}
		}
	}
	return errors.Join(errs...)
}

// Close releases the script VMs.
func (b *Bundle) Close() {
	if b.Scripts != nil {
		b.Scripts.Close()
	}
}

func exists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}

// validationPlayer stands in for a console player while templates are checked.
type validationPlayer struct{}

func (validationPlayer) SelectMove(_, _ *combat.Fighter) (*move.Move, error) {
	return move.None, nil
}

func (validationPlayer) SelectCounter(_, _ *combat.Fighter, _ *move.Move) (move.Counter, error) {
	return move.CounterNone, nil
}
