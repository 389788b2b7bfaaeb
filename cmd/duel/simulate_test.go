package main

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cory-johannsen/duel/internal/config"
	"github.com/cory-johannsen/duel/internal/content"
	"github.com/cory-johannsen/duel/internal/game/combat"
	"github.com/cory-johannsen/duel/internal/game/dice"
	"github.com/cory-johannsen/duel/internal/game/narration"
)

func testSetup(t *testing.T) (config.Config, *content.Bundle) {
	t.Helper()
	cfg, err := config.LoadFromViper(config.Defaults())
	require.NoError(t, err)
	root := filepath.Join("..", "..", "content")
	cfg.Content.Dir = root
	cfg.AI.DomainDir = filepath.Join(root, "ai")
	cfg.AI.ScriptDir = filepath.Join(root, "ai", "scripts")
	cfg.Battle.MaxTurns = 200

	b, err := content.Load(cfg, dice.NewLoggedRoller(dice.NewSeededSource(1), zap.NewNop()), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(b.Close)
	return cfg, b
}

func TestSimulateBattles(t *testing.T) {
	cfg, b := testSetup(t)
	cfg.Duel.FighterA = "swordsman"
	cfg.Duel.FighterB = "footsie_master"
	cfg.Simulation.Battles = 12
	cfg.Simulation.Workers = 3
	cfg.Simulation.Seed = 99

	res, err := simulateBattles(context.Background(), cfg, b, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, 12, res.battles)
	wins := 0
	for _, n := range res.wins {
		wins += n
	}
	assert.Equal(t, 12, wins+res.draws)
	assert.Contains(t, res.String(), "12 battles")
}

func TestSimulateBattles_RejectsPlayerTemplates(t *testing.T) {
	cfg, b := testSetup(t)
	cfg.Duel.FighterA = "player"
	cfg.Simulation.Battles = 2
	cfg.Simulation.Workers = 1

	_, err := simulateBattles(context.Background(), cfg, b, zap.NewNop())
	assert.Error(t, err)
}

func TestSimulateBattles_Cancelled(t *testing.T) {
	cfg, b := testSetup(t)
	cfg.Duel.FighterA = "copycat"
	cfg.Duel.FighterB = "sparring_partner"
	cfg.Simulation.Battles = 4
	cfg.Simulation.Workers = 2

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := simulateBattles(ctx, cfg, b, zap.NewNop())
	assert.Error(t, err)
}

func TestTally_String(t *testing.T) {
	a := &combat.Fighter{Name: "Ayla"}
	b := &combat.Fighter{Name: "Brom"}
	tl := &tally{wins: make(map[string]int)}
	tl.add(&combat.Result{Winner: a, Loser: b, Turns: 4})
	tl.add(&combat.Result{Winner: a, Loser: b, Turns: 6})
	tl.add(&combat.Result{Winner: b, Loser: a, Turns: 2})
	tl.add(&combat.Result{Draw: true, Turns: 8})

	out := tl.String()
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "4 battles", lines[0])
	assert.Contains(t, lines[1], "Ayla")
	assert.Contains(t, lines[1], "2 wins (50.0%)")
	assert.Contains(t, lines[2], "Brom")
	assert.Contains(t, lines[3], "draws")
	assert.Contains(t, lines[4], "average length 5.0 turns")
}

func TestDuel_AgainstTrainingDummy(t *testing.T) {
	cfg, b := testSetup(t)
	cfg.Duel.FighterA = "swordsman"
	cfg.Duel.FighterB = "training_dummy"
	rec := &narration.Recorder{}

	res, err := duel(context.Background(), cfg, b, dice.NewLoggedRoller(dice.NewSeededSource(5), zap.NewNop()), rec, nil, zap.NewNop())
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.NotEmpty(t, rec.Texts(narration.KindBattle))
	if !res.Draw {
		assert.Equal(t, "Swordsman", res.Winner.Name)
	}
}
