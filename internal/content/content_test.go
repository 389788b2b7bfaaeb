package content_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/cory-johannsen/duel/internal/config"
	"github.com/cory-johannsen/duel/internal/content"
	"github.com/cory-johannsen/duel/internal/game/combat"
	"github.com/cory-johannsen/duel/internal/game/dice"
	"github.com/cory-johannsen/duel/internal/game/move"
	"github.com/cory-johannsen/duel/internal/game/stat"
)

func repoConfig(t *testing.T) config.Config {
	t.Helper()
	cfg, err := config.LoadFromViper(config.Defaults())
	require.NoError(t, err)
	root := filepath.Join("..", "..", "content")
	cfg.Content.Dir = root
	cfg.AI.DomainDir = filepath.Join(root, "ai")
	cfg.AI.ScriptDir = filepath.Join(root, "ai", "scripts")
	return cfg
}

func roller() *dice.Roller {
	return dice.NewLoggedRoller(dice.NewSeededSource(3), zap.NewNop())
}

type idlePlayer struct{}

func (idlePlayer) SelectMove(_, _ *combat.Fighter) (*move.Move, error) { return move.None, nil }
func (idlePlayer) SelectCounter(_, _ *combat.Fighter, _ *move.Move) (move.Counter, error) {
	return move.CounterNone, nil
}

func TestLoad_ShippedContentIsValid(t *testing.T) {
	b, err := content.Load(repoConfig(t), roller(), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(b.Close)

	require.NoError(t, b.Validate())
	assert.Contains(t, b.Roster.IDs(), "player")
	assert.Contains(t, b.Roster.IDs(), "sparring_partner")
	_, ok := b.AIs.DomainFor("footsies")
	assert.True(t, ok)
	require.NotNil(t, b.Scripts)
	assert.Equal(t, []string{"footsies"}, b.Scripts.Scopes())

	for _, name := range []string{"Second Wind", "Rend", "Sword Thrust", "Sword Slash", "Punch"} {
		_, ok := b.Catalog.Move(name)
		assert.True(t, ok, name)
	}
	_, ok = b.Catalog.Effect("Bleeding")
	assert.True(t, ok)
}

func TestLoad_FootsiesHooksAreCallable(t *testing.T) {
	b, err := content.Load(repoConfig(t), roller(), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(b.Close)

	ret, err := b.Scripts.CallHook("footsies", "bait_weight", lua.LNumber(1), lua.LNumber(1), lua.LNumber(0.1), lua.LNumber(2))
	require.NoError(t, err)
	assert.Equal(t, lua.LNumber(8), ret)

	ret, err = b.Scripts.CallHook("footsies", "poke_weight", lua.LNumber(1), lua.LNumber(1), lua.LNumber(0.25), lua.LNumber(6))
	require.NoError(t, err)
	assert.Equal(t, lua.LNumber(3), ret)
}

func TestBundle_Fighter(t *testing.T) {
	b, err := content.Load(repoConfig(t), roller(), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(b.Close)

	p, err := b.Fighter("Player", idlePlayer{})
	require.NoError(t, err)
	assert.True(t, p.IsPlayer())
	assert.Equal(t, 2, p.Inventory.Count("Potion"))

	s, err := b.Fighter("swordsman", nil)
	require.NoError(t, err)
	assert.NotNil(t, s.AI)

	_, err = b.Fighter("player", nil)
	assert.Error(t, err, "a player template needs a player")
}

func TestLoad_MissingOptionalDirs(t *testing.T) {
	cfg := repoConfig(t)
	cfg.AI.DomainDir = filepath.Join(t.TempDir(), "none")
	cfg.AI.ScriptDir = ""
	b, err := content.Load(cfg, roller(), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(b.Close)

	assert.Nil(t, b.Scripts)
	assert.Empty(t, b.Domains)
	assert.Error(t, b.Validate(), "the footsies fighter cannot be built without its domain")
}

func TestLoad_Errors(t *testing.T) {
	cfg := repoConfig(t)
	cfg.Content.Dir = filepath.Join(t.TempDir(), "missing")
	_, err := content.Load(cfg, roller(), zap.NewNop())
	assert.Error(t, err)

	cfg = repoConfig(t)
	scripts := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(scripts, "footsies"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(scripts, "footsies", "bad.lua"), []byte("not lua @@"), 0644))
	cfg.AI.ScriptDir = scripts
	_, err = content.Load(cfg, roller(), zap.NewNop())
	assert.Error(t, err)
}

func TestBundle_Validate_ReportsUnknownDomainMoves(t *testing.T) {
	cfg := repoConfig(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "footsies.yaml"), []byte(`domain:
  id: footsies
  goal: {target_has_died: true}
  actions:
    - id: poke
      effects: {target_has_died: true}
      cost: 1
      moves: [Shoryuken]
`), 0644))
	cfg.AI.DomainDir = dir
	b, err := content.Load(cfg, roller(), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(b.Close)
	assert.ErrorContains(t, b.Validate(), `unknown move "Shoryuken"`)
}

func TestShippedDazed_OutlivesTheHoldersTurn(t *testing.T) {
	b, err := content.Load(repoConfig(t), roller(), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(b.Close)

	dazed, ok := b.Catalog.Effect("Dazed")
	require.True(t, ok)
	require.True(t, dazed.NoCounter)

	sender, err := combat.NewFighter(combat.FighterConfig{Name: "Ayla", Stats: stat.Defaults()})
	require.NoError(t, err)
	holder, err := combat.NewFighter(combat.FighterConfig{Name: "Brom", Stats: stat.Defaults()})
	require.NoError(t, err)
	env := combat.NewEnvironment(config.DefaultBattle(), roller(), nil, zap.NewNop())
	require.NoError(t, env.Enter(context.Background(), sender, holder))
	t.Cleanup(func() { _ = env.Exit(context.Background()) })

	holder.ReceiveEffect(dazed, sender.Name)
	holder.TickEffects()
	assert.True(t, holder.Effects.NoCounter(), "still dazed when the sender moves next")
	holder.TickEffects()
	assert.False(t, holder.Effects.NoCounter())
}
