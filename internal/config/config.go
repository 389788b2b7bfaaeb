// Package config provides Viper-based configuration loading for the duel engine.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/cory-johannsen/duel/internal/game/stat"
)

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
	// Output is where log lines go: "stderr", "stdout" or a file path.
	Output string `mapstructure:"output"`
}

// BattleConfig holds the percentage multipliers and rules a battle runs with.
// Every percentage defaults to 100, the identity. A BattleConfig is built once
// per battle and never mutated while the battle runs.
type BattleConfig struct {
	ValuesPercent         float64 `mapstructure:"base_values_multiplier_percent"`
	CostsPercent          float64 `mapstructure:"base_costs_multiplier_percent"`
	FailureChancePercent  float64 `mapstructure:"base_failure_chance_percent"`
	CriticalChancePercent float64 `mapstructure:"base_critical_chance_percent"`
	SpeedPercent          float64 `mapstructure:"base_speed_percent"`
	BlockChancePercent    float64 `mapstructure:"base_block_chance_percent"`
	EvadeChancePercent    float64 `mapstructure:"base_evade_chance_percent"`
	EffectChancePercent   float64 `mapstructure:"base_status_effect_chance_percent"`
	EffectValuesPercent   float64 `mapstructure:"base_status_effect_values_percent"`
	RegenRatePercent      float64 `mapstructure:"regen_rate_percent"`

	// Per-stat multipliers keyed by stat key; a missing key means 100.
	ValueStatPercent map[string]float64 `mapstructure:"base_value_stat_multiplier_percent"`
	CostStatPercent  map[string]float64 `mapstructure:"base_cost_stat_multiplier_percent"`
	RateStatPercent  map[string]float64 `mapstructure:"rate_stat_percent"`

	// MaxTurns ends a stalemate as a draw; 0 means unlimited.
	MaxTurns            int        `mapstructure:"max_turns"`
	RandomFirstTurn     bool       `mapstructure:"random_first_turn"`
	StackEffectDuration bool       `mapstructure:"stack_effect_duration"`
	Stats               []stat.Def `mapstructure:"stats"`
	Counters            []string   `mapstructure:"counters"`
}

// DefaultBattle returns the identity BattleConfig with the default stat table.
//
// Postcondition: DefaultBattle().Validate() == nil.
func DefaultBattle() BattleConfig {
	return BattleConfig{
		ValuesPercent:         100,
		CostsPercent:          100,
		FailureChancePercent:  100,
		CriticalChancePercent: 100,
		SpeedPercent:          100,
		BlockChancePercent:    100,
		EvadeChancePercent:    100,
		EffectChancePercent:   100,
		EffectValuesPercent:   100,
		RegenRatePercent:      100,
		MaxTurns:              500,
		StackEffectDuration:   true,
		Stats:                 stat.Defaults(),
		Counters:              []string{"none", "block", "evade"},
	}
}

func statPercent(m map[string]float64, k stat.Key) float64 {
	if v, ok := m[string(k)]; ok {
		return v
	}
	return 100
}

// ValueScale is the factor applied to a sampled move value for stat k.
func (b BattleConfig) ValueScale(k stat.Key) float64 {
	return b.ValuesPercent * statPercent(b.ValueStatPercent, k) / 10000
}

// CostScale is the factor applied to a sampled move cost for stat k.
func (b BattleConfig) CostScale(k stat.Key) float64 {
	return b.CostsPercent * statPercent(b.CostStatPercent, k) / 10000
}

// EffectValueScale is the factor applied to a status effect's per-turn value
// for stat k: the move value scale further multiplied by the effect percentage.
func (b BattleConfig) EffectValueScale(k stat.Key) float64 {
	return b.ValueScale(k) * b.EffectValuesPercent / 100
}

// RateScale is the factor applied to stat k's regeneration rate.
func (b BattleConfig) RateScale(k stat.Key) float64 {
	return b.RegenRatePercent * statPercent(b.RateStatPercent, k) / 10000
}

// StatDef returns the configured definition for k.
func (b BattleConfig) StatDef(k stat.Key) (stat.Def, bool) {
	for _, d := range b.Stats {
		if d.Key == k {
			return d, true
		}
	}
	return stat.Def{}, false
}

// AIConfig holds tuning for the heuristic AIs.
type AIConfig struct {
	// GenericTries is how many random draws the generic AI makes before
	// falling back to the weighted lowest-cost search.
	GenericTries int `mapstructure:"generic_tries"`
	// DesperationExponent steepens the weight of a cost as its stat nears zero.
	DesperationExponent map[string]float64 `mapstructure:"desperation_exponent"`
	// DomainDir holds planner domain YAML files.
	DomainDir string `mapstructure:"domain_dir"`
	// ScriptDir holds Lua weight hooks, one subdirectory per domain ID plus
	// an optional global/ directory. Empty disables scripting.
	ScriptDir string `mapstructure:"script_dir"`
	// ScriptInstructionLimit caps the Lua opcodes of one hook call; 0 uses
	// the scripting default.
	ScriptInstructionLimit int `mapstructure:"script_instruction_limit"`
}

// Exponent returns the desperation exponent for k, defaulting to 2.
func (a AIConfig) Exponent(k stat.Key) float64 {
	if v, ok := a.DesperationExponent[string(k)]; ok {
		return v
	}
	return 2
}

// ContentConfig locates the data catalog.
type ContentConfig struct {
	// Dir holds moves/, effects/, items/ and fighters/ subdirectories.
	Dir string `mapstructure:"dir"`
}

// DuelConfig names the fighter templates a battle is set up with.
type DuelConfig struct {
	FighterA string `mapstructure:"fighter_a"`
	FighterB string `mapstructure:"fighter_b"`
}

// SimulationConfig controls batch simulation runs.
type SimulationConfig struct {
	Battles int `mapstructure:"battles"`
	Workers int `mapstructure:"workers"`
	// Seed seeds every battle's source deterministically; 0 uses crypto randomness.
	Seed uint64 `mapstructure:"seed"`
}

// Config is the top-level application configuration.
type Config struct {
	Logging    LoggingConfig    `mapstructure:"logging"`
	Battle     BattleConfig     `mapstructure:"battle"`
	AI         AIConfig         `mapstructure:"ai"`
	Content    ContentConfig    `mapstructure:"content"`
	Duel       DuelConfig       `mapstructure:"duel"`
	Simulation SimulationConfig `mapstructure:"simulation"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string

	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}
	if err := c.Battle.Validate(); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateAI(c.AI); err != nil {
		errs = append(errs, err.Error())
	}
	if c.Content.Dir == "" {
		errs = append(errs, "content.dir must not be empty")
	}
	if err := validateSimulation(c.Simulation); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	return nil
}

// Validate checks the battle invariants.
//
// Postcondition: nil iff every percentage is >= 0, MaxTurns >= 0, the stat
// table is valid and contains hp, and every counter is none, block or evade.
func (b BattleConfig) Validate() error {
	var errs []string
	for name, v := range map[string]float64{
		"base_values_multiplier_percent":    b.ValuesPercent,
		"base_costs_multiplier_percent":     b.CostsPercent,
		"base_failure_chance_percent":       b.FailureChancePercent,
		"base_critical_chance_percent":      b.CriticalChancePercent,
		"base_speed_percent":                b.SpeedPercent,
		"base_block_chance_percent":         b.BlockChancePercent,
		"base_evade_chance_percent":         b.EvadeChancePercent,
		"base_status_effect_chance_percent": b.EffectChancePercent,
		"base_status_effect_values_percent": b.EffectValuesPercent,
		"regen_rate_percent":                b.RegenRatePercent,
	} {
		if v < 0 {
			errs = append(errs, fmt.Sprintf("battle.%s must be >= 0, got %v", name, v))
		}
	}
	if b.MaxTurns < 0 {
		errs = append(errs, fmt.Sprintf("battle.max_turns must be >= 0, got %d", b.MaxTurns))
	}
	hasHP := false
	for _, d := range b.Stats {
		if err := d.Validate(); err != nil {
			errs = append(errs, "battle.stats: "+err.Error())
		}
		hasHP = hasHP || d.Key == stat.HP
	}
	if !hasHP {
		errs = append(errs, "battle.stats must define hp")
	}
	for _, c := range b.Counters {
		switch c {
		case "none", "block", "evade":
		default:
			errs = append(errs, fmt.Sprintf("battle.counters: %q must be one of [none, block, evade]", c))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateAI(a AIConfig) error {
	var errs []string
	if a.GenericTries < 0 {
		errs = append(errs, fmt.Sprintf("ai.generic_tries must be >= 0, got %d", a.GenericTries))
	}
	if a.ScriptInstructionLimit < 0 {
		errs = append(errs, fmt.Sprintf("ai.script_instruction_limit must be >= 0, got %d", a.ScriptInstructionLimit))
	}
	for k, v := range a.DesperationExponent {
		if v < 0 {
			errs = append(errs, fmt.Sprintf("ai.desperation_exponent.%s must be >= 0, got %v", k, v))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateSimulation(s SimulationConfig) error {
	var errs []string
	if s.Battles < 1 {
		errs = append(errs, fmt.Sprintf("simulation.battles must be >= 1, got %d", s.Battles))
	}
	if s.Workers < 1 {
		errs = append(errs, fmt.Sprintf("simulation.workers must be >= 1, got %d", s.Workers))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

// Load reads configuration from the given file path, applies environment variable
// overrides, and validates the result.
//
// Precondition: path must be a valid file path to a YAML configuration file.
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	// Environment variable overrides with DUEL_ prefix
	v.SetEnvPrefix("DUEL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}
	return LoadFromViper(v)
}

// LoadFromViper builds a Config from an already-configured Viper instance.
// An empty battle.stats table falls back to the default stat table.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if len(cfg.Battle.Stats) == 0 {
		cfg.Battle.Stats = stat.Defaults()
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Defaults returns a Viper instance carrying only the default configuration.
func Defaults() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.output", "stderr")

	d := DefaultBattle()
	v.SetDefault("battle.base_values_multiplier_percent", d.ValuesPercent)
	v.SetDefault("battle.base_costs_multiplier_percent", d.CostsPercent)
	v.SetDefault("battle.base_failure_chance_percent", d.FailureChancePercent)
	v.SetDefault("battle.base_critical_chance_percent", d.CriticalChancePercent)
	v.SetDefault("battle.base_speed_percent", d.SpeedPercent)
	v.SetDefault("battle.base_block_chance_percent", d.BlockChancePercent)
	v.SetDefault("battle.base_evade_chance_percent", d.EvadeChancePercent)
	v.SetDefault("battle.base_status_effect_chance_percent", d.EffectChancePercent)
	v.SetDefault("battle.base_status_effect_values_percent", d.EffectValuesPercent)
	v.SetDefault("battle.regen_rate_percent", d.RegenRatePercent)
	v.SetDefault("battle.max_turns", d.MaxTurns)
	v.SetDefault("battle.random_first_turn", false)
	v.SetDefault("battle.stack_effect_duration", true)
	v.SetDefault("battle.counters", d.Counters)

	v.SetDefault("ai.generic_tries", 10)
	v.SetDefault("ai.desperation_exponent", map[string]float64{"hp": 3, "st": 2, "mp": 2})
	v.SetDefault("ai.domain_dir", "content/ai")
	v.SetDefault("ai.script_dir", "content/ai/scripts")
	v.SetDefault("ai.script_instruction_limit", 0)

	v.SetDefault("content.dir", "content")

	v.SetDefault("duel.fighter_a", "Player")
	v.SetDefault("duel.fighter_b", "Sparring Partner")

	v.SetDefault("simulation.battles", 100)
	v.SetDefault("simulation.workers", 4)
	v.SetDefault("simulation.seed", 0)
}
