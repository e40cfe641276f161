// Package config provides Viper-based configuration loading for skirmish.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/cory-johannsen/skirmish/internal/game/combat"
	"github.com/cory-johannsen/skirmish/internal/game/stats"
)

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
}

// InventoryConfig holds bag and wallet settings for a new session.
type InventoryConfig struct {
	// Capacity is the number of bag slots.
	Capacity int `mapstructure:"capacity"`
	// StartingBalance is the wallet balance a session starts with.
	StartingBalance float64 `mapstructure:"starting_balance"`
}

// CombatConfig holds the fixed combat constants.
type CombatConfig struct {
	// Invulnerability is the window after a hit during which further hits are ignored.
	Invulnerability time.Duration `mapstructure:"invulnerability"`
	// KnockbackDistance is the knockback magnitude in world units.
	KnockbackDistance float64 `mapstructure:"knockback_distance"`
	// AggroRadius is the default enemy aggression radius.
	AggroRadius float64 `mapstructure:"aggro_radius"`
	// LeashFactor scales AggroRadius into the chase abandonment distance.
	LeashFactor float64 `mapstructure:"leash_factor"`
	// MoveSpeed is the default enemy chase speed in units per second.
	MoveSpeed float64 `mapstructure:"move_speed"`
	// TickInterval is the wall-clock period of the session tick.
	TickInterval time.Duration `mapstructure:"tick_interval"`
}

// Entity returns the entity settings for combat.NewEntity.
func (c CombatConfig) Entity() combat.EntityConfig {
	return combat.EntityConfig{
		Invulnerability:   c.Invulnerability,
		KnockbackDistance: c.KnockbackDistance,
	}
}

// Enemy returns the default enemy settings.
func (c CombatConfig) Enemy() combat.EnemyConfig {
	return combat.EnemyConfig{
		AggroRadius: c.AggroRadius,
		LeashFactor: c.LeashFactor,
		MoveSpeed:   c.MoveSpeed,
	}
}

// ContentConfig locates the data files loaded at startup.
type ContentConfig struct {
	ItemsDir    string `mapstructure:"items_dir"`
	ProfilesDir string `mapstructure:"profiles_dir"`
	NPCsDir     string `mapstructure:"npcs_dir"`
	// ScriptsDir may be empty to disable scripting.
	ScriptsDir string `mapstructure:"scripts_dir"`
	// ScriptInstructionLimit bounds each Lua hook call; 0 selects the scripting default.
	ScriptInstructionLimit int `mapstructure:"script_instruction_limit"`
}

// Config is the top-level application configuration.
type Config struct {
	Logging   LoggingConfig   `mapstructure:"logging"`
	Inventory InventoryConfig `mapstructure:"inventory"`
	Combat    CombatConfig    `mapstructure:"combat"`
	Stats     stats.Tuning    `mapstructure:"stats"`
	Content   ContentConfig   `mapstructure:"content"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string

	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateInventory(c.Inventory); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateCombat(c.Combat); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateStats(c.Stats); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateContent(c.Content); err != nil {
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

func validateInventory(i InventoryConfig) error {
	var errs []string
	if i.Capacity < 1 {
		errs = append(errs, fmt.Sprintf("inventory.capacity must be >= 1, got %d", i.Capacity))
	}
	if i.StartingBalance < 0 {
		errs = append(errs, fmt.Sprintf("inventory.starting_balance must be >= 0, got %v", i.StartingBalance))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateCombat(c CombatConfig) error {
	var errs []string
	if c.Invulnerability < 0 {
		errs = append(errs, "combat.invulnerability must not be negative")
	}
	if c.KnockbackDistance < 0 {
		errs = append(errs, fmt.Sprintf("combat.knockback_distance must be >= 0, got %v", c.KnockbackDistance))
	}
	if c.AggroRadius <= 0 {
		errs = append(errs, fmt.Sprintf("combat.aggro_radius must be > 0, got %v", c.AggroRadius))
	}
	if c.LeashFactor < 1 {
		errs = append(errs, fmt.Sprintf("combat.leash_factor must be >= 1, got %v", c.LeashFactor))
	}
	if c.MoveSpeed < 0 {
		errs = append(errs, fmt.Sprintf("combat.move_speed must be >= 0, got %v", c.MoveSpeed))
	}
	if c.TickInterval <= 0 {
		errs = append(errs, "combat.tick_interval must be positive")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateStats(t stats.Tuning) error {
	var errs []string
	if t.HPPerVitality <= 0 {
		errs = append(errs, fmt.Sprintf("stats.hp_per_vitality must be > 0, got %v", t.HPPerVitality))
	}
	if t.BaseAttackSpeed <= 0 {
		errs = append(errs, fmt.Sprintf("stats.base_attack_speed must be > 0, got %v", t.BaseAttackSpeed))
	}
	if t.AttackSpeedFloor <= 0 || t.AttackSpeedFloor > t.BaseAttackSpeed {
		errs = append(errs, fmt.Sprintf("stats.attack_speed_floor must be in (0, base_attack_speed], got %v", t.AttackSpeedFloor))
	}
	if t.CritChanceCap < 0 || t.CritChanceCap > 100 {
		errs = append(errs, fmt.Sprintf("stats.crit_chance_cap must be 0-100, got %v", t.CritChanceCap))
	}
	if t.DodgeCap < 0 || t.DodgeCap > 100 {
		errs = append(errs, fmt.Sprintf("stats.dodge_cap must be 0-100, got %v", t.DodgeCap))
	}
	if t.BaseCritDamage < 1 {
		errs = append(errs, fmt.Sprintf("stats.base_crit_damage must be >= 1, got %v", t.BaseCritDamage))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateContent(c ContentConfig) error {
	var errs []string
	if c.ItemsDir == "" {
		errs = append(errs, "content.items_dir must not be empty")
	}
	if c.ProfilesDir == "" {
		errs = append(errs, "content.profiles_dir must not be empty")
	}
	if c.NPCsDir == "" {
		errs = append(errs, "content.npcs_dir must not be empty")
	}
	if c.ScriptInstructionLimit < 0 {
		errs = append(errs, fmt.Sprintf("content.script_instruction_limit must be >= 0, got %d", c.ScriptInstructionLimit))
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

// Load reads configuration from the given file path, applies environment variable
// overrides, and validates the result.
//
// Precondition: path must be a valid file path to a YAML configuration file.
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := NewViper()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}
	return LoadFromViper(v)
}

// NewViper returns a Viper instance with defaults and SKIRMISH_ environment
// overrides applied, ready for a config file or flag bindings.
//
// Postcondition: Returns a non-nil *viper.Viper.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("SKIRMISH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("inventory.capacity", 24)
	v.SetDefault("inventory.starting_balance", 100)

	entity := combat.DefaultEntityConfig()
	enemy := combat.DefaultEnemyConfig()
	v.SetDefault("combat.invulnerability", entity.Invulnerability.String())
	v.SetDefault("combat.knockback_distance", entity.KnockbackDistance)
	v.SetDefault("combat.aggro_radius", enemy.AggroRadius)
	v.SetDefault("combat.leash_factor", enemy.LeashFactor)
	v.SetDefault("combat.move_speed", enemy.MoveSpeed)
	v.SetDefault("combat.tick_interval", "50ms")

	t := stats.DefaultTuning()
	v.SetDefault("stats.hp_per_vitality", t.HPPerVitality)
	v.SetDefault("stats.stamina_per_endurance", t.StaminaPerEndurance)
	v.SetDefault("stats.magicka_per_int", t.MagickaPerInt)
	v.SetDefault("stats.regen_base", t.RegenBase)
	v.SetDefault("stats.regen_per_stat", t.RegenPerStat)
	v.SetDefault("stats.phys_dmg_per_str", t.PhysDmgPerStr)
	v.SetDefault("stats.ranged_dmg_per_dex", t.RangedDmgPerDex)
	v.SetDefault("stats.mag_dmg_per_int", t.MagDmgPerInt)
	v.SetDefault("stats.base_attack_speed", t.BaseAttackSpeed)
	v.SetDefault("stats.attack_speed_per_dex", t.AttackSpeedPerDex)
	v.SetDefault("stats.attack_speed_floor", t.AttackSpeedFloor)
	v.SetDefault("stats.crit_chance_per_dex", t.CritChancePerDex)
	v.SetDefault("stats.crit_chance_cap", t.CritChanceCap)
	v.SetDefault("stats.base_crit_damage", t.BaseCritDamage)
	v.SetDefault("stats.crit_damage_per_str", t.CritDamagePerStr)
	v.SetDefault("stats.accuracy_per_dex", t.AccuracyPerDex)
	v.SetDefault("stats.base_move_speed", t.BaseMoveSpeed)
	v.SetDefault("stats.move_speed_per_dex", t.MoveSpeedPerDex)
	v.SetDefault("stats.dodge_cap", t.DodgeCap)

	v.SetDefault("content.items_dir", "content/items")
	v.SetDefault("content.profiles_dir", "content/profiles")
	v.SetDefault("content.npcs_dir", "content/npcs")
	v.SetDefault("content.scripts_dir", "content/scripts")
	v.SetDefault("content.script_instruction_limit", 0)
}
