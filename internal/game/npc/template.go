// Package npc provides enemy template definitions, loot tables and the
// spawner that turns templates into live registered enemies.
package npc

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/skirmish/internal/game/combat"
	"github.com/cory-johannsen/skirmish/internal/game/stats"
)

// Template defines a reusable enemy archetype loaded from YAML.
type Template struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	// Stats overrides the built-in enemy profile when set.
	Stats *stats.Base `yaml:"stats"`
	// Profile names a base stat profile to use when Stats is unset.
	Profile     string  `yaml:"profile"`
	AggroRadius float64 `yaml:"aggro_radius"`
	LeashFactor float64 `yaml:"leash_factor"`
	MoveSpeed   float64 `yaml:"move_speed"`
	Width       float64 `yaml:"width"`
	Height      float64 `yaml:"height"`
	// RespawnDelay is the duration string (e.g. "30s") before a dead enemy of
	// this template respawns at its spawn point. Empty means no respawn.
	RespawnDelay string     `yaml:"respawn_delay"`
	Loot         *LootTable `yaml:"loot"`
}

// Validate checks that the template satisfies basic invariants.
//
// Precondition: t must not be nil.
// Postcondition: Returns nil iff ID and Name are non-empty, every distance and
// speed is non-negative, LeashFactor is 0 or >= 1, and RespawnDelay and Loot
// are well formed; returns an error on the first violation otherwise.
func (t *Template) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("npc template: id must not be empty")
	}
	if t.Name == "" {
		return fmt.Errorf("npc template %q: name must not be empty", t.ID)
	}
	if t.AggroRadius < 0 || t.MoveSpeed < 0 || t.Width < 0 || t.Height < 0 {
		return fmt.Errorf("npc template %q: aggro_radius, move_speed, width and height must be >= 0", t.ID)
	}
	if t.LeashFactor != 0 && t.LeashFactor < 1 {
		return fmt.Errorf("npc template %q: leash_factor must be >= 1, got %v", t.ID, t.LeashFactor)
	}
	if t.Stats != nil {
		if err := t.Stats.Validate(); err != nil {
			return fmt.Errorf("npc template %q: %w", t.ID, err)
		}
	}
	if t.RespawnDelay != "" {
		if _, err := time.ParseDuration(t.RespawnDelay); err != nil {
			return fmt.Errorf("npc template %q: respawn_delay %q is not a valid duration: %w", t.ID, t.RespawnDelay, err)
		}
	}
	if t.Loot != nil {
		if err := t.Loot.Validate(); err != nil {
			return fmt.Errorf("npc template %q: %w", t.ID, err)
		}
	}
	return nil
}

// Base resolves the template's stats: explicit Stats first, then the named
// profile from profiles, then the built-in enemy profile.
func (t *Template) Base(profiles map[string]stats.Base) stats.Base {
	if t.Stats != nil {
		return *t.Stats
	}
	if b, ok := profiles[t.Profile]; ok && t.Profile != "" {
		return b
	}
	return stats.EnemyBase()
}

// EnemyConfig overlays the template's non-zero aggression fields on defaults.
func (t *Template) EnemyConfig(defaults combat.EnemyConfig) combat.EnemyConfig {
	cfg := defaults
	if t.AggroRadius > 0 {
		cfg.AggroRadius = t.AggroRadius
	}
	if t.LeashFactor > 0 {
		cfg.LeashFactor = t.LeashFactor
	}
	if t.MoveSpeed > 0 {
		cfg.MoveSpeed = t.MoveSpeed
	}
	return cfg
}

// Respawn returns the parsed respawn delay, or 0 when the template does not respawn.
//
// Precondition: t passed Validate.
func (t *Template) Respawn() time.Duration {
	if t.RespawnDelay == "" {
		return 0
	}
	d, _ := time.ParseDuration(t.RespawnDelay)
	return d
}

// LoadTemplateFromBytes parses a single enemy template from raw YAML bytes.
//
// Precondition: data must be valid YAML for a single Template.
// Postcondition: Returns a validated *Template, or an error.
func LoadTemplateFromBytes(data []byte) (*Template, error) {
	var tmpl Template
	if err := yaml.Unmarshal(data, &tmpl); err != nil {
		return nil, fmt.Errorf("parsing template YAML: %w", err)
	}
	if err := tmpl.Validate(); err != nil {
		return nil, err
	}
	return &tmpl, nil
}

// LoadTemplates reads all *.yaml files in dir and returns the parsed templates
// keyed by ID.
//
// Precondition: dir must be a readable directory.
// Postcondition: Returns all templates or an error on the first parse, validate
// or duplicate-id failure; on error, the partial result is discarded.
func LoadTemplates(dir string) (map[string]*Template, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading npc dir %q: %w", dir, err)
	}

	templates := make(map[string]*Template)
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", path, err)
		}

		tmpl, err := LoadTemplateFromBytes(data)
		if err != nil {
			return nil, fmt.Errorf("loading %q: %w", path, err)
		}
		if _, dup := templates[tmpl.ID]; dup {
			return nil, fmt.Errorf("loading %q: duplicate template id %q", path, tmpl.ID)
		}
		templates[tmpl.ID] = tmpl
	}
	return templates, nil
}
