// Package stats turns base character stats and equipped gear into the derived
// numbers combat resolution consumes. Every function is pure.
package stats

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Base holds the innate stats of a character or enemy archetype.
type Base struct {
	Strength       float64 `yaml:"strength"`
	Dexterity      float64 `yaml:"dexterity"`
	Intelligence   float64 `yaml:"intelligence"`
	Vitality       float64 `yaml:"vitality"`
	Endurance      float64 `yaml:"endurance"`
	HP             float64 `yaml:"hp"`
	Stamina        float64 `yaml:"stamina"`
	Magicka        float64 `yaml:"magicka"`
	PhysicalResist float64 `yaml:"physical_resist"`
	MagicalResist  float64 `yaml:"magical_resist"`
	PhysicalDamage float64 `yaml:"physical_damage"`
	MagicalDamage  float64 `yaml:"magical_damage"`
	AttackRange    float64 `yaml:"attack_range"`
}

// PlayerBase returns the built-in player profile.
func PlayerBase() Base {
	return Base{
		Strength:       5,
		Dexterity:      5,
		Intelligence:   5,
		Vitality:       5,
		Endurance:      5,
		HP:             100,
		Stamina:        50,
		Magicka:        20,
		PhysicalResist: 10,
		MagicalResist:  10,
		PhysicalDamage: 20,
		AttackRange:    70,
	}
}

// EnemyBase returns the built-in profile for a basic enemy.
func EnemyBase() Base {
	return Base{
		Strength:       3,
		Dexterity:      3,
		Intelligence:   1,
		Vitality:       3,
		Endurance:      3,
		HP:             30,
		Stamina:        30,
		PhysicalResist: 5,
		MagicalResist:  5,
		PhysicalDamage: 3,
		AttackRange:    40,
	}
}

// Validate reports every negative field.
//
// Postcondition: returns nil iff all fields are >= 0.
func (b Base) Validate() error {
	fields := []struct {
		name string
		v    float64
	}{
		{"strength", b.Strength},
		{"dexterity", b.Dexterity},
		{"intelligence", b.Intelligence},
		{"vitality", b.Vitality},
		{"endurance", b.Endurance},
		{"hp", b.HP},
		{"stamina", b.Stamina},
		{"magicka", b.Magicka},
		{"physical_resist", b.PhysicalResist},
		{"magical_resist", b.MagicalResist},
		{"physical_damage", b.PhysicalDamage},
		{"magical_damage", b.MagicalDamage},
		{"attack_range", b.AttackRange},
	}
	var errs []error
	for _, f := range fields {
		if f.v < 0 {
			errs = append(errs, fmt.Errorf("%s must be non-negative; got %v", f.name, f.v))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("base stats validation failed: %v", errs)
	}
	return nil
}

// Profile is a named Base stat block loaded from YAML.
type Profile struct {
	ID   string `yaml:"id"`
	Base `yaml:",inline"`
}

// LoadProfiles reads every *.yaml/*.yml file in dir as a single Profile and
// returns them keyed by ID.
//
// Precondition: dir is a readable directory path.
// Postcondition: every returned profile has a unique non-empty ID and valid stats.
func LoadProfiles(dir string) (map[string]Base, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("LoadProfiles: cannot read directory %q: %w", dir, err)
	}
	out := make(map[string]Base)
	for _, entry := range entries {
		ext := filepath.Ext(entry.Name())
		if entry.IsDir() || (ext != ".yaml" && ext != ".yml") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("LoadProfiles: cannot read file %q: %w", path, err)
		}
		var p Profile
		if err := yaml.Unmarshal(data, &p); err != nil {
			return nil, fmt.Errorf("LoadProfiles: cannot parse file %q: %w", path, err)
		}
		if p.ID == "" {
			return nil, fmt.Errorf("LoadProfiles: %q: %w", path, errors.New("id must not be empty"))
		}
		if _, dup := out[p.ID]; dup {
			return nil, fmt.Errorf("LoadProfiles: %q: duplicate profile id %q", path, p.ID)
		}
		if err := p.Base.Validate(); err != nil {
			return nil, fmt.Errorf("LoadProfiles: profile %q: %w", p.ID, err)
		}
		out[p.ID] = p.Base
	}
	return out, nil
}
