package stats

import (
	"math"

	"github.com/cory-johannsen/skirmish/internal/game/inventory"
)

// Tuning holds the scaling constants of the derived-stat formulas.
type Tuning struct {
	HPPerVitality       float64 `mapstructure:"hp_per_vitality"`
	StaminaPerEndurance float64 `mapstructure:"stamina_per_endurance"`
	MagickaPerInt       float64 `mapstructure:"magicka_per_int"`
	RegenBase           float64 `mapstructure:"regen_base"`
	RegenPerStat        float64 `mapstructure:"regen_per_stat"`
	PhysDmgPerStr       float64 `mapstructure:"phys_dmg_per_str"`
	RangedDmgPerDex     float64 `mapstructure:"ranged_dmg_per_dex"`
	MagDmgPerInt        float64 `mapstructure:"mag_dmg_per_int"`
	BaseAttackSpeed     float64 `mapstructure:"base_attack_speed"`
	AttackSpeedPerDex   float64 `mapstructure:"attack_speed_per_dex"`
	AttackSpeedFloor    float64 `mapstructure:"attack_speed_floor"`
	CritChancePerDex    float64 `mapstructure:"crit_chance_per_dex"`
	CritChanceCap       float64 `mapstructure:"crit_chance_cap"`
	BaseCritDamage      float64 `mapstructure:"base_crit_damage"`
	CritDamagePerStr    float64 `mapstructure:"crit_damage_per_str"`
	AccuracyPerDex      float64 `mapstructure:"accuracy_per_dex"`
	BaseMoveSpeed       float64 `mapstructure:"base_move_speed"`
	MoveSpeedPerDex     float64 `mapstructure:"move_speed_per_dex"`
	DodgeCap            float64 `mapstructure:"dodge_cap"`
}

// DefaultTuning returns the shipped scaling constants.
func DefaultTuning() Tuning {
	return Tuning{
		HPPerVitality:       15,
		StaminaPerEndurance: 8,
		MagickaPerInt:       10,
		RegenBase:           0.1,
		RegenPerStat:        0.1,
		PhysDmgPerStr:       0.1,
		RangedDmgPerDex:     0.1,
		MagDmgPerInt:        0.1,
		BaseAttackSpeed:     1000,
		AttackSpeedPerDex:   0.5,
		AttackSpeedFloor:    300,
		CritChancePerDex:    0.5,
		CritChanceCap:       100,
		BaseCritDamage:      1.5,
		CritDamagePerStr:    0.02,
		AccuracyPerDex:      0.3,
		BaseMoveSpeed:       3.0,
		MoveSpeedPerDex:     0.05,
		DodgeCap:            75,
	}
}

// Derived is the final set of combat numbers for one entity.
type Derived struct {
	MaxHP          float64
	MaxStamina     float64
	MaxMagicka     float64
	HealthRegen    float64
	StaminaRegen   float64
	MagickaRegen   float64
	PhysicalResist float64
	MagicalResist  float64
	PhysicalDamage float64
	MagicalDamage  float64
	MinDamage      float64
	MaxDamage      float64
	// AttackSpeed is the attack cooldown in milliseconds.
	AttackSpeed float64
	// CritChance is a percentage in [0, 100].
	CritChance float64
	// CritDamage is the damage multiplier applied on a critical hit.
	CritDamage  float64
	Accuracy    float64
	MoveSpeed   float64
	AttackRange float64
	// DodgeChance is a percentage in [0, DodgeCap].
	DodgeChance float64
	RangeType   inventory.RangeType
	ArcType     inventory.ArcType
}

// ComputeDerivedStats applies the scaling formulas in t to base and gear.
//
// Postcondition: AttackSpeed >= t.AttackSpeedFloor; CritChance <= t.CritChanceCap;
// DodgeChance <= t.DodgeCap. The result depends only on the arguments.
func ComputeDerivedStats(base Base, gear Gear, t Tuning) Derived {
	rangeType := gear.RangeType
	if rangeType == "" {
		rangeType = inventory.RangeMelee
	}
	arc := gear.ArcType
	if arc == "" {
		arc = inventory.ArcStab
	}

	physScaling := base.Strength * t.PhysDmgPerStr
	if rangeType == inventory.RangeRanged {
		physScaling = base.Dexterity * t.RangedDmgPerDex
	}

	return Derived{
		MaxHP:          base.HP + base.Vitality*t.HPPerVitality + gear.Get(inventory.StatHP),
		MaxStamina:     base.Stamina + base.Endurance*t.StaminaPerEndurance + gear.Get(inventory.StatStamina),
		MaxMagicka:     base.Magicka + base.Intelligence*t.MagickaPerInt + gear.Get(inventory.StatMagicka),
		HealthRegen:    t.RegenBase + base.Vitality*t.RegenPerStat,
		StaminaRegen:   t.RegenBase + base.Endurance*t.RegenPerStat,
		MagickaRegen:   t.RegenBase + base.Intelligence*t.RegenPerStat,
		PhysicalResist: base.PhysicalResist + gear.Get(inventory.StatPhysicalResist),
		MagicalResist:  base.MagicalResist + gear.Get(inventory.StatMagicalResist),
		PhysicalDamage: base.PhysicalDamage + gear.Get(inventory.StatPhysicalDamage) + physScaling,
		MagicalDamage:  base.MagicalDamage + gear.Get(inventory.StatMagicalDamage) + base.Intelligence*t.MagDmgPerInt,
		MinDamage:      gear.Get(inventory.StatMinDamage),
		MaxDamage:      gear.Get(inventory.StatMaxDamage),
		AttackSpeed: math.Max(
			t.BaseAttackSpeed-base.Dexterity*t.AttackSpeedPerDex-gear.Get(inventory.StatAttackSpeedBonus),
			t.AttackSpeedFloor,
		),
		CritChance:  math.Min(base.Dexterity*t.CritChancePerDex+gear.Get(inventory.StatCritChanceBonus), t.CritChanceCap),
		CritDamage:  t.BaseCritDamage + base.Strength*t.CritDamagePerStr,
		Accuracy:    base.Dexterity*t.AccuracyPerDex + gear.Get(inventory.StatAccuracyBonus),
		MoveSpeed:   t.BaseMoveSpeed + base.Dexterity*t.MoveSpeedPerDex + gear.Get(inventory.StatMoveSpeedBonus),
		AttackRange: base.AttackRange,
		DodgeChance: math.Min(base.Dexterity, t.DodgeCap),
		RangeType:   rangeType,
		ArcType:     arc,
	}
}
