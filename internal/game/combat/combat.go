// Package combat implements real-time melee resolution: arc hit testing,
// damage and resist rules, invulnerability windows, knockback, the entity
// life cycle and enemy aggression.
//
// Everything in this package is driven from a single tick goroutine. Deferred
// work runs on a virtual-time Scheduler advanced by that tick, so no type here
// needs a lock.
package combat

import "time"

// DamageType selects which resist mitigates a hit.
type DamageType int

const (
	Physical DamageType = iota
	Magical
)

// String returns a human-readable damage type label.
func (d DamageType) String() string {
	switch d {
	case Physical:
		return "physical"
	case Magical:
		return "magical"
	default:
		return "unknown"
	}
}

// Knockback describes the push a hit imparts. Direction is +1 (towards +X)
// or -1, and is zero when no knockback applies.
type Knockback struct {
	Direction int
	Distance  float64
}

// DamageResult is the outcome of one hit against an entity.
type DamageResult struct {
	// Applied is the mitigated damage, max(1, amount - resist), reported even
	// when it exceeds the HP left. 0 when the hit was ignored.
	Applied float64
	// HPLost is the HP actually removed, Applied clamped to the HP left.
	HPLost    float64
	Knockback Knockback
	// Killed is true when this hit caused the death transition.
	Killed bool
}

// EntityConfig holds the per-entity combat timing constants.
type EntityConfig struct {
	// Invulnerability is the window after a successful hit during which
	// further hits are ignored.
	Invulnerability time.Duration
	// KnockbackDistance is the fixed knockback magnitude.
	KnockbackDistance float64
}

// DefaultEntityConfig returns a 500ms invulnerability window and a knockback
// distance of 15.
func DefaultEntityConfig() EntityConfig {
	return EntityConfig{
		Invulnerability:   500 * time.Millisecond,
		KnockbackDistance: 15,
	}
}
