package combat

import (
	"time"
)

// AggroState is the enemy aggression sub-state layered on the alive state.
type AggroState int

const (
	AggroIdle AggroState = iota
	AggroChase
	AggroDead
)

// String returns a human-readable state label.
func (s AggroState) String() string {
	switch s {
	case AggroIdle:
		return "idle"
	case AggroChase:
		return "chase"
	case AggroDead:
		return "dead"
	default:
		return "unknown"
	}
}

// EnemyConfig holds the aggression tuning of an enemy archetype.
type EnemyConfig struct {
	// AggroRadius is the distance under which an idle enemy starts chasing.
	AggroRadius float64
	// LeashFactor scales AggroRadius into the distance beyond which a chase is abandoned.
	LeashFactor float64
	// MoveSpeed is the chase speed in world units per second.
	MoveSpeed float64
}

// DefaultEnemyConfig returns aggro radius 200, leash factor 1.5 and move speed 60.
func DefaultEnemyConfig() EnemyConfig {
	return EnemyConfig{AggroRadius: 200, LeashFactor: 1.5, MoveSpeed: 60}
}

// Target is what an enemy chases and attacks.
type Target interface {
	Position() Vec
	IsDead() bool
	ApplyHit(amount float64, kind DamageType, attackerX float64) DamageResult
}

// Decision is the result of one enemy update.
type Decision struct {
	State AggroState
	// Velocity is the desired movement in world units per second.
	Velocity Vec
	// Attacked is true when the enemy swung at its target this update.
	Attacked bool
	Hit      DamageResult
}

// Enemy is an Entity with an aggression state machine.
type Enemy struct {
	*Entity
	cfg      EnemyConfig
	state    AggroState
	cooldown *Timer
}

// NewEnemy wraps e with aggression behavior.
//
// Precondition: e must be non-nil and alive.
// Postcondition: State() == AggroIdle.
func NewEnemy(e *Entity, cfg EnemyConfig) *Enemy {
	en := &Enemy{Entity: e, cfg: cfg, state: AggroIdle}
	e.OnDeath(func(*Entity) {
		en.state = AggroDead
		en.cooldown = nil
	})
	return en
}

// State returns the current aggression state.
func (en *Enemy) State() AggroState { return en.state }

// Config returns the enemy's aggression tuning.
func (en *Enemy) Config() EnemyConfig { return en.cfg }

// CoolingDown reports whether the attack cooldown is running.
func (en *Enemy) CoolingDown() bool { return en.cooldown.Active() }

// Update advances the aggression state machine against target.
//
//	idle  -> chase when the target is closer than AggroRadius
//	chase -> idle  when the target is farther than LeashFactor*AggroRadius
//
// While chasing within attack range the enemy stops and attacks once per
// AttackSpeed milliseconds; otherwise it moves towards the target at MoveSpeed.
func (en *Enemy) Update(target Target) Decision {
	if en.dead {
		return Decision{State: AggroDead}
	}
	if target == nil || target.IsDead() {
		en.state = AggroIdle
		return Decision{State: AggroIdle}
	}

	tp := target.Position()
	dist := en.pos.DistanceTo(tp)
	switch en.state {
	case AggroIdle:
		if dist < en.cfg.AggroRadius {
			en.state = AggroChase
		}
	case AggroChase:
		if dist > en.cfg.AggroRadius*en.cfg.LeashFactor {
			en.state = AggroIdle
		}
	}
	if en.state != AggroChase {
		return Decision{State: en.state}
	}

	if dist < en.derived.AttackRange {
		d := Decision{State: AggroChase}
		if !en.cooldown.Active() {
			d.Attacked = true
			d.Hit = target.ApplyHit(en.derived.PhysicalDamage, Physical, en.pos.X)
			cd := time.Duration(en.derived.AttackSpeed * float64(time.Millisecond))
			en.cooldown = en.Schedule(cd, func() {})
		}
		return d
	}

	var v Vec
	if dist > 0 {
		v = tp.Sub(en.pos).Scale(en.cfg.MoveSpeed / dist)
	}
	return Decision{State: AggroChase, Velocity: v}
}
