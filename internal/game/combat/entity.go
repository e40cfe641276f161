package combat

import (
	"math"
	"time"

	"github.com/cory-johannsen/skirmish/internal/game/stats"
)

// Entity is any damageable participant: the player or an enemy.
//
// Life cycle: alive -> dead on HP reaching 0. Dead is terminal; nothing
// resurrects an Entity.
//
// Invariant: 0 <= HP() <= Derived().MaxHP.
// Invariant: a dead entity owns no pending timers.
type Entity struct {
	id     string
	name   string
	base   stats.Base
	tuning stats.Tuning
	cfg    EntityConfig
	sched  *Scheduler

	derived  stats.Derived
	computed bool
	hp       float64
	stamina  float64
	magicka  float64

	dead         bool
	invulnerable bool

	pos    Vec
	width  float64
	height float64

	timers  map[*Timer]struct{}
	onDeath []func(*Entity)
}

// NewEntity creates a living entity with empty gear and full pools.
//
// Precondition: id must be non-empty; sched must not be nil.
// Postcondition: HP() == Derived().MaxHP; IsDead() == false.
func NewEntity(id, name string, base stats.Base, tuning stats.Tuning, cfg EntityConfig, sched *Scheduler) *Entity {
	if id == "" {
		panic("combat: NewEntity precondition violated: id must be non-empty")
	}
	if sched == nil {
		panic("combat: NewEntity precondition violated: sched must not be nil")
	}
	e := &Entity{
		id:     id,
		name:   name,
		base:   base,
		tuning: tuning,
		cfg:    cfg,
		sched:  sched,
		width:  32,
		height: 48,
		timers: make(map[*Timer]struct{}),
	}
	e.Recompute(stats.ZeroGear())
	return e
}

// ID returns the entity's unique identifier.
func (e *Entity) ID() string { return e.id }

// Name returns the display name.
func (e *Entity) Name() string { return e.name }

// Base returns the innate stats.
func (e *Entity) Base() stats.Base { return e.base }

// Derived returns the current derived stats.
func (e *Entity) Derived() stats.Derived { return e.derived }

// HP returns current hit points.
func (e *Entity) HP() float64 { return e.hp }

// Stamina returns the current stamina pool.
func (e *Entity) Stamina() float64 { return e.stamina }

// Magicka returns the current magicka pool.
func (e *Entity) Magicka() float64 { return e.magicka }

// IsDead reports whether the entity has died.
func (e *Entity) IsDead() bool { return e.dead }

// IsInvulnerable reports whether the post-hit invulnerability window is open.
func (e *Entity) IsInvulnerable() bool { return e.invulnerable }

// Position returns the hitbox center.
func (e *Entity) Position() Vec { return e.pos }

// SetPosition moves the entity to p.
func (e *Entity) SetPosition(p Vec) { e.pos = p }

// SetSize sets the hitbox dimensions.
func (e *Entity) SetSize(width, height float64) {
	e.width, e.height = width, height
}

// Hitbox returns the entity's axis-aligned box at its current position.
func (e *Entity) Hitbox() Rect {
	return Rect{Center: e.pos, Width: e.width, Height: e.height}
}

// Move displaces the entity by velocity (units per second) over dt.
// Dead entities do not move.
func (e *Entity) Move(velocity Vec, dt time.Duration) {
	if e.dead {
		return
	}
	e.pos = e.pos.Add(velocity.Scale(dt.Seconds()))
}

// AttackContext returns a swing from the entity's position using its current
// weapon arc and attack range.
func (e *Entity) AttackContext(facing float64) AttackContext {
	return AttackContext{
		Origin: e.pos,
		Angle:  facing,
		Arc:    e.derived.ArcType,
		Range:  e.derived.AttackRange,
	}
}

// Recompute derives stats from the entity's base and gear. The first compute
// fills every pool; later computes clamp pools to the new maxima.
//
// Postcondition: 0 <= HP() <= Derived().MaxHP.
func (e *Entity) Recompute(gear stats.Gear) {
	e.derived = stats.ComputeDerivedStats(e.base, gear, e.tuning)
	if !e.computed {
		e.computed = true
		e.hp = e.derived.MaxHP
		e.stamina = e.derived.MaxStamina
		e.magicka = e.derived.MaxMagicka
		return
	}
	if e.dead {
		return
	}
	e.hp = math.Min(e.hp, e.derived.MaxHP)
	e.stamina = math.Min(e.stamina, e.derived.MaxStamina)
	e.magicka = math.Min(e.magicka, e.derived.MaxMagicka)
}

// Schedule runs fn after d, owned by this entity. Owned timers are cancelled
// when the entity dies. Returns nil for a dead entity.
//
// Precondition: fn must not be nil.
func (e *Entity) Schedule(d time.Duration, fn func()) *Timer {
	if e.dead {
		return nil
	}
	var t *Timer
	t = e.sched.After(d, func() {
		delete(e.timers, t)
		fn()
	})
	e.timers[t] = struct{}{}
	return t
}

// PendingTimers returns the number of owned timers still pending.
func (e *Entity) PendingTimers() int { return len(e.timers) }

// CancelTimers stops every owned timer.
//
// Postcondition: PendingTimers() == 0.
func (e *Entity) CancelTimers() {
	for t := range e.timers {
		t.Stop()
	}
	clear(e.timers)
}

// OnDeath registers fn to run once, after the entity's timers are cancelled,
// when the entity dies. Observers run in registration order.
func (e *Entity) OnDeath(fn func(*Entity)) {
	e.onDeath = append(e.onDeath, fn)
}

// TakeDamage applies a hit and returns the effective damage, for damage
// numbers. It is 0 when the hit was ignored.
func (e *Entity) TakeDamage(amount float64, kind DamageType, attackerX float64) float64 {
	return e.ApplyHit(amount, kind, attackerX).Applied
}

// ApplyHit applies a hit of amount, mitigated by the resist matching kind.
//
// While dead or invulnerable the hit is ignored and the zero result returned.
// Otherwise the effective damage is max(1, amount - resist), HP is clamped at
// 0, the invulnerability window opens, and the entity is pushed away from
// attackerX. Reaching 0 HP triggers the death transition.
//
// Postcondition: HP() >= 0; result.Applied == 0 iff the hit was ignored.
func (e *Entity) ApplyHit(amount float64, kind DamageType, attackerX float64) DamageResult {
	if e.dead || e.invulnerable {
		return DamageResult{}
	}
	resist := e.derived.PhysicalResist
	if kind == Magical {
		resist = e.derived.MagicalResist
	}
	effective := math.Max(1, amount-resist)
	before := e.hp
	e.hp = math.Max(0, e.hp-effective)

	dir := 1
	if e.pos.X < attackerX {
		dir = -1
	}
	res := DamageResult{
		Applied:   effective,
		HPLost:    before - e.hp,
		Knockback: Knockback{Direction: dir, Distance: e.cfg.KnockbackDistance},
	}

	if e.hp <= 0 {
		res.Killed = true
		res.Knockback = Knockback{}
		e.die()
		return res
	}

	e.pos.X += float64(dir) * e.cfg.KnockbackDistance
	e.invulnerable = true
	e.Schedule(e.cfg.Invulnerability, func() { e.invulnerable = false })
	return res
}

// Heal restores up to amount HP and returns the HP gained. Dead entities
// cannot be healed.
//
// Postcondition: HP() <= Derived().MaxHP.
func (e *Entity) Heal(amount float64) float64 {
	if e.dead || amount <= 0 {
		return 0
	}
	before := e.hp
	e.hp = math.Min(e.hp+amount, e.derived.MaxHP)
	return e.hp - before
}

// Regenerate restores every pool by its per-second regen rate over dt.
func (e *Entity) Regenerate(dt time.Duration) {
	if e.dead || dt <= 0 {
		return
	}
	s := dt.Seconds()
	e.hp = math.Min(e.hp+e.derived.HealthRegen*s, e.derived.MaxHP)
	e.stamina = math.Min(e.stamina+e.derived.StaminaRegen*s, e.derived.MaxStamina)
	e.magicka = math.Min(e.magicka+e.derived.MagickaRegen*s, e.derived.MaxMagicka)
}

// die performs the terminal transition.
func (e *Entity) die() {
	e.dead = true
	e.invulnerable = false
	e.CancelTimers()
	observers := e.onDeath
	e.onDeath = nil
	for _, fn := range observers {
		fn(e)
	}
}
