package combat_test

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/skirmish/internal/game/combat"
	"github.com/cory-johannsen/skirmish/internal/game/inventory"
	"github.com/cory-johannsen/skirmish/internal/game/stats"
)

func newEntity(id string, base stats.Base, sched *combat.Scheduler) *combat.Entity {
	return combat.NewEntity(id, id, base, stats.DefaultTuning(), combat.DefaultEntityConfig(), sched)
}

func TestNewEntity_FullPools(t *testing.T) {
	e := newEntity("p", stats.PlayerBase(), combat.NewScheduler())
	assert.Equal(t, 175.0, e.HP())
	assert.Equal(t, 90.0, e.Stamina())
	assert.Equal(t, 70.0, e.Magicka())
	assert.False(t, e.IsDead())
}

func TestNewEntity_PanicsOnEmptyID(t *testing.T) {
	assert.Panics(t, func() { newEntity("", stats.PlayerBase(), combat.NewScheduler()) })
}

func TestTakeDamage_FloorIsOne(t *testing.T) {
	e := newEntity("p", stats.PlayerBase(), combat.NewScheduler())
	require.Equal(t, 10.0, e.Derived().PhysicalResist)
	assert.Equal(t, 1.0, e.TakeDamage(5, combat.Physical, 0))
	assert.Equal(t, 174.0, e.HP())
}

func TestTakeDamage_UsesMatchingResist(t *testing.T) {
	base := stats.PlayerBase()
	base.MagicalResist = 2
	e := newEntity("p", base, combat.NewScheduler())
	assert.Equal(t, 8.0, e.TakeDamage(10, combat.Magical, 0))
}

func TestTakeDamage_InvulnerabilityWindow(t *testing.T) {
	sched := combat.NewScheduler()
	e := newEntity("p", stats.PlayerBase(), sched)

	first := e.TakeDamage(30, combat.Physical, 0)
	assert.Equal(t, 20.0, first)
	assert.True(t, e.IsInvulnerable())

	sched.Advance(499 * time.Millisecond)
	assert.Zero(t, e.TakeDamage(30, combat.Physical, 0))
	assert.Equal(t, 155.0, e.HP())

	sched.Advance(time.Millisecond)
	assert.False(t, e.IsInvulnerable())
	assert.Equal(t, 20.0, e.TakeDamage(30, combat.Physical, 0))
}

func TestApplyHit_KnockbackAwayFromAttacker(t *testing.T) {
	sched := combat.NewScheduler()
	e := newEntity("p", stats.PlayerBase(), sched)
	e.SetPosition(combat.Vec{X: 100})

	res := e.ApplyHit(30, combat.Physical, 50)
	assert.Equal(t, combat.Knockback{Direction: 1, Distance: 15}, res.Knockback)
	assert.Equal(t, 115.0, e.Position().X)

	sched.Advance(time.Second)
	res = e.ApplyHit(30, combat.Physical, 200)
	assert.Equal(t, -1, res.Knockback.Direction)
	assert.Equal(t, 100.0, e.Position().X)
}

func TestTakeDamage_ClampsAtZeroAndDies(t *testing.T) {
	sched := combat.NewScheduler()
	e := newEntity("e", stats.EnemyBase(), sched)
	var deaths []string
	e.OnDeath(func(d *combat.Entity) { deaths = append(deaths, d.ID()) })

	res := e.ApplyHit(1000, combat.Physical, 0)
	assert.True(t, res.Killed)
	assert.Equal(t, 995.0, res.Applied, "effective damage is not clamped to remaining HP")
	assert.Equal(t, 75.0, res.HPLost)
	assert.Zero(t, e.HP())
	assert.True(t, e.IsDead())
	assert.Equal(t, []string{"e"}, deaths)

	assert.Zero(t, e.TakeDamage(1000, combat.Physical, 0), "dead is terminal")
	assert.Equal(t, []string{"e"}, deaths, "observers fire once")
	assert.Zero(t, e.Heal(50))
}

func TestTakeDamage_OverkillReturnsEffectiveDamage(t *testing.T) {
	sched := combat.NewScheduler()
	e := newEntity("e", stats.EnemyBase(), sched)
	require.Equal(t, 75.0, e.HP())
	require.Equal(t, 5.0, e.Derived().PhysicalResist)

	assert.Equal(t, 70.0, e.TakeDamage(75, combat.Physical, 0))
	require.Equal(t, 5.0, e.HP())

	sched.Advance(500 * time.Millisecond)
	assert.Equal(t, 95.0, e.TakeDamage(100, combat.Physical, 0))
	assert.Zero(t, e.HP())
	assert.True(t, e.IsDead())
}

func TestApplyHit_Property_AppliedIsMitigatedAmount(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		sched := combat.NewScheduler()
		e := newEntity("e", stats.EnemyBase(), sched)
		resist := e.Derived().PhysicalResist
		for !e.IsDead() {
			amount := rapid.Float64Range(0, 200).Draw(rt, "amount")
			before := e.HP()
			res := e.ApplyHit(amount, combat.Physical, 0)
			want := math.Max(1, amount-resist)
			if res.Applied != want {
				rt.Fatalf("applied %v, want %v", res.Applied, want)
			}
			if res.HPLost != math.Min(want, before) {
				rt.Fatalf("hp lost %v, want %v", res.HPLost, math.Min(want, before))
			}
			sched.Advance(500 * time.Millisecond)
		}
	})
}

func TestDeath_CancelsOwnedTimers(t *testing.T) {
	sched := combat.NewScheduler()
	e := newEntity("e", stats.EnemyBase(), sched)
	fired := false
	e.Schedule(time.Second, func() { fired = true })
	e.TakeDamage(10, combat.Physical, 0)
	require.Equal(t, 2, e.PendingTimers())

	sched.Advance(600 * time.Millisecond)
	e.TakeDamage(1000, combat.Physical, 0)
	require.True(t, e.IsDead())
	assert.Zero(t, e.PendingTimers())
	assert.Zero(t, sched.Pending())

	sched.Advance(time.Hour)
	assert.False(t, fired)
	assert.Nil(t, e.Schedule(time.Second, func() {}), "dead entities cannot schedule")
}

func TestHeal_ClampedToMax(t *testing.T) {
	sched := combat.NewScheduler()
	e := newEntity("p", stats.PlayerBase(), sched)
	e.TakeDamage(30, combat.Physical, 0)
	assert.Equal(t, 20.0, e.Heal(100))
	assert.Equal(t, e.Derived().MaxHP, e.HP())
}

func TestRegenerate_PerSecond(t *testing.T) {
	sched := combat.NewScheduler()
	e := newEntity("p", stats.PlayerBase(), sched)
	e.TakeDamage(30, combat.Physical, 0)
	e.Regenerate(10 * time.Second)
	assert.InDelta(t, 161.0, e.HP(), 1e-9)
	e.Regenerate(time.Hour)
	assert.Equal(t, 175.0, e.HP())
}

func TestRecompute_ClampsPoolsToNewMax(t *testing.T) {
	e := newEntity("p", stats.PlayerBase(), combat.NewScheduler())
	eq := inventory.NewInventory(4).Equipped()
	eq[inventory.SlotBodyOuter] = &inventory.Item{ID: "plate", Stats: map[inventory.StatKey]float64{inventory.StatHP: 50}}

	e.Recompute(stats.ComputeGearStats(eq))
	assert.Equal(t, 225.0, e.Derived().MaxHP)
	assert.Equal(t, 175.0, e.HP(), "equipping does not heal")

	e.Recompute(stats.ZeroGear())
	assert.Equal(t, 175.0, e.HP())
}

func TestAttackContext_UsesWeaponArcAndRange(t *testing.T) {
	e := newEntity("p", stats.PlayerBase(), combat.NewScheduler())
	eq := inventory.NewInventory(4).Equipped()
	eq[inventory.SlotPrimary] = &inventory.Item{ID: "axe", ItemType: inventory.ItemWeapon, ArcType: inventory.ArcWide}
	e.Recompute(stats.ComputeGearStats(eq))
	e.SetPosition(combat.Vec{X: 3, Y: 4})

	ctx := e.AttackContext(1.0)
	assert.Equal(t, inventory.ArcWide, ctx.Arc)
	assert.Equal(t, 70.0, ctx.Range)
	assert.Equal(t, combat.Vec{X: 3, Y: 4}, ctx.Origin)
}

func TestTakeDamage_Property_HPNeverNegative(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		sched := combat.NewScheduler()
		e := newEntity("e", stats.EnemyBase(), sched)
		for i := 0; i < 20; i++ {
			amount := rapid.Float64Range(0, 200).Draw(rt, "amount")
			applied := e.TakeDamage(amount, combat.Physical, 0)
			if applied != 0 && applied < 1 && e.HP() > 0 {
				rt.Fatalf("applied %v below floor", applied)
			}
			if e.HP() < 0 || e.HP() > e.Derived().MaxHP {
				rt.Fatalf("hp %v out of bounds", e.HP())
			}
			sched.Advance(time.Duration(rapid.IntRange(0, 1000).Draw(rt, "dt")) * time.Millisecond)
		}
	})
}
