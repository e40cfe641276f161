package combat_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/skirmish/internal/game/combat"
	"github.com/cory-johannsen/skirmish/internal/game/stats"
)

func newEnemy(id string, sched *combat.Scheduler) *combat.Enemy {
	return combat.NewEnemy(newEntity(id, stats.EnemyBase(), sched), combat.DefaultEnemyConfig())
}

func TestEnemy_AggroTransitions(t *testing.T) {
	sched := combat.NewScheduler()
	en := newEnemy("e1", sched)
	player := newEntity("p", stats.PlayerBase(), sched)

	player.SetPosition(combat.Vec{X: 250})
	d := en.Update(player)
	assert.Equal(t, combat.AggroIdle, d.State)
	assert.Equal(t, combat.Vec{}, d.Velocity)

	player.SetPosition(combat.Vec{X: 150})
	d = en.Update(player)
	assert.Equal(t, combat.AggroChase, d.State)
	assert.InDelta(t, 60.0, d.Velocity.X, 1e-9)
	assert.InDelta(t, 0.0, d.Velocity.Y, 1e-9)

	// Between aggro radius and leash distance the chase continues.
	player.SetPosition(combat.Vec{X: 280})
	assert.Equal(t, combat.AggroChase, en.Update(player).State)

	player.SetPosition(combat.Vec{X: 301})
	assert.Equal(t, combat.AggroIdle, en.Update(player).State)

	// Idle does not re-aggro until inside the aggro radius.
	player.SetPosition(combat.Vec{X: 250})
	assert.Equal(t, combat.AggroIdle, en.Update(player).State)
}

func TestEnemy_AttackGatedByCooldown(t *testing.T) {
	sched := combat.NewScheduler()
	en := newEnemy("e1", sched)
	player := newEntity("p", stats.PlayerBase(), sched)

	player.SetPosition(combat.Vec{X: 30})
	d := en.Update(player)
	require.True(t, d.Attacked)
	assert.Equal(t, 1.0, d.Hit.Applied, "3.3 damage against resist 10 floors to 1")
	assert.True(t, en.CoolingDown())

	player.SetPosition(combat.Vec{X: 30})
	sched.Advance(600 * time.Millisecond)
	d = en.Update(player)
	assert.False(t, d.Attacked)
	assert.Equal(t, combat.Vec{}, d.Velocity, "in range: holds position")

	sched.Advance(400 * time.Millisecond)
	assert.False(t, en.CoolingDown())
	d = en.Update(player)
	assert.True(t, d.Attacked)
	assert.Equal(t, 173.0, player.HP())
}

func TestEnemy_DeathStopsEverything(t *testing.T) {
	sched := combat.NewScheduler()
	en := newEnemy("e1", sched)
	player := newEntity("p", stats.PlayerBase(), sched)
	player.SetPosition(combat.Vec{X: 30})
	en.Update(player)
	require.True(t, en.CoolingDown())

	en.TakeDamage(1000, combat.Physical, 0)
	assert.Equal(t, combat.AggroDead, en.State())
	assert.False(t, en.CoolingDown())
	assert.Zero(t, en.PendingTimers())
	assert.Equal(t, 1, sched.Pending(), "only the player's invulnerability timer remains")
	assert.Equal(t, combat.Decision{State: combat.AggroDead}, en.Update(player))
}

func TestEnemy_DeadTargetReturnsToIdle(t *testing.T) {
	sched := combat.NewScheduler()
	en := newEnemy("e1", sched)
	player := newEntity("p", stats.PlayerBase(), sched)
	player.SetPosition(combat.Vec{X: 100})
	require.Equal(t, combat.AggroChase, en.Update(player).State)

	player.TakeDamage(10000, combat.Physical, 0)
	assert.Equal(t, combat.AggroIdle, en.Update(player).State)
	assert.Equal(t, combat.AggroIdle, en.Update(nil).State)
}

func TestAggroState_String(t *testing.T) {
	assert.Equal(t, "idle", combat.AggroIdle.String())
	assert.Equal(t, "chase", combat.AggroChase.String())
	assert.Equal(t, "dead", combat.AggroDead.String())
	assert.Equal(t, "unknown", combat.AggroState(9).String())
}

func TestRegistry_DeathUnregisters(t *testing.T) {
	sched := combat.NewScheduler()
	reg := combat.NewRegistry()
	a, b := newEnemy("a", sched), newEnemy("b", sched)
	require.NoError(t, reg.Register(a))
	require.NoError(t, reg.Register(b))
	assert.Error(t, reg.Register(a), "duplicate id")
	assert.Equal(t, 2, reg.Len())

	a.TakeDamage(1000, combat.Physical, 0)
	assert.Equal(t, 1, reg.Len())
	_, ok := reg.Get("a")
	assert.False(t, ok)
	living := reg.Living()
	require.Len(t, living, 1)
	assert.Equal(t, "b", living[0].ID())

	assert.Error(t, reg.Register(a), "dead enemies cannot register")
	assert.False(t, reg.Unregister("a"))
	assert.True(t, reg.Unregister("b"))
	assert.Empty(t, reg.Entities())
}
