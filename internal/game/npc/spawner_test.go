package npc_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cory-johannsen/skirmish/internal/game/combat"
	"github.com/cory-johannsen/skirmish/internal/game/dice"
	"github.com/cory-johannsen/skirmish/internal/game/npc"
	"github.com/cory-johannsen/skirmish/internal/game/stats"
)

func newSpawner(templates map[string]*npc.Template) (*npc.Spawner, *combat.Scheduler, *combat.Registry) {
	sched := combat.NewScheduler()
	reg := combat.NewRegistry()
	sp := npc.NewSpawner(npc.SpawnerConfig{
		Templates: templates,
		Tuning:    stats.DefaultTuning(),
		Entity:    combat.DefaultEntityConfig(),
		Enemy:     combat.DefaultEnemyConfig(),
		Scheduler: sched,
		Registry:  reg,
		Source:    dice.NewSeededSource(1),
		Logger:    zap.NewNop(),
	})
	return sp, sched, reg
}

func TestSpawner_SpawnRegistersEnemy(t *testing.T) {
	sp, _, reg := newSpawner(map[string]*npc.Template{
		"dummy": {ID: "dummy", Name: "Dummy", Width: 20, Height: 30, AggroRadius: 150},
	})
	en, err := sp.Spawn("dummy", combat.Vec{X: 10, Y: 20})
	require.NoError(t, err)
	assert.NotEmpty(t, en.ID())
	assert.Equal(t, "Dummy", en.Name())
	assert.Equal(t, combat.Rect{Center: combat.Vec{X: 10, Y: 20}, Width: 20, Height: 30}, en.Hitbox())
	assert.Equal(t, 150.0, en.Config().AggroRadius)
	got, ok := reg.Get(en.ID())
	require.True(t, ok)
	assert.Same(t, en, got)

	_, err = sp.Spawn("ghost", combat.Vec{})
	assert.Error(t, err)
}

func TestSpawner_RespawnsNewEntityAfterDelay(t *testing.T) {
	sp, sched, reg := newSpawner(map[string]*npc.Template{
		"dummy": {ID: "dummy", Name: "Dummy", RespawnDelay: "5s", Loot: &npc.LootTable{Currency: &npc.CurrencyDrop{Min: 3, Max: 3}}},
	})
	var kills []npc.LootResult
	sp.OnKill(func(_ *combat.Enemy, _ *npc.Template, loot npc.LootResult) { kills = append(kills, loot) })

	first, err := sp.Spawn("dummy", combat.Vec{X: 100})
	require.NoError(t, err)
	first.TakeDamage(1000, combat.Physical, 0)
	require.Len(t, kills, 1)
	assert.Equal(t, 3, kills[0].Currency)
	assert.Zero(t, reg.Len())
	assert.Equal(t, 1, sp.PendingRespawns())

	sched.Advance(4 * time.Second)
	assert.Zero(t, reg.Len())
	sched.Advance(time.Second)
	require.Equal(t, 1, reg.Len())
	second := reg.Living()[0]
	assert.NotEqual(t, first.ID(), second.ID())
	assert.Equal(t, combat.Vec{X: 100}, second.Position())
	assert.True(t, first.IsDead(), "the dead entity stays dead")
	assert.Zero(t, sp.PendingRespawns())
}

func TestSpawner_StopCancelsPendingRespawns(t *testing.T) {
	sp, sched, reg := newSpawner(map[string]*npc.Template{
		"dummy": {ID: "dummy", Name: "Dummy", RespawnDelay: "1s"},
	})
	en, err := sp.Spawn("dummy", combat.Vec{})
	require.NoError(t, err)
	en.TakeDamage(1000, combat.Physical, 0)
	require.Equal(t, 1, sp.PendingRespawns())

	sp.Stop()
	assert.Zero(t, sp.PendingRespawns())
	sched.Advance(time.Minute)
	assert.Zero(t, reg.Len())
	_, err = sp.Spawn("dummy", combat.Vec{})
	assert.Error(t, err)
}
