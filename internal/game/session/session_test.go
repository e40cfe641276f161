package session_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cory-johannsen/skirmish/internal/game/combat"
	"github.com/cory-johannsen/skirmish/internal/game/dice"
	"github.com/cory-johannsen/skirmish/internal/game/equipment"
	"github.com/cory-johannsen/skirmish/internal/game/inventory"
	"github.com/cory-johannsen/skirmish/internal/game/npc"
	"github.com/cory-johannsen/skirmish/internal/game/session"
	"github.com/cory-johannsen/skirmish/internal/game/stats"
)

type recordingHooks struct {
	hits     []string
	damage   []float64
	deaths   []string
	equipped []int
}

func (h *recordingHooks) OnHit(id string, damage float64, _ bool) {
	h.hits = append(h.hits, id)
	h.damage = append(h.damage, damage)
}
func (h *recordingHooks) OnDeath(id string)        { h.deaths = append(h.deaths, id) }
func (h *recordingHooks) OnEquipmentChanged(n int) { h.equipped = append(h.equipped, n) }

func testCatalog(t *testing.T) *inventory.Catalog {
	t.Helper()
	c := inventory.NewCatalog()
	for _, it := range []*inventory.Item{
		{ID: "plate", Name: "Plate", EquipSlot: inventory.SlotBodyOuter, ItemType: inventory.ItemArmor, Value: 40,
			Stats: map[inventory.StatKey]float64{inventory.StatHP: 50, inventory.StatPhysicalResist: 5}},
		{ID: "greatsword", Name: "Greatsword", EquipSlot: inventory.SlotPrimary, ItemType: inventory.ItemWeapon,
			HandType: inventory.HandTwo, RangeType: inventory.RangeMelee, ArcType: inventory.ArcWide, Value: 80,
			Stats: map[inventory.StatKey]float64{inventory.StatPhysicalDamage: 100}},
		{ID: "trinket", Name: "Trinket", EquipSlot: inventory.SlotAmulet, ItemType: inventory.ItemArmor, Value: 5},
	} {
		require.NoError(t, c.Register(it))
	}
	return c
}

func newSession(t *testing.T, hooks session.Hooks) *session.Session {
	t.Helper()
	s, err := session.New(session.Config{
		ID:              "s1",
		Capacity:        8,
		StartingBalance: 100,
		PlayerBase:      stats.PlayerBase(),
		Tuning:          stats.DefaultTuning(),
		Entity:          combat.DefaultEntityConfig(),
		Enemy:           combat.DefaultEnemyConfig(),
		Catalog:         testCatalog(t),
		Templates: map[string]*npc.Template{
			"dummy": {ID: "dummy", Name: "Dummy", Loot: &npc.LootTable{
				Currency: &npc.CurrencyDrop{Min: 10, Max: 10},
				Items:    []npc.ItemDrop{{ItemID: "trinket", Chance: 1}},
			}},
		},
		Source:      dice.NewSeededSource(9),
		Hooks:       hooks,
		Logger:      zap.NewNop(),
		EventBuffer: 256,
	})
	require.NoError(t, err)
	t.Cleanup(s.Close)
	return s
}

func drain(s *session.Session) []session.Event {
	var out []session.Event
	for {
		select {
		case ev, ok := <-s.Events():
			if !ok {
				return out
			}
			out = append(out, ev)
		default:
			return out
		}
	}
}

func TestNew_RequiresIDSourceLogger(t *testing.T) {
	_, err := session.New(session.Config{Source: dice.NewSeededSource(1), Logger: zap.NewNop()})
	assert.Error(t, err)
	_, err = session.New(session.Config{ID: "x"})
	assert.Error(t, err)
}

func TestSession_BuyEquipRecomputesStats(t *testing.T) {
	hooks := &recordingHooks{}
	s := newSession(t, hooks)
	require.Equal(t, 175.0, s.Player().Derived().MaxHP)

	require.NoError(t, s.Buy("plate"))
	assert.Equal(t, 60.0, s.Wallet().Balance())
	require.NoError(t, s.Equip("plate"))

	assert.Equal(t, 225.0, s.Player().Derived().MaxHP)
	assert.Equal(t, 15.0, s.Player().Derived().PhysicalResist)
	assert.Equal(t, []int{0, 1}, hooks.equipped)

	require.NoError(t, s.Unequip(inventory.SlotBodyOuter))
	assert.Equal(t, 175.0, s.Player().Derived().MaxHP)

	assert.ErrorIs(t, s.Equip("nope"), session.ErrUnknownItem)
	assert.ErrorIs(t, s.Buy("greatsword"), equipment.ErrInsufficientFunds)

	kinds := map[session.EventKind]int{}
	for _, ev := range drain(s) {
		kinds[ev.Kind]++
	}
	assert.Equal(t, 3, kinds[session.EventEquipmentChanged])
}

func TestSession_AttackKillsGrantsLootAndCoolsDown(t *testing.T) {
	hooks := &recordingHooks{}
	s := newSession(t, hooks)
	require.NoError(t, s.Grant("greatsword"))
	require.NoError(t, s.Equip("greatsword"))

	en, err := s.SpawnEnemy("dummy", combat.Vec{X: 40})
	require.NoError(t, err)

	hits, err := s.PlayerAttack(0)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.True(t, hits[0].Killed)
	assert.True(t, en.IsDead())
	assert.Zero(t, s.Registry().Len())
	assert.Equal(t, []string{en.ID()}, hooks.hits)
	assert.Equal(t, []string{en.ID()}, hooks.deaths)
	assert.Equal(t, 110.0, s.Wallet().Balance())
	assert.True(t, s.Inventory().InBag("trinket"))

	_, err = s.PlayerAttack(0)
	assert.ErrorIs(t, err, session.ErrAttackCooldown)
	s.Tick(time.Second)
	_, err = s.PlayerAttack(0)
	assert.NoError(t, err)

	// the killing blow reports mitigated damage, not the HP that was left
	assert.Greater(t, hits[0].Applied, hits[0].HPLost)
	assert.Equal(t, hits[0].Applied, hooks.damage[0])

	var loot, hit *session.Event
	for _, ev := range drain(s) {
		ev := ev
		switch ev.Kind {
		case session.EventLoot:
			loot = &ev
		case session.EventHit:
			if hit == nil {
				hit = &ev
			}
		}
	}
	require.NotNil(t, loot)
	assert.Equal(t, []string{"trinket"}, loot.Items)
	require.NotNil(t, hit)
	assert.Equal(t, hits[0].Applied, hit.Amount)
}

func TestSession_TickEnemyChasesAndAttacks(t *testing.T) {
	hooks := &recordingHooks{}
	s := newSession(t, hooks)
	en, err := s.SpawnEnemy("dummy", combat.Vec{X: 100})
	require.NoError(t, err)

	s.Tick(100 * time.Millisecond)
	assert.Equal(t, combat.AggroChase, en.State())
	assert.InDelta(t, 94.0, en.Position().X, 1e-9)

	for i := 0; i < 30 && len(hooks.hits) == 0; i++ {
		s.Tick(100 * time.Millisecond)
	}
	require.NotEmpty(t, hooks.hits)
	assert.Equal(t, s.Player().ID(), hooks.hits[0])
	assert.Less(t, s.Player().HP(), 175.0)
}

func TestSession_PlayerDeathStopsAttacks(t *testing.T) {
	hooks := &recordingHooks{}
	s := newSession(t, hooks)
	s.Player().TakeDamage(10000, combat.Physical, 0)
	_, err := s.PlayerAttack(0)
	assert.ErrorIs(t, err, session.ErrPlayerDead)
	assert.Equal(t, []string{s.Player().ID()}, hooks.deaths)
}

func TestSession_CloseIsIdempotentAndRefusesWork(t *testing.T) {
	s := newSession(t, nil)
	s.Close()
	s.Close()
	_, err := s.SpawnEnemy("dummy", combat.Vec{})
	assert.ErrorIs(t, err, session.ErrClosed)
	assert.ErrorIs(t, s.Buy("plate"), session.ErrClosed)
	_, err = s.PlayerAttack(0)
	assert.ErrorIs(t, err, session.ErrClosed)
	_, ok := <-s.Events()
	assert.False(t, ok)
}
