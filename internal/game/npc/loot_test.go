package npc_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/skirmish/internal/game/dice"
	"github.com/cory-johannsen/skirmish/internal/game/npc"
)

func TestLootTable_Validate(t *testing.T) {
	assert.NoError(t, (&npc.LootTable{}).Validate())
	assert.Error(t, (&npc.LootTable{Currency: &npc.CurrencyDrop{Min: -1, Max: 5}}).Validate())
	assert.Error(t, (&npc.LootTable{Currency: &npc.CurrencyDrop{Min: 6, Max: 5}}).Validate())
	assert.Error(t, (&npc.LootTable{Items: []npc.ItemDrop{{ItemID: "x", Chance: 0}}}).Validate())
	assert.Error(t, (&npc.LootTable{Items: []npc.ItemDrop{{ItemID: "x", Chance: 1.5}}}).Validate())
}

func TestGenerateLoot_CertainDrops(t *testing.T) {
	lt := npc.LootTable{
		Currency: &npc.CurrencyDrop{Min: 7, Max: 7},
		Items:    []npc.ItemDrop{{ItemID: "helm", Chance: 1.0}},
	}
	res := npc.GenerateLoot(lt, dice.NewSeededSource(1))
	assert.Equal(t, 7, res.Currency)
	assert.Equal(t, []string{"helm"}, res.ItemIDs)
	assert.False(t, res.Empty())
	assert.True(t, npc.GenerateLoot(npc.LootTable{}, dice.NewSeededSource(1)).Empty())
}

func TestGenerateLoot_Property_CurrencyInRange(t *testing.T) {
	src := dice.NewSeededSource(3)
	rapid.Check(t, func(rt *rapid.T) {
		lo := rapid.IntRange(0, 100).Draw(rt, "min")
		hi := lo + rapid.IntRange(0, 100).Draw(rt, "spread")
		res := npc.GenerateLoot(npc.LootTable{Currency: &npc.CurrencyDrop{Min: lo, Max: hi}}, src)
		if hi > 0 && (res.Currency < lo || res.Currency > hi) {
			rt.Fatalf("currency %d outside [%d, %d]", res.Currency, lo, hi)
		}
	})
}
