package equipment_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/skirmish/internal/game/equipment"
	"github.com/cory-johannsen/skirmish/internal/game/inventory"
)

func TestWallet_CanAffordAndDeduct(t *testing.T) {
	w := equipment.NewWallet(50)
	item := &inventory.Item{ID: "x", Value: 50}
	assert.True(t, w.CanAfford(item))
	w.Deduct(20)
	assert.Equal(t, 30.0, w.Balance())
	assert.False(t, w.CanAfford(item))
	assert.False(t, w.CanAfford(nil))

	w.Credit(-5)
	assert.Equal(t, 30.0, w.Balance())
	w.Credit(20)
	assert.True(t, w.CanAfford(item))

	assert.Zero(t, equipment.NewWallet(-10).Balance())
}

func TestWallet_BuyThroughCoordinator(t *testing.T) {
	w := equipment.NewWallet(25)
	c := equipment.NewCoordinator(inventory.NewInventory(2), w, zap.NewNop())
	cheap := &inventory.Item{ID: "cheap", Value: 10}
	pricey := &inventory.Item{ID: "pricey", Value: 100}

	assert.True(t, c.Buy(cheap))
	assert.Equal(t, 15.0, w.Balance())
	assert.False(t, c.Buy(pricey))
	assert.Equal(t, 15.0, w.Balance())
}

func TestWallet_Property_BalanceNeverNegative(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		w := equipment.NewWallet(rapid.Float64Range(0, 1000).Draw(rt, "start"))
		for i := 0; i < 20; i++ {
			if rapid.Bool().Draw(rt, "credit") {
				w.Credit(rapid.Float64Range(-100, 100).Draw(rt, "amount"))
			} else {
				w.Deduct(rapid.Float64Range(0, 500).Draw(rt, "amount"))
			}
			if w.Balance() < 0 {
				rt.Fatalf("balance went negative: %v", w.Balance())
			}
		}
	})
}
