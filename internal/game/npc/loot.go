package npc

import (
	"fmt"

	"github.com/cory-johannsen/skirmish/internal/game/dice"
)

// CurrencyDrop defines the range of currency an enemy can drop on death.
type CurrencyDrop struct {
	Min int `yaml:"min"`
	Max int `yaml:"max"`
}

// ItemDrop defines a single catalog item in a loot table with a drop chance.
type ItemDrop struct {
	ItemID string  `yaml:"item"`
	Chance float64 `yaml:"chance"`
}

// LootTable defines the possible loot drops for an enemy template.
type LootTable struct {
	Currency *CurrencyDrop `yaml:"currency"`
	Items    []ItemDrop    `yaml:"items"`
}

// Validate checks that the loot table satisfies its invariants.
//
// Precondition: lt must not be nil.
// Postcondition: Returns nil iff all currency and item constraints hold;
// an empty loot table (no currency, no items) is valid.
func (lt *LootTable) Validate() error {
	if lt.Currency != nil {
		if lt.Currency.Min < 0 {
			return fmt.Errorf("loot table: currency min must be >= 0, got %d", lt.Currency.Min)
		}
		if lt.Currency.Min > lt.Currency.Max {
			return fmt.Errorf("loot table: currency min (%d) must be <= max (%d)", lt.Currency.Min, lt.Currency.Max)
		}
	}
	for i, item := range lt.Items {
		if item.ItemID == "" {
			return fmt.Errorf("loot table: item[%d] must have a non-empty item id", i)
		}
		if item.Chance <= 0 || item.Chance > 1.0 {
			return fmt.Errorf("loot table: item[%d] chance must be in (0, 1.0], got %f", i, item.Chance)
		}
	}
	return nil
}

// LootResult holds the generated loot from a single kill.
type LootResult struct {
	Currency int
	ItemIDs  []string
}

// Empty reports whether the kill dropped nothing.
func (r LootResult) Empty() bool {
	return r.Currency == 0 && len(r.ItemIDs) == 0
}

// GenerateLoot rolls loot from lt using src.
//
// Precondition: lt must have passed Validate(); src must be non-nil.
// Postcondition: Currency is in [Currency.Min, Currency.Max] if currency is set;
// ItemIDs lists each item that passed its chance roll, in table order.
func GenerateLoot(lt LootTable, src dice.Source) LootResult {
	var result LootResult

	if lt.Currency != nil && lt.Currency.Max > 0 {
		result.Currency = int(dice.Between(src, float64(lt.Currency.Min), float64(lt.Currency.Max)))
	}

	for _, item := range lt.Items {
		if dice.Chance(src, item.Chance*100) {
			result.ItemIDs = append(result.ItemIDs, item.ItemID)
		}
	}

	return result
}
