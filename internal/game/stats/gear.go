package stats

import "github.com/cory-johannsen/skirmish/internal/game/inventory"

// Gear is the summed stat contribution of every equipped item.
type Gear struct {
	values    map[inventory.StatKey]float64
	RangeType inventory.RangeType
	// ArcType is the swing arc of the primary weapon; unarmed swings stab.
	ArcType inventory.ArcType
}

// ZeroGear returns the gear of an empty equipment map: every stat 0, melee, stab.
func ZeroGear() Gear {
	g := Gear{
		values:    make(map[inventory.StatKey]float64, len(inventory.StatKeys)),
		RangeType: inventory.RangeMelee,
		ArcType:   inventory.ArcStab,
	}
	for _, k := range inventory.StatKeys {
		g.values[k] = 0
	}
	return g
}

// Get returns the summed value for key; unknown keys read as 0.
func (g Gear) Get(key inventory.StatKey) float64 {
	return g.values[key]
}

// ComputeGearStats sums the stats of every item in equipped over a zero
// template. Keys outside the whitelist are ignored. Range and arc come only
// from the primary slot.
//
// Postcondition: equipped is not modified; a nil or empty map yields ZeroGear().
func ComputeGearStats(equipped inventory.EquippedSnapshot) Gear {
	g := ZeroGear()
	for _, slot := range inventory.EquipSlots {
		item := equipped[slot]
		if item == nil {
			continue
		}
		for key, v := range item.Stats {
			if _, known := g.values[key]; known {
				g.values[key] += v
			}
		}
	}
	if primary := equipped[inventory.SlotPrimary]; primary != nil {
		if primary.RangeType != "" {
			g.RangeType = primary.RangeType
		}
		if primary.ArcType != "" {
			g.ArcType = primary.ArcType
		}
	}
	return g
}
