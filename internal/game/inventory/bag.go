package inventory

import (
	"fmt"
	"sort"
)

// DefaultCapacity is the number of bag slots a session starts with.
const DefaultCapacity = 24

// BagEntry pairs a bag slot number with the item stored in it.
type BagEntry struct {
	Slot int
	Item *Item
}

// EquippedSnapshot is a copy of the equipped map. Every EquipSlot is present
// as a key; empty slots map to nil.
type EquippedSnapshot map[EquipSlot]*Item

// Count returns the number of occupied equip slots.
func (s EquippedSnapshot) Count() int {
	n := 0
	for _, item := range s {
		if item != nil {
			n++
		}
	}
	return n
}

// Inventory is the bag and equipment store for one player session.
//
// Invariant: every item id is held in at most one of {bag, equipped}.
// Invariant: free slots and occupied slots partition {1..Capacity()}.
// Invariant: every EquipSlot is a key of the equipped map.
//
// Inventory is not safe for concurrent use; a session mutates it from its
// tick only.
type Inventory struct {
	capacity int
	bag      map[int]*Item
	// bagIDs maps an item id in the bag to its slot; it is also the bag's dupe-check set.
	bagIDs      map[string]int
	free        map[int]struct{}
	equipped    map[EquipSlot]*Item
	equippedIDs map[string]struct{}
}

// NewInventory returns an empty Inventory with the given number of bag slots.
//
// Precondition: capacity > 0; values <= 0 fall back to DefaultCapacity.
// Postcondition: Count() == 0; FreeSlots() == [1..capacity]; every equip slot is empty.
func NewInventory(capacity int) *Inventory {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	inv := &Inventory{
		capacity:    capacity,
		bag:         make(map[int]*Item, capacity),
		bagIDs:      make(map[string]int, capacity),
		free:        make(map[int]struct{}, capacity),
		equipped:    make(map[EquipSlot]*Item, len(EquipSlots)),
		equippedIDs: make(map[string]struct{}, len(EquipSlots)),
	}
	for slot := 1; slot <= capacity; slot++ {
		inv.free[slot] = struct{}{}
	}
	for _, slot := range EquipSlots {
		inv.equipped[slot] = nil
	}
	return inv
}

// Capacity returns the number of bag slots.
func (inv *Inventory) Capacity() int { return inv.capacity }

// Count returns the number of items in the bag.
func (inv *Inventory) Count() int { return len(inv.bag) }

// IsFull reports whether every bag slot is occupied.
func (inv *Inventory) IsFull() bool { return len(inv.bag) >= inv.capacity }

// InBag reports whether an item with id is in the bag.
func (inv *Inventory) InBag(id string) bool {
	_, ok := inv.bagIDs[id]
	return ok
}

// IsEquipped reports whether an item with id is equipped.
func (inv *Inventory) IsEquipped(id string) bool {
	_, ok := inv.equippedIDs[id]
	return ok
}

// Holds reports whether an item with id is in the bag or equipped.
func (inv *Inventory) Holds(id string) bool {
	return inv.InBag(id) || inv.IsEquipped(id)
}

// SlotOf returns the bag slot holding id.
func (inv *Inventory) SlotOf(id string) (int, bool) {
	slot, ok := inv.bagIDs[id]
	return slot, ok
}

// ItemAt returns the item in bag slot, if any.
func (inv *Inventory) ItemAt(slot int) (*Item, bool) {
	item, ok := inv.bag[slot]
	return item, ok
}

// FreeSlots returns the unused bag slot numbers in ascending order.
//
// Postcondition: len(result) + Count() == Capacity().
func (inv *Inventory) FreeSlots() []int {
	out := make([]int, 0, len(inv.free))
	for slot := range inv.free {
		out = append(out, slot)
	}
	sort.Ints(out)
	return out
}

// BagItems returns the bag contents ordered by slot.
//
// Postcondition: returned slice is a copy.
func (inv *Inventory) BagItems() []BagEntry {
	out := make([]BagEntry, 0, len(inv.bag))
	for slot, item := range inv.bag {
		out = append(out, BagEntry{Slot: slot, Item: item})
	}
	sort.Slice(out, func(a, b int) bool { return out[a].Slot < out[b].Slot })
	return out
}

// Equipped returns a snapshot of the equipped map.
//
// Postcondition: every EquipSlot is a key; mutating the result does not affect the store.
func (inv *Inventory) Equipped() EquippedSnapshot {
	out := make(EquippedSnapshot, len(inv.equipped))
	for slot, item := range inv.equipped {
		out[slot] = item
	}
	return out
}

// EquippedIn returns the item worn in slot, or nil when empty or unknown.
func (inv *Inventory) EquippedIn(slot EquipSlot) *Item {
	return inv.equipped[slot]
}

// AddItem places item in the lowest-numbered free slot. It reports false and
// leaves the store unchanged when the bag is full or the id is already held.
func (inv *Inventory) AddItem(item *Item) bool {
	return inv.TryAdd(item) == nil
}

// TryAdd is AddItem with the failure reason.
//
// Precondition: item must not be nil.
// Postcondition: on success the item occupies the lowest free slot; on error
// the store is unchanged and the error wraps ErrCapacity or ErrDuplicate.
func (inv *Inventory) TryAdd(item *Item) error {
	if item == nil {
		return fmt.Errorf("add: nil item: %w", ErrAbsent)
	}
	if inv.IsFull() {
		return fmt.Errorf("add %q: %w", item.ID, ErrCapacity)
	}
	if inv.InBag(item.ID) {
		return fmt.Errorf("add %q: in bag: %w", item.ID, ErrDuplicate)
	}
	if inv.IsEquipped(item.ID) {
		return fmt.Errorf("add %q: equipped: %w", item.ID, ErrDuplicate)
	}
	inv.placeInBag(item)
	return nil
}

// RemoveItem takes item out of the bag and frees its slot. It reports false
// when the bag is empty or the id is not in the bag.
func (inv *Inventory) RemoveItem(item *Item) bool {
	return inv.TryRemove(item) == nil
}

// TryRemove is RemoveItem with the failure reason.
//
// Postcondition: on success the item's slot is free again; on error the store
// is unchanged and the error wraps ErrAbsent.
func (inv *Inventory) TryRemove(item *Item) error {
	if item == nil {
		return fmt.Errorf("remove: nil item: %w", ErrAbsent)
	}
	if len(inv.bag) == 0 {
		return fmt.Errorf("remove %q: bag is empty: %w", item.ID, ErrAbsent)
	}
	slot, ok := inv.bagIDs[item.ID]
	if !ok {
		return fmt.Errorf("remove %q: %w", item.ID, ErrAbsent)
	}
	inv.takeFromBag(item.ID, slot)
	return nil
}

// Equip moves item from the bag into its equip slot. It reports false and
// leaves the store unchanged on any failure.
func (inv *Inventory) Equip(item *Item) bool {
	return inv.TryEquip(item) == nil
}

// TryEquip is Equip with the failure reason.
//
// A displaced item in the target slot returns to the bag after the incoming
// item's slot is freed, so a swap always has a destination. Equipping a
// two-handed weapon evicts the secondary slot into the bag; when no bag slot
// would remain for the evicted item the whole equip is refused.
//
// Precondition: item must not be nil.
// Postcondition: on success item is equipped and the bag count changed by 0
// (swap) or -1 (fresh equip), +1 for an evicted offhand; on error the store is
// unchanged.
func (inv *Inventory) TryEquip(item *Item) error {
	if item == nil {
		return fmt.Errorf("equip: nil item: %w", ErrAbsent)
	}
	if len(inv.bag) == 0 {
		return fmt.Errorf("equip %q: bag is empty: %w", item.ID, ErrAbsent)
	}
	incoming, ok := inv.bagIDs[item.ID]
	if !ok {
		return fmt.Errorf("equip %q: %w", item.ID, ErrAbsent)
	}
	target := item.EquipSlot
	if _, known := inv.equipped[target]; !known {
		return fmt.Errorf("equip %q into %q: %w", item.ID, target, ErrUnknownSlot)
	}
	if target == SlotSecondary {
		if primary := inv.equipped[SlotPrimary]; primary != nil && primary.IsTwoHanded() {
			return fmt.Errorf("equip %q: primary %q is two-handed: %w", item.ID, primary.ID, ErrSlotConflict)
		}
	}

	displaced := inv.equipped[target]
	var evicted *Item
	if target == SlotPrimary && item.IsTwoHanded() {
		evicted = inv.equipped[SlotSecondary]
	}
	if evicted != nil {
		after := len(inv.bag) - 1
		if displaced != nil {
			after++
		}
		if after >= inv.capacity {
			return fmt.Errorf("equip %q: no bag slot for offhand %q: %w: %w", item.ID, evicted.ID, ErrAtomicity, ErrCapacity)
		}
	}

	inv.takeFromBag(item.ID, incoming)
	if displaced != nil {
		delete(inv.equippedIDs, displaced.ID)
		inv.placeInBag(displaced)
	}
	inv.equipped[target] = item
	inv.equippedIDs[item.ID] = struct{}{}

	if evicted != nil {
		inv.equipped[SlotSecondary] = nil
		delete(inv.equippedIDs, evicted.ID)
		inv.placeInBag(evicted)
	}
	return nil
}

// Unequip moves the item worn in slot back into the bag. It reports false
// when the slot is empty or the bag is full; the item then stays equipped.
func (inv *Inventory) Unequip(slot EquipSlot) bool {
	return inv.TryUnequip(slot) == nil
}

// TryUnequip is Unequip with the failure reason.
//
// Postcondition: on success the item occupies the lowest free bag slot and
// slot is empty; on error the store is unchanged.
func (inv *Inventory) TryUnequip(slot EquipSlot) error {
	item, known := inv.equipped[slot]
	if !known {
		return fmt.Errorf("unequip %q: %w", slot, ErrUnknownSlot)
	}
	if item == nil {
		return fmt.Errorf("unequip %q: %w", slot, ErrEmptySlot)
	}
	if inv.IsFull() {
		return fmt.Errorf("unequip %q: %w", slot, ErrCapacity)
	}
	inv.equipped[slot] = nil
	delete(inv.equippedIDs, item.ID)
	inv.placeInBag(item)
	return nil
}

// lowestFree returns the smallest free slot number.
func (inv *Inventory) lowestFree() (int, bool) {
	for slot := 1; slot <= inv.capacity; slot++ {
		if _, ok := inv.free[slot]; ok {
			return slot, true
		}
	}
	return 0, false
}

// placeInBag stores item in the lowest free slot.
//
// Precondition: the bag is not full and item.ID is not held.
func (inv *Inventory) placeInBag(item *Item) {
	slot, ok := inv.lowestFree()
	if !ok {
		panic(fmt.Sprintf("inventory: placeInBag(%q) with no free slot", item.ID))
	}
	delete(inv.free, slot)
	inv.bag[slot] = item
	inv.bagIDs[item.ID] = slot
}

func (inv *Inventory) takeFromBag(id string, slot int) {
	delete(inv.bag, slot)
	delete(inv.bagIDs, id)
	inv.free[slot] = struct{}{}
}
