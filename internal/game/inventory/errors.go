package inventory

import "errors"

// Failure taxonomy for store transitions. Every Try* method returns an error
// that wraps exactly one of these (plus ErrCapacity alongside ErrAtomicity),
// so callers can test with errors.Is.
var (
	// ErrCapacity means the bag has no free slot.
	ErrCapacity = errors.New("bag is full")
	// ErrDuplicate means the item id is already in the bag or equipped.
	ErrDuplicate = errors.New("item already held")
	// ErrAbsent means the item is not in the bag.
	ErrAbsent = errors.New("item not in bag")
	// ErrSlotConflict means the slot is locked by a two-handed primary weapon.
	ErrSlotConflict = errors.New("slot locked by two-handed weapon")
	// ErrAtomicity means a multi-step transition could not complete and was not applied.
	ErrAtomicity = errors.New("transition cannot complete atomically")
	// ErrEmptySlot means nothing is equipped in the requested slot.
	ErrEmptySlot = errors.New("equip slot is empty")
	// ErrUnknownSlot means the slot name is not one of EquipSlots.
	ErrUnknownSlot = errors.New("unknown equip slot")
)
