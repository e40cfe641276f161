package equipment

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/skirmish/internal/game/inventory"
)

// Observer receives the equipped-slot snapshot after each successful transition.
type Observer func(inventory.EquippedSnapshot)

type subscription struct {
	id int
	fn Observer
}

// Coordinator performs every equip, unequip and purchase for one session.
//
// A transition either completes and emits exactly one notification, or fails
// and leaves the inventory untouched with no notification.
type Coordinator struct {
	inv       *inventory.Inventory
	economy   Economy
	logger    *zap.Logger
	observers []subscription
	nextID    int
}

// NewCoordinator creates a Coordinator over inv.
//
// Precondition: inv and logger must be non-nil. economy may be nil, in which case Buy always fails.
func NewCoordinator(inv *inventory.Inventory, economy Economy, logger *zap.Logger) *Coordinator {
	return &Coordinator{inv: inv, economy: economy, logger: logger}
}

// Inventory returns the underlying store for read access. Mutate it only
// through the Coordinator.
func (c *Coordinator) Inventory() *inventory.Inventory { return c.inv }

// Snapshot returns the current equipped slots.
func (c *Coordinator) Snapshot() inventory.EquippedSnapshot { return c.inv.Equipped() }

// Subscribe registers o and returns a function that removes it. Observers are
// called in subscription order.
func (c *Coordinator) Subscribe(o Observer) (unsubscribe func()) {
	c.nextID++
	id := c.nextID
	c.observers = append(c.observers, subscription{id: id, fn: o})
	return func() {
		for i, s := range c.observers {
			if s.id == id {
				c.observers = append(c.observers[:i], c.observers[i+1:]...)
				return
			}
		}
	}
}

// Equip equips item from the bag and reports success.
func (c *Coordinator) Equip(item *inventory.Item) bool { return c.TryEquip(item) == nil }

// TryEquip is Equip with the failure reason.
func (c *Coordinator) TryEquip(item *inventory.Item) error {
	if err := c.inv.TryEquip(item); err != nil {
		c.logger.Debug("equip refused", zap.String("item", itemID(item)), zap.Error(err))
		return fmt.Errorf("equipment: %w", err)
	}
	c.logger.Debug("equipped", zap.String("item", item.ID), zap.String("slot", string(item.EquipSlot)))
	c.notify()
	return nil
}

// Unequip moves the item in slot back to the bag and reports success.
func (c *Coordinator) Unequip(slot inventory.EquipSlot) bool { return c.TryUnequip(slot) == nil }

// TryUnequip is Unequip with the failure reason.
func (c *Coordinator) TryUnequip(slot inventory.EquipSlot) error {
	if err := c.inv.TryUnequip(slot); err != nil {
		c.logger.Debug("unequip refused", zap.String("slot", string(slot)), zap.Error(err))
		return fmt.Errorf("equipment: %w", err)
	}
	c.logger.Debug("unequipped", zap.String("slot", string(slot)))
	c.notify()
	return nil
}

// Buy purchases item into the bag and reports success.
func (c *Coordinator) Buy(item *inventory.Item) bool { return c.TryBuy(item) == nil }

// TryBuy is Buy with the failure reason.
//
// The economy is consulted first; the item is then added to the bag, and the
// price is deducted only when the add succeeded.
//
// Postcondition: on error neither the bag nor the balance changed.
func (c *Coordinator) TryBuy(item *inventory.Item) error {
	if item == nil {
		return fmt.Errorf("equipment: buy: %w", inventory.ErrAbsent)
	}
	if c.economy == nil || !c.economy.CanAfford(item) {
		c.logger.Debug("buy refused", zap.String("item", item.ID), zap.Float64("value", item.Value))
		return fmt.Errorf("equipment: buy %q: %w", item.ID, ErrInsufficientFunds)
	}
	if err := c.inv.TryAdd(item); err != nil {
		c.logger.Debug("buy refused", zap.String("item", item.ID), zap.Error(err))
		return fmt.Errorf("equipment: buy: %w", err)
	}
	c.economy.Deduct(item.Value)
	c.logger.Debug("bought", zap.String("item", item.ID), zap.Float64("value", item.Value))
	c.notify()
	return nil
}

// Grant adds item to the bag without payment, as for loot. It does not
// change equipped slots and so emits no notification.
func (c *Coordinator) Grant(item *inventory.Item) error {
	if err := c.inv.TryAdd(item); err != nil {
		return fmt.Errorf("equipment: grant: %w", err)
	}
	c.logger.Debug("granted", zap.String("item", item.ID))
	return nil
}

func (c *Coordinator) notify() {
	observers := make([]subscription, len(c.observers))
	copy(observers, c.observers)
	for _, s := range observers {
		s.fn(c.inv.Equipped())
	}
}

func itemID(item *inventory.Item) string {
	if item == nil {
		return ""
	}
	return item.ID
}
