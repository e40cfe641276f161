package inventory

import (
	"fmt"
	"sort"
	"strings"
)

// Catalog holds every known Item indexed by ID.
type Catalog struct {
	items map[string]*Item
}

// NewCatalog returns an empty Catalog.
//
// Postcondition: Len() == 0.
func NewCatalog() *Catalog {
	return &Catalog{items: make(map[string]*Item)}
}

// Register validates item and adds it to the catalog.
//
// Precondition: item must not be nil.
// Postcondition: Item(item.ID) returns (item, true); returns an error if the
// item is invalid or its ID is already registered.
func (c *Catalog) Register(item *Item) error {
	if err := item.Validate(); err != nil {
		return fmt.Errorf("inventory: Catalog.Register: %w", err)
	}
	if _, exists := c.items[item.ID]; exists {
		return fmt.Errorf("inventory: Catalog.Register: item ID %q already registered", item.ID)
	}
	c.items[item.ID] = item
	return nil
}

// Item returns the Item for id and whether it was found.
func (c *Catalog) Item(id string) (*Item, bool) {
	item, ok := c.items[id]
	return item, ok
}

// Len returns the number of registered items.
func (c *Catalog) Len() int {
	return len(c.items)
}

// All returns every registered item sorted by ID.
func (c *Catalog) All() []*Item {
	out := make([]*Item, 0, len(c.items))
	for _, item := range c.items {
		out = append(out, item)
	}
	sort.Slice(out, func(a, b int) bool { return out[a].ID < out[b].ID })
	return out
}

// BySlot returns every item that equips into slot, sorted by ID.
func (c *Catalog) BySlot(slot EquipSlot) []*Item {
	var out []*Item
	for _, item := range c.All() {
		if item.EquipSlot == slot {
			out = append(out, item)
		}
	}
	return out
}

// ValidateCatalog checks a set of items as a whole: each item must be valid
// and no two items may share an ID.
//
// Postcondition: returns the number of offending entries and an error describing all
// of them, or (0, nil) when the set is clean.
func ValidateCatalog(items []*Item) (int, error) {
	var violations []string
	seen := make(map[string]string, len(items))
	for _, item := range items {
		if item == nil {
			violations = append(violations, "nil item")
			continue
		}
		if first, dup := seen[item.ID]; dup {
			violations = append(violations, fmt.Sprintf("item %q: duplicate id, also used by %q", item.ID, first))
		} else {
			seen[item.ID] = item.Name
		}
		if err := item.Validate(); err != nil {
			violations = append(violations, err.Error())
		}
	}
	if len(violations) > 0 {
		return len(violations), fmt.Errorf("catalog validation failed: %s", strings.Join(violations, "; "))
	}
	return 0, nil
}

// LoadCatalog loads every item in dir and registers it in a new Catalog.
//
// Precondition: dir is a readable directory path.
// Postcondition: returns a Catalog holding every item, or an error naming the
// violations when any item is invalid or duplicated.
func LoadCatalog(dir string) (*Catalog, error) {
	items, err := LoadItems(dir)
	if err != nil {
		return nil, err
	}
	if _, err := ValidateCatalog(items); err != nil {
		return nil, fmt.Errorf("LoadCatalog %q: %w", dir, err)
	}
	c := NewCatalog()
	for _, item := range items {
		if err := c.Register(item); err != nil {
			return nil, err
		}
	}
	return c, nil
}
