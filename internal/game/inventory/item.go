// Package inventory provides the item catalog and the slot-based bag and
// equipment store owned by a single player session.
package inventory

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

// EquipSlot identifies a body position an item can be worn in.
type EquipSlot string

const (
	SlotHead      EquipSlot = "head"
	SlotShoulder  EquipSlot = "shoulder"
	SlotHands     EquipSlot = "hands"
	SlotBodyInner EquipSlot = "body_inner"
	SlotBodyOuter EquipSlot = "body_outer"
	SlotLegs      EquipSlot = "legs"
	SlotFeet      EquipSlot = "feet"
	// SlotPrimary holds the main weapon. A two-handed weapon here locks SlotSecondary.
	SlotPrimary EquipSlot = "primary"
	// SlotSecondary holds the offhand item.
	SlotSecondary EquipSlot = "secondary"
	SlotAmulet    EquipSlot = "amulet"
)

// EquipSlots lists every equip slot in display order.
var EquipSlots = []EquipSlot{
	SlotHead,
	SlotShoulder,
	SlotHands,
	SlotBodyInner,
	SlotBodyOuter,
	SlotLegs,
	SlotFeet,
	SlotPrimary,
	SlotSecondary,
	SlotAmulet,
}

// Valid reports whether s is one of EquipSlots.
func (s EquipSlot) Valid() bool {
	for _, known := range EquipSlots {
		if s == known {
			return true
		}
	}
	return false
}

// ItemType distinguishes armor from weapons.
type ItemType string

const (
	ItemArmor  ItemType = "armor"
	ItemWeapon ItemType = "weapon"
)

// RangeType distinguishes melee from ranged weapons.
type RangeType string

const (
	RangeMelee  RangeType = "melee"
	RangeRanged RangeType = "ranged"
)

// HandType records how many hands a weapon needs.
type HandType string

const (
	HandOne HandType = "one"
	HandTwo HandType = "two"
)

// ArcType is the angular width of a melee swing.
type ArcType string

const (
	ArcStab   ArcType = "stab"
	ArcMedium ArcType = "medium"
	ArcWide   ArcType = "wide"
)

// WeightClass is an optional armor weight category.
type WeightClass string

const (
	WeightLight  WeightClass = "light"
	WeightMedium WeightClass = "medium"
	WeightHeavy  WeightClass = "heavy"
)

// StatKey names a gear stat an item may contribute.
type StatKey string

const (
	StatHP               StatKey = "hp"
	StatStamina          StatKey = "stamina"
	StatMagicka          StatKey = "magicka"
	StatPhysicalDamage   StatKey = "physicalDamage"
	StatMagicalDamage    StatKey = "magicalDamage"
	StatPhysicalResist   StatKey = "physicalResist"
	StatMagicalResist    StatKey = "magicalResist"
	StatMinDamage        StatKey = "minDamage"
	StatMaxDamage        StatKey = "maxDamage"
	StatAttackSpeedBonus StatKey = "attackSpeedBonus"
	StatCritChanceBonus  StatKey = "critChanceBonus"
	StatAccuracyBonus    StatKey = "accuracyBonus"
	StatMoveSpeedBonus   StatKey = "moveSpeedBonus"
	// StatBlockChance is reserved; no block mechanic consumes it yet.
	StatBlockChance StatKey = "blockChance"
)

// StatKeys is the whitelist of gear stat keys.
var StatKeys = []StatKey{
	StatHP,
	StatStamina,
	StatMagicka,
	StatPhysicalDamage,
	StatMagicalDamage,
	StatPhysicalResist,
	StatMagicalResist,
	StatMinDamage,
	StatMaxDamage,
	StatAttackSpeedBonus,
	StatCritChanceBonus,
	StatAccuracyBonus,
	StatMoveSpeedBonus,
	StatBlockChance,
}

// Valid reports whether k is in the StatKeys whitelist.
func (k StatKey) Valid() bool {
	for _, known := range StatKeys {
		if k == known {
			return true
		}
	}
	return false
}

// Item is an immutable catalog record. Items are shared by pointer and must
// not be modified after they are registered in a Catalog.
type Item struct {
	ID          string              `yaml:"id"`
	Name        string              `yaml:"name"`
	Description string              `yaml:"description"`
	EquipSlot   EquipSlot           `yaml:"equip_slot"`
	ItemType    ItemType            `yaml:"item_type"`
	WeightClass WeightClass         `yaml:"weight_class"`
	Stats       map[StatKey]float64 `yaml:"stats"`
	Value       float64             `yaml:"value"`
	RangeType   RangeType           `yaml:"range_type"`
	HandType    HandType            `yaml:"hand_type"`
	ArcType     ArcType             `yaml:"arc_type"`
}

// IsWeapon reports whether the item is a weapon.
func (i *Item) IsWeapon() bool {
	return i.ItemType == ItemWeapon
}

// IsTwoHanded reports whether the item is a weapon requiring both hands.
func (i *Item) IsTwoHanded() bool {
	return i.IsWeapon() && i.HandType == HandTwo
}

// Stat returns the item's contribution for key, or 0 when absent.
func (i *Item) Stat(key StatKey) float64 {
	return i.Stats[key]
}

// Validate checks that the Item satisfies its catalog invariants.
//
// Precondition: i is non-nil.
// Postcondition: returns nil iff all fields are valid; otherwise the error
// lists every violation found.
func (i *Item) Validate() error {
	var errs []error
	if i.ID == "" {
		errs = append(errs, errors.New("id must not be empty"))
	}
	if i.Name == "" {
		errs = append(errs, errors.New("name must not be empty"))
	}
	if !i.EquipSlot.Valid() {
		errs = append(errs, fmt.Errorf("equip_slot %q is not a valid slot", i.EquipSlot))
	}
	if i.ItemType != ItemArmor && i.ItemType != ItemWeapon {
		errs = append(errs, fmt.Errorf("item_type must be armor or weapon; got %q", i.ItemType))
	}
	switch i.WeightClass {
	case "", WeightLight, WeightMedium, WeightHeavy:
	default:
		errs = append(errs, fmt.Errorf("weight_class must be light, medium, or heavy; got %q", i.WeightClass))
	}
	switch i.RangeType {
	case "", RangeMelee, RangeRanged:
	default:
		errs = append(errs, fmt.Errorf("range_type must be melee or ranged; got %q", i.RangeType))
	}
	switch i.HandType {
	case "", HandOne, HandTwo:
	default:
		errs = append(errs, fmt.Errorf("hand_type must be one or two; got %q", i.HandType))
	}
	switch i.ArcType {
	case "", ArcStab, ArcMedium, ArcWide:
	default:
		errs = append(errs, fmt.Errorf("arc_type must be stab, medium, or wide; got %q", i.ArcType))
	}
	if i.IsTwoHanded() && i.EquipSlot != SlotPrimary {
		errs = append(errs, fmt.Errorf("two-handed weapons must use the primary slot; got %q", i.EquipSlot))
	}
	keys := make([]string, 0, len(i.Stats))
	for k := range i.Stats {
		keys = append(keys, string(k))
	}
	sort.Strings(keys)
	for _, k := range keys {
		if !StatKey(k).Valid() {
			errs = append(errs, fmt.Errorf("stats.%s is not a recognised stat key", k))
		}
	}
	if i.Value < 0 {
		errs = append(errs, fmt.Errorf("value must be non-negative; got %v", i.Value))
	}
	if len(errs) > 0 {
		return fmt.Errorf("item %q validation failed: %v", i.ID, errs)
	}
	return nil
}

// itemFile is the on-disk layout of a catalog YAML file.
type itemFile struct {
	Items []*Item `yaml:"items"`
}

// LoadItems reads all *.yaml and *.yml files from dir and returns every item
// they declare, in file-name order. Items are not validated here; register
// them in a Catalog to validate.
//
// Precondition: dir is a readable directory path.
// Postcondition: returns the parsed items or the first read/parse error.
func LoadItems(dir string) ([]*Item, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("LoadItems: cannot read directory %q: %w", dir, err)
	}

	var items []*Item
	for _, entry := range entries {
		ext := filepath.Ext(entry.Name())
		if entry.IsDir() || (ext != ".yaml" && ext != ".yml") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("LoadItems: cannot read file %q: %w", path, err)
		}
		var f itemFile
		if err := yaml.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("LoadItems: cannot parse file %q: %w", path, err)
		}
		items = append(items, f.Items...)
	}
	return items, nil
}
