package catalog

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ChaseLewis/SOARandomizer/pkg/record"
)

// Game ID bases. Items share one id space; the super moves follow the 36
// character spells.
const (
	weaponBase        = 0x000
	armorBase         = 0x050
	accessoryBase     = 0x0A0
	usableBase        = 0x0F0
	specialBase       = 0x140
	shipCannonBase    = 0x190
	shipAccessoryBase = 0x1B8
	shipItemBase      = 0x1E0
	superMoveBase     = 0x024

	maxItemID = 0x1FF
	// GoldID and above stand for an amount of gold rather than an item.
	GoldID = 0x200
)

// ItemCategory is the kind of item an id refers to.
type ItemCategory int

const (
	ItemUnknown ItemCategory = iota
	ItemWeapon
	ItemArmor
	ItemAccessory
	ItemUsable
	ItemSpecial
	ItemShipCannon
	ItemShipAccessory
	ItemShipItem
	ItemGold
)

var itemCategoryNames = [...]string{"unknown", "weapon", "armor", "accessory", "usable", "special", "ship cannon", "ship accessory", "ship item", "gold"}

func (c ItemCategory) String() string {
	if c < 0 || int(c) >= len(itemCategoryNames) {
		return itemCategoryNames[0]
	}
	return itemCategoryNames[c]
}

// ItemCategoryOf maps an item id onto its category.
func ItemCategoryOf(id int) ItemCategory {
	switch {
	case id < 0:
		return ItemUnknown
	case id < armorBase:
		return ItemWeapon
	case id < accessoryBase:
		return ItemArmor
	case id < usableBase:
		return ItemAccessory
	case id < specialBase:
		return ItemUsable
	case id < shipCannonBase:
		return ItemSpecial
	case id < shipAccessoryBase:
		return ItemShipCannon
	case id < shipItemBase:
		return ItemShipAccessory
	case id < GoldID:
		return ItemShipItem
	default:
		return ItemGold
	}
}

// ItemTypes lists the entry types that make up the item id space.
var ItemTypes = []string{Weapon, Armor, Accessory, UsableItem, SpecialItem, ShipCannon, ShipAccessory, ShipItem}

var traitNames = map[int]string{
	-1: "None",
	0:  "Power", 1: "Will", 2: "Vigor", 3: "Agile", 4: "Quick",
	16: "Attack", 17: "Defense", 18: "MagDef", 19: "Hit%", 20: "Dodge%",
	32: "Green", 33: "Red", 34: "Purple", 35: "Blue", 36: "Yellow", 37: "Silver",
	48: "Poison", 49: "Unconscious", 50: "Stone", 51: "Sleep", 52: "Confusion",
	53: "Silence", 54: "Fatigue", 55: "Revival", 56: "Weak", 63: "Danger",
	64: "Block Magic", 65: "Block Attack", 68: "Reduce SP", 73: "Counter%",
	77: "Recover SP", 78: "Regenerate", 79: "Block Neg States",
	80: "PC 1st Strike%", 81: "PC Run%", 82: "EC 1st Strike%", 83: "EC Run%",
	84: "Random Encounter%",
}

// TraitName names a trait id.
func TraitName(id int) string {
	if n, ok := traitNames[id]; ok {
		return n
	}
	if id >= 57 && id <= 62 {
		return fmt.Sprintf("State %d", id-47)
	}
	return fmt.Sprintf("Unknown %d", id)
}

// ItemNames maps item ids to display names.
type ItemNames struct {
	byID   map[int]string
	byName map[string]int
}

// NewItemNames builds the table from the item entry types, keyed by the
// records' game ids.
func NewItemNames(tables map[string][]*record.Record) *ItemNames {
	n := &ItemNames{byID: make(map[int]string), byName: make(map[string]int)}
	for _, t := range ItemTypes {
		for _, r := range tables[t] {
			name := r.Name()
			n.byID[r.GameID] = name
			if _, dup := n.byName[strings.ToLower(name)]; !dup && name != "" {
				n.byName[strings.ToLower(name)] = r.GameID
			}
		}
	}
	return n
}

// Name returns the display name of an item id.
func (n *ItemNames) Name(id int) string {
	switch {
	case id == -1:
		return "None"
	case id >= GoldID:
		return "Gold"
	}
	if name, ok := n.byID[id]; ok {
		return name
	}
	return "???"
}

// ID finds an item by name, ignoring case. The first item with a given name
// wins.
func (n *ItemNames) ID(name string) (int, bool) {
	id, ok := n.byName[strings.ToLower(name)]
	return id, ok
}

// Len is the number of named items.
func (n *ItemNames) Len() int { return len(n.byID) }

// IDs lists the named item ids in ascending order.
func (n *ItemNames) IDs() []int {
	ids := make([]int, 0, len(n.byID))
	for id := range n.byID {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}
