// Package catalog describes where every entry type lives on the disc and
// assembles typed record collections from those locations.
package catalog

import (
	"fmt"
	"sort"

	"github.com/ChaseLewis/SOARandomizer/pkg/common"
	"github.com/ChaseLewis/SOARandomizer/pkg/gcn"
	"github.com/ChaseLewis/SOARandomizer/pkg/record"
)

// Entry type names.
const (
	Accessory          = "accessory"
	Armor              = "armor"
	Weapon             = "weapon"
	WeaponEffect       = "weapon_effect"
	UsableItem         = "usable_item"
	SpecialItem        = "special_item"
	Character          = "character"
	CharacterMagic     = "character_magic"
	CharacterSuperMove = "character_super_move"
	Enemy              = "enemy"
	EnemyTask          = "enemy_task"
	EnemyMagic         = "enemy_magic"
	EnemySuperMove     = "enemy_super_move"
	EnemyShip          = "enemy_ship"
	PlayableShip       = "playable_ship"
	ShipCannon         = "ship_cannon"
	ShipAccessory      = "ship_accessory"
	ShipItem           = "ship_item"
	CrewMember         = "crew_member"
	Shop               = "shop"
	Swashbuckler       = "swashbuckler"
	TreasureChest      = "treasure_chest"
	SpiritCurve        = "spirit_curve"
	ExpBoost           = "exp_boost"
	ExpCurve           = "exp_curve"
	MagicExpCurve      = "magic_exp_curve"
)

type typeInfo struct {
	layout     *record.Layout
	gameIDBase int
	hasGameID  bool

	multiSource bool
	readOnly    bool
	hasSlot     bool
}

// typeOrder is the order Names reports.
var typeOrder = []string{
	Accessory, Armor, Weapon, WeaponEffect, UsableItem, SpecialItem,
	Character, CharacterMagic, CharacterSuperMove,
	Enemy, EnemyTask, EnemyMagic, EnemySuperMove, EnemyShip,
	PlayableShip, ShipCannon, ShipAccessory, ShipItem, CrewMember,
	Shop, Swashbuckler, TreasureChest,
	SpiritCurve, ExpBoost, ExpCurve, MagicExpCurve,
}

var types = map[string]typeInfo{
	Accessory:          {layout: accessoryLayout, gameIDBase: accessoryBase, hasGameID: true},
	Armor:              {layout: armorLayout, gameIDBase: armorBase, hasGameID: true},
	Weapon:             {layout: weaponLayout, gameIDBase: weaponBase, hasGameID: true},
	WeaponEffect:       {layout: weaponEffectLayout},
	UsableItem:         {layout: usableItemLayout, gameIDBase: usableBase, hasGameID: true},
	SpecialItem:        {layout: specialItemLayout, gameIDBase: specialBase, hasGameID: true},
	Character:          {layout: characterLayout},
	CharacterMagic:     {layout: characterMagicLayout},
	CharacterSuperMove: {layout: characterSuperMoveLayout, gameIDBase: superMoveBase, hasGameID: true},
	Enemy:              {layout: enemyLayout, hasGameID: true, multiSource: true},
	EnemyTask:          {layout: enemyTaskLayout, hasGameID: true, multiSource: true, readOnly: true, hasSlot: true},
	EnemyMagic:         {layout: enemyMagicLayout},
	EnemySuperMove:     {layout: enemyMagicLayout},
	EnemyShip:          {layout: enemyShipLayout},
	PlayableShip:       {layout: playableShipLayout},
	ShipCannon:         {layout: shipCannonLayout, gameIDBase: shipCannonBase, hasGameID: true},
	ShipAccessory:      {layout: shipAccessoryLayout, gameIDBase: shipAccessoryBase, hasGameID: true},
	ShipItem:           {layout: shipItemLayout, gameIDBase: shipItemBase, hasGameID: true},
	CrewMember:         {layout: crewMemberLayout},
	Shop:               {layout: shopLayout},
	Swashbuckler:       {layout: swashbucklerLayout},
	TreasureChest:      {layout: treasureChestLayout},
	SpiritCurve:        {layout: spiritCurveLayout},
	ExpBoost:           {layout: expBoostLayout},
	ExpCurve:           {layout: expCurveLayout},
	MagicExpCurve:      {layout: magicExpCurveLayout},
}

// Descriptor is the static description of one entry type.
type Descriptor struct {
	Name   string
	Layout *record.Layout

	// File and Table locate a fixed table. Unused when MultiSource is set.
	File  string
	Table Range
	Count int

	Descriptions *Range

	GameIDBase int
	HasGameID  bool

	// MultiSource types are assembled from several compressed files; their
	// count is only known once a disc is open.
	MultiSource bool

	// ReadOnly types can be read and exported but changes are rejected.
	ReadOnly bool

	// HasSlot types number their records 1-based within the owning record.
	HasSlot bool
}

// Stride is the byte distance between consecutive records.
func (d *Descriptor) Stride() int { return d.Layout.Size() }

// Catalog is the immutable descriptor table of one game build.
type Catalog struct {
	region      gcn.Region
	gameID      string
	levelFile   string
	descriptors map[string]*Descriptor
	names       []string
}

// Region is the build this catalog describes.
func (c *Catalog) Region() gcn.Region { return c.region }

// GameID is the disc game ID the offsets were taken from.
func (c *Catalog) GameID() string { return c.gameID }

// Names lists the entry types in a stable order.
func (c *Catalog) Names() []string { return append([]string(nil), c.names...) }

// Descriptor looks up an entry type.
func (c *Catalog) Descriptor(name string) (*Descriptor, error) {
	d, ok := c.descriptors[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", common.ErrUnknownType, name)
	}
	return d, nil
}

// Store is the disc access the catalog needs. *gcn.Image satisfies it.
type Store interface {
	Files() []gcn.FileEntry
	ReadFile(path string) ([]byte, error)
	PatchFile(path string, off int, b []byte) error
	PristineExecutable() []byte
}

// Span is the location of one record. End bounds the region the record
// was found in; records nested behind it may not cross it.
type Span struct {
	Path   string
	Offset int
	End    int
	GameID int
	Origin string
	Slot   int
}

// Spans resolves where every record of a type lives on the given disc.
func (c *Catalog) Spans(store Store, name string) ([]Span, error) {
	d, err := c.Descriptor(name)
	if err != nil {
		return nil, err
	}
	switch {
	case d.MultiSource && name == EnemyTask:
		return taskSpans(store)
	case d.MultiSource:
		return enemySpans(store)
	}

	spans := make([]Span, d.Count)
	for i := range spans {
		gameID := i
		if d.HasGameID {
			gameID = d.GameIDBase + i
		}
		spans[i] = Span{Path: d.File, Offset: d.Table.Start + i*d.Stride(), End: d.Table.End, GameID: gameID}
	}
	common.LogDebug(common.DebugSourceResolved, name, len(spans), 1)
	return spans, nil
}

func build(region gcn.Region, offsets regionOffsets) (*Catalog, error) {
	c := &Catalog{
		region:      region,
		gameID:      offsets.GameID,
		levelFile:   offsets.LevelFile,
		descriptors: make(map[string]*Descriptor, len(types)),
	}

	for name := range offsets.Tables {
		if info, ok := types[name]; !ok || info.multiSource {
			return nil, fmt.Errorf("%w: %q in offset table", common.ErrUnknownType, name)
		}
	}

	for _, name := range typeOrder {
		info := types[name]
		if info.multiSource {
			c.add(&Descriptor{
				Name:        name,
				Layout:      info.layout,
				HasGameID:   info.hasGameID,
				MultiSource: true,
				ReadOnly:    info.readOnly,
				HasSlot:     info.hasSlot,
			})
			continue
		}
		t, ok := offsets.Tables[name]
		if !ok {
			continue
		}
		d, err := c.fixed(name, info, t)
		if err != nil {
			return nil, err
		}
		c.add(d)
	}
	return c, nil
}

func (c *Catalog) add(d *Descriptor) {
	c.descriptors[d.Name] = d
	c.names = append(c.names, d.Name)
}

func (c *Catalog) fixed(name string, info typeInfo, t tableOffsets) (*Descriptor, error) {
	var file string
	switch t.File {
	case FileExecutable:
		file = gcn.ExecutablePath
	case FileLevel:
		if c.levelFile == "" {
			return nil, fmt.Errorf("%s: level table without level_file", name)
		}
		file = c.levelFile
	default:
		return nil, fmt.Errorf("%s: unknown file kind %q", name, t.File)
	}

	table := Range{Start: t.Start, End: t.End}
	size := info.layout.Size()
	if table.Start < 0 || table.Len() <= 0 || table.Len()%size != 0 {
		return nil, fmt.Errorf("%s: range [0x%X,0x%X) is not a whole number of %d-byte records", name, table.Start, table.End, size)
	}
	if t.Descriptions != nil && (t.Descriptions.Start < 0 || t.Descriptions.Len() <= 0) {
		return nil, fmt.Errorf("%s: empty description range", name)
	}

	return &Descriptor{
		Name:         name,
		Layout:       info.layout,
		File:         file,
		Table:        table,
		Count:        table.Len() / size,
		Descriptions: t.Descriptions,
		GameIDBase:   info.gameIDBase,
		HasGameID:    info.hasGameID,
	}, nil
}

// sortedPaths returns the paths of files accepted by match, sorted.
func sortedPaths(store Store, match func(path string) bool) []string {
	var out []string
	for _, f := range store.Files() {
		if f.Index >= 0 && match(f.Path) {
			out = append(out, f.Path)
		}
	}
	sort.Strings(out)
	return out
}
