package pkg

// Typed shorthands for Read and Write. Each pair is scoped to one entry type.

import (
	"github.com/ChaseLewis/SOARandomizer/pkg/catalog"
	"github.com/ChaseLewis/SOARandomizer/pkg/record"
)

// ReadAccessories reads the accessories.
func (s *Session) ReadAccessories() ([]*record.Record, error) { return s.Read(catalog.Accessory) }

// WriteAccessories stages the accessories.
func (s *Session) WriteAccessories(recs []*record.Record) error { return s.Write(catalog.Accessory, recs) }

// ReadArmors reads the armors.
func (s *Session) ReadArmors() ([]*record.Record, error) { return s.Read(catalog.Armor) }

// WriteArmors stages the armors.
func (s *Session) WriteArmors(recs []*record.Record) error { return s.Write(catalog.Armor, recs) }

// ReadWeapons reads the weapons.
func (s *Session) ReadWeapons() ([]*record.Record, error) { return s.Read(catalog.Weapon) }

// WriteWeapons stages the weapons.
func (s *Session) WriteWeapons(recs []*record.Record) error { return s.Write(catalog.Weapon, recs) }

// ReadWeaponEffects reads the weapon effects.
func (s *Session) ReadWeaponEffects() ([]*record.Record, error) { return s.Read(catalog.WeaponEffect) }

// WriteWeaponEffects stages the weapon effects.
func (s *Session) WriteWeaponEffects(recs []*record.Record) error { return s.Write(catalog.WeaponEffect, recs) }

// ReadUsableItems reads the usable items.
func (s *Session) ReadUsableItems() ([]*record.Record, error) { return s.Read(catalog.UsableItem) }

// WriteUsableItems stages the usable items.
func (s *Session) WriteUsableItems(recs []*record.Record) error { return s.Write(catalog.UsableItem, recs) }

// ReadSpecialItems reads the special items.
func (s *Session) ReadSpecialItems() ([]*record.Record, error) { return s.Read(catalog.SpecialItem) }

// WriteSpecialItems stages the special items.
func (s *Session) WriteSpecialItems(recs []*record.Record) error { return s.Write(catalog.SpecialItem, recs) }

// ReadCharacters reads the playable characters.
func (s *Session) ReadCharacters() ([]*record.Record, error) { return s.Read(catalog.Character) }

// WriteCharacters stages the playable characters.
func (s *Session) WriteCharacters(recs []*record.Record) error { return s.Write(catalog.Character, recs) }

// ReadCharacterMagics reads the character spells.
func (s *Session) ReadCharacterMagics() ([]*record.Record, error) { return s.Read(catalog.CharacterMagic) }

// WriteCharacterMagics stages the character spells.
func (s *Session) WriteCharacterMagics(recs []*record.Record) error { return s.Write(catalog.CharacterMagic, recs) }

// ReadCharacterSuperMoves reads the character super moves.
func (s *Session) ReadCharacterSuperMoves() ([]*record.Record, error) { return s.Read(catalog.CharacterSuperMove) }

// WriteCharacterSuperMoves stages the character super moves.
func (s *Session) WriteCharacterSuperMoves(recs []*record.Record) error { return s.Write(catalog.CharacterSuperMove, recs) }

// ReadEnemies reads the enemies from every enemy source file.
func (s *Session) ReadEnemies() ([]*record.Record, error) { return s.Read(catalog.Enemy) }

// WriteEnemies stages the enemies from every enemy source file.
func (s *Session) WriteEnemies(recs []*record.Record) error { return s.Write(catalog.Enemy, recs) }

// ReadEnemyTasks reads the enemy AI tasks. The table is read-only.
func (s *Session) ReadEnemyTasks() ([]*record.Record, error) { return s.Read(catalog.EnemyTask) }

// ReadEnemyMagics reads the enemy spells.
func (s *Session) ReadEnemyMagics() ([]*record.Record, error) { return s.Read(catalog.EnemyMagic) }

// WriteEnemyMagics stages the enemy spells.
func (s *Session) WriteEnemyMagics(recs []*record.Record) error { return s.Write(catalog.EnemyMagic, recs) }

// ReadEnemySuperMoves reads the enemy super moves.
func (s *Session) ReadEnemySuperMoves() ([]*record.Record, error) { return s.Read(catalog.EnemySuperMove) }

// WriteEnemySuperMoves stages the enemy super moves.
func (s *Session) WriteEnemySuperMoves(recs []*record.Record) error { return s.Write(catalog.EnemySuperMove, recs) }

// ReadEnemyShips reads the enemy ships.
func (s *Session) ReadEnemyShips() ([]*record.Record, error) { return s.Read(catalog.EnemyShip) }

// WriteEnemyShips stages the enemy ships.
func (s *Session) WriteEnemyShips(recs []*record.Record) error { return s.Write(catalog.EnemyShip, recs) }

// ReadPlayableShips reads the playable ships.
func (s *Session) ReadPlayableShips() ([]*record.Record, error) { return s.Read(catalog.PlayableShip) }

// WritePlayableShips stages the playable ships.
func (s *Session) WritePlayableShips(recs []*record.Record) error { return s.Write(catalog.PlayableShip, recs) }

// ReadShipCannons reads the ship cannons.
func (s *Session) ReadShipCannons() ([]*record.Record, error) { return s.Read(catalog.ShipCannon) }

// WriteShipCannons stages the ship cannons.
func (s *Session) WriteShipCannons(recs []*record.Record) error { return s.Write(catalog.ShipCannon, recs) }

// ReadShipAccessories reads the ship accessories.
func (s *Session) ReadShipAccessories() ([]*record.Record, error) { return s.Read(catalog.ShipAccessory) }

// WriteShipAccessories stages the ship accessories.
func (s *Session) WriteShipAccessories(recs []*record.Record) error { return s.Write(catalog.ShipAccessory, recs) }

// ReadShipItems reads the ship items.
func (s *Session) ReadShipItems() ([]*record.Record, error) { return s.Read(catalog.ShipItem) }

// WriteShipItems stages the ship items.
func (s *Session) WriteShipItems(recs []*record.Record) error { return s.Write(catalog.ShipItem, recs) }

// ReadCrewMembers reads the crew members.
func (s *Session) ReadCrewMembers() ([]*record.Record, error) { return s.Read(catalog.CrewMember) }

// WriteCrewMembers stages the crew members.
func (s *Session) WriteCrewMembers(recs []*record.Record) error { return s.Write(catalog.CrewMember, recs) }

// ReadShops reads the shops.
func (s *Session) ReadShops() ([]*record.Record, error) { return s.Read(catalog.Shop) }

// WriteShops stages the shops.
func (s *Session) WriteShops(recs []*record.Record) error { return s.Write(catalog.Shop, recs) }

// ReadSwashbucklers reads the swashbuckler ratings.
func (s *Session) ReadSwashbucklers() ([]*record.Record, error) { return s.Read(catalog.Swashbuckler) }

// WriteSwashbucklers stages the swashbuckler ratings.
func (s *Session) WriteSwashbucklers(recs []*record.Record) error { return s.Write(catalog.Swashbuckler, recs) }

// ReadTreasureChests reads the treasure chests.
func (s *Session) ReadTreasureChests() ([]*record.Record, error) { return s.Read(catalog.TreasureChest) }

// WriteTreasureChests stages the treasure chests.
func (s *Session) WriteTreasureChests(recs []*record.Record) error { return s.Write(catalog.TreasureChest, recs) }

// ReadSpiritCurves reads the spirit curves.
func (s *Session) ReadSpiritCurves() ([]*record.Record, error) { return s.Read(catalog.SpiritCurve) }

// WriteSpiritCurves stages the spirit curves.
func (s *Session) WriteSpiritCurves(recs []*record.Record) error { return s.Write(catalog.SpiritCurve, recs) }

// ReadExpBoosts reads the experience boosts.
func (s *Session) ReadExpBoosts() ([]*record.Record, error) { return s.Read(catalog.ExpBoost) }

// WriteExpBoosts stages the experience boosts.
func (s *Session) WriteExpBoosts(recs []*record.Record) error { return s.Write(catalog.ExpBoost, recs) }

// ReadExpCurves reads the experience curves.
func (s *Session) ReadExpCurves() ([]*record.Record, error) { return s.Read(catalog.ExpCurve) }

// WriteExpCurves stages the experience curves.
func (s *Session) WriteExpCurves(recs []*record.Record) error { return s.Write(catalog.ExpCurve, recs) }

// ReadMagicExpCurves reads the magic experience curves.
func (s *Session) ReadMagicExpCurves() ([]*record.Record, error) { return s.Read(catalog.MagicExpCurve) }

// WriteMagicExpCurves stages the magic experience curves.
func (s *Session) WriteMagicExpCurves(recs []*record.Record) error { return s.Write(catalog.MagicExpCurve, recs) }
