package catalog

import (
	"fmt"
	"math"

	"github.com/ChaseLewis/SOARandomizer/pkg/record"
)

var (
	i8  = record.Int8Field
	u8  = record.Uint8Field
	i16 = record.Int16Field
	u16 = record.Uint16Field
	i32 = record.Int32Field
	u32 = record.Uint32Field
	f32 = record.Float32Field
)

// Reference domains checked on import.
var (
	itemRef = &record.Domain{Name: "item id", Min: 0, Max: maxItemID, Sentinels: []int64{-1}}
	// Treasure chests may also hold gold, encoded as ids from GoldID upwards.
	treasureRef = &record.Domain{Name: "item id or gold", Min: 0, Max: math.MaxInt32, Sentinels: []int64{-1}}
	traitRef    = &record.Domain{Name: "trait id", Min: -1, Max: math.MaxInt8}
)

var elementNames = []string{"green", "red", "purple", "blue", "yellow", "silver"}

func latin(name string, offset, width int) record.Field {
	return record.TextField(name, offset, width, record.Latin)
}

func sjis(name string, offset, width int) record.Field {
	return record.TextField(name, offset, width, record.ShiftJIS)
}

func one(fields ...record.Field) []record.Field { return fields }

func cat(parts ...[]record.Field) []record.Field {
	var out []record.Field
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

// traits lays out count (id i8, value i16) pairs, 4 bytes apart.
func traits(offset, count int) []record.Field {
	var out []record.Field
	for i := 0; i < count; i++ {
		n := i + 1
		out = append(out,
			i8(fmt.Sprintf("trait_%d_id", n), offset+i*4).WithDomain(traitRef),
			i16(fmt.Sprintf("trait_%d_value", n), offset+2+i*4),
		)
	}
	return out
}

// elements lays out one i16 per element with the given suffix.
func elements(offset int, suffix string) []record.Field {
	names := make([]string, len(elementNames))
	for i, e := range elementNames {
		names[i] = e + suffix
	}
	return record.Named(record.Int16, offset, names...)
}

func shopHeader() []record.Field {
	return one(
		latin("name", 0, 17),
		u8("character_flags", 17),
		i8("sell_percent", 18),
		i8("order_1", 19),
		i8("order_2", 20),
		u16("buy_price", 22),
	)
}

var accessoryLayout = record.MustLayout(40, cat(shopHeader(), traits(24, 4))...)

var armorLayout = record.MustLayout(40, cat(shopHeader(), traits(24, 4))...)

var weaponLayout = record.MustLayout(32,
	latin("name", 0, 17),
	i8("character_id", 17),
	i8("sell_percent", 18),
	i8("order_1", 19),
	i8("order_2", 20),
	i8("effect_id", 21),
	u16("buy_price", 22),
	i16("attack", 24),
	i16("hit_percent", 26),
	i8("trait_id", 28).WithDomain(traitRef),
	i16("trait_value", 30),
)

var weaponEffectLayout = record.MustLayout(20,
	sjis("name_jp", 0, 17),
	i8("effect_id", 17),
	i8("state_id", 18),
	i8("state_miss", 19),
)

var usableItemLayout = record.MustLayout(36,
	latin("name", 0, 17),
	u8("occasion", 17),
	i8("effect_id", 18),
	u8("scope", 19),
	i8("consume_percent", 20),
	i8("sell_percent", 21),
	i8("order_1", 22),
	i8("order_2", 23),
	u16("buy_price", 24),
	i16("effect_base", 28),
	i8("element_id", 30),
	i8("type", 31),
	i16("state_id", 32),
	i16("state_miss", 34),
)

var specialItemLayout = record.MustLayout(22,
	latin("name", 0, 17),
	i8("sell_percent", 17),
	i8("order_1", 18),
	i8("order_2", 19),
	u16("buy_price", 20),
)

var characterLayout = record.MustLayout(152, cat(
	one(
		latin("name", 0, 11),
		i8("age", 11),
		i8("gender", 12),
		i8("width", 13),
		i8("depth", 14),
		i8("max_mp", 15),
		i8("element_id", 16),
		u16("weapon_id", 18),
		u16("armor_id", 20),
		u16("accessory_id", 22),
		i16("movement_flags", 24),
		i16("hp", 26),
		i16("max_hp", 28),
		i16("max_hp_growth", 30),
		i16("sp", 32),
		i16("max_sp", 34),
		i16("counter_percent", 36),
		u32("exp", 40),
		f32("max_mp_growth", 44),
		f32("unknown_1", 48),
	),
	elements(52, "_resist"),
	record.Repeat("state_%d_resist", record.Int16, 64, 2, 15),
	record.Named(record.Int16, 94, "danger", "power", "will", "vigor", "agile", "quick"),
	record.Named(record.Float32, 108, "power_growth", "will_growth", "vigor_growth", "agile_growth", "quick_growth"),
	record.Named(record.Int32, 128, "green_exp", "red_exp", "purple_exp", "blue_exp", "yellow_exp", "silver_exp"),
)...)

func magicFields() []record.Field {
	return one(
		latin("name", 0, 17),
		i8("element_id", 17),
		i16("order", 18),
		u8("occasion", 20),
		i8("effect_id", 21),
		u8("scope", 22),
		i8("category", 23),
		i8("effect_speed", 24),
		i8("effect_sp", 25),
		i16("effect_base", 28),
		i8("type", 30),
		i8("state_id", 31),
		i8("state_miss", 32),
		i8("ship_occasion", 36),
		i16("ship_effect_id", 38),
		i8("ship_effect_sp", 40),
		i8("ship_effect_turns", 41),
		i16("ship_effect_base", 42),
		i8("unknown", 44),
	)
}

var characterMagicLayout = record.MustLayout(48, magicFields()...)

var characterSuperMoveLayout = record.MustLayout(48, magicFields()...)

// Enemy super moves share the enemy magic record.
var enemyMagicLayout = record.MustLayout(36,
	latin("name", 0, 17),
	i8("category", 21),
	i8("effect_id", 22),
	u8("scope", 23),
	u16("effect_param", 24),
	u16("effect_base", 26),
	i8("element_id", 28),
	i8("type", 29),
	i8("state_infliction", 30),
	i8("state_resistance", 31),
	i8("state_id", 32),
	i8("state_miss", 33),
)

func armaments(offset, count int) []record.Field {
	var out []record.Field
	for i := 0; i < count; i++ {
		base := offset + i*10
		n := i + 1
		out = append(out, record.Named(record.Int16, base,
			fmt.Sprintf("armament_%d_type", n),
			fmt.Sprintf("armament_%d_attack", n),
			fmt.Sprintf("armament_%d_range", n),
			fmt.Sprintf("armament_%d_hit", n),
			fmt.Sprintf("armament_%d_element_id", n),
		)...)
	}
	return out
}

var enemyShipLayout = record.MustLayout(120, cat(
	one(
		latin("name", 0, 20),
		i32("max_hp", 20),
	),
	record.Named(record.Int16, 24, "will", "defense", "mag_def", "quick", "agile", "dodge"),
	elements(36, "_resist"),
	armaments(48, 4),
	one(
		i32("exp", 100),
		i32("gold", 104),
		i16("drop_1_id", 108),
		i16("drop_1_item_id", 110).WithDomain(itemRef),
		i16("drop_2_id", 112),
		i16("drop_2_item_id", 114).WithDomain(itemRef),
		i16("drop_3_id", 116),
		i16("drop_3_item_id", 118).WithDomain(itemRef),
	),
)...)

var playableShipLayout = record.MustLayout(100, cat(
	one(
		latin("name", 0, 20),
		u32("max_hp", 20),
	),
	record.Named(record.Int16, 24, "max_sp", "sp", "defense", "mag_def", "quick", "dodge"),
	elements(36, "_resist"),
	record.Repeat("cannon_%d_id", record.Int16, 48, 2, 5),
	record.Repeat("accessory_%d_id", record.Int16, 58, 2, 3),
	one(
		u32("value", 64),
		i32("max_hp_growth", 72),
	),
	record.Named(record.Int16, 76, "max_sp_growth", "sp_growth", "defense_growth", "mag_def_growth", "quick_growth", "dodge_growth"),
	record.Repeat("unknown_%d", record.Int16, 88, 2, 6),
)...)

var shipCannonLayout = record.MustLayout(36,
	latin("name", 0, 17),
	u8("ship_flags", 17),
	i8("type", 18),
	i8("element_id", 19),
	i16("attack", 20),
	u16("hit", 22),
	i8("limit", 24),
	i8("sp", 25),
	i8("trait_id", 26).WithDomain(traitRef),
	i16("trait_value", 28),
	u16("buy_price", 30),
	i8("sell_percent", 32),
	i8("order_1", 33),
	i8("order_2", 34),
)

var shipAccessoryLayout = record.MustLayout(40, cat(
	one(
		latin("name", 0, 17),
		u8("ship_flags", 17),
	),
	traits(18, 4),
	one(
		u16("buy_price", 34),
		i8("sell_percent", 36),
		i8("order_1", 37),
		i8("order_2", 38),
	),
)...)

var shipItemLayout = record.MustLayout(36,
	latin("name", 0, 17),
	u8("occasion", 17),
	i8("ship_effect_id", 18),
	i8("ship_effect_turns", 19),
	i8("consume_percent", 20),
	u16("buy_price", 22),
	i8("sell_percent", 24),
	i8("order_1", 25),
	i8("order_2", 26),
	i16("ship_effect_base", 28),
	i8("element_id", 30),
	i8("unknown_1", 31),
	i16("unknown_2", 32),
	i16("hit", 34),
)

var crewMemberLayout = record.MustLayout(36,
	latin("name", 0, 17),
	i8("position", 17),
	i8("trait_id", 18).WithDomain(traitRef),
	i16("trait_value", 20),
	i8("ship_effect_id", 22),
	i8("ship_effect_sp", 23),
	i8("ship_effect_turns", 24),
	i16("ship_effect_base", 28),
	i16("unknown", 30),
)

func shopItems() []record.Field {
	fields := record.Repeat("item_id_%d", record.Int16, 8, 2, 48)
	for i := range fields {
		fields[i] = fields[i].WithDomain(itemRef)
	}
	return fields
}

var shopLayout = record.MustLayout(104, cat(
	one(
		u16("shop_id", 0),
		u32("sot_pos", 4),
	),
	shopItems(),
)...)

var swashbucklerLayout = record.MustLayout(34,
	latin("name", 0, 25),
	u8("rating", 25),
	i16("regular_attack", 26),
	i16("super_move_attack", 28),
	i16("dodge", 30),
	i16("run", 32),
)

var treasureChestLayout = record.MustLayout(8,
	i32("item_id", 0).WithDomain(treasureRef),
	i32("item_amount", 4),
)

const maxLevel = 99

func spiritCurveFields() []record.Field {
	out := make([]record.Field, 0, maxLevel*2)
	for lv := 1; lv <= maxLevel; lv++ {
		off := (lv - 1) * 2
		out = append(out,
			i8(fmt.Sprintf("level_%d_sp", lv), off),
			i8(fmt.Sprintf("level_%d_max_sp", lv), off+1),
		)
	}
	return out
}

var spiritCurveLayout = record.MustLayout(maxLevel*2, spiritCurveFields()...)

var expBoostLayout = record.MustLayout(28,
	record.Named(record.Uint32, 0, "exp", "green", "red", "purple", "blue", "yellow", "silver")...,
)

var expCurveLayout = record.MustLayout(maxLevel*4,
	record.Repeat("level_%d", record.Int32, 0, 4, maxLevel)...,
)

func magicExpFields() []record.Field {
	var out []record.Field
	for i, e := range elementNames {
		for lv := 1; lv <= 6; lv++ {
			out = append(out, u16(fmt.Sprintf("%s_level_%d", e, lv), (i*6+lv-1)*2))
		}
	}
	return out
}

var magicExpCurveLayout = record.MustLayout(72, magicExpFields()...)

func enemyDrops(offset, count int) []record.Field {
	var out []record.Field
	for i := 0; i < count; i++ {
		n := i + 1
		base := offset + i*6
		out = append(out,
			i16(fmt.Sprintf("drop_%d_probability", n), base),
			i16(fmt.Sprintf("drop_%d_amount", n), base+2),
			i16(fmt.Sprintf("drop_%d_item_id", n), base+4).WithDomain(itemRef),
		)
	}
	return out
}

// The enemy record runs to 0x8A: the last drop ends two bytes past the
// 0x88 stride the containers are usually described with.
var enemyLayout = record.MustLayout(138, cat(
	one(
		sjis("name_jp", 0, 21),
		i8("width", 21),
		i8("depth", 22),
		i8("element_id", 23),
		i16("movement_flags", 26),
		i16("counter_percent", 28),
		u16("exp", 30),
		u16("gold", 32),
		i32("max_hp", 36),
		f32("unknown_float", 40),
	),
	elements(44, "_resist"),
	record.Repeat("state_%d_resist", record.Int16, 56, 2, 15),
	one(
		i16("danger", 86),
		i8("effect_id", 88),
		i8("state_id", 89),
		i8("state_miss", 90),
	),
	record.Named(record.Int16, 92, "level", "will", "vigor", "agile", "quick", "attack", "defense", "mag_def", "hit", "dodge"),
	enemyDrops(114, 4),
)...)

// An AI task entry: type 0 branches, type 1 acts.
var enemyTaskLayout = record.MustLayout(6,
	i16("type_id", 0),
	i16("task_id", 2),
	i16("param_id", 4),
)
