package csvio

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ChaseLewis/SOARandomizer/pkg/catalog"
	"github.com/ChaseLewis/SOARandomizer/pkg/common"
	"github.com/ChaseLewis/SOARandomizer/pkg/gcn"
	"github.com/ChaseLewis/SOARandomizer/pkg/record"
)

func descriptor(t *testing.T, name string) *catalog.Descriptor {
	t.Helper()
	c, err := catalog.ForVersion(gcn.Version{GameID: "GEAE8P", Region: gcn.RegionUS})
	require.NoError(t, err)
	d, err := c.Descriptor(name)
	require.NoError(t, err)
	return d
}

func accessories(t *testing.T, d *catalog.Descriptor) []*record.Record {
	recs := make([]*record.Record, d.Count)
	for i := range recs {
		r := record.New(d.Layout, i)
		r.GameID = d.GameIDBase + i
		require.NoError(t, r.Set("name", fmt.Sprintf("Accessory, \"%d\"", i)))
		require.NoError(t, r.Set("buy_price", int64(100)))
		require.NoError(t, r.Set("trait_1_id", int64(-1)))
		require.NoError(t, r.Set("trait_1_value", int64(-5*i)))
		r.Description = fmt.Sprintf("Line %d…", i)
		r.HasDesc = true
		recs[i] = r
	}
	return recs
}

func characters(t *testing.T, d *catalog.Descriptor) []*record.Record {
	recs := make([]*record.Record, d.Count)
	for i := range recs {
		r := record.New(d.Layout, i)
		require.NoError(t, r.Set("name", "Vyse"))
		require.NoError(t, r.Set("max_mp_growth", float32(0.1)*float32(i)))
		require.NoError(t, r.Set("unknown_1", float32(math.NaN())))
		require.NoError(t, r.Set("exp", int64(math.MaxUint32)))
		recs[i] = r
	}
	return recs
}

// rewrite replaces one cell of an exported CSV.
func rewrite(t *testing.T, d *catalog.Descriptor, text string, row int, column, value string) string {
	t.Helper()
	lines := strings.Split(strings.TrimSuffix(text, "\n"), "\n")
	col := -1
	for i, c := range Columns(d) {
		if c == column {
			col = i
		}
	}
	require.GreaterOrEqual(t, col, 0, column)

	cells := splitSimple(lines[row+1])
	cells[col] = value
	lines[row+1] = strings.Join(cells, ",")
	return strings.Join(lines, "\n") + "\n"
}

// splitSimple splits a row whose quoted cells contain no newlines.
func splitSimple(line string) []string {
	var cells []string
	var cur strings.Builder
	quoted := false
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case c == '"':
			quoted = !quoted
			cur.WriteByte(c)
		case c == ',' && !quoted:
			cells = append(cells, cur.String())
			cur.Reset()
		default:
			cur.WriteByte(c)
		}
	}
	return append(cells, cur.String())
}

func TestExport_Header(t *testing.T) {
	d := descriptor(t, catalog.Accessory)
	text, err := ExportString(d, accessories(t, d))
	require.NoError(t, err)

	header := strings.SplitN(text, "\n", 2)[0]
	assert.True(t, strings.HasPrefix(header, "id,game_id,name,character_flags,"), header)
	assert.True(t, strings.HasSuffix(header, ",trait_4_value,description"), header)
	assert.Contains(t, text, "\n5,165,\"Accessory, \"\"5\"\"\",")
}

func TestRoundTrip(t *testing.T) {
	testCases := []struct {
		name  string
		build func(*testing.T, *catalog.Descriptor) []*record.Record
	}{
		{catalog.Accessory, accessories},
		{catalog.Character, characters},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			d := descriptor(t, tc.name)
			recs := tc.build(t, d)

			text, err := ExportString(d, recs)
			require.NoError(t, err)

			res, err := ImportString(d, text, Options{})
			require.NoError(t, err)
			assert.Empty(t, res.Issues)
			require.Len(t, res.Records, len(recs))
			for i := range recs {
				assert.True(t, recs[i].Equal(res.Records[i]), "record %d", i)
				assert.Equal(t, recs[i].GameID, res.Records[i].GameID)
			}
		})
	}
}

func TestImport_CountMismatch(t *testing.T) {
	d := descriptor(t, catalog.Accessory)
	base := accessories(t, d)
	text, err := ExportString(d, base)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSuffix(text, "\n"), "\n")
	short := strings.Join(lines[:len(lines)-2], "\n")

	res, err := ImportString(d, short, Options{Base: base})
	require.NoError(t, err)
	require.Len(t, res.Issues, 1)
	assert.Equal(t, -1, res.Issues[0].Row)
	assert.ErrorIs(t, res.Issues[0].Err, common.ErrCountMismatch)

	require.Len(t, res.Records, d.Count, "missing rows come from the base")
	assert.True(t, base[79].Equal(res.Records[79]))

	long := text + strings.Replace(lines[80], "79,", "80,", 1) + "\n"
	res, err = ImportString(d, long, Options{Base: base})
	require.NoError(t, err)
	require.Len(t, res.Issues, 1)
	var mismatch *common.CountMismatchError
	require.True(t, errors.As(res.Issues[0].Err, &mismatch))
	assert.Equal(t, 80, mismatch.Expected)
	assert.Equal(t, 81, mismatch.Actual)
	assert.Len(t, res.Records, d.Count)
}

func TestImport_CollectsEveryIssue(t *testing.T) {
	d := descriptor(t, catalog.Accessory)
	base := accessories(t, d)
	text, err := ExportString(d, base)
	require.NoError(t, err)

	text = rewrite(t, d, text, 3, "buy_price", "abc")
	text = rewrite(t, d, text, 7, "trait_1_id", "500")

	res, err := ImportString(d, text, Options{Base: base})
	require.NoError(t, err)
	require.Len(t, res.Issues, 2)

	assert.Equal(t, 3, res.Issues[0].Row)
	assert.Equal(t, "buy_price", res.Issues[0].Field)
	assert.Equal(t, 7, res.Issues[1].Row)
	assert.Equal(t, "trait_1_id", res.Issues[1].Field)
	assert.ErrorIs(t, res.Issues[1].Err, common.ErrFieldOutOfRange)

	assert.Equal(t, int64(100), res.Records[3].Int("buy_price"), "invalid cell keeps the base value")
	assert.Equal(t, int64(-1), res.Records[7].Int("trait_1_id"))
}

func TestImport_NonNumericWithoutBase(t *testing.T) {
	d := descriptor(t, catalog.Accessory)
	text, err := ExportString(d, accessories(t, d))
	require.NoError(t, err)
	text = rewrite(t, d, text, 5, "buy_price", "lots")

	res, err := ImportString(d, text, Options{})
	require.NoError(t, err)
	require.Len(t, res.Issues, 1)
	assert.Equal(t, ValidationIssue{Row: 5, Field: "buy_price", Reason: `"lots" is not an integer`, Err: res.Issues[0].Err}, res.Issues[0])
	assert.Equal(t, int64(0), res.Records[5].Int("buy_price"), "falls back to zero")
	assert.Equal(t, "row 5, buy_price: \"lots\" is not an integer", res.Issues[0].String())
}

func TestImport_FieldChecks(t *testing.T) {
	testCases := []struct {
		name    string
		typ     string
		column  string
		value   string
		wantErr error
	}{
		{"above kind range", catalog.Accessory, "buy_price", "70000", common.ErrFieldOutOfRange},
		{"below kind range", catalog.Accessory, "character_flags", "-1", common.ErrFieldOutOfRange},
		{"name too long", catalog.Accessory, "name", strings.Repeat("x", 18), common.ErrFieldTooLong},
		{"unencodable text", catalog.Accessory, "name", "勇者", common.ErrInvalidText},
		{"shop item beyond items", catalog.Shop, "item_id_1", "512", common.ErrFieldOutOfRange},
		{"shop item below sentinel", catalog.Shop, "item_id_1", "-2", common.ErrFieldOutOfRange},
		{"chest item may be gold", catalog.TreasureChest, "item_id", "600", nil},
		{"chest item empty", catalog.TreasureChest, "item_id", "-1", nil},
		{"float", catalog.Character, "max_mp_growth", "1.5e2", nil},
		{"bad float", catalog.Character, "max_mp_growth", "fast", nil},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			d := descriptor(t, tc.typ)
			base := make([]*record.Record, d.Count)
			for i := range base {
				base[i] = record.New(d.Layout, i)
				base[i].GameID = d.GameIDBase + i
			}
			text, err := ExportString(d, base)
			require.NoError(t, err)
			text = rewrite(t, d, text, 0, tc.column, tc.value)

			res, err := ImportString(d, text, Options{Base: base})
			require.NoError(t, err)
			if tc.name == "bad float" {
				require.Len(t, res.Issues, 1)
				return
			}
			if tc.wantErr == nil {
				assert.Empty(t, res.Issues)
				return
			}
			require.Len(t, res.Issues, 1)
			assert.Equal(t, tc.column, res.Issues[0].Field)
			assert.ErrorIs(t, res.Issues[0].Err, tc.wantErr)
		})
	}
}

func TestImport_Columns(t *testing.T) {
	d := descriptor(t, catalog.TreasureChest)
	base := make([]*record.Record, d.Count)
	for i := range base {
		base[i] = record.New(d.Layout, i)
	}

	var b strings.Builder
	b.WriteString("id,item_id,colour\n")
	for i := 0; i < d.Count; i++ {
		fmt.Fprintf(&b, "%d,%d,red\n", i, i)
	}

	res, err := ImportString(d, b.String(), Options{Base: base})
	require.NoError(t, err)
	require.Len(t, res.Issues, 2)
	assert.Equal(t, ValidationIssue{Row: -1, Field: "colour", Reason: "unknown column"}, res.Issues[0])
	assert.Equal(t, ValidationIssue{Row: -1, Field: "item_amount", Reason: "missing column"}, res.Issues[1])
	assert.Equal(t, int64(42), res.Records[42].Int("item_id"))
}

func TestImport_ReadOnlyColumns(t *testing.T) {
	d := descriptor(t, catalog.Accessory)
	base := accessories(t, d)
	text, err := ExportString(d, base)
	require.NoError(t, err)
	text = rewrite(t, d, text, 2, ColumnGameID, "7")
	text = rewrite(t, d, text, 4, ColumnID, "9")

	res, err := ImportString(d, text, Options{Base: base})
	require.NoError(t, err)
	require.Len(t, res.Issues, 2)
	assert.Equal(t, ColumnGameID, res.Issues[0].Field)
	assert.Equal(t, 2, res.Issues[0].Row)
	assert.Equal(t, ColumnID, res.Issues[1].Field)
	assert.Equal(t, 4, res.Issues[1].Row)
}

func TestImport_Description(t *testing.T) {
	d := descriptor(t, catalog.Accessory)
	base := accessories(t, d)
	base[9].HasDesc = false
	base[9].Description = ""
	text, err := ExportString(d, base)
	require.NoError(t, err)
	text = rewrite(t, d, text, 1, ColumnDescription, "New text")
	text = rewrite(t, d, text, 9, ColumnDescription, "Nowhere to go")

	res, err := ImportString(d, text, Options{Base: base})
	require.NoError(t, err)
	require.Len(t, res.Issues, 1)
	assert.Equal(t, 9, res.Issues[0].Row)
	assert.Equal(t, "New text", res.Records[1].Description)
	assert.Equal(t, "", res.Records[9].Description)
}

func TestImport_Errors(t *testing.T) {
	d := descriptor(t, catalog.Accessory)

	_, err := ImportString(d, "", Options{})
	assert.Error(t, err)

	_, err = ImportString(d, "id,name\n1,\"unterminated\n", Options{})
	assert.Error(t, err)
}

func TestImport_MultiSource(t *testing.T) {
	d := descriptor(t, catalog.Enemy)
	base := make([]*record.Record, 3)
	for i := range base {
		base[i] = record.New(d.Layout, i)
		base[i].GameID = 10 + i
		base[i].Origin = "a001_ep.enp"
	}
	text, err := ExportString(d, base)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(text, "id,game_id,origin,name_jp,"))

	res, err := ImportString(d, text, Options{Base: base})
	require.NoError(t, err)
	assert.Empty(t, res.Issues)
	assert.Len(t, res.Records, 3)

	text = rewrite(t, d, text, 1, ColumnOrigin, "b002_ep.enp")
	res, err = ImportString(d, text, Options{Base: base})
	require.NoError(t, err)
	require.Len(t, res.Issues, 1)
	assert.Equal(t, ColumnOrigin, res.Issues[0].Field)
}

func TestImport_UneditedCellsKeepBaseValues(t *testing.T) {
	testCases := []struct {
		name  string
		typ   string
		patch func(buf []byte)
	}{
		{"undecodable shift-jis", catalog.WeaponEffect, func(buf []byte) { copy(buf, []byte{0x82, 0xA0, 0x82, 0x00}) }},
		{"undecodable latin", catalog.Character, func(buf []byte) { copy(buf, []byte{0x81, 0x5B}) }},
		{"nan payload", catalog.Character, func(buf []byte) { copy(buf[48:], []byte{0x7F, 0xC0, 0x00, 0x01}) }},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			d := descriptor(t, tc.typ)
			base := make([]*record.Record, d.Count)
			for i := range base {
				buf := make([]byte, d.Layout.Size())
				if i == 1 {
					tc.patch(buf)
				}
				rec, err := record.Decode(d.Layout, i, buf)
				require.NoError(t, err)
				base[i] = rec
			}

			text, err := ExportString(d, base)
			require.NoError(t, err)
			res, err := ImportString(d, text, Options{Base: base})
			require.NoError(t, err)
			assert.Empty(t, res.Issues)
			for i := range base {
				assert.True(t, base[i].Equal(res.Records[i]), "record %d", i)
			}
		})
	}
}

func TestImport_NaNPayload(t *testing.T) {
	d := descriptor(t, catalog.Character)
	recs := characters(t, d)
	payload := math.Float32frombits(0x7FC00001)
	require.NoError(t, recs[2].Set("unknown_1", payload))

	text, err := ExportString(d, recs)
	require.NoError(t, err)
	assert.Contains(t, text, ",NaN:0x7fc00001,")

	res, err := ImportString(d, text, Options{})
	require.NoError(t, err)
	assert.Empty(t, res.Issues)
	assert.Equal(t, uint32(0x7FC00001), math.Float32bits(res.Records[2].Float("unknown_1")))
	assert.Equal(t, math.Float32bits(recs[1].Float("unknown_1")), math.Float32bits(res.Records[1].Float("unknown_1")))

	bad := rewrite(t, d, text, 0, "unknown_1", "NaN:0x3f800000")
	res, err = ImportString(d, bad, Options{})
	require.NoError(t, err)
	require.Len(t, res.Issues, 1)
	assert.Equal(t, "unknown_1", res.Issues[0].Field)
	assert.ErrorIs(t, res.Issues[0].Err, common.ErrFieldOutOfRange)
}

func TestImport_EnemyTaskSlot(t *testing.T) {
	d := descriptor(t, catalog.EnemyTask)
	base := make([]*record.Record, 2)
	for i := range base {
		base[i] = record.New(d.Layout, i)
		base[i].GameID = 4
		base[i].Origin = "a001_ep.enp"
		base[i].Slot = 1 + 2*i
		require.NoError(t, base[i].Set("type_id", int64(i)))
	}
	text, err := ExportString(d, base)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(text, "id,game_id,origin,slot,type_id,task_id,param_id\n"), text)
	assert.Contains(t, text, "\n1,4,a001_ep.enp,3,1,0,0\n")

	res, err := ImportString(d, text, Options{Base: base})
	require.NoError(t, err)
	assert.Empty(t, res.Issues)

	res, err = ImportString(d, text, Options{})
	require.NoError(t, err)
	assert.Empty(t, res.Issues)
	assert.Equal(t, 3, res.Records[1].Slot)

	moved := rewrite(t, d, text, 1, ColumnSlot, "2")
	res, err = ImportString(d, moved, Options{Base: base})
	require.NoError(t, err)
	require.Len(t, res.Issues, 1)
	assert.Equal(t, ColumnSlot, res.Issues[0].Field)
}
