// Package csvio converts record collections to and from CSV text.
//
// A CSV file holds one entry type: a header row of column names followed by
// one row per record in ID order. Columns are the record id, the read-only
// game_id, origin and slot columns where the type has them, every layout field,
// and a description column for types with descriptions.
package csvio

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/ChaseLewis/SOARandomizer/pkg/catalog"
	"github.com/ChaseLewis/SOARandomizer/pkg/common"
	"github.com/ChaseLewis/SOARandomizer/pkg/record"
)

// Column names that do not come from the layout.
const (
	ColumnID          = "id"
	ColumnGameID      = "game_id"
	ColumnOrigin      = "origin"
	ColumnSlot        = "slot"
	ColumnDescription = "description"
)

// Columns returns the header row for an entry type.
func Columns(d *catalog.Descriptor) []string {
	cols := []string{ColumnID}
	if d.HasGameID {
		cols = append(cols, ColumnGameID)
	}
	if d.MultiSource {
		cols = append(cols, ColumnOrigin)
	}
	if d.HasSlot {
		cols = append(cols, ColumnSlot)
	}
	for _, f := range d.Layout.Fields() {
		cols = append(cols, f.Name)
	}
	if d.Descriptions != nil {
		cols = append(cols, ColumnDescription)
	}
	return cols
}

// Export writes records as CSV.
func Export(d *catalog.Descriptor, recs []*record.Record, w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns(d)); err != nil {
		return common.FormatError(common.ErrFailedToExportCSV, err)
	}
	for _, r := range recs {
		if err := cw.Write(exportRow(d, r)); err != nil {
			return common.FormatError(common.ErrFailedToExportCSV, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return common.FormatError(common.ErrFailedToExportCSV, err)
	}
	return nil
}

// ExportString is Export into a string.
func ExportString(d *catalog.Descriptor, recs []*record.Record) (string, error) {
	var buf bytes.Buffer
	if err := Export(d, recs, &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func exportRow(d *catalog.Descriptor, r *record.Record) []string {
	row := []string{strconv.Itoa(r.ID)}
	if d.HasGameID {
		row = append(row, strconv.Itoa(r.GameID))
	}
	if d.MultiSource {
		row = append(row, r.Origin)
	}
	if d.HasSlot {
		row = append(row, strconv.Itoa(r.Slot))
	}
	for i := 0; i < d.Layout.Len(); i++ {
		row = append(row, formatValue(d.Layout.Field(i), r.Values[i]))
	}
	if d.Descriptions != nil {
		row = append(row, r.Description)
	}
	return row
}

// NaN payloads other than the canonical quiet NaN are written as
// NaN:0x<bits> so they survive a round trip.
const (
	nanPrefix    = "NaN:0x"
	canonicalNaN = 0x7FC00000
)

// formatValue renders a value in locale-neutral form.
func formatValue(f record.Field, v interface{}) string {
	switch f.Kind {
	case record.String:
		s, _ := v.(string)
		return s
	case record.Float32:
		fv, _ := v.(float32)
		if math.IsNaN(float64(fv)) {
			if bits := math.Float32bits(fv); bits != canonicalNaN {
				return fmt.Sprintf("%s%08x", nanPrefix, bits)
			}
			return "NaN"
		}
		return strconv.FormatFloat(float64(fv), 'g', -1, 32)
	}
	switch x := v.(type) {
	case int64:
		return strconv.FormatInt(x, 10)
	case int:
		return strconv.Itoa(x)
	}
	return fmt.Sprint(v)
}
