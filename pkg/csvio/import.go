package csvio

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/ChaseLewis/SOARandomizer/pkg/catalog"
	"github.com/ChaseLewis/SOARandomizer/pkg/common"
	"github.com/ChaseLewis/SOARandomizer/pkg/record"
)

// ValidationIssue is one problem found while importing. Row is the 0-based
// data row (the record id it maps to), or -1 when the issue concerns the
// whole file. Field is empty for row-level issues.
type ValidationIssue struct {
	Row    int
	Field  string
	Reason string
	Err    error
}

func (i ValidationIssue) String() string {
	var where string
	switch {
	case i.Row < 0 && i.Field == "":
		where = "file"
	case i.Row < 0:
		where = "column " + i.Field
	case i.Field == "":
		where = fmt.Sprintf("row %d", i.Row)
	default:
		where = fmt.Sprintf("row %d, %s", i.Row, i.Field)
	}
	return where + ": " + i.Reason
}

// Options controls Import.
type Options struct {
	// Base supplies the fallback for cells that fail validation, the values of
	// missing columns and rows, and the expected read-only column values. When
	// nil, fallbacks are the fields' zero values.
	Base []*record.Record
}

// Result is the outcome of an import. Records always holds exactly the
// expected number of records; Issues lists every problem found.
type Result struct {
	Records []*record.Record
	Issues  []ValidationIssue
}

// OK reports whether the import produced no issues.
func (r *Result) OK() bool { return len(r.Issues) == 0 }

// Import parses CSV text for one entry type. Every cell is validated and
// every problem is collected; an error is returned only when the text is not
// CSV at all or has no header row.
func Import(d *catalog.Descriptor, r io.Reader, opts Options) (*Result, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, common.FormatError(common.ErrFailedToImportCSV, err)
	}
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, common.FormatErrorString(common.ErrFailedToImportCSV, "%s: missing header row", d.Name)
	}

	im := newImporter(d, opts)
	im.mapHeader(rows[0])
	im.importRows(rows[1:])
	return &Result{Records: im.records, Issues: im.issues}, nil
}

// ImportString is Import from a string.
func ImportString(d *catalog.Descriptor, text string, opts Options) (*Result, error) {
	return Import(d, strings.NewReader(text), opts)
}

type importer struct {
	desc     *catalog.Descriptor
	base     []*record.Record
	expected int

	columns  map[string]int
	width    int
	records  []*record.Record
	issues   []ValidationIssue
	hasBase  bool
	fieldCol []int // column of each layout field, -1 when missing
}

func newImporter(d *catalog.Descriptor, opts Options) *importer {
	expected := d.Count
	if d.MultiSource {
		expected = len(opts.Base)
	}
	return &importer{
		desc:     d,
		base:     opts.Base,
		hasBase:  opts.Base != nil,
		expected: expected,
		columns:  make(map[string]int),
	}
}

func (im *importer) issue(row int, field, reason string, err error) {
	im.issues = append(im.issues, ValidationIssue{Row: row, Field: field, Reason: reason, Err: err})
}

func (im *importer) mapHeader(header []string) {
	im.width = len(header)
	known := make(map[string]bool)
	for _, c := range Columns(im.desc) {
		known[c] = true
	}

	for i, name := range header {
		name = strings.TrimSpace(name)
		switch {
		case !known[name]:
			im.issue(-1, name, "unknown column", nil)
		case im.hasColumn(name):
			im.issue(-1, name, "duplicate column", nil)
		default:
			im.columns[name] = i
		}
	}

	for _, c := range Columns(im.desc) {
		if c == ColumnID || c == ColumnGameID || c == ColumnOrigin || c == ColumnSlot {
			continue
		}
		if !im.hasColumn(c) {
			im.issue(-1, c, "missing column", nil)
		}
	}

	im.fieldCol = make([]int, im.desc.Layout.Len())
	for i := range im.fieldCol {
		col, ok := im.columns[im.desc.Layout.Field(i).Name]
		if !ok {
			col = -1
		}
		im.fieldCol[i] = col
	}
}

func (im *importer) hasColumn(name string) bool {
	_, ok := im.columns[name]
	return ok
}

// importRows maps rows onto records in file order.
func (im *importer) importRows(rows [][]string) {
	expected := im.expected
	if im.desc.MultiSource && !im.hasBase {
		expected = len(rows)
	}
	if len(rows) != expected {
		im.issue(-1, "", fmt.Sprintf("expected %d rows, got %d", expected, len(rows)),
			&common.CountMismatchError{Type: im.desc.Name, Expected: expected, Actual: len(rows)})
	}

	im.records = make([]*record.Record, expected)
	for i := 0; i < expected; i++ {
		rec := im.fallback(i)
		if i < len(rows) {
			im.importRow(i, rows[i], rec)
		}
		im.records[i] = rec
	}
}

// fallback is the record a row starts from.
func (im *importer) fallback(i int) *record.Record {
	if i < len(im.base) && im.base[i] != nil {
		return im.base[i].Clone()
	}
	return record.New(im.desc.Layout, i)
}

func (im *importer) cell(row []string, name string) (string, bool) {
	col, ok := im.columns[name]
	if !ok || col >= len(row) {
		return "", false
	}
	return row[col], true
}

func (im *importer) importRow(i int, row []string, rec *record.Record) {
	if len(row) != im.width {
		im.issue(i, "", fmt.Sprintf("expected %d cells, got %d", im.width, len(row)), nil)
	}

	if s, ok := im.cell(row, ColumnID); ok {
		if id, err := strconv.Atoi(strings.TrimSpace(s)); err != nil || id != i {
			im.issue(i, ColumnID, fmt.Sprintf("id %q does not match row position %d", s, i), nil)
		}
	}
	im.checkReadOnly(i, row, rec)

	for f := 0; f < im.desc.Layout.Len(); f++ {
		col := im.fieldCol[f]
		if col < 0 || col >= len(row) {
			continue
		}
		field := im.desc.Layout.Field(f)
		// Unedited cells keep the stored value, even when it would not re-encode.
		if row[col] == formatValue(field, rec.Values[f]) {
			continue
		}
		v, reason, err := parseCell(field, row[col])
		if reason != "" {
			im.issue(i, field.Name, reason, err)
			continue
		}
		rec.Values[f] = v
	}

	if s, ok := im.cell(row, ColumnDescription); ok {
		im.importDescription(i, s, rec)
	}
}

// checkReadOnly compares game_id, origin and slot with the base record.
// Without a base the columns are taken as they are.
func (im *importer) checkReadOnly(i int, row []string, rec *record.Record) {
	withBase := im.hasBase && i < len(im.base)
	if s, ok := im.cell(row, ColumnGameID); ok {
		id, err := strconv.Atoi(strings.TrimSpace(s))
		switch {
		case withBase && (err != nil || id != rec.GameID):
			im.issue(i, ColumnGameID, fmt.Sprintf("read-only column changed: %q, want %d", s, rec.GameID), nil)
		case !withBase && err != nil:
			im.issue(i, ColumnGameID, fmt.Sprintf("%q is not an integer", s), err)
		case !withBase:
			rec.GameID = id
		}
	}
	if s, ok := im.cell(row, ColumnOrigin); ok {
		switch {
		case withBase && s != rec.Origin:
			im.issue(i, ColumnOrigin, fmt.Sprintf("read-only column changed: %q, want %q", s, rec.Origin), nil)
		case !withBase:
			rec.Origin = s
		}
	}
	if s, ok := im.cell(row, ColumnSlot); ok {
		slot, err := strconv.Atoi(strings.TrimSpace(s))
		switch {
		case withBase && (err != nil || slot != rec.Slot):
			im.issue(i, ColumnSlot, fmt.Sprintf("read-only column changed: %q, want %d", s, rec.Slot), nil)
		case !withBase && err != nil:
			im.issue(i, ColumnSlot, fmt.Sprintf("%q is not an integer", s), err)
		case !withBase:
			rec.Slot = slot
		}
	}
}

func (im *importer) importDescription(i int, s string, rec *record.Record) {
	if s == rec.Description {
		return
	}
	if im.hasBase && !rec.HasDesc && s != "" {
		im.issue(i, ColumnDescription, "record has no description slot", nil)
		return
	}
	if _, err := record.Latin.Encode(s); err != nil {
		im.issue(i, ColumnDescription, err.Error(), err)
		return
	}
	rec.Description = s
}

// parseNaN reads the NaN:0x<bits> form formatValue writes for NaN payloads.
func parseNaN(s string) (interface{}, string, error) {
	bits, err := strconv.ParseUint(s[len(nanPrefix):], 16, 32)
	if err != nil {
		return nil, fmt.Sprintf("%q is not a number", s), err
	}
	v := math.Float32frombits(uint32(bits))
	if !math.IsNaN(float64(v)) {
		return nil, fmt.Sprintf("%q does not hold a NaN", s), common.ErrFieldOutOfRange
	}
	return v, "", nil
}

// parseCell converts and validates one cell. A non-empty reason means the
// cell was rejected.
func parseCell(f record.Field, s string) (interface{}, string, error) {
	if f.Kind != record.String {
		s = strings.TrimSpace(s)
	}
	switch f.Kind {
	case record.String:
		enc, err := f.Encoding.Encode(s)
		if err != nil {
			return nil, err.Error(), err
		}
		if len(enc) > f.Width {
			return nil, fmt.Sprintf("%d bytes encoded, max %d", len(enc), f.Width), common.ErrFieldTooLong
		}
		return s, "", nil

	case record.Float32:
		if len(s) > len(nanPrefix) && strings.EqualFold(s[:len(nanPrefix)], nanPrefix) {
			return parseNaN(s)
		}
		v, err := strconv.ParseFloat(s, 32)
		if err != nil {
			return nil, fmt.Sprintf("%q is not a number", s), err
		}
		return float32(v), "", nil
	}

	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil, fmt.Sprintf("%q is not an integer", s), err
	}
	if lo, hi := f.Kind.Bounds(); v < lo || v > hi {
		return nil, fmt.Sprintf("%d outside %s range %d..%d", v, f.Kind, lo, hi), common.ErrFieldOutOfRange
	}
	if !f.Domain.Contains(v) {
		return nil, fmt.Sprintf("%d is not a valid %s", v, f.Domain), common.ErrFieldOutOfRange
	}
	return v, "", nil
}
