package record

import (
	"fmt"
	"math"
)

// Record is one decoded entry of a game data table.
type Record struct {
	ID          int    // position in the assembled list
	GameID      int    // identifier the game uses, when it differs from ID
	Origin      string // source file of records that come from several files
	Slot        int    // 1-based position inside the owning record, for nested records
	Description string
	HasDesc     bool
	Layout      *Layout
	Values      []interface{}
}

// New builds a record with every field at its zero value.
func New(layout *Layout, id int) *Record {
	values := make([]interface{}, layout.Len())
	for i := range values {
		values[i] = layout.Field(i).Kind.ZeroValue()
	}
	return &Record{ID: id, GameID: id, Layout: layout, Values: values}
}

// Decode builds a record from raw bytes.
func Decode(layout *Layout, id int, buf []byte) (*Record, error) {
	values, err := layout.Decode(buf)
	if err != nil {
		return nil, err
	}
	return &Record{ID: id, GameID: id, Layout: layout, Values: values}, nil
}

// Get returns the named value.
func (r *Record) Get(name string) (interface{}, bool) {
	i, ok := r.Layout.Index(name)
	if !ok {
		return nil, false
	}
	return r.Values[i], true
}

// Set replaces the named value.
func (r *Record) Set(name string, v interface{}) error {
	i, ok := r.Layout.Index(name)
	if !ok {
		return fmt.Errorf("unknown field %q", name)
	}
	r.Values[i] = v
	return nil
}

// Int returns the named integer value, or 0 when the field is missing.
func (r *Record) Int(name string) int64 {
	v, _ := r.Get(name)
	n, _ := toInt64(v)
	return n
}

// Float returns the named float value, or 0 when the field is missing.
func (r *Record) Float(name string) float32 {
	v, _ := r.Get(name)
	f, _ := toFloat32(v)
	return f
}

// Text returns the named string value, or "" when the field is missing.
func (r *Record) Text(name string) string {
	v, _ := r.Get(name)
	s, _ := v.(string)
	return s
}

// Name is the record's "name" or "name_jp" field.
func (r *Record) Name() string {
	if s := r.Text("name"); s != "" {
		return s
	}
	return r.Text("name_jp")
}

// EncodeInto writes the values over dst, the record's current bytes.
func (r *Record) EncodeInto(dst []byte) error {
	return r.Layout.Encode(r.Values, dst)
}

// Clone returns a deep copy.
func (r *Record) Clone() *Record {
	c := *r
	c.Values = append([]interface{}(nil), r.Values...)
	return &c
}

// Equal compares field values and the description. Floats compare by bit
// pattern so NaN equals itself.
func (r *Record) Equal(o *Record) bool {
	if o == nil || len(r.Values) != len(o.Values) || r.Description != o.Description {
		return false
	}
	for i := range r.Values {
		if !ValueEqual(r.Values[i], o.Values[i]) {
			return false
		}
	}
	return true
}

// FieldsEqual is Equal without the description.
func (r *Record) FieldsEqual(o *Record) bool {
	if o == nil || len(r.Values) != len(o.Values) {
		return false
	}
	for i := range r.Values {
		if !ValueEqual(r.Values[i], o.Values[i]) {
			return false
		}
	}
	return true
}

// ValueEqual compares two decoded values.
func ValueEqual(a, b interface{}) bool {
	if fa, ok := toFloat32(a); ok {
		fb, ok := toFloat32(b)
		return ok && math.Float32bits(fa) == math.Float32bits(fb)
	}
	if ia, ok := toInt64(a); ok {
		ib, ok := toInt64(b)
		return ok && ia == ib
	}
	sa, ok := a.(string)
	if ok {
		sb, ok := b.(string)
		return ok && sa == sb
	}
	return a == b
}
