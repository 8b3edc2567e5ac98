package record

import (
	"encoding/binary"
	"fmt"
	"math"
	"sort"

	"github.com/ChaseLewis/SOARandomizer/pkg/common"
)

// Layout is an immutable record layout: a byte size and the fields inside it.
type Layout struct {
	size   int
	fields []Field
	index  map[string]int
}

// NewLayout checks that every field lies inside size bytes, that names are
// unique and that no two fields overlap.
func NewLayout(size int, fields ...Field) (*Layout, error) {
	if size <= 0 {
		return nil, fmt.Errorf("layout size must be positive, got %d", size)
	}

	l := &Layout{
		size:   size,
		fields: append([]Field(nil), fields...),
		index:  make(map[string]int, len(fields)),
	}

	for i, f := range l.fields {
		if f.Name == "" {
			return nil, fmt.Errorf("field %d has no name", i)
		}
		if _, dup := l.index[f.Name]; dup {
			return nil, fmt.Errorf("duplicate field %q", f.Name)
		}
		if f.Size() <= 0 {
			return nil, fmt.Errorf("field %q has no width", f.Name)
		}
		if f.Offset < 0 || f.End() > size {
			return nil, fmt.Errorf("field %q [%d,%d) exceeds record size %d", f.Name, f.Offset, f.End(), size)
		}
		l.index[f.Name] = i
	}

	byOffset := append([]Field(nil), l.fields...)
	sort.Slice(byOffset, func(i, j int) bool { return byOffset[i].Offset < byOffset[j].Offset })
	for i := 1; i < len(byOffset); i++ {
		if byOffset[i].Offset < byOffset[i-1].End() {
			return nil, fmt.Errorf("field %q overlaps %q", byOffset[i].Name, byOffset[i-1].Name)
		}
	}

	return l, nil
}

// MustLayout is NewLayout for static tables; it panics on an invalid layout.
func MustLayout(size int, fields ...Field) *Layout {
	l, err := NewLayout(size, fields...)
	if err != nil {
		panic(err)
	}
	return l
}

// Size is the record width in bytes.
func (l *Layout) Size() int { return l.size }

// Len is the number of fields.
func (l *Layout) Len() int { return len(l.fields) }

// Field returns the i-th field.
func (l *Layout) Field(i int) Field { return l.fields[i] }

// Fields returns a copy of the field list.
func (l *Layout) Fields() []Field { return append([]Field(nil), l.fields...) }

// Index returns the position of the named field.
func (l *Layout) Index(name string) (int, bool) {
	i, ok := l.index[name]
	return i, ok
}

// Covered reports whether byte offset off belongs to some field.
func (l *Layout) Covered(off int) bool {
	for _, f := range l.fields {
		if off >= f.Offset && off < f.End() {
			return true
		}
	}
	return false
}

// Decode reads every field from buf, which must hold at least Size bytes.
func (l *Layout) Decode(buf []byte) ([]interface{}, error) {
	if len(buf) < l.size {
		return nil, common.NewCorruptData("record", len(buf), "need %d bytes, have %d", l.size, len(buf))
	}
	values := make([]interface{}, len(l.fields))
	for i := range l.fields {
		v, err := l.DecodeField(i, buf)
		if err != nil {
			return nil, err
		}
		values[i] = v
	}
	return values, nil
}

// DecodeField reads the i-th field from buf.
func (l *Layout) DecodeField(i int, buf []byte) (interface{}, error) {
	f := l.fields[i]
	b := buf[f.Offset:f.End()]
	switch f.Kind {
	case Int8:
		return int64(int8(b[0])), nil
	case Uint8:
		return int64(b[0]), nil
	case Int16:
		return int64(int16(binary.BigEndian.Uint16(b))), nil
	case Uint16:
		return int64(binary.BigEndian.Uint16(b)), nil
	case Int32:
		return int64(int32(binary.BigEndian.Uint32(b))), nil
	case Uint32:
		return int64(binary.BigEndian.Uint32(b)), nil
	case Float32:
		return math.Float32frombits(binary.BigEndian.Uint32(b)), nil
	case String:
		s, err := f.Encoding.Decode(common.CString(b))
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", f.Name, err)
		}
		return s, nil
	}
	return nil, fmt.Errorf("field %s: unsupported kind %s", f.Name, f.Kind)
}

// Encode writes values into dst, which must be the record's current bytes.
// Bytes outside the declared fields are left untouched.
func (l *Layout) Encode(values []interface{}, dst []byte) error {
	if len(values) != len(l.fields) {
		return fmt.Errorf("record has %d values, layout has %d fields", len(values), len(l.fields))
	}
	if len(dst) < l.size {
		return common.NewCorruptData("record", len(dst), "need %d bytes, have %d", l.size, len(dst))
	}
	for i, v := range values {
		if err := l.EncodeField(i, v, dst); err != nil {
			return err
		}
	}
	return nil
}

// EncodeField writes a single value. Strings equal to what dst already holds
// are not re-encoded, which keeps any bytes after their terminator. A NaN
// written over a NaN keeps the stored payload.
func (l *Layout) EncodeField(i int, v interface{}, dst []byte) error {
	f := l.fields[i]
	b := dst[f.Offset:f.End()]

	switch f.Kind {
	case Float32:
		fv, ok := toFloat32(v)
		if !ok {
			return &common.FieldError{Field: f.Name, Value: v, Limit: "float", Err: common.ErrFieldOutOfRange}
		}
		old := math.Float32frombits(binary.BigEndian.Uint32(b))
		if isNaN32(fv) && isNaN32(old) {
			return nil
		}
		binary.BigEndian.PutUint32(b, math.Float32bits(fv))
		return nil

	case String:
		s, ok := v.(string)
		if !ok {
			return &common.FieldError{Field: f.Name, Value: v, Limit: "text", Err: common.ErrInvalidText}
		}
		current, err := f.Encoding.Decode(common.CString(b))
		if err == nil && current == s {
			return nil
		}
		encoded, err := f.Encoding.Encode(s)
		if err != nil {
			return &common.FieldError{Field: f.Name, Value: s, Err: err}
		}
		if len(encoded) > f.Width {
			return &common.FieldError{
				Field: f.Name,
				Value: s,
				Limit: fmt.Sprintf("%d bytes encoded, max %d", len(encoded), f.Width),
				Err:   common.ErrFieldTooLong,
			}
		}
		n := copy(b, encoded)
		clear(b[n:])
		return nil
	}

	iv, ok := toInt64(v)
	if !ok {
		return &common.FieldError{Field: f.Name, Value: v, Limit: f.Kind.String(), Err: common.ErrFieldOutOfRange}
	}
	return putInt(f, iv, b)
}

func putInt(f Field, v int64, b []byte) error {
	wrap := func(err error) error {
		lo, hi := f.Kind.Bounds()
		return &common.FieldError{Field: f.Name, Value: v, Limit: fmt.Sprintf("%s %d..%d", f.Kind, lo, hi), Err: common.ErrFieldOutOfRange}
	}

	switch f.Kind {
	case Int8:
		x, err := common.SafeInt64ToInt8(v)
		if err != nil {
			return wrap(err)
		}
		b[0] = byte(x)
	case Uint8:
		x, err := common.SafeInt64ToUint8(v)
		if err != nil {
			return wrap(err)
		}
		b[0] = x
	case Int16:
		x, err := common.SafeInt64ToInt16(v)
		if err != nil {
			return wrap(err)
		}
		binary.BigEndian.PutUint16(b, uint16(x))
	case Uint16:
		x, err := common.SafeInt64ToUint16(v)
		if err != nil {
			return wrap(err)
		}
		binary.BigEndian.PutUint16(b, x)
	case Int32:
		x, err := common.SafeInt64ToInt32(v)
		if err != nil {
			return wrap(err)
		}
		binary.BigEndian.PutUint32(b, uint32(x))
	case Uint32:
		x, err := common.SafeInt64ToUint32(v)
		if err != nil {
			return wrap(err)
		}
		binary.BigEndian.PutUint32(b, x)
	default:
		return fmt.Errorf("field %s: unsupported kind %s", f.Name, f.Kind)
	}
	return nil
}

func toInt64(v interface{}) (int64, bool) {
	switch x := v.(type) {
	case int64:
		return x, true
	case int:
		return int64(x), true
	case int32:
		return int64(x), true
	case int16:
		return int64(x), true
	case int8:
		return int64(x), true
	case uint8:
		return int64(x), true
	case uint16:
		return int64(x), true
	case uint32:
		return int64(x), true
	}
	return 0, false
}

func toFloat32(v interface{}) (float32, bool) {
	switch x := v.(type) {
	case float32:
		return x, true
	case float64:
		return float32(x), true
	}
	return 0, false
}

func isNaN32(f float32) bool {
	return f != f
}
