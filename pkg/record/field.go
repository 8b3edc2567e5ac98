package record

import (
	"fmt"
	"strings"
)

// Domain narrows the values an integer field accepts below what its kind can
// represent. Sentinels are accepted in addition to [Min, Max].
type Domain struct {
	Name      string
	Min       int64
	Max       int64
	Sentinels []int64
}

// Contains reports whether v lies in the domain.
func (d *Domain) Contains(v int64) bool {
	if d == nil {
		return true
	}
	for _, s := range d.Sentinels {
		if v == s {
			return true
		}
	}
	return v >= d.Min && v <= d.Max
}

func (d *Domain) String() string {
	if d == nil {
		return ""
	}
	var b strings.Builder
	if d.Name != "" {
		b.WriteString(d.Name)
		b.WriteString(" ")
	}
	fmt.Fprintf(&b, "%d..%d", d.Min, d.Max)
	for _, s := range d.Sentinels {
		fmt.Fprintf(&b, " or %d", s)
	}
	return b.String()
}

// Field describes one value inside a record.
type Field struct {
	Name     string
	Kind     Kind
	Offset   int
	Width    int      // String fields only
	Encoding Encoding // String fields only
	Domain   *Domain
}

// Size is the number of bytes the field occupies.
func (f Field) Size() int {
	if f.Kind == String {
		return f.Width
	}
	return f.Kind.Size()
}

// End is the offset just past the field.
func (f Field) End() int {
	return f.Offset + f.Size()
}

// Int8Field and the helpers below build fields for layout tables.
func Int8Field(name string, offset int) Field { return Field{Name: name, Kind: Int8, Offset: offset} }

func Uint8Field(name string, offset int) Field { return Field{Name: name, Kind: Uint8, Offset: offset} }

func Int16Field(name string, offset int) Field { return Field{Name: name, Kind: Int16, Offset: offset} }

func Uint16Field(name string, offset int) Field {
	return Field{Name: name, Kind: Uint16, Offset: offset}
}

func Int32Field(name string, offset int) Field { return Field{Name: name, Kind: Int32, Offset: offset} }

func Uint32Field(name string, offset int) Field {
	return Field{Name: name, Kind: Uint32, Offset: offset}
}

func Float32Field(name string, offset int) Field {
	return Field{Name: name, Kind: Float32, Offset: offset}
}

// TextField is a NUL-padded string of width bytes.
func TextField(name string, offset, width int, enc Encoding) Field {
	return Field{Name: name, Kind: String, Offset: offset, Width: width, Encoding: enc}
}

// WithDomain returns a copy of f restricted to d.
func (f Field) WithDomain(d *Domain) Field {
	f.Domain = d
	return f
}

// Repeat builds count fields of the same kind spaced stride bytes apart,
// named by format with the 1-based index (for example "element_%d").
func Repeat(format string, kind Kind, offset, stride, count int) []Field {
	fields := make([]Field, 0, count)
	for i := 0; i < count; i++ {
		fields = append(fields, Field{
			Name:   fmt.Sprintf(format, i+1),
			Kind:   kind,
			Offset: offset + i*stride,
		})
	}
	return fields
}

// Named builds one field per name, laid out back to back.
func Named(kind Kind, offset int, names ...string) []Field {
	fields := make([]Field, 0, len(names))
	for i, name := range names {
		fields = append(fields, Field{Name: name, Kind: kind, Offset: offset + i*kind.Size()})
	}
	return fields
}
