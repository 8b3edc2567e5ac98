// Package record encodes and decodes fixed-layout big-endian records.
//
// A Layout is an ordered list of typed fields at fixed byte offsets. Decoding
// produces one value per field (int64 for integers, float32 for floats and
// string for text); encoding writes the values back into a copy of the
// original record bytes so that bytes not covered by any field are preserved.
package record

import (
	"fmt"
	"math"
)

// Kind is the storage type of a field.
type Kind int

const (
	Int8 Kind = iota
	Uint8
	Int16
	Uint16
	Int32
	Uint32
	Float32
	String
)

var kindNames = map[Kind]string{
	Int8:    "i8",
	Uint8:   "u8",
	Int16:   "i16",
	Uint16:  "u16",
	Int32:   "i32",
	Uint32:  "u32",
	Float32: "f32",
	String:  "str",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Size is the byte width of the kind. Strings have no intrinsic width and
// return 0; their width comes from the field.
func (k Kind) Size() int {
	switch k {
	case Int8, Uint8:
		return 1
	case Int16, Uint16:
		return 2
	case Int32, Uint32, Float32:
		return 4
	}
	return 0
}

// IsInteger reports whether the kind is one of the integer kinds.
func (k Kind) IsInteger() bool {
	return k <= Uint32
}

// Bounds returns the representable range of an integer kind.
func (k Kind) Bounds() (lo, hi int64) {
	switch k {
	case Int8:
		return math.MinInt8, math.MaxInt8
	case Uint8:
		return 0, math.MaxUint8
	case Int16:
		return math.MinInt16, math.MaxInt16
	case Uint16:
		return 0, math.MaxUint16
	case Int32:
		return math.MinInt32, math.MaxInt32
	case Uint32:
		return 0, math.MaxUint32
	}
	return 0, 0
}

// ZeroValue is the value a field of this kind holds when nothing else is known.
func (k Kind) ZeroValue() interface{} {
	switch k {
	case Float32:
		return float32(0)
	case String:
		return ""
	}
	return int64(0)
}
