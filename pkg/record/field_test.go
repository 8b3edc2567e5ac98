package record

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRepeatAndNamed(t *testing.T) {
	fields := Repeat("element_%d", Int16, 44, 2, 3)
	assert.Len(t, fields, 3)
	assert.Equal(t, "element_1", fields[0].Name)
	assert.Equal(t, 48, fields[2].Offset)
	assert.Equal(t, 50, fields[2].End())

	named := Named(Float32, 108, "power", "will")
	assert.Equal(t, 112, named[1].Offset)
	assert.Equal(t, "will", named[1].Name)
}

func TestDomain(t *testing.T) {
	d := &Domain{Name: "item", Min: 0, Max: 0x1FF, Sentinels: []int64{-1}}

	assert.True(t, d.Contains(-1))
	assert.True(t, d.Contains(0x1FF))
	assert.False(t, d.Contains(0x200))
	assert.False(t, d.Contains(-2))
	assert.Equal(t, "item 0..511 or -1", d.String())

	var none *Domain
	assert.True(t, none.Contains(-1000))
	assert.Equal(t, "", none.String())

	f := Int16Field("item_id_1", 8).WithDomain(d)
	assert.Same(t, d, f.Domain)
}

func TestKind(t *testing.T) {
	assert.Equal(t, "u16", Uint16.String())
	assert.Equal(t, 4, Float32.Size())
	assert.Equal(t, 0, String.Size())
	assert.True(t, Uint32.IsInteger())
	assert.False(t, Float32.IsInteger())
	lo, hi := Int8.Bounds()
	assert.Equal(t, int64(-128), lo)
	assert.Equal(t, int64(127), hi)
	assert.Equal(t, "", String.ZeroValue())
	assert.Equal(t, float32(0), Float32.ZeroValue())
	assert.Equal(t, int64(0), Int32.ZeroValue())
}
