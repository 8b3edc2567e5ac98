package gcn

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ChaseLewis/SOARandomizer/pkg/common"
)

func TestParseVersion(t *testing.T) {
	testCases := []struct {
		gameID string
		region Region
		ok     bool
	}{
		{"GEAE8P", RegionUS, true},
		{"GEAJ8P", RegionJP, true},
		{"GEAP8P", RegionEU, true},
		{"GEAX8P", "", false},
		{"GZLE01", "", false},
		{"GEA", "", false},
	}

	for _, tc := range testCases {
		t.Run(tc.gameID, func(t *testing.T) {
			v, err := ParseVersion(tc.gameID)
			if !tc.ok {
				assert.ErrorIs(t, err, common.ErrNotAGameImage)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.region, v.Region)
			assert.Equal(t, tc.gameID, v.GameID)
		})
	}
}

func TestDOLHeaderSize(t *testing.T) {
	var h DOLHeader
	h.TextOffsets[0], h.TextSizes[0] = 0x100, 0x1000
	h.DataOffsets[3], h.DataSizes[3] = 0x2000, 0x80
	h.DataOffsets[4] = 0x9000 // empty section does not count
	assert.Equal(t, int64(0x2080), h.Size())
}

func TestParseFST_Corrupt(t *testing.T) {
	_, err := parseFST([]byte{1, 0, 0}, 1<<20)
	assert.ErrorIs(t, err, common.ErrCorruptData)

	// root claims 5 entries but only one fits
	table := make([]byte, 12)
	table[0] = 1
	table[11] = 5
	_, err = parseFST(table, 1<<20)
	assert.ErrorIs(t, err, common.ErrCorruptData)
}
