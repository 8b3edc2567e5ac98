package gcn

import (
	"fmt"

	bst "github.com/mixcode/binarystruct"

	"github.com/ChaseLewis/SOARandomizer/pkg/common"
)

// parseDOLHeader decodes the section table from the first bytes of an executable.
func parseDOLHeader(b []byte) (DOLHeader, error) {
	var hdr DOLHeader
	if len(b) < DOLHeaderSize {
		return hdr, common.NewCorruptData(ExecutablePath, len(b), "header needs %d bytes", DOLHeaderSize)
	}
	if _, err := bst.Unmarshal(b[:DOLHeaderSize], bst.BigEndian, &hdr); err != nil {
		return hdr, fmt.Errorf("%s: %w", ExecutablePath, err)
	}
	return hdr, nil
}

// Size is the executable's length: the furthest end of any text or data section.
func (h DOLHeader) Size() int64 {
	var size int64
	for i := 0; i < dolTextSections; i++ {
		if end := int64(h.TextOffsets[i]) + int64(h.TextSizes[i]); h.TextSizes[i] > 0 && end > size {
			size = end
		}
	}
	for i := 0; i < dolDataSections; i++ {
		if end := int64(h.DataOffsets[i]) + int64(h.DataSizes[i]); h.DataSizes[i] > 0 && end > size {
			size = end
		}
	}
	return size
}
