package gcn

import (
	"encoding/binary"
	"strings"

	"github.com/ChaseLewis/SOARandomizer/pkg/common"
)

// parseFST walks the file-system table and returns its files in table order.
// Directories are only used to build paths.
func parseFST(data []byte, discSize int64) ([]FileEntry, error) {
	if len(data) < FSTEntrySize {
		return nil, common.NewCorruptData("FST", 0, "table shorter than its root entry")
	}

	root := readFSTEntry(data, 0)
	if !root.isDir() {
		return nil, common.NewCorruptData("FST", 0, "root entry is not a directory")
	}
	count := int(root.Size)
	stringTable := count * FSTEntrySize
	if count < 1 || stringTable > len(data) {
		return nil, common.NewCorruptData("FST", 8, "entry count %d does not fit in %d bytes", count, len(data))
	}
	names := data[stringTable:]

	type dirFrame struct {
		name string
		end  int
	}
	var stack []dirFrame
	var files []FileEntry

	for i := 1; i < count; i++ {
		for len(stack) > 0 && i >= stack[len(stack)-1].end {
			stack = stack[:len(stack)-1]
		}

		e := readFSTEntry(data, i*FSTEntrySize)
		if int(e.NameOffset) >= len(names) {
			return nil, common.NewCorruptData("FST", i*FSTEntrySize, "name offset 0x%X outside string table", e.NameOffset)
		}
		name := string(common.CString(names[e.NameOffset:]))
		if !common.IsValidFileName(name) {
			return nil, common.NewCorruptData("FST", i*FSTEntrySize, "invalid file name %q", name)
		}

		if e.isDir() {
			end := int(e.Size)
			if end <= i || end > count {
				return nil, common.NewCorruptData("FST", i*FSTEntrySize, "directory %q ends at entry %d", name, end)
			}
			stack = append(stack, dirFrame{name: name, end: end})
			continue
		}

		if int64(e.Offset)+int64(e.Size) > discSize {
			return nil, common.NewCorruptData("FST", i*FSTEntrySize, "file %q [0x%X,+0x%X) beyond disc end", name, e.Offset, e.Size)
		}

		parts := make([]string, 0, len(stack)+1)
		for _, d := range stack {
			parts = append(parts, d.name)
		}
		parts = append(parts, name)

		entry := FileEntry{
			Index:  i,
			Path:   strings.Join(parts, "/"),
			Offset: int64(e.Offset),
			Size:   int64(e.Size),
		}
		common.LogDebug(common.DebugFSTEntry, i, entry.Path, entry.Offset, entry.Size)
		files = append(files, entry)
	}

	return files, nil
}

func readFSTEntry(data []byte, off int) fstRawEntry {
	b := data[off : off+FSTEntrySize]
	return fstRawEntry{
		Flags:      b[0],
		NameOffset: uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3]),
		Offset:     binary.BigEndian.Uint32(b[4:8]),
		Size:       binary.BigEndian.Uint32(b[8:12]),
	}
}
