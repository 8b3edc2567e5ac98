// Package gcntest builds small synthetic GameCube disc images for tests.
package gcntest

import (
	"encoding/binary"
	"sort"
	"strings"
)

// Layout constants of the synthetic discs.
const (
	DOLOffset     = 0x2000
	dolHeaderSize = 0x100
	fstEntrySize  = 12
)

// File is one file placed on a synthetic disc.
type File struct {
	Path  string
	Data  []byte
	Alloc int // allocation size when larger than Data
}

// Disc describes a synthetic disc.
type Disc struct {
	GameID     string
	Title      string
	Executable []byte // whole executable, header included
	Files      []File
}

// Executable returns an executable of size bytes with a single text section
// covering everything after the header. Body bytes follow a fixed pattern.
func Executable(size int) []byte {
	exe := make([]byte, size)
	binary.BigEndian.PutUint32(exe[0x00:], dolHeaderSize)
	binary.BigEndian.PutUint32(exe[0x90:], uint32(size-dolHeaderSize))
	for i := dolHeaderSize; i < size; i++ {
		exe[i] = byte(i * 7)
	}
	return exe
}

// Build assembles the disc and returns its bytes together with the disc
// offset assigned to each file, in the order of d.Files.
func (d Disc) Build() ([]byte, []int) {
	fstOffset := DOLOffset + len(d.Executable)
	fst, offsets := buildFST(d.Files, fstOffset)

	end := fstOffset + len(fst)
	for i, f := range d.Files {
		if e := offsets[i] + allocOf(f); e > end {
			end = e
		}
	}

	disc := make([]byte, end)
	copy(disc, d.GameID)
	copy(disc[0x20:], d.Title)
	binary.BigEndian.PutUint32(disc[0x420:], DOLOffset)
	binary.BigEndian.PutUint32(disc[0x424:], uint32(fstOffset))
	binary.BigEndian.PutUint32(disc[0x428:], uint32(len(fst)))
	binary.BigEndian.PutUint32(disc[0x42C:], uint32(len(fst)))
	copy(disc[DOLOffset:], d.Executable)
	copy(disc[fstOffset:], fst)
	for i, f := range d.Files {
		copy(disc[offsets[i]:], f.Data)
	}
	return disc, offsets
}

func allocOf(f File) int {
	if f.Alloc > len(f.Data) {
		return f.Alloc
	}
	return len(f.Data)
}

type node struct {
	name     string
	children map[string]*node
	file     int // index into files, -1 for directories
}

type flatEntry struct {
	n      *node
	parent int
	end    int
}

// buildFST lays out the directories implied by the file paths in sorted
// order and places file data after dataStart, 32-byte aligned.
func buildFST(files []File, dataStart int) ([]byte, []int) {
	root := &node{children: map[string]*node{}, file: -1}
	for i, f := range files {
		parts := strings.Split(f.Path, "/")
		cur := root
		for _, p := range parts[:len(parts)-1] {
			next, ok := cur.children[p]
			if !ok {
				next = &node{name: p, children: map[string]*node{}, file: -1}
				cur.children[p] = next
			}
			cur = next
		}
		leaf := parts[len(parts)-1]
		cur.children[leaf] = &node{name: leaf, file: i}
	}

	var entries []flatEntry
	var walk func(n *node, parent int)
	walk = func(n *node, parent int) {
		names := make([]string, 0, len(n.children))
		for k := range n.children {
			names = append(names, k)
		}
		sort.Strings(names)
		for _, k := range names {
			c := n.children[k]
			idx := len(entries) + 1
			entries = append(entries, flatEntry{n: c, parent: parent})
			if c.file < 0 {
				walk(c, idx)
				entries[idx-1].end = len(entries) + 1
			}
		}
	}
	walk(root, 0)

	var names []byte
	nameOffsets := make([]int, len(entries))
	for i, e := range entries {
		nameOffsets[i] = len(names)
		names = append(names, e.n.name...)
		names = append(names, 0)
	}
	table := make([]byte, (len(entries)+1)*fstEntrySize)
	fstLen := len(table) + len(names)

	offsets := make([]int, len(files))
	next := (dataStart + fstLen + 31) &^ 31
	table[0] = 1
	binary.BigEndian.PutUint32(table[8:], uint32(len(entries)+1))
	for i, e := range entries {
		b := table[(i+1)*fstEntrySize:]
		no := nameOffsets[i]
		b[1], b[2], b[3] = byte(no>>16), byte(no>>8), byte(no)
		if e.n.file < 0 {
			b[0] = 1
			binary.BigEndian.PutUint32(b[4:], uint32(e.parent))
			binary.BigEndian.PutUint32(b[8:], uint32(e.end))
			continue
		}
		f := files[e.n.file]
		offsets[e.n.file] = next
		binary.BigEndian.PutUint32(b[4:], uint32(next))
		binary.BigEndian.PutUint32(b[8:], uint32(allocOf(f)))
		next = (next + allocOf(f) + 31) &^ 31
	}
	return append(table, names...), offsets
}
