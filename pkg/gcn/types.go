// Package gcn reads and patches GameCube disc images.
//
// An Image parses the disc header, the file-system table and the main
// executable, keeps an in-memory working copy of the executable and of every
// auxiliary file that has been read, and writes changed regions back in place
// on Save. Files are never resized or relocated.
package gcn

// Disc layout constants
const (
	DiscHeaderSize = 0x440
	TitleOffset    = 0x20
	TitleSize      = 0x3E0
	FSTEntrySize   = 12
	DOLHeaderSize  = 0x100

	dolTextSections = 7
	dolDataSections = 11
	dolSections     = dolTextSections + dolDataSections
)

// ExecutablePath is the logical path under which the main executable is
// exposed next to the FST files.
const ExecutablePath = "Start.dol"

// DiscHeader is the boot block at the start of every disc. Fields are big-endian.
type DiscHeader struct {
	GameID             [6]byte
	DiscNumber         uint8
	DiscVersion        uint8
	AudioStreaming     uint8
	StreamBufferSize   uint8
	Reserved1          [0x12]byte
	Magic              uint32
	Title              [TitleSize]byte
	DebugMonitorOffset uint32
	DebugLoadAddress   uint32
	Reserved2          [0x18]byte
	DOLOffset          uint32
	FSTOffset          uint32
	FSTSize            uint32
	FSTMaxSize         uint32
	UserPosition       uint32
	UserLength         uint32
	Reserved3          [8]byte
}

// DOLHeader is the section table at the start of the executable.
type DOLHeader struct {
	TextOffsets [dolTextSections]uint32
	DataOffsets [dolDataSections]uint32
	TextAddrs   [dolTextSections]uint32
	DataAddrs   [dolDataSections]uint32
	TextSizes   [dolTextSections]uint32
	DataSizes   [dolDataSections]uint32
	BSSAddr     uint32
	BSSSize     uint32
	EntryPoint  uint32
}

// FileEntry is one file of the disc file-system table.
type FileEntry struct {
	Index  int    // position in the FST; -1 for the executable
	Path   string // slash separated, no leading slash
	Offset int64  // absolute disc offset
	Size   int64  // allocation size in bytes
}

// End is the disc offset just past the file.
func (f FileEntry) End() int64 {
	return f.Offset + f.Size
}

// fstRawEntry mirrors the 12-byte FST record.
type fstRawEntry struct {
	Flags      uint8
	NameOffset uint32 // 24 bits
	Offset     uint32 // file offset, or parent index for directories
	Size       uint32 // file size, or index past the last child for directories
}

func (e fstRawEntry) isDir() bool { return e.Flags&1 != 0 }
