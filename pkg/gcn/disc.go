package gcn

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/avast/retry-go/v4"
	bst "github.com/mixcode/binarystruct"
	"github.com/spf13/afero"

	"github.com/ChaseLewis/SOARandomizer/pkg/aklz"
	"github.com/ChaseLewis/SOARandomizer/pkg/common"
)

// compressedExtensions lists the file kinds that may hold an AKLZ stream.
var compressedExtensions = map[string]bool{
	".enp": true,
	".evp": true,
	".dat": true,
}

// SaveOptions controls how Save retries transient write failures.
type SaveOptions struct {
	Retries int
	Delay   time.Duration
}

// DefaultSaveOptions retries a failed write twice, 100ms apart.
var DefaultSaveOptions = SaveOptions{Retries: 2, Delay: 100 * time.Millisecond}

// stagedFile is the decompressed working copy of an auxiliary file.
type stagedFile struct {
	entry      FileEntry
	raw        []byte // bytes of the FST allocation as last read or written
	data       []byte // decompressed working copy
	compressed bool
	dirty      bool
}

// Image is an open disc.
type Image struct {
	fs       afero.Fs
	path     string
	file     afero.File
	readOnly bool
	size     int64

	header  DiscHeader
	version Version
	files   []FileEntry
	byKey   map[string]int

	exeEntry FileEntry
	dol      DOLHeader
	exe      []byte
	pristine []byte
	exeDirty bool

	staged   map[string]*stagedFile
	saveOpts SaveOptions
}

// Open parses the disc at path and loads its executable. The disc is opened
// read-write when possible; otherwise it is opened read-only and Save fails.
func Open(fs afero.Fs, path string) (*Image, error) {
	readOnly := false
	file, err := fs.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		file, err = fs.Open(path)
		if err != nil {
			return nil, common.NewIOError("open", path, err)
		}
		readOnly = true
		common.LogWarn(common.WarnOpenedReadOnly, path, err)
	}

	img := &Image{
		fs:       fs,
		path:     path,
		file:     file,
		readOnly: readOnly,
		staged:   make(map[string]*stagedFile),
		saveOpts: DefaultSaveOptions,
	}
	if err := img.load(); err != nil {
		file.Close()
		return nil, err
	}
	return img, nil
}

func (img *Image) load() error {
	info, err := img.file.Stat()
	if err != nil {
		return common.NewIOError("stat", img.path, err)
	}
	img.size = info.Size()

	if err := img.readHeader(); err != nil {
		return err
	}
	if err := img.readFST(); err != nil {
		return err
	}
	return img.readExecutable()
}

func (img *Image) readHeader() error {
	if img.size < DiscHeaderSize {
		return fmt.Errorf("%w: %s is %d bytes, smaller than a disc header", common.ErrNotAGameImage, img.path, img.size)
	}
	buf, err := img.readAt(0, DiscHeaderSize)
	if err != nil {
		return err
	}
	if _, err := bst.Unmarshal(buf, bst.BigEndian, &img.header); err != nil {
		return common.FormatError(common.ErrFailedToReadDiscHeader, err)
	}

	version, err := ParseVersion(string(img.header.GameID[:]))
	if err != nil {
		return err
	}
	img.version = version

	common.LogDebug(common.DebugDiscHeader, version.GameID, img.header.DOLOffset, img.header.FSTOffset, img.header.FSTSize)
	return nil
}

func (img *Image) readFST() error {
	off, size := int64(img.header.FSTOffset), int64(img.header.FSTSize)
	if size < FSTEntrySize || off < DiscHeaderSize || off+size > img.size {
		return fmt.Errorf("%w: FST [0x%X,+0x%X) outside disc of %d bytes", common.ErrNotAGameImage, off, size, img.size)
	}
	data, err := img.readAt(off, int(size))
	if err != nil {
		return err
	}

	files, err := parseFST(data, img.size)
	if err != nil {
		return fmt.Errorf("%w: %w", common.ErrNotAGameImage, err)
	}
	img.files = files
	img.byKey = make(map[string]int, len(files))
	for i, f := range files {
		img.byKey[common.DiscPathKey(f.Path)] = i
	}

	common.LogDebug(common.DebugFSTParsed, len(files), off)
	return nil
}

func (img *Image) readExecutable() error {
	off := int64(img.header.DOLOffset)
	if off < DiscHeaderSize || off+DOLHeaderSize > img.size {
		return fmt.Errorf("%w: executable offset 0x%X outside disc", common.ErrNotAGameImage, off)
	}
	head, err := img.readAt(off, DOLHeaderSize)
	if err != nil {
		return err
	}
	dol, err := parseDOLHeader(head)
	if err != nil {
		return fmt.Errorf("%w: %w", common.ErrNotAGameImage, err)
	}
	size := dol.Size()
	if size < DOLHeaderSize || off+size > img.size {
		return fmt.Errorf("%w: executable size %d at 0x%X does not fit disc", common.ErrNotAGameImage, size, off)
	}

	exe, err := img.readAt(off, int(size))
	if err != nil {
		return common.FormatError(common.ErrFailedToReadExecutable, err)
	}
	img.dol = dol
	img.exe = exe
	img.pristine = bytes.Clone(exe)
	img.exeEntry = FileEntry{Index: -1, Path: ExecutablePath, Offset: off, Size: size}

	common.LogDebug(common.DebugExecutableFound, off, size)
	return nil
}

func (img *Image) readAt(off int64, n int) ([]byte, error) {
	if img.file == nil {
		return nil, common.NewIOError("read", img.path, os.ErrClosed)
	}
	buf := make([]byte, n)
	if _, err := img.file.ReadAt(buf, off); err != nil && !(errors.Is(err, io.EOF) && off+int64(n) <= img.size) {
		return nil, common.NewIOError(fmt.Sprintf("read 0x%X+%d", off, n), img.path, err)
	}
	return buf, nil
}

// SetSaveOptions replaces the retry policy used by Save.
func (img *Image) SetSaveOptions(opts SaveOptions) {
	img.saveOpts = opts
}

// Path is the disc file path.
func (img *Image) Path() string { return img.path }

// ReadOnly reports whether the disc could only be opened for reading.
func (img *Image) ReadOnly() bool { return img.readOnly }

// Version is the build parsed from the disc header.
func (img *Image) Version() Version { return img.version }

// Header returns the parsed disc header.
func (img *Image) Header() DiscHeader { return img.header }

// Title is the internal game name.
func (img *Image) Title() string {
	return strings.TrimSpace(string(common.CString(img.header.Title[:])))
}

// Files lists the executable followed by every FST file in table order.
func (img *Image) Files() []FileEntry {
	out := make([]FileEntry, 0, len(img.files)+1)
	out = append(out, img.exeEntry)
	return append(out, img.files...)
}

// Lookup finds a file by path, ignoring case and a leading slash.
func (img *Image) Lookup(path string) (FileEntry, bool) {
	key := common.DiscPathKey(path)
	if key == strings.ToLower(ExecutablePath) {
		return img.exeEntry, true
	}
	i, ok := img.byKey[key]
	if !ok {
		return FileEntry{}, false
	}
	return img.files[i], true
}

func (img *Image) mustLookup(path string) (FileEntry, error) {
	entry, ok := img.Lookup(path)
	if !ok {
		return FileEntry{}, common.NewIOError("lookup", path, os.ErrNotExist)
	}
	return entry, nil
}

// ReadRaw returns a file's bytes as stored on disc.
func (img *Image) ReadRaw(path string) ([]byte, error) {
	entry, err := img.mustLookup(path)
	if err != nil {
		return nil, err
	}
	return img.readAt(entry.Offset, int(entry.Size))
}

// ReadFile returns a copy of a file's working contents. AKLZ-compressed
// auxiliary files are returned decompressed; the executable is returned with
// any pending patches applied.
func (img *Image) ReadFile(path string) ([]byte, error) {
	entry, err := img.mustLookup(path)
	if err != nil {
		return nil, err
	}
	if entry.Index < 0 {
		return bytes.Clone(img.exe), nil
	}
	sf, err := img.stage(entry)
	if err != nil {
		return nil, err
	}
	return bytes.Clone(sf.data), nil
}

// IsCompressed reports whether the file is stored AKLZ-compressed.
func (img *Image) IsCompressed(path string) (bool, error) {
	entry, err := img.mustLookup(path)
	if err != nil {
		return false, err
	}
	if entry.Index < 0 {
		return false, nil
	}
	sf, err := img.stage(entry)
	if err != nil {
		return false, err
	}
	return sf.compressed, nil
}

func (img *Image) stage(entry FileEntry) (*stagedFile, error) {
	key := common.DiscPathKey(entry.Path)
	if sf, ok := img.staged[key]; ok {
		return sf, nil
	}

	raw, err := img.readAt(entry.Offset, int(entry.Size))
	if err != nil {
		return nil, common.FormatError(common.ErrFailedToReadFile, err)
	}
	sf := &stagedFile{entry: entry, raw: raw, data: raw}

	if compressedExtensions[common.Extension(entry.Path)] && aklz.IsCompressed(raw) {
		data, err := aklz.Decompress(raw)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", entry.Path, err)
		}
		sf.data = data
		sf.compressed = true
		common.LogDebug(common.DebugFileDecompressed, entry.Path, len(raw), len(data))
	} else {
		sf.data = bytes.Clone(raw)
	}

	img.staged[key] = sf
	common.LogDebug(common.DebugFileStaged, entry.Path, len(sf.data))
	return sf, nil
}

// PatchFile overwrites part of a file's working copy. It never changes the
// file length. Patching the executable path is the same as PatchExecutable.
func (img *Image) PatchFile(path string, off int, b []byte) error {
	entry, err := img.mustLookup(path)
	if err != nil {
		return err
	}
	if entry.Index < 0 {
		return img.PatchExecutable(off, b)
	}
	sf, err := img.stage(entry)
	if err != nil {
		return err
	}
	if off < 0 || off+len(b) > len(sf.data) {
		return fmt.Errorf("%s: %s [0x%X,+%d) exceeds %d bytes", common.ErrStagedFileOutOfBounds, entry.Path, off, len(b), len(sf.data))
	}
	if bytes.Equal(sf.data[off:off+len(b)], b) {
		return nil
	}
	copy(sf.data[off:], b)
	sf.dirty = true
	return nil
}

// Executable returns the working executable. Callers must not modify it;
// PatchExecutable is the only mutation path.
func (img *Image) Executable() []byte { return img.exe }

// PristineExecutable returns the executable as it was when the disc was
// opened. Callers must not modify it.
func (img *Image) PristineExecutable() []byte { return img.pristine }

// PatchExecutable overwrites a range of the in-memory executable.
func (img *Image) PatchExecutable(off int, b []byte) error {
	if off < 0 || off+len(b) > len(img.exe) {
		return fmt.Errorf("%s: [0x%X,+%d) exceeds %d bytes", common.ErrExecutableOutOfBounds, off, len(b), len(img.exe))
	}
	if bytes.Equal(img.exe[off:off+len(b)], b) {
		return nil
	}
	copy(img.exe[off:], b)
	img.exeDirty = true
	return nil
}

// Pending lists the paths that Save would write.
func (img *Image) Pending() []string {
	var out []string
	if img.exeDirty {
		out = append(out, ExecutablePath)
	}
	var files []string
	for _, sf := range img.staged {
		if sf.dirty {
			files = append(files, sf.entry.Path)
		}
	}
	sort.Strings(files)
	return append(out, files...)
}

// Dirty reports whether there are unsaved changes.
func (img *Image) Dirty() bool {
	return len(img.Pending()) > 0
}

type pendingWrite struct {
	label string
	off   int64
	data  []byte
	sf    *stagedFile
}

// Save writes the executable and every changed auxiliary file back to their
// disc regions. All staged files are re-encoded and size-checked before the
// first byte is written. It returns the number of regions written.
func (img *Image) Save() (int, error) {
	if img.file == nil {
		return 0, common.NewIOError("save", img.path, os.ErrClosed)
	}

	var writes []pendingWrite
	if img.exeDirty {
		writes = append(writes, pendingWrite{label: ExecutablePath, off: img.exeEntry.Offset, data: img.exe})
	}

	keys := make([]string, 0, len(img.staged))
	for k, sf := range img.staged {
		if sf.dirty {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	for _, k := range keys {
		sf := img.staged[k]
		out := sf.data
		if sf.compressed {
			out = aklz.Compress(sf.data)
			common.LogDebug(common.DebugCompressionResult, len(sf.data), len(out))
			if prev := len(aklzPayload(sf.raw)); len(out) != prev {
				common.LogWarn(common.WarnCompressedSizeChanged, sf.entry.Path, len(out), prev)
			}
		}
		if int64(len(out)) > sf.entry.Size {
			return 0, fmt.Errorf("%w: %s needs %d bytes, allocation is %d", common.ErrNoSpace, sf.entry.Path, len(out), sf.entry.Size)
		}
		region := make([]byte, sf.entry.Size)
		copy(region, out)
		writes = append(writes, pendingWrite{label: sf.entry.Path, off: sf.entry.Offset, data: region, sf: sf})
	}

	if len(writes) == 0 {
		return 0, nil
	}
	if img.readOnly {
		return 0, fmt.Errorf("%w: %s", common.ErrReadOnly, img.path)
	}

	for i, w := range writes {
		if err := img.writeAt(w.label, w.data, w.off); err != nil {
			return i, err
		}
		if w.sf != nil {
			w.sf.raw = w.data
			w.sf.dirty = false
		} else {
			img.exeDirty = false
		}
	}
	if err := img.file.Sync(); err != nil {
		return len(writes), common.NewIOError("sync", img.path, err)
	}
	return len(writes), nil
}

// aklzPayload trims the zero padding that follows a compressed stream inside
// its allocation, so size comparisons use the stream length.
func aklzPayload(raw []byte) []byte {
	end := len(raw)
	for end > aklz.HeaderSize && raw[end-1] == 0 {
		end--
	}
	return raw[:end]
}

func (img *Image) writeAt(label string, data []byte, off int64) error {
	attempts := img.saveOpts.Retries + 1
	if attempts < 1 {
		attempts = 1
	}
	err := retry.Do(
		func() error {
			_, err := img.file.WriteAt(data, off)
			return err
		},
		retry.Attempts(uint(attempts)),
		retry.Delay(img.saveOpts.Delay),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(isTransient),
		retry.OnRetry(func(n uint, err error) {
			common.LogDebug(common.DebugWriteRetry, label, n+1, err)
		}),
	)
	if err != nil {
		return common.NewIOError("write "+label, img.path, err)
	}
	common.LogDebug(common.DebugRegionWritten, len(data), off, label)
	return nil
}

func isTransient(err error) bool {
	return errors.Is(err, syscall.EINTR) || errors.Is(err, syscall.EAGAIN)
}

// Close releases the disc file. Unsaved changes are discarded.
func (img *Image) Close() error {
	if img.file == nil {
		return nil
	}
	err := img.file.Close()
	img.file = nil
	if err != nil {
		return common.NewIOError("close", img.path, err)
	}
	return nil
}
