package gcn

import (
	"bytes"
	"encoding/binary"
	"errors"
	"os"
	"syscall"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ChaseLewis/SOARandomizer/pkg/aklz"
	"github.com/ChaseLewis/SOARandomizer/pkg/common"
	"github.com/ChaseLewis/SOARandomizer/pkg/gcn/gcntest"
)

var enemyPlain = bytes.Repeat([]byte("ENEMYDATA"), 64)

func testDisc() gcntest.Disc {
	return gcntest.Disc{
		GameID:     "GEAE8P",
		Title:      "Skies of Arcadia Legends",
		Executable: gcntest.Executable(0x400),
		Files: []gcntest.File{
			{Path: "battle/first.lmt", Data: bytes.Repeat([]byte{1, 2, 3, 4}, 16)},
			{Path: "field/a001_ep.enp", Data: aklz.Compress(enemyPlain), Alloc: 0x400},
			{Path: "field/sub/readme.txt", Data: []byte("hello")},
			{Path: "opening.bnr", Data: []byte("banner")},
		},
	}
}

func openTestDisc(t *testing.T, d gcntest.Disc) (*Image, afero.Fs, []int) {
	t.Helper()
	disc, offsets := d.Build()
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/game.iso", disc, 0o644))
	img, err := Open(fs, "/game.iso")
	require.NoError(t, err)
	t.Cleanup(func() { img.Close() })
	return img, fs, offsets
}

func TestOpen_ParsesHeaderAndFST(t *testing.T) {
	img, _, _ := openTestDisc(t, testDisc())

	assert.Equal(t, Version{GameID: "GEAE8P", Region: RegionUS}, img.Version())
	assert.Equal(t, "Skies of Arcadia Legends", img.Title())
	assert.False(t, img.ReadOnly())

	var paths []string
	for _, f := range img.Files() {
		paths = append(paths, f.Path)
	}
	assert.Equal(t, []string{
		ExecutablePath,
		"battle/first.lmt",
		"field/a001_ep.enp",
		"field/sub/readme.txt",
		"opening.bnr",
	}, paths)

	entry, ok := img.Lookup("/FIELD/Sub/README.TXT")
	require.True(t, ok)
	assert.Equal(t, int64(5), entry.Size)

	_, ok = img.Lookup("missing.bin")
	assert.False(t, ok)
}

func TestOpen_LogsLayoutWhenVerbose(t *testing.T) {
	var buf bytes.Buffer
	common.SetLogOutput(&buf)
	t.Cleanup(func() { common.SetLogOutput(os.Stderr) })

	openTestDisc(t, testDisc())
	assert.Empty(t, buf.String())

	common.SetVerboseMode(true)
	defer common.SetVerboseMode(false)
	openTestDisc(t, testDisc())
	out := buf.String()
	assert.Contains(t, out, "level=DEBUG")
	assert.Contains(t, out, "File-system table: ")
	assert.Contains(t, out, "Executable at 0x")
	assert.NotContains(t, out, "level=INFO")
}

func TestOpen_Executable(t *testing.T) {
	d := testDisc()
	img, _, _ := openTestDisc(t, d)

	assert.Equal(t, d.Executable, img.Executable())
	assert.Equal(t, d.Executable, img.PristineExecutable())

	exe, ok := img.Lookup("start.dol")
	require.True(t, ok)
	assert.Equal(t, int64(gcntest.DOLOffset), exe.Offset)
	assert.Equal(t, int64(len(d.Executable)), exe.Size)

	raw, err := img.ReadRaw(ExecutablePath)
	require.NoError(t, err)
	assert.Equal(t, d.Executable, raw)
}

func TestOpen_Rejects(t *testing.T) {
	good, _ := testDisc().Build()

	testCases := []struct {
		name   string
		mutate func([]byte) []byte
	}{
		{"too small", func(b []byte) []byte { return b[:0x100] }},
		{"wrong game code", func(b []byte) []byte { copy(b, "GZLE01"); return b }},
		{"unknown region", func(b []byte) []byte { b[3] = 'X'; return b }},
		{"fst beyond end", func(b []byte) []byte {
			binary.BigEndian.PutUint32(b[0x424:], uint32(len(b)))
			return b
		}},
		{"fst root not a directory", func(b []byte) []byte {
			fst := binary.BigEndian.Uint32(b[0x424:])
			b[fst] = 0
			return b
		}},
		{"executable too small", func(b []byte) []byte {
			binary.BigEndian.PutUint32(b[gcntest.DOLOffset+0x90:], 0)
			return b
		}},
		{"executable beyond end", func(b []byte) []byte {
			binary.BigEndian.PutUint32(b[gcntest.DOLOffset+0x90:], 0x7FFFFFF0)
			return b
		}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			disc := tc.mutate(bytes.Clone(good))
			fs := afero.NewMemMapFs()
			require.NoError(t, afero.WriteFile(fs, "/bad.iso", disc, 0o644))

			_, err := Open(fs, "/bad.iso")
			require.Error(t, err)
			assert.ErrorIs(t, err, common.ErrNotAGameImage)
		})
	}
}

func TestOpen_MissingFile(t *testing.T) {
	_, err := Open(afero.NewMemMapFs(), "/nope.iso")
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrIO)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestReadFile_Decompresses(t *testing.T) {
	img, _, _ := openTestDisc(t, testDisc())

	data, err := img.ReadFile("field/a001_ep.enp")
	require.NoError(t, err)
	assert.Equal(t, enemyPlain, data)

	compressed, err := img.IsCompressed("field/a001_ep.enp")
	require.NoError(t, err)
	assert.True(t, compressed)

	raw, err := img.ReadRaw("field/a001_ep.enp")
	require.NoError(t, err)
	assert.True(t, aklz.IsCompressed(raw))
	assert.Len(t, raw, 0x400)

	plain, err := img.ReadFile("opening.bnr")
	require.NoError(t, err)
	assert.Equal(t, []byte("banner"), plain)

	_, err = img.ReadFile("nope")
	assert.ErrorIs(t, err, common.ErrIO)
}

func TestPatchExecutable(t *testing.T) {
	img, _, _ := openTestDisc(t, testDisc())
	original := bytes.Clone(img.Executable())

	require.NoError(t, img.PatchExecutable(0x200, []byte{0xDE, 0xAD}))
	assert.True(t, img.Dirty())
	assert.Equal(t, []string{ExecutablePath}, img.Pending())
	assert.Equal(t, []byte{0xDE, 0xAD}, img.Executable()[0x200:0x202])
	assert.Equal(t, original, img.PristineExecutable(), "pristine copy is not patched")
	assert.Len(t, img.Executable(), len(original))

	assert.Error(t, img.PatchExecutable(len(original)-1, []byte{1, 2}))
	assert.Error(t, img.PatchExecutable(-1, []byte{1}))
}

func TestPatchExecutable_SameBytesNotDirty(t *testing.T) {
	img, _, _ := openTestDisc(t, testDisc())
	same := bytes.Clone(img.Executable()[0x100:0x110])

	require.NoError(t, img.PatchExecutable(0x100, same))
	assert.False(t, img.Dirty())
}

func TestSave_WritesOnlyChangedRegions(t *testing.T) {
	d := testDisc()
	img, fs, offsets := openTestDisc(t, d)
	before, err := afero.ReadFile(fs, "/game.iso")
	require.NoError(t, err)

	require.NoError(t, img.PatchExecutable(0x300, []byte("PATCH")))
	require.NoError(t, img.PatchFile("battle/first.lmt", 4, []byte{9, 9}))

	n, err := img.Save()
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.False(t, img.Dirty())

	after, err := afero.ReadFile(fs, "/game.iso")
	require.NoError(t, err)
	require.Len(t, after, len(before))

	exeAt := gcntest.DOLOffset + 0x300
	lmtAt := offsets[0] + 4
	for i := range before {
		switch {
		case i >= exeAt && i < exeAt+5:
			assert.Equal(t, "PATCH"[i-exeAt], after[i])
		case i >= lmtAt && i < lmtAt+2:
			assert.Equal(t, byte(9), after[i])
		default:
			if before[i] != after[i] {
				t.Fatalf("byte 0x%X changed outside patched regions", i)
			}
		}
	}
}

func TestSave_RecompressesStagedFile(t *testing.T) {
	img, fs, _ := openTestDisc(t, testDisc())

	require.NoError(t, img.PatchFile("field/a001_ep.enp", 0, []byte("CHANGED")))
	n, err := img.Save()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	require.NoError(t, img.Close())

	reopened, err := Open(fs, "/game.iso")
	require.NoError(t, err)
	defer reopened.Close()

	data, err := reopened.ReadFile("field/a001_ep.enp")
	require.NoError(t, err)
	want := bytes.Clone(enemyPlain)
	copy(want, "CHANGED")
	assert.Equal(t, want, data)
}

func TestSave_NoSpace(t *testing.T) {
	plain := make([]byte, 2048)
	d := testDisc()
	compressed := aklz.Compress(plain)
	d.Files[1] = gcntest.File{Path: "field/a001_ep.enp", Data: compressed}
	img, _, _ := openTestDisc(t, d)

	noisy := make([]byte, 2048)
	for i := range noisy {
		noisy[i] = byte(i*131 + i/7)
	}
	require.NoError(t, img.PatchFile("field/a001_ep.enp", 0, noisy))

	_, err := img.Save()
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrNoSpace)
	assert.True(t, img.Dirty(), "failed save keeps pending changes")
}

func TestPatchFile_Bounds(t *testing.T) {
	img, _, _ := openTestDisc(t, testDisc())

	err := img.PatchFile("opening.bnr", 4, []byte("xyz"))
	assert.Error(t, err)
	assert.False(t, img.Dirty())

	require.NoError(t, img.PatchFile("start.dol", 0x100, []byte{0}))
}

func TestSave_ReadOnly(t *testing.T) {
	disc, _ := testDisc().Build()
	base := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(base, "/game.iso", disc, 0o644))
	ro := afero.NewReadOnlyFs(base)

	img, err := Open(ro, "/game.iso")
	require.NoError(t, err)
	defer img.Close()
	assert.True(t, img.ReadOnly())

	n, err := img.Save()
	require.NoError(t, err, "nothing pending")
	assert.Zero(t, n)

	require.NoError(t, img.PatchExecutable(0x100, []byte{0xFF}))
	_, err = img.Save()
	assert.ErrorIs(t, err, common.ErrReadOnly)
}

func TestClose(t *testing.T) {
	img, _, _ := openTestDisc(t, testDisc())
	require.NoError(t, img.Close())
	require.NoError(t, img.Close())

	_, err := img.ReadRaw("opening.bnr")
	assert.True(t, errors.Is(err, os.ErrClosed))
}

func TestIsTransient(t *testing.T) {
	assert.True(t, isTransient(&os.PathError{Op: "write", Err: syscall.EINTR}))
	assert.False(t, isTransient(os.ErrPermission))
}
