package aklz

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math/rand"
	"testing"

	"github.com/ChaseLewis/SOARandomizer/pkg/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stream(size uint32, body ...byte) []byte {
	var buf bytes.Buffer
	buf.Write(Signature[:])
	_ = binary.Write(&buf, binary.BigEndian, size)
	buf.Write(body)
	return buf.Bytes()
}

func TestIsCompressed(t *testing.T) {
	assert.True(t, IsCompressed(stream(0)))
	assert.False(t, IsCompressed(Signature[:]), "signature without size is incomplete")
	assert.False(t, IsCompressed([]byte("not compressed at all")))
	assert.False(t, IsCompressed(nil))
}

func TestDecompress_KnownStreams(t *testing.T) {
	testCases := []struct {
		name     string
		input    []byte
		expected []byte
	}{
		{
			name:     "literals then back-reference",
			input:    stream(6, 0x07, 'a', 'b', 'c', 0xEE, 0xF0),
			expected: []byte("abcabc"),
		},
		{
			name:     "reference into initial zero ring",
			input:    stream(4, 0x00, 0x00, 0x01),
			expected: []byte{0, 0, 0, 0},
		},
		{
			name:     "overlapping run",
			input:    stream(7, 0x01, 'x', 0xEE, 0xF3),
			expected: []byte("xxxxxxx"),
		},
		{
			name:     "match clamped to declared size",
			input:    stream(5, 0x01, 'z', 0xEE, 0xFF),
			expected: []byte("zzzzz"),
		},
		{
			name:     "empty",
			input:    stream(0),
			expected: []byte{},
		},
		{
			name:     "trailing padding ignored",
			input:    stream(2, 0x03, 'o', 'k', 0x00, 0x00, 0x00),
			expected: []byte("ok"),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			out, err := Decompress(tc.input)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, out)
		})
	}
}

func TestDecompress_Corrupt(t *testing.T) {
	testCases := []struct {
		name   string
		input  []byte
		offset int
	}{
		{"no signature", []byte("AKLY~?Qd=\xcc\xcc\xcd\x00\x00\x00\x01"), 0},
		{"missing flag byte", stream(3), HeaderSize},
		{"truncated literal", stream(3, 0xFF, 'a'), HeaderSize + 2},
		{"truncated back-reference", stream(8, 0x01, 'a', 0xEE), HeaderSize + 2},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Decompress(tc.input)
			require.Error(t, err)
			assert.ErrorIs(t, err, common.ErrCorruptData)

			var corrupt *common.CorruptDataError
			require.True(t, errors.As(err, &corrupt))
			assert.Equal(t, tc.offset, corrupt.Offset)
		})
	}
}

func TestCompress_RoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	randomBytes := make([]byte, 20000)
	rng.Read(randomBytes)

	lowEntropy := make([]byte, 30000)
	for i := range lowEntropy {
		lowEntropy[i] = byte(rng.Intn(4))
	}

	record := make([]byte, 136)
	copy(record, "ENEMY NAME")
	binary.BigEndian.PutUint32(record[36:], 1200)
	var records []byte
	for i := 0; i < 100; i++ {
		record[92] = byte(i)
		records = append(records, record...)
	}

	testCases := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"single byte", []byte{0x42}},
		{"two bytes", []byte{0x00, 0x01}},
		{"zeros", make([]byte, 10000)},
		{"random", randomBytes},
		{"low entropy", lowEntropy},
		{"repeated records", records},
		{"text", bytes.Repeat([]byte("Skies of Arcadia Legends "), 400)},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			compressed := Compress(tc.data)
			require.True(t, IsCompressed(compressed))

			size, err := DecompressedSize(compressed)
			require.NoError(t, err)
			assert.Equal(t, len(tc.data), size)

			out, err := Decompress(compressed)
			require.NoError(t, err)
			assert.True(t, bytes.Equal(tc.data, out), "round trip mismatch")
		})
	}
}

func TestCompress_ShrinksRedundantData(t *testing.T) {
	data := bytes.Repeat([]byte{0xAB, 0xCD, 0xEF, 0x01}, 4096)

	compressed := Compress(data)

	assert.Less(t, len(compressed), len(data)/4)
}

func TestCompress_AllLengthsNearGroupBoundaries(t *testing.T) {
	rng := rand.New(rand.NewSource(99))
	for n := 0; n < 64; n++ {
		data := make([]byte, n)
		for i := range data {
			data[i] = byte(rng.Intn(3))
		}

		out, err := Decompress(Compress(data))
		require.NoError(t, err, "length %d", n)
		assert.True(t, bytes.Equal(data, out), "length %d", n)
	}
}
