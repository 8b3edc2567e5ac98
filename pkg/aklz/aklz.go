// Package aklz implements the AKLZ compression format used by the enemy
// containers (.enp, .evp, .dat) on the disc.
//
// A stream is a 16-byte header (12-byte signature followed by the big-endian
// decompressed size) and a sequence of groups. Each group starts with a flag
// byte read LSB first: a set bit is a literal byte, a clear bit is a two-byte
// back-reference into a 4096-byte ring buffer.
package aklz

import (
	"bytes"
	"encoding/binary"

	"github.com/ChaseLewis/SOARandomizer/pkg/common"
)

// HeaderSize is the size of the signature plus the decompressed size field.
const HeaderSize = 16

const (
	ringSize    = 4096
	ringMask    = ringSize - 1
	minMatch    = 3
	maxMatch    = 18
	ringStart   = ringSize - maxMatch
	maxDistance = ringSize - maxMatch
)

// Signature identifies an AKLZ stream.
var Signature = [12]byte{0x41, 0x4B, 0x4C, 0x5A, 0x7E, 0x3F, 0x51, 0x64, 0x3D, 0xCC, 0xCC, 0xCD}

// IsCompressed reports whether data starts with a complete AKLZ header.
func IsCompressed(data []byte) bool {
	return len(data) >= HeaderSize && bytes.Equal(data[:len(Signature)], Signature[:])
}

// DecompressedSize returns the size declared in the header.
func DecompressedSize(data []byte) (int, error) {
	if !IsCompressed(data) {
		return 0, common.NewCorruptData("aklz", 0, "missing AKLZ signature")
	}
	return int(binary.BigEndian.Uint32(data[12:HeaderSize])), nil
}

// Decompress expands an AKLZ stream. The output is exactly the size declared
// in the header; a stream that ends early fails with a CorruptDataError
// carrying the offset where decoding stopped.
func Decompress(data []byte) ([]byte, error) {
	size, err := DecompressedSize(data)
	if err != nil {
		return nil, err
	}

	output := make([]byte, 0, size)
	var ring [ringSize]byte
	r := ringStart
	pos := HeaderSize

	emit := func(b byte) {
		output = append(output, b)
		ring[r] = b
		r = (r + 1) & ringMask
	}

	for len(output) < size {
		if pos >= len(data) {
			return nil, common.NewCorruptData("aklz", pos, "stream ends after %d of %d bytes", len(output), size)
		}
		flags := data[pos]
		pos++

		for bit := 0; bit < 8 && len(output) < size; bit++ {
			if flags&(1<<bit) != 0 {
				if pos >= len(data) {
					return nil, common.NewCorruptData("aklz", pos, "truncated literal after %d of %d bytes", len(output), size)
				}
				emit(data[pos])
				pos++
				continue
			}

			if pos+1 >= len(data) {
				return nil, common.NewCorruptData("aklz", pos, "truncated back-reference after %d of %d bytes", len(output), size)
			}
			b1, b2 := data[pos], data[pos+1]
			pos += 2

			src := int(b1) | int(b2&0xF0)<<4
			length := int(b2&0x0F) + minMatch
			if remaining := size - len(output); length > remaining {
				length = remaining
			}
			for i := 0; i < length; i++ {
				emit(ring[(src+i)&ringMask])
			}
		}
	}

	common.LogDebug(common.DebugFileDecompressed, "aklz stream", len(data), len(output))
	return output, nil
}

// Compress encodes data as an AKLZ stream. Any stream produced here
// decompresses back to data; it is not guaranteed to match the game's own
// encoder byte for byte.
func Compress(data []byte) []byte {
	output := make([]byte, HeaderSize, HeaderSize+len(data)+len(data)/8+1)
	copy(output, Signature[:])
	binary.BigEndian.PutUint32(output[12:HeaderSize], uint32(len(data)))

	m := newMatcher(data)
	pos := 0
	for pos < len(data) {
		flagIndex := len(output)
		output = append(output, 0)
		var flags byte

		for bit := 0; bit < 8 && pos < len(data); bit++ {
			distance, length := m.find(pos)
			if length >= minMatch {
				src := (ringStart + pos - distance) & ringMask
				output = append(output, byte(src), byte((src>>4)&0xF0)|byte(length-minMatch))
				m.insertRange(pos, length)
				pos += length
				continue
			}

			flags |= 1 << bit
			output = append(output, data[pos])
			m.insertRange(pos, 1)
			pos++
		}
		output[flagIndex] = flags
	}

	common.LogDebug(common.DebugCompressionResult, len(data), len(output))
	return output
}
