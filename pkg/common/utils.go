package common

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

// ReadInt32BE reads an int32 in big-endian format
func ReadInt32BE(reader io.Reader) (int32, error) {
	var value int32
	err := binary.Read(reader, binary.BigEndian, &value)
	return value, err
}

// ReadInt16BE reads an int16 in big-endian format
func ReadInt16BE(reader io.Reader) (int16, error) {
	var value int16
	err := binary.Read(reader, binary.BigEndian, &value)
	return value, err
}

// ReadBytes reads a specified number of bytes
func ReadBytes(reader io.Reader, count int) ([]byte, error) {
	buffer := make([]byte, count)
	n, err := io.ReadFull(reader, buffer)
	if err != nil {
		return nil, err
	}
	if n != count {
		return nil, fmt.Errorf("expected to read %d bytes, got %d", count, n)
	}
	return buffer, nil
}

// SkipBytes skips a specified number of bytes in the reader
func SkipBytes(reader io.Reader, count int) error {
	_, err := io.CopyN(io.Discard, reader, int64(count))
	return err
}

// AlignUp rounds value up to the next multiple of alignment.
func AlignUp(value, alignment int) int {
	if alignment <= 1 {
		return value
	}
	return (value + alignment - 1) / alignment * alignment
}

// CString returns b up to (not including) the first NUL byte.
func CString(b []byte) []byte {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		return b[:i]
	}
	return b
}

// BytesEqualAt reports whether data[offset:] starts with want.
func BytesEqualAt(data []byte, offset int, want []byte) bool {
	if offset < 0 || offset+len(want) > len(data) {
		return false
	}
	return bytes.Equal(data[offset:offset+len(want)], want)
}
