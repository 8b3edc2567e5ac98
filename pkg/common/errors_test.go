package common

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStructuredErrors_Is(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		target error
	}{
		{"io", &IOError{Path: "game.iso", Op: "write", Err: errors.New("disk full")}, ErrIO},
		{"corrupt", NewCorruptData("aklz", 0x10, "truncated"), ErrCorruptData},
		{"count", &CountMismatchError{Type: "accessory", Expected: 80, Actual: 79}, ErrCountMismatch},
		{"field range", &FieldError{Field: "buy_price", Value: 70000, Err: ErrFieldOutOfRange}, ErrFieldOutOfRange},
		{"field length", &FieldError{Field: "name", Value: "x", Err: ErrFieldTooLong}, ErrFieldTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := fmt.Errorf("context: %w", tt.err)
			assert.ErrorIs(t, wrapped, tt.target)
		})
	}
}

func TestCorruptDataError_Message(t *testing.T) {
	err := NewCorruptData("epevent.evp", 0x1F, "size mismatch: %d != %d", 10, 12)

	assert.Equal(t, "corrupt data in epevent.evp at offset 0x1F: size mismatch: 10 != 12", err.Error())
}

func TestNewIOError_KeepsInnerPath(t *testing.T) {
	inner := NewIOError("read", "a.iso", errors.New("eof"))
	outer := NewIOError("open", "b.iso", inner)

	assert.Same(t, inner, outer)
	assert.Contains(t, outer.Error(), "a.iso")
}

func TestCountMismatchError_Message(t *testing.T) {
	err := &CountMismatchError{Type: "shop", Expected: 43, Actual: 44}

	assert.Equal(t, "shop: expected 43 records, got 44", err.Error())
}
