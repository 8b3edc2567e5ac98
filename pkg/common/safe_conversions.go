package common

import (
	"fmt"
	"math"
)

// SafeInt64ToInt8 safely converts int64 to int8 with bounds checking
func SafeInt64ToInt8(value int64) (int8, error) {
	if value < math.MinInt8 || value > math.MaxInt8 {
		return 0, rangeError(value, math.MinInt8, math.MaxInt8, "int8")
	}
	return int8(value), nil
}

// SafeInt64ToUint8 safely converts int64 to uint8 with bounds checking
func SafeInt64ToUint8(value int64) (uint8, error) {
	if value < 0 || value > math.MaxUint8 {
		return 0, rangeError(value, 0, math.MaxUint8, "uint8")
	}
	return uint8(value), nil
}

// SafeInt64ToInt16 safely converts int64 to int16 with bounds checking
func SafeInt64ToInt16(value int64) (int16, error) {
	if value < math.MinInt16 || value > math.MaxInt16 {
		return 0, rangeError(value, math.MinInt16, math.MaxInt16, "int16")
	}
	return int16(value), nil
}

// SafeInt64ToUint16 safely converts int64 to uint16 with bounds checking
func SafeInt64ToUint16(value int64) (uint16, error) {
	if value < 0 || value > math.MaxUint16 {
		return 0, rangeError(value, 0, math.MaxUint16, "uint16")
	}
	return uint16(value), nil
}

// SafeInt64ToInt32 safely converts int64 to int32 with bounds checking
func SafeInt64ToInt32(value int64) (int32, error) {
	if value < math.MinInt32 || value > math.MaxInt32 {
		return 0, rangeError(value, math.MinInt32, math.MaxInt32, "int32")
	}
	return int32(value), nil
}

// SafeInt64ToUint32 safely converts int64 to uint32 with bounds checking
func SafeInt64ToUint32(value int64) (uint32, error) {
	if value < 0 {
		return 0, fmt.Errorf("value %d is negative, cannot convert to uint32: %w", value, ErrFieldOutOfRange)
	}
	if value > math.MaxUint32 {
		return 0, rangeError(value, 0, math.MaxUint32, "uint32")
	}
	return uint32(value), nil
}

func rangeError(value, lo, hi int64, typeName string) error {
	return fmt.Errorf("value %d out of range for %s (%d-%d): %w", value, typeName, lo, hi, ErrFieldOutOfRange)
}
