package common

import (
	"errors"
	"fmt"
)

// Error categories. Structured errors below match these with errors.Is.
var (
	ErrIO                 = errors.New("i/o failure")
	ErrCorruptData        = errors.New("corrupt data")
	ErrNotAGameImage      = errors.New("not a game image")
	ErrCountMismatch      = errors.New("record count mismatch")
	ErrFieldOutOfRange    = errors.New("field value out of range")
	ErrFieldTooLong       = errors.New("field value too long")
	ErrInvalidText        = errors.New("text cannot be encoded")
	ErrUnsupportedVersion = errors.New("unsupported game version")
	ErrUnknownType        = errors.New("unknown entry type")
	ErrNoSpace            = errors.New("file does not fit its disc allocation")
	ErrReadOnly           = errors.New("disc image opened read-only")
	ErrReadOnlyType       = errors.New("entry type is read-only")
)

// IOError reports a failed disc or file operation together with the path involved.
type IOError struct {
	Path string
	Op   string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

func (e *IOError) Is(target error) bool { return target == ErrIO }

// CorruptDataError identifies where decoding or structural parsing broke.
type CorruptDataError struct {
	Source string
	Offset int
	Reason string
}

func (e *CorruptDataError) Error() string {
	return fmt.Sprintf("corrupt data in %s at offset 0x%X: %s", e.Source, e.Offset, e.Reason)
}

func (e *CorruptDataError) Is(target error) bool { return target == ErrCorruptData }

// CountMismatchError is returned when a record collection does not have the
// number of entries the descriptor fixes.
type CountMismatchError struct {
	Type     string
	Expected int
	Actual   int
}

func (e *CountMismatchError) Error() string {
	return fmt.Sprintf("%s: expected %d records, got %d", e.Type, e.Expected, e.Actual)
}

func (e *CountMismatchError) Is(target error) bool { return target == ErrCountMismatch }

// FieldError is a single field encode failure. Err is one of
// ErrFieldOutOfRange, ErrFieldTooLong or ErrInvalidText.
type FieldError struct {
	Field string
	Value interface{}
	Limit string
	Err   error
}

func (e *FieldError) Error() string {
	if e.Limit != "" {
		return fmt.Sprintf("field %s: %v: %v (%s)", e.Field, e.Err, e.Value, e.Limit)
	}
	return fmt.Sprintf("field %s: %v: %v", e.Field, e.Err, e.Value)
}

func (e *FieldError) Unwrap() error { return e.Err }

// NewIOError wraps err unless it already carries path information.
func NewIOError(op, path string, err error) error {
	var ioErr *IOError
	if errors.As(err, &ioErr) {
		return err
	}
	return &IOError{Path: path, Op: op, Err: err}
}

// NewCorruptData builds a CorruptDataError with a formatted reason.
func NewCorruptData(source string, offset int, reason string, args ...interface{}) error {
	if len(args) > 0 {
		reason = fmt.Sprintf(reason, args...)
	}
	return &CorruptDataError{Source: source, Offset: offset, Reason: reason}
}
