package netstr

import (
	"errors"
	"fmt"
)

// Sentinel errors
var (
	// ErrNilInput is returned when a nil slice is passed where a frame or
	// payload is required. It is an argument error, not a format error.
	ErrNilInput = errors.New("netstr: input must not be nil")

	// ErrInvalidFormat indicates a malformed netstring.
	ErrInvalidFormat = errors.New("netstr: invalid format")

	// ErrTooLarge indicates a netstring length exceeds the configured maximum.
	ErrTooLarge = errors.New("netstr: length exceeds maximum")
)

// Format error kinds. A *FormatError matches exactly one of these.
var (
	ErrTooShort       = errors.New("netstring too short")
	ErrMissingLength  = errors.New("missing length")
	ErrInvalidLength  = errors.New("invalid length")
	ErrMissingColon   = errors.New("missing colon")
	ErrLengthTooSmall = errors.New("declared length too small")
	ErrLengthTooBig   = errors.New("declared length too big")
	ErrMissingComma   = errors.New("missing comma")
)

// FormatError provides detailed information about a parsing error.
type FormatError struct {
	Offset int    // Byte offset where the error was detected
	Kind   error  // One of the kind sentinels above
	Reason string // Human-readable explanation
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("netstr: format error at offset %d: %s", e.Offset, e.Reason)
}

// Unwrap lets errors.Is match both ErrInvalidFormat and the error kind.
func (e *FormatError) Unwrap() []error {
	return []error{ErrInvalidFormat, e.Kind}
}

func formatError(offset int, kind error, reason string) *FormatError {
	return &FormatError{Offset: offset, Kind: kind, Reason: reason}
}
