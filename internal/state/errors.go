package state

import "errors"

// Domain errors for the state package.
var (
	// ErrIO is returned when the state file could not be read or written.
	ErrIO = errors.New("state: file io failed")

	// ErrCorrupt is returned when the state file exists but cannot be
	// parsed. The store falls back to defaults in that case.
	ErrCorrupt = errors.New("state: file corrupt")

	// ErrInvalidOffset is returned when an offset is outside the
	// acceptable range.
	ErrInvalidOffset = errors.New("state: offset out of range")
)
