package solar

import "errors"

// Domain errors for the solar package.
var (
	// ErrInvalidCoordinates is returned when a latitude or longitude is out of range.
	ErrInvalidCoordinates = errors.New("solar: invalid coordinates")

	// ErrComputation is returned when the altitude calculation produced no usable value.
	ErrComputation = errors.New("solar: computation failed")
)
