package location

import "errors"

// Domain errors for the location package.
//
// These errors can be checked using errors.Is() for error handling:
//
//	if errors.Is(err, location.ErrUnavailable) {
//	    // fall back or abort the cycle
//	}
var (
	// ErrUnavailable is returned when no provider could produce a location.
	ErrUnavailable = errors.New("location: unavailable")

	// ErrInvalidCoordinates is returned when coordinates are out of range.
	ErrInvalidCoordinates = errors.New("location: invalid coordinates")

	// ErrNoMatch is returned when a provider's output could not be parsed.
	ErrNoMatch = errors.New("location: no coordinates in provider output")
)
