package brightness

import "errors"

// Domain errors for the brightness package.
//
// These errors can be checked using errors.Is() for error handling:
//
//	if errors.Is(err, brightness.ErrInvalidRange) {
//	    // handle configuration error
//	}
var (
	// ErrInvalidRange is returned when a brightness range is inverted or
	// outside 0-100.
	ErrInvalidRange = errors.New("brightness: invalid range")

	// ErrInvalidThresholds is returned when the altitude window is inverted.
	ErrInvalidThresholds = errors.New("brightness: invalid thresholds")
)
