package device

import "errors"

// Domain errors for the device package.
//
// These errors can be checked using errors.Is() for error handling:
//
//	if errors.Is(err, device.ErrTransient) {
//	    // safe to retry
//	}
var (
	// ErrTransient is returned for failures that may succeed on retry,
	// such as DDC/CI bus contention or command timeouts.
	ErrTransient = errors.New("device: transient failure")

	// ErrPermission is returned when the control tool was denied access.
	// Retrying will not help; the fix is outside the process.
	ErrPermission = errors.New("device: permission denied")

	// ErrToolMissing is returned when the control binary is not installed.
	ErrToolMissing = errors.New("device: control tool not found")

	// ErrReadUnsupported is returned when the display refuses brightness
	// readback. Writes may still work.
	ErrReadUnsupported = errors.New("device: brightness readback unsupported")

	// ErrParse is returned when the tool's output did not match the
	// expected format.
	ErrParse = errors.New("device: unparsable tool output")

	// ErrUnknownKind is returned for an unrecognised device kind.
	ErrUnknownKind = errors.New("device: unknown device kind")

	// ErrInvalidConfig is returned for an invalid device configuration.
	ErrInvalidConfig = errors.New("device: invalid configuration")

	// ErrInvalidPercent is returned when a brightness value is outside 0-100.
	ErrInvalidPercent = errors.New("device: brightness percent out of range")
)
