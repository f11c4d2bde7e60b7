package device

import (
	"context"
	"fmt"
)

// Backend applies and reads brightness for a single display.
type Backend interface {
	// Apply sets the display brightness to the given percent (1-100).
	Apply(ctx context.Context, percent int) error

	// ReadCurrent reports the display's current brightness percent.
	// Returns ErrReadUnsupported when the display refuses readback.
	ReadCurrent(ctx context.Context) (int, error)

	// Config returns the configuration this backend was built from.
	Config() Config
}

// NewBackend builds the backend for the configured device kind.
func NewBackend(cfg Config, runner Runner) (Backend, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	switch cfg.Kind {
	case KindLaptop:
		return newLaptop(cfg, runner), nil
	case KindMonitor:
		return newMonitor(cfg, runner), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, cfg.Kind)
	}
}

// validatePercent rejects brightness values outside 0-100.
func validatePercent(percent int) error {
	if percent < 0 || percent > 100 {
		return fmt.Errorf("%w: %d", ErrInvalidPercent, percent)
	}
	return nil
}
