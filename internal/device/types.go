package device

import "fmt"

// Kind identifies the control mechanism for a display.
type Kind string

const (
	// KindLaptop is an internal panel controlled via brightnessctl.
	KindLaptop Kind = "laptop"

	// KindMonitor is an external display controlled via ddcutil DDC/CI.
	KindMonitor Kind = "monitor"
)

// Config describes one display to control.
type Config struct {
	// Kind selects the backend.
	Kind Kind

	// ID is the ddcutil display number. Required for monitors, unused
	// for laptops.
	ID *int

	// Name is an optional human-readable label used in logs.
	Name string
}

// Validate checks the configuration for the selected kind.
func (c Config) Validate() error {
	switch c.Kind {
	case KindLaptop:
		return nil
	case KindMonitor:
		if c.ID == nil {
			return fmt.Errorf("%w: monitor requires a display id", ErrInvalidConfig)
		}
		if *c.ID < 1 {
			return fmt.Errorf("%w: monitor display id %d must be positive", ErrInvalidConfig, *c.ID)
		}
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownKind, c.Kind)
	}
}

// Key returns a stable identifier used for state persistence and logging.
// Laptops map to "laptop"; monitors to "monitor-<id>".
func (c Config) Key() string {
	if c.Kind == KindMonitor && c.ID != nil {
		return fmt.Sprintf("monitor-%d", *c.ID)
	}
	return string(c.Kind)
}

// Label returns the configured name, falling back to the key.
func (c Config) Label() string {
	if c.Name != "" {
		return c.Name
	}
	return c.Key()
}
