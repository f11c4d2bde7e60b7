package device

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
)

// brightnessctlBinary is the control tool for internal panels.
const brightnessctlBinary = "brightnessctl"

// laptopInfoPattern extracts the percent from `brightnessctl info`,
// which prints a line like `Current brightness: 19200 (75%)`.
var laptopInfoPattern = regexp.MustCompile(`\((\d+)%\)`)

// laptop controls an internal panel via brightnessctl.
type laptop struct {
	cfg    Config
	runner Runner
}

func newLaptop(cfg Config, runner Runner) *laptop {
	return &laptop{cfg: cfg, runner: runner}
}

// Apply sets the panel brightness with `brightnessctl set N%`.
func (l *laptop) Apply(ctx context.Context, percent int) error {
	if err := validatePercent(percent); err != nil {
		return err
	}
	_, err := l.runner.Run(ctx, brightnessctlBinary, "set", fmt.Sprintf("%d%%", percent))
	return err
}

// ReadCurrent parses the percent out of `brightnessctl info`.
func (l *laptop) ReadCurrent(ctx context.Context) (int, error) {
	out, err := l.runner.Run(ctx, brightnessctlBinary, "info")
	if err != nil {
		return 0, err
	}

	match := laptopInfoPattern.FindStringSubmatch(out)
	if match == nil {
		return 0, fmt.Errorf("%w: brightnessctl info", ErrParse)
	}
	percent, err := strconv.Atoi(match[1])
	if err != nil {
		return 0, fmt.Errorf("%w: brightnessctl info: %w", ErrParse, err)
	}
	return percent, nil
}

// Config implements Backend.
func (l *laptop) Config() Config { return l.cfg }
