package device

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ddcutilBinary is the control tool for external displays.
const ddcutilBinary = "ddcutil"

// vcpBrightnessFeature is the VCP feature code for luminance.
const vcpBrightnessFeature = "10"

// monitorValuePattern extracts the value from `ddcutil getvcp 10`,
// which prints a line like
// `VCP code 0x10 (Brightness): current value = 70, max value = 100`.
var monitorValuePattern = regexp.MustCompile(`current value =\s*(\d+)`)

// monitor controls an external display via ddcutil DDC/CI.
type monitor struct {
	cfg    Config
	runner Runner
}

func newMonitor(cfg Config, runner Runner) *monitor {
	return &monitor{cfg: cfg, runner: runner}
}

func (m *monitor) displayArg() string {
	return strconv.Itoa(*m.cfg.ID)
}

// Apply sets the display luminance with `ddcutil -d N setvcp 10 P`.
func (m *monitor) Apply(ctx context.Context, percent int) error {
	if err := validatePercent(percent); err != nil {
		return err
	}
	_, err := m.runner.Run(ctx, ddcutilBinary,
		"-d", m.displayArg(),
		"setvcp", vcpBrightnessFeature, strconv.Itoa(percent))
	return err
}

// ReadCurrent parses the luminance out of `ddcutil getvcp 10`.
//
// Some displays accept setvcp but answer getvcp with an unsupported
// feature error; that maps to ErrReadUnsupported so the caller can keep
// applying without readback.
func (m *monitor) ReadCurrent(ctx context.Context) (int, error) {
	out, err := m.runner.Run(ctx, ddcutilBinary,
		"-d", m.displayArg(),
		"getvcp", vcpBrightnessFeature)
	if err != nil {
		if isUnsupportedFeature(err) {
			return 0, fmt.Errorf("%w: display %s", ErrReadUnsupported, m.displayArg())
		}
		return 0, err
	}

	match := monitorValuePattern.FindStringSubmatch(out)
	if match == nil {
		return 0, fmt.Errorf("%w: ddcutil getvcp", ErrParse)
	}
	value, err := strconv.Atoi(match[1])
	if err != nil {
		return 0, fmt.Errorf("%w: ddcutil getvcp: %w", ErrParse, err)
	}
	return value, nil
}

// Config implements Backend.
func (m *monitor) Config() Config { return m.cfg }

// isUnsupportedFeature detects ddcutil's unsupported-feature report.
func isUnsupportedFeature(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unsupported feature") ||
		strings.Contains(msg, "ddcrc_report_unsupported") ||
		strings.Contains(msg, "feature 0x10 not supported")
}
