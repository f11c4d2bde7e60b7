package brightness

import "fmt"

// Range bounds every brightness value the daemon computes or applies.
// Values are whole percentages.
type Range struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// Thresholds define the solar altitude window (degrees) over which the
// baseline brightness is interpolated. Below SunDown the range minimum
// applies, above SunHigh the maximum.
type Thresholds struct {
	SunDown float64 `json:"sun_down_alt"`
	SunHigh float64 `json:"sun_high_alt"`
}

// Percentage bounds for brightness values.
const (
	percentMin = 0
	percentMax = 100
)

// Validate checks that the range is within 0-100 and not inverted.
func (r Range) Validate() error {
	if r.Min < percentMin || r.Min > percentMax {
		return fmt.Errorf("%w: min %d outside 0-100", ErrInvalidRange, r.Min)
	}
	if r.Max < percentMin || r.Max > percentMax {
		return fmt.Errorf("%w: max %d outside 0-100", ErrInvalidRange, r.Max)
	}
	if r.Min >= r.Max {
		return fmt.Errorf("%w: min %d not below max %d", ErrInvalidRange, r.Min, r.Max)
	}
	return nil
}

// Validate checks that the altitude window is not inverted or empty.
func (t Thresholds) Validate() error {
	if t.SunDown >= t.SunHigh {
		return fmt.Errorf("%w: sun_down_alt %.2f not below sun_high_alt %.2f",
			ErrInvalidThresholds, t.SunDown, t.SunHigh)
	}
	return nil
}

// Clamp forces v into the range.
func Clamp(v int, r Range) int {
	if v < r.Min {
		return r.Min
	}
	if v > r.Max {
		return r.Max
	}
	return v
}
