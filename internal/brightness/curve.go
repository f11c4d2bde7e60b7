package brightness

import "math"

// Baseline maps a solar altitude onto a brightness percentage.
//
// Altitudes at or below the SunDown threshold yield the range minimum,
// altitudes at or above SunHigh yield the maximum, and altitudes inside
// the window are linearly interpolated between the two.
//
// Rounding uses math.Round (half away from zero), so an interpolated
// 50.5 becomes 51. Baseline is pure and total: range and threshold
// validation happens once at config load, not here.
//
// Parameters:
//   - altitude: Solar altitude in degrees (negative below the horizon)
//   - rng: Brightness bounds
//   - thr: Altitude interpolation window
//
// Returns:
//   - int: Baseline brightness percentage within [rng.Min, rng.Max]
func Baseline(altitude float64, rng Range, thr Thresholds) int {
	switch {
	case altitude <= thr.SunDown:
		return rng.Min
	case altitude >= thr.SunHigh:
		return rng.Max
	}

	progress := (altitude - thr.SunDown) / (thr.SunHigh - thr.SunDown)
	raw := float64(rng.Min) + progress*float64(rng.Max-rng.Min)
	return int(math.Round(raw))
}
