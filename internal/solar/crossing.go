package solar

import "time"

// AltitudeFunc returns the solar altitude in degrees at time t.
type AltitudeFunc func(t time.Time) float64

// Crossing describes a predicted altitude threshold crossing.
type Crossing struct {
	// Time is the approximate moment of the crossing.
	Time time.Time

	// Threshold is the altitude (degrees) being crossed.
	Threshold float64

	// Rising reports whether the altitude is increasing through the threshold.
	Rising bool
}

// Search tuning for crossing prediction. The altitude curve changes by at
// most a fraction of a degree per minute, so a coarse sample plus bisection
// is plenty.
const (
	crossingSamples   = 16
	crossingTolerance = 30 * time.Second
)

// NextCrossing searches [from, from+window] for the earliest time the
// altitude function crosses any of the given thresholds, in either
// direction.
//
// It is used to announce an upcoming brightness change shortly before a
// threshold crossing, without logging on every cycle near the boundary.
//
// Parameters:
//   - f: Altitude function to sample
//   - from: Start of the search window
//   - window: Length of the search window
//   - thresholds: Altitudes (degrees) to test
//
// Returns:
//   - Crossing: The earliest crossing found
//   - bool: false when no threshold is crossed inside the window
func NextCrossing(f AltitudeFunc, from time.Time, window time.Duration, thresholds ...float64) (Crossing, bool) {
	if window <= 0 {
		return Crossing{}, false
	}
	end := from.Add(window)

	best := Crossing{}
	found := false
	for _, target := range thresholds {
		if at, rising, ok := findCrossing(f, from, end, target); ok {
			if !found || at.Before(best.Time) {
				best = Crossing{Time: at, Threshold: target, Rising: rising}
				found = true
			}
		}
	}
	return best, found
}

// findCrossing brackets a sign change of f-target across [start, end] and
// bisects it down to crossingTolerance.
func findCrossing(f AltitudeFunc, start, end time.Time, target float64) (time.Time, bool, bool) {
	interval := end.Sub(start) / time.Duration(crossingSamples-1)

	prevT := start
	prevAlt := f(prevT) - target

	for i := 1; i < crossingSamples; i++ {
		t := start.Add(time.Duration(i) * interval)
		alt := f(t) - target

		if prevAlt == 0 {
			return prevT, alt > 0, true
		}
		if prevAlt*alt < 0 {
			at := bisect(f, prevT, t, target)
			return at, prevAlt < 0, true
		}

		prevT, prevAlt = t, alt
	}

	return time.Time{}, false, false
}

// bisect narrows a bracketed crossing of f-target to crossingTolerance.
func bisect(f AltitudeFunc, a, b time.Time, target float64) time.Time {
	altA := f(a) - target

	for b.Sub(a) > crossingTolerance {
		mid := a.Add(b.Sub(a) / 2)
		altM := f(mid) - target

		if altA*altM <= 0 {
			b = mid
		} else {
			a = mid
			altA = altM
		}
	}

	return a.Add(b.Sub(a) / 2)
}
