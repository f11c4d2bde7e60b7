package solar

import (
	"testing"
	"time"
)

// linearAltitude returns an altitude function rising at degreesPerHour
// from startAlt at the given origin.
func linearAltitude(origin time.Time, startAlt, degreesPerHour float64) AltitudeFunc {
	return func(t time.Time) float64 {
		return startAlt + degreesPerHour*t.Sub(origin).Hours()
	}
}

func TestNextCrossing_Rising(t *testing.T) {
	origin := time.Date(2025, 3, 1, 6, 0, 0, 0, time.UTC)
	f := linearAltitude(origin, -8, 4) // crosses -6 after 30 minutes

	crossing, ok := NextCrossing(f, origin, time.Hour, -6)
	if !ok {
		t.Fatal("NextCrossing() found no crossing, want one")
	}
	if !crossing.Rising {
		t.Error("Rising = false, want true")
	}
	if crossing.Threshold != -6 {
		t.Errorf("Threshold = %v, want -6", crossing.Threshold)
	}

	want := origin.Add(30 * time.Minute)
	diff := crossing.Time.Sub(want)
	if diff < 0 {
		diff = -diff
	}
	if diff > time.Minute {
		t.Errorf("Time = %v, want within 1m of %v", crossing.Time, want)
	}
}

func TestNextCrossing_Falling(t *testing.T) {
	origin := time.Date(2025, 3, 1, 18, 0, 0, 0, time.UTC)
	f := linearAltitude(origin, -4, -4) // falls through -6 after 30 minutes

	crossing, ok := NextCrossing(f, origin, time.Hour, -6)
	if !ok {
		t.Fatal("NextCrossing() found no crossing, want one")
	}
	if crossing.Rising {
		t.Error("Rising = true, want false")
	}
}

func TestNextCrossing_NoneInWindow(t *testing.T) {
	origin := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	f := linearAltitude(origin, 10, 0.1) // far from both thresholds

	if _, ok := NextCrossing(f, origin, 15*time.Minute, -6, 30); ok {
		t.Error("NextCrossing() found a crossing, want none")
	}
}

func TestNextCrossing_EarliestOfMultiple(t *testing.T) {
	origin := time.Date(2025, 3, 1, 6, 0, 0, 0, time.UTC)
	f := linearAltitude(origin, -10, 41) // crosses -6 at ~6 min, 30 at ~59 min

	crossing, ok := NextCrossing(f, origin, time.Hour, -6, 30)
	if !ok {
		t.Fatal("NextCrossing() found no crossing, want one")
	}
	if crossing.Threshold != -6 {
		t.Errorf("Threshold = %v, want the earlier -6", crossing.Threshold)
	}
}

func TestNextCrossing_ZeroWindow(t *testing.T) {
	origin := time.Date(2025, 3, 1, 6, 0, 0, 0, time.UTC)
	f := linearAltitude(origin, -8, 4)

	if _, ok := NextCrossing(f, origin, 0, -6); ok {
		t.Error("NextCrossing() with zero window found a crossing, want none")
	}
}
