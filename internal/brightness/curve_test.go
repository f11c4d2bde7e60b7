package brightness

import (
	"errors"
	"testing"
)

var (
	testRange      = Range{Min: 1, Max: 100}
	testThresholds = Thresholds{SunDown: -6, SunHigh: 30}
)

func TestBaseline_BelowWindow(t *testing.T) {
	for _, altitude := range []float64{-90, -20, -6.01, -6} {
		if got := Baseline(altitude, testRange, testThresholds); got != testRange.Min {
			t.Errorf("Baseline(%v) = %d, want %d", altitude, got, testRange.Min)
		}
	}
}

func TestBaseline_AboveWindow(t *testing.T) {
	for _, altitude := range []float64{30, 30.01, 45, 90} {
		if got := Baseline(altitude, testRange, testThresholds); got != testRange.Max {
			t.Errorf("Baseline(%v) = %d, want %d", altitude, got, testRange.Max)
		}
	}
}

func TestBaseline_Interpolation(t *testing.T) {
	// 1 + 99*(12-(-6))/36 = 50.5, rounded half away from zero to 51.
	if got := Baseline(12, testRange, testThresholds); got != 51 {
		t.Errorf("Baseline(12) = %d, want 51", got)
	}

	// Window midpoint of a symmetric range.
	if got := Baseline(0, Range{Min: 0, Max: 100}, Thresholds{SunDown: -10, SunHigh: 10}); got != 50 {
		t.Errorf("Baseline(0) = %d, want 50", got)
	}
}

func TestBaseline_Monotonic(t *testing.T) {
	prev := Baseline(testThresholds.SunDown, testRange, testThresholds)
	for altitude := testThresholds.SunDown; altitude <= testThresholds.SunHigh; altitude += 0.25 {
		got := Baseline(altitude, testRange, testThresholds)
		if got < prev {
			t.Fatalf("Baseline not monotonic: %d at %v after %d", got, altitude, prev)
		}
		if got < testRange.Min || got > testRange.Max {
			t.Fatalf("Baseline(%v) = %d outside range [%d,%d]",
				altitude, got, testRange.Min, testRange.Max)
		}
		prev = got
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		name string
		v    int
		want int
	}{
		{name: "below min", v: -50, want: 1},
		{name: "at min", v: 1, want: 1},
		{name: "inside", v: 42, want: 42},
		{name: "at max", v: 100, want: 100},
		{name: "above max", v: 250, want: 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Clamp(tt.v, testRange); got != tt.want {
				t.Errorf("Clamp(%d) = %d, want %d", tt.v, got, tt.want)
			}
		})
	}
}

func TestRangeValidate(t *testing.T) {
	tests := []struct {
		name    string
		rng     Range
		wantErr bool
	}{
		{name: "valid", rng: Range{Min: 1, Max: 100}, wantErr: false},
		{name: "narrow valid", rng: Range{Min: 40, Max: 41}, wantErr: false},
		{name: "inverted", rng: Range{Min: 80, Max: 20}, wantErr: true},
		{name: "equal", rng: Range{Min: 50, Max: 50}, wantErr: true},
		{name: "negative min", rng: Range{Min: -1, Max: 100}, wantErr: true},
		{name: "max above 100", rng: Range{Min: 0, Max: 101}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.rng.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidRange) {
				t.Errorf("Validate() error = %v, want ErrInvalidRange", err)
			}
		})
	}
}

func TestThresholdsValidate(t *testing.T) {
	if err := (Thresholds{SunDown: -6, SunHigh: 30}).Validate(); err != nil {
		t.Errorf("Validate() error = %v, want nil", err)
	}

	err := (Thresholds{SunDown: 30, SunHigh: -6}).Validate()
	if !errors.Is(err, ErrInvalidThresholds) {
		t.Errorf("Validate() error = %v, want ErrInvalidThresholds", err)
	}
}
