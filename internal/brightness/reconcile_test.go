package brightness

import "testing"

func intPtr(v int) *int { return &v }

func TestReconcile_OffsetApplied(t *testing.T) {
	d := Reconcile(50, 15, nil, nil, 2, testRange)
	if d.Target != 65 {
		t.Errorf("Target = %d, want 65", d.Target)
	}
	if d.ManualChange {
		t.Error("ManualChange = true, want false with no readback")
	}
}

func TestReconcile_ClampInvariant(t *testing.T) {
	for _, offset := range []int{-1000, -101, -1, 0, 1, 101, 1000} {
		d := Reconcile(50, offset, nil, nil, 2, testRange)
		if d.Target < testRange.Min || d.Target > testRange.Max {
			t.Errorf("offset %d: Target = %d outside [%d,%d]",
				offset, d.Target, testRange.Min, testRange.Max)
		}
	}
}

func TestReconcile_DriftClassification(t *testing.T) {
	tests := []struct {
		name         string
		observed     *int
		lastApplied  *int
		tolerance    int
		wantDrift    int
		wantManual   bool
	}{
		{
			name:        "within tolerance",
			observed:    intPtr(52),
			lastApplied: intPtr(50),
			tolerance:   2,
			wantDrift:   2,
			wantManual:  false,
		},
		{
			name:        "beyond tolerance",
			observed:    intPtr(70),
			lastApplied: intPtr(50),
			tolerance:   2,
			wantDrift:   20,
			wantManual:  true,
		},
		{
			name:        "negative drift beyond tolerance",
			observed:    intPtr(30),
			lastApplied: intPtr(50),
			tolerance:   2,
			wantDrift:   -20,
			wantManual:  true,
		},
		{
			name:        "exactly at tolerance",
			observed:    intPtr(53),
			lastApplied: intPtr(50),
			tolerance:   3,
			wantDrift:   3,
			wantManual:  false,
		},
		{
			name:        "no readback",
			observed:    nil,
			lastApplied: intPtr(50),
			tolerance:   2,
			wantDrift:   0,
			wantManual:  false,
		},
		{
			name:        "first run",
			observed:    intPtr(48),
			lastApplied: nil,
			tolerance:   2,
			wantDrift:   0,
			wantManual:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Reconcile(50, 0, tt.observed, tt.lastApplied, tt.tolerance, testRange)
			if d.Drift != tt.wantDrift {
				t.Errorf("Drift = %d, want %d", d.Drift, tt.wantDrift)
			}
			if d.ManualChange != tt.wantManual {
				t.Errorf("ManualChange = %v, want %v", d.ManualChange, tt.wantManual)
			}
		})
	}
}

func TestReconcile_ManualChangeDoesNotTouchTarget(t *testing.T) {
	// A detected manual change is log-only: the target still follows the
	// curve plus the persisted offset.
	d := Reconcile(50, 10, intPtr(90), intPtr(60), 2, testRange)
	if d.Target != 60 {
		t.Errorf("Target = %d, want 60", d.Target)
	}
	if !d.ManualChange {
		t.Error("ManualChange = false, want true")
	}
}
