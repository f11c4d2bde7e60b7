package brightness

// Decision is the outcome of reconciling a baseline with the persisted
// offset and an optional device readback.
type Decision struct {
	// Target is the brightness to apply, always within the configured range.
	Target int

	// Drift is observed minus last-applied brightness. Zero when either
	// side is unknown.
	Drift int

	// ManualChange reports whether the drift exceeds the configured
	// tolerance and therefore looks like a deliberate out-of-band user
	// adjustment rather than readback noise.
	ManualChange bool
}

// Reconcile merges the baseline brightness with the manual offset and
// classifies readback drift.
//
// Target is clamp(baseline+offset): the clamp invariant holds for any
// offset magnitude. Drift detection compares the observed device
// brightness against the value the daemon last applied; a difference
// beyond the tolerance marks a manual change. The offset itself is never
// adjusted here. Auto-absorbing drift into the offset was considered and
// rejected: flaky DDC readback would let the offset creep without any
// user action, so manual changes are reported and left to the user.
//
// Parameters:
//   - baseline: Curve output for the current solar altitude
//   - offset: Persisted manual offset (signed percent)
//   - observed: Device readback, nil when unsupported or failed
//   - lastApplied: Previously persisted applied value, nil on first run
//   - tolerance: Drift-noise threshold (percent)
//   - rng: Brightness bounds
//
// Returns:
//   - Decision: Target to apply plus drift classification
func Reconcile(baseline, offset int, observed, lastApplied *int, tolerance int, rng Range) Decision {
	d := Decision{
		Target: Clamp(baseline+offset, rng),
	}

	if observed == nil || lastApplied == nil {
		return d
	}

	d.Drift = *observed - *lastApplied
	if abs(d.Drift) > tolerance {
		d.ManualChange = true
	}

	return d
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
