// Package brightness implements the brightness-decision core of sundim.
//
// Two pure functions carry the whole policy:
//
//   - Baseline maps solar altitude onto a percentage by linear
//     interpolation inside the configured altitude window.
//   - Reconcile merges the baseline with the persisted manual offset and
//     classifies readback drift against the manual-change tolerance.
//
// Both are free of I/O and clock access, which keeps the decision logic
// testable without devices, files, or a real sun.
//
// # Invariants
//
//   - Every Target returned by Reconcile lies within the configured Range,
//     regardless of offset magnitude.
//   - Baseline is monotonic non-decreasing in altitude.
//   - Drift never mutates the offset; it is reported for logging only.
package brightness
