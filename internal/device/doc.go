// Package device controls display brightness through external tools.
//
// Two backends are provided behind the Backend interface:
//
//   - laptop: internal panels via brightnessctl
//   - monitor: external displays via ddcutil DDC/CI
//
// Failures are classified into a small taxonomy (ErrTransient,
// ErrPermission, ErrToolMissing, ErrReadUnsupported) so the control loop
// can decide what to retry and what to report once and skip.
// ApplyWithRetry implements the retry policy for transient failures.
//
// Backends take a Runner so tests can substitute canned tool output.
package device
