// Package state persists the daemon's runtime state.
//
// Two stores live here:
//
//   - Store: the JSON state file holding the user's manual offset and
//     the last brightness applied per device. Writes are atomic
//     (temp file + rename) so concurrent one-shot invocations and the
//     daemon never see a torn document.
//   - SQLiteHistoryRepository: an optional apply-history log in SQLite,
//     recording what was applied, when, and at what solar altitude.
package state
