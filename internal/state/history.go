package state

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 200
)

// Apply-history sources.
const (
	HistorySourceSchedule = "schedule"
	HistorySourceOffset   = "offset"
	HistorySourceStartup  = "startup"
)

// HistoryEntry is one recorded brightness application.
type HistoryEntry struct {
	ID         int64
	DeviceKey  string
	Brightness int
	Altitude   float64
	Source     string
	CreatedAt  time.Time
}

// HistoryRepository persists brightness applications for later inspection.
type HistoryRepository interface {
	RecordApply(ctx context.Context, deviceKey string, brightness int, altitude float64, source string) error
	GetHistory(ctx context.Context, deviceKey string, limit int) ([]HistoryEntry, error)
	PruneHistory(ctx context.Context, olderThan time.Duration) (int64, error)
}

// SQLiteHistoryRepository implements HistoryRepository using SQLite.
type SQLiteHistoryRepository struct {
	db *sql.DB
}

// NewSQLiteHistoryRepository creates a new SQLite apply-history repository.
//
// Parameters:
//   - db: Open SQLite connection used for queries
//
// Returns:
//   - *SQLiteHistoryRepository: Repository instance ready for use
func NewSQLiteHistoryRepository(db *sql.DB) *SQLiteHistoryRepository {
	return &SQLiteHistoryRepository{db: db}
}

// RecordApply inserts a new apply-history entry for a device.
//
// Parameters:
//   - ctx: Context for cancellation and timeout
//   - deviceKey: Stable device identifier
//   - brightness: Applied brightness percent
//   - altitude: Solar altitude in degrees at the time of application
//   - source: Origin of the change (schedule, offset, startup)
//
// Returns:
//   - error: nil on success, otherwise the underlying database error
func (r *SQLiteHistoryRepository) RecordApply(ctx context.Context, deviceKey string, brightness int, altitude float64, source string) error {
	if deviceKey == "" {
		return fmt.Errorf("device key is required")
	}
	if source == "" {
		source = HistorySourceSchedule
	}

	_, err := r.db.ExecContext(ctx,
		"INSERT INTO apply_history (device_key, brightness, altitude, source) VALUES (?, ?, ?, ?)",
		deviceKey,
		brightness,
		altitude,
		source,
	)
	if err != nil {
		return fmt.Errorf("inserting apply history: %w", err)
	}

	return nil
}

// GetHistory returns recent entries for a device, ordered newest first.
//
// Parameters:
//   - ctx: Context for cancellation and timeout
//   - deviceKey: Stable device identifier
//   - limit: Maximum entries to return (default 50, max 200)
//
// Returns:
//   - []HistoryEntry: Entries ordered by created_at DESC
//   - error: nil on success, otherwise the underlying query error
func (r *SQLiteHistoryRepository) GetHistory(ctx context.Context, deviceKey string, limit int) ([]HistoryEntry, error) {
	if deviceKey == "" {
		return nil, fmt.Errorf("device key is required")
	}
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, device_key, brightness, altitude, source, created_at
		 FROM apply_history
		 WHERE device_key = ?
		 ORDER BY created_at DESC
		 LIMIT ?`,
		deviceKey,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("querying apply history: %w", err)
	}
	defer rows.Close()

	entries := make([]HistoryEntry, 0, limit)
	for rows.Next() {
		var entry HistoryEntry
		var createdAt string

		if err := rows.Scan(&entry.ID, &entry.DeviceKey, &entry.Brightness, &entry.Altitude, &entry.Source, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning apply history: %w", err)
		}

		timestamp, err := parseHistoryTimestamp(createdAt)
		if err != nil {
			return nil, err
		}
		entry.CreatedAt = timestamp

		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating apply history: %w", err)
	}

	return entries, nil
}

// PruneHistory deletes entries older than the given duration.
//
// Parameters:
//   - ctx: Context for cancellation and timeout
//   - olderThan: Duration to retain (entries older than now-olderThan are deleted)
//
// Returns:
//   - int64: Number of rows deleted
//   - error: nil on success, otherwise the underlying database error
func (r *SQLiteHistoryRepository) PruneHistory(ctx context.Context, olderThan time.Duration) (int64, error) {
	if olderThan <= 0 {
		return 0, fmt.Errorf("olderThan must be positive")
	}

	cutoff := time.Now().UTC().Add(-olderThan).Format(time.RFC3339)
	result, err := r.db.ExecContext(ctx,
		"DELETE FROM apply_history WHERE created_at < ?",
		cutoff,
	)
	if err != nil {
		return 0, fmt.Errorf("deleting apply history: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("checking rows affected: %w", err)
	}

	return rowsAffected, nil
}

// parseHistoryTimestamp parses a timestamp stored in SQLite.
func parseHistoryTimestamp(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, fmt.Errorf("created_at is empty")
	}

	timestamp, err := time.Parse(time.RFC3339, value)
	if err == nil {
		return timestamp, nil
	}

	fallback, fallbackErr := time.Parse("2006-01-02 15:04:05", value)
	if fallbackErr == nil {
		return fallback.UTC(), nil
	}

	return time.Time{}, fmt.Errorf("parsing created_at: %w", err)
}
