package state

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// setupHistoryTestDB creates an in-memory SQLite database with the apply_history table.
func setupHistoryTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	schema := `
		CREATE TABLE apply_history (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			device_key TEXT NOT NULL,
			brightness INTEGER NOT NULL,
			altitude REAL NOT NULL,
			source TEXT NOT NULL DEFAULT 'schedule',
			created_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ', 'now'))
		) STRICT;
		CREATE INDEX idx_apply_history_device ON apply_history(device_key, created_at DESC);
	`

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		t.Fatalf("failed to create test schema: %v", err)
	}

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

// insertHistoryRow inserts an apply-history row with a specific timestamp.
func insertHistoryRow(t *testing.T, db *sql.DB, deviceKey string, brightness int, createdAt time.Time) {
	t.Helper()

	_, err := db.Exec(
		"INSERT INTO apply_history (device_key, brightness, altitude, source, created_at) VALUES (?, ?, ?, ?, ?)",
		deviceKey,
		brightness,
		0.0,
		HistorySourceSchedule,
		createdAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		t.Fatalf("failed to insert apply history row: %v", err)
	}
}

func TestRecordApply(t *testing.T) {
	db := setupHistoryTestDB(t)
	repo := NewSQLiteHistoryRepository(db)
	ctx := context.Background()

	if err := repo.RecordApply(ctx, "laptop", 65, 12.4, HistorySourceSchedule); err != nil {
		t.Fatalf("RecordApply() error = %v", err)
	}

	entries, err := repo.GetHistory(ctx, "laptop", 10)
	if err != nil {
		t.Fatalf("GetHistory() error = %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("entries length = %d, want 1", len(entries))
	}

	entry := entries[0]
	if entry.DeviceKey != "laptop" {
		t.Errorf("DeviceKey = %q, want %q", entry.DeviceKey, "laptop")
	}
	if entry.Brightness != 65 {
		t.Errorf("Brightness = %d, want 65", entry.Brightness)
	}
	if entry.Altitude != 12.4 {
		t.Errorf("Altitude = %v, want 12.4", entry.Altitude)
	}
	if entry.Source != HistorySourceSchedule {
		t.Errorf("Source = %q, want %q", entry.Source, HistorySourceSchedule)
	}
	if entry.CreatedAt.IsZero() {
		t.Error("CreatedAt is zero")
	}
}

func TestRecordApplyRequiresDeviceKey(t *testing.T) {
	db := setupHistoryTestDB(t)
	repo := NewSQLiteHistoryRepository(db)

	if err := repo.RecordApply(context.Background(), "", 50, 0, ""); err == nil {
		t.Error("RecordApply() with empty device key succeeded, want error")
	}
}

func TestRecordApplyDefaultsSource(t *testing.T) {
	db := setupHistoryTestDB(t)
	repo := NewSQLiteHistoryRepository(db)
	ctx := context.Background()

	if err := repo.RecordApply(ctx, "monitor-1", 40, -3.2, ""); err != nil {
		t.Fatalf("RecordApply() error = %v", err)
	}

	entries, err := repo.GetHistory(ctx, "monitor-1", 1)
	if err != nil {
		t.Fatalf("GetHistory() error = %v", err)
	}
	if entries[0].Source != HistorySourceSchedule {
		t.Errorf("Source = %q, want default %q", entries[0].Source, HistorySourceSchedule)
	}
}

func TestGetHistoryOrderAndLimit(t *testing.T) {
	db := setupHistoryTestDB(t)
	repo := NewSQLiteHistoryRepository(db)
	ctx := context.Background()

	base := time.Now().UTC().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		insertHistoryRow(t, db, "laptop", 10+i, base.Add(time.Duration(i)*time.Minute))
	}

	entries, err := repo.GetHistory(ctx, "laptop", 3)
	if err != nil {
		t.Fatalf("GetHistory() error = %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("entries length = %d, want 3", len(entries))
	}
	// Newest first.
	if entries[0].Brightness != 14 || entries[2].Brightness != 12 {
		t.Errorf("order = [%d, %d, %d], want [14, 13, 12]",
			entries[0].Brightness, entries[1].Brightness, entries[2].Brightness)
	}
}

func TestGetHistoryFiltersByDevice(t *testing.T) {
	db := setupHistoryTestDB(t)
	repo := NewSQLiteHistoryRepository(db)
	ctx := context.Background()

	insertHistoryRow(t, db, "laptop", 50, time.Now().UTC())
	insertHistoryRow(t, db, "monitor-1", 60, time.Now().UTC())

	entries, err := repo.GetHistory(ctx, "monitor-1", 10)
	if err != nil {
		t.Fatalf("GetHistory() error = %v", err)
	}
	if len(entries) != 1 || entries[0].DeviceKey != "monitor-1" {
		t.Errorf("entries = %+v, want only monitor-1", entries)
	}
}

func TestPruneHistory(t *testing.T) {
	db := setupHistoryTestDB(t)
	repo := NewSQLiteHistoryRepository(db)
	ctx := context.Background()

	insertHistoryRow(t, db, "laptop", 50, time.Now().UTC().Add(-48*time.Hour))
	insertHistoryRow(t, db, "laptop", 60, time.Now().UTC())

	deleted, err := repo.PruneHistory(ctx, 24*time.Hour)
	if err != nil {
		t.Fatalf("PruneHistory() error = %v", err)
	}
	if deleted != 1 {
		t.Errorf("PruneHistory() deleted = %d, want 1", deleted)
	}

	entries, err := repo.GetHistory(ctx, "laptop", 10)
	if err != nil {
		t.Fatalf("GetHistory() error = %v", err)
	}
	if len(entries) != 1 || entries[0].Brightness != 60 {
		t.Errorf("remaining entries = %+v, want only the recent one", entries)
	}
}

func TestPruneHistoryRejectsNonPositive(t *testing.T) {
	db := setupHistoryTestDB(t)
	repo := NewSQLiteHistoryRepository(db)

	if _, err := repo.PruneHistory(context.Background(), 0); err == nil {
		t.Error("PruneHistory(0) succeeded, want error")
	}
}
