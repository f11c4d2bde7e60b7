package state

import (
	"fmt"
	"sync"
)

// Offset bounds in percentage points. The offset is clamped into the
// brightness range on use; the bound here only rejects nonsense values.
const (
	minOffset = -100
	maxOffset = 100
)

// Logger is the minimal logging interface used by the store.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Store provides synchronised access to the persisted daemon state.
//
// Every mutation is written through to disk immediately so a concurrent
// one-shot invocation (setting the offset while the daemon runs) sees a
// consistent file. Refresh re-reads the offset so the daemon picks up
// such external changes at the start of each cycle.
type Store struct {
	mu     sync.Mutex
	repo   *FileRepository
	doc    Persisted
	logger Logger
}

// Open loads the state file and returns a ready store.
//
// A corrupt or unreadable file is logged and replaced with defaults;
// Open only fails when the offset bound check fails, which cannot
// happen from defaults.
func Open(repo *FileRepository, logger Logger) *Store {
	if logger == nil {
		logger = noopLogger{}
	}

	doc, err := repo.Load()
	if err != nil {
		logger.Warn("state file unusable, starting from defaults",
			"path", repo.Path(),
			"error", err)
	}
	if doc.Offset != 0 {
		logger.Info("manual offset restored", "offset", doc.Offset)
	}

	return &Store{repo: repo, doc: doc, logger: logger}
}

// Offset returns the current manual offset.
func (s *Store) Offset() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.Offset
}

// SetOffset stores and persists a new manual offset.
func (s *Store) SetOffset(offset int) error {
	if offset < minOffset || offset > maxOffset {
		return fmt.Errorf("%w: %d not in [%d, %d]", ErrInvalidOffset, offset, minOffset, maxOffset)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.doc.Offset = offset
	return s.repo.Save(s.doc)
}

// LastApplied returns the brightness last applied to the given device,
// or false when none has been recorded.
func (s *Store) LastApplied(deviceKey string) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.doc.LastBrightness[deviceKey]
	return v, ok
}

// RecordApplied persists the brightness just applied to a device.
//
// A write failure is logged rather than returned; losing the record
// costs one redundant drift comparison next cycle, nothing more.
func (s *Store) RecordApplied(deviceKey string, percent int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.doc.LastBrightness[deviceKey] = percent
	if err := s.repo.Save(s.doc); err != nil {
		s.logger.Warn("failed to persist applied brightness",
			"device", deviceKey,
			"brightness", percent,
			"error", err)
	}
}

// Refresh re-reads the state file, picking up changes made by a
// concurrent one-shot invocation. The one-shot path both sets the
// offset and applies brightness, so the on-disk document replaces the
// in-memory one wholesale; every mutation writes through, which makes
// the file the superset of what any single process remembers.
func (s *Store) Refresh() {
	doc, err := s.repo.Load()
	if err != nil {
		s.logger.Warn("failed to refresh state from disk",
			"path", s.repo.Path(),
			"error", err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if doc.Offset != s.doc.Offset {
		s.logger.Info("manual offset changed externally",
			"previous", s.doc.Offset,
			"current", doc.Offset)
	}
	s.doc = doc
}

// Snapshot returns a copy of the current state document.
func (s *Store) Snapshot() Persisted {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := Persisted{
		Offset:         s.doc.Offset,
		LastBrightness: make(map[string]int, len(s.doc.LastBrightness)),
	}
	for k, v := range s.doc.LastBrightness {
		copied.LastBrightness[k] = v
	}
	return copied
}
