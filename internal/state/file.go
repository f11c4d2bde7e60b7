package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Persisted is the on-disk state document.
type Persisted struct {
	// Offset is the user's manual brightness adjustment in percentage
	// points, added to the computed baseline.
	Offset int `json:"user_offset"`

	// LastBrightness maps device keys to the last brightness percent
	// this process applied.
	LastBrightness map[string]int `json:"last_brightness"`
}

// DefaultPersisted returns a zeroed state document.
func DefaultPersisted() Persisted {
	return Persisted{LastBrightness: make(map[string]int)}
}

// FileRepository reads and writes the state document as JSON on disk.
//
// Writes go through a temp file and rename so a crash mid-write never
// leaves a truncated document behind.
type FileRepository struct {
	path string
}

// NewFileRepository creates a repository for the given file path.
func NewFileRepository(path string) *FileRepository {
	return &FileRepository{path: path}
}

// Path returns the state file location.
func (r *FileRepository) Path() string { return r.path }

// Load reads the state document.
//
// A missing file returns defaults with no error. An unreadable or
// unparsable file returns defaults along with ErrIO or ErrCorrupt so
// the caller can log the fallback.
func (r *FileRepository) Load() (Persisted, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return DefaultPersisted(), nil
		}
		return DefaultPersisted(), fmt.Errorf("%w: reading %s: %w", ErrIO, r.path, err)
	}

	var doc Persisted
	if err := json.Unmarshal(data, &doc); err != nil {
		return DefaultPersisted(), fmt.Errorf("%w: parsing %s: %w", ErrCorrupt, r.path, err)
	}
	if doc.LastBrightness == nil {
		doc.LastBrightness = make(map[string]int)
	}
	return doc, nil
}

// Save writes the state document atomically.
func (r *FileRepository) Save(doc Persisted) error {
	if doc.LastBrightness == nil {
		doc.LastBrightness = make(map[string]int)
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encoding state: %w", ErrIO, err)
	}

	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: creating %s: %w", ErrIO, dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(r.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("%w: creating temp file: %w", ErrIO, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%w: writing %s: %w", ErrIO, tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: closing %s: %w", ErrIO, tmpName, err)
	}

	if err := os.Rename(tmpName, r.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: replacing %s: %w", ErrIO, r.path, err)
	}
	return nil
}
