package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// SnapshotStore persists JSON snapshots under a base directory. Writes go to
// a temp file first and are renamed into place so a crash mid-write never
// leaves a truncated snapshot behind.
type SnapshotStore struct {
	dir string
}

// NewSnapshotStore creates the base directory if needed.
func NewSnapshotStore(dir string) (*SnapshotStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("snapshot dir is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("snapshot dir: %w", err)
	}
	return &SnapshotStore{dir: dir}, nil
}

// Save marshals v and atomically replaces <dir>/<name>.
func (s *SnapshotStore) Save(name string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal snapshot %s: %w", name, err)
	}

	path := filepath.Join(s.dir, name)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write snapshot %s: %w", name, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replace snapshot %s: %w", name, err)
	}
	return nil
}

// Load unmarshals <dir>/<name> into dest. A missing file reports ErrCacheMiss
// so callers can treat a cold start like any other cache miss.
func (s *SnapshotStore) Load(name string, dest interface{}) error {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return ErrCacheMiss
		}
		return fmt.Errorf("read snapshot %s: %w", name, err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("parse snapshot %s: %w", name, err)
	}
	return nil
}

// Dir returns the base directory.
func (s *SnapshotStore) Dir() string { return s.dir }
