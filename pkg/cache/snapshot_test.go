package cache

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestSnapshotRoundTrip(t *testing.T) {
	s, err := NewSnapshotStore(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	saved := []payload{{Symbol: "AAPL", Price: 187.5}, {Symbol: "MSFT", Price: 420}}
	if err := s.Save("records.json", saved); err != nil {
		t.Fatalf("save: %v", err)
	}

	var loaded []payload
	if err := s.Load("records.json", &loaded); err != nil {
		t.Fatalf("load: %v", err)
	}
	if !reflect.DeepEqual(loaded, saved) {
		t.Fatalf("round trip mismatch: %v vs %v", loaded, saved)
	}
}

func TestSnapshotMissingFileIsMiss(t *testing.T) {
	s, err := NewSnapshotStore(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	var dest []payload
	if err := s.Load("absent.json", &dest); err != ErrCacheMiss {
		t.Fatalf("expected ErrCacheMiss, got %v", err)
	}
}

func TestSnapshotCorruptFileErrors(t *testing.T) {
	dir := t.TempDir()
	s, err := NewSnapshotStore(dir)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "bad.json"), []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	var dest map[string]string
	if err := s.Load("bad.json", &dest); err == nil || err == ErrCacheMiss {
		t.Fatalf("expected parse error, got %v", err)
	}
}

func TestSnapshotLeavesNoTempFile(t *testing.T) {
	dir := t.TempDir()
	s, err := NewSnapshotStore(dir)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	if err := s.Save("state.json", map[string]int{"n": 1}); err != nil {
		t.Fatalf("save: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != "state.json" {
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Fatalf("unexpected directory contents: %v", names)
	}
}

func TestSnapshotRequiresDir(t *testing.T) {
	if _, err := NewSnapshotStore(""); err == nil {
		t.Fatal("expected error for empty dir")
	}
}
