package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// fileSnapshot persists the snapshot document as a single JSON file.
// This is the default backend when no database is configured and mirrors
// the browser's local-storage key one-to-one: the file content is exactly
// what the portal kept under pgvcc.scheduledVisits.
type fileSnapshot struct {
	path string
}

// NewFileSnapshot constructs a SnapshotStore writing to path.
func NewFileSnapshot(path string) SnapshotStore {
	return &fileSnapshot{path: path}
}

// Save writes the document atomically: temp file in the same directory,
// then rename, so a crash mid-write never leaves a torn snapshot.
func (f *fileSnapshot) Save(_ context.Context, data []byte) error {
	dir := filepath.Dir(f.path)
	tmp, err := os.CreateTemp(dir, ".visits-*.json")
	if err != nil {
		return fmt.Errorf("store.fileSnapshot.Save: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("store.fileSnapshot.Save: write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("store.fileSnapshot.Save: close: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("store.fileSnapshot.Save: rename: %w", err)
	}
	return nil
}

// Load reads the document. A missing file means no snapshot yet.
func (f *fileSnapshot) Load(_ context.Context) ([]byte, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNoSnapshot
		}
		return nil, fmt.Errorf("store.fileSnapshot.Load: %w", err)
	}
	return data, nil
}
