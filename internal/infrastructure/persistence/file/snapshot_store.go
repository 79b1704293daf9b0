// Package file stores the ledger snapshot as a JSON file on local disk.
package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/dailywarden/warden/internal/domain/shared"
)

// SnapshotStore writes the snapshot to a single file. Saves go through a
// temp file in the same directory and a rename, so a crash mid-save leaves
// the previous document intact.
type SnapshotStore struct {
	path string
	perm fs.FileMode
}

// NewSnapshotStore creates a store at path. The parent directory is created
// on first save.
func NewSnapshotStore(path string) *SnapshotStore {
	return &SnapshotStore{path: path, perm: 0o644}
}

// Path returns the snapshot file path.
func (s *SnapshotStore) Path() string { return s.path }

// Load returns the file contents or shared.ErrSnapshotNotFound.
func (s *SnapshotStore) Load(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, shared.ErrSnapshotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("file: read %s: %w", s.path, err)
	}
	return raw, nil
}

// Save atomically replaces the file.
func (s *SnapshotStore) Save(ctx context.Context, raw []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("file: create %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("file: create temp: %w", err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(raw); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("file: write temp: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("file: sync temp: %w", err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("file: close temp: %w", err)
	}
	if err := os.Chmod(tmpName, s.perm); err != nil {
		cleanup()
		return fmt.Errorf("file: chmod temp: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		cleanup()
		return fmt.Errorf("file: rename to %s: %w", s.path, err)
	}
	return nil
}

// Ping reports whether the snapshot directory is usable.
func (s *SnapshotStore) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	info, err := os.Stat(filepath.Dir(s.path))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("file: %s is not a directory", filepath.Dir(s.path))
	}
	return nil
}
