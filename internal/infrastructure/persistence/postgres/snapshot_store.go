package postgres

import (
	"context"
	"fmt"

	"github.com/dailywarden/warden/internal/domain/shared"
)

const (
	loadSnapshotSQL = `SELECT document FROM warden_snapshots WHERE name = $1`

	saveSnapshotSQL = `
		INSERT INTO warden_snapshots (name, document, saved_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (name) DO UPDATE
		SET document = EXCLUDED.document, saved_at = EXCLUDED.saved_at
	`
)

// SnapshotStore keeps one named snapshot row in warden_snapshots.
type SnapshotStore struct {
	db   Querier
	name string
}

// NewSnapshotStore creates a store for the snapshot called name.
func NewSnapshotStore(db Querier, name string) *SnapshotStore {
	return &SnapshotStore{db: db, name: name}
}

// Load returns the stored document or shared.ErrSnapshotNotFound.
func (s *SnapshotStore) Load(ctx context.Context) ([]byte, error) {
	var doc string
	if err := s.db.QueryRow(ctx, loadSnapshotSQL, s.name).Scan(&doc); err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrSnapshotNotFound
		}
		return nil, fmt.Errorf("postgres: load snapshot %q: %w", s.name, err)
	}
	return []byte(doc), nil
}

// Save upserts the document.
func (s *SnapshotStore) Save(ctx context.Context, raw []byte) error {
	if _, err := s.db.Exec(ctx, saveSnapshotSQL, s.name, string(raw)); err != nil {
		return fmt.Errorf("postgres: save snapshot %q: %w", s.name, err)
	}
	return nil
}
