package ledger

import "context"

// SnapshotStore is the persistence collaborator. It stores and returns raw
// snapshot documents and never interprets or mutates them.
type SnapshotStore interface {
	// Load returns the last saved document, or shared.ErrSnapshotNotFound
	// if nothing was ever saved.
	Load(ctx context.Context) ([]byte, error)

	// Save durably replaces the stored document.
	Save(ctx context.Context, raw []byte) error
}
