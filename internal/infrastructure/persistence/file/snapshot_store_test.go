package file

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dailywarden/warden/internal/domain/shared"
)

func TestSnapshotStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "update_logs.json")
	store := NewSnapshotStore(path)
	ctx := context.Background()

	require.NoError(t, store.Ping(ctx))

	_, err := store.Load(ctx)
	assert.True(t, errors.Is(err, shared.ErrSnapshotNotFound))

	require.NoError(t, store.Save(ctx, []byte(`{"first": {}}`)))
	require.NoError(t, store.Save(ctx, []byte(`{"second": {}}`)))

	raw, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, `{"second": {}}`, string(raw))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")
}

func TestSnapshotStore_SaveIntoFileParentFails(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	store := NewSnapshotStore(filepath.Join(blocker, "snapshot.json"))
	assert.Error(t, store.Save(context.Background(), []byte("{}")))
	assert.Error(t, store.Ping(context.Background()))
}

func TestSnapshotStore_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	store := NewSnapshotStore(filepath.Join(t.TempDir(), "s.json"))
	assert.ErrorIs(t, store.Save(ctx, []byte("{}")), context.Canceled)
	_, err := store.Load(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
