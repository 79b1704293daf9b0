package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dailywarden/warden/internal/domain/shared"
)

func TestSnapshotStore_RoundTrip(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "warden.db"), zap.NewNop())
	require.NoError(t, err)

	store := NewSnapshotStore(db, "default")
	ctx := context.Background()
	t.Cleanup(func() { _ = store.Close() })

	_, err = store.Load(ctx)
	assert.True(t, errors.Is(err, shared.ErrSnapshotNotFound))

	require.NoError(t, store.Save(ctx, []byte(`{"2026-10-14": {"b": {}, "a": {}}}`)))
	require.NoError(t, store.Save(ctx, []byte(`{"2026-10-15": {"z": {}, "y": {}}}`)))

	raw, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, `{"2026-10-15": {"z": {}, "y": {}}}`, string(raw))

	var count int64
	require.NoError(t, db.Model(&SnapshotRecord{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	require.NoError(t, store.Ping(ctx))
}

func TestOpen_RequiresPath(t *testing.T) {
	_, err := Open("", nil)
	assert.Error(t, err)
}
