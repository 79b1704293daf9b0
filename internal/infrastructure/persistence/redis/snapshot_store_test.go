package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dailywarden/warden/internal/domain/shared"
)

type fakeKV struct {
	data   map[string]string
	setErr error
}

func (f *fakeKV) Get(_ context.Context, key string) *redis.StringCmd {
	v, ok := f.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (f *fakeKV) Set(_ context.Context, key string, value any, _ time.Duration) *redis.StatusCmd {
	if f.setErr != nil {
		return redis.NewStatusResult("", f.setErr)
	}
	f.data[key] = string(value.([]byte))
	return redis.NewStatusResult("OK", nil)
}

func TestSnapshotStore_RoundTrip(t *testing.T) {
	kv := &fakeKV{data: map[string]string{}}
	store := NewSnapshotStore(kv, "team")
	ctx := context.Background()

	assert.Equal(t, "warden:snapshot:team", store.Key())

	_, err := store.Load(ctx)
	assert.True(t, errors.Is(err, shared.ErrSnapshotNotFound))

	require.NoError(t, store.Save(ctx, []byte(`{"a": 1}`)))
	raw, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, `{"a": 1}`, string(raw))
}

func TestSnapshotStore_SaveError(t *testing.T) {
	kv := &fakeKV{data: map[string]string{}, setErr: errors.New("READONLY")}
	err := NewSnapshotStore(kv, "team").Save(context.Background(), []byte("{}"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "READONLY")
}

func TestConfig_Addr(t *testing.T) {
	assert.Equal(t, "localhost:6379", DefaultConfig().Addr())
}
