package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dailywarden/warden/internal/domain/shared"
)

// PrefixSnapshot namespaces snapshot keys.
const PrefixSnapshot = "warden:snapshot:"

// KV is the subset of redis.Cmdable the store uses.
type KV interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
}

// SnapshotStore keeps the snapshot document under a single key, without TTL.
type SnapshotStore struct {
	kv  KV
	key string
}

// NewSnapshotStore creates a store for the snapshot called name.
func NewSnapshotStore(kv KV, name string) *SnapshotStore {
	return &SnapshotStore{kv: kv, key: SnapshotKey(name)}
}

// SnapshotKey returns the key a named snapshot is stored under.
func SnapshotKey(name string) string {
	return PrefixSnapshot + name
}

// Key returns the key this store writes.
func (s *SnapshotStore) Key() string { return s.key }

// Load returns the stored document or shared.ErrSnapshotNotFound.
func (s *SnapshotStore) Load(ctx context.Context) ([]byte, error) {
	data, err := s.kv.Get(ctx, s.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, shared.ErrSnapshotNotFound
		}
		return nil, fmt.Errorf("redis: load %s: %w", s.key, err)
	}
	return data, nil
}

// Save replaces the stored document.
func (s *SnapshotStore) Save(ctx context.Context, raw []byte) error {
	if err := s.kv.Set(ctx, s.key, raw, 0).Err(); err != nil {
		return fmt.Errorf("redis: save %s: %w", s.key, err)
	}
	return nil
}
