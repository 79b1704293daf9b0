// Package persistence selects and opens the configured snapshot store.
package persistence

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/dailywarden/warden/internal/domain/ledger"
	"github.com/dailywarden/warden/internal/domain/shared"
	"github.com/dailywarden/warden/internal/infrastructure/persistence/file"
	"github.com/dailywarden/warden/internal/infrastructure/persistence/memory"
	"github.com/dailywarden/warden/internal/infrastructure/persistence/postgres"
	"github.com/dailywarden/warden/internal/infrastructure/persistence/redis"
	"github.com/dailywarden/warden/internal/infrastructure/persistence/sqlite"
)

// Driver names a snapshot backend.
type Driver string

const (
	DriverFile     Driver = "file"
	DriverMemory   Driver = "memory"
	DriverRedis    Driver = "redis"
	DriverPostgres Driver = "postgres"
	DriverSQLite   Driver = "sqlite"
)

// Drivers lists every supported driver.
func Drivers() []Driver {
	return []Driver{DriverFile, DriverMemory, DriverRedis, DriverPostgres, DriverSQLite}
}

// ParseDriver normalises and validates a driver name.
func ParseDriver(raw string) (Driver, error) {
	d := Driver(strings.ToLower(strings.TrimSpace(raw)))
	for _, known := range Drivers() {
		if d == known {
			return d, nil
		}
	}
	return "", shared.NewDomainError("persistence", "ParseDriver", shared.ErrInvalidConfiguration,
		fmt.Sprintf("unknown storage driver %q", raw))
}

// Options configures Open. Only the section matching Driver is read.
type Options struct {
	Driver Driver

	// Name identifies the snapshot within shared backends (redis key,
	// table row).
	Name string

	FilePath   string
	SQLitePath string
	Redis      redis.Config
	Postgres   postgres.Config
}

// Store is an opened snapshot store with its lifecycle hooks.
type Store struct {
	ledger.SnapshotStore

	driver Driver
	ping   func(ctx context.Context) error
	close  func() error
}

// Driver returns the backend in use.
func (s *Store) Driver() Driver { return s.driver }

// Ping checks the backend. Backends without a connection always succeed.
func (s *Store) Ping(ctx context.Context) error {
	if s.ping == nil {
		return nil
	}
	return s.ping(ctx)
}

// Close releases the backend connection, if any.
func (s *Store) Close() error {
	if s.close == nil {
		return nil
	}
	return s.close()
}

// Open connects to the backend named by opts.Driver. Postgres migrations run
// before the store is returned.
func Open(ctx context.Context, opts Options, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	name := opts.Name
	if name == "" {
		name = "default"
	}

	switch opts.Driver {
	case DriverFile:
		if opts.FilePath == "" {
			return nil, invalidOption("storage.file.path is required")
		}
		s := file.NewSnapshotStore(opts.FilePath)
		return &Store{SnapshotStore: s, driver: DriverFile, ping: s.Ping}, nil

	case DriverMemory:
		logger.Warn("memory storage selected, submissions are lost on restart")
		return &Store{SnapshotStore: memory.NewSnapshotStore(), driver: DriverMemory}, nil

	case DriverRedis:
		client, err := redis.NewClient(opts.Redis)
		if err != nil {
			return nil, err
		}
		return &Store{
			SnapshotStore: redis.NewSnapshotStore(client, name),
			driver:        DriverRedis,
			ping:          func(ctx context.Context) error { return client.Ping(ctx).Err() },
			close:         client.Close,
		}, nil

	case DriverPostgres:
		conn, err := postgres.NewConnection(ctx, opts.Postgres)
		if err != nil {
			return nil, err
		}
		if err := postgres.NewMigrator(conn).Migrate(ctx); err != nil {
			_ = conn.Close()
			return nil, err
		}
		return &Store{
			SnapshotStore: postgres.NewSnapshotStore(conn, name),
			driver:        DriverPostgres,
			ping:          conn.Ping,
			close:         conn.Close,
		}, nil

	case DriverSQLite:
		db, err := sqlite.Open(opts.SQLitePath, logger)
		if err != nil {
			return nil, err
		}
		s := sqlite.NewSnapshotStore(db, name)
		return &Store{SnapshotStore: s, driver: DriverSQLite, ping: s.Ping, close: s.Close}, nil

	default:
		return nil, invalidOption(fmt.Sprintf("unknown storage driver %q", opts.Driver))
	}
}

func invalidOption(message string) error {
	return shared.NewDomainError("persistence", "Open", shared.ErrInvalidConfiguration, message)
}
