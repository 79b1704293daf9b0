// Package sqlite stores ledger snapshots in an embedded SQLite database.
package sqlite

import (
	"context"
	"errors"
	"fmt"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"github.com/dailywarden/warden/internal/domain/shared"
)

// SnapshotRecord is one named snapshot row.
type SnapshotRecord struct {
	Name         string `gorm:"column:name;primaryKey;size:190;not null"`
	Document     string `gorm:"column:document;type:text;not null"`
	SavedAtNanos int64  `gorm:"column:saved_at_ns;not null"`
}

// TableName provides the explicit table binding for GORM.
func (SnapshotRecord) TableName() string {
	return "warden_snapshots"
}

// Open establishes a SQLite connection and migrates the snapshot table.
func Open(path string, logger *zap.Logger) (*gorm.DB, error) {
	if path == "" {
		return nil, fmt.Errorf("database path is required")
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&SnapshotRecord{}); err != nil {
		return nil, err
	}

	if logger != nil {
		logger.Info("database initialized", zap.String("path", path))
	}

	return db, nil
}

// SnapshotStore keeps one named snapshot row.
type SnapshotStore struct {
	db   *gorm.DB
	name string
	now  func() time.Time
}

// NewSnapshotStore creates a store for the snapshot called name.
func NewSnapshotStore(db *gorm.DB, name string) *SnapshotStore {
	return &SnapshotStore{db: db, name: name, now: time.Now}
}

// Load returns the stored document or shared.ErrSnapshotNotFound.
func (s *SnapshotStore) Load(ctx context.Context) ([]byte, error) {
	var rec SnapshotRecord
	err := s.db.WithContext(ctx).Where("name = ?", s.name).Take(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, shared.ErrSnapshotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: load snapshot %q: %w", s.name, err)
	}
	return []byte(rec.Document), nil
}

// Save upserts the document.
func (s *SnapshotStore) Save(ctx context.Context, raw []byte) error {
	rec := SnapshotRecord{
		Name:         s.name,
		Document:     string(raw),
		SavedAtNanos: s.now().UnixNano(),
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"document", "saved_at_ns"}),
	}).Create(&rec).Error
	if err != nil {
		return fmt.Errorf("sqlite: save snapshot %q: %w", s.name, err)
	}
	return nil
}

// Ping checks the underlying connection.
func (s *SnapshotStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close closes the underlying connection.
func (s *SnapshotStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
