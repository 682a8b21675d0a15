package tokenstore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

type credentialEntry struct {
	Key       string `gorm:"primaryKey;size:64"`
	Value     string `gorm:"size:4096;not null"`
	UpdatedAt int64  `gorm:"autoUpdateTime"`
}

func (credentialEntry) TableName() string { return "credential_entries" }

// SQLiteStore keeps session keys as rows of a local sqlite database. Each key
// is an independent row; Clear deletes them one by one.
type SQLiteStore struct {
	db *gorm.DB
}

func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve sqlite path: %w", err)
		}
		path = filepath.Join(home, ".gymcli", "state.db")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create state dir: %w", err)
	}
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{Logger: logger.Discard})
	if err != nil {
		return nil, fmt.Errorf("open sqlite store: %w", err)
	}
	if err := db.AutoMigrate(&credentialEntry{}); err != nil {
		return nil, fmt.Errorf("migrate sqlite store: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Get(ctx context.Context, key string) (string, bool) {
	var entry credentialEntry
	err := s.db.WithContext(ctx).Where("key = ?", key).First(&entry).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			slog.DebugContext(ctx, "token store read failed", "backend", "sqlite", "key", key, "err", err)
		}
		return "", false
	}
	if entry.Value == "" {
		return "", false
	}
	return entry.Value, true
}

func (s *SQLiteStore) Set(ctx context.Context, key, value string) error {
	entry := credentialEntry{Key: key, Value: value}
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&entry).Error
	if err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

func (s *SQLiteStore) Remove(ctx context.Context, key string) error {
	if err := s.db.WithContext(ctx).Where("key = ?", key).Delete(&credentialEntry{}).Error; err != nil {
		return fmt.Errorf("remove %s: %w", key, err)
	}
	return nil
}

func (s *SQLiteStore) Clear(ctx context.Context, keys ...string) error {
	var first error
	for _, key := range keys {
		if err := s.Remove(ctx, key); err != nil && first == nil {
			first = err
		}
	}
	return first
}
