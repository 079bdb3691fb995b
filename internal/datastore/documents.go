// Package datastore provides whole-document JSON persistence. Every
// collection is stored as a single JSON blob under a fixed key, read in
// full at startup and rewritten in full on every mutation.
package datastore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fundwatch/fundwatch/internal/errors"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ErrDocumentNotFound is returned by Get when no document exists for a key.
var ErrDocumentNotFound = errors.New("document not found")

// DocumentStore is the key-value persistence primitive the stores build on.
type DocumentStore interface {
	// Get returns the document stored under key, or ErrDocumentNotFound.
	Get(ctx context.Context, key string) ([]byte, error)
	// Put replaces the document stored under key. Last write wins.
	Put(ctx context.Context, key string, data []byte) error
}

// document is the sqlite row backing one collection.
type document struct {
	Key       string `gorm:"primaryKey;size:100"`
	Data      []byte `gorm:"type:blob"`
	UpdatedAt int64  `gorm:"autoUpdateTime"`
}

func (document) TableName() string {
	return "documents"
}

// sqliteStore implements DocumentStore over a sqlite documents table.
type sqliteStore struct {
	db *gorm.DB
}

// OpenSQLite opens (creating if needed) the document database under dir.
func OpenSQLite(dir string) (DocumentStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory %s: %w", dir, err)
	}
	dbPath := filepath.Join(dir, "fundwatch.db")
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", dbPath, err)
	}
	if err := db.AutoMigrate(&document{}); err != nil {
		return nil, fmt.Errorf("failed to migrate documents table: %w", err)
	}
	return &sqliteStore{db: db}, nil
}

func (s *sqliteStore) Get(ctx context.Context, key string) ([]byte, error) {
	var doc document
	if err := s.db.WithContext(ctx).First(&doc, "key = ?", key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDocumentNotFound
		}
		return nil, fmt.Errorf("failed to read document %q: %w", key, err)
	}
	return doc.Data, nil
}

func (s *sqliteStore) Put(ctx context.Context, key string, data []byte) error {
	doc := document{Key: key, Data: data}
	if err := s.db.WithContext(ctx).Save(&doc).Error; err != nil {
		return fmt.Errorf("failed to write document %q: %w", key, err)
	}
	return nil
}
