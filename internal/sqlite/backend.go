// Package sqlite implements the snapshot store: named copies of a table
// kept in a SQLite database. Cells are stored in their raw form, so
// formulas survive a snapshot round trip, unlike the comma-delimited file
// format which keeps only display values.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"go.alis.build/alog"
	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/tableapp/pkg/types"
)

// DBFileName is the database file created inside the data directory.
const DBFileName = "snapshots.db"

// Store holds named table snapshots in SQLite.
type Store struct {
	mu       sync.RWMutex
	attached bool
	dataDir  string
	db       *sql.DB
}

// NewStore creates a detached store. Call Attach before use.
func NewStore() *Store {
	return &Store{}
}

// Attach opens (creating if needed) the snapshot database in dataDir.
// Returns ErrAlreadyAttached if already attached.
func (s *Store) Attach(dataDir string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.attached {
		return types.ErrAlreadyAttached
	}

	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	dbPath := filepath.Join(dataDir, DBFileName)
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	// A single connection keeps PRAGMA settings in effect for every query.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return fmt.Errorf("enable foreign keys: %w", err)
	}
	for _, stmt := range schemaDDL {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return fmt.Errorf("create schema: %w", err)
		}
	}
	for _, stmt := range indexDDL {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return fmt.Errorf("create index: %w", err)
		}
	}

	s.db = db
	s.dataDir = dataDir
	s.attached = true
	alog.Debugf(context.Background(), "snapshot store attached at %s", dbPath)
	return nil
}

// Detach closes the database. Detach is idempotent.
func (s *Store) Detach() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.attached {
		return nil
	}
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			return err
		}
		s.db = nil
	}
	s.attached = false
	return nil
}

// Path returns the database file path, or "" when detached.
func (s *Store) Path() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.attached {
		return ""
	}
	return filepath.Join(s.dataDir, DBFileName)
}

// generateUUID generates a new UUID v7 for snapshot IDs.
func generateUUID() string {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to UUID v4 if v7 generation fails
		return uuid.New().String()
	}
	return id.String()
}
