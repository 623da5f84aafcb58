// Package sqlite implements the SQLite storage backend for Pantry.
// Rows live in a single generic table keyed by (collection, id) with the
// attribute hash serialized as JSON, so the backend needs no per-model
// schema. Semantics match the memory backend.
package sqlite

import (
	"database/sql"
	_ "embed"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/pantry/pkg/types"
)

//go:embed schema.sql
var schemaSQL string

// Backend implements the Store interface using SQLite.
type Backend struct {
	mu          sync.RWMutex
	attached    bool
	config      types.Config
	db          *sql.DB
	collections map[string]*Collection
}

// NewBackend creates a new SQLite backend instance. The backend is not
// attached; call Attach with a Config to initialize.
func NewBackend() *Backend {
	return &Backend{
		collections: make(map[string]*Collection),
	}
}

// Collection returns the named collection.
// Returns ErrCollectionNotFound if the name was not configured.
// Returns ErrStoreDetached if the backend is not attached.
func (b *Backend) Collection(name string) (types.Collection, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return nil, types.ErrStoreDetached
	}
	c, ok := b.collections[name]
	if !ok {
		return nil, types.ErrCollectionNotFound
	}
	return c, nil
}

// Attach opens the database and initializes the schema. With a DataDir
// the database lives at <DataDir>/pantry.db and any existing file is
// removed so every attach starts from a fresh schema; without one the
// database is purely in-memory.
// Returns ErrAlreadyAttached if already attached.
func (b *Backend) Attach(config types.Config) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.attached {
		return types.ErrAlreadyAttached
	}
	if err := config.Validate(); err != nil {
		return err
	}

	dsn := ":memory:"
	if config.DataDir != "" {
		if err := os.MkdirAll(config.DataDir, 0o755); err != nil {
			return err
		}
		dbPath := filepath.Join(config.DataDir, "pantry.db")
		_ = os.Remove(dbPath)
		dsn = dbPath
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return err
	}
	// One connection only: access is serialized by b.mu anyway, and an
	// in-memory database exists per connection, not per pool.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return err
	}

	b.db = db
	b.config = config

	for _, name := range config.Collections {
		b.collections[name] = &Collection{backend: b, name: name}
	}

	b.attached = true
	return nil
}

// Detach closes the database. After Detach, collection operations return
// ErrStoreDetached. Detach is idempotent.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil // idempotent
	}

	if b.db != nil {
		if err := b.db.Close(); err != nil {
			return err
		}
		b.db = nil
	}

	b.attached = false
	b.collections = make(map[string]*Collection)
	return nil
}
