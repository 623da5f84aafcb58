// Package memory implements the in-memory storage backend for Pantry.
// Collections are mutex-guarded ordered maps; fixture rows can be seeded
// from JSONL files in the configured data directory on Attach and are
// flushed back on Detach.
package memory

import (
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/mesh-intelligence/pantry/pkg/types"
)

// Backend implements the Store interface with in-memory collections.
type Backend struct {
	mu          sync.RWMutex
	attached    bool
	config      types.Config
	collections map[string]*Collection
	logger      *slog.Logger
}

// NewBackend creates a new memory backend. A nil logger falls back to
// slog.Default. The backend is not attached; call Attach with a Config.
func NewBackend(logger *slog.Logger) *Backend {
	if logger == nil {
		logger = slog.Default()
	}
	return &Backend{
		collections: make(map[string]*Collection),
		logger:      logger,
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

// Attach initializes the backend with the given configuration, creating
// one collection per configured name. When DataDir is set, each
// collection is seeded from <name>.jsonl if the file exists.
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

	if config.DataDir != "" {
		if err := os.MkdirAll(config.DataDir, 0o755); err != nil {
			return err
		}
	}

	for _, name := range config.Collections {
		b.collections[name] = newCollection(name)
	}

	if config.DataDir != "" {
		if err := b.seedAll(config.DataDir); err != nil {
			b.collections = make(map[string]*Collection)
			return fmt.Errorf("seed fixtures: %w", err)
		}
	}

	b.config = config
	b.attached = true
	return nil
}

// Detach releases the backend. When a DataDir is configured, every
// collection is flushed to its JSONL file first. Detach is idempotent.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil // idempotent
	}

	if b.config.DataDir != "" {
		if err := b.flushAll(b.config.DataDir); err != nil {
			return fmt.Errorf("flush fixtures: %w", err)
		}
	}

	b.attached = false
	b.collections = make(map[string]*Collection)
	return nil
}
