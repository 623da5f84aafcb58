// Package memory provides the public API for the in-memory Pantry
// backend. This package exposes the factory function for creating memory
// backends while keeping implementation details internal.
package memory

import (
	"log/slog"

	"github.com/mesh-intelligence/pantry/internal/memory"
	"github.com/mesh-intelligence/pantry/pkg/types"
)

// NewBackend creates a new memory backend instance. A nil logger falls
// back to slog.Default. The backend is not attached; call Attach with a
// Config to initialize.
//
// Example:
//
//	backend := memory.NewBackend(nil)
//	err := backend.Attach(types.Config{
//	    Backend:     types.BackendMemory,
//	    Collections: []string{"records"},
//	})
//	defer backend.Detach()
func NewBackend(logger *slog.Logger) types.Store {
	return memory.NewBackend(logger)
}
