package types

import "errors"

// Record is the attribute hash for a single stored row. Values are plain
// scalars plus whatever JSON-compatible structures a fixture supplies; the
// "id" key holds the primary key once the row is persisted.
type Record map[string]any

// ID returns the record's primary key, or the empty string when the record
// has not been assigned one.
func (r Record) ID() string {
	id, _ := r["id"].(string)
	return id
}

// Clone returns a shallow copy of the record. Backends hand out clones so
// callers cannot mutate stored rows behind the store's back.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Collection provides keyed row storage for a single model type.
type Collection interface {
	// Find returns the row with the given ID.
	// Returns ErrInvalidID if id is empty, ErrNotFound if no row exists.
	Find(id string) (Record, error)

	// Insert stores a new row. When the record carries no "id" a UUID v7
	// is generated. Returns the stored row including the assigned ID.
	Insert(attrs Record) (Record, error)

	// Update merges attrs into the row with the given ID. Keys present in
	// attrs overwrite; absent keys survive. Returns ErrNotFound if no row
	// exists with that ID.
	Update(id string, attrs Record) error

	// Remove deletes the row with the given ID.
	// Returns ErrNotFound if no row exists.
	Remove(id string) error

	// FindBy returns all rows whose field equals value, in insertion order.
	FindBy(field string, value any) ([]Record, error)

	// All returns every row in the collection, in insertion order.
	All() ([]Record, error)
}

// Store defines the interface for backend-agnostic collection access.
// Callers attach to a backend, access collections by name, and detach
// when done.
type Store interface {
	// Collection returns the Collection for the given name.
	// Returns ErrCollectionNotFound if the name was not configured.
	Collection(name string) (Collection, error)

	// Attach connects the Store to the backend described by config.
	// Idempotent on first call; returns ErrAlreadyAttached if called
	// while already attached.
	Attach(config Config) error

	// Detach releases backend resources. Idempotent: multiple calls
	// succeed. After Detach, collection operations return ErrStoreDetached.
	Detach() error
}

// Store lifecycle errors.
var (
	ErrStoreDetached      = errors.New("store is detached")
	ErrAlreadyAttached    = errors.New("store is already attached")
	ErrCollectionNotFound = errors.New("collection not found")
)

// Collection operation errors.
var (
	ErrNotFound  = errors.New("record not found")
	ErrInvalidID = errors.New("invalid record ID")
)
