package memory

import (
	"reflect"
	"sync"

	"github.com/google/uuid"

	"github.com/mesh-intelligence/pantry/pkg/types"
)

// Collection is an insertion-ordered, mutex-guarded map of rows keyed by
// id. Rows are cloned on the way in and out so callers never share memory
// with the store.
type Collection struct {
	mu   sync.RWMutex
	name string
	ids  []string
	rows map[string]types.Record
}

func newCollection(name string) *Collection {
	return &Collection{
		name: name,
		rows: make(map[string]types.Record),
	}
}

// newUUID generates a UUID v7 string.
func newUUID() string {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to UUID v4 if v7 generation fails.
		return uuid.New().String()
	}
	return id.String()
}

// Find returns the row with the given id.
func (c *Collection) Find(id string) (types.Record, error) {
	if id == "" {
		return nil, types.ErrInvalidID
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	row, ok := c.rows[id]
	if !ok {
		return nil, types.ErrNotFound
	}
	return row.Clone(), nil
}

// Insert stores a new row, assigning a UUID v7 id when the record carries
// none. Returns a copy of the stored row including the id.
func (c *Collection) Insert(attrs types.Record) (types.Record, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	row := attrs.Clone()
	id := row.ID()
	if id == "" {
		id = newUUID()
		row["id"] = id
	}
	if _, exists := c.rows[id]; !exists {
		c.ids = append(c.ids, id)
	}
	c.rows[id] = row
	return row.Clone(), nil
}

// Update merges attrs into the row with the given id.
func (c *Collection) Update(id string, attrs types.Record) error {
	if id == "" {
		return types.ErrInvalidID
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	row, ok := c.rows[id]
	if !ok {
		return types.ErrNotFound
	}
	for k, v := range attrs {
		if k == "id" {
			continue
		}
		row[k] = v
	}
	return nil
}

// Remove deletes the row with the given id.
func (c *Collection) Remove(id string) error {
	if id == "" {
		return types.ErrInvalidID
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.rows[id]; !ok {
		return types.ErrNotFound
	}
	delete(c.rows, id)
	for i, other := range c.ids {
		if other == id {
			c.ids = append(c.ids[:i], c.ids[i+1:]...)
			break
		}
	}
	return nil
}

// FindBy returns every row whose field equals value, in insertion order.
// Comparison uses reflect.DeepEqual: JSONL fixtures hold []any and
// map[string]any values, which == on any cannot compare.
func (c *Collection) FindBy(field string, value any) ([]types.Record, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var out []types.Record
	for _, id := range c.ids {
		if reflect.DeepEqual(c.rows[id][field], value) {
			out = append(out, c.rows[id].Clone())
		}
	}
	return out, nil
}

// All returns every row in insertion order.
func (c *Collection) All() ([]types.Record, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]types.Record, 0, len(c.ids))
	for _, id := range c.ids {
		out = append(out, c.rows[id].Clone())
	}
	return out, nil
}
