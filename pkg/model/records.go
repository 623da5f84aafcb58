package model

import (
	"github.com/mesh-intelligence/pantry/pkg/types"
)

// Records is the ordered collection type used for has-many association
// values. Order is insertion order.
type Records struct {
	items []*Model
}

// NewRecords creates a Records holding the given models.
func NewRecords(models ...*Model) *Records {
	return &Records{items: append([]*Model(nil), models...)}
}

// Add appends models to the collection.
func (r *Records) Add(models ...*Model) {
	r.items = append(r.items, models...)
}

// Len returns the number of models held.
func (r *Records) Len() int {
	return len(r.items)
}

// At returns the model at position i.
func (r *Records) At(i int) *Model {
	return r.items[i]
}

// All returns the held models in order.
func (r *Records) All() []*Model {
	return append([]*Model(nil), r.items...)
}

// IDs returns the id of every held model, in order. Unsaved models
// contribute an empty string.
func (r *Records) IDs() []string {
	ids := make([]string, len(r.items))
	for i, m := range r.items {
		ids[i] = m.ID()
	}
	return ids
}

// UpdateAll assigns the attribute on every held model and saves each one.
func (r *Records) UpdateAll(key string, value any) error {
	return r.updateAll(key, value, make(map[*Model]bool))
}

// updateAll is the re-entrant body of UpdateAll, sharing one cascade's
// visited set. A model already written in this cascade gets the attribute
// patched directly in the store instead of a second save.
func (r *Records) updateAll(key string, value any, visited map[*Model]bool) error {
	for _, m := range r.items {
		m.defineAttribute(key)
		m.attrs[key] = value

		if visited[m] {
			id := m.ID()
			if id == "" {
				continue
			}
			col, err := m.schema.Collection(m.name)
			if err != nil {
				return err
			}
			if err := col.Update(id, types.Record{key: value}); err != nil {
				return err
			}
			continue
		}

		if _, err := m.save(visited); err != nil {
			return err
		}
	}
	return nil
}
