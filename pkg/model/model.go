// Package model implements the record layer of the Pantry mock database.
// A Model owns one row's attribute hash plus live association references,
// and keeps belongs-to / has-many foreign keys coherent through a
// cascading save. There is no query engine and no transaction underneath:
// referential integrity is maintained purely by validation at construction
// and by the ordering rules of the cascade.
package model

import (
	"fmt"
	"sort"

	"github.com/mesh-intelligence/pantry/pkg/schema"
	"github.com/mesh-intelligence/pantry/pkg/types"
)

// Model is one logical record bound to a model type. The attribute hash is
// the sole source of truth persisted to the store; association slots hold
// live references that the cascade resolves into foreign keys on save.
type Model struct {
	schema *schema.Schema
	def    *schema.Definition
	name   string

	attrs     types.Record
	accessors map[string]bool
	related   map[string]any

	// tempParents tracks belongs-to parents assigned since the last save.
	// A present entry with a nil value means the slot was explicitly
	// cleared; the next save nils the foreign key.
	tempParents map[string]*Model
}

// New constructs a Model of the named type from a raw attribute hash.
// The hash may mix plain attributes, foreign-key scalars, and association
// values (*Model, *Records, []*Model) under declared association keys.
// Supplied non-nil foreign keys must reference existing rows.
func New(sch *schema.Schema, name string, attrs types.Record) (*Model, error) {
	if sch == nil {
		return nil, ErrMissingSchema
	}
	if name == "" {
		return nil, ErrMissingModelName
	}
	def, ok := sch.Model(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownModel, name)
	}

	m := &Model{
		schema:      sch,
		def:         def,
		name:        name,
		attrs:       make(types.Record),
		accessors:   make(map[string]bool),
		related:     make(map[string]any),
		tempParents: make(map[string]*Model),
	}
	if err := m.partition(attrs); err != nil {
		return nil, err
	}
	return m, nil
}

// ModelName returns the model type name.
func (m *Model) ModelName() string {
	return m.name
}

// ID returns the primary key, or the empty string before the first save.
func (m *Model) ID() string {
	return m.attrs.ID()
}

// Get returns the named plain or foreign-key attribute.
func (m *Model) Get(name string) any {
	return m.attrs[name]
}

// Set assigns an attribute. Association keys are routed to the
// association setter; everything else is written into the attribute hash
// with an accessor defined on first use.
func (m *Model) Set(name string, value any) error {
	if _, ok := m.def.Association(name); ok {
		return m.SetAssociation(name, value)
	}
	m.defineAttribute(name)
	m.attrs[name] = value
	return nil
}

// Association returns the live value held for a declared association:
// a *Model for belongs-to, a *Records for has-many, or nil.
func (m *Model) Association(name string) any {
	return m.related[name]
}

// Parent returns the belongs-to association value, or nil.
func (m *Model) Parent(name string) *Model {
	p, _ := m.related[name].(*Model)
	return p
}

// Children returns the has-many association value, or nil.
func (m *Model) Children(name string) *Records {
	c, _ := m.related[name].(*Records)
	return c
}

// SetAssociation assigns an association value. Belongs-to accepts a
// *Model or nil (nil clears the slot and nils the foreign key on the next
// save). Has-many accepts a *Records, a []*Model, or nil.
func (m *Model) SetAssociation(name string, value any) error {
	a, ok := m.def.Association(name)
	if !ok {
		return fmt.Errorf("%w: model %q has no association %q", ErrUnknownAssociation, m.name, name)
	}

	switch a.Kind {
	case schema.KindBelongsTo:
		switch v := value.(type) {
		case nil:
			m.tempParents[name] = nil
			m.related[name] = nil
		case *Model:
			m.tempParents[name] = v
			m.related[name] = v
		default:
			return fmt.Errorf("%w: model %q association %q cannot hold %T", ErrInvalidAssociation, m.name, name, value)
		}
	case schema.KindHasMany:
		switch v := value.(type) {
		case nil:
			m.related[name] = NewRecords()
		case *Records:
			m.related[name] = v
		case []*Model:
			m.related[name] = NewRecords(v...)
		default:
			return fmt.Errorf("%w: model %q association %q cannot hold %T", ErrInvalidAssociation, m.name, name, value)
		}
	}
	return nil
}

// IsNew reports whether this model is not yet persisted. Persistence is
// defined by store membership, not id presence: a caller-supplied id that
// has no row in the store still counts as new until the first save.
func (m *Model) IsNew() bool {
	id := m.ID()
	if id == "" {
		return true
	}
	col, err := m.schema.Collection(m.name)
	if err != nil {
		return true
	}
	_, err = col.Find(id)
	return err != nil
}

// IsSaved is the logical negation of IsNew.
func (m *Model) IsSaved() bool {
	return !m.IsNew()
}

// Save inserts or updates this model's row, then runs the association
// cascade: pending belongs-to parents are persisted before this model's
// foreign keys are written, inverse foreign keys are propagated, and held
// has-many children get their foreign keys bulk-updated. Returns the
// model for chaining.
func (m *Model) Save() (*Model, error) {
	return m.save(make(map[*Model]bool))
}

// save is the re-entrant body of Save. The visited set is shared across
// one cascade so reflexive and bidirectional relations terminate: a model
// already written in this cascade is not written again.
func (m *Model) save(visited map[*Model]bool) (*Model, error) {
	if visited[m] {
		return m, nil
	}
	visited[m] = true

	col, err := m.schema.Collection(m.name)
	if err != nil {
		return nil, err
	}

	if m.IsNew() {
		row, err := col.Insert(m.attrs)
		if err != nil {
			return nil, err
		}
		m.attrs = row
		m.defineAttribute("id")
	} else {
		if err := col.Update(m.ID(), m.attrs); err != nil {
			return nil, err
		}
	}

	if err := m.saveAssociations(visited); err != nil {
		return nil, err
	}
	return m, nil
}

// Update assigns one attribute and saves. A model with an empty key is a
// no-op returning the instance unchanged.
func (m *Model) Update(key string, value any) (*Model, error) {
	if key == "" {
		return m, nil
	}
	m.defineAttribute(key)
	m.attrs[key] = value
	return m.Save()
}

// UpdateAttributes assigns every key in attrs and saves. An empty or nil
// hash is a no-op returning the instance unchanged.
func (m *Model) UpdateAttributes(attrs types.Record) (*Model, error) {
	if len(attrs) == 0 {
		return m, nil
	}
	for k, v := range attrs {
		m.defineAttribute(k)
		m.attrs[k] = v
	}
	return m.Save()
}

// Destroy removes this model's row from the store. The in-memory
// attributes are left readable with their now-stale values. Destroying a
// row that was already removed surfaces types.ErrNotFound; destroying a
// model that never had an id returns ErrNotPersisted.
func (m *Model) Destroy() error {
	id := m.ID()
	if id == "" {
		return fmt.Errorf("%w: cannot destroy %s", ErrNotPersisted, m)
	}
	col, err := m.schema.Collection(m.name)
	if err != nil {
		return err
	}
	return col.Remove(id)
}

// Reload overwrites every attribute except id with the stored row's
// values. Association slots are not refreshed. Returns ErrNotPersisted if
// the model never had an id.
func (m *Model) Reload() (*Model, error) {
	id := m.ID()
	if id == "" {
		return nil, fmt.Errorf("%w: cannot reload %s", ErrNotPersisted, m)
	}
	col, err := m.schema.Collection(m.name)
	if err != nil {
		return nil, err
	}
	row, err := col.Find(id)
	if err != nil {
		return nil, err
	}
	for k, v := range row {
		if k == "id" {
			continue
		}
		m.defineAttribute(k)
		m.attrs[k] = v
	}
	return m, nil
}

// ToJSON returns a copy of the plain attribute hash. Association objects
// are never included.
func (m *Model) ToJSON() types.Record {
	return m.attrs.Clone()
}

// AttributeNames returns the sorted names of every defined accessor.
func (m *Model) AttributeNames() []string {
	names := make([]string, 0, len(m.accessors))
	for name := range m.accessors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (m *Model) String() string {
	return fmt.Sprintf("model:%s(%s)", m.name, m.ID())
}

// defineAttribute records an accessor for the named attribute. Defining
// the same name twice is a no-op; getter and setter semantics are
// unchanged.
func (m *Model) defineAttribute(name string) {
	m.accessors[name] = true
}
