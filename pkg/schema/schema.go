// Package schema holds the association registry for the Pantry record
// layer. A Schema binds model definitions (belongs-to and has-many
// descriptors, foreign-key columns) to the Store whose collections hold
// the rows. Model definitions are registered once during setup and read
// by pkg/model during construction and cascade saves.
package schema

import (
	"fmt"
	"strings"

	"github.com/mesh-intelligence/pantry/pkg/types"
)

// Schema is the registry of model definitions bound to a record store.
type Schema struct {
	store types.Store
	defs  map[string]*Definition
	order []string
}

// New creates an empty Schema bound to the given store.
func New(store types.Store) *Schema {
	return &Schema{
		store: store,
		defs:  make(map[string]*Definition),
	}
}

// Register adds a model definition to the schema. Association descriptors
// are normalized in place: kinds are stamped, missing target model names
// and foreign keys get their defaults, and the model's foreign-key list is
// derived from its belongs-to associations plus any extra declared columns.
// Register should be called once per model during setup.
func (s *Schema) Register(def Definition) error {
	if def.Name == "" {
		return fmt.Errorf("register: model name must not be empty")
	}
	if _, exists := s.defs[def.Name]; exists {
		return fmt.Errorf("register: model %q already registered", def.Name)
	}

	d := def
	if d.CollectionName == "" {
		d.CollectionName = pluralize(d.Name)
	}

	d.belongsTo = make(map[string]Association, len(d.BelongsTo))
	for i, a := range d.BelongsTo {
		a.Kind = KindBelongsTo
		if a.ModelName == "" {
			a.ModelName = a.Name
		}
		if a.ForeignKey == "" {
			a.ForeignKey = a.Name + "_id"
		}
		d.BelongsTo[i] = a
		d.belongsTo[a.Name] = a
	}

	d.hasMany = make(map[string]Association, len(d.HasMany))
	for i, a := range d.HasMany {
		a.Kind = KindHasMany
		if a.ModelName == "" {
			a.ModelName = singularize(a.Name)
		}
		if a.ForeignKey == "" {
			// Child rows point back at this model.
			a.ForeignKey = d.Name + "_id"
		}
		d.HasMany[i] = a
		d.hasMany[a.Name] = a
	}

	d.fks = d.fks[:0]
	seen := make(map[string]bool)
	for _, a := range d.BelongsTo {
		if !seen[a.ForeignKey] {
			seen[a.ForeignKey] = true
			d.fks = append(d.fks, a.ForeignKey)
		}
	}
	for _, fk := range d.ForeignKeys {
		if !seen[fk] {
			seen[fk] = true
			d.fks = append(d.fks, fk)
		}
	}

	s.defs[d.Name] = &d
	s.order = append(s.order, d.Name)
	return nil
}

// Model returns the definition registered under the given model name.
func (s *Schema) Model(name string) (*Definition, bool) {
	d, ok := s.defs[name]
	return d, ok
}

// Store returns the record store this schema is bound to.
func (s *Schema) Store() types.Store {
	return s.store
}

// Collection resolves the store collection holding rows for a model.
func (s *Schema) Collection(modelName string) (types.Collection, error) {
	d, ok := s.defs[modelName]
	if !ok {
		return nil, fmt.Errorf("%w: no model %q registered", types.ErrCollectionNotFound, modelName)
	}
	return s.store.Collection(d.CollectionName)
}

// CollectionNames returns the collection name of every registered model,
// in registration order. Feed this to types.Config.Collections when
// attaching a backend for this schema.
func (s *Schema) CollectionNames() []string {
	names := make([]string, 0, len(s.order))
	for _, model := range s.order {
		names = append(names, s.defs[model].CollectionName)
	}
	return names
}

// Inverse resolves the reciprocal association declared on the target model
// of a, pointing back at the owner model. A reciprocal belongs-to wins
// over a reciprocal has-many when both exist (the belongs-to side is the
// one that owns a foreign-key column).
func (s *Schema) Inverse(owner string, a Association) (Association, bool) {
	target, ok := s.defs[a.ModelName]
	if !ok {
		return Association{}, false
	}
	for _, inv := range target.BelongsTo {
		if inv.ModelName == owner {
			return inv, true
		}
	}
	for _, inv := range target.HasMany {
		if inv.ModelName == owner {
			return inv, true
		}
	}
	return Association{}, false
}

// HasInverse reports whether the target model of a declares a reciprocal
// association pointing back at the owner model.
func (s *Schema) HasInverse(owner string, a Association) bool {
	_, ok := s.Inverse(owner, a)
	return ok
}

// pluralize derives a collection name from a model name. Naive: models
// with irregular plurals should set CollectionName explicitly.
func pluralize(name string) string {
	if strings.HasSuffix(name, "s") {
		return name + "es"
	}
	if n := len(name); n > 1 && name[n-1] == 'y' && !isVowel(name[n-2]) {
		return name[:n-1] + "ies"
	}
	return name + "s"
}

// singularize derives a model name from a has-many association name.
func singularize(name string) string {
	if strings.HasSuffix(name, "ses") {
		return strings.TrimSuffix(name, "es")
	}
	if strings.HasSuffix(name, "ies") {
		return strings.TrimSuffix(name, "ies") + "y"
	}
	return strings.TrimSuffix(name, "s")
}

func isVowel(c byte) bool {
	return strings.IndexByte("aeiou", c) >= 0
}
