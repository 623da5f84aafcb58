package schema

// Kind identifies the relationship direction of an association.
type Kind string

// Association kinds.
const (
	KindBelongsTo Kind = "belongs_to"
	KindHasMany   Kind = "has_many"
)

// Association declares one relationship on a model.
//
// For a belongs-to, ForeignKey is the column on the owning model's own row
// (default "<name>_id"). For a has-many, ForeignKey is the column on the
// child rows that points back at the owner (default "<owner>_id").
type Association struct {
	// Kind is stamped by Schema.Register; callers need not set it.
	Kind Kind

	// Name is the accessor name on the owning model, e.g. "author" or
	// "posts".
	Name string

	// ModelName is the target model. Defaults to Name for belongs-to and
	// to the singularized Name for has-many.
	ModelName string

	// ForeignKey is the foreign-key column. See the type comment for
	// which side of the relationship it lives on.
	ForeignKey string
}

// Definition describes one model type: its name, the collection its rows
// live in, and its declared associations.
type Definition struct {
	// Name is the model name, e.g. "post".
	Name string

	// CollectionName is the store collection holding this model's rows.
	// Defaults to the pluralized model name.
	CollectionName string

	// BelongsTo and HasMany are the declared associations, in order.
	BelongsTo []Association
	HasMany   []Association

	// ForeignKeys lists extra foreign-key columns carried by every row of
	// this model beyond those derived from BelongsTo.
	ForeignKeys []string

	belongsTo map[string]Association
	hasMany   map[string]Association
	fks       []string
}

// Association returns the declared association with the given name,
// regardless of kind.
func (d *Definition) Association(name string) (Association, bool) {
	if a, ok := d.belongsTo[name]; ok {
		return a, true
	}
	a, ok := d.hasMany[name]
	return a, ok
}

// BelongsToFor returns the belongs-to association whose foreign key is fk.
func (d *Definition) BelongsToFor(fk string) (Association, bool) {
	for _, a := range d.BelongsTo {
		if a.ForeignKey == fk {
			return a, true
		}
	}
	return Association{}, false
}

// AssociationKeys returns the set of attribute names bound to association
// values (both kinds).
func (d *Definition) AssociationKeys() map[string]bool {
	keys := make(map[string]bool, len(d.belongsTo)+len(d.hasMany))
	for name := range d.belongsTo {
		keys[name] = true
	}
	for name := range d.hasMany {
		keys[name] = true
	}
	return keys
}

// AssociationIDKeys returns the set of foreign-key alias names that accept
// a raw id scalar in place of an association object: the foreign keys of
// the declared belongs-to associations.
func (d *Definition) AssociationIDKeys() map[string]bool {
	keys := make(map[string]bool, len(d.BelongsTo))
	for _, a := range d.BelongsTo {
		keys[a.ForeignKey] = true
	}
	return keys
}

// ForeignKeyNames returns every foreign-key column this model's rows
// always carry, in declaration order.
func (d *Definition) ForeignKeyNames() []string {
	return d.fks
}
