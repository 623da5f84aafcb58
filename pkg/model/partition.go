package model

import (
	"fmt"

	"github.com/mesh-intelligence/pantry/pkg/types"
)

// partition classifies every key of a raw attribute hash into plain
// attributes, foreign-key attributes, or association values, and applies
// each class in that order. Foreign keys supplied with non-nil values are
// validated against the referenced collection before they are written.
func (m *Model) partition(raw types.Record) error {
	assocKeys := m.def.AssociationKeys()
	idKeys := m.def.AssociationIDKeys()
	fks := m.def.ForeignKeyNames()

	fkSet := make(map[string]bool, len(fks))
	for _, fk := range fks {
		fkSet[fk] = true
	}

	// Relationship-shaped values are only legal under declared
	// association keys.
	for key, value := range raw {
		switch value.(type) {
		case *Model, *Records, []*Model:
			if !assocKeys[key] {
				return fmt.Errorf("%w: model %q was given a %T under key %q",
					ErrUnknownAssociation, m.name, value, key)
			}
		}
	}

	// Plain pass: everything that is neither an association key nor a
	// foreign-key alias, plus every declared foreign key defaulted to nil.
	for key, value := range raw {
		if assocKeys[key] || idKeys[key] || fkSet[key] {
			continue
		}
		m.defineAttribute(key)
		m.attrs[key] = value
	}
	for _, fk := range fks {
		m.defineAttribute(fk)
		if _, ok := m.attrs[fk]; !ok {
			m.attrs[fk] = nil
		}
	}

	// Foreign-key pass: validate supplied values, then write them.
	for key, value := range raw {
		if !idKeys[key] && !fkSet[key] {
			continue
		}
		if err := m.setForeignKey(key, value); err != nil {
			return err
		}
	}

	// Association pass: the one place raw objects, not scalars, are
	// accepted.
	for key, value := range raw {
		if !assocKeys[key] {
			continue
		}
		if err := m.SetAssociation(key, value); err != nil {
			return err
		}
	}

	return nil
}

// setForeignKey validates that a non-nil foreign-key value names an
// existing row in the target collection, then writes it into the
// attribute hash. A foreign key with no matching belongs-to descriptor is
// a schema setup bug and fails hard.
func (m *Model) setForeignKey(fk string, value any) error {
	if value != nil {
		a, ok := m.def.BelongsToFor(fk)
		if !ok {
			return fmt.Errorf("%w: model %q foreign key %q", ErrNoBelongsTo, m.name, fk)
		}
		col, err := m.schema.Collection(a.ModelName)
		if err != nil {
			return err
		}
		id, _ := value.(string)
		if id == "" {
			return fmt.Errorf("%w: model %q foreign key %q holds %v (%T), want a record id",
				ErrBrokenReference, m.name, fk, value, value)
		}
		if _, err := col.Find(id); err != nil {
			return fmt.Errorf("%w: model %q foreign key %q -> %q", ErrBrokenReference, m.name, fk, id)
		}
	}
	m.defineAttribute(fk)
	m.attrs[fk] = value
	return nil
}
