package model

import (
	"github.com/mesh-intelligence/pantry/pkg/schema"
	"github.com/mesh-intelligence/pantry/pkg/types"
)

// saveAssociations runs at the end of every save, after this model's own
// row is in the store. Belongs-to associations are handled first so that
// foreign keys exist before has-many children are linked against them.
func (m *Model) saveAssociations(visited map[*Model]bool) error {
	if err := m.saveBelongsTo(visited); err != nil {
		return err
	}
	return m.saveHasMany(visited)
}

// saveBelongsTo drains the pending parent assigned to each belongs-to
// slot since the last save, then propagates inverse foreign keys.
//
// A pending parent is persisted before this model's foreign key is
// written, so the foreign key always names a real row. A cleared slot
// nils the foreign key. Inverse foreign keys are written directly to the
// parent's stored row rather than through the parent's own save; that
// skips the parent's cascade but guarantees termination, and it means a
// live in-memory instance of the parent goes stale until reloaded.
func (m *Model) saveBelongsTo(visited map[*Model]bool) error {
	for _, a := range m.def.BelongsTo {
		fk := a.ForeignKey

		if parent, pending := m.tempParents[a.Name]; pending {
			delete(m.tempParents, a.Name)

			if parent == nil {
				m.attrs[fk] = nil
			} else {
				if _, err := parent.save(visited); err != nil {
					return err
				}
				m.attrs[fk] = parent.ID()
			}

			if id := m.ID(); id != "" {
				col, err := m.schema.Collection(m.name)
				if err != nil {
					return err
				}
				if err := col.Update(id, types.Record{fk: m.attrs[fk]}); err != nil {
					return err
				}
			}
		}

		parentID, _ := m.attrs[fk].(string)
		if parentID == "" {
			continue
		}
		inv, ok := m.schema.Inverse(m.name, a)
		if !ok || inv.Kind != schema.KindBelongsTo {
			// A has-many inverse carries no parent-side column; the
			// child-side foreign key written above is the whole linkage.
			continue
		}
		parentCol, err := m.schema.Collection(a.ModelName)
		if err != nil {
			return err
		}
		if err := parentCol.Update(parentID, types.Record{inv.ForeignKey: m.ID()}); err != nil {
			return err
		}
	}
	return nil
}

// saveHasMany bulk-updates the foreign key of every child currently held
// in each has-many slot to this model's id, delegating to the collection's
// own update-all operation.
func (m *Model) saveHasMany(visited map[*Model]bool) error {
	for _, a := range m.def.HasMany {
		children, ok := m.related[a.Name].(*Records)
		if !ok || children == nil {
			continue
		}
		if err := children.updateAll(a.ForeignKey, m.ID(), visited); err != nil {
			return err
		}
	}
	return nil
}
