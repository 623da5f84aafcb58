package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/pantry/pkg/types"
)

func TestRecordsOrdering(t *testing.T) {
	sch := setupBlogSchema(t)

	c1, err := New(sch, "comment", types.Record{"body": "one"})
	require.NoError(t, err)
	c2, err := New(sch, "comment", types.Record{"body": "two"})
	require.NoError(t, err)
	c3, err := New(sch, "comment", types.Record{"body": "three"})
	require.NoError(t, err)

	r := NewRecords(c1, c2)
	r.Add(c3)

	require.Equal(t, 3, r.Len())
	assert.Same(t, c1, r.At(0))
	assert.Same(t, c3, r.At(2))
	assert.Equal(t, []*Model{c1, c2, c3}, r.All())

	// All returns a copy; growing it does not touch the collection.
	all := r.All()
	_ = append(all, c1)
	assert.Equal(t, 3, r.Len())
}

func TestRecordsIDs(t *testing.T) {
	sch := setupBlogSchema(t)

	saved, err := New(sch, "comment", types.Record{"body": "saved"})
	require.NoError(t, err)
	_, err = saved.Save()
	require.NoError(t, err)

	unsaved, err := New(sch, "comment", types.Record{"body": "unsaved"})
	require.NoError(t, err)

	r := NewRecords(saved, unsaved)
	assert.Equal(t, []string{saved.ID(), ""}, r.IDs())
}

func TestRecordsUpdateAll(t *testing.T) {
	sch := setupBlogSchema(t)

	c1, err := New(sch, "comment", types.Record{"body": "one"})
	require.NoError(t, err)
	_, err = c1.Save()
	require.NoError(t, err)
	c2, err := New(sch, "comment", types.Record{"body": "two"})
	require.NoError(t, err)

	r := NewRecords(c1, c2)
	require.NoError(t, r.UpdateAll("flagged", true))

	// Every member, saved or not before the call, ends up persisted with
	// the attribute set.
	col, err := sch.Collection("comment")
	require.NoError(t, err)
	for _, c := range r.All() {
		assert.Equal(t, true, c.Get("flagged"))
		row, err := col.Find(c.ID())
		require.NoError(t, err)
		assert.Equal(t, true, row["flagged"])
	}
}
