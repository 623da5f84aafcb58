// Unit tests for model construction, attribute partitioning, and the
// persistence lifecycle against the memory backend.
package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/pantry/internal/memory"
	"github.com/mesh-intelligence/pantry/pkg/schema"
	"github.com/mesh-intelligence/pantry/pkg/types"
)

// setupBlogSchema registers the author/post/comment fixture models on a
// fresh memory backend and attaches it.
func setupBlogSchema(t *testing.T) *schema.Schema {
	t.Helper()

	store := memory.NewBackend(nil)
	sch := schema.New(store)
	require.NoError(t, sch.Register(schema.Definition{
		Name:    "author",
		HasMany: []schema.Association{{Name: "posts"}},
	}))
	require.NoError(t, sch.Register(schema.Definition{
		Name:      "post",
		BelongsTo: []schema.Association{{Name: "author"}},
		HasMany:   []schema.Association{{Name: "comments"}},
	}))
	require.NoError(t, sch.Register(schema.Definition{
		Name:      "comment",
		BelongsTo: []schema.Association{{Name: "post"}},
	}))

	require.NoError(t, store.Attach(types.Config{
		Backend:     types.BackendMemory,
		Collections: sch.CollectionNames(),
	}))
	t.Cleanup(func() { store.Detach() })
	return sch
}

func TestNewValidation(t *testing.T) {
	sch := setupBlogSchema(t)

	_, err := New(nil, "post", nil)
	assert.ErrorIs(t, err, ErrMissingSchema)

	_, err = New(sch, "", nil)
	assert.ErrorIs(t, err, ErrMissingModelName)

	_, err = New(sch, "widget", nil)
	assert.ErrorIs(t, err, ErrUnknownModel)
}

func TestNewPartitionsAttributes(t *testing.T) {
	sch := setupBlogSchema(t)

	m, err := New(sch, "post", types.Record{
		"title": "First post",
		"draft": true,
	})
	require.NoError(t, err)

	assert.Equal(t, "post", m.ModelName())
	assert.Equal(t, "First post", m.Get("title"))
	assert.Equal(t, true, m.Get("draft"))

	// Declared foreign keys always exist, defaulted to nil.
	json := m.ToJSON()
	val, ok := json["author_id"]
	assert.True(t, ok)
	assert.Nil(t, val)

	// Association keys never reach the attribute hash.
	_, ok = json["comments"]
	assert.False(t, ok)
}

func TestToJSONIsACopy(t *testing.T) {
	sch := setupBlogSchema(t)

	m, err := New(sch, "post", types.Record{"title": "original"})
	require.NoError(t, err)

	out := m.ToJSON()
	out["title"] = "mutated"
	assert.Equal(t, "original", m.Get("title"))
}

func TestNewRejectsAssociationValueUnderUnknownKey(t *testing.T) {
	sch := setupBlogSchema(t)

	author, err := New(sch, "author", types.Record{"name": "Iris"})
	require.NoError(t, err)

	_, err = New(sch, "post", types.Record{"writer": author})
	assert.ErrorIs(t, err, ErrUnknownAssociation)

	_, err = New(sch, "post", types.Record{"replies": NewRecords()})
	assert.ErrorIs(t, err, ErrUnknownAssociation)
}

func TestNewValidatesForeignKeys(t *testing.T) {
	sch := setupBlogSchema(t)

	author, err := New(sch, "author", types.Record{"name": "Iris"})
	require.NoError(t, err)
	_, err = author.Save()
	require.NoError(t, err)

	// A valid reference passes and lands in the attribute hash.
	m, err := New(sch, "post", types.Record{"author_id": author.ID()})
	require.NoError(t, err)
	assert.Equal(t, author.ID(), m.Get("author_id"))

	// A dangling reference fails construction.
	_, err = New(sch, "post", types.Record{"author_id": "no-such-row"})
	assert.ErrorIs(t, err, ErrBrokenReference)

	// A non-string value under a foreign key is not a record id.
	_, err = New(sch, "post", types.Record{"author_id": 42})
	assert.ErrorIs(t, err, ErrBrokenReference)

	// An explicit nil foreign key is fine.
	m, err = New(sch, "post", types.Record{"author_id": nil})
	require.NoError(t, err)
	assert.Nil(t, m.Get("author_id"))
}

func TestForeignKeyWithoutBelongsTo(t *testing.T) {
	store := memory.NewBackend(nil)
	sch := schema.New(store)
	require.NoError(t, sch.Register(schema.Definition{
		Name:        "event",
		ForeignKeys: []string{"organizer_id"},
	}))
	require.NoError(t, store.Attach(types.Config{
		Backend:     types.BackendMemory,
		Collections: sch.CollectionNames(),
	}))
	t.Cleanup(func() { store.Detach() })

	// The column exists and defaults to nil.
	m, err := New(sch, "event", nil)
	require.NoError(t, err)
	assert.Nil(t, m.Get("organizer_id"))

	// Supplying a value for a foreign key with no belongs-to descriptor is
	// a setup bug and fails hard.
	_, err = New(sch, "event", types.Record{"organizer_id": "abc"})
	assert.ErrorIs(t, err, ErrNoBelongsTo)
}

func TestIsNew(t *testing.T) {
	sch := setupBlogSchema(t)

	tests := []struct {
		name  string
		model func(t *testing.T) *Model
		want  bool
	}{
		{
			name: "no id",
			model: func(t *testing.T) *Model {
				m, err := New(sch, "author", types.Record{"name": "Iris"})
				require.NoError(t, err)
				return m
			},
			want: true,
		},
		{
			name: "caller-supplied id with no row in the store",
			model: func(t *testing.T) *Model {
				m, err := New(sch, "author", types.Record{"id": "hand-rolled"})
				require.NoError(t, err)
				return m
			},
			want: true,
		},
		{
			name: "saved",
			model: func(t *testing.T) *Model {
				m, err := New(sch, "author", types.Record{"name": "Iris"})
				require.NoError(t, err)
				_, err = m.Save()
				require.NoError(t, err)
				return m
			},
			want: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := tt.model(t)
			assert.Equal(t, tt.want, m.IsNew())
			assert.Equal(t, !tt.want, m.IsSaved())
		})
	}
}

func TestSaveAssignsID(t *testing.T) {
	sch := setupBlogSchema(t)

	m, err := New(sch, "author", types.Record{"name": "Iris"})
	require.NoError(t, err)
	assert.Empty(t, m.ID())

	saved, err := m.Save()
	require.NoError(t, err)
	assert.Same(t, m, saved)
	assert.NotEmpty(t, m.ID())

	col, err := sch.Collection("author")
	require.NoError(t, err)
	row, err := col.Find(m.ID())
	require.NoError(t, err)
	assert.Equal(t, "Iris", row["name"])
}

func TestSaveKeepsCallerSuppliedID(t *testing.T) {
	sch := setupBlogSchema(t)

	m, err := New(sch, "author", types.Record{"id": "author-1", "name": "Iris"})
	require.NoError(t, err)
	_, err = m.Save()
	require.NoError(t, err)
	assert.Equal(t, "author-1", m.ID())
	assert.False(t, m.IsNew())
}

func TestSaveUpdatesExistingRow(t *testing.T) {
	sch := setupBlogSchema(t)

	m, err := New(sch, "author", types.Record{"name": "Iris"})
	require.NoError(t, err)
	_, err = m.Save()
	require.NoError(t, err)
	id := m.ID()

	require.NoError(t, m.Set("name", "Ida"))
	_, err = m.Save()
	require.NoError(t, err)
	assert.Equal(t, id, m.ID())

	col, err := sch.Collection("author")
	require.NoError(t, err)
	row, err := col.Find(id)
	require.NoError(t, err)
	assert.Equal(t, "Ida", row["name"])
}

func TestUpdate(t *testing.T) {
	sch := setupBlogSchema(t)

	m, err := New(sch, "author", types.Record{"name": "Iris"})
	require.NoError(t, err)

	updated, err := m.Update("name", "Ida")
	require.NoError(t, err)
	assert.Same(t, m, updated)
	assert.Equal(t, "Ida", m.Get("name"))
	assert.False(t, m.IsNew())

	// An empty key is a no-op that does not touch the store.
	before := m.ToJSON()
	updated, err = m.Update("", "ignored")
	require.NoError(t, err)
	assert.Same(t, m, updated)
	assert.Equal(t, before, m.ToJSON())
}

func TestUpdateAttributes(t *testing.T) {
	sch := setupBlogSchema(t)

	m, err := New(sch, "author", types.Record{"name": "Iris"})
	require.NoError(t, err)

	_, err = m.UpdateAttributes(types.Record{"name": "Ida", "age": 41})
	require.NoError(t, err)
	assert.Equal(t, "Ida", m.Get("name"))
	assert.Equal(t, 41, m.Get("age"))
	assert.False(t, m.IsNew())

	// Nil and empty hashes are no-ops.
	_, err = m.UpdateAttributes(nil)
	require.NoError(t, err)
	_, err = m.UpdateAttributes(types.Record{})
	require.NoError(t, err)
}

func TestReload(t *testing.T) {
	sch := setupBlogSchema(t)

	m, err := New(sch, "author", types.Record{"name": "Iris"})
	require.NoError(t, err)
	_, err = m.Save()
	require.NoError(t, err)

	// Mutate the stored row behind the instance's back.
	col, err := sch.Collection("author")
	require.NoError(t, err)
	require.NoError(t, col.Update(m.ID(), types.Record{"name": "Ida", "age": 41}))

	reloaded, err := m.Reload()
	require.NoError(t, err)
	assert.Same(t, m, reloaded)
	assert.Equal(t, "Ida", m.Get("name"))
	assert.Equal(t, 41, m.Get("age"))
}

func TestReloadUnsaved(t *testing.T) {
	sch := setupBlogSchema(t)

	m, err := New(sch, "author", types.Record{"name": "Iris"})
	require.NoError(t, err)

	_, err = m.Reload()
	assert.ErrorIs(t, err, ErrNotPersisted)
}

func TestDestroy(t *testing.T) {
	sch := setupBlogSchema(t)

	m, err := New(sch, "author", types.Record{"name": "Iris"})
	require.NoError(t, err)
	_, err = m.Save()
	require.NoError(t, err)
	id := m.ID()

	require.NoError(t, m.Destroy())

	col, err := sch.Collection("author")
	require.NoError(t, err)
	_, err = col.Find(id)
	assert.ErrorIs(t, err, types.ErrNotFound)

	// Attributes stay readable after the row is gone.
	assert.Equal(t, "Iris", m.Get("name"))
	assert.True(t, m.IsNew())

	// Destroying the already-removed row surfaces the store error.
	assert.ErrorIs(t, m.Destroy(), types.ErrNotFound)
}

func TestDestroyUnsaved(t *testing.T) {
	sch := setupBlogSchema(t)

	m, err := New(sch, "author", types.Record{"name": "Iris"})
	require.NoError(t, err)
	assert.ErrorIs(t, m.Destroy(), ErrNotPersisted)
}

func TestAccessorDefinitionIsIdempotent(t *testing.T) {
	sch := setupBlogSchema(t)

	m, err := New(sch, "author", types.Record{"name": "Iris"})
	require.NoError(t, err)

	require.NoError(t, m.Set("name", "Ida"))
	require.NoError(t, m.Set("name", "Ivy"))
	assert.Equal(t, "Ivy", m.Get("name"))
	assert.Equal(t, []string{"name"}, m.AttributeNames())
}

func TestSetRoutesAssociationKeys(t *testing.T) {
	sch := setupBlogSchema(t)

	author, err := New(sch, "author", types.Record{"name": "Iris"})
	require.NoError(t, err)
	post, err := New(sch, "post", types.Record{"title": "First"})
	require.NoError(t, err)

	require.NoError(t, post.Set("author", author))
	assert.Same(t, author, post.Parent("author"))

	// The live object never lands in the attribute hash.
	_, ok := post.ToJSON()["author"]
	assert.False(t, ok)

	err = post.Set("author", "not a model")
	assert.ErrorIs(t, err, ErrInvalidAssociation)

	err = post.SetAssociation("nonsuch", author)
	assert.ErrorIs(t, err, ErrUnknownAssociation)
}

func TestSetHasManyAcceptsSliceAndRecords(t *testing.T) {
	sch := setupBlogSchema(t)

	post, err := New(sch, "post", types.Record{"title": "First"})
	require.NoError(t, err)
	c1, err := New(sch, "comment", types.Record{"body": "one"})
	require.NoError(t, err)
	c2, err := New(sch, "comment", types.Record{"body": "two"})
	require.NoError(t, err)

	require.NoError(t, post.SetAssociation("comments", []*Model{c1, c2}))
	require.Equal(t, 2, post.Children("comments").Len())

	require.NoError(t, post.SetAssociation("comments", NewRecords(c1)))
	require.Equal(t, 1, post.Children("comments").Len())

	require.NoError(t, post.SetAssociation("comments", nil))
	require.Equal(t, 0, post.Children("comments").Len())
}

func TestStringer(t *testing.T) {
	sch := setupBlogSchema(t)

	m, err := New(sch, "author", types.Record{"id": "author-1"})
	require.NoError(t, err)
	assert.Equal(t, "model:author(author-1)", m.String())
}

func TestFactory(t *testing.T) {
	sch := setupBlogSchema(t)

	f := NewFactory(sch, "post")
	assert.Equal(t, "post", f.ModelName())

	m, err := f.New(types.Record{"title": "First"})
	require.NoError(t, err)
	assert.Equal(t, "post", m.ModelName())

	assert.NotPanics(t, func() { f.MustNew(types.Record{"title": "Second"}) })

	bad := NewFactory(sch, "widget")
	_, err = bad.New(nil)
	assert.ErrorIs(t, err, ErrUnknownModel)
	assert.Panics(t, func() { bad.MustNew(nil) })
}
