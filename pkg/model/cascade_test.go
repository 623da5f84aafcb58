// Unit tests for the association save cascade: pending belongs-to
// parents, inverse foreign-key propagation, has-many bulk updates, and
// termination of bidirectional and reflexive relations.
package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/pantry/internal/memory"
	"github.com/mesh-intelligence/pantry/pkg/schema"
	"github.com/mesh-intelligence/pantry/pkg/types"
)

func findRow(t *testing.T, sch *schema.Schema, model, id string) types.Record {
	t.Helper()
	col, err := sch.Collection(model)
	require.NoError(t, err)
	row, err := col.Find(id)
	require.NoError(t, err)
	return row
}

func TestSavePersistsPendingParent(t *testing.T) {
	sch := setupBlogSchema(t)

	author, err := New(sch, "author", types.Record{"name": "Iris"})
	require.NoError(t, err)
	post, err := New(sch, "post", types.Record{"title": "First"})
	require.NoError(t, err)
	require.NoError(t, post.SetAssociation("author", author))

	_, err = post.Save()
	require.NoError(t, err)

	// The parent was inserted as part of the cascade, and the child's
	// foreign key names the parent's row.
	require.NotEmpty(t, author.ID())
	assert.False(t, author.IsNew())
	assert.Equal(t, author.ID(), post.Get("author_id"))

	row := findRow(t, sch, "post", post.ID())
	assert.Equal(t, author.ID(), row["author_id"])
}

func TestSaveClearedParentNilsForeignKey(t *testing.T) {
	sch := setupBlogSchema(t)

	author, err := New(sch, "author", types.Record{"name": "Iris"})
	require.NoError(t, err)
	post, err := New(sch, "post", types.Record{"title": "First"})
	require.NoError(t, err)
	require.NoError(t, post.SetAssociation("author", author))
	_, err = post.Save()
	require.NoError(t, err)

	require.NoError(t, post.SetAssociation("author", nil))
	_, err = post.Save()
	require.NoError(t, err)

	assert.Nil(t, post.Get("author_id"))
	row := findRow(t, sch, "post", post.ID())
	assert.Nil(t, row["author_id"])
}

func TestSaveParentDrainsOnce(t *testing.T) {
	sch := setupBlogSchema(t)

	author, err := New(sch, "author", types.Record{"name": "Iris"})
	require.NoError(t, err)
	post, err := New(sch, "post", types.Record{"title": "First"})
	require.NoError(t, err)
	require.NoError(t, post.SetAssociation("author", author))
	_, err = post.Save()
	require.NoError(t, err)

	// The pending slot drained; a second save leaves the linkage alone but
	// the live reference stays readable.
	require.NoError(t, author.Set("name", "Ida"))
	_, err = post.Save()
	require.NoError(t, err)

	assert.Same(t, author, post.Parent("author"))
	row := findRow(t, sch, "author", author.ID())
	assert.Equal(t, "Iris", row["name"])
}

func TestSavePropagatesInverseForeignKey(t *testing.T) {
	// One-to-one pair where both sides carry a foreign-key column.
	store := memory.NewBackend(nil)
	sch := schema.New(store)
	require.NoError(t, sch.Register(schema.Definition{
		Name:      "user",
		BelongsTo: []schema.Association{{Name: "profile"}},
	}))
	require.NoError(t, sch.Register(schema.Definition{
		Name:      "profile",
		BelongsTo: []schema.Association{{Name: "user"}},
	}))
	require.NoError(t, store.Attach(types.Config{
		Backend:     types.BackendMemory,
		Collections: sch.CollectionNames(),
	}))
	t.Cleanup(func() { store.Detach() })

	user, err := New(sch, "user", types.Record{"name": "Iris"})
	require.NoError(t, err)
	profile, err := New(sch, "profile", types.Record{"bio": "gardener"})
	require.NoError(t, err)
	require.NoError(t, user.SetAssociation("profile", profile))

	_, err = user.Save()
	require.NoError(t, err)

	// Forward link on the user's own row.
	userRow := findRow(t, sch, "user", user.ID())
	assert.Equal(t, profile.ID(), userRow["profile_id"])

	// Inverse link written directly to the profile's stored row.
	profileRow := findRow(t, sch, "profile", profile.ID())
	assert.Equal(t, user.ID(), profileRow["user_id"])

	// The live profile instance is stale until reloaded.
	assert.Nil(t, profile.Get("user_id"))
	_, err = profile.Reload()
	require.NoError(t, err)
	assert.Equal(t, user.ID(), profile.Get("user_id"))
}

func TestSaveLinksHasManyChildren(t *testing.T) {
	sch := setupBlogSchema(t)

	c1, err := New(sch, "comment", types.Record{"body": "one"})
	require.NoError(t, err)
	c2, err := New(sch, "comment", types.Record{"body": "two"})
	require.NoError(t, err)
	post, err := New(sch, "post", types.Record{
		"title":    "First",
		"comments": []*Model{c1, c2},
	})
	require.NoError(t, err)

	_, err = post.Save()
	require.NoError(t, err)

	for _, c := range []*Model{c1, c2} {
		require.NotEmpty(t, c.ID())
		assert.Equal(t, post.ID(), c.Get("post_id"))
		row := findRow(t, sch, "comment", c.ID())
		assert.Equal(t, post.ID(), row["post_id"])
	}
}

func TestSaveTerminatesOnBidirectionalRelation(t *testing.T) {
	sch := setupBlogSchema(t)

	author, err := New(sch, "author", types.Record{"name": "Iris"})
	require.NoError(t, err)
	post, err := New(sch, "post", types.Record{"title": "First"})
	require.NoError(t, err)

	// Each side holds a live reference to the other.
	require.NoError(t, post.SetAssociation("author", author))
	require.NoError(t, author.SetAssociation("posts", []*Model{post}))

	_, err = post.Save()
	require.NoError(t, err)

	require.NotEmpty(t, post.ID())
	require.NotEmpty(t, author.ID())
	row := findRow(t, sch, "post", post.ID())
	assert.Equal(t, author.ID(), row["author_id"])
}

func TestSaveTerminatesOnReflexiveRelation(t *testing.T) {
	store := memory.NewBackend(nil)
	sch := schema.New(store)
	require.NoError(t, sch.Register(schema.Definition{
		Name: "category",
		BelongsTo: []schema.Association{
			{Name: "parent", ModelName: "category", ForeignKey: "parent_id"},
		},
	}))
	require.NoError(t, store.Attach(types.Config{
		Backend:     types.BackendMemory,
		Collections: sch.CollectionNames(),
	}))
	t.Cleanup(func() { store.Detach() })

	a, err := New(sch, "category", types.Record{"name": "a"})
	require.NoError(t, err)
	b, err := New(sch, "category", types.Record{"name": "b"})
	require.NoError(t, err)

	// A two-cycle: each category is the other's parent.
	require.NoError(t, a.SetAssociation("parent", b))
	require.NoError(t, b.SetAssociation("parent", a))

	_, err = a.Save()
	require.NoError(t, err)

	require.NotEmpty(t, a.ID())
	require.NotEmpty(t, b.ID())

	aRow := findRow(t, sch, "category", a.ID())
	bRow := findRow(t, sch, "category", b.ID())
	assert.Equal(t, b.ID(), aRow["parent_id"])
	assert.Equal(t, a.ID(), bRow["parent_id"])
}

func TestSaveChildWithExistingParentID(t *testing.T) {
	sch := setupBlogSchema(t)

	author, err := New(sch, "author", types.Record{"name": "Iris"})
	require.NoError(t, err)
	_, err = author.Save()
	require.NoError(t, err)

	// Constructing with the raw foreign key, no live parent object.
	post, err := New(sch, "post", types.Record{
		"title":     "First",
		"author_id": author.ID(),
	})
	require.NoError(t, err)
	_, err = post.Save()
	require.NoError(t, err)

	row := findRow(t, sch, "post", post.ID())
	assert.Equal(t, author.ID(), row["author_id"])
}
