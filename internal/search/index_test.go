package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reddlist/internal/feed"
)

func newTestIndex(t *testing.T) *Index {
	t.Helper()
	ix, err := NewIndex()
	require.NoError(t, err)
	t.Cleanup(func() { _ = ix.Close() })
	return ix
}

func TestIndexAndSearch(t *testing.T) {
	ix := newTestIndex(t)

	posts := []*feed.Post{
		{ID: "p1", Title: "Generics in practice", Author: "gopher"},
		{ID: "p2", Title: "Weekly discussion thread", Author: "automod",
			Content: feed.TextContent{HTML: "talk about generics here"}},
		{ID: "p3", Title: "Show and tell", Author: "someone"},
	}
	require.NoError(t, ix.IndexPosts("golang", posts))

	results, err := ix.Search("generics", 10)
	require.NoError(t, err)
	require.Len(t, results, 2)

	// The title match outranks the body match.
	assert.Equal(t, "p1", results[0].PostID)
	assert.Equal(t, "golang", results[0].FeedName)
	assert.Equal(t, "Generics in practice", results[0].Title)
	assert.Equal(t, "p2", results[1].PostID)
}

func TestSearchShortQuery(t *testing.T) {
	ix := newTestIndex(t)

	require.NoError(t, ix.IndexPosts("golang", []*feed.Post{
		{ID: "p1", Title: "A title", Author: "a"},
	}))

	results, err := ix.Search("a", 10)
	require.NoError(t, err)
	assert.Empty(t, results)

	results, err = ix.Search("   ", 10)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestReindexOverwrites(t *testing.T) {
	ix := newTestIndex(t)

	require.NoError(t, ix.IndexPosts("golang", []*feed.Post{
		{ID: "p1", Title: "Old title", Author: "a"},
	}))
	require.NoError(t, ix.IndexPosts("golang", []*feed.Post{
		{ID: "p1", Title: "New title", Author: "a"},
	}))

	n, err := ix.DocCount()
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	results, err := ix.Search("title", 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "New title", results[0].Title)
}

func TestRemoveFeed(t *testing.T) {
	ix := newTestIndex(t)

	require.NoError(t, ix.IndexPosts("golang", []*feed.Post{
		{ID: "p1", Title: "Keep searching", Author: "a"},
	}))
	require.NoError(t, ix.IndexPosts("rust", []*feed.Post{
		{ID: "p2", Title: "Borrow checker tips", Author: "b"},
	}))

	require.NoError(t, ix.RemoveFeed("golang"))

	n, err := ix.DocCount()
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	results, err := ix.Search("borrow", 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "rust", results[0].FeedName)
}
