package store_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/jpl-au/blockd/internal/content"
	"github.com/jpl-au/blockd/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupStore creates a temporary SQLite store for testing.
func setupStore(t *testing.T) *store.SQLiteStore {
	t.Helper()

	s, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, s.Init())
	t.Cleanup(func() { s.Close() })
	return s
}

func writeOpts(author, msg string) store.WriteOptions {
	return store.WriteOptions{Author: author, Message: msg}
}

func note(title string, sources ...string) *content.Item {
	it := &content.Item{Type: "note", Title: title}
	for _, src := range sources {
		it.Blocks = append(it.Blocks, content.Block{"kind": "markdown", "source": src})
	}
	return it
}

func TestStore_InitIdempotent(t *testing.T) {
	s := setupStore(t)
	require.NoError(t, s.Init())
}

func TestStore_WriteAndLatest(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	in := note("Hello", "# Hello", "World")
	in.Summary = "A greeting"
	in.Blocks = append(in.Blocks, content.Block{"kind": "code", "source": "x := 1", "language": "go"})

	written, err := s.Write(ctx, in, writeOpts("alice", "initial"))
	require.NoError(t, err)
	assert.NotEmpty(t, written.Key)
	assert.Equal(t, 1, written.Version)
	assert.NotZero(t, written.ID)
	assert.Empty(t, in.Key, "input item is not modified")

	got, err := s.Latest(ctx, written.Key, false)
	require.NoError(t, err)
	assert.Equal(t, "note", got.Type)
	assert.Equal(t, "Hello", got.Title)
	assert.Equal(t, "A greeting", got.Summary)
	assert.Equal(t, "alice", got.Author)
	assert.Equal(t, "initial", got.Message)
	assert.Nil(t, got.DeletedAt)
	assert.Equal(t, []content.Block{
		{"kind": "markdown", "source": "# Hello"},
		{"kind": "markdown", "source": "World"},
		{"kind": "code", "source": "x := 1", "language": "go"},
	}, got.Blocks)
}

func TestStore_Versions(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	v1, err := s.Write(ctx, note("v1", "one"), writeOpts("alice", "v1"))
	require.NoError(t, err)

	next := note("v2", "two")
	next.Key = v1.Key
	v2, err := s.Write(ctx, next, writeOpts("bob", "v2"))
	require.NoError(t, err)
	assert.Equal(t, v1.Key, v2.Key)
	assert.Equal(t, 2, v2.Version)

	latest, err := s.Latest(ctx, v1.Key, false)
	require.NoError(t, err)
	assert.Equal(t, 2, latest.Version)
	assert.Equal(t, "two", latest.Blocks[0]["source"])

	old, err := s.Version(ctx, v1.Key, 1)
	require.NoError(t, err)
	assert.Equal(t, "v1", old.Title)
	assert.Equal(t, "alice", old.Author)

	hist, err := s.History(ctx, v1.Key, 0, false)
	require.NoError(t, err)
	require.Len(t, hist, 2)
	assert.Equal(t, 2, hist[0].Version)
	assert.Equal(t, 1, hist[1].Version)
	assert.Equal(t, "one", hist[1].Blocks[0]["source"])

	hist, err = s.History(ctx, v1.Key, 1, false)
	require.NoError(t, err)
	assert.Len(t, hist, 1)
}

func TestStore_WriteErrors(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	_, err := s.Write(ctx, &content.Item{Type: "note"}, writeOpts("alice", ""))
	assert.ErrorIs(t, err, store.ErrNoBlocks)

	unknown := note("x", "y")
	unknown.Key = "does-not-exist"
	_, err = s.Write(ctx, unknown, writeOpts("alice", ""))
	assert.ErrorIs(t, err, store.ErrNotFound)

	_, err = s.Latest(ctx, "nope", false)
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = s.Version(ctx, "nope", 1)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestStore_DeleteRestore(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	it, err := s.Write(ctx, note("gone", "x"), writeOpts("alice", ""))
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, it.Key))
	assert.ErrorIs(t, s.Delete(ctx, it.Key), store.ErrNotFound)

	_, err = s.Latest(ctx, it.Key, false)
	assert.ErrorIs(t, err, store.ErrNotFound)

	deleted, err := s.Latest(ctx, it.Key, true)
	require.NoError(t, err)
	assert.NotNil(t, deleted.DeletedAt)

	exists, err := s.Exists(ctx, it.Key)
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, s.Restore(ctx, it.Key))
	assert.ErrorIs(t, s.Restore(ctx, it.Key), store.ErrNotFound)

	exists, err = s.Exists(ctx, it.Key)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestStore_List(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	a, err := s.Write(ctx, note("a", "1", "2"), writeOpts("alice", ""))
	require.NoError(t, err)
	next := note("a2", "1")
	next.Key = a.Key
	_, err = s.Write(ctx, next, writeOpts("alice", ""))
	require.NoError(t, err)

	post := note("b", "x")
	post.Type = "post"
	b, err := s.Write(ctx, post, writeOpts("bob", ""))
	require.NoError(t, err)

	c, err := s.Write(ctx, note("c", "x"), writeOpts("bob", ""))
	require.NoError(t, err)
	require.NoError(t, s.Delete(ctx, c.Key))

	metas, err := s.List(ctx, store.ListOptions{})
	require.NoError(t, err)
	require.Len(t, metas, 2)
	byKey := map[string]store.ItemMeta{}
	for _, m := range metas {
		byKey[m.Key] = m
	}
	assert.Equal(t, 2, byKey[a.Key].Version)
	assert.Equal(t, "a2", byKey[a.Key].Title)
	assert.Equal(t, 1, byKey[a.Key].Blocks)
	assert.Equal(t, "post", byKey[b.Key].Type)

	metas, err = s.List(ctx, store.ListOptions{Type: "post"})
	require.NoError(t, err)
	require.Len(t, metas, 1)
	assert.Equal(t, b.Key, metas[0].Key)

	metas, err = s.List(ctx, store.ListOptions{DeletedOnly: true})
	require.NoError(t, err)
	require.Len(t, metas, 1)
	assert.Equal(t, c.Key, metas[0].Key)
	assert.True(t, metas[0].ToJSON().Deleted)

	metas, err = s.List(ctx, store.ListOptions{IncludeDeleted: true})
	require.NoError(t, err)
	assert.Len(t, metas, 3)

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestStore_Stats(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	it := note("s", "a", "b")
	it.Blocks = append(it.Blocks, content.Block{"kind": "html", "source": "<p>x</p>"})
	_, err := s.Write(ctx, it, writeOpts("alice", ""))
	require.NoError(t, err)
	gone, err := s.Write(ctx, note("t", "c"), writeOpts("bob", ""))
	require.NoError(t, err)
	require.NoError(t, s.Delete(ctx, gone.Key))

	st, err := s.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), st.Items)
	assert.Equal(t, int64(1), st.DeletedItems)
	assert.Equal(t, int64(2), st.TotalVersions)
	assert.Equal(t, int64(4), st.Blocks)
	assert.Equal(t, int64(3), st.BlocksByKind["markdown"])
	assert.Equal(t, int64(1), st.BlocksByKind["html"])
	assert.Equal(t, int64(2), st.Authors)
	assert.NotZero(t, st.OldestDeletedAt)
}

func TestStore_Vacuum(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	keep, err := s.Write(ctx, note("keep", "x"), writeOpts("alice", ""))
	require.NoError(t, err)
	gone, err := s.Write(ctx, note("gone", "x"), writeOpts("alice", ""))
	require.NoError(t, err)
	require.NoError(t, s.Delete(ctx, gone.Key))

	hour := time.Hour
	n, err := s.Vacuum(ctx, &hour)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n, "recent deletions are kept")

	n, err = s.Vacuum(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = s.Latest(ctx, gone.Key, true)
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = s.Latest(ctx, keep.Key, false)
	assert.NoError(t, err)

	st, err := s.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), st.Blocks)
	require.NoError(t, s.Checkpoint(ctx))
}
