package find_test

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/jpl-au/blockd/internal/config"
	"github.com/jpl-au/blockd/internal/content"
	"github.com/jpl-au/blockd/internal/find"
	"github.com/jpl-au/blockd/internal/library"
	"github.com/jpl-au/blockd/internal/repo"
	"github.com/jpl-au/blockd/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupService(t *testing.T) service.Service {
	t.Helper()

	dir := t.TempDir()
	require.NoError(t, library.Init(false, "", false, dir))

	svc, err := library.Open(filepath.Join(dir, repo.Dir, repo.DBFile), &config.Config{})
	require.NoError(t, err)
	t.Cleanup(func() { svc.Close() })

	require.NoError(t, find.Migrate(svc.DB()))
	return svc
}

// store creates an item and indexes it the way the search extension does on
// a write event.
func store(t *testing.T, svc service.Service, typ, title, source string) string {
	t.Helper()
	ctx := context.Background()
	it, _, err := svc.Create(ctx, content.Raw{
		"type":   typ,
		"title":  title,
		"blocks": []any{map[string]any{"kind": "markdown", "source": source}},
	}, "tester", "")
	require.NoError(t, err)
	require.NoError(t, find.Index(ctx, svc.DB(), it))
	return it.Key
}

func keys(r find.Result) []string {
	out := make([]string, len(r.Items))
	for i, m := range r.Items {
		out[i] = m.Key
	}
	return out
}

func TestBody(t *testing.T) {
	it := &content.Item{Blocks: []content.Block{
		{"kind": "markdown", "source": "one"},
		{"kind": "code", "source": "two", "language": "go"},
		{"kind": "markdown", "source": ""},
	}}
	assert.Equal(t, "one\n\ntwo", find.Body(it))
}

func TestRun(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	apples := store(t, svc, "note", "Fruit", "apples and pears")
	bananas := store(t, svc, "recipe", "Bananas", "banana bread")

	var buf bytes.Buffer
	r, err := find.Run(ctx, &buf, svc, "apples", find.Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{apples}, keys(r))
	assert.Contains(t, buf.String(), apples)

	t.Run("title is indexed", func(t *testing.T) {
		r, err := find.Run(ctx, &buf, svc, "bananas", find.Options{})
		require.NoError(t, err)
		assert.Equal(t, []string{bananas}, keys(r))
	})

	t.Run("prefix query", func(t *testing.T) {
		r, err := find.Run(ctx, &buf, svc, "ban*", find.Options{})
		require.NoError(t, err)
		assert.Equal(t, []string{bananas}, keys(r))
	})

	t.Run("type filter", func(t *testing.T) {
		r, err := find.Run(ctx, &buf, svc, "apples OR banana", find.Options{Type: "recipe"})
		require.NoError(t, err)
		assert.Equal(t, []string{bananas}, keys(r))
	})

	t.Run("keys only", func(t *testing.T) {
		var out bytes.Buffer
		_, err := find.Run(ctx, &out, svc, "apples", find.Options{KeysOnly: true})
		require.NoError(t, err)
		assert.Equal(t, apples+"\n", out.String())
	})

	t.Run("limit", func(t *testing.T) {
		r, err := find.Run(ctx, &buf, svc, "apples OR banana", find.Options{Limit: 1})
		require.NoError(t, err)
		assert.Len(t, r.Items, 1)
	})

	t.Run("no match", func(t *testing.T) {
		r, err := find.Run(ctx, &buf, svc, "cherries", find.Options{})
		require.NoError(t, err)
		assert.Empty(t, r.Items)
	})

	t.Run("empty query", func(t *testing.T) {
		_, err := find.Run(ctx, &buf, svc, "  ", find.Options{})
		assert.Error(t, err)
	})
}

func TestRun_Deleted(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()
	key := store(t, svc, "note", "Gone", "ephemeral words")
	require.NoError(t, svc.Delete(ctx, key))

	var buf bytes.Buffer
	r, err := find.Run(ctx, &buf, svc, "ephemeral", find.Options{})
	require.NoError(t, err)
	assert.Empty(t, r.Items)

	r, err = find.Run(ctx, &buf, svc, "ephemeral", find.Options{DeletedOnly: true})
	require.NoError(t, err)
	assert.Equal(t, []string{key}, keys(r))

	r, err = find.Run(ctx, &buf, svc, "ephemeral", find.Options{IncludeDeleted: true})
	require.NoError(t, err)
	assert.Equal(t, []string{key}, keys(r))
}

func TestIndex_ReplacesRow(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()
	key := store(t, svc, "note", "Draft", "old wording")

	it, _, err := svc.Update(ctx, key, content.Raw{
		"blocks": []any{map[string]any{"kind": "markdown", "source": "new wording"}},
	}, "tester", "")
	require.NoError(t, err)
	require.NoError(t, find.Index(ctx, svc.DB(), it))

	var buf bytes.Buffer
	r, err := find.Run(ctx, &buf, svc, "old", find.Options{})
	require.NoError(t, err)
	assert.Empty(t, r.Items)

	r, err = find.Run(ctx, &buf, svc, "new", find.Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{key}, keys(r))
}

func TestReindexAndPurge(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	// Written without indexing, as before the extension existed.
	it, _, err := svc.Create(ctx, content.Raw{
		"type":   "note",
		"blocks": []any{map[string]any{"kind": "markdown", "source": "unindexed text"}},
	}, "tester", "")
	require.NoError(t, err)

	var buf bytes.Buffer
	r, err := find.Run(ctx, &buf, svc, "unindexed", find.Options{})
	require.NoError(t, err)
	assert.Empty(t, r.Items)

	n, err := find.Reindex(ctx, svc)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	r, err = find.Run(ctx, &buf, svc, "unindexed", find.Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{it.Key}, keys(r))

	require.NoError(t, svc.Delete(ctx, it.Key))
	_, err = svc.Vacuum(ctx, nil)
	require.NoError(t, err)

	purged, err := find.Purge(ctx, svc.DB())
	require.NoError(t, err)
	assert.Equal(t, int64(1), purged)
}
