package grep_test

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/jpl-au/blockd/internal/config"
	"github.com/jpl-au/blockd/internal/content"
	"github.com/jpl-au/blockd/internal/grep"
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
	return svc
}

// create stores an untitled note whose markdown is exactly source.
func create(t *testing.T, svc service.Service, source string) string {
	t.Helper()
	it, _, err := svc.Create(context.Background(), content.Raw{
		"type":   "note",
		"blocks": []any{map[string]any{"kind": "markdown", "source": source}},
	}, "tester", "")
	require.NoError(t, err)
	return it.Key
}

func TestRun(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()
	key := create(t, svc, "alpha\nTODO one\nbeta\ngamma\ndelta\nTODO two")
	create(t, svc, "nothing to see")

	t.Run("matching lines", func(t *testing.T) {
		var buf bytes.Buffer
		r, err := grep.Run(ctx, &buf, svc, "TODO", grep.Options{})
		require.NoError(t, err)
		require.Len(t, r.Hits, 1)
		assert.Equal(t, key+":2:TODO one\n"+key+":6:TODO two\n", buf.String())
	})

	t.Run("ignore case", func(t *testing.T) {
		var buf bytes.Buffer
		r, err := grep.Run(ctx, &buf, svc, "todo", grep.Options{IgnoreCase: true})
		require.NoError(t, err)
		require.Len(t, r.Hits, 1)
		assert.Len(t, r.Hits[0].Matches, 2)
	})

	t.Run("count", func(t *testing.T) {
		var buf bytes.Buffer
		_, err := grep.Run(ctx, &buf, svc, "TODO", grep.Options{CountOnly: true})
		require.NoError(t, err)
		assert.Equal(t, key+":2\n", buf.String())
	})

	t.Run("keys only", func(t *testing.T) {
		var buf bytes.Buffer
		_, err := grep.Run(ctx, &buf, svc, "see", grep.Options{KeysOnly: true})
		require.NoError(t, err)
		assert.NotContains(t, buf.String(), key)
		assert.Equal(t, 1, bytes.Count(buf.Bytes(), []byte("\n")))
	})

	t.Run("invert", func(t *testing.T) {
		var buf bytes.Buffer
		r, err := grep.Run(ctx, &buf, svc, "TODO|see", grep.Options{Invert: true})
		require.NoError(t, err)
		require.Len(t, r.Hits, 1)
		assert.Len(t, r.Hits[0].Matches, 4)
	})

	t.Run("context", func(t *testing.T) {
		var buf bytes.Buffer
		_, err := grep.Run(ctx, &buf, svc, "TODO", grep.Options{Context: 1})
		require.NoError(t, err)
		want := key + "-1-alpha\n" +
			key + ":2:TODO one\n" +
			key + "-3-beta\n" +
			"--\n" +
			key + "-5-delta\n" +
			key + ":6:TODO two\n"
		assert.Equal(t, want, buf.String())
	})

	t.Run("invalid regex", func(t *testing.T) {
		var buf bytes.Buffer
		_, err := grep.Run(ctx, &buf, svc, "(", grep.Options{})
		assert.ErrorContains(t, err, "invalid regex")
	})
}

func TestRun_Deleted(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()
	key := create(t, svc, "needle")
	require.NoError(t, svc.Delete(ctx, key))

	var buf bytes.Buffer
	r, err := grep.Run(ctx, &buf, svc, "needle", grep.Options{})
	require.NoError(t, err)
	assert.Empty(t, r.Hits)

	r, err = grep.Run(ctx, &buf, svc, "needle", grep.Options{DeletedOnly: true})
	require.NoError(t, err)
	require.Len(t, r.Hits, 1)
	assert.Equal(t, key, r.Hits[0].ToJSON().Key)
}
