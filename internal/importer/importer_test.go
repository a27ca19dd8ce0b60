package importer_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/jpl-au/blockd/internal/config"
	"github.com/jpl-au/blockd/internal/importer"
	"github.com/jpl-au/blockd/internal/library"
	"github.com/jpl-au/blockd/internal/repo"
	"github.com/jpl-au/blockd/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	validNote   = `{"type": "note", "title": "A", "blocks": [{"kind": "markdown", "source": "a"}]}`
	invalidNote = `{"type": "note", "blocks": []}`
)

func setupService(t *testing.T) *library.Service {
	t.Helper()

	dir := t.TempDir()
	require.NoError(t, library.Init(false, "", false, dir))

	svc, err := library.Open(filepath.Join(dir, repo.Dir, repo.DBFile), &config.Config{})
	require.NoError(t, err)
	t.Cleanup(func() { svc.Close() })
	return svc
}

// writeFiles creates files under a temp directory and returns it.
func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, body := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	}
	return dir
}

func TestRun(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	src := writeFiles(t, map[string]string{
		"a.json":         validNote,
		"nested/b.JSON":  validNote,
		"bad.json":       invalidNote,
		"broken.json":    `{"type":`,
		"array.json":     `[1, 2]`,
		"notes.md":       "# not imported",
		".hidden/c.json": validNote,
	})

	var buf bytes.Buffer
	res, err := importer.Run(ctx, &buf, svc, src, importer.Options{Author: "tester"})
	require.NoError(t, err)

	assert.Equal(t, []string{"a.json", "array.json", "bad.json", "broken.json", filepath.Join("nested", "b.JSON")}, res.Files)
	require.Len(t, res.Imported, 2)
	assert.Equal(t, "a.json", res.Imported[0].File)

	require.Len(t, res.Failed, 3)
	failed := map[string]importer.Failure{}
	for _, f := range res.Failed {
		failed[f.File] = f
	}
	require.NotNil(t, failed["bad.json"].Result, "validation failures carry the result")
	assert.True(t, failed["bad.json"].Result.HasFieldErrors("blocks"))
	assert.Nil(t, failed["broken.json"].Result)
	assert.Nil(t, failed["array.json"].Result)

	metas, err := svc.List(ctx, store.ListOptions{})
	require.NoError(t, err)
	assert.Len(t, metas, 2)

	it, err := svc.Latest(ctx, res.Imported[0].Key, false)
	require.NoError(t, err)
	assert.Equal(t, "tester", it.Author)

	assert.Contains(t, buf.String(), "Imported: a.json -> "+res.Imported[0].Key)
	assert.Contains(t, buf.String(), "Invalid: bad.json")
}

func TestRun_Hidden(t *testing.T) {
	svc := setupService(t)
	src := writeFiles(t, map[string]string{".hidden/c.json": validNote})

	var buf bytes.Buffer
	res, err := importer.Run(context.Background(), &buf, svc, src, importer.Options{Author: "tester"})
	require.NoError(t, err)
	assert.Empty(t, res.Files)

	res, err = importer.Run(context.Background(), &buf, svc, src, importer.Options{Author: "tester", Hidden: true})
	require.NoError(t, err)
	assert.Len(t, res.Imported, 1)
}

func TestRun_SingleFile(t *testing.T) {
	svc := setupService(t)
	src := writeFiles(t, map[string]string{"one.json": validNote})

	var buf bytes.Buffer
	res, err := importer.Run(context.Background(), &buf, svc, filepath.Join(src, "one.json"), importer.Options{Author: "tester"})
	require.NoError(t, err)
	assert.Len(t, res.Imported, 1)

	_, err = importer.Run(context.Background(), &buf, svc, filepath.Join(src, "missing.json"), importer.Options{})
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestCheck(t *testing.T) {
	p, err := library.Pipeline(&config.Config{})
	require.NoError(t, err)

	src := writeFiles(t, map[string]string{
		"good.json": validNote,
		"bad.json":  invalidNote,
	})

	var buf bytes.Buffer
	res, err := importer.Check(&buf, p, src, importer.Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"good.json"}, res.Valid)
	require.Len(t, res.Failed, 1)
	assert.Equal(t, "bad.json", res.Failed[0].File)
	assert.Empty(t, res.Imported)
	assert.Contains(t, buf.String(), "Would import: good.json")
}
