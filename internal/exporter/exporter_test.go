package exporter_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/jpl-au/blockd/internal/config"
	"github.com/jpl-au/blockd/internal/content"
	"github.com/jpl-au/blockd/internal/exporter"
	"github.com/jpl-au/blockd/internal/importer"
	"github.com/jpl-au/blockd/internal/library"
	"github.com/jpl-au/blockd/internal/repo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
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

func create(t *testing.T, svc *library.Service, typ, title string) string {
	t.Helper()
	it, _, err := svc.Create(context.Background(), content.Raw{
		"type":    typ,
		"title":   title,
		"summary": "Short",
		"blocks": []any{
			map[string]any{"kind": "markdown", "source": "Body text"},
			map[string]any{"kind": "code", "language": "go", "source": "x := 1"},
		},
	}, "tester", "")
	require.NoError(t, err)
	return it.Key
}

func TestRun_Markdown(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()
	key := create(t, svc, "note", "Hello")
	dst := filepath.Join(t.TempDir(), "out")

	var buf bytes.Buffer
	res, err := exporter.Run(ctx, &buf, svc, dst, exporter.Options{})
	require.NoError(t, err)
	require.Len(t, res.Exported, 1)
	assert.Equal(t, key, res.Exported[0].Key)
	assert.Equal(t, 1, res.Exported[0].Version)

	data, err := os.ReadFile(filepath.Join(dst, key+".md"))
	require.NoError(t, err)
	assert.Equal(t, "# Hello\n\n> Short\n\nBody text\n\n```go\nx := 1\n```\n", string(data))
	assert.Contains(t, buf.String(), "Exported: "+key+" v1")
}

func TestRun_Filters(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()
	note := create(t, svc, "note", "N")
	recipe := create(t, svc, "recipe", "R")
	gone := create(t, svc, "note", "Gone")
	require.NoError(t, svc.Delete(ctx, gone))

	var buf bytes.Buffer
	res, err := exporter.Run(ctx, &buf, svc, t.TempDir(), exporter.Options{Type: "note"})
	require.NoError(t, err)
	require.Len(t, res.Exported, 1)
	assert.Equal(t, note, res.Exported[0].Key)

	res, err = exporter.Run(ctx, &buf, svc, t.TempDir(), exporter.Options{Keys: []string{recipe}, Format: exporter.FormatHTML})
	require.NoError(t, err)
	require.Len(t, res.Exported, 1)
	assert.Equal(t, recipe+".html", filepath.Base(res.Exported[0].Path))

	_, err = exporter.Run(ctx, &buf, svc, t.TempDir(), exporter.Options{Keys: []string{gone}})
	assert.Error(t, err, "deleted items are not exported")

	_, err = exporter.Run(ctx, &buf, svc, t.TempDir(), exporter.Options{Format: "pdf"})
	assert.ErrorContains(t, err, "unknown format")
}

func TestRun_Force(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()
	create(t, svc, "note", "N")
	dst := t.TempDir()

	var buf bytes.Buffer
	_, err := exporter.Run(ctx, &buf, svc, dst, exporter.Options{})
	require.NoError(t, err)

	_, err = exporter.Run(ctx, &buf, svc, dst, exporter.Options{})
	assert.ErrorContains(t, err, "file exists")

	_, err = exporter.Run(ctx, &buf, svc, dst, exporter.Options{Force: true})
	assert.NoError(t, err)
}

func TestRun_JSONRoundTrip(t *testing.T) {
	src := setupService(t)
	ctx := context.Background()
	key := create(t, src, "note", "Round trip")
	dst := t.TempDir()

	var buf bytes.Buffer
	_, err := exporter.Run(ctx, &buf, src, dst, exporter.Options{Format: exporter.FormatJSON})
	require.NoError(t, err)

	target := setupService(t)
	res, err := importer.Run(ctx, &buf, target, dst, importer.Options{Author: "tester"})
	require.NoError(t, err)
	require.Len(t, res.Imported, 1)
	assert.Empty(t, res.Failed)

	orig, err := src.Latest(ctx, key, false)
	require.NoError(t, err)
	copied, err := target.Latest(ctx, res.Imported[0].Key, false)
	require.NoError(t, err)
	assert.Equal(t, orig.Data(), copied.Data())
}
