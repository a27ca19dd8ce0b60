package repo

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDBFileName(t *testing.T) {
	assert.Equal(t, "blockd.db", DBFileName(""))
	assert.Equal(t, "blockd-drafts.db", DBFileName("drafts"))
	assert.Equal(t, "custom.db", DBFileName("custom.db"))
}

func TestInit(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Init(false, "", false, dir))
	assert.FileExists(t, filepath.Join(dir, Dir, DBFile))
	assert.FileExists(t, filepath.Join(dir, Dir, ".gitignore"))

	err := Init(false, "", false, dir)
	assert.ErrorContains(t, err, "already exists")
	assert.NoError(t, Init(true, "", false, dir))
}

func TestIgnoreDB(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Init(false, "", false, dir))
	require.NoError(t, Init(false, "drafts", true, dir))
	bd := filepath.Join(dir, Dir)

	ignored, err := IsIgnored("drafts", bd)
	require.NoError(t, err)
	assert.True(t, ignored)
	ignored, err = IsIgnored("", bd)
	require.NoError(t, err)
	assert.False(t, ignored)

	// Adding twice keeps a single entry.
	require.NoError(t, IgnoreDB("drafts", bd))
	data, err := os.ReadFile(filepath.Join(bd, ".gitignore"))
	require.NoError(t, err)
	assert.Equal(t, 1, countLines(string(data), "blockd-drafts.db"))
	assert.Contains(t, string(data), localHeader)

	require.NoError(t, UnignoreDB("drafts", bd))
	data, err = os.ReadFile(filepath.Join(bd, ".gitignore"))
	require.NoError(t, err)
	assert.NotContains(t, string(data), "blockd-drafts.db")
	assert.NotContains(t, string(data), localHeader)
	assert.Contains(t, string(data), "config.yaml")
}

func TestListDBs(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Init(false, "", false, dir))
	require.NoError(t, Init(false, "drafts", true, dir))

	dbs, err := ListDBs(filepath.Join(dir, Dir))
	require.NoError(t, err)
	require.Len(t, dbs, 2)

	byFile := map[string]DBInfo{}
	for _, d := range dbs {
		byFile[d.File] = d
	}
	assert.False(t, byFile["blockd.db"].Local)
	assert.True(t, byFile["blockd-drafts.db"].Local)
	assert.Equal(t, "drafts", byFile["blockd-drafts.db"].Name)
}

func TestDiscover(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Init(false, "", false, dir))
	sub := filepath.Join(dir, "a", "b")
	require.NoError(t, os.MkdirAll(sub, 0o755))
	t.Chdir(sub)

	got, err := Discover("")
	require.NoError(t, err)
	assert.Equal(t, resolve(t, filepath.Join(dir, Dir, DBFile)), resolve(t, got))

	_, err = Discover("missing")
	assert.ErrorIs(t, err, ErrNotInitialised)

	bd, err := DiscoverDir()
	require.NoError(t, err)
	assert.Equal(t, resolve(t, filepath.Join(dir, Dir)), resolve(t, bd))
}

func countLines(s, line string) int {
	n := 0
	for _, l := range strings.Split(s, "\n") {
		if l == line {
			n++
		}
	}
	return n
}

// resolve evaluates symlinks so temp paths compare equal on every platform.
func resolve(t *testing.T, p string) string {
	t.Helper()
	r, err := filepath.EvalSymlinks(p)
	require.NoError(t, err)
	return r
}
