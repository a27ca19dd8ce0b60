package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jpl-au/blockd/internal/validate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	var c Config
	assert.Equal(t, validate.DefaultLimits(), c.ValidateLimits())
	assert.False(t, c.IsSet("limits.max_source"))

	v, err := c.Get("limits.max_blocks")
	require.NoError(t, err)
	assert.Equal(t, "10", v)
}

func TestSetGet(t *testing.T) {
	var c Config
	require.NoError(t, c.Set("author.name", "Ada"))
	require.NoError(t, c.Set("limits.max_source", "500"))

	assert.Equal(t, "Ada", c.Author.Name)
	assert.Equal(t, 500, c.MaxSource())
	assert.True(t, c.IsSet("limits.max_source"))
	assert.Equal(t, 500, c.ValidateLimits().MaxSource)
	assert.Equal(t, validate.DefaultMinBlocks, c.ValidateLimits().MinBlocks)

	all := c.All()
	assert.Equal(t, "500", all["limits.max_source"])
	assert.Len(t, all, len(ValidKeys()))
}

func TestSetErrors(t *testing.T) {
	var c Config
	assert.ErrorIs(t, c.Set("limits.bogus", "1"), ErrUnknownKey)
	assert.ErrorIs(t, c.Set("limits.max_blocks", "zero"), ErrInvalidValue)
	assert.ErrorIs(t, c.Set("limits.max_blocks", "0"), ErrInvalidValue)
	assert.ErrorIs(t, c.Set("limits.max_blocks", "5000"), ErrInvalidValue)

	_, err := c.Get("nope")
	assert.ErrorIs(t, err, ErrUnknownKey)
	assert.False(t, IsValidKey("nope"))
	assert.True(t, IsValidKey("limits.max_title"))
}

func TestLoadSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	c := &Config{}
	require.NoError(t, c.Set("author.email", "ada@example.com"))
	require.NoError(t, c.Set("limits.max_title", "80"))
	require.NoError(t, c.saveToPath(path))

	loaded, err := loadPath(path, ScopeLocal)
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", loaded.Author.Email)
	assert.Equal(t, 80, loaded.MaxTitle())
	assert.Equal(t, ScopeLocal, loaded.Scope())
}

func TestLoadMissing(t *testing.T) {
	c, err := loadPath(filepath.Join(t.TempDir(), "none.yaml"), ScopeGlobal)
	require.NoError(t, err)
	assert.Equal(t, validate.DefaultMaxType, c.MaxType())
}

func TestLoadInvalid(t *testing.T) {
	dir := t.TempDir()

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("limits: [\n"), 0644))
	_, err := loadPath(bad, ScopeLocal)
	assert.ErrorContains(t, err, "malformed config file")

	outOfRange := filepath.Join(dir, "range.yaml")
	require.NoError(t, os.WriteFile(outOfRange, []byte("limits:\n  max_blocks: 0\n"), 0644))
	_, err = loadPath(outOfRange, ScopeLocal)
	assert.ErrorIs(t, err, ErrInvalidValue)
}
