package guide

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet(t *testing.T) {
	page, err := Get("")
	require.NoError(t, err)
	assert.Contains(t, page, "# blockd")

	page, err = Get("Blocks")
	require.NoError(t, err)
	assert.Contains(t, page, "## markdown")

	_, err = Get("nope")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "blocks, limits, mcp")
}

func TestList(t *testing.T) {
	assert.Equal(t, []string{"blocks", "limits", "mcp"}, List())
}
