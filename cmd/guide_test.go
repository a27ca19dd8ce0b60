package cmd

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGuide(t *testing.T) {
	env := newBareEnv(t)

	out := env.run("guide")
	env.contains(out, "# blockd")

	out = env.run("guide", "limits")
	env.contains(out, "limits.max_blocks")

	out, err := env.runErr("guide", "nope")
	require.Error(t, err)
	env.contains(out, "available: blocks, limits, mcp")
}
