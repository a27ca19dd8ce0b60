package cmd

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRmRestore(t *testing.T) {
	env := newTestEnv(t)
	key := env.create(testNote)

	out := env.run("rm", key, "-a", "tester")
	env.contains(out, "Deleted "+key)

	out = env.run("ls")
	assert.NotContains(t, out, key)

	out = env.run("ls", "-D")
	env.contains(out, key)

	_, err := env.runErr("cat", key)
	assert.Error(t, err)
	out = env.run("cat", key, "-D", "--raw")
	env.contains(out, "# Release notes")

	_, err = env.runStdinErr(`{"title": "x"}`, "update", key, "-a", "tester")
	assert.Error(t, err, "deleted items cannot be updated")

	out = env.run("restore", key, "-a", "tester")
	env.contains(out, "Restored "+key)
	out = env.run("ls")
	env.contains(out, key)

	_, err = env.runErr("rm", "missing", "-a", "tester")
	assert.Error(t, err)
}

func TestVacuum(t *testing.T) {
	t.Run("removes deleted items", func(t *testing.T) {
		env := newTestEnv(t)
		keep := env.create(testNote)
		drop := env.create(testNote)
		env.run("rm", drop, "-a", "tester")

		out := env.run("vacuum", "--dry-run", "-a", "tester")
		env.contains(out, "Would delete: "+drop)

		out = env.run("ls", "-D")
		env.contains(out, drop)

		env.run("vacuum", "--force", "-a", "tester")

		out = env.run("ls", "-A")
		env.contains(out, keep)
		assert.NotContains(t, out, drop)
	})

	t.Run("confirmation declined", func(t *testing.T) {
		env := newTestEnv(t)
		drop := env.create(testNote)
		env.run("rm", drop, "-a", "tester")

		out := env.runStdin("n\n", "vacuum", "-a", "tester")
		env.contains(out, "Cancelled")

		out = env.run("ls", "-D")
		env.contains(out, drop)
	})

	t.Run("older than keeps recent deletions", func(t *testing.T) {
		env := newTestEnv(t)
		drop := env.create(testNote)
		env.run("rm", drop, "-a", "tester")

		env.run("vacuum", "--force", "--older-than", "7d", "-a", "tester")
		out := env.run("ls", "-D")
		env.contains(out, drop)
	})

	t.Run("nothing to vacuum", func(t *testing.T) {
		env := newTestEnv(t)
		out := env.run("vacuum", "--force", "-a", "tester")
		env.contains(out, "No items to vacuum")
	})

	t.Run("bad duration", func(t *testing.T) {
		env := newTestEnv(t)
		_, err := env.runErr("vacuum", "--force", "--older-than", "soon", "-a", "tester")
		require.Error(t, err)
	})

	t.Run("history gone after vacuum", func(t *testing.T) {
		env := newTestEnv(t)
		drop := env.create(testNote)
		env.run("rm", drop, "-a", "tester")
		env.run("vacuum", "--force", "-a", "tester")

		out, err := env.runErr("history", drop, "-D")
		if err == nil {
			assert.Empty(t, strings.TrimSpace(out))
		}
	})
}
