package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	t.Run("valid without a store", func(t *testing.T) {
		env := newBareEnv(t)
		out := env.runStdin(testNote, "validate")
		env.equals(out, "valid")
	})

	t.Run("invalid exits non-zero", func(t *testing.T) {
		env := newBareEnv(t)
		out, err := env.runStdinErr(testInvalid, "validate")
		require.Error(t, err)
		env.contains(out, "invalid: 2 errors")
		env.contains(out, "blocks.0.source: source cannot be empty")
	})

	t.Run("update mode", func(t *testing.T) {
		env := newBareEnv(t)
		out := env.runStdin(`{"title": "Only a title"}`, "validate", "--update")
		env.equals(out, "valid")

		_, err := env.runStdinErr(`{"title": "Only a title"}`, "validate")
		assert.Error(t, err)
	})

	t.Run("json", func(t *testing.T) {
		env := newBareEnv(t)
		out, err := env.runStdinErr(testInvalid, "validate", "-o", "json")
		require.Error(t, err)
		env.contains(out, `"blocks.0.source"`)
	})

	t.Run("configured limits", func(t *testing.T) {
		env := newTestEnv(t)
		env.run("config", "--local", "limits.max_blocks", "1")
		out, err := env.runStdinErr(testNote, "validate")
		require.Error(t, err)
		env.contains(out, "blocks: ")
	})
}

func TestDetails(t *testing.T) {
	env := newBareEnv(t)
	out := env.runStdin(testNote, "details")
	env.contains(out, "Fields:")
	env.contains(out, "--- title")
	env.contains(out, "valid")

	out, err := env.runStdinErr(testUnknownKind, "details")
	require.Error(t, err)
	env.contains(out, "Sanitization failed")
}

func TestKinds(t *testing.T) {
	env := newBareEnv(t)
	out := env.run("kinds")
	env.equals(out, "code\nhtml\nmarkdown")
}
