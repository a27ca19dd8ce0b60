package diff

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVersionRange(t *testing.T) {
	tests := []struct {
		in       string
		from, to int
		errMsg   string
	}{
		{in: "1:3", from: 1, to: 3},
		{in: "2:2", from: 2, to: 2},
		{in: "100:999", from: 100, to: 999},
		{in: ":", errMsg: "both versions required"},
		{in: ":5", errMsg: "both versions required"},
		{in: "3:", errMsg: "both versions required"},
		{in: "5", errMsg: "expected v1:v2"},
		{in: "1:2:3", errMsg: "expected v1:v2"},
		{in: "abc:5", errMsg: "invalid start version"},
		{in: "3:xyz", errMsg: "invalid end version"},
		{in: "0:3", errMsg: "start version must be >= 1"},
		{in: "-1:3", errMsg: "start version must be >= 1"},
		{in: "1:0", errMsg: "end version must be >= 1"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			from, to, err := ParseVersionRange(tt.in)
			if tt.errMsg != "" {
				assert.ErrorContains(t, err, tt.errMsg)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.from, from)
			assert.Equal(t, tt.to, to)
		})
	}
}

func TestCompute(t *testing.T) {
	t.Run("whole lines", func(t *testing.T) {
		r := Compute("Hello   World\nsame\n", "Hello World\nsame\n", "raw", "sanitized")
		assert.Equal(t, "- Hello   World\n+ Hello World\n  same\n", r.Diff)
		assert.Equal(t, 1, r.Added)
		assert.Equal(t, 1, r.Removed)
		assert.True(t, strings.HasPrefix(r.Format(false), "--- raw\n+++ sanitized\n"))
	})

	t.Run("identical input", func(t *testing.T) {
		r := Compute("same\n", "same\n", "a", "b")
		assert.False(t, r.Changed())
	})

	t.Run("long unchanged run collapsed", func(t *testing.T) {
		old := "1\n2\n3\n4\n5\n6\n7\n8\nold\n"
		r := Compute(old, strings.Replace(old, "old", "new", 1), "a", "b")
		assert.Equal(t, "  1\n  2\n  3\n  ...\n  6\n  7\n  8\n- old\n+ new\n", r.Diff)
	})

	t.Run("colourised output", func(t *testing.T) {
		out := Compute("a\n", "b\n", "a", "b").Format(true)
		assert.Contains(t, out, red+"- a"+reset)
		assert.Contains(t, out, green+"+ b"+reset)
	})
}
