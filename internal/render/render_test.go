package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jpl-au/blockd/internal/content"
)

func TestMarkdown(t *testing.T) {
	it := &content.Item{
		Type:    "note",
		Title:   "Hello",
		Summary: "Line one\n\nLine two",
		Blocks: []content.Block{
			{"kind": "markdown", "source": "Some *text*\n"},
			{"kind": "code", "source": "x := 1", "language": "go"},
			{"kind": "html", "source": "<p>raw</p>"},
		},
	}

	want := "# Hello\n\n" +
		"> Line one\n>\n> Line two\n\n" +
		"Some *text*\n\n" +
		"```go\nx := 1\n```\n\n" +
		"<p>raw</p>\n"
	assert.Equal(t, want, Markdown(it))
}

func TestMarkdown_Empty(t *testing.T) {
	assert.Equal(t, "", Markdown(&content.Item{}))
}

func TestFence(t *testing.T) {
	assert.Equal(t, "```", fence("plain"))
	assert.Equal(t, "````", fence("has ``` inside"))
	assert.Equal(t, "`````", fence("````"))
}

func TestHTML(t *testing.T) {
	it := &content.Item{
		Title: "Title",
		Blocks: []content.Block{
			{"kind": "markdown", "source": "**bold** <script>alert(1)</script>"},
			{"kind": "code", "source": "<b>not markup</b>", "language": "html"},
		},
	}

	out, err := HTML(it)
	require.NoError(t, err)
	assert.Contains(t, out, "<h1>Title</h1>")
	assert.Contains(t, out, "<strong>bold</strong>")
	assert.Contains(t, out, "&lt;b&gt;not markup&lt;/b&gt;")
	assert.NotContains(t, out, "<script>")
}
