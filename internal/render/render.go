// Package render turns stored items into documents for display: markdown
// for terminals and diffs, HTML for export.
package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	gmext "github.com/yuin/goldmark/extension"
	gmhtml "github.com/yuin/goldmark/renderer/html"

	"github.com/jpl-au/blockd/internal/block"
	"github.com/jpl-au/blockd/internal/content"
)

// Markdown renders it as a markdown document. The title becomes a level one
// heading, the summary a block quote, and each block follows in order
// separated by a blank line. HTML blocks are emitted as raw HTML and code
// blocks as fenced code.
func Markdown(it *content.Item) string {
	var parts []string
	if it.Title != "" {
		parts = append(parts, "# "+it.Title)
	}
	if it.Summary != "" {
		parts = append(parts, quote(it.Summary))
	}
	for _, b := range it.Blocks {
		if s := Block(b); s != "" {
			parts = append(parts, s)
		}
	}
	if len(parts) == 0 {
		return ""
	}
	return strings.Join(parts, "\n\n") + "\n"
}

// Block renders a single block as markdown. Blocks of an unknown kind
// render their source as plain markdown.
func Block(b content.Block) string {
	src, _ := b.String(content.BlockSource)
	src = strings.TrimRight(src, "\n")
	switch b.Kind() {
	case block.KindCode:
		lang, _ := b.String(block.FieldLanguage)
		f := fence(src)
		return f + lang + "\n" + src + "\n" + f
	default:
		return src
	}
}

// fence returns a backtick fence longer than any backtick run in src.
func fence(src string) string {
	longest, run := 0, 0
	for _, r := range src {
		if r == '`' {
			run++
			longest = max(longest, run)
			continue
		}
		run = 0
	}
	return strings.Repeat("`", max(3, longest+1))
}

func quote(s string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		if l == "" {
			lines[i] = ">"
			continue
		}
		lines[i] = "> " + l
	}
	return strings.Join(lines, "\n")
}

var (
	md = goldmark.New(
		goldmark.WithExtensions(gmext.GFM),
		goldmark.WithRendererOptions(gmhtml.WithUnsafe()),
	)
	policy = bluemonday.UGCPolicy()
)

// HTML renders it as an HTML fragment. HTML blocks were sanitized on the
// way in; the converted output is passed through the same policy again so
// markdown blocks cannot smuggle in raw markup either.
func HTML(it *content.Item) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(Markdown(it)), &buf); err != nil {
		return "", fmt.Errorf("render html: %w", err)
	}
	return policy.Sanitize(buf.String()), nil
}
