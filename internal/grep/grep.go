// Package grep provides regex search over the rendered markdown of items.
//
// Where find answers natural language queries from the FTS index, grep
// scans the markdown each item renders to, line by line, with Unix grep
// semantics (-i, -v, -l, -c, -C). Line numbers refer to that markdown, the
// same text "blockd cat --raw" prints.
package grep

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/jpl-au/blockd/internal/render"
	"github.com/jpl-au/blockd/internal/service"
	"github.com/jpl-au/blockd/internal/store"
)

// Options configures a grep operation.
type Options struct {
	Type           string // Only items of this content type
	IncludeDeleted bool   // Include deleted items
	DeletedOnly    bool   // Search only deleted items
	KeysOnly       bool   // Only output keys (-l)
	IgnoreCase     bool   // Case insensitive (-i)
	Invert         bool   // Select non-matching lines (-v)
	CountOnly      bool   // Only print match counts (-c)
	Context        int    // Lines of context around matches (-C)
}

// Match is a single matching line.
type Match struct {
	Line    int    `json:"line"` // 1-indexed
	Content string `json:"content"`
}

// Hit holds every match within one item.
type Hit struct {
	Item    store.ItemMeta
	Lines   []string
	Matches []Match
}

// HitJSON is the API representation of a Hit.
type HitJSON struct {
	Key     string  `json:"key"`
	Version int     `json:"version"`
	Type    string  `json:"type"`
	Matches []Match `json:"matches"`
}

// ToJSON converts a Hit for JSON output.
func (h Hit) ToJSON() HitJSON {
	return HitJSON{Key: h.Item.Key, Version: h.Item.Version, Type: h.Item.Type, Matches: h.Matches}
}

// Result contains the outcome of a grep operation.
type Result struct {
	Hits []Hit
}

// Run searches items for pattern and writes grep-style output to w.
func Run(ctx context.Context, w io.Writer, svc service.Service, pattern string, opts Options) (Result, error) {
	var result Result

	flags := ""
	if opts.IgnoreCase {
		flags = "(?i)"
	}
	re, err := regexp.Compile(flags + pattern)
	if err != nil {
		return result, fmt.Errorf("invalid regex: %w", err)
	}

	metas, err := svc.List(ctx, store.ListOptions{
		Type:           opts.Type,
		IncludeDeleted: opts.IncludeDeleted,
		DeletedOnly:    opts.DeletedOnly,
	})
	if err != nil {
		return result, err
	}

	for _, m := range metas {
		it, err := svc.Latest(ctx, m.Key, true)
		if err != nil {
			return result, fmt.Errorf("read %s: %w", m.Key, err)
		}
		lines, matches, err := matchLines(re, render.Markdown(it), opts.Invert)
		if err != nil {
			return result, fmt.Errorf("scanning %s: %w", m.Key, err)
		}
		if len(matches) > 0 {
			result.Hits = append(result.Hits, Hit{Item: m, Lines: lines, Matches: matches})
		}
	}

	switch {
	case opts.KeysOnly:
		for _, h := range result.Hits {
			fmt.Fprintln(w, h.Item.Key)
		}
	case opts.CountOnly:
		for _, h := range result.Hits {
			fmt.Fprintf(w, "%s:%d\n", h.Item.Key, len(h.Matches))
		}
	case opts.Context > 0:
		for _, h := range result.Hits {
			writeContext(w, h, opts.Context)
		}
	default:
		for _, h := range result.Hits {
			for _, m := range h.Matches {
				fmt.Fprintf(w, "%s:%d:%s\n", h.Item.Key, m.Line, m.Content)
			}
		}
	}
	return result, nil
}

// writeContext prints matches with n lines either side. Matching lines use
// ":" as separator, context lines "-", and "--" separates groups that are
// not contiguous.
func writeContext(w io.Writer, h Hit, n int) {
	printed := make(map[int]bool)
	last := -1
	for _, m := range h.Matches {
		start := max(m.Line-n-1, 0)
		end := min(m.Line+n, len(h.Lines))

		if last >= 0 && start > last+1 {
			fmt.Fprintln(w, "--")
		}
		for i := start; i < end; i++ {
			if printed[i] {
				continue
			}
			printed[i] = true
			sep := "-"
			if i+1 == m.Line {
				sep = ":"
			}
			fmt.Fprintf(w, "%s%s%d%s%s\n", h.Item.Key, sep, i+1, sep, h.Lines[i])
			last = i
		}
	}
}

// matchLines splits text into lines and returns those matching re, or those
// not matching when invert is set.
func matchLines(re *regexp.Regexp, text string, invert bool) ([]string, []Match, error) {
	var lines []string
	var matches []Match

	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(make([]byte, 64*1024), 10*1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		lines = append(lines, line)
		if re.MatchString(line) != invert {
			matches = append(matches, Match{Line: len(lines), Content: line})
		}
	}
	return lines, matches, scanner.Err()
}
