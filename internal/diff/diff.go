// Package diff renders line diffs between two texts. blockd shows them for
// what sanitization changed in a field and for changes between versions of
// an item.
package diff

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// contextLines unchanged lines are kept on each side of a change; longer
// unchanged runs are collapsed to "...".
const contextLines = 3

// Line prefixes.
const (
	prefixDel  = "- "
	prefixIns  = "+ "
	prefixSame = "  "
)

// Result is a computed diff.
type Result struct {
	Old     string // label of the old side
	New     string // label of the new side
	Diff    string // one prefixed line per output line
	Added   int    // lines inserted
	Removed int    // lines deleted
}

// Changed reports whether any line was inserted or deleted.
func (r Result) Changed() bool { return r.Added+r.Removed > 0 }

// Compute diffs oldText against newText line by line.
func Compute(oldText, newText, oldLabel, newLabel string) Result {
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(oldText, newText)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	r := Result{Old: oldLabel, New: newLabel}
	var sb strings.Builder
	for _, d := range diffs {
		if d.Text == "" {
			continue
		}
		chunk := strings.Split(strings.TrimSuffix(d.Text, "\n"), "\n")
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			r.Removed += len(chunk)
			writeLines(&sb, prefixDel, chunk)
		case diffmatchpatch.DiffInsert:
			r.Added += len(chunk)
			writeLines(&sb, prefixIns, chunk)
		default:
			if len(chunk) > 2*contextLines {
				writeLines(&sb, prefixSame, chunk[:contextLines])
				sb.WriteString(prefixSame + "...\n")
				chunk = chunk[len(chunk)-contextLines:]
			}
			writeLines(&sb, prefixSame, chunk)
		}
	}
	r.Diff = sb.String()
	return r
}

func writeLines(sb *strings.Builder, prefix string, lines []string) {
	for _, l := range lines {
		sb.WriteString(prefix)
		sb.WriteString(l)
		sb.WriteByte('\n')
	}
}

const (
	red   = "\033[31m"
	green = "\033[32m"
	reset = "\033[0m"
)

// Format returns the diff under a "--- old / +++ new" header, with ANSI
// colours when colour is set.
func (r Result) Format(colour bool) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "--- %s\n+++ %s\n", r.Old, r.New)
	if !colour {
		sb.WriteString(r.Diff)
		return sb.String()
	}
	for line := range strings.Lines(r.Diff) {
		switch {
		case strings.HasPrefix(line, prefixDel):
			sb.WriteString(red + strings.TrimSuffix(line, "\n") + reset + "\n")
		case strings.HasPrefix(line, prefixIns):
			sb.WriteString(green + strings.TrimSuffix(line, "\n") + reset + "\n")
		default:
			sb.WriteString(line)
		}
	}
	return sb.String()
}

var errRange = errors.New("invalid version range")

// ParseVersionRange parses "FROM:TO". Both versions are required and must be
// at least 1.
func ParseVersionRange(s string) (from, to int, err error) {
	a, b, ok := strings.Cut(s, ":")
	if !ok || strings.Contains(b, ":") {
		return 0, 0, fmt.Errorf("%w %q (expected v1:v2)", errRange, s)
	}
	if a == "" || b == "" {
		return 0, 0, fmt.Errorf("%w %q: both versions required", errRange, s)
	}
	if from, err = parseVersion(a, "start"); err != nil {
		return 0, 0, err
	}
	if to, err = parseVersion(b, "end"); err != nil {
		return 0, 0, err
	}
	return from, to, nil
}

func parseVersion(s, which string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s version: %w", which, err)
	}
	if n < 1 {
		return 0, fmt.Errorf("%s version must be >= 1, got %d", which, n)
	}
	return n, nil
}
