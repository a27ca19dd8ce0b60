// Package edit applies partial edits to the source of a single block.
//
// An edit reads the latest version of an item, changes the source of one
// block, and submits the full block list as an update. The result goes
// through the pipeline like any other update, so an edit that leaves a
// block invalid is rejected with the usual field errors.
package edit

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jpl-au/blockd/internal/content"
	"github.com/jpl-au/blockd/internal/validate"
)

var (
	// ErrTextNotFound is returned when the search text is in no block.
	ErrTextNotFound = errors.New("text not found")
	// ErrInvalidLineRange is returned when a line range is malformed.
	ErrInvalidLineRange = errors.New("invalid line range")
	// ErrNoBlock is returned when the block index is out of range.
	ErrNoBlock = errors.New("no such block")
)

// Service is the subset of the item service edits need.
type Service interface {
	Latest(ctx context.Context, key string, includeDeleted bool) (*content.Item, error)
	Update(ctx context.Context, key string, raw content.Raw, author, message string) (*content.Item, validate.Result, error)
}

// Options configures an edit.
type Options struct {
	Block   int    // Block index; -1 picks the first block containing Old
	Author  string // Author attribution
	Message string // Version message
}

// Result contains the outcome of an edit.
type Result struct {
	Key     string `json:"key"`
	Block   int    `json:"block"`
	Version int    `json:"version"`
}

// Replace substitutes the first occurrence of old in the chosen block.
func Replace(ctx context.Context, w io.Writer, svc Service, key, old, repl string, caseInsensitive bool, opts Options) (Result, validate.Result, error) {
	if old == "" {
		return Result{Key: key}, validate.Result{}, errors.New("old text is required")
	}
	return run(ctx, w, svc, key, opts, func(it *content.Item) (int, string, error) {
		idx := opts.Block
		if idx < 0 {
			idx = find(it.Blocks, old, caseInsensitive)
			if idx < 0 {
				return 0, "", fmt.Errorf("%w: %q", ErrTextNotFound, old)
			}
		}
		src, err := source(it, idx)
		if err != nil {
			return idx, "", err
		}
		out, err := ReplaceText(src, old, repl, caseInsensitive)
		return idx, out, err
	})
}

// Lines replaces lines start..end of the chosen block's source. A negative
// block index means the first block.
func Lines(ctx context.Context, w io.Writer, svc Service, key string, start, end int, repl string, opts Options) (Result, validate.Result, error) {
	return run(ctx, w, svc, key, opts, func(it *content.Item) (int, string, error) {
		idx := max(opts.Block, 0)
		src, err := source(it, idx)
		if err != nil {
			return idx, "", err
		}
		out, err := ReplaceLines(src, start, end, repl)
		return idx, out, err
	})
}

func run(ctx context.Context, w io.Writer, svc Service, key string, opts Options, fn func(*content.Item) (int, string, error)) (Result, validate.Result, error) {
	r := Result{Key: key}

	it, err := svc.Latest(ctx, key, false)
	if err != nil {
		return r, validate.Result{}, err
	}
	idx, src, err := fn(it)
	r.Block = idx
	if err != nil {
		return r, validate.Result{}, err
	}

	updated, res, err := svc.Update(ctx, key, Request(it, idx, src), opts.Author, opts.Message)
	if updated != nil {
		r.Version = updated.Version
	}
	if err != nil {
		return r, res, err
	}

	fmt.Fprintf(w, "Edited %s block %d (v%d)\n", key, idx, r.Version)
	return r, res, nil
}

// Request builds an update request carrying every block of it with the
// source of block idx replaced.
func Request(it *content.Item, idx int, src string) content.Raw {
	blocks := make([]any, len(it.Blocks))
	for i, b := range it.Blocks {
		m := map[string]any(b.Clone())
		if i == idx {
			m[content.BlockSource] = src
		}
		blocks[i] = m
	}
	return content.Raw{content.FieldBlocks: blocks}
}

func source(it *content.Item, idx int) (string, error) {
	if idx < 0 || idx >= len(it.Blocks) {
		return "", fmt.Errorf("%w: %d (item has %d)", ErrNoBlock, idx, len(it.Blocks))
	}
	src, _ := it.Blocks[idx].String(content.BlockSource)
	return src, nil
}

func find(blocks []content.Block, old string, caseInsensitive bool) int {
	for i, b := range blocks {
		src, _ := b.String(content.BlockSource)
		if indexOf(src, old, caseInsensitive) >= 0 {
			return i
		}
	}
	return -1
}

func indexOf(s, sub string, caseInsensitive bool) int {
	if caseInsensitive {
		return strings.Index(strings.ToLower(s), strings.ToLower(sub))
	}
	return strings.Index(s, sub)
}

// ReplaceText replaces the first occurrence of old in s. Case-insensitive
// matching still inserts repl exactly as given.
func ReplaceText(s, old, repl string, caseInsensitive bool) (string, error) {
	idx := indexOf(s, old, caseInsensitive)
	if idx < 0 {
		return "", fmt.Errorf("%w: %q", ErrTextNotFound, old)
	}
	return s[:idx] + repl + s[idx+len(old):], nil
}

// ReplaceLines replaces lines start through end (1-indexed, inclusive) of
// s with repl. A zero start means the first line and a zero end the last;
// an end past the last line is clamped. An empty repl deletes the lines.
func ReplaceLines(s string, start, end int, repl string) (string, error) {
	lines := strings.Split(s, "\n")
	if start == 0 {
		start = 1
	}
	if end == 0 {
		end = len(lines)
	}
	switch {
	case start < 1:
		return "", fmt.Errorf("%w: start line must be >= 1, got %d", ErrInvalidLineRange, start)
	case end < start:
		return "", fmt.Errorf("%w: end line %d is before start line %d", ErrInvalidLineRange, end, start)
	case start > len(lines):
		return "", fmt.Errorf("%w: start line %d is past the last line %d", ErrInvalidLineRange, start, len(lines))
	}
	end = min(end, len(lines))

	out := append([]string{}, lines[:start-1]...)
	if repl = strings.TrimSuffix(repl, "\n"); repl != "" {
		out = append(out, strings.Split(repl, "\n")...)
	}
	out = append(out, lines[end:]...)
	return strings.Join(out, "\n"), nil
}

// ParseLineRange parses "5:10", "5:" or ":10". Zero means unspecified.
func ParseLineRange(s string) (start, end int, err error) {
	a, b, ok := strings.Cut(s, ":")
	if !ok || strings.Contains(b, ":") {
		return 0, 0, fmt.Errorf("%w: %q (expected start:end)", ErrInvalidLineRange, s)
	}
	if a == "" && b == "" {
		return 0, 0, fmt.Errorf("%w: %q (start or end required)", ErrInvalidLineRange, s)
	}
	if start, err = parseLine(a, "start"); err != nil {
		return 0, 0, err
	}
	if end, err = parseLine(b, "end"); err != nil {
		return 0, 0, err
	}
	if start > 0 && end > 0 && start > end {
		return 0, 0, fmt.Errorf("%w: start line %d is after end line %d", ErrInvalidLineRange, start, end)
	}
	return start, end, nil
}

func parseLine(s, name string) (int, error) {
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid %s line %q", ErrInvalidLineRange, name, s)
	}
	if n < 1 {
		return 0, fmt.Errorf("%w: %s line must be >= 1, got %d", ErrInvalidLineRange, name, n)
	}
	return n, nil
}
