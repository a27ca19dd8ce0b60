// read.go implements item retrieval and comparison.

package library

import (
	"context"
	"fmt"

	"github.com/jpl-au/blockd/internal/content"
	"github.com/jpl-au/blockd/internal/diff"
	"github.com/jpl-au/blockd/internal/render"
	"github.com/jpl-au/blockd/internal/store"
)

// Latest returns the most recent version of an item.
func (s *Service) Latest(ctx context.Context, key string, includeDeleted bool) (*content.Item, error) {
	return s.store.Latest(ctx, key, includeDeleted)
}

// Version returns a specific version of an item.
func (s *Service) Version(ctx context.Context, key string, version int) (*content.Item, error) {
	return s.store.Version(ctx, key, version)
}

// List returns the latest version of every item matching opts.
func (s *Service) List(ctx context.Context, opts store.ListOptions) ([]store.ItemMeta, error) {
	return s.store.List(ctx, opts)
}

// History returns versions of an item, newest first.
func (s *Service) History(ctx context.Context, key string, limit int, includeDeleted bool) ([]content.Item, error) {
	return s.store.History(ctx, key, limit, includeDeleted)
}

// Exists reports whether a non-deleted item with key exists.
func (s *Service) Exists(ctx context.Context, key string) (bool, error) {
	return s.store.Exists(ctx, key)
}

// Count returns the number of non-deleted items.
func (s *Service) Count(ctx context.Context) (int64, error) {
	return s.store.Count(ctx)
}

// Stats returns aggregate store statistics.
func (s *Service) Stats(ctx context.Context) (*store.Stats, error) {
	return s.store.Stats(ctx)
}

// Diff compares versions from and to of key, both rendered as markdown.
// A zero to compares against the latest version.
func (s *Service) Diff(ctx context.Context, key string, from, to int) (diff.Result, error) {
	a, err := s.store.Version(ctx, key, from)
	if err != nil {
		return diff.Result{}, fmt.Errorf("diff %q v%d: %w", key, from, err)
	}

	var b *content.Item
	if to == 0 {
		b, err = s.store.Latest(ctx, key, true)
	} else {
		b, err = s.store.Version(ctx, key, to)
	}
	if err != nil {
		return diff.Result{}, fmt.Errorf("diff %q v%d: %w", key, to, err)
	}

	return diff.Compute(
		render.Markdown(a),
		render.Markdown(b),
		fmt.Sprintf("%s v%d", key, a.Version),
		fmt.Sprintf("%s v%d", key, b.Version),
	), nil
}
