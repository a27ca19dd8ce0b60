// Package revert rolls an item back by storing an old version's content as
// a new version. History only moves forward, so a revert can itself be
// reverted.
package revert

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/jpl-au/blockd/internal/content"
	"github.com/jpl-au/blockd/internal/library"
	"github.com/jpl-au/blockd/internal/validate"
)

// ErrDeleted is returned when reverting a soft-deleted item.
var ErrDeleted = errors.New("item is deleted")

// Service is the subset of the item service a revert needs.
type Service interface {
	Latest(ctx context.Context, key string, includeDeleted bool) (*content.Item, error)
	Version(ctx context.Context, key string, version int) (*content.Item, error)
	Update(ctx context.Context, key string, raw content.Raw, author, message string) (*content.Item, validate.Result, error)
}

// Options configures a revert.
type Options struct {
	Author  string
	Message string // Defaults to "Revert to vN"
}

// Result contains the outcome of a revert.
type Result struct {
	Key        string `json:"key"`
	RevertedTo int    `json:"reverted_to"`
	NewVersion int    `json:"new_version"`
	Unchanged  bool   `json:"unchanged,omitempty"`
	Message    string `json:"message"`
}

// Run stores version of key as its newest version. The old content goes
// through the current pipeline, so limits tightened since it was written
// can reject it. A blank summary cannot be sent as an update, so a summary
// added after the target version is kept.
func Run(ctx context.Context, w io.Writer, svc Service, key string, version int, opts Options) (Result, validate.Result, error) {
	result := Result{Key: key, RevertedTo: version, Message: opts.Message}
	if result.Message == "" {
		result.Message = fmt.Sprintf("Revert to v%d", version)
	}

	old, err := svc.Version(ctx, key, version)
	if err != nil {
		return result, validate.Result{}, fmt.Errorf("version %d of %s: %w", version, key, err)
	}

	current, err := svc.Latest(ctx, key, true)
	if err != nil {
		return result, validate.Result{}, err
	}
	if current.DeletedAt != nil {
		return result, validate.Result{}, fmt.Errorf("%w: %s (use 'blockd restore %s' first)", ErrDeleted, key, key)
	}

	it, res, err := svc.Update(ctx, key, content.Raw(old.Data()), opts.Author, result.Message)
	if it != nil {
		result.NewVersion = it.Version
	}
	if errors.Is(err, library.ErrUnchanged) {
		result.Unchanged = true
		fmt.Fprintf(w, "%s already matches v%d\n", key, version)
		return result, res, nil
	}
	if err != nil {
		return result, res, err
	}

	fmt.Fprintf(w, "Reverted %s to v%d (now v%d)\n", key, version, result.NewVersion)
	return result, res, nil
}
