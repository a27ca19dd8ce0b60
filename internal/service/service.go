// Package service defines the shared interface for item operations.
// Commands and extensions depend on this interface rather than concrete
// implementations, enabling testing with mocks and future backend changes.
package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/jpl-au/blockd/internal/content"
	"github.com/jpl-au/blockd/internal/diff"
	"github.com/jpl-au/blockd/internal/pipeline"
	"github.com/jpl-au/blockd/internal/store"
	"github.com/jpl-au/blockd/internal/validate"
)

// Service defines all item operations.
//
// Use library.New() to obtain a Service implementation.
// Always call Close() when done (use defer).
//
// Example:
//
//	svc, err := library.New("")
//	if err != nil {
//	    return err
//	}
//	defer svc.Close()
//	it, res, err := svc.Create(ctx, raw, "alice", "first draft")
type Service interface {
	// Close releases database resources. Always defer this after New().
	Close() error

	// Validate runs the sanitize and validate pipeline without storing
	// anything. On success the result carries the sanitized data.
	Validate(raw content.Raw, mode validate.Mode) validate.Result

	// Details runs the pipeline and returns every intermediate value.
	Details(raw content.Raw, mode validate.Mode) pipeline.Details

	// Kinds lists the block kinds accepted by the pipeline.
	Kinds() []string

	// Limits returns the limits the pipeline enforces.
	Limits() validate.Limits

	// Create validates raw in create mode and stores it as version 1 of a
	// new item. Invalid content returns ErrInvalid together with the result
	// describing every violation; nothing is written.
	Create(ctx context.Context, raw content.Raw, author, message string) (*content.Item, validate.Result, error)

	// Update validates raw in update mode, applies it to the latest version
	// of key and stores the outcome as a new version.
	Update(ctx context.Context, key string, raw content.Raw, author, message string) (*content.Item, validate.Result, error)

	// Latest returns the most recent version of an item.
	// If includeDeleted is false, returns store.ErrNotFound for deleted items.
	Latest(ctx context.Context, key string, includeDeleted bool) (*content.Item, error)

	// Version returns a specific version of an item.
	Version(ctx context.Context, key string, version int) (*content.Item, error)

	// List returns the latest version of every item matching opts.
	List(ctx context.Context, opts store.ListOptions) ([]store.ItemMeta, error)

	// History returns versions of an item, newest first. limit <= 0 means all.
	History(ctx context.Context, key string, limit int, includeDeleted bool) ([]content.Item, error)

	// Exists reports whether a non-deleted item with key exists.
	Exists(ctx context.Context, key string) (bool, error)

	// Diff compares two versions of an item rendered as markdown.
	Diff(ctx context.Context, key string, from, to int) (diff.Result, error)

	// Delete soft-deletes every version of an item.
	Delete(ctx context.Context, key string) error

	// Restore undeletes an item.
	Restore(ctx context.Context, key string) error

	// Vacuum permanently removes items deleted longer than olderThan ago.
	// A nil olderThan removes every deleted item.
	Vacuum(ctx context.Context, olderThan *time.Duration) (int64, error)

	// Count returns the number of non-deleted items.
	Count(ctx context.Context) (int64, error)

	// Stats returns aggregate store statistics.
	Stats(ctx context.Context) (*store.Stats, error)

	// DB exposes the database for extensions needing custom tables.
	DB() *sql.DB

	// DBPath returns the path of the open database file.
	DBPath() string

	// Dir returns the .blockd directory holding the database.
	Dir() string

	// Tx runs fn in a transaction.
	Tx(ctx context.Context, fn func(tx *sql.Tx) error) error
}
