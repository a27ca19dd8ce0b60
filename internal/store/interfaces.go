// interfaces.go defines the storage abstraction for item persistence.
//
// The interfaces are granular (Reader, Writer, Maintainer) so consumers only
// depend on the capabilities they use. Deletes are soft: an item is marked
// deleted and stays recoverable until Vacuum purges it.

package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/jpl-au/blockd/internal/content"
)

// Reader defines read-only operations for retrieving items.
type Reader interface {
	// Latest retrieves the current version of an item. Use includeDeleted
	// to reach soft-deleted items.
	Latest(ctx context.Context, key string, includeDeleted bool) (*content.Item, error)

	// Version retrieves a specific historical version.
	Version(ctx context.Context, key string, version int) (*content.Item, error)

	// List returns metadata for the latest version of every matching item.
	List(ctx context.Context, opts ListOptions) ([]ItemMeta, error)

	// History returns versions newest first. A limit of 0 means all.
	History(ctx context.Context, key string, limit int, includeDeleted bool) ([]content.Item, error)

	// Exists reports whether an active item has the key.
	Exists(ctx context.Context, key string) (bool, error)

	// Count returns the number of active items.
	Count(ctx context.Context) (int64, error)

	// Stats returns aggregate database statistics.
	Stats(ctx context.Context) (*Stats, error)
}

// Writer defines operations that modify items.
type Writer interface {
	// Write stores it as a new version. An empty key creates a new item at
	// version 1; an existing key appends the next version. The stored item,
	// with key, version and timestamps set, is returned.
	Write(ctx context.Context, it *content.Item, opts WriteOptions) (*content.Item, error)

	// Delete marks every version of an item deleted.
	Delete(ctx context.Context, key string) error

	// Restore clears the deletion mark of an item.
	Restore(ctx context.Context, key string) error
}

// Maintainer defines database maintenance and lifecycle operations.
type Maintainer interface {
	// Close releases the database connection.
	Close() error

	// DB exposes the underlying connection for extensions needing custom tables.
	DB() *sql.DB

	// Checkpoint flushes WAL to the main database file.
	Checkpoint(ctx context.Context) error

	// Vacuum permanently removes soft-deleted items.
	Vacuum(ctx context.Context, olderThan *time.Duration) (int64, error)
}

// Store defines the persistence interface for items.
type Store interface {
	Reader
	Writer
	Maintainer
}
