// Package tag provides item tagging for the CLI and MCP layers.
//
// Tags are free-form labels keyed by item key, stored in a table the tag
// extension owns. They apply to the item as a whole rather than to a single
// version, and stay attached through soft delete so a restore brings them
// back. Vacuum drops tags whose item no longer exists.

package tag

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/jpl-au/blockd/internal/service"
	"github.com/jpl-au/blockd/internal/store"
)

//go:embed sql/*.sql
var schemas embed.FS

// MaxLength is the longest tag accepted, in bytes.
const MaxLength = 64

var (
	// ErrInvalidTag is returned for tags that are empty, too long or use
	// characters outside [a-z0-9._-].
	ErrInvalidTag = errors.New("invalid tag")
	// ErrNotTagged is returned when removing a tag the item does not carry.
	ErrNotTagged = errors.New("tag not set")
)

var tagPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9._-]*$`)

// Migrate creates the tag table if it does not exist.
func Migrate(db *sql.DB) error {
	return store.ExecEmbedded(db, schemas, "sql")
}

// Normalise lowercases and trims a tag, then checks it is well formed.
func Normalise(tag string) (string, error) {
	t := strings.ToLower(strings.TrimSpace(tag))
	if t == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidTag)
	}
	if len(t) > MaxLength {
		return "", fmt.Errorf("%w: %q is longer than %d characters", ErrInvalidTag, t, MaxLength)
	}
	if !tagPattern.MatchString(t) {
		return "", fmt.Errorf("%w: %q (use letters, digits, '.', '_' or '-')", ErrInvalidTag, t)
	}
	return t, nil
}

// Result contains the outcome of a tag operation.
type Result struct {
	Key    string   `json:"key,omitempty"`
	Tag    string   `json:"tag,omitempty"`
	Action string   `json:"action,omitempty"`
	Tags   []string `json:"tags"`
}

// Add tags the item with key. Adding a tag the item already has is a no-op.
// Deleted items can be tagged.
func Add(ctx context.Context, w io.Writer, svc service.Service, key, tag string) (Result, error) {
	result := Result{Key: key, Tag: tag, Action: "add"}

	t, err := Normalise(tag)
	if err != nil {
		return result, err
	}
	result.Tag = t

	if _, err := svc.Latest(ctx, key, true); err != nil {
		return result, err
	}

	_, err = svc.DB().ExecContext(ctx,
		`INSERT OR IGNORE INTO item_tags (key, tag, created_at) VALUES (?, ?, ?)`,
		key, t, time.Now().Unix())
	if err != nil {
		return result, fmt.Errorf("add tag: %w", err)
	}

	if result.Tags, err = ForKey(ctx, svc.DB(), key); err != nil {
		return result, err
	}

	fmt.Fprintf(w, "Added tag %q to %s\n", t, key)
	return result, nil
}

// Remove removes a tag from the item with key.
func Remove(ctx context.Context, w io.Writer, svc service.Service, key, tag string) (Result, error) {
	result := Result{Key: key, Tag: tag, Action: "remove"}

	t, err := Normalise(tag)
	if err != nil {
		return result, err
	}
	result.Tag = t

	res, err := svc.DB().ExecContext(ctx, `DELETE FROM item_tags WHERE key = ? AND tag = ?`, key, t)
	if err != nil {
		return result, fmt.Errorf("remove tag: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return result, fmt.Errorf("%w: %s has no tag %q", ErrNotTagged, key, t)
	}

	if result.Tags, err = ForKey(ctx, svc.DB(), key); err != nil {
		return result, err
	}

	fmt.Fprintf(w, "Removed tag %q from %s\n", t, key)
	return result, nil
}

// List writes the tags of the item with key, or every tag in use when key
// is empty.
func List(ctx context.Context, w io.Writer, svc service.Service, key string) (Result, error) {
	result := Result{Key: key}

	var tags []string
	var err error
	if key != "" {
		if _, err := svc.Latest(ctx, key, true); err != nil {
			return result, err
		}
		tags, err = ForKey(ctx, svc.DB(), key)
	} else {
		tags, err = All(ctx, svc.DB())
	}
	if err != nil {
		return result, err
	}
	result.Tags = tags

	for _, t := range tags {
		fmt.Fprintln(w, t)
	}
	return result, nil
}

// Items returns the latest version of every item carrying tag, filtered by
// opts like service.List.
func Items(ctx context.Context, svc service.Service, tag string, opts store.ListOptions) ([]store.ItemMeta, error) {
	t, err := Normalise(tag)
	if err != nil {
		return nil, err
	}
	keys, err := Keys(ctx, svc.DB(), t)
	if err != nil {
		return nil, err
	}
	if len(keys) == 0 {
		return nil, nil
	}

	tagged := make(map[string]bool, len(keys))
	for _, k := range keys {
		tagged[k] = true
	}

	metas, err := svc.List(ctx, opts)
	if err != nil {
		return nil, err
	}
	out := metas[:0]
	for _, m := range metas {
		if tagged[m.Key] {
			out = append(out, m)
		}
	}
	return out, nil
}

// ForKey returns the tags of one item, sorted.
func ForKey(ctx context.Context, db *sql.DB, key string) ([]string, error) {
	return queryStrings(ctx, db, `SELECT tag FROM item_tags WHERE key = ? ORDER BY tag`, key)
}

// All returns every distinct tag, sorted.
func All(ctx context.Context, db *sql.DB) ([]string, error) {
	return queryStrings(ctx, db, `SELECT DISTINCT tag FROM item_tags ORDER BY tag`)
}

// Keys returns the keys of every item carrying tag.
func Keys(ctx context.Context, db *sql.DB, tag string) ([]string, error) {
	return queryStrings(ctx, db, `SELECT key FROM item_tags WHERE tag = ? ORDER BY key`, tag)
}

// Purge removes tags whose item has been vacuumed. Returns the number of
// rows removed.
func Purge(ctx context.Context, db *sql.DB) (int64, error) {
	res, err := db.ExecContext(ctx, `DELETE FROM item_tags WHERE key NOT IN (SELECT key FROM items)`)
	if err != nil {
		return 0, fmt.Errorf("purge tags: %w", err)
	}
	return res.RowsAffected()
}

func queryStrings(ctx context.Context, db *sql.DB, query string, args ...any) ([]string, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query tags: %w", err)
	}
	defer rows.Close()

	out := []string{}
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
