// read.go implements item retrieval operations for the SQLite store.
//
// Reads work with the "latest version" concept: unless a version is named,
// the highest version of a key is returned. includeDeleted controls whether
// soft-deleted items are visible.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jpl-au/blockd/internal/content"
)

// Latest returns the highest version of the item with key.
func (s *SQLiteStore) Latest(ctx context.Context, key string, includeDeleted bool) (*content.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE key = ?`
	if !includeDeleted {
		query += ` AND deleted_at IS NULL`
	}
	query += ` ORDER BY version DESC LIMIT 1`

	return s.loadItem(ctx, s.db.QueryRowContext(ctx, query, key))
}

// Version returns a specific historical version. Deleted items are included
// so a past state can be examined regardless of current status.
func (s *SQLiteStore) Version(ctx context.Context, key string, version int) (*content.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE key = ? AND version = ?`
	return s.loadItem(ctx, s.db.QueryRowContext(ctx, query, key, version))
}

// List returns metadata for the latest version of every item matching opts,
// newest first.
func (s *SQLiteStore) List(ctx context.Context, opts ListOptions) ([]ItemMeta, error) {
	var b strings.Builder
	b.WriteString(`SELECT i.key, i.version, i.type, i.title, i.author, i.created_at, i.deleted_at,
			(SELECT COUNT(*) FROM blocks WHERE item_id = i.id)
		FROM items i
		INNER JOIN (
			SELECT key, MAX(version) AS max_version FROM items GROUP BY key
		) latest ON i.key = latest.key AND i.version = latest.max_version`)

	var conditions []string
	var args []any
	switch {
	case opts.DeletedOnly:
		conditions = append(conditions, `i.deleted_at IS NOT NULL`)
	case !opts.IncludeDeleted:
		conditions = append(conditions, `i.deleted_at IS NULL`)
	}
	if opts.Type != "" {
		conditions = append(conditions, `i.type = ?`)
		args = append(args, opts.Type)
	}
	if len(conditions) > 0 {
		b.WriteString(` WHERE `)
		b.WriteString(strings.Join(conditions, ` AND `))
	}
	b.WriteString(` ORDER BY i.created_at DESC, i.key`)

	rows, err := s.db.QueryContext(ctx, b.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	var metas []ItemMeta
	for rows.Next() {
		var m ItemMeta
		var del sql.NullInt64
		if err := rows.Scan(&m.Key, &m.Version, &m.Type, &m.Title, &m.Author, &m.CreatedAt, &del, &m.Blocks); err != nil {
			return nil, fmt.Errorf("scan item meta: %w", err)
		}
		if del.Valid {
			m.DeletedAt = &del.Int64
		}
		metas = append(metas, m)
	}
	return metas, rows.Err()
}

// History returns versions of an item newest first. A limit of 0 returns
// every version.
func (s *SQLiteStore) History(ctx context.Context, key string, limit int, includeDeleted bool) ([]content.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE key = ?`
	args := []any{key}

	if !includeDeleted {
		query += ` AND deleted_at IS NULL`
	}
	query += ` ORDER BY version DESC`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list history for %s: %w", key, err)
	}
	return s.loadItems(ctx, rows)
}

// Exists reports whether an active item has key.
func (s *SQLiteStore) Exists(ctx context.Context, key string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM items WHERE key = ? AND deleted_at IS NULL LIMIT 1`, key).Scan(&n)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check exists %s: %w", key, err)
	}
	return true, nil
}

// Count returns the number of distinct active items.
func (s *SQLiteStore) Count(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(DISTINCT key) FROM items WHERE deleted_at IS NULL`).Scan(&n)
	return n, err
}
