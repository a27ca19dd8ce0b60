// Package find provides FTS5 full-text search over stored items.
//
// The index holds one row per item key with the title, summary and block
// sources of its latest version. It is kept current from write events and
// can be rebuilt from the store at any time. Deleted items stay indexed;
// visibility follows the same rules as listing.
//
// Queries are passed to FTS5 unchanged, so its syntax applies: prefix
// matching (word*), AND/OR/NOT and "quoted phrases".
package find

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io"
	"strings"

	"github.com/jpl-au/blockd/internal/content"
	"github.com/jpl-au/blockd/internal/format"
	"github.com/jpl-au/blockd/internal/service"
	"github.com/jpl-au/blockd/internal/store"
)

//go:embed sql/*.sql
var schemas embed.FS

// Migrate creates the search index if it does not exist.
func Migrate(db *sql.DB) error {
	return store.ExecEmbedded(db, schemas, "sql")
}

// Options configures a search operation.
type Options struct {
	Type           string // Only items of this content type
	IncludeDeleted bool   // Include deleted items
	DeletedOnly    bool   // Search only deleted items
	KeysOnly       bool   // Only output keys
	Limit          int    // Maximum results, 0 for all
}

// Result contains the outcome of a search operation, best match first.
type Result struct {
	Items []store.ItemMeta
}

// Body joins the block sources of an item into the indexed text.
func Body(it *content.Item) string {
	parts := make([]string, 0, len(it.Blocks))
	for _, b := range it.Blocks {
		if src, ok := b.String(content.BlockSource); ok && src != "" {
			parts = append(parts, src)
		}
	}
	return strings.Join(parts, "\n\n")
}

// Index replaces the index row for it.
func Index(ctx context.Context, db *sql.DB, it *content.Item) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM item_search WHERE item_key = ?`, it.Key); err != nil {
		return fmt.Errorf("unindex %s: %w", it.Key, err)
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO item_search (item_key, title, summary, body) VALUES (?, ?, ?, ?)`,
		it.Key, it.Title, it.Summary, Body(it))
	if err != nil {
		return fmt.Errorf("index %s: %w", it.Key, err)
	}
	return tx.Commit()
}

// Reindex rebuilds the whole index from the latest version of every item,
// deleted ones included. Returns the number of items indexed.
func Reindex(ctx context.Context, svc service.Service) (int, error) {
	metas, err := svc.List(ctx, store.ListOptions{IncludeDeleted: true})
	if err != nil {
		return 0, err
	}
	if _, err := svc.DB().ExecContext(ctx, `DELETE FROM item_search`); err != nil {
		return 0, fmt.Errorf("clear index: %w", err)
	}
	for i, m := range metas {
		it, err := svc.Latest(ctx, m.Key, true)
		if err != nil {
			return i, err
		}
		if err := Index(ctx, svc.DB(), it); err != nil {
			return i, err
		}
	}
	return len(metas), nil
}

// Purge removes index rows whose item has been vacuumed.
func Purge(ctx context.Context, db *sql.DB) (int64, error) {
	res, err := db.ExecContext(ctx, `DELETE FROM item_search WHERE item_key NOT IN (SELECT key FROM items)`)
	if err != nil {
		return 0, fmt.Errorf("purge index: %w", err)
	}
	return res.RowsAffected()
}

// Search returns the items matching query, best match first.
func Search(ctx context.Context, svc service.Service, query string, opts Options) ([]store.ItemMeta, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("empty query")
	}

	rows, err := svc.DB().QueryContext(ctx,
		`SELECT item_key FROM item_search WHERE item_search MATCH ? ORDER BY rank`, query)
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", query, err)
	}
	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			rows.Close()
			return nil, err
		}
		keys = append(keys, k)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(keys) == 0 {
		return nil, nil
	}

	metas, err := svc.List(ctx, store.ListOptions{
		Type:           opts.Type,
		IncludeDeleted: opts.IncludeDeleted,
		DeletedOnly:    opts.DeletedOnly,
	})
	if err != nil {
		return nil, err
	}
	byKey := make(map[string]store.ItemMeta, len(metas))
	for _, m := range metas {
		byKey[m.Key] = m
	}

	var out []store.ItemMeta
	for _, k := range keys {
		m, ok := byKey[k]
		if !ok {
			continue
		}
		out = append(out, m)
		if opts.Limit > 0 && len(out) == opts.Limit {
			break
		}
	}
	return out, nil
}

// Run searches items and writes output to w.
func Run(ctx context.Context, w io.Writer, svc service.Service, query string, opts Options) (Result, error) {
	var result Result

	metas, err := Search(ctx, svc, query, opts)
	if err != nil {
		return result, err
	}
	result.Items = metas

	if opts.KeysOnly {
		for _, m := range metas {
			fmt.Fprintln(w, m.Key)
		}
		return result, nil
	}
	return result, format.List(w, metas)
}
