// sqlite_ops.go provides SQLite connection management and low-level operations.
//
// Separated to isolate SQLite-specific concerns (pragmas, driver registration,
// row scanning) from item logic. This is the only file that imports the
// SQLite driver.
//
// WAL mode lets the MCP server read while the CLI writes; the busy timeout
// avoids "database is locked" errors without waiting on a stuck connection.

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jpl-au/blockd/internal/content"

	// Register sqlite driver
	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store using SQLite with WAL mode.
type SQLiteStore struct {
	db *sql.DB
}

var _ Store = (*SQLiteStore)(nil)

// Open opens the SQLite database file at path. The caller should call Close
// on the returned store.
func Open(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", path, err)
	}

	pragmas := []struct{ stmt, what string }{
		{`PRAGMA journal_mode=WAL`, "setting WAL mode"},
		{`PRAGMA busy_timeout=5000`, "setting busy timeout"},
		// NORMAL is safe against corruption under WAL; only the last
		// transaction can be lost on an OS crash.
		{`PRAGMA synchronous=NORMAL`, "setting synchronous mode"},
		{`PRAGMA foreign_keys=ON`, "enabling foreign keys"},
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p.stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("%s: %w", p.what, err)
		}
	}

	return &SQLiteStore{db: db}, nil
}

// Init creates tables and indexes if they don't exist. Safe to call multiple
// times.
func (s *SQLiteStore) Init() error {
	return ExecEmbedded(s.db, schemas, "sql")
}

// Close releases the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// DB exposes the underlying connection for extensions that need custom tables.
// Extensions should not modify core tables directly.
func (s *SQLiteStore) DB() *sql.DB {
	return s.db
}

// itemColumns is the column list every item query selects, in scan order.
const itemColumns = `id, key, version, type, title, summary, author, message, created_at, deleted_at`

// scanner abstracts sql.Row and sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// querier is satisfied by *sql.DB and *sql.Tx.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// scanItem extracts an Item row (without blocks), handling nullable fields.
func scanItem(sc scanner) (content.Item, error) {
	var it content.Item
	var msg sql.NullString
	var del sql.NullInt64

	err := sc.Scan(&it.ID, &it.Key, &it.Version, &it.Type, &it.Title, &it.Summary,
		&it.Author, &msg, &it.CreatedAt, &del)
	if err != nil {
		return it, err
	}
	if msg.Valid {
		it.Message = msg.String
	}
	if del.Valid {
		it.DeletedAt = &del.Int64
	}
	return it, nil
}

// loadItem scans a single row and attaches its blocks. sql.ErrNoRows
// becomes ErrNotFound.
func (s *SQLiteStore) loadItem(ctx context.Context, row *sql.Row) (*content.Item, error) {
	it, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan item: %w", err)
	}
	items := []content.Item{it}
	if err := loadBlocks(ctx, s.db, items); err != nil {
		return nil, err
	}
	return &items[0], nil
}

// loadItems collects item rows and attaches their blocks.
func (s *SQLiteStore) loadItems(ctx context.Context, rows *sql.Rows) ([]content.Item, error) {
	var items []content.Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	if err := loadBlocks(ctx, s.db, items); err != nil {
		return nil, err
	}
	return items, nil
}

// loadBlocks fills the Blocks of every item in one query.
func loadBlocks(ctx context.Context, q querier, items []content.Item) error {
	if len(items) == 0 {
		return nil
	}

	byID := make(map[int64]int, len(items))
	args := make([]any, len(items))
	for i := range items {
		byID[items[i].ID] = i
		args[i] = items[i].ID
		items[i].Blocks = []content.Block{}
	}

	query := `SELECT item_id, payload FROM blocks WHERE item_id IN (?` +
		strings.Repeat(",?", len(items)-1) + `) ORDER BY item_id, position`
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("load blocks: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id int64
		var payload string
		if err := rows.Scan(&id, &payload); err != nil {
			return fmt.Errorf("scan block: %w", err)
		}
		var b content.Block
		if err := json.Unmarshal([]byte(payload), &b); err != nil {
			return fmt.Errorf("decode block of item %d: %w", id, err)
		}
		i := byID[id]
		items[i].Blocks = append(items[i].Blocks, b)
	}
	return rows.Err()
}

// Tx executes fn within a database transaction. fn returning an error rolls
// back; returning nil commits. Context cancellation aborts the transaction
// at the next database call.
//
//	err := s.Tx(ctx, func(tx *sql.Tx) error {
//	    if _, err := tx.ExecContext(ctx, `UPDATE ...`); err != nil {
//	        return err  // triggers rollback
//	    }
//	    return nil  // triggers commit
//	})
func (s *SQLiteStore) Tx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }() // no-op after commit

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
