// write.go implements item creation and modification operations.
//
// Writes never update in place: every write appends a version row and its
// block rows in one transaction. The version number is computed as
// MAX(version)+1 inside that transaction so concurrent writers cannot
// collide.

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jpl-au/blockd/internal/content"
)

// Write stores it as a new version. See Writer.Write.
func (s *SQLiteStore) Write(ctx context.Context, it *content.Item, opts WriteOptions) (*content.Item, error) {
	if len(it.Blocks) == 0 {
		return nil, ErrNoBlocks
	}

	out := *it
	out.Author = opts.Author
	out.Message = opts.Message
	out.CreatedAt = time.Now().Unix()
	out.DeletedAt = nil
	if out.Key == "" {
		out.Key = uuid.NewString()
	}

	err := s.Tx(ctx, func(tx *sql.Tx) error {
		var maxVer int
		err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(version), 0) FROM items WHERE key = ?`, out.Key).Scan(&maxVer)
		if err != nil {
			return fmt.Errorf("get max version: %w", err)
		}
		if it.Key != "" && maxVer == 0 {
			return ErrNotFound
		}
		out.Version = maxVer + 1

		res, err := tx.ExecContext(ctx, `INSERT INTO items (key, version, type, title, summary, author, message, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			out.Key, out.Version, out.Type, out.Title, out.Summary, out.Author, out.Message, out.CreatedAt)
		if err != nil {
			return fmt.Errorf("insert item: %w", err)
		}
		if out.ID, err = res.LastInsertId(); err != nil {
			return fmt.Errorf("insert item: %w", err)
		}

		for i, b := range out.Blocks {
			payload, err := json.Marshal(b)
			if err != nil {
				return fmt.Errorf("encode block %d: %w", i, err)
			}
			_, err = tx.ExecContext(ctx, `INSERT INTO blocks (item_id, position, kind, payload) VALUES (?, ?, ?, ?)`,
				out.ID, i, b.Kind(), string(payload))
			if err != nil {
				return fmt.Errorf("insert block %d: %w", i, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete soft-deletes every version of an item. Returns ErrNotFound if the
// item doesn't exist or is already deleted.
func (s *SQLiteStore) Delete(ctx context.Context, key string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE items SET deleted_at = ? WHERE key = ? AND deleted_at IS NULL`,
		time.Now().Unix(), key)
	return affected(res, err, "delete "+key)
}

// Restore un-deletes a soft-deleted item. Returns ErrNotFound if there is
// nothing to restore.
func (s *SQLiteStore) Restore(ctx context.Context, key string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE items SET deleted_at = NULL WHERE key = ? AND deleted_at IS NOT NULL`, key)
	return affected(res, err, "restore "+key)
}

// affected turns an update that touched no rows into ErrNotFound.
func affected(res sql.Result, err error, op string) error {
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}
