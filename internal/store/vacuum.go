// vacuum.go holds maintenance: permanent deletion of soft-deleted items
// and WAL checkpoints.
//
// Vacuum is destructive and irreversible; soft delete is the safety net it
// removes. olderThan keeps recent deletions recoverable while clearing old
// ones.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Vacuum permanently removes soft-deleted item versions and their blocks.
// If olderThan is non-nil, only items deleted before that long ago are
// removed. Returns the number of item versions deleted.
func (s *SQLiteStore) Vacuum(ctx context.Context, olderThan *time.Duration) (int64, error) {
	where := `deleted_at IS NOT NULL`
	var args []any
	if olderThan != nil {
		where += ` AND deleted_at < ?`
		args = append(args, time.Now().Add(-*olderThan).Unix())
	}

	var n int64
	err := s.Tx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `DELETE FROM blocks WHERE item_id IN (SELECT id FROM items WHERE `+where+`)`, args...)
		if err != nil {
			return fmt.Errorf("vacuum blocks: %w", err)
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM items WHERE `+where, args...)
		if err != nil {
			return fmt.Errorf("vacuum items: %w", err)
		}
		n, _ = res.RowsAffected()
		return nil
	})
	if err != nil {
		return 0, err
	}
	return n, nil
}

// Checkpoint flushes the WAL into the main database file and truncates it,
// leaving no -wal or -shm file behind. Called when the store closes.
func (s *SQLiteStore) Checkpoint(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `PRAGMA wal_checkpoint(TRUNCATE)`); err != nil {
		return fmt.Errorf("WAL checkpoint: %w", err)
	}
	return nil
}
