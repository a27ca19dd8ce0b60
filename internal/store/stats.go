// stats.go implements aggregate queries for operational visibility.
//
// None of these load block payloads; they use COUNT and MIN/MAX directly.

package store

import (
	"context"
	"database/sql"
	"fmt"
)

// Stats returns aggregate database statistics.
func (s *SQLiteStore) Stats(ctx context.Context) (*Stats, error) {
	st := &Stats{BlocksByKind: make(map[string]int64)}

	var oldest, newest, oldestDel sql.NullInt64
	err := s.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(DISTINCT key) FROM items WHERE deleted_at IS NULL),
			(SELECT COUNT(DISTINCT key) FROM items WHERE deleted_at IS NOT NULL),
			(SELECT COUNT(*) FROM items),
			(SELECT COUNT(*) FROM blocks),
			(SELECT COUNT(DISTINCT author) FROM items),
			(SELECT MIN(created_at) FROM items),
			(SELECT MAX(created_at) FROM items),
			(SELECT MIN(deleted_at) FROM items WHERE deleted_at IS NOT NULL)
	`).Scan(&st.Items, &st.DeletedItems, &st.TotalVersions, &st.Blocks, &st.Authors,
		&oldest, &newest, &oldestDel)
	if err != nil {
		return nil, fmt.Errorf("stats: %w", err)
	}
	st.OldestItem = oldest.Int64
	st.NewestItem = newest.Int64
	st.OldestDeletedAt = oldestDel.Int64

	rows, err := s.db.QueryContext(ctx, `SELECT kind, COUNT(*) FROM blocks GROUP BY kind`)
	if err != nil {
		return nil, fmt.Errorf("stats by kind: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var kind string
		var n int64
		if err := rows.Scan(&kind, &n); err != nil {
			return nil, fmt.Errorf("scan kind stats: %w", err)
		}
		st.BlocksByKind[kind] = n
	}
	return st, rows.Err()
}
