// schema.go applies embedded SQL files. Core tables live in sql/; extensions
// with their own tables embed a directory of their own and pass it to
// ExecEmbedded from Init. Files run in name order and must be safe to re-run
// (IF NOT EXISTS everywhere).

package store

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
)

//go:embed sql/*.sql
var schemas embed.FS

var (
	// ErrNotFound indicates the requested item or version does not exist.
	ErrNotFound = errors.New("item not found")
	// ErrNoBlocks is returned when writing an item without blocks.
	ErrNoBlocks = errors.New("item has no blocks")
)

// ExecEmbedded runs every .sql file in dir of fsys, in name order.
func ExecEmbedded(db *sql.DB, fsys fs.FS, dir string) error {
	files, err := fs.Glob(fsys, path.Join(dir, "*.sql"))
	if err != nil {
		return fmt.Errorf("list schema files: %w", err)
	}
	if len(files) == 0 {
		return fmt.Errorf("no schema files in %s", dir)
	}
	for _, f := range files {
		data, err := fs.ReadFile(fsys, f)
		if err != nil {
			return fmt.Errorf("read %s: %w", f, err)
		}
		if _, err := db.Exec(string(data)); err != nil {
			return fmt.Errorf("exec %s: %w", path.Base(f), err)
		}
	}
	return nil
}
