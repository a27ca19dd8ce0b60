// Package repo provides repository initialisation and discovery for blockd.
//
// A blockd repository is a .blockd directory holding one or more SQLite item
// stores (blockd.db, blockd-drafts.db, ...) and an optional local config.
// Discovery walks up from the working directory the way git finds .git, and
// .blockd/.gitignore controls which stores are committed.
package repo

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jpl-au/blockd/internal/store"
)

const (
	// Dir is the directory name for the blockd repository.
	Dir = ".blockd"
	// DBFile is the default database filename.
	DBFile = "blockd.db"
	// dbPrefix starts the filename of every named database.
	dbPrefix = "blockd-"
)

// DBFileName returns the database filename for a given name.
// Empty name returns the default "blockd.db".
// A name like "drafts" returns "blockd-drafts.db".
// A name already ending in ".db" is returned as-is.
func DBFileName(name string) string {
	if name == "" {
		return DBFile
	}
	if strings.HasSuffix(name, ".db") {
		return name
	}
	return dbPrefix + name + ".db"
}

// ErrNotInitialised is returned when no blockd repository is found.
var ErrNotInitialised = errors.New("blockd not initialised (run 'blockd init')")

// Init creates .blockd/ under dir (default ".") and an empty item store.
// It does not write config; settings are managed by "blockd config".
// With local set the store is added to .blockd/.gitignore.
func Init(force bool, db string, local bool, dir string) error {
	if dir == "" {
		dir = "."
	}
	blockdDir := filepath.Join(dir, Dir)
	dbPath := filepath.Join(blockdDir, DBFileName(db))

	if _, err := os.Stat(dbPath); err == nil {
		if !force {
			return fmt.Errorf("database %s already exists (use --force to reinitialise)", DBFileName(db))
		}
		if err := os.Remove(dbPath); err != nil {
			return fmt.Errorf("remove database: %w", err)
		}
	}

	if err := os.MkdirAll(blockdDir, 0755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	s, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer s.Close()

	if err := s.Init(); err != nil {
		return fmt.Errorf("init store: %w", err)
	}

	// Written once; later inits for other databases keep its local entries.
	gitignore := filepath.Join(blockdDir, ".gitignore")
	if _, err := os.Stat(gitignore); os.IsNotExist(err) {
		s := `# blockd - item stores (*.db) are committed, local config is not
config.yaml
*.db-wal
*.db-shm
`
		if err := os.WriteFile(gitignore, []byte(s), 0644); err != nil {
			return fmt.Errorf("write gitignore: %w", err)
		}
	}

	if local {
		if err := IgnoreDB(db, blockdDir); err != nil {
			return fmt.Errorf("ignore database: %w", err)
		}
	}

	return nil
}

// Discover returns the path of store db in the nearest .blockd directory at
// or above the working directory.
func Discover(db string) (string, error) {
	dbFile := DBFileName(db)
	return walkUp(func(dir string) (string, bool) {
		p := filepath.Join(dir, Dir, dbFile)
		_, err := os.Stat(p)
		return p, err == nil
	})
}

// DiscoverDir returns the nearest .blockd directory at or above the working
// directory.
func DiscoverDir() (string, error) {
	return walkUp(func(dir string) (string, bool) {
		p := filepath.Join(dir, Dir)
		info, err := os.Stat(p)
		return p, err == nil && info.IsDir()
	})
}

// walkUp calls match on the working directory and each parent until it
// reports a hit, the way git finds .git.
func walkUp(match func(dir string) (string, bool)) (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory: %w", err)
	}
	for {
		if p, ok := match(dir); ok {
			return p, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrNotInitialised
		}
		dir = parent
	}
}

// DBInfo holds database metadata.
type DBInfo struct {
	Name  string `json:"name,omitempty"` // Short name (empty for default, "drafts" for blockd-drafts.db)
	File  string `json:"file"`           // Filename (blockd.db, blockd-drafts.db)
	Path  string `json:"path"`           // Full path
	Local bool   `json:"local"`          // True if gitignored
}

// ListDBs returns all databases in the .blockd directory with their status.
// If dir is empty, the directory is discovered from the working directory.
func ListDBs(dir string) ([]DBInfo, error) {
	if dir == "" {
		var err error
		dir, err = DiscoverDir()
		if err != nil {
			return nil, fmt.Errorf("discover .blockd directory: %w", err)
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read .blockd directory: %w", err)
	}
	// An unreadable .gitignore lists every store as shared.
	ignore, _ := loadIgnore(dir)

	var dbs []DBInfo
	for _, e := range entries {
		if !strings.HasSuffix(e.Name(), ".db") {
			continue
		}

		var name string
		switch {
		case e.Name() == DBFile:
		case strings.HasPrefix(e.Name(), dbPrefix):
			name = strings.TrimSuffix(strings.TrimPrefix(e.Name(), dbPrefix), ".db")
		default:
			continue
		}

		dbs = append(dbs, DBInfo{
			Name:  name,
			File:  e.Name(),
			Path:  filepath.Join(dir, e.Name()),
			Local: ignore != nil && ignore.has(e.Name()),
		})
	}

	return dbs, nil
}
