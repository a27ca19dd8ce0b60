// log_storage.go persists entries to a SQLite database shared by every
// project on the machine. Projects are identified by a blake2b hash of
// their .blockd path, never the path itself.

package log

import (
	"database/sql"
	_ "embed"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/crypto/blake2b"
	_ "modernc.org/sqlite"
)

//go:embed sql/001_log.sql
var schema string

const insertEntry = `INSERT INTO log (start, duration_ms, project, source, author, action,
	item, version, result_version, success, error, detail)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

// Logger writes audit entries to SQLite.
type Logger struct {
	db      *sql.DB
	insert  *sql.Stmt
	project string
}

func openLogger(path string) (*Logger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("log schema: %w", err)
	}
	stmt, err := db.Prepare(insertEntry)
	if err != nil {
		db.Close()
		return nil, err
	}
	return &Logger{db: db, insert: stmt}, nil
}

func (l *Logger) close() {
	l.insert.Close()
	l.db.Close()
}

// write stores e. Failures go to stderr: a command must not fail because
// it could not be audited.
func (l *Logger) write(e Entry) {
	var detail any
	if len(e.Detail) > 0 {
		if b, err := json.Marshal(e.Detail); err == nil {
			detail = string(b)
		}
	}
	_, err := l.insert.Exec(
		e.Start.UnixMilli(), e.Duration.Milliseconds(), l.project, e.Source,
		null(e.Author), e.Action, null(e.Item), null(e.Version), null(e.ResultVersion),
		e.Success, null(e.Error), detail,
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "blockd: audit log write failed: %v\n", err)
	}
}

// null maps the zero value to SQL NULL.
func null[T comparable](v T) any {
	var zero T
	if v == zero {
		return nil
	}
	return v
}

// dbPathFunc returns the database path. Tests override it.
var dbPathFunc = defaultDBPath

func defaultDBPath() string {
	base := ".blockd"
	if home, err := os.UserHomeDir(); err == nil {
		base = filepath.Join(home, ".blockd")
	}
	return filepath.Join(base, "log", "blockd-log.db")
}

// DBPath returns the path to the log database.
func DBPath() string {
	return dbPathFunc()
}

// hash returns a 16 hex character identifier for s.
func hash(s string) string {
	h, err := blake2b.New(8, nil)
	if err != nil {
		panic("blake2b: " + err.Error())
	}
	h.Write([]byte(s))
	return hex.EncodeToString(h.Sum(nil))
}
