// Package log records an audit trail of blockd operations. Every CLI
// command and MCP tool call writes one entry to ~/.blockd/log/blockd-log.db.
//
//	log.Event("item:create", "create").
//		Author(cmd.Author()).
//		Item(it.Key).
//		ResultVersion(it.Version).
//		Write(err)
//
// Sources are "{extension}:{command}" for the CLI and "mcp:{tool}" for the
// MCP server. Entries are also passed to slog at debug level.
package log

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

var (
	mu     sync.Mutex
	global *Logger
)

// Entry is one audited operation.
type Entry struct {
	Source string // e.g. "item:cat", "mcp:blockd_read"
	Author string
	Action string // read, create, update, delete, validate, ...

	Item          string // key the caller asked for
	Version       int    // version the caller asked for
	ResultVersion int    // version created or read

	Start    time.Time
	Duration time.Duration

	Success bool
	Error   string
	Detail  map[string]any
}

// Builder accumulates an Entry. Start one with Event and finish with Write.
type Builder struct {
	e Entry
}

// Event starts an entry for action performed by source.
func Event(source, action string) *Builder {
	return &Builder{e: Entry{Source: source, Action: action, Start: time.Now()}}
}

// Author sets who performed the operation. MCP tools use "mcp".
func (b *Builder) Author(author string) *Builder { b.e.Author = author; return b }

// Item sets the key the operation targets.
func (b *Builder) Item(key string) *Builder { b.e.Item = key; return b }

// Version sets the requested version.
func (b *Builder) Version(version int) *Builder { b.e.Version = version; return b }

// ResultVersion sets the version the operation produced or read.
func (b *Builder) ResultVersion(version int) *Builder { b.e.ResultVersion = version; return b }

// Detail attaches an operation-specific value, stored as JSON.
func (b *Builder) Detail(key string, value any) *Builder {
	if b.e.Detail == nil {
		b.e.Detail = map[string]any{}
	}
	b.e.Detail[key] = value
	return b
}

// Write finishes the entry; a nil err marks it successful.
func (b *Builder) Write(err error) {
	b.e.Duration = time.Since(b.e.Start)
	b.e.Success = err == nil
	if err != nil {
		b.e.Error = err.Error()
	}
	Log(b.e)
}

// Open opens the global logger. Calling it again is a no-op. Logging is
// best-effort, so callers may ignore the error.
func Open() error {
	mu.Lock()
	defer mu.Unlock()
	if global != nil {
		return nil
	}
	l, err := openLogger(DBPath())
	if err != nil {
		return err
	}
	global = l
	return nil
}

// SetProject tags subsequent entries with the .blockd directory dir.
func SetProject(dir string) {
	mu.Lock()
	defer mu.Unlock()
	if global != nil {
		global.project = hash(dir)
	}
}

// Log records e. Without an open logger only the slog record is emitted.
func Log(e Entry) {
	debug(e)

	mu.Lock()
	l := global
	mu.Unlock()
	if l != nil {
		l.write(e)
	}
}

func debug(e Entry) {
	ctx := context.Background()
	if !slog.Default().Enabled(ctx, slog.LevelDebug) {
		return
	}
	attrs := []slog.Attr{
		slog.String("source", e.Source),
		slog.String("action", e.Action),
		slog.Duration("took", e.Duration),
	}
	if e.Item != "" {
		attrs = append(attrs, slog.String("item", e.Item))
	}
	if e.Error != "" {
		attrs = append(attrs, slog.String("error", e.Error))
	}
	slog.LogAttrs(ctx, slog.LevelDebug, "audit", attrs...)
}

// Close closes the global logger.
func Close() {
	mu.Lock()
	defer mu.Unlock()
	if global != nil {
		global.close()
		global = nil
	}
}
