// Package library provides item operations backed by the SQLite store. Its
// Service composes the configured block strategies, the sanitize and
// validate pipeline and the store, so that only content that passed the
// pipeline is ever written.
package library

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"

	"github.com/jpl-au/blockd/extension"
	"github.com/jpl-au/blockd/internal/block"
	"github.com/jpl-au/blockd/internal/config"
	"github.com/jpl-au/blockd/internal/content"
	"github.com/jpl-au/blockd/internal/log"
	"github.com/jpl-au/blockd/internal/pipeline"
	"github.com/jpl-au/blockd/internal/repo"
	"github.com/jpl-au/blockd/internal/sanitize"
	"github.com/jpl-au/blockd/internal/service"
	"github.com/jpl-au/blockd/internal/store"
	"github.com/jpl-au/blockd/internal/validate"
)

// DefaultAuthor is recorded when a write has no author.
const DefaultAuthor = "unknown"

var _ service.Service = (*Service)(nil)

// Service provides item operations backed by a Store.
type Service struct {
	store    *store.SQLiteStore
	dbPath   string
	dir      string
	limits   validate.Limits
	pipeline *pipeline.Service
	extCtx   extension.Context // for firing events to extensions
}

// New creates a Service, discovering the database by walking up the
// directory tree. The db parameter names the database (empty for default).
// Returns repo.ErrNotInitialised if no matching database is found.
func New(db string) (*Service, error) {
	dbPath, err := repo.Discover(db)
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return Open(dbPath, cfg)
}

// NewInDir creates a Service for the database db inside an explicit .blockd
// directory, skipping discovery.
func NewInDir(dir, db string) (*Service, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return Open(filepath.Join(dir, repo.DBFileName(db)), cfg)
}

// Open creates a Service for the database at dbPath using the limits in cfg.
// The database must already be initialised.
func Open(dbPath string, cfg *config.Config) (*Service, error) {
	p, err := newPipeline(cfg.ValidateLimits())
	if err != nil {
		return nil, err
	}

	s, err := store.Open(dbPath)
	if err != nil {
		return nil, err
	}

	dir, err := filepath.Abs(filepath.Dir(dbPath))
	if err != nil {
		dir = filepath.Dir(dbPath)
	}

	return &Service{
		store:    s,
		dbPath:   dbPath,
		dir:      dir,
		limits:   cfg.ValidateLimits(),
		pipeline: p,
	}, nil
}

// Pipeline builds the sanitize and validate pipeline for the limits in cfg
// without opening a store.
func Pipeline(cfg *config.Config) (*pipeline.Service, error) {
	return newPipeline(cfg.ValidateLimits())
}

// newPipeline wires the built-in block strategies into both registries and
// returns the pipeline that runs them.
func newPipeline(limits validate.Limits) (*pipeline.Service, error) {
	sr, vr, err := block.Registries(block.Strategies(limits)...)
	if err != nil {
		return nil, fmt.Errorf("block registries: %w", err)
	}
	return pipeline.New(sanitize.New(sr), validate.New(vr, limits)), nil
}

// Init initialises a new blockd store.
// If dir is empty, uses current directory; otherwise uses dir.
// If local is true, the database is added to .gitignore (not committed).
func Init(force bool, db string, local bool, dir string) error {
	return repo.Init(force, db, local, dir)
}

// Close checkpoints the WAL and closes the database connection.
func (s *Service) Close() error {
	if err := s.store.Checkpoint(context.Background()); err != nil {
		log.Event("service:close", "checkpoint").
			Detail("error", err.Error()).
			Write(err)
	}
	return s.store.Close()
}

// ReloadConfig reloads configuration from disk and rebuilds the pipeline
// with the new limits.
func (s *Service) ReloadConfig() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	p, err := newPipeline(cfg.ValidateLimits())
	if err != nil {
		return err
	}
	s.limits = cfg.ValidateLimits()
	s.pipeline = p
	return nil
}

// SetExtensionContext sets the extension context for firing events.
func (s *Service) SetExtensionContext(ctx extension.Context) {
	s.extCtx = ctx
}

// fireEvent notifies all registered extension event handlers. Handler
// errors are logged, not returned: the change has already been committed.
func (s *Service) fireEvent(e extension.Event) {
	if s.extCtx == nil {
		return
	}
	for _, h := range extension.Having[extension.EventHandler]() {
		if err := h.HandleEvent(s.extCtx, e); err != nil {
			log.Event("event:error", "error").
				Item(e.EventKey()).
				Detail("ext", h.Name()).
				Detail("event", string(e.EventType())).
				Write(err)
		}
	}
}

// Validate runs the pipeline in mode without touching the store.
func (s *Service) Validate(raw content.Raw, mode validate.Mode) validate.Result {
	return s.pipeline.Validate(raw, mode)
}

// Details runs the pipeline in mode and returns every intermediate value.
func (s *Service) Details(raw content.Raw, mode validate.Mode) pipeline.Details {
	return s.pipeline.Process(raw, mode)
}

// Kinds lists the accepted block kinds.
func (s *Service) Kinds() []string {
	return s.pipeline.Kinds()
}

// Limits returns the limits in force.
func (s *Service) Limits() validate.Limits {
	return s.limits
}

// DB returns the underlying database connection for extensions.
func (s *Service) DB() *sql.DB {
	return s.store.DB()
}

// DBPath returns the path to the database file.
func (s *Service) DBPath() string {
	return s.dbPath
}

// Dir returns the .blockd directory holding the database.
func (s *Service) Dir() string {
	return s.dir
}

// Tx runs fn within a database transaction. Rollback is deferred and is a
// no-op once Commit has succeeded.
func (s *Service) Tx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.store.DB().BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(tx); err != nil {
		return fmt.Errorf("transaction rolled back: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
