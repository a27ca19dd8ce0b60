// context.go defines what an extension can reach once the store is open.
// Commands are registered before that, so the Context arrives in Init.

package extension

import (
	"database/sql"

	"github.com/jpl-au/blockd/internal/config"
	"github.com/jpl-au/blockd/internal/service"
)

// Context is handed to Init, HandleEvent, Vacuum and MCP tool handlers.
type Context interface {
	Service() service.Service // items, through the pipeline
	DB() *sql.DB              // for the extension's own tables only
	Config() *config.Config
}

// NewContext bundles the open service, its database and the loaded config.
func NewContext(svc service.Service, db *sql.DB, cfg *config.Config) Context {
	return extContext{svc: svc, db: db, cfg: cfg}
}

type extContext struct {
	svc service.Service
	db  *sql.DB
	cfg *config.Config
}

func (c extContext) Service() service.Service { return c.svc }
func (c extContext) DB() *sql.DB              { return c.db }
func (c extContext) Config() *config.Config   { return c.cfg }
