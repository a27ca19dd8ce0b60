// Package mcp implements the Model Context Protocol server, exposing blockd
// operations to LLMs so assistants can validate, store and read structured
// content through a standardised protocol.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/jpl-au/blockd/extension"
	"github.com/jpl-au/blockd/internal/config"
	"github.com/jpl-au/blockd/internal/library"
	"github.com/jpl-au/blockd/internal/log"
	"github.com/jpl-au/blockd/internal/repo"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Version is advertised to clients for capability negotiation.
const Version = "1.0.0"

// ErrNotInitialised is returned by tools when the store has not been initialised.
// The LLM should call blockd_init to create a store before using other tools.
const ErrNotInitialised = "store not initialised - call blockd_init first"

// Serve starts the MCP server over stdio. dir is the .blockd directory to
// use; empty means discover it from the working directory.
//
// The server starts even if no store exists so an LLM can call blockd_init.
// Tools that need a store return ErrNotInitialised until then.
func Serve(db, dir string) error {
	// stdout is reserved for MCP JSON-RPC messages
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	h := &handlers{db: db, dir: dir}

	err := h.open()
	if err != nil && !errors.Is(err, repo.ErrNotInitialised) {
		slog.Error("failed to open store", "error", err)
		return err
	}
	if err == nil {
		defer h.svc.Close()
	} else {
		slog.Info("blockd not initialised, starting in uninitialised mode - call blockd_init to create store")
	}

	s := newServer(h)

	slog.Info("blockd MCP server ready", "version", Version, "transport", "stdio")

	err = server.ServeStdio(s)
	if errors.Is(err, context.Canceled) {
		slog.Info("server stopped")
		return nil
	}
	return err
}

// newServer builds the MCP server with every resource and tool registered.
func newServer(h *handlers) *server.MCPServer {
	s := server.NewMCPServer(
		"blockd",
		Version,
		server.WithResourceCapabilities(true, false),
		server.WithToolCapabilities(true),
	)
	registerResources(s, h)
	registerTools(s, h)
	registerExtensionTools(s, h)
	return s
}

// handlers provides MCP request handlers with access to the item store.
// The svc field is nil until the store has been initialised.
type handlers struct {
	db     string           // database name
	dir    string           // .blockd directory, empty to discover
	svc    *library.Service // nil if not initialised
	extCtx extension.Context
}

// open connects to the store and initialises extensions against it.
func (h *handlers) open() error {
	var svc *library.Service
	var err error
	if h.dir != "" {
		svc, err = library.NewInDir(h.dir, h.db)
	} else {
		svc, err = library.New(h.db)
	}
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		svc.Close()
		return err
	}

	extCtx := extension.NewContext(svc, svc.DB(), cfg)
	svc.SetExtensionContext(extCtx)
	for _, ext := range extension.Having[extension.Initializable]() {
		if err := ext.Init(extCtx); err != nil {
			svc.Close()
			return fmt.Errorf("init extension %s: %w", ext.Name(), err)
		}
	}

	log.SetProject(svc.Dir())
	h.svc = svc
	h.extCtx = extCtx
	return nil
}

// requireInit returns an error result if the store is not initialised.
// Tools that require a store should call this first.
func (h *handlers) requireInit() *mcp.CallToolResult {
	if h.svc == nil {
		return mcp.NewToolResultError(ErrNotInitialised)
	}
	return nil
}

// registerResources adds URI-based resource access for direct item reading.
func registerResources(s *server.MCPServer, h *handlers) {
	s.AddResourceTemplate(
		mcp.NewResourceTemplate(
			uriPrefix+"{key}",
			"Item",
			mcp.WithTemplateDescription("Read the latest version of an item as markdown"),
			mcp.WithTemplateMIMEType("text/markdown"),
		),
		h.readItem,
	)

	s.AddResourceTemplate(
		mcp.NewResourceTemplate(
			uriPrefix+"{key}/v/{version}",
			"Item Version",
			mcp.WithTemplateDescription("Read a specific version of an item as markdown"),
			mcp.WithTemplateMIMEType("text/markdown"),
		),
		h.readItem,
	)
}

// registerTools exposes item operations as MCP tools.
func registerTools(s *server.MCPServer, h *handlers) {
	// Init - works without existing store
	s.AddTool(
		mcp.NewTool("blockd_init",
			mcp.WithDescription("Initialise a new blockd store. Call this first if other tools return 'store not initialised'."),
			mcp.WithBoolean("local", mcp.Description("If true, database is gitignored (not committed to version control)")),
		),
		h.initStore,
	)

	s.AddTool(
		mcp.NewTool("blockd_create",
			mcp.WithDescription("Sanitize, validate and store a new item. Invalid content is rejected with every violation listed."),
			mcp.WithObject("content", mcp.Required(), mcp.Description("Content request: {type, title, summary, blocks: [{kind, source, ...}]}")),
			mcp.WithString("author", mcp.Required(), mcp.Description("Author attribution")),
			mcp.WithString("message", mcp.Description("Version message")),
		),
		h.createItem,
	)

	s.AddTool(
		mcp.NewTool("blockd_update",
			mcp.WithDescription("Store a new version of an item. Only the supplied fields are replaced."),
			mcp.WithString("key", mcp.Required(), mcp.Description("Item key")),
			mcp.WithObject("content", mcp.Required(), mcp.Description("Fields to replace: any of {type, title, summary, blocks}")),
			mcp.WithString("author", mcp.Required(), mcp.Description("Author attribution")),
			mcp.WithString("message", mcp.Description("Version message")),
		),
		h.updateItem,
	)

	s.AddTool(
		mcp.NewTool("blockd_read",
			mcp.WithDescription("Read an item"),
			mcp.WithString("key", mcp.Required(), mcp.Description("Item key")),
			mcp.WithNumber("version", mcp.Description("Specific version to read (default: latest)")),
			mcp.WithBoolean("include_deleted", mcp.Description("Allow reading deleted items")),
			mcp.WithString("format", mcp.Description("markdown (default), html or json")),
		),
		h.readItemTool,
	)

	s.AddTool(
		mcp.NewTool("blockd_list",
			mcp.WithDescription("List items in the store"),
			mcp.WithString("type", mcp.Description("Filter by content type")),
			mcp.WithBoolean("include_deleted", mcp.Description("Include soft-deleted items")),
			mcp.WithBoolean("deleted_only", mcp.Description("Show only deleted items")),
		),
		h.listItems,
	)

	s.AddTool(
		mcp.NewTool("blockd_history",
			mcp.WithDescription("Get version history for an item, newest first"),
			mcp.WithString("key", mcp.Required(), mcp.Description("Item key")),
			mcp.WithNumber("limit", mcp.Description("Maximum versions to return")),
			mcp.WithBoolean("include_deleted", mcp.Description("Include deleted items")),
		),
		h.historyItem,
	)

	s.AddTool(
		mcp.NewTool("blockd_diff",
			mcp.WithDescription("Show differences between two versions of an item"),
			mcp.WithString("key", mcp.Required(), mcp.Description("Item key")),
			mcp.WithNumber("version1", mcp.Description("First version (default: previous)")),
			mcp.WithNumber("version2", mcp.Description("Second version (default: latest)")),
		),
		h.diffItem,
	)

	s.AddTool(
		mcp.NewTool("blockd_delete",
			mcp.WithDescription("Soft delete an item (recoverable via blockd_restore)"),
			mcp.WithString("key", mcp.Required(), mcp.Description("Item key")),
		),
		h.deleteItem,
	)

	s.AddTool(
		mcp.NewTool("blockd_restore",
			mcp.WithDescription("Restore a soft-deleted item"),
			mcp.WithString("key", mcp.Required(), mcp.Description("Item key")),
		),
		h.restoreItem,
	)

	s.AddTool(
		mcp.NewTool("blockd_config_get",
			mcp.WithDescription("Get a configuration value"),
			mcp.WithString("key", mcp.Description("Config key (author.name, limits.max_blocks, ...) or empty for all")),
		),
		h.configGet,
	)

	s.AddTool(
		mcp.NewTool("blockd_config_set",
			mcp.WithDescription("Set a configuration value. Limit changes apply to the next write."),
			mcp.WithString("key", mcp.Required(), mcp.Description("Config key (author.name, limits.max_blocks, ...)")),
			mcp.WithString("value", mcp.Required(), mcp.Description("Value to set")),
		),
		h.configSet,
	)
}

// registerExtensionTools adds the tools extensions declare. Each handler
// runs against the shared extension context once the store is open.
func registerExtensionTools(s *server.MCPServer, h *handlers) {
	for _, ext := range extension.All() {
		for _, t := range ext.MCPTools() {
			s.AddTool(t.Tool, h.extensionTool(t.Handler))
		}
	}
}

func (h *handlers) extensionTool(handler extension.MCPHandler) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if err := h.requireInit(); err != nil {
			return err, nil
		}
		return handler(ctx, h.extCtx, req)
	}
}
