// tools_init.go holds blockd_init, the one tool that runs before a store
// exists.

package mcp

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/jpl-au/blockd/internal/library"
	"github.com/jpl-au/blockd/internal/log"
	"github.com/mark3labs/mcp-go/mcp"
)

type initResult struct {
	Initialised bool `json:"initialised"`
	Local       bool `json:"local"`
}

func (h *handlers) initStore(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if h.svc != nil {
		return mcp.NewToolResultError("store already initialised"), nil
	}

	res := initResult{Local: getBool(req, "local", false)}
	var root string
	if h.dir != "" {
		// h.dir points at the .blockd directory; Init wants its parent.
		root = filepath.Dir(h.dir)
	}

	err := library.Init(false, h.db, res.Local, root)
	log.Event("mcp:init", "init").Author("mcp").Detail("local", res.Local).Write(err)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := h.open(); err != nil {
		return mcp.NewToolResultError("store created but could not be opened: " + err.Error()), nil
	}

	slog.Info("store initialised", "db", h.db, "local", res.Local)
	res.Initialised = true
	return jsonResult(res)
}
