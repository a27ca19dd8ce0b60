// tools_items.go implements the MCP tools for item reads and writes.
//
// Writes run the full pipeline. A rejected request returns the validation
// result as a tool error so the client can fix every field in one pass.

package mcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/jpl-au/blockd/extension"
	"github.com/jpl-au/blockd/internal/content"
	"github.com/jpl-au/blockd/internal/library"
	"github.com/jpl-au/blockd/internal/log"
	"github.com/jpl-au/blockd/internal/render"
	"github.com/jpl-au/blockd/internal/store"
	"github.com/jpl-au/blockd/internal/validate"
	"github.com/mark3labs/mcp-go/mcp"
)

// writeResponse is returned by create and update.
type writeResponse struct {
	Key       string `json:"key"`
	Version   int    `json:"version"`
	Unchanged bool   `json:"unchanged,omitempty"`
}

// invalidResponse carries the violations behind a rejected write.
type invalidResponse struct {
	Error  string          `json:"error"`
	Result validate.Result `json:"result"`
}

// writeFailure converts a write error into a tool result.
func writeFailure(err error, res validate.Result) (*mcp.CallToolResult, error) {
	if errors.Is(err, library.ErrInvalid) {
		return jsonError(invalidResponse{Error: err.Error(), Result: res})
	}
	return mcp.NewToolResultError(err.Error()), nil
}

// createItem handles blockd_create tool calls.
func (h *handlers) createItem(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := h.requireInit(); err != nil {
		return err, nil
	}

	raw, err := extension.ContentArg(req, "content")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	author, err := req.RequireString("author")
	if err != nil {
		return mcp.NewToolResultError("author is required"), nil //nolint:nilerr
	}
	message := getString(req, "message", "")

	it, res, err := h.svc.Create(ctx, raw, author, message)

	b := log.Event("mcp:create", "create").Author(author)
	if it != nil {
		b = b.Item(it.Key).ResultVersion(it.Version)
	}
	b.Detail("errors", res.ErrorCount()).Write(err)

	if err != nil {
		return writeFailure(err, res)
	}
	return jsonResult(writeResponse{Key: it.Key, Version: it.Version})
}

// updateItem handles blockd_update tool calls.
func (h *handlers) updateItem(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := h.requireInit(); err != nil {
		return err, nil
	}

	key, err := req.RequireString("key")
	if err != nil {
		return mcp.NewToolResultError("key is required"), nil //nolint:nilerr
	}
	raw, err := extension.ContentArg(req, "content")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	author, err := req.RequireString("author")
	if err != nil {
		return mcp.NewToolResultError("author is required"), nil //nolint:nilerr
	}
	message := getString(req, "message", "")

	it, res, err := h.svc.Update(ctx, key, raw, author, message)

	b := log.Event("mcp:update", "update").Author(author).Item(key)
	if it != nil {
		b = b.ResultVersion(it.Version)
	}
	b.Detail("errors", res.ErrorCount()).Write(err)

	if errors.Is(err, library.ErrUnchanged) {
		return jsonResult(writeResponse{Key: it.Key, Version: it.Version, Unchanged: true})
	}
	if err != nil {
		return writeFailure(err, res)
	}
	return jsonResult(writeResponse{Key: it.Key, Version: it.Version})
}

// readItemTool handles blockd_read tool calls.
func (h *handlers) readItemTool(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := h.requireInit(); err != nil {
		return err, nil
	}

	key, err := req.RequireString("key")
	if err != nil {
		return mcp.NewToolResultError("key is required"), nil //nolint:nilerr
	}
	version := getInt(req, "version", 0)
	del := getBool(req, "include_deleted", false)
	format := getString(req, "format", "markdown")

	var it *content.Item
	if version > 0 {
		it, err = h.svc.Version(ctx, key, version)
	} else {
		it, err = h.svc.Latest(ctx, key, del)
	}

	b := log.Event("mcp:read", "read").Author("mcp").Item(key)
	if it != nil {
		b = b.Version(it.Version)
	}
	b.Write(err)

	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	switch format {
	case "markdown", "":
		return mcp.NewToolResultText(render.Markdown(it)), nil
	case "html":
		out, err := render.HTML(it)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(out), nil
	case "json":
		return jsonResult(it.ToJSON(true))
	default:
		return mcp.NewToolResultError(fmt.Sprintf("unknown format %q: use markdown, html or json", format)), nil
	}
}

// listItems handles blockd_list tool calls.
func (h *handlers) listItems(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := h.requireInit(); err != nil {
		return err, nil
	}

	opts := store.ListOptions{
		Type:           getString(req, "type", ""),
		IncludeDeleted: getBool(req, "include_deleted", false),
		DeletedOnly:    getBool(req, "deleted_only", false),
	}
	metas, err := h.svc.List(ctx, opts)

	log.Event("mcp:list", "list").Author("mcp").
		Detail("type", opts.Type).
		Detail("count", len(metas)).
		Write(err)

	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	out := make([]store.MetaJSON, len(metas))
	for i := range metas {
		out[i] = metas[i].ToJSON()
	}
	return jsonResult(out)
}

// historyItem handles blockd_history tool calls.
func (h *handlers) historyItem(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := h.requireInit(); err != nil {
		return err, nil
	}

	key, err := req.RequireString("key")
	if err != nil {
		return mcp.NewToolResultError("key is required"), nil //nolint:nilerr
	}
	limit := getInt(req, "limit", 0)
	if limit < 0 {
		return mcp.NewToolResultError(fmt.Sprintf("limit must be >= 0, got %d", limit)), nil
	}

	items, err := h.svc.History(ctx, key, limit, getBool(req, "include_deleted", false))

	log.Event("mcp:history", "history").Author("mcp").Item(key).
		Detail("count", len(items)).
		Write(err)

	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	out := make([]content.ItemJSON, len(items))
	for i := range items {
		out[i] = items[i].ToJSON(false)
	}
	return jsonResult(out)
}

// diffItem handles blockd_diff tool calls.
func (h *handlers) diffItem(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := h.requireInit(); err != nil {
		return err, nil
	}

	key, err := req.RequireString("key")
	if err != nil {
		return mcp.NewToolResultError("key is required"), nil //nolint:nilerr
	}
	from := getInt(req, "version1", 0)
	to := getInt(req, "version2", 0)

	if from == 0 {
		latest, err := h.svc.Latest(ctx, key, true)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		base := latest.Version
		if to > 0 {
			base = to
		}
		if base < 2 {
			return mcp.NewToolResultError("only one version exists"), nil
		}
		from = base - 1
	}

	r, err := h.svc.Diff(ctx, key, from, to)

	log.Event("mcp:diff", "diff").Author("mcp").Item(key).
		Detail("from", from).
		Detail("to", to).
		Write(err)

	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(map[string]any{
		"old":     r.Old,
		"new":     r.New,
		"diff":    r.Format(false),
		"changed": r.Changed(),
	})
}

// deleteItem handles blockd_delete tool calls.
func (h *handlers) deleteItem(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := h.requireInit(); err != nil {
		return err, nil
	}

	key, err := req.RequireString("key")
	if err != nil {
		return mcp.NewToolResultError("key is required"), nil //nolint:nilerr
	}

	err = h.svc.Delete(ctx, key)

	log.Event("mcp:delete", "delete").Author("mcp").Item(key).Write(err)

	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("deleted %s", key)), nil
}

// restoreItem handles blockd_restore tool calls.
func (h *handlers) restoreItem(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := h.requireInit(); err != nil {
		return err, nil
	}

	key, err := req.RequireString("key")
	if err != nil {
		return mcp.NewToolResultError("key is required"), nil //nolint:nilerr
	}

	err = h.svc.Restore(ctx, key)

	log.Event("mcp:restore", "restore").Author("mcp").Item(key).Write(err)

	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("restored %s", key)), nil
}
