// mcp.go exposes find and grep to MCP clients.

package search

import (
	"context"
	"io"

	"github.com/jpl-au/blockd/extension"
	"github.com/jpl-au/blockd/internal/find"
	"github.com/jpl-au/blockd/internal/grep"
	"github.com/jpl-au/blockd/internal/log"
	"github.com/jpl-au/blockd/internal/store"
	"github.com/mark3labs/mcp-go/mcp"
)

// MCPTools returns the search tools.
func (e *Extension) MCPTools() []extension.MCPTool {
	return []extension.MCPTool{
		{
			Tool: mcp.NewTool("blockd_search",
				mcp.WithDescription("Full-text search over item titles, summaries and block sources. Supports FTS5 syntax: prefix*, AND, OR, NOT, \"phrases\"."),
				mcp.WithString("query", mcp.Required(), mcp.Description("FTS5 query")),
				mcp.WithString("type", mcp.Description("Only items of this content type")),
				mcp.WithBoolean("include_deleted", mcp.Description("Include soft-deleted items")),
				mcp.WithNumber("limit", mcp.Description("Maximum results")),
			),
			Handler: searchTool,
		},
		{
			Tool: mcp.NewTool("blockd_grep",
				mcp.WithDescription("Regex search over the markdown of every item. Returns matching lines with line numbers per item."),
				mcp.WithString("pattern", mcp.Required(), mcp.Description("Regular expression (Go syntax)")),
				mcp.WithString("type", mcp.Description("Only items of this content type")),
				mcp.WithBoolean("ignore_case", mcp.Description("Case insensitive matching")),
				mcp.WithBoolean("include_deleted", mcp.Description("Include soft-deleted items")),
			),
			Handler: grepTool,
		},
	}
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := store.MarshalJSON(v)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func searchTool(ctx context.Context, extCtx extension.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("query is required"), nil //nolint:nilerr
	}
	opts := find.Options{
		Type:           req.GetString("type", ""),
		IncludeDeleted: req.GetBool("include_deleted", false),
		Limit:          req.GetInt("limit", 0),
	}
	result, err := find.Run(ctx, io.Discard, extCtx.Service(), query, opts)

	log.Event("mcp:search", "search").Author("mcp").
		Detail("query", query).
		Detail("count", len(result.Items)).
		Write(err)

	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out := make([]store.MetaJSON, len(result.Items))
	for i := range result.Items {
		out[i] = result.Items[i].ToJSON()
	}
	return jsonResult(out)
}

func grepTool(ctx context.Context, extCtx extension.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	pattern, err := req.RequireString("pattern")
	if err != nil {
		return mcp.NewToolResultError("pattern is required"), nil //nolint:nilerr
	}
	opts := grep.Options{
		Type:           req.GetString("type", ""),
		IgnoreCase:     req.GetBool("ignore_case", false),
		IncludeDeleted: req.GetBool("include_deleted", false),
	}
	result, err := grep.Run(ctx, io.Discard, extCtx.Service(), pattern, opts)

	log.Event("mcp:grep", "grep").Author("mcp").
		Detail("pattern", pattern).
		Detail("count", len(result.Hits)).
		Write(err)

	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out := make([]grep.HitJSON, len(result.Hits))
	for i, h := range result.Hits {
		out[i] = h.ToJSON()
	}
	return jsonResult(out)
}
