// mcp.go exposes tagging to MCP clients.

package tag

import (
	"context"
	"io"

	"github.com/jpl-au/blockd/extension"
	"github.com/jpl-au/blockd/internal/log"
	"github.com/jpl-au/blockd/internal/store"
	"github.com/jpl-au/blockd/internal/tag"
	"github.com/mark3labs/mcp-go/mcp"
)

// MCPTools returns the tag tools.
func (e *Extension) MCPTools() []extension.MCPTool {
	return []extension.MCPTool{
		{
			Tool: mcp.NewTool("blockd_tag_add",
				mcp.WithDescription("Add a tag to an item. Tags are lowercase letters, digits, '.', '_' and '-'."),
				mcp.WithString("key", mcp.Required(), mcp.Description("Item key")),
				mcp.WithString("tag", mcp.Required(), mcp.Description("Tag to add")),
			),
			Handler: addTool,
		},
		{
			Tool: mcp.NewTool("blockd_tag_remove",
				mcp.WithDescription("Remove a tag from an item"),
				mcp.WithString("key", mcp.Required(), mcp.Description("Item key")),
				mcp.WithString("tag", mcp.Required(), mcp.Description("Tag to remove")),
			),
			Handler: removeTool,
		},
		{
			Tool: mcp.NewTool("blockd_tag_list",
				mcp.WithDescription("List the tags of an item, or every tag in use when key is omitted"),
				mcp.WithString("key", mcp.Description("Item key")),
			),
			Handler: listTool,
		},
		{
			Tool: mcp.NewTool("blockd_tagged",
				mcp.WithDescription("List the items carrying a tag"),
				mcp.WithString("tag", mcp.Required(), mcp.Description("Tag to look up")),
				mcp.WithBoolean("include_deleted", mcp.Description("Include soft-deleted items")),
			),
			Handler: taggedTool,
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

func keyAndTag(req mcp.CallToolRequest) (string, string, *mcp.CallToolResult) {
	key, err := req.RequireString("key")
	if err != nil {
		return "", "", mcp.NewToolResultError("key is required")
	}
	t, err := req.RequireString("tag")
	if err != nil {
		return "", "", mcp.NewToolResultError("tag is required")
	}
	return key, t, nil
}

func addTool(ctx context.Context, extCtx extension.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	key, t, errRes := keyAndTag(req)
	if errRes != nil {
		return errRes, nil
	}
	result, err := tag.Add(ctx, io.Discard, extCtx.Service(), key, t)

	log.Event("mcp:tag_add", "tag").Author("mcp").Item(key).Detail("tag", result.Tag).Write(err)

	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(result)
}

func removeTool(ctx context.Context, extCtx extension.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	key, t, errRes := keyAndTag(req)
	if errRes != nil {
		return errRes, nil
	}
	result, err := tag.Remove(ctx, io.Discard, extCtx.Service(), key, t)

	log.Event("mcp:tag_remove", "untag").Author("mcp").Item(key).Detail("tag", result.Tag).Write(err)

	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(result)
}

func listTool(ctx context.Context, extCtx extension.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	key := req.GetString("key", "")
	result, err := tag.List(ctx, io.Discard, extCtx.Service(), key)

	log.Event("mcp:tag_list", "list_tags").Author("mcp").Item(key).Detail("count", len(result.Tags)).Write(err)

	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(result)
}

func taggedTool(ctx context.Context, extCtx extension.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	t, err := req.RequireString("tag")
	if err != nil {
		return mcp.NewToolResultError("tag is required"), nil //nolint:nilerr
	}
	opts := store.ListOptions{IncludeDeleted: req.GetBool("include_deleted", false)}
	metas, err := tag.Items(ctx, extCtx.Service(), t, opts)

	log.Event("mcp:tagged", "list").Author("mcp").Detail("tag", t).Detail("count", len(metas)).Write(err)

	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out := make([]store.MetaJSON, len(metas))
	for i := range metas {
		out[i] = metas[i].ToJSON()
	}
	return jsonResult(out)
}
