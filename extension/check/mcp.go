// mcp.go exposes the pipeline to MCP clients. Results come back as the same
// JSON the CLI prints with -o json.

package check

import (
	"context"

	"github.com/jpl-au/blockd/extension"
	"github.com/jpl-au/blockd/internal/log"
	"github.com/jpl-au/blockd/internal/store"
	"github.com/jpl-au/blockd/internal/validate"
	"github.com/mark3labs/mcp-go/mcp"
)

// MCPTools returns the validate, details and kinds tools.
func (e *Extension) MCPTools() []extension.MCPTool {
	return []extension.MCPTool{
		{
			Tool: mcp.NewTool("blockd_validate",
				mcp.WithDescription("Sanitize and validate a content request without storing it. Returns {valid, errors} where errors maps field paths such as 'blocks.2.source' to messages."),
				mcp.WithObject("content", mcp.Required(), mcp.Description("Content request: {type, title, summary, blocks: [{kind, source, ...}]}")),
				mcp.WithBoolean("update", mcp.Description("Apply update rules (every field optional)")),
			),
			Handler: validateTool,
		},
		{
			Tool: mcp.NewTool("blockd_details",
				mcp.WithDescription("Run the pipeline and return the sanitized content, what sanitization changed, and the validation result"),
				mcp.WithObject("content", mcp.Required(), mcp.Description("Content request")),
				mcp.WithBoolean("update", mcp.Description("Apply update rules (every field optional)")),
			),
			Handler: detailsTool,
		},
		{
			Tool: mcp.NewTool("blockd_kinds",
				mcp.WithDescription("List the accepted block kinds"),
			),
			Handler: kindsTool,
		},
	}
}

func toolMode(req mcp.CallToolRequest) validate.Mode {
	args, _ := req.Params.Arguments.(map[string]any)
	if update, _ := args["update"].(bool); update {
		return validate.Update
	}
	return validate.Create
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := store.MarshalJSON(v)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func validateTool(_ context.Context, extCtx extension.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := extension.ContentArg(req, "content")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	mode := toolMode(req)
	res := extCtx.Service().Validate(raw, mode)

	log.Event("mcp:validate", "validate").Author("mcp").
		Detail("mode", mode.String()).
		Detail("valid", res.Valid()).
		Write(nil)

	return jsonResult(res)
}

func detailsTool(_ context.Context, extCtx extension.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := extension.ContentArg(req, "content")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	mode := toolMode(req)
	d := extCtx.Service().Details(raw, mode)

	log.Event("mcp:details", "details").Author("mcp").
		Detail("mode", mode.String()).
		Write(nil)

	return jsonResult(d)
}

func kindsTool(_ context.Context, extCtx extension.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(extCtx.Service().Kinds())
}
