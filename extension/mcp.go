// mcp.go defines types for MCP tool registration by extensions.
//
// MCPTool pairs the tool definition with its handler. The handler receives
// both the Go context (for cancellation) and the extension Context (for
// service access).

package extension

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jpl-au/blockd/internal/content"
	"github.com/mark3labs/mcp-go/mcp"
)

// MCPTool pairs an MCP tool definition with its handler.
type MCPTool struct {
	Tool    mcp.Tool
	Handler MCPHandler
}

// MCPHandler processes MCP tool requests.
type MCPHandler func(ctx context.Context, extCtx Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error)

// ContentArg extracts a content request from the named tool argument. The
// argument may be a JSON object or a string holding one; clients differ in
// which they send.
func ContentArg(req mcp.CallToolRequest, name string) (content.Raw, error) {
	args, _ := req.Params.Arguments.(map[string]any)
	switch v := args[name].(type) {
	case map[string]any:
		return content.Raw(v), nil
	case string:
		return content.ParseRaw([]byte(v))
	case nil:
		return nil, fmt.Errorf("%s is required", name)
	default:
		b, _ := json.Marshal(v)
		return nil, fmt.Errorf("%s must be an object, got %s", name, b)
	}
}
