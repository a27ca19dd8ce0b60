// tools_util.go reads tool arguments. Optional arguments fall back to
// their default when missing or unconvertible; clients often send numbers
// and booleans as strings.

package mcp

import (
	"github.com/jpl-au/blockd/internal/store"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/spf13/cast"
)

func arg(req mcp.CallToolRequest, name string) (any, bool) {
	args, ok := req.Params.Arguments.(map[string]any)
	if !ok {
		return nil, false
	}
	v, ok := args[name]
	return v, ok && v != nil
}

func getString(req mcp.CallToolRequest, name, def string) string {
	if v, err := req.RequireString(name); err == nil {
		return v
	}
	return def
}

func getBool(req mcp.CallToolRequest, name string, def bool) bool { //nolint:unparam
	v, ok := arg(req, name)
	if !ok {
		return def
	}
	b, err := cast.ToBoolE(v)
	if err != nil {
		return def
	}
	return b
}

func getInt(req mcp.CallToolRequest, name string, def int) int { //nolint:unparam
	v, ok := arg(req, name)
	if !ok {
		return def
	}
	n, err := cast.ToIntE(v)
	if err != nil {
		return def
	}
	return n
}

// jsonResult wraps v as an indented JSON text result.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := store.MarshalJSON(v)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// jsonError is jsonResult flagged as a tool error.
func jsonError(v any) (*mcp.CallToolResult, error) {
	res, err := jsonResult(v)
	if err == nil && res != nil {
		res.IsError = true
	}
	return res, err
}
