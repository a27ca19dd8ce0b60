// tools_config.go implements blockd_config_get and blockd_config_set. A set
// rebuilds the running pipeline, so new limits apply to the next write.

package mcp

import (
	"context"

	"github.com/jpl-au/blockd/internal/config"
	"github.com/jpl-au/blockd/internal/log"
	"github.com/mark3labs/mcp-go/mcp"
)

// configEntry is one setting as reported to clients.
type configEntry struct {
	Key      string `json:"key"`
	Value    string `json:"value"`
	Explicit bool   `json:"explicit"` // false when the default applies
	Warning  string `json:"warning,omitempty"`
}

func entry(cfg *config.Config, key string) (configEntry, error) {
	v, err := cfg.Get(key)
	return configEntry{Key: key, Value: v, Explicit: cfg.IsSet(key)}, err
}

func (h *handlers) configGet(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := h.requireInit(); err != nil {
		return err, nil
	}
	key := getString(req, "key", "")
	ev := log.Event("mcp:config_get", "get").Author("mcp").Detail("key", key)

	cfg, err := config.Load()
	if err != nil {
		ev.Write(err)
		return mcp.NewToolResultError(err.Error()), nil
	}

	keys := []string{key}
	if key == "" {
		keys = config.ValidKeys()
	}
	out := make([]configEntry, 0, len(keys))
	for _, k := range keys {
		e, err := entry(cfg, k)
		if err != nil {
			ev.Write(err)
			return mcp.NewToolResultError(err.Error()), nil
		}
		out = append(out, e)
	}
	ev.Write(nil)
	return jsonResult(out)
}

func (h *handlers) configSet(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := h.requireInit(); err != nil {
		return err, nil
	}
	key, err := req.RequireString("key")
	if err != nil {
		return mcp.NewToolResultError("key is required"), nil //nolint:nilerr
	}
	value, err := req.RequireString("value")
	if err != nil {
		return mcp.NewToolResultError("value is required"), nil //nolint:nilerr
	}

	cfg, err := config.Load()
	if err == nil {
		err = cfg.Set(key, value)
	}
	if err == nil {
		err = cfg.Save()
	}
	log.Event("mcp:config_set", "set").Author("mcp").Detail("key", key).Write(err)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	e, err := entry(cfg, key)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if rerr := h.svc.ReloadConfig(); rerr != nil {
		log.Event("mcp:config_set", "reload").Author("mcp").Write(rerr)
		e.Warning = "saved, but reload failed; restart the server to apply: " + rerr.Error()
	}
	return jsonResult(e)
}
