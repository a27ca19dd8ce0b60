// Package core provides the core extension for blockd.
// It registers commands: init, config, serve, vacuum, db, version, guide.
package core

import (
	"github.com/jpl-au/blockd/extension"
	"github.com/jpl-au/blockd/internal/metrics"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/spf13/cobra"
)

func init() {
	extension.Register(&Extension{})
}

// Extension implements the core extension.
type Extension struct{}

// Compile-time interface compliance.
var (
	_ extension.Extension    = (*Extension)(nil)
	_ extension.Storeless    = (*Extension)(nil)
	_ extension.EventHandler = (*Extension)(nil)
)

// Name returns "core" - this extension provides fundamental blockd commands.
func (e *Extension) Name() string { return "core" }

// Commands returns all core CLI commands for repository management.
func (e *Extension) Commands() []*cobra.Command {
	return []*cobra.Command{
		newInitCmd(),
		newConfigCmd(),
		newServeCmd(),
		newVacuumCmd(),
		newDBCmd(),
		newVersionCmd(),
		newGuideCmd(),
	}
}

// MCPTools returns blockd_guide. Init and config tools live in internal/mcp
// because they run before any extension is initialised.
func (e *Extension) MCPTools() []extension.MCPTool {
	return []extension.MCPTool{{
		Tool: mcp.NewTool("blockd_guide",
			mcp.WithDescription("Read blockd documentation. Call with no topic for the overview and the list of topics."),
			mcp.WithString("topic", mcp.Description("Guide topic: blocks, limits or mcp")),
		),
		Handler: guideTool,
	}}
}

// NoStoreCommands returns commands that manage their own service lifecycle.
// serve: Long-running MCP server needs its own service lifecycle.
// vacuum: Opens its own service so extension tables can be vacuumed too.
// db: Manages gitignore, doesn't need database connection.
// version: Displays build info, doesn't need database connection.
// guide: Embedded documentation.
func (e *Extension) NoStoreCommands() []string {
	return []string{"serve", "vacuum", "db", "version", "guide"}
}

// HandleEvent counts committed item changes for the metrics endpoint.
func (e *Extension) HandleEvent(_ extension.Context, ev extension.Event) error {
	metrics.ItemEvents.WithLabelValues(string(ev.EventType())).Inc()
	return nil
}
