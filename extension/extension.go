// Package extension is how blockd features plug into the CLI and the MCP
// server. Each extension contributes commands and tools, and can opt into
// optional capabilities by implementing the interfaces below.
package extension

import (
	"time"

	"github.com/spf13/cobra"
)

// Extension is the minimum every extension provides.
type Extension interface {
	Name() string               // unique, used in logs and vacuum output
	Commands() []*cobra.Command // added to the root command
	MCPTools() []MCPTool        // added to the MCP server; may be nil
}

// Initializable extensions run setup, such as creating their tables, once
// the store is open.
type Initializable interface {
	Extension
	Init(ctx Context) error
}

// Storeless extensions name commands that must run without an open store:
// bootstrap commands, and commands that open the store themselves.
type Storeless interface {
	NoStoreCommands() []string
}

// Vacuumable extensions clean their own tables when "blockd vacuum" runs,
// after the items themselves have been purged. A nil olderThan means every
// soft-deleted row. Returns the number of rows removed.
type Vacuumable interface {
	Extension
	Vacuum(ctx Context, olderThan *time.Duration) (int64, error)
}
