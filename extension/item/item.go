// Package item provides the extension for stored items.
// Registers commands: create, update, cat, ls, history, diff, rm, restore,
// revert, stats.
//
// Each command file isolates its own flag handling and output formatting.
package item

import (
	"errors"

	"github.com/jpl-au/blockd/cmd"
	"github.com/jpl-au/blockd/extension"
	"github.com/jpl-au/blockd/internal/format"
	"github.com/jpl-au/blockd/internal/library"
	"github.com/jpl-au/blockd/internal/service"
	"github.com/jpl-au/blockd/internal/validate"
	"github.com/spf13/cobra"
)

func init() {
	extension.Register(&Extension{})
}

// Extension implements the item extension.
type Extension struct {
	svc service.Service
}

var (
	_ extension.Extension     = (*Extension)(nil)
	_ extension.Initializable = (*Extension)(nil)
)

// Name returns "item".
func (e *Extension) Name() string { return "item" }

// Init connects to the shared service.
func (e *Extension) Init(ctx extension.Context) error {
	e.svc = ctx.Service()
	return nil
}

// Commands returns the item commands.
func (e *Extension) Commands() []*cobra.Command {
	return []*cobra.Command{
		e.newCreateCmd(),
		e.newUpdateCmd(),
		e.newCatCmd(),
		e.newLsCmd(),
		e.newHistoryCmd(),
		e.newDiffCmd(),
		e.newRmCmd(),
		e.newRestoreCmd(),
		e.newRevertCmd(),
		e.newStatsCmd(),
	}
}

// MCPTools returns nil - item MCP tools are provided by internal/mcp.
func (e *Extension) MCPTools() []extension.MCPTool {
	return nil
}

// reportInvalid prints the violations behind a rejected write. It returns
// nil when err is not a validation failure.
func reportInvalid(c *cobra.Command, err error, res validate.Result) error {
	if !errors.Is(err, library.ErrInvalid) {
		return nil
	}
	c.SilenceUsage = true
	c.SilenceErrors = true
	if cmd.JSON() {
		_ = cmd.PrintJSON(res)
	} else {
		_ = format.Result(cmd.Out(), res)
	}
	return err
}
