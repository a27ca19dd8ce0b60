// ls.go implements "blockd ls" for listing items.

package item

import (
	"fmt"

	"github.com/jpl-au/blockd/cmd"
	"github.com/jpl-au/blockd/extension"
	"github.com/jpl-au/blockd/internal/format"
	"github.com/jpl-au/blockd/internal/log"
	"github.com/jpl-au/blockd/internal/store"
	"github.com/spf13/cobra"
)

func (e *Extension) newLsCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "ls",
		Short: "List items",
		Long:  `List the latest version of every item, optionally filtered by type.`,
		Args:  cobra.NoArgs,
		RunE:  e.runLs,
	}
	c.Flags().BoolP(extension.FlagAll, "A", false, "Include deleted items")
	c.Flags().BoolP(extension.FlagDeleted, "D", false, "Show only deleted items")
	c.Flags().BoolP(extension.FlagLong, "l", false, "Long format with metadata")
	c.Flags().StringP(extension.FlagType, "t", "", "Filter by content type")
	return c
}

func (e *Extension) runLs(c *cobra.Command, _ []string) error {
	var opts store.ListOptions
	opts.IncludeDeleted, _ = c.Flags().GetBool(extension.FlagAll)
	opts.DeletedOnly, _ = c.Flags().GetBool(extension.FlagDeleted)
	opts.Type, _ = c.Flags().GetString(extension.FlagType)
	long, _ := c.Flags().GetBool(extension.FlagLong)

	metas, err := e.svc.List(c.Context(), opts)

	log.Event("item:ls", "list").
		Author(cmd.Author()).
		Detail("type", opts.Type).
		Detail("count", len(metas)).
		Write(err)

	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("ls: %w", err))
	}

	if cmd.JSON() {
		out := make([]store.MetaJSON, len(metas))
		for i := range metas {
			out[i] = metas[i].ToJSON()
		}
		return cmd.PrintJSON(out)
	}
	if long {
		return format.Long(cmd.Out(), metas)
	}
	return format.List(cmd.Out(), metas)
}
