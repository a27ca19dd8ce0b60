// history.go implements "blockd history" for viewing version history.

package item

import (
	"fmt"
	"os"

	"github.com/jpl-au/blockd/cmd"
	"github.com/jpl-au/blockd/extension"
	"github.com/jpl-au/blockd/internal/content"
	"github.com/jpl-au/blockd/internal/format"
	"github.com/jpl-au/blockd/internal/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func (e *Extension) newHistoryCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "history <key>",
		Short: "Show item history",
		Long:  `Display version history for an item, newest first.`,
		Args:  cobra.ExactArgs(1),
		RunE:  e.runHistory,
	}
	c.Flags().IntP(extension.FlagLimit, "n", 0, "Limit number of versions shown")
	c.Flags().BoolP(extension.FlagDeleted, "D", false, "Include deleted items")
	c.Flags().BoolP(extension.FlagDiff, "d", false, "Show diffs between versions")
	return c
}

func (e *Extension) runHistory(c *cobra.Command, args []string) error {
	limit, _ := c.Flags().GetInt(extension.FlagLimit)
	del, _ := c.Flags().GetBool(extension.FlagDeleted)
	showDiff, _ := c.Flags().GetBool(extension.FlagDiff)
	key := args[0]

	if limit < 0 {
		return cmd.PrintJSONError(fmt.Errorf("limit must be >= 0, got %d", limit))
	}

	items, err := e.svc.History(c.Context(), key, limit, del)

	log.Event("item:history", "history").
		Author(cmd.Author()).
		Item(key).
		Detail("count", len(items)).
		Write(err)

	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("history %q: %w", key, err))
	}

	if cmd.JSON() {
		out := make([]content.ItemJSON, len(items))
		for i := range items {
			out[i] = items[i].ToJSON(false)
		}
		return cmd.PrintJSON(out)
	}
	if showDiff {
		return format.HistoryDiff(cmd.Out(), items, term.IsTerminal(int(os.Stdout.Fd())))
	}
	return format.History(cmd.Out(), items)
}
