// rm.go implements "blockd rm" and "blockd restore".
//
// Rm is a soft delete: every version stays in the store until vacuum removes
// it, so restore can bring the item back.

package item

import (
	"fmt"

	"github.com/jpl-au/blockd/cmd"
	"github.com/jpl-au/blockd/internal/log"
	"github.com/spf13/cobra"
)

// rmResult lists the keys a delete or restore touched.
type rmResult struct {
	Keys []string `json:"keys"`
}

func (e *Extension) newRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <key>...",
		Short: "Delete items",
		Long:  `Soft-delete one or more items (recoverable via restore).`,
		Args:  cobra.MinimumNArgs(1),
		RunE:  e.runRm,
	}
}

func (e *Extension) newRestoreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "restore <key>",
		Short: "Restore a deleted item",
		Args:  cobra.ExactArgs(1),
		RunE:  e.runRestore,
	}
}

func (e *Extension) runRm(c *cobra.Command, args []string) error {
	ctx := c.Context()
	var done []string
	for _, key := range args {
		err := e.svc.Delete(ctx, key)
		log.Event("item:rm", "delete").
			Author(cmd.Author()).
			Item(key).
			Write(err)
		if err != nil {
			return cmd.PrintJSONError(fmt.Errorf("rm %q: %w", key, err))
		}
		done = append(done, key)
		if !cmd.JSON() {
			fmt.Fprintf(cmd.Out(), "Deleted %s\n", key)
		}
	}
	return cmd.PrintJSON(rmResult{Keys: done})
}

func (e *Extension) runRestore(c *cobra.Command, args []string) error {
	key := args[0]
	err := e.svc.Restore(c.Context(), key)

	log.Event("item:restore", "restore").
		Author(cmd.Author()).
		Item(key).
		Write(err)

	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("restore %q: %w", key, err))
	}
	if !cmd.JSON() {
		fmt.Fprintf(cmd.Out(), "Restored %s\n", key)
	}
	return cmd.PrintJSON(rmResult{Keys: []string{key}})
}
