// revert.go implements "blockd revert".

package item

import (
	"fmt"
	"io"
	"strconv"

	"github.com/jpl-au/blockd/cmd"
	"github.com/jpl-au/blockd/internal/log"
	"github.com/jpl-au/blockd/internal/revert"
	"github.com/spf13/cobra"
)

func (e *Extension) newRevertCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "revert <key> <version>",
		Short: "Store an old version as the newest version",
		Long: `Revert an item by writing the content of an earlier version as a new
version. History is kept, so a revert can be reverted.

  blockd revert KEY 2
  blockd revert KEY 2 -m "back out the rewrite"`,
		Args: cobra.ExactArgs(2),
		RunE: e.runRevert,
	}
}

func (e *Extension) runRevert(c *cobra.Command, args []string) error {
	key := args[0]
	version, err := strconv.Atoi(args[1])
	if err != nil || version < 1 {
		return cmd.PrintJSONError(fmt.Errorf("invalid version %q", args[1]))
	}

	var w io.Writer = cmd.Out()
	if cmd.JSON() {
		w = io.Discard
	}
	result, res, err := revert.Run(c.Context(), w, e.svc, key, version, revert.Options{
		Author:  cmd.Author(),
		Message: cmd.Message(),
	})

	log.Event("item:revert", "revert").
		Author(cmd.Author()).
		Item(key).
		Version(version).
		ResultVersion(result.NewVersion).
		Write(err)

	if rerr := reportInvalid(c, err, res); rerr != nil {
		return rerr
	}
	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("revert %q: %w", key, err))
	}
	return cmd.PrintJSON(result)
}
