// diff.go implements "blockd diff" for comparing item versions.
//
// Both versions are rendered as markdown before comparison so the diff reads
// the same way the item does.

package item

import (
	"fmt"

	"github.com/jpl-au/blockd/cmd"
	"github.com/jpl-au/blockd/extension"
	"github.com/jpl-au/blockd/internal/diff"
	"github.com/jpl-au/blockd/internal/log"
	"github.com/spf13/cobra"
)

func (e *Extension) newDiffCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "diff <key>",
		Short: "Show differences between item versions",
		Long: `Show differences between two versions of an item.

Examples:
  blockd diff 5f0c...          # Compare latest with previous version
  blockd diff 5f0c... -v 1:3   # Compare version 1 with version 3`,
		Args: cobra.ExactArgs(1),
		RunE: e.runDiff,
	}
	c.Flags().StringP(extension.FlagVersions, "v", "", "Version range (e.g., 3:5)")
	c.Flags().Bool(extension.FlagRaw, false, "Output without colour")
	return c
}

func (e *Extension) runDiff(c *cobra.Command, args []string) error {
	ctx := c.Context()
	verRange, _ := c.Flags().GetString(extension.FlagVersions)
	raw, _ := c.Flags().GetBool(extension.FlagRaw)
	key := args[0]

	var from, to int
	var err error
	if verRange != "" {
		from, to, err = diff.ParseVersionRange(verRange)
		if err != nil {
			return cmd.PrintJSONError(err)
		}
	} else {
		latest, lerr := e.svc.Latest(ctx, key, true)
		if lerr != nil {
			return cmd.PrintJSONError(fmt.Errorf("diff %q: %w", key, lerr))
		}
		if latest.Version < 2 {
			return cmd.PrintJSONError(fmt.Errorf("diff %q: only one version exists", key))
		}
		from, to = latest.Version-1, latest.Version
	}

	r, err := e.svc.Diff(ctx, key, from, to)

	log.Event("item:diff", "diff").
		Author(cmd.Author()).
		Item(key).
		Detail("from", from).
		Detail("to", to).
		Write(err)

	if err != nil {
		return cmd.PrintJSONError(err)
	}

	if !cmd.JSON() {
		fmt.Fprint(cmd.Out(), r.Format(!raw))
	}
	return cmd.PrintJSON(map[string]string{
		"old":  r.Old,
		"new":  r.New,
		"diff": r.Format(false),
	})
}
