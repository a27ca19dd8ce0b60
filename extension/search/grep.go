// grep.go implements "blockd grep" for regex search over rendered items.

package search

import (
	"fmt"
	"io"

	"github.com/jpl-au/blockd/cmd"
	"github.com/jpl-au/blockd/extension"
	"github.com/jpl-au/blockd/internal/grep"
	"github.com/jpl-au/blockd/internal/log"
	"github.com/spf13/cobra"
)

func (e *Extension) newGrepCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "grep <pattern>",
		Short: "Search items using regex",
		Long: `Search the markdown of every item with a regular expression, like Unix
grep. Output lines are KEY:LINE:TEXT, numbered as "blockd cat --raw" prints.

  blockd grep "TODO"
  blockd grep -i "error|warn"
  blockd grep -l "func.*\("

For full-text search, use 'blockd find' instead.`,
		Args: cobra.ExactArgs(1),
		RunE: e.runGrep,
	}
	c.Flags().StringP(extension.FlagType, "t", "", "Only items of this type")
	c.Flags().BoolP(extension.FlagKeysOnly, "l", false, "Only output keys of matching items")
	c.Flags().BoolP(extension.FlagIgnoreCase, "i", false, "Ignore case distinctions")
	c.Flags().BoolP(extension.FlagInvertMatch, "v", false, "Select non-matching lines")
	c.Flags().BoolP(extension.FlagCount, "c", false, "Only print count of matches per item")
	c.Flags().IntP(extension.FlagContext, "C", 0, "Print N lines of context around matches")
	c.Flags().BoolP(extension.FlagDeleted, "D", false, "Search deleted items only")
	c.Flags().BoolP(extension.FlagAll, "A", false, "Search all items (including deleted)")
	return c
}

func (e *Extension) runGrep(c *cobra.Command, args []string) error {
	pattern := args[0]
	var opts grep.Options
	opts.Type, _ = c.Flags().GetString(extension.FlagType)
	opts.KeysOnly, _ = c.Flags().GetBool(extension.FlagKeysOnly)
	opts.IgnoreCase, _ = c.Flags().GetBool(extension.FlagIgnoreCase)
	opts.Invert, _ = c.Flags().GetBool(extension.FlagInvertMatch)
	opts.CountOnly, _ = c.Flags().GetBool(extension.FlagCount)
	opts.Context, _ = c.Flags().GetInt(extension.FlagContext)
	opts.DeletedOnly, _ = c.Flags().GetBool(extension.FlagDeleted)
	opts.IncludeDeleted, _ = c.Flags().GetBool(extension.FlagAll)

	if opts.Context < 0 {
		return cmd.PrintJSONError(fmt.Errorf("context must be >= 0, got %d", opts.Context))
	}

	var w io.Writer = cmd.Out()
	if cmd.JSON() {
		w = io.Discard
	}
	result, err := grep.Run(c.Context(), w, e.svc, pattern, opts)

	log.Event("search:grep", "grep").
		Author(cmd.Author()).
		Detail("pattern", pattern).
		Detail("count", len(result.Hits)).
		Write(err)

	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("grep %q: %w", pattern, err))
	}

	out := make([]grep.HitJSON, len(result.Hits))
	for i, h := range result.Hits {
		out[i] = h.ToJSON()
	}
	return cmd.PrintJSON(out)
}
