// find.go implements "blockd find" for FTS5 full-text search.

package search

import (
	"fmt"
	"io"

	"github.com/jpl-au/blockd/cmd"
	"github.com/jpl-au/blockd/extension"
	"github.com/jpl-au/blockd/internal/find"
	"github.com/jpl-au/blockd/internal/log"
	"github.com/jpl-au/blockd/internal/store"
	"github.com/spf13/cobra"
)

func (e *Extension) newFindCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "find <query>",
		Short: "Full-text search across items",
		Long: `Full-text search over the title, summary and block sources of the latest
version of every item, best match first.

Supports FTS5 query syntax: prefix matching with *, AND, OR, NOT and
"quoted phrases".

  blockd find release
  blockd find 'deploy* NOT staging'
  blockd find -t recipe banana`,
		Args: cobra.ExactArgs(1),
		RunE: e.runFind,
	}
	c.Flags().StringP(extension.FlagType, "t", "", "Only items of this type")
	c.Flags().BoolP(extension.FlagKeysOnly, "l", false, "Only output keys")
	c.Flags().BoolP(extension.FlagDeleted, "D", false, "Search deleted items only")
	c.Flags().BoolP(extension.FlagAll, "A", false, "Search all items (including deleted)")
	c.Flags().IntP(extension.FlagLimit, "n", 0, "Maximum results")
	return c
}

func (e *Extension) runFind(c *cobra.Command, args []string) error {
	query := args[0]
	var opts find.Options
	opts.Type, _ = c.Flags().GetString(extension.FlagType)
	opts.KeysOnly, _ = c.Flags().GetBool(extension.FlagKeysOnly)
	opts.DeletedOnly, _ = c.Flags().GetBool(extension.FlagDeleted)
	opts.IncludeDeleted, _ = c.Flags().GetBool(extension.FlagAll)
	opts.Limit, _ = c.Flags().GetInt(extension.FlagLimit)

	var w io.Writer = cmd.Out()
	if cmd.JSON() {
		w = io.Discard
	}
	result, err := find.Run(c.Context(), w, e.svc, query, opts)

	log.Event("search:find", "search").
		Author(cmd.Author()).
		Detail("query", query).
		Detail("count", len(result.Items)).
		Write(err)

	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("find %q: %w", query, err))
	}

	out := make([]store.MetaJSON, len(result.Items))
	for i := range result.Items {
		out[i] = result.Items[i].ToJSON()
	}
	return cmd.PrintJSON(out)
}

func (e *Extension) newReindexCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reindex",
		Short: "Rebuild the full-text search index",
		Long: `Rebuild the full-text index from the latest version of every item.

Writes keep the index current; reindex is for stores written before the
index existed.`,
		Args: cobra.NoArgs,
		RunE: e.runReindex,
	}
}

func (e *Extension) runReindex(c *cobra.Command, _ []string) error {
	n, err := find.Reindex(c.Context(), e.svc)

	log.Event("search:reindex", "reindex").
		Author(cmd.Author()).
		Detail("count", n).
		Write(err)

	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("reindex: %w", err))
	}
	if !cmd.JSON() {
		fmt.Fprintf(cmd.Out(), "Indexed %d item(s)\n", n)
	}
	return cmd.PrintJSON(map[string]int{"count": n})
}
