// Package tag provides the tag extension for blockd.
// It registers commands: tag (with subcommands add, rm, ls, items).
//
// Tags live in the extension's own table, created on Init. Vacuum removes
// tags left behind by permanently deleted items.
package tag

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/jpl-au/blockd/cmd"
	"github.com/jpl-au/blockd/extension"
	"github.com/jpl-au/blockd/internal/format"
	"github.com/jpl-au/blockd/internal/log"
	"github.com/jpl-au/blockd/internal/service"
	"github.com/jpl-au/blockd/internal/store"
	"github.com/jpl-au/blockd/internal/tag"
	"github.com/spf13/cobra"
)

func init() {
	extension.Register(&Extension{})
}

// Extension implements the tag extension.
type Extension struct {
	svc service.Service
}

var (
	_ extension.Extension     = (*Extension)(nil)
	_ extension.Initializable = (*Extension)(nil)
	_ extension.Vacuumable    = (*Extension)(nil)
)

// Name returns "tag".
func (e *Extension) Name() string { return "tag" }

// Init creates the tag table and keeps the shared service.
func (e *Extension) Init(ctx extension.Context) error {
	if err := tag.Migrate(ctx.DB()); err != nil {
		return fmt.Errorf("tag schema: %w", err)
	}
	e.svc = ctx.Service()
	return nil
}

// Commands returns the tag command with its subcommands.
func (e *Extension) Commands() []*cobra.Command {
	return []*cobra.Command{
		e.newTagCmd(),
	}
}

// Vacuum drops tags whose item no longer exists. Tags carry no deletion
// time of their own, so olderThan is decided by the core item vacuum.
func (e *Extension) Vacuum(ctx extension.Context, _ *time.Duration) (int64, error) {
	if err := tag.Migrate(ctx.DB()); err != nil {
		return 0, err
	}
	return tag.Purge(context.Background(), ctx.DB())
}

func (e *Extension) newTagCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "tag",
		Short: "Manage item tags",
		Long:  `Add, remove and list tags on items, and list the items carrying a tag.`,
	}
	c.AddCommand(e.newTagAddCmd())
	c.AddCommand(e.newTagRmCmd())
	c.AddCommand(e.newTagLsCmd())
	c.AddCommand(e.newTagItemsCmd())
	return c
}

func (e *Extension) newTagAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <key> <tag>",
		Short: "Add a tag to an item",
		Args:  cobra.ExactArgs(2),
		RunE:  e.runTagAdd,
	}
}

func (e *Extension) newTagRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <key> <tag>",
		Short: "Remove a tag from an item",
		Args:  cobra.ExactArgs(2),
		RunE:  e.runTagRm,
	}
}

func (e *Extension) newTagLsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ls [key]",
		Short: "List tags for an item (or all tags if key omitted)",
		Args:  cobra.MaximumNArgs(1),
		RunE:  e.runTagLs,
	}
}

func (e *Extension) newTagItemsCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "items <tag>",
		Short: "List items carrying a tag",
		Args:  cobra.ExactArgs(1),
		RunE:  e.runTagItems,
	}
	c.Flags().BoolP(extension.FlagAll, "A", false, "Include deleted items")
	c.Flags().BoolP(extension.FlagDeleted, "D", false, "Show only deleted items")
	c.Flags().BoolP(extension.FlagLong, "l", false, "Long format with metadata")
	c.Flags().StringP(extension.FlagType, "t", "", "Filter by content type")
	return c
}

func output() io.Writer {
	if cmd.JSON() {
		return io.Discard
	}
	return cmd.Out()
}

func (e *Extension) runTagAdd(c *cobra.Command, args []string) error {
	key, t := args[0], args[1]

	result, err := tag.Add(c.Context(), output(), e.svc, key, t)

	log.Event("tag:add", "tag").
		Author(cmd.Author()).
		Item(key).
		Detail("tag", result.Tag).
		Write(err)

	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("tag add %q %q: %w", key, t, err))
	}
	return cmd.PrintJSON(result)
}

func (e *Extension) runTagRm(c *cobra.Command, args []string) error {
	key, t := args[0], args[1]

	result, err := tag.Remove(c.Context(), output(), e.svc, key, t)

	log.Event("tag:rm", "untag").
		Author(cmd.Author()).
		Item(key).
		Detail("tag", result.Tag).
		Write(err)

	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("tag rm %q %q: %w", key, t, err))
	}
	return cmd.PrintJSON(result)
}

func (e *Extension) runTagLs(c *cobra.Command, args []string) error {
	key := ""
	if len(args) > 0 {
		key = args[0]
	}

	result, err := tag.List(c.Context(), output(), e.svc, key)

	log.Event("tag:ls", "list_tags").
		Author(cmd.Author()).
		Item(key).
		Detail("count", len(result.Tags)).
		Write(err)

	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("tag ls %q: %w", key, err))
	}
	return cmd.PrintJSON(result)
}

func (e *Extension) runTagItems(c *cobra.Command, args []string) error {
	var opts store.ListOptions
	opts.IncludeDeleted, _ = c.Flags().GetBool(extension.FlagAll)
	opts.DeletedOnly, _ = c.Flags().GetBool(extension.FlagDeleted)
	opts.Type, _ = c.Flags().GetString(extension.FlagType)
	long, _ := c.Flags().GetBool(extension.FlagLong)

	metas, err := tag.Items(c.Context(), e.svc, args[0], opts)

	log.Event("tag:items", "list").
		Author(cmd.Author()).
		Detail("tag", args[0]).
		Detail("count", len(metas)).
		Write(err)

	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("tag items %q: %w", args[0], err))
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
