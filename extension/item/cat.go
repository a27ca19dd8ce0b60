// cat.go implements "blockd cat" for reading an item.
//
// Terminal output renders the markdown with glamour; pipes and redirects get
// the plain markdown. --html renders sanitized HTML instead.

package item

import (
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/jpl-au/blockd/cmd"
	"github.com/jpl-au/blockd/extension"
	"github.com/jpl-au/blockd/internal/content"
	"github.com/jpl-au/blockd/internal/log"
	"github.com/jpl-au/blockd/internal/render"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func (e *Extension) newCatCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "cat <key>",
		Short: "Read an item",
		Long:  `Render an item as markdown, or as HTML with --html.`,
		Args:  cobra.ExactArgs(1),
		RunE:  e.runCat,
	}
	c.Flags().IntP(extension.FlagVersion, "v", 0, "Read specific version")
	c.Flags().BoolP(extension.FlagDeleted, "D", false, "Read a deleted item")
	c.Flags().Bool(extension.FlagRaw, false, "Output raw markdown without rendering")
	c.Flags().Bool(extension.FlagHTML, false, "Output sanitized HTML")
	return c
}

func (e *Extension) runCat(c *cobra.Command, args []string) error {
	ctx := c.Context()
	ver, _ := c.Flags().GetInt(extension.FlagVersion)
	del, _ := c.Flags().GetBool(extension.FlagDeleted)
	raw, _ := c.Flags().GetBool(extension.FlagRaw)
	html, _ := c.Flags().GetBool(extension.FlagHTML)
	key := args[0]

	var it *content.Item
	var err error

	defer func() {
		b := log.Event("item:cat", "read").Author(cmd.Author()).Item(key)
		if it != nil {
			b = b.Version(it.Version)
		}
		b.Write(err)
	}()

	if ver > 0 {
		it, err = e.svc.Version(ctx, key, ver)
	} else {
		it, err = e.svc.Latest(ctx, key, del)
	}
	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("cat %q: %w", key, err))
	}

	if cmd.JSON() {
		return cmd.PrintJSON(it.ToJSON(true))
	}

	if html {
		var out string
		out, err = render.HTML(it)
		if err != nil {
			return cmd.PrintJSONError(fmt.Errorf("cat %q: %w", key, err))
		}
		fmt.Fprint(cmd.Out(), out)
		return nil
	}

	md := render.Markdown(it)
	if !raw && term.IsTerminal(int(os.Stdout.Fd())) {
		if rendered, renderErr := glamour.Render(md, "dark"); renderErr == nil {
			fmt.Fprint(cmd.Out(), rendered)
			return nil
		}
	}
	fmt.Fprint(cmd.Out(), md)
	return nil
}
