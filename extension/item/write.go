// write.go implements "blockd create" and "blockd update".
//
// Both read a JSON content request from a file or stdin and run it through
// the pipeline. Rejected content prints every violation and stores nothing.

package item

import (
	"errors"
	"fmt"

	"github.com/jpl-au/blockd/cmd"
	"github.com/jpl-au/blockd/extension"
	"github.com/jpl-au/blockd/internal/content"
	"github.com/jpl-au/blockd/internal/library"
	"github.com/jpl-au/blockd/internal/log"
	"github.com/spf13/cobra"
)

// writeResult contains the outcome of a write.
type writeResult struct {
	Key     string `json:"key"`
	Version int    `json:"version"`
}

func (e *Extension) newCreateCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "create [file]",
		Short: "Create an item",
		Long: `Create an item from a JSON content request read from a file or stdin.

  blockd create post.json
  echo '{"type":"note","blocks":[{"kind":"markdown","source":"Hi"}]}' | blockd create`,
		Args: cobra.MaximumNArgs(1),
		RunE: e.runCreate,
	}
	c.Flags().StringP(extension.FlagFile, "f", "", "Read content from file")
	return c
}

func (e *Extension) newUpdateCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "update <key> [file]",
		Short: "Update an item",
		Long: `Store a new version of an item. Only the fields present in the request
are replaced; the rest are carried over from the latest version.

  blockd update 5f0c... patch.json
  echo '{"title":"New title"}' | blockd update 5f0c...`,
		Args: cobra.RangeArgs(1, 2),
		RunE: e.runUpdate,
	}
	c.Flags().StringP(extension.FlagFile, "f", "", "Read content from file")
	return c
}

func (e *Extension) runCreate(c *cobra.Command, args []string) error {
	file, _ := c.Flags().GetString(extension.FlagFile)
	if len(args) > 0 {
		file = args[0]
	}
	raw, err := cmd.ReadContent(file)
	if err != nil {
		return cmd.PrintJSONError(err)
	}

	it, res, err := e.svc.Create(c.Context(), raw, cmd.Author(), cmd.Message())

	b := log.Event("item:create", "create").Author(cmd.Author())
	if it != nil {
		b = b.Item(it.Key).ResultVersion(it.Version)
	}
	b.Detail("errors", res.ErrorCount()).Write(err)

	if rerr := reportInvalid(c, err, res); rerr != nil {
		return rerr
	}
	if err != nil {
		return cmd.PrintJSONError(err)
	}
	return printWrite("Created", it)
}

func (e *Extension) runUpdate(c *cobra.Command, args []string) error {
	key := args[0]
	file, _ := c.Flags().GetString(extension.FlagFile)
	if len(args) > 1 {
		file = args[1]
	}
	raw, err := cmd.ReadContent(file)
	if err != nil {
		return cmd.PrintJSONError(err)
	}

	it, res, err := e.svc.Update(c.Context(), key, raw, cmd.Author(), cmd.Message())

	b := log.Event("item:update", "update").Author(cmd.Author()).Item(key)
	if it != nil {
		b = b.ResultVersion(it.Version)
	}
	b.Detail("errors", res.ErrorCount()).Write(err)

	if rerr := reportInvalid(c, err, res); rerr != nil {
		return rerr
	}
	if errors.Is(err, library.ErrUnchanged) {
		if !cmd.JSON() {
			fmt.Fprintf(cmd.Out(), "No changes to %s (v%d)\n", it.Key, it.Version)
		}
		return cmd.PrintJSON(writeResult{Key: it.Key, Version: it.Version})
	}
	if err != nil {
		return cmd.PrintJSONError(err)
	}
	return printWrite("Updated", it)
}

func printWrite(verb string, it *content.Item) error {
	if !cmd.JSON() {
		fmt.Fprintf(cmd.Out(), "%s %s v%d\n", verb, it.Key, it.Version)
	}
	return cmd.PrintJSON(writeResult{Key: it.Key, Version: it.Version})
}
