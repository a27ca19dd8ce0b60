// Package transfer provides the import and export extension for blockd.
// It registers commands: import, export.
//
// Import is storeless so --dry-run can check a batch of files before a
// store exists. A real import opens the store through cmd.Service, which
// also initialises the other extensions so their event handlers see the
// new items.
package transfer

import (
	"fmt"
	"io"
	"slices"

	"github.com/jpl-au/blockd/cmd"
	"github.com/jpl-au/blockd/extension"
	"github.com/jpl-au/blockd/internal/config"
	"github.com/jpl-au/blockd/internal/exporter"
	"github.com/jpl-au/blockd/internal/importer"
	"github.com/jpl-au/blockd/internal/library"
	"github.com/jpl-au/blockd/internal/log"
	"github.com/spf13/cobra"
)

func init() {
	extension.Register(&Extension{})
}

// Extension implements the transfer extension.
type Extension struct{}

var (
	_ extension.Extension = (*Extension)(nil)
	_ extension.Storeless = (*Extension)(nil)
)

// Name returns "transfer".
func (e *Extension) Name() string { return "transfer" }

// Commands returns import and export.
func (e *Extension) Commands() []*cobra.Command {
	return []*cobra.Command{
		newImportCmd(),
		newExportCmd(),
	}
}

// MCPTools returns nil: bulk filesystem access is left to the CLI.
func (e *Extension) MCPTools() []extension.MCPTool {
	return nil
}

// NoStoreCommands returns import, which opens the store itself unless
// running with --dry-run.
func (e *Extension) NoStoreCommands() []string {
	return []string{"import"}
}

func output() io.Writer {
	if cmd.JSON() {
		return io.Discard
	}
	return cmd.Out()
}

// --- import command ---

func newImportCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "import <path>",
		Short: "Bulk import content requests from JSON files",
		Long: `Import content requests from a JSON file, or from every .json file under
a directory. Each file becomes a new item after passing the pipeline.

Invalid files are reported and skipped; the rest are imported. Exits with
status 1 if any file was rejected.

  blockd import posts/
  blockd import -n posts/      # validate only, no store needed
  blockd export -F json out/ && blockd import out/`,
		Args: cobra.ExactArgs(1),
		RunE: runImport,
	}
	c.Flags().BoolP(extension.FlagDryRun, "n", false, "Validate without importing")
	c.Flags().BoolP(extension.FlagIncludeHidden, "H", false, "Include hidden files and directories")
	return c
}

func runImport(c *cobra.Command, args []string) error {
	src := args[0]
	opts := importer.Options{
		Author: cmd.Author(),
		Msg:    cmd.Message(),
	}
	opts.Hidden, _ = c.Flags().GetBool(extension.FlagIncludeHidden)
	dryRun, _ := c.Flags().GetBool(extension.FlagDryRun)

	var result importer.Result
	var err error
	if dryRun {
		var cfg *config.Config
		if cfg, err = config.Load(); err != nil {
			return cmd.PrintJSONError(fmt.Errorf("config load: %w", err))
		}
		p, perr := library.Pipeline(cfg)
		if perr != nil {
			return cmd.PrintJSONError(perr)
		}
		result, err = importer.Check(output(), p, src, opts)
	} else {
		svc, serr := cmd.Service()
		if serr != nil {
			return cmd.PrintJSONError(fmt.Errorf("open store: %w", serr))
		}
		result, err = importer.Run(c.Context(), output(), svc, src, opts)
	}

	log.Event("transfer:import", "import").
		Author(cmd.Author()).
		Detail("source", src).
		Detail("dry_run", dryRun).
		Detail("count", len(result.Imported)).
		Detail("failed", len(result.Failed)).
		Write(err)

	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("import %q: %w", src, err))
	}

	if !cmd.JSON() {
		switch {
		case len(result.Files) == 0:
			fmt.Fprintf(cmd.Out(), "No JSON files found in %q\n", src)
		case dryRun:
			fmt.Fprintf(cmd.Out(), "\n%d valid, %d invalid\n", len(result.Valid), len(result.Failed))
		default:
			fmt.Fprintf(cmd.Out(), "\nImported %d item(s), %d rejected\n", len(result.Imported), len(result.Failed))
		}
	}
	if err := cmd.PrintJSON(result); err != nil {
		return err
	}

	if len(result.Failed) > 0 {
		c.SilenceUsage = true
		c.SilenceErrors = true
		return fmt.Errorf("%d file(s) rejected", len(result.Failed))
	}
	return nil
}

// --- export command ---

func newExportCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "export <dir> [key...]",
		Short: "Export items to files",
		Long: `Export the latest version of items into a directory, one file per item
named KEY.md, KEY.html or KEY.json. With no keys every item is exported.

The json format writes the content request for each item, ready for
"blockd import".`,
		Args: cobra.MinimumNArgs(1),
		RunE: runExport,
	}
	c.Flags().StringP(extension.FlagFormat, "F", exporter.FormatMarkdown, "Output format: md, html or json")
	c.Flags().StringP(extension.FlagType, "t", "", "Only items of this type")
	return c
}

func runExport(c *cobra.Command, args []string) error {
	dst := args[0]
	opts := exporter.Options{
		Keys:  args[1:],
		Force: cmd.Force(),
	}
	opts.Format, _ = c.Flags().GetString(extension.FlagFormat)
	opts.Type, _ = c.Flags().GetString(extension.FlagType)

	if !slices.Contains(exporter.Formats(), opts.Format) {
		return cmd.PrintJSONError(fmt.Errorf("unknown format %q (valid: %v)", opts.Format, exporter.Formats()))
	}

	svc, err := cmd.Service()
	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("open store: %w", err))
	}
	result, err := exporter.Run(c.Context(), output(), svc, dst, opts)

	log.Event("transfer:export", "export").
		Author(cmd.Author()).
		Detail("dest", dst).
		Detail("format", opts.Format).
		Detail("count", len(result.Exported)).
		Write(err)

	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("export to %q: %w", dst, err))
	}

	if !cmd.JSON() {
		if len(result.Exported) == 0 {
			fmt.Fprintln(cmd.Out(), "No items to export")
		} else {
			fmt.Fprintf(cmd.Out(), "\nExported %d item(s)\n", len(result.Exported))
		}
	}
	return cmd.PrintJSON(result)
}
