// details.go implements "blockd details": a diagnostic run of the pipeline
// that shows what sanitization changed before validation ran.

package check

import (
	"io"
	"os"

	"github.com/jpl-au/blockd/cmd"
	"github.com/jpl-au/blockd/extension"
	"github.com/jpl-au/blockd/internal/format"
	"github.com/jpl-au/blockd/internal/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func newDetailsCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "details [file]",
		Short: "Show how content is sanitized and validated",
		Long: `Run the pipeline on a JSON content request and report every stage:
sanitizer statistics, a diff of each field the sanitizer changed, and the
validation result. Reads stdin when no file is given.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runDetails,
	}
	c.Flags().BoolP(extension.FlagUpdate, "u", false, "Apply update rules (every field optional)")
	c.Flags().Bool(extension.FlagRaw, false, "Output without colour")
	return c
}

func runDetails(c *cobra.Command, args []string) error {
	p, err := loadPipeline()
	if err != nil {
		return cmd.PrintJSONError(err)
	}

	file := ""
	if len(args) > 0 {
		file = args[0]
	}
	raw, err := cmd.ReadContent(file)
	if err != nil {
		return cmd.PrintJSONError(err)
	}

	mode := modeFlag(c)
	d := p.Process(raw, mode)

	log.Event("check:details", "details").
		Author(cmd.Author()).
		Detail("mode", mode.String()).
		Detail("changes", len(d.Changes)).
		Write(nil)

	noColour, _ := c.Flags().GetBool(extension.FlagRaw)
	colour := !noColour && term.IsTerminal(int(os.Stdout.Fd()))

	w := cmd.Out()
	if cmd.JSON() {
		w = io.Discard
	}
	_ = format.Details(w, d, colour)
	if err := cmd.PrintJSON(d); err != nil {
		return err
	}

	if !d.Result.Valid() {
		return invalid(c)
	}
	return nil
}
