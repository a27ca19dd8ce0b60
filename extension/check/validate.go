// validate.go implements "blockd validate": sanitize and validate content
// requests without storing them.

package check

import (
	"fmt"
	"io"

	"github.com/jpl-au/blockd/cmd"
	"github.com/jpl-au/blockd/extension"
	"github.com/jpl-au/blockd/internal/format"
	"github.com/jpl-au/blockd/internal/log"
	"github.com/jpl-au/blockd/internal/progress"
	"github.com/jpl-au/blockd/internal/validate"
	"github.com/spf13/cobra"
)

// fileResult is the JSON form of one validated input.
type fileResult struct {
	File   string          `json:"file"`
	Result validate.Result `json:"result"`
}

func newValidateCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "validate [file...]",
		Short: "Validate content without storing it",
		Long: `Sanitize and validate JSON content requests. Reads stdin when no file
is given. Every violation is reported with its field path.

  blockd validate post.json
  blockd validate --update patch.json
  cat post.json | blockd validate

Exits with status 1 if any input is invalid.`,
		RunE: runValidate,
	}
	c.Flags().BoolP(extension.FlagUpdate, "u", false, "Apply update rules (every field optional)")
	return c
}

func runValidate(c *cobra.Command, args []string) error {
	p, err := loadPipeline()
	if err != nil {
		return cmd.PrintJSONError(err)
	}
	mode := modeFlag(c)

	files := args
	if len(files) == 0 {
		files = []string{"-"}
	}

	w := cmd.Out()
	if cmd.JSON() {
		w = io.Discard
	}

	prog := progress.New("Validating", len(files))
	results := make([]fileResult, 0, len(files))
	failed := 0
	for _, f := range files {
		raw, err := cmd.ReadContent(f)
		if err != nil {
			prog.Done()
			return cmd.PrintJSONError(err)
		}
		res := p.Validate(raw, mode)
		if !res.Valid() {
			failed++
		}
		results = append(results, fileResult{File: f, Result: res})
		prog.Increment()
	}
	prog.Done()

	log.Event("check:validate", "validate").
		Author(cmd.Author()).
		Detail("mode", mode.String()).
		Detail("inputs", len(files)).
		Detail("invalid", failed).
		Write(nil)

	if len(results) == 1 {
		_ = format.Result(w, results[0].Result)
		if err := cmd.PrintJSON(results[0].Result); err != nil {
			return err
		}
	} else {
		for _, r := range results {
			fmt.Fprintf(w, "%s: ", r.File)
			_ = format.Result(w, r.Result)
		}
		if err := cmd.PrintJSON(results); err != nil {
			return err
		}
	}

	if failed > 0 {
		return invalid(c)
	}
	return nil
}
