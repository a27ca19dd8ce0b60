// Package check provides the extension for running the content pipeline
// without writing anything. Registers commands: validate, details, kinds.
//
// The commands are storeless: they build the pipeline from config alone, so
// content can be checked before a store exists.
package check

import (
	"errors"
	"fmt"

	"github.com/jpl-au/blockd/extension"
	"github.com/jpl-au/blockd/internal/config"
	"github.com/jpl-au/blockd/internal/library"
	"github.com/jpl-au/blockd/internal/pipeline"
	"github.com/jpl-au/blockd/internal/validate"
	"github.com/spf13/cobra"
)

func init() {
	extension.Register(&Extension{})
}

// Extension implements the check extension.
type Extension struct{}

var (
	_ extension.Extension = (*Extension)(nil)
	_ extension.Storeless = (*Extension)(nil)
)

// errInvalid signals a run where some input failed validation. The report
// has already been printed.
var errInvalid = errors.New("content is invalid")

// Name returns "check".
func (e *Extension) Name() string { return "check" }

// Commands returns the pipeline commands.
func (e *Extension) Commands() []*cobra.Command {
	return []*cobra.Command{
		newValidateCmd(),
		newDetailsCmd(),
		newKindsCmd(),
	}
}

// NoStoreCommands returns every command: none of them touch the store.
func (e *Extension) NoStoreCommands() []string {
	return []string{"validate", "details", "kinds"}
}

// loadPipeline builds the pipeline with the configured limits.
func loadPipeline() (*pipeline.Service, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("config load: %w", err)
	}
	return library.Pipeline(cfg)
}

// modeFlag reads --update into a validate.Mode.
func modeFlag(c *cobra.Command) validate.Mode {
	if update, _ := c.Flags().GetBool(extension.FlagUpdate); update {
		return validate.Update
	}
	return validate.Create
}

// invalid finishes a command whose input failed validation: exit status 1
// without cobra repeating the error or printing usage.
func invalid(c *cobra.Command) error {
	c.SilenceUsage = true
	c.SilenceErrors = true
	return errInvalid
}
