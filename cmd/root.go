/*
Copyright © 2026 James Lawson (jpl-au) <hello@caelisco.net>
*/

// root.go defines the root command and the process entry point. The store
// is opened lazily in prepare, so bootstrap commands such as init, config
// and validate run before any store exists.

package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"slices"

	"github.com/jpl-au/blockd/internal/log"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"
)

var errNoAuthor = errors.New(`author not configured (checked .blockd/config.yaml and ~/.blockd/config.yaml)

Run: blockd config author.name "Your Name"

Or pass --author.`)

var rootCmd = &cobra.Command{
	Use:   "blockd",
	Short: "Sanitize, validate and version block-structured content",
	Long: `A content store for block-structured items. Every request is sanitized,
then validated against the item schema and the rules of each block kind,
before a new version is written.

Start with "blockd guide".`,
	Run: func(c *cobra.Command, _ []string) {
		_ = c.Help()
	},
	PersistentPreRunE: prepare,
}

// prepare checks the global flags, resolves the author and opens the store
// for commands that need one.
func prepare(c *cobra.Command, _ []string) error {
	if globals.output != "" && !slices.Contains(validOutputFormats, globals.output) {
		return fmt.Errorf("invalid output format: %s (valid: %v)", globals.output, validOutputFormats)
	}

	if globals.debug || cast.ToBool(os.Getenv("BLOCKD_DEBUG")) {
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	if globals.author == "" {
		globals.author = configuredAuthor()
	}

	name := topLevelCmdName(c)
	if authorRequiredCommands[name] && globals.author == "" {
		return errNoAuthor
	}
	if noStoreCommands[name] {
		return nil
	}

	if err := initExtensions(); err != nil {
		if JSON() {
			_ = PrintJSON(map[string]string{"error": err.Error()})
			c.SilenceErrors = true
			c.SilenceUsage = true
		}
		return fmt.Errorf("initialise extensions: %w", err)
	}
	return nil
}

// topLevelCmdName returns the direct child of root that c belongs to:
// "config" for "blockd config author.name".
func topLevelCmdName(c *cobra.Command) string {
	for c.HasParent() && c.Parent().HasParent() {
		c = c.Parent()
	}
	return c.Name()
}

// Execute runs the CLI and exits with status 1 on error.
func Execute() {
	if err := log.Open(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: audit log unavailable: %v\n", err)
	}

	registerExtensions()
	err := rootCmd.Execute()

	if extService != nil {
		if cerr := extService.Close(); cerr != nil {
			fmt.Fprintf(os.Stderr, "warning: closing service: %v\n", cerr)
		}
	}
	log.Close()

	if err != nil {
		os.Exit(1)
	}
}

// RootCmd returns the root command.
func RootCmd() *cobra.Command {
	return rootCmd
}
