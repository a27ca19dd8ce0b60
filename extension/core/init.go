// init.go holds "blockd init". It only creates the database; limits are
// set afterwards with "blockd config".

package core

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/jpl-au/blockd/cmd"
	"github.com/jpl-au/blockd/extension"
	"github.com/jpl-au/blockd/internal/library"
	"github.com/jpl-au/blockd/internal/log"
	"github.com/jpl-au/blockd/internal/repo"
	"github.com/spf13/cobra"
)

var errLocalWithDir = errors.New("--local changes this project's .gitignore and cannot be combined with --dir")

func newInitCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "init",
		Short: "Create a blockd store",
		Long: `Create .blockd/blockd.db under the current directory.

  blockd init                   # .blockd/blockd.db
  blockd init --db drafts       # .blockd/blockd-drafts.db alongside it
  blockd init --dir ../other    # ../other/.blockd/blockd.db
  blockd init --db scratch -l   # gitignored, never committed

Limits start at their defaults; change them with "blockd config".`,
		RunE: runInit,
	}
	c.Flags().BoolP(extension.FlagLocal, "l", false, "Keep the database out of git")
	return c
}

type initResult struct {
	Path  string `json:"path"`
	Local bool   `json:"local"`
}

func runInit(c *cobra.Command, _ []string) error {
	local, _ := c.Flags().GetBool(extension.FlagLocal)
	name, dir := cmd.DB(), cmd.Dir()
	if local && dir != "" {
		return cmd.PrintJSONError(errLocalWithDir)
	}

	err := library.Init(cmd.Force(), name, local, dir)
	log.Event("core:init", "init").
		Author(cmd.Author()).
		Detail("db", name).
		Detail("dir", dir).
		Detail("local", local).
		Write(err)
	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("init: %w", err))
	}

	res := initResult{Path: filepath.Join(dir, repo.Dir, repo.DBFileName(name)), Local: local}
	if cmd.JSON() {
		return cmd.PrintJSON(res)
	}
	fmt.Fprintf(cmd.Out(), "Initialised blockd store in %s\n", res.Path)
	return nil
}
