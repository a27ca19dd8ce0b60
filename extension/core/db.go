// db.go implements "blockd db". It reads the .blockd directory listing and
// edits .blockd/.gitignore only, so it works while a store is locked.

package core

import (
	"fmt"
	"path/filepath"

	"github.com/jpl-au/blockd/cmd"
	"github.com/jpl-au/blockd/extension"
	"github.com/jpl-au/blockd/internal/log"
	"github.com/jpl-au/blockd/internal/repo"
	"github.com/spf13/cobra"
)

func newDBCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "db [name]",
		Short: "List item stores or mark them local or shared",
		Long: `List the item stores in .blockd, or change whether one is committed.

  blockd db                    # list stores
  blockd db drafts             # show one store's status
  blockd db drafts --local     # keep blockd-drafts.db out of git
  blockd db drafts --share     # commit it again

Without a name, --local and --share apply to the default store.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runDB,
	}
	c.Flags().BoolP(extension.FlagLocal, "l", false, "Mark store as local")
	c.Flags().BoolP(extension.FlagShare, "s", false, "Mark store as shared")
	c.MarkFlagsMutuallyExclusive(extension.FlagLocal, extension.FlagShare)
	return c
}

// dbStatus is the JSON shape for a single store.
type dbStatus struct {
	File  string `json:"file"`
	Local bool   `json:"local"`
}

func (s dbStatus) String() string {
	if s.Local {
		return s.File + ": local"
	}
	return s.File + ": shared"
}

func runDB(c *cobra.Command, args []string) error {
	local, _ := c.Flags().GetBool(extension.FlagLocal)
	share, _ := c.Flags().GetBool(extension.FlagShare)

	// Empty lets repo discover .blockd from the working directory.
	blockdDir := ""
	if d := cmd.Dir(); d != "" {
		blockdDir = filepath.Join(d, repo.Dir)
	}

	if len(args) == 0 && !local && !share {
		dbs, err := repo.ListDBs(blockdDir)
		log.Event("core:db", "list").Author(cmd.Author()).Write(err)
		if err != nil {
			return cmd.PrintJSONError(fmt.Errorf("db list: %w", err))
		}
		return printDBs(dbs)
	}

	name := ""
	if len(args) > 0 {
		name = args[0]
	}

	var action string
	var err error
	switch {
	case local:
		action, err = "ignore", repo.IgnoreDB(name, blockdDir)
	case share:
		action, err = "unignore", repo.UnignoreDB(name, blockdDir)
	default:
		action = "status"
	}

	st := dbStatus{File: repo.DBFileName(name)}
	if err == nil {
		st.Local, err = repo.IsIgnored(name, blockdDir)
	}

	log.Event("core:db", action).Author(cmd.Author()).Detail("db", st.File).Write(err)

	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("db %s %q: %w", action, st.File, err))
	}
	if !cmd.JSON() {
		fmt.Fprintln(cmd.Out(), st)
	}
	return cmd.PrintJSON(st)
}

func printDBs(dbs []repo.DBInfo) error {
	if cmd.JSON() {
		return cmd.PrintJSON(dbs)
	}
	if len(dbs) == 0 {
		fmt.Fprintln(cmd.Out(), "No databases found")
		return nil
	}
	for _, db := range dbs {
		fmt.Fprintln(cmd.Out(), dbStatus{File: db.File, Local: db.Local})
	}
	return nil
}
