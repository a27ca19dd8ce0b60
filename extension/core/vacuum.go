// vacuum.go implements the "blockd vacuum" command for permanent deletion.
//
// Vacuum is destructive: it asks for confirmation unless --force is set and
// supports --dry-run. It opens its own service so extension tables can be
// vacuumed with the same context.

package core

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/jpl-au/blockd/cmd"
	"github.com/jpl-au/blockd/extension"
	"github.com/jpl-au/blockd/internal/config"
	"github.com/jpl-au/blockd/internal/duration"
	"github.com/jpl-au/blockd/internal/log"
	"github.com/jpl-au/blockd/internal/vacuum"
	"github.com/spf13/cobra"
)

func newVacuumCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "vacuum",
		Short: "Permanently delete soft-deleted items",
		Long: `Permanently delete soft-deleted items and all their versions.

This is irreversible. Use --force to skip confirmation.

Duration formats: 12h (hours), 7d (days), 4w (weeks), 3m (months)`,
		Args: cobra.NoArgs,
		RunE: runVacuum,
	}
	c.Flags().String(extension.FlagOlderThan, "", "Only purge deletions older than duration (e.g., 7d, 4w, 3m)")
	c.Flags().BoolP(extension.FlagDryRun, "n", false, "Show what would be deleted")
	return c
}

func runVacuum(c *cobra.Command, _ []string) error {
	ctx := c.Context()
	olderThan, _ := c.Flags().GetString(extension.FlagOlderThan)
	dryRun, _ := c.Flags().GetBool(extension.FlagDryRun)

	opts := vacuum.Options{DryRun: dryRun}
	if olderThan != "" {
		d, err := duration.Parse(olderThan)
		if err != nil {
			return cmd.PrintJSONError(fmt.Errorf("parse duration %q: %w", olderThan, err))
		}
		opts.OlderThan = &d
	}

	svc, err := cmd.OpenService()
	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("open store: %w", err))
	}
	defer svc.Close()
	log.SetProject(svc.Dir())

	if !dryRun && !cmd.Force() {
		fmt.Fprint(cmd.Out(), "Permanently delete soft-deleted items? This cannot be undone. [y/N] ")
		response, err := bufio.NewReader(cmd.In()).ReadString('\n')
		if err != nil && response == "" {
			return cmd.PrintJSONError(fmt.Errorf("reading confirmation: %w", err))
		}
		response = strings.TrimSpace(strings.ToLower(response))
		if response != "y" && response != "yes" {
			fmt.Fprintln(cmd.Out(), "Cancelled")
			return nil
		}
	}

	w := cmd.Out()
	if cmd.JSON() {
		w = io.Discard
	}
	result, err := vacuum.Run(ctx, w, svc, opts)

	log.Event("core:vacuum", "vacuum").
		Author(cmd.Author()).
		Detail("dry_run", dryRun).
		Detail("older_than", olderThan).
		Detail("count", result.Deleted).
		Write(err)

	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("vacuum: %w", err))
	}
	if dryRun {
		return cmd.PrintJSON(map[string]any{"dry_run": true, "keys": result.Keys, "count": result.Deleted})
	}

	// Extensions with their own tables implement Vacuumable.
	cfg, err := config.Load()
	if err != nil {
		return cmd.PrintJSONError(err)
	}
	extCtx := extension.NewContext(svc, svc.DB(), cfg)
	extra := map[string]int64{}
	for _, v := range extension.Having[extension.Vacuumable]() {
		count, err := v.Vacuum(extCtx, opts.OlderThan)
		if err != nil {
			return cmd.PrintJSONError(fmt.Errorf("vacuum extension %s: %w", v.Name(), err))
		}
		if count > 0 {
			extra[v.Name()] = count
			fmt.Fprintf(w, "Vacuumed %d row(s) from %s\n", count, v.Name())
		}
	}

	return cmd.PrintJSON(map[string]any{"count": result.Deleted, "extensions": extra})
}

