// Package vacuum handles permanent deletion of soft-deleted items. Deleted
// items stay recoverable with restore until vacuum removes them.
package vacuum

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/jpl-au/blockd/internal/progress"
	"github.com/jpl-au/blockd/internal/service"
	"github.com/jpl-au/blockd/internal/store"
)

// Options configures vacuum scope.
type Options struct {
	OlderThan *time.Duration // Keep deletions newer than this
	DryRun    bool           // Report without deleting
}

// Result reports what was removed.
type Result struct {
	Deleted int      // Rows removed, or items that would be removed in dry-run mode
	Keys    []string // Affected item keys (dry-run mode only)
}

// Run permanently removes soft-deleted items.
func Run(ctx context.Context, w io.Writer, svc service.Service, opts Options) (Result, error) {
	if opts.DryRun {
		return preview(ctx, w, svc, opts)
	}

	var result Result
	spin := progress.NewSpinner("Vacuuming")
	spin.Start()
	count, err := svc.Vacuum(ctx, opts.OlderThan)
	spin.Stop()
	if err != nil {
		return result, err
	}

	result.Deleted = int(count)
	if count == 0 {
		fmt.Fprintln(w, "No items to vacuum")
	} else {
		fmt.Fprintf(w, "Vacuumed %d row(s)\n", count)
	}
	return result, nil
}

// preview lists the items Run would remove.
func preview(ctx context.Context, w io.Writer, svc service.Service, opts Options) (Result, error) {
	var result Result

	items, err := svc.List(ctx, store.ListOptions{DeletedOnly: true})
	if err != nil {
		return result, err
	}

	var cutoff int64
	if opts.OlderThan != nil {
		cutoff = time.Now().Add(-*opts.OlderThan).Unix()
	}

	for _, it := range items {
		if it.DeletedAt == nil {
			continue
		}
		if opts.OlderThan != nil && *it.DeletedAt >= cutoff {
			continue
		}
		fmt.Fprintf(w, "Would delete: %s %s (deleted %s)\n",
			it.Key, it.Title, time.Unix(*it.DeletedAt, 0).Format("2006-01-02 15:04"))
		result.Keys = append(result.Keys, it.Key)
		result.Deleted++
	}

	if result.Deleted == 0 {
		fmt.Fprintln(w, "No items to vacuum")
	} else {
		fmt.Fprintf(w, "\nWould delete %d item(s)\n", result.Deleted)
	}
	return result, nil
}
