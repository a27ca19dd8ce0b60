package item

import (
	"fmt"

	"github.com/jpl-au/blockd/cmd"
	"github.com/jpl-au/blockd/internal/format"
	"github.com/jpl-au/blockd/internal/log"
	"github.com/spf13/cobra"
)

func (e *Extension) newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show store statistics",
		Args:  cobra.NoArgs,
		RunE:  e.runStats,
	}
}

// statsJSON is the JSON form of store.Stats.
type statsJSON struct {
	Items         int64            `json:"items"`
	DeletedItems  int64            `json:"deleted_items"`
	TotalVersions int64            `json:"total_versions"`
	Blocks        int64            `json:"blocks"`
	BlocksByKind  map[string]int64 `json:"blocks_by_kind"`
	Authors       int64            `json:"authors"`
	OldestItem    int64            `json:"oldest_item,omitempty"`
	NewestItem    int64            `json:"newest_item,omitempty"`
}

func (e *Extension) runStats(c *cobra.Command, _ []string) error {
	s, err := e.svc.Stats(c.Context())
	log.Event("item:stats", "stats").Author(cmd.Author()).Write(err)
	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("stats: %w", err))
	}
	if cmd.JSON() {
		return cmd.PrintJSON(statsJSON{
			Items:         s.Items,
			DeletedItems:  s.DeletedItems,
			TotalVersions: s.TotalVersions,
			Blocks:        s.Blocks,
			BlocksByKind:  s.BlocksByKind,
			Authors:       s.Authors,
			OldestItem:    s.OldestItem,
			NewestItem:    s.NewestItem,
		})
	}
	return format.Stats(cmd.Out(), s)
}
