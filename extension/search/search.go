// Package search provides item discovery over content.
// Registers commands: find (FTS5 full-text), grep (regex on rendered
// markdown) and reindex.
//
// The full-text index is the extension's own table. It follows item writes
// through events, and reindex rebuilds it from the store.
package search

import (
	"context"
	"fmt"
	"time"

	"github.com/jpl-au/blockd/extension"
	"github.com/jpl-au/blockd/internal/find"
	"github.com/jpl-au/blockd/internal/service"
	"github.com/spf13/cobra"
)

func init() {
	extension.Register(&Extension{})
}

// Extension implements the search extension.
type Extension struct {
	svc service.Service
}

var (
	_ extension.Extension     = (*Extension)(nil)
	_ extension.Initializable = (*Extension)(nil)
	_ extension.EventHandler  = (*Extension)(nil)
	_ extension.Vacuumable    = (*Extension)(nil)
)

// Name returns "search".
func (e *Extension) Name() string { return "search" }

// Init creates the search index and keeps the shared service.
func (e *Extension) Init(ctx extension.Context) error {
	if err := find.Migrate(ctx.DB()); err != nil {
		return fmt.Errorf("search schema: %w", err)
	}
	e.svc = ctx.Service()
	return nil
}

// Commands returns find, grep and reindex.
func (e *Extension) Commands() []*cobra.Command {
	return []*cobra.Command{
		e.newFindCmd(),
		e.newGrepCmd(),
		e.newReindexCmd(),
	}
}

// HandleEvent indexes the new version after every write. Deletes and
// restores need nothing: visibility is checked at query time.
func (e *Extension) HandleEvent(ctx extension.Context, evt extension.Event) error {
	ev, ok := evt.(extension.ItemWriteEvent)
	if !ok {
		return nil
	}
	bg := context.Background()
	it, err := ctx.Service().Version(bg, ev.Key, ev.Version)
	if err != nil {
		return err
	}
	return find.Index(bg, ctx.DB(), it)
}

// Vacuum drops index rows for items that no longer exist.
func (e *Extension) Vacuum(ctx extension.Context, _ *time.Duration) (int64, error) {
	if err := find.Migrate(ctx.DB()); err != nil {
		return 0, err
	}
	return find.Purge(context.Background(), ctx.DB())
}
