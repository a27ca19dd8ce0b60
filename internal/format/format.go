// Package format provides output formatting utilities for CLI display.
//
// Commands focus on the operation while this package handles presentation:
// column alignment, validation reports and version diffs.
package format

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"time"

	"github.com/jpl-au/blockd/internal/content"
	"github.com/jpl-au/blockd/internal/diff"
	"github.com/jpl-au/blockd/internal/pipeline"
	"github.com/jpl-au/blockd/internal/render"
	"github.com/jpl-au/blockd/internal/store"
	"github.com/jpl-au/blockd/internal/validate"
)

const (
	dateTime = "2006-01-02 15:04"
	date     = "2006-01-02"
)

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// List prints items one per line as "key  type  title".
func List(w io.Writer, metas []store.ItemMeta) error {
	for _, m := range metas {
		prefix := ""
		if m.DeletedAt != nil {
			prefix = "[deleted] "
		}
		fmt.Fprintf(w, "%s  %s%s  %s\n", m.Key, prefix, m.Type, orDash(m.Title))
	}
	return nil
}

// Long prints item metadata in columns.
//
// Column order is VER, KEY, BLOCKS, UPDATED, TYPE, AUTHOR, TITLE. Fixed-width
// columns come first; the variable-width TITLE goes last.
func Long(w io.Writer, metas []store.ItemMeta) error {
	if len(metas) == 0 {
		return nil
	}

	maxType, maxAuthor := len("TYPE"), len("AUTHOR")
	for _, m := range metas {
		maxType = max(maxType, len(m.Type))
		maxAuthor = max(maxAuthor, len(orDash(m.Author)))
	}

	fmt.Fprintf(w, "%4s  %-36s  %6s  %-16s  %-*s  %-*s  %s\n",
		"VER", "KEY", "BLOCKS", "UPDATED", maxType, "TYPE", maxAuthor, "AUTHOR", "TITLE")

	for _, m := range metas {
		deleted := ""
		if m.DeletedAt != nil {
			deleted = " [deleted]"
		}
		fmt.Fprintf(w, "%4d  %-36s  %6d  %s  %-*s  %-*s  %s%s\n",
			m.Version, m.Key, m.Blocks, time.Unix(m.CreatedAt, 0).Format(dateTime),
			maxType, m.Type, maxAuthor, orDash(m.Author), orDash(m.Title), deleted)
	}
	return nil
}

// History prints version history, one version per line.
func History(w io.Writer, items []content.Item) error {
	for _, it := range items {
		msg := "-"
		if it.Message != "" {
			msg = strconv.Quote(it.Message)
		}
		fmt.Fprintf(w, "v%-3d  %s  %-16s  %s\n",
			it.Version,
			time.Unix(it.CreatedAt, 0).Format(dateTime),
			it.Author,
			msg,
		)
	}
	return nil
}

// HistoryDiff prints version history with a diff between each pair of
// consecutive versions. items must be newest first.
func HistoryDiff(w io.Writer, items []content.Item, colour bool) error {
	for i := 0; i < len(items)-1; i++ {
		newer, older := &items[i], &items[i+1]

		fmt.Fprintf(w, "=== v%d -> v%d (%s by %s) ===\n",
			older.Version, newer.Version,
			time.Unix(newer.CreatedAt, 0).Format(dateTime),
			newer.Author,
		)
		if newer.Message != "" {
			fmt.Fprintf(w, "Message: %s\n", newer.Message)
		}

		r := diff.Compute(render.Markdown(older), render.Markdown(newer),
			"v"+strconv.Itoa(older.Version), "v"+strconv.Itoa(newer.Version))
		fmt.Fprint(w, r.Format(colour))
		fmt.Fprintln(w)
	}
	return nil
}

// Result prints a validation result: "valid" or every field and message in
// reporting order.
func Result(w io.Writer, res validate.Result) error {
	if res.Valid() {
		fmt.Fprintln(w, "valid")
		return nil
	}
	n := res.ErrorCount()
	if n == 1 {
		fmt.Fprintln(w, "invalid: 1 error")
	} else {
		fmt.Fprintf(w, "invalid: %d errors\n", n)
	}
	for _, f := range res.Fields() {
		for _, msg := range res.FieldErrors(f) {
			fmt.Fprintf(w, "  %s: %s\n", f, msg)
		}
	}
	return nil
}

// Details prints a pipeline trace: sanitizer statistics, every field the
// sanitizer changed as a diff, and the final result.
func Details(w io.Writer, d pipeline.Details, colour bool) error {
	if d.Validation == nil {
		fmt.Fprintln(w, "Sanitization failed")
		return Result(w, d.Result)
	}

	st := d.Stats
	fmt.Fprintf(w, "Fields:  %d processed, %d modified\n", st.FieldsProcessed, st.FieldsModified)
	fmt.Fprintf(w, "Blocks:  %d processed, %d modified\n", st.BlocksProcessed, st.BlocksModified)
	fmt.Fprintf(w, "Length:  %d -> %d characters\n", st.LengthBefore, st.LengthAfter)

	for _, c := range d.Changes {
		fmt.Fprintf(w, "\n--- %s\n", c.Field)
		fmt.Fprint(w, c.Diff.Format(colour))
	}
	fmt.Fprintln(w)
	return Result(w, d.Result)
}

// Stats prints store statistics.
func Stats(w io.Writer, s *store.Stats) error {
	fmt.Fprintf(w, "Items:     %d\n", s.Items)
	fmt.Fprintf(w, "Deleted:   %d\n", s.DeletedItems)
	fmt.Fprintf(w, "Versions:  %d\n", s.TotalVersions)
	fmt.Fprintf(w, "Blocks:    %d\n", s.Blocks)

	kinds := make([]string, 0, len(s.BlocksByKind))
	for k := range s.BlocksByKind {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	for _, k := range kinds {
		fmt.Fprintf(w, "  %-8s %d\n", k, s.BlocksByKind[k])
	}

	fmt.Fprintf(w, "Authors:   %d\n", s.Authors)
	if s.OldestItem > 0 {
		fmt.Fprintf(w, "Oldest:    %s\n", time.Unix(s.OldestItem, 0).Format(date))
		fmt.Fprintf(w, "Newest:    %s\n", time.Unix(s.NewestItem, 0).Format(date))
	}
	if s.OldestDeletedAt > 0 {
		fmt.Fprintf(w, "Oldest deletion: %s\n", time.Unix(s.OldestDeletedAt, 0).Format(date))
	}
	return nil
}
