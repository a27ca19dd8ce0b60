// Package exporter writes stored items to the filesystem, one file per
// item named after its key.
//
// Markdown and HTML exports are for reading. The JSON format writes the
// content request that recreates the item, so "blockd import" can load an
// export into another store.
package exporter

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/jpl-au/blockd/internal/content"
	"github.com/jpl-au/blockd/internal/progress"
	"github.com/jpl-au/blockd/internal/render"
	"github.com/jpl-au/blockd/internal/service"
	"github.com/jpl-au/blockd/internal/store"
)

// Export formats.
const (
	FormatMarkdown = "md"
	FormatHTML     = "html"
	FormatJSON     = "json"
)

// Formats lists the accepted export formats.
func Formats() []string {
	return []string{FormatMarkdown, FormatHTML, FormatJSON}
}

// Options configures an export operation.
type Options struct {
	Keys   []string // Items to export; empty exports every item
	Type   string   // Only items of this content type (ignored with Keys)
	Format string   // md (default), html or json
	Force  bool     // Overwrite existing files
}

// Exported records one written file.
type Exported struct {
	Key     string `json:"key"`
	Version int    `json:"version"`
	Path    string `json:"path"`
}

// Result contains the outcome of an export operation.
type Result struct {
	Exported []Exported `json:"exported"`
}

// Run exports items into the directory dst, creating it if needed.
func Run(ctx context.Context, w io.Writer, svc service.Service, dst string, opts Options) (Result, error) {
	result := Result{Exported: []Exported{}}

	if opts.Format == "" {
		opts.Format = FormatMarkdown
	}
	encode, err := encoder(opts.Format)
	if err != nil {
		return result, err
	}

	keys := opts.Keys
	if len(keys) == 0 {
		metas, err := svc.List(ctx, store.ListOptions{Type: opts.Type})
		if err != nil {
			return result, err
		}
		for _, m := range metas {
			keys = append(keys, m.Key)
		}
	}
	if len(keys) == 0 {
		return result, nil
	}

	if err := os.MkdirAll(dst, 0o755); err != nil {
		return result, fmt.Errorf("creating destination directory: %w", err)
	}
	root, err := os.OpenRoot(dst)
	if err != nil {
		return result, fmt.Errorf("opening destination root: %w", err)
	}
	defer root.Close()

	prog := progress.New("Exporting", len(keys))
	defer prog.Done()

	for _, key := range keys {
		it, err := svc.Latest(ctx, key, false)
		if err != nil {
			return result, fmt.Errorf("reading %s: %w", key, err)
		}
		data, err := encode(it)
		if err != nil {
			return result, fmt.Errorf("encoding %s: %w", key, err)
		}

		name := key + "." + opts.Format
		if err := writeFileInRoot(root, name, data, opts.Force); err != nil {
			return result, err
		}

		out := filepath.Join(dst, name)
		result.Exported = append(result.Exported, Exported{Key: key, Version: it.Version, Path: out})
		fmt.Fprintf(w, "Exported: %s v%d -> %s\n", key, it.Version, out)
		prog.Increment()
	}
	return result, nil
}

func encoder(format string) (func(*content.Item) ([]byte, error), error) {
	switch format {
	case FormatMarkdown:
		return func(it *content.Item) ([]byte, error) {
			return []byte(render.Markdown(it)), nil
		}, nil
	case FormatHTML:
		return func(it *content.Item) ([]byte, error) {
			s, err := render.HTML(it)
			return []byte(s), err
		}, nil
	case FormatJSON:
		return func(it *content.Item) ([]byte, error) {
			b, err := store.MarshalJSON(it.Data())
			return append(b, '\n'), err
		}, nil
	}
	return nil, fmt.Errorf("unknown format %q (valid: %v)", format, Formats())
}

// writeFileInRoot writes data to name within root, refusing to replace an
// existing file unless force is set.
func writeFileInRoot(root *os.Root, name string, data []byte, force bool) error {
	if !force {
		if _, err := root.Stat(name); err == nil {
			return fmt.Errorf("file exists: %s (use --force to overwrite)", name)
		} else if !os.IsNotExist(err) {
			return err
		}
	}
	if err := root.WriteFile(name, data, fs.FileMode(0o644)); err != nil {
		return fmt.Errorf("writing %s: %w", name, err)
	}
	return nil
}
