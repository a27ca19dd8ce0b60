// Package importer loads content requests from JSON files into blockd.
//
// Every file goes through the same pipeline as "blockd create". A file that
// fails to decode or validate is reported and skipped; the rest of the batch
// still imports. Only store failures stop the run.
package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/jpl-au/blockd/internal/content"
	"github.com/jpl-au/blockd/internal/library"
	"github.com/jpl-au/blockd/internal/progress"
	"github.com/jpl-au/blockd/internal/validate"
)

// Ext is the file extension of importable content requests.
const Ext = ".json"

// Validator checks content without storing it.
type Validator interface {
	Validate(raw content.Raw, mode validate.Mode) validate.Result
}

// Creator stores content as a new item.
type Creator interface {
	Create(ctx context.Context, raw content.Raw, author, message string) (*content.Item, validate.Result, error)
}

// Options configures an import operation.
type Options struct {
	Hidden bool   // Include hidden files and directories
	Author string // Author for imported items
	Msg    string // Version message for imported items
}

// Failure describes a file that could not be imported.
type Failure struct {
	File   string           `json:"file"`
	Error  string           `json:"error"`
	Result *validate.Result `json:"result,omitempty"`
}

// Imported records a file stored as a new item.
type Imported struct {
	File string `json:"file"`
	Key  string `json:"key"`
}

// Result contains the outcome of an import operation.
type Result struct {
	Files    []string   `json:"files"`
	Imported []Imported `json:"imported"`
	Valid    []string   `json:"valid,omitempty"`
	Failed   []Failure  `json:"failed"`
}

// Run imports src, a JSON file or a directory searched recursively for
// JSON files, creating one item per valid file.
func Run(ctx context.Context, w io.Writer, c Creator, src string, opts Options) (Result, error) {
	return walk(w, src, opts, "Importing", func(rel string, raw content.Raw, res *Result) error {
		it, vr, err := c.Create(ctx, raw, opts.Author, opts.Msg)
		if errors.Is(err, library.ErrInvalid) {
			res.Failed = append(res.Failed, Failure{File: rel, Error: err.Error(), Result: &vr})
			fmt.Fprintf(w, "Invalid: %s (%d error(s))\n", rel, vr.ErrorCount())
			return nil
		}
		if err != nil {
			return fmt.Errorf("importing %s: %w", rel, err)
		}
		res.Imported = append(res.Imported, Imported{File: rel, Key: it.Key})
		fmt.Fprintf(w, "Imported: %s -> %s\n", rel, it.Key)
		return nil
	})
}

// Check validates every file Run would import without storing anything.
func Check(w io.Writer, v Validator, src string, opts Options) (Result, error) {
	return walk(w, src, opts, "Validating", func(rel string, raw content.Raw, res *Result) error {
		vr := v.Validate(raw, validate.Create)
		if !vr.Valid() {
			res.Failed = append(res.Failed, Failure{File: rel, Error: "content is invalid", Result: &vr})
			fmt.Fprintf(w, "Invalid: %s (%d error(s))\n", rel, vr.ErrorCount())
			return nil
		}
		res.Valid = append(res.Valid, rel)
		fmt.Fprintf(w, "Would import: %s\n", rel)
		return nil
	})
}

// walk decodes each file under src and hands it to fn. Files that do not
// decode are recorded as failures without reaching fn.
func walk(w io.Writer, src string, opts Options, label string, fn func(rel string, raw content.Raw, res *Result) error) (Result, error) {
	result := Result{Imported: []Imported{}, Failed: []Failure{}}

	info, err := os.Stat(src)
	if err != nil {
		return result, err
	}

	if !info.IsDir() {
		data, err := os.ReadFile(src)
		if err != nil {
			return result, err
		}
		result.Files = []string{src}
		return result, handle(w, src, data, &result, fn)
	}

	root, err := os.OpenRoot(src)
	if err != nil {
		return result, fmt.Errorf("opening source root: %w", err)
	}
	defer root.Close()

	files, err := scanRoot(root, "", opts.Hidden)
	if err != nil {
		return result, fmt.Errorf("scanning %s: %w", src, err)
	}
	result.Files = files

	prog := progress.New(label, len(files))
	defer prog.Done()

	for _, rel := range files {
		data, err := root.ReadFile(rel)
		if err != nil {
			return result, fmt.Errorf("reading %s: %w", rel, err)
		}
		if err := handle(w, rel, data, &result, fn); err != nil {
			return result, err
		}
		prog.Increment()
	}
	return result, nil
}

func handle(w io.Writer, rel string, data []byte, res *Result, fn func(string, content.Raw, *Result) error) error {
	raw, err := content.ParseRaw(data)
	if err != nil {
		res.Failed = append(res.Failed, Failure{File: rel, Error: err.Error()})
		fmt.Fprintf(w, "Invalid: %s (%v)\n", rel, err)
		return nil
	}
	return fn(rel, raw, res)
}

// scanRoot recursively finds JSON files within an os.Root, returning paths
// relative to the root in name order.
func scanRoot(root *os.Root, dir string, includeHidden bool) ([]string, error) {
	path := dir
	if path == "" {
		path = "."
	}

	f, err := root.Open(path)
	if err != nil {
		return nil, err
	}
	entries, err := f.ReadDir(-1)
	f.Close()
	if err != nil {
		return nil, err
	}

	slices.SortFunc(entries, func(a, b os.DirEntry) int {
		return strings.Compare(a.Name(), b.Name())
	})

	var files []string
	for _, entry := range entries {
		name := entry.Name()
		if !includeHidden && strings.HasPrefix(name, ".") {
			continue
		}

		rel := name
		if dir != "" {
			rel = filepath.Join(dir, name)
		}

		if entry.IsDir() {
			sub, err := scanRoot(root, rel, includeHidden)
			if err != nil {
				return nil, err
			}
			files = append(files, sub...)
		} else if strings.EqualFold(filepath.Ext(name), Ext) {
			files = append(files, rel)
		}
	}
	return files, nil
}
