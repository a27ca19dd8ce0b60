package library_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jpl-au/blockd/internal/config"
	"github.com/jpl-au/blockd/internal/content"
	"github.com/jpl-au/blockd/internal/library"
	"github.com/jpl-au/blockd/internal/repo"
)

// tempLibrary creates a temporary blockd store for examples.
func tempLibrary() (*library.Service, func()) {
	dir, err := os.MkdirTemp("", "blockd-example-*")
	if err != nil {
		panic(err)
	}
	if err := library.Init(false, "", false, dir); err != nil {
		panic(err)
	}
	svc, err := library.Open(filepath.Join(dir, repo.Dir, repo.DBFile), &config.Config{})
	if err != nil {
		panic(err)
	}
	cleanup := func() {
		svc.Close()
		os.RemoveAll(dir)
	}
	return svc, cleanup
}

func Example_create() {
	svc, cleanup := tempLibrary()
	defer cleanup()
	ctx := context.Background()

	it, _, err := svc.Create(ctx, content.Raw{
		"type":  " blog post ",
		"title": "  Hello,   World  ",
		"blocks": []any{
			map[string]any{"kind": "Markdown", "source": "First paragraph.\r\n"},
		},
	}, "alice", "first draft")
	if err != nil {
		panic(err)
	}

	fmt.Println(it.Version)
	fmt.Println(it.Type)
	fmt.Println(it.Title)
	fmt.Printf("%q\n", it.Blocks[0]["source"])
	// Output:
	// 1
	// blogpost
	// Hello, World
	// "First paragraph.\n"
}

func Example_invalid() {
	svc, cleanup := tempLibrary()
	defer cleanup()

	_, res, err := svc.Create(context.Background(), content.Raw{
		"type": "note",
		"blocks": []any{
			map[string]any{"kind": "markdown", "source": "ok"},
			map[string]any{"kind": "html", "source": "   "},
		},
	}, "alice", "")

	fmt.Println(errors.Is(err, library.ErrInvalid))
	for _, f := range res.Fields() {
		fmt.Println(f, res.FieldErrors(f))
	}
	// Output:
	// true
	// blocks.1.source [source cannot be empty]
}
