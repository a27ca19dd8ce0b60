// Package guide holds the usage pages shown by "blockd guide" and the
// blockd_guide MCP tool. Pages are embedded so they match the binary.
package guide

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"slices"
	"strings"
)

//go:embed *.md
var files embed.FS

// Default is the page returned for an empty name.
const Default = "guide"

// ErrNotFound is returned for an unknown page.
var ErrNotFound = errors.New("guide not found")

// Get returns the markdown of a page.
func Get(name string) (string, error) {
	if name == "" {
		name = Default
	}
	data, err := files.ReadFile(strings.ToLower(name) + ".md")
	if errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("%w: %q (available: %s)", ErrNotFound, name, strings.Join(List(), ", "))
	}
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// List returns the topic pages, excluding the default page, sorted.
func List() []string {
	entries, _ := files.ReadDir(".")
	var names []string
	for _, e := range entries {
		name := strings.TrimSuffix(e.Name(), ".md")
		if name != Default {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return names
}
