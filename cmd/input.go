/*
Copyright © 2026 James Lawson (jpl-au) <hello@caelisco.net>
*/

package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/jpl-au/blockd/internal/content"
)

// ReadInput returns the bytes of the named file, or of stdin when path is
// empty or "-".
func ReadInput(path string) ([]byte, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(in)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file %q: %w", path, err)
	}
	return data, nil
}

// ReadContent reads and decodes a JSON content request from path (or stdin).
func ReadContent(path string) (content.Raw, error) {
	data, err := ReadInput(path)
	if err != nil {
		return nil, err
	}
	raw, err := content.ParseRaw(data)
	if err != nil {
		if path == "" || path == "-" {
			return nil, fmt.Errorf("stdin: %w", err)
		}
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return raw, nil
}
