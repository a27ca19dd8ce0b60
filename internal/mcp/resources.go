// resources.go implements MCP resource handlers for item access.
//
// Resources give read-only access to items by URI so a client can load an
// item into context without a tool call. URIs follow
// blockd://items/{key}[/v/{version}]; without a version the latest is read.

package mcp

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jpl-au/blockd/internal/content"
	"github.com/jpl-au/blockd/internal/render"
	"github.com/mark3labs/mcp-go/mcp"
)

const uriPrefix = "blockd://items/"

var (
	// ErrInvalidURI indicates a malformed resource URI.
	ErrInvalidURI = errors.New("invalid URI")
	// ErrEmptyKey indicates a missing item key in a resource URI.
	ErrEmptyKey = errors.New("empty item key")
)

// readItem handles both item resource templates.
func (h *handlers) readItem(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	if h.svc == nil {
		return nil, errors.New(ErrNotInitialised)
	}

	uri := req.Params.URI
	key, version, err := parseItemURI(uri)
	if err != nil {
		return nil, err
	}

	var it *content.Item
	if version > 0 {
		it, err = h.svc.Version(ctx, key, version)
	} else {
		it, err = h.svc.Latest(ctx, key, false)
	}
	if err != nil {
		return nil, err
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "text/markdown",
			Text:     render.Markdown(it),
		},
	}, nil
}

// parseItemURI extracts key and version from an item URI.
func parseItemURI(uri string) (key string, version int, err error) {
	if !strings.HasPrefix(uri, uriPrefix) {
		return "", 0, fmt.Errorf("%w: %s", ErrInvalidURI, uri)
	}

	rest := strings.TrimPrefix(uri, uriPrefix)
	if rest == "" {
		return "", 0, ErrEmptyKey
	}

	if idx := strings.LastIndex(rest, "/v/"); idx != -1 {
		key = rest[:idx]
		vStr := rest[idx+3:]
		v, err := strconv.Atoi(vStr)
		if err != nil || v < 1 {
			return "", 0, fmt.Errorf("%w: invalid version %s", ErrInvalidURI, vStr)
		}
		if key == "" {
			return "", 0, ErrEmptyKey
		}
		return key, v, nil
	}

	if strings.Contains(rest, "/") {
		return "", 0, fmt.Errorf("%w: %s", ErrInvalidURI, uri)
	}
	return rest, 0, nil
}
