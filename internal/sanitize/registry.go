// registry.go dispatches block sanitization to the strategy for each kind.
//
// The registry is the fail-fast boundary for blocks: a block without a
// usable kind, or with a kind nobody handles, stops the whole call.

package sanitize

import (
	"fmt"

	"github.com/jpl-au/blockd/internal/content"
	"github.com/jpl-au/blockd/internal/registry"
	"github.com/jpl-au/blockd/internal/validate"
)

// Strategy cleans blocks of one kind. Sanitize receives the raw block map
// and returns the normalised block, including its kind. Structural problems
// are reported as *ShapeError with a path relative to the block.
type Strategy interface {
	registry.Kinded
	Sanitize(b content.Block) (content.Block, error)
}

// Registry maps block kinds to sanitizer strategies. It is immutable once
// built.
type Registry struct {
	table *registry.Table[Strategy]
}

// NewRegistry builds a Registry. Two strategies for the same kind return an
// error wrapping registry.ErrDuplicateKind.
func NewRegistry(strategies ...Strategy) (*Registry, error) {
	t, err := registry.New(strategies...)
	if err != nil {
		return nil, fmt.Errorf("sanitizer registry: %w", err)
	}
	return &Registry{table: t}, nil
}

// Kinds returns the registered kinds sorted alphabetically.
func (r *Registry) Kinds() []string {
	return r.table.Kinds()
}

// Lookup returns the strategy registered for kind.
func (r *Registry) Lookup(kind string) (Strategy, bool) {
	return r.table.Lookup(kind)
}

// SanitizeBlock cleans a single block. The kind must be a non-empty string
// with a registered strategy; the strategy's output is returned unmodified.
func (r *Registry) SanitizeBlock(b content.Block) (content.Block, error) {
	raw, ok := b[content.BlockKind]
	if !ok {
		return nil, &ShapeError{Path: content.BlockKind, Reason: "block kind is required"}
	}
	kind, ok := raw.(string)
	if !ok || registry.Normalise(kind) == "" {
		return nil, &ShapeError{Path: content.BlockKind, Reason: "block kind must be a non-empty string"}
	}

	s, ok := r.table.Lookup(kind)
	if !ok {
		return nil, &MissingHandlerError{Kind: kind, Index: -1}
	}
	return s.Sanitize(b)
}

// SanitizeBlocks cleans every block in order. The first failure aborts the
// call and no partial list is returned.
func (r *Registry) SanitizeBlocks(blocks []content.Block) ([]content.Block, error) {
	out := make([]content.Block, 0, len(blocks))
	for i, b := range blocks {
		sb, err := r.SanitizeBlock(b)
		if err != nil {
			return nil, atIndex(err, i)
		}
		out = append(out, sb)
	}
	return out, nil
}

// atIndex places a block-relative error at position i in the block list.
func atIndex(err error, i int) error {
	switch e := err.(type) {
	case *ShapeError:
		f := validate.BlockField(i, e.Path)
		return &ShapeError{Path: f.String(), Reason: e.Reason}
	case *MissingHandlerError:
		return &MissingHandlerError{Kind: e.Kind, Index: i}
	default:
		return fmt.Errorf("block %d: %w", i, err)
	}
}
