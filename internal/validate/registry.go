// registry.go dispatches block validation to the strategy for each kind.

package validate

import (
	"fmt"

	"github.com/jpl-au/blockd/internal/content"
	"github.com/jpl-au/blockd/internal/registry"
)

// Strategy validates blocks of one kind. Results report field names relative
// to the block ("source"); the registry scopes them to the block's position.
type Strategy interface {
	registry.Kinded
	Validate(b content.Block) Result
}

// Registry maps block kinds to validator strategies. It is immutable once
// built.
type Registry struct {
	table *registry.Table[Strategy]
}

// NewRegistry builds a Registry. Two strategies for the same kind return an
// error wrapping registry.ErrDuplicateKind.
func NewRegistry(strategies ...Strategy) (*Registry, error) {
	t, err := registry.New(strategies...)
	if err != nil {
		return nil, fmt.Errorf("validator registry: %w", err)
	}
	return &Registry{table: t}, nil
}

// Lookup returns the strategy registered for kind.
func (r *Registry) Lookup(kind string) (Strategy, bool) {
	return r.table.Lookup(kind)
}

// Kinds returns the registered kinds sorted alphabetically.
func (r *Registry) Kinds() []string {
	return r.table.Kinds()
}

// ValidateBlock validates the block at index and returns a result keyed by
// "blocks.<index>.<field>". A block whose kind has no strategy means the
// sanitizer let it through; it is reported under General.
func (r *Registry) ValidateBlock(index int, b content.Block) Result {
	kind := b.Kind()
	s, ok := r.table.Lookup(kind)
	if !ok {
		return SingleError(General, fmt.Sprintf("block %d has unsupported kind %q", index, kind))
	}
	return s.Validate(b).Nest("blocks", index)
}
