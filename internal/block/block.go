// Package block provides the strategies for each content block kind.
//
// Every kind is a single type that implements both sanitize.Strategy and
// validate.Strategy. Adding a kind means adding a type here and listing it
// in Strategies; neither the sanitizer nor the validator changes.
package block

import (
	"fmt"

	"github.com/jpl-au/blockd/internal/sanitize"
	"github.com/jpl-au/blockd/internal/validate"
)

// Strategy is implemented by every block kind.
type Strategy interface {
	sanitize.Strategy
	validate.Strategy
}

// Strategies returns the built-in block kinds configured with limits.
func Strategies(limits validate.Limits) []Strategy {
	return []Strategy{
		NewMarkdown(limits),
		NewHTML(limits),
		NewCode(limits),
	}
}

// Registries builds the sanitizer and validator registries from strategies.
// A duplicate kind is a configuration error.
func Registries(strategies ...Strategy) (*sanitize.Registry, *validate.Registry, error) {
	ss := make([]sanitize.Strategy, len(strategies))
	vs := make([]validate.Strategy, len(strategies))
	for i, s := range strategies {
		ss[i] = s
		vs[i] = s
	}

	sr, err := sanitize.NewRegistry(ss...)
	if err != nil {
		return nil, nil, err
	}
	vr, err := validate.NewRegistry(vs...)
	if err != nil {
		return nil, nil, err
	}
	return sr, vr, nil
}

// MustRegistries is like Registries but panics on a configuration error.
// It is meant for process start-up, where a duplicate kind is a programming
// mistake rather than a runtime condition.
func MustRegistries(strategies ...Strategy) (*sanitize.Registry, *validate.Registry) {
	sr, vr, err := Registries(strategies...)
	if err != nil {
		panic(fmt.Sprintf("block: %v", err))
	}
	return sr, vr
}
