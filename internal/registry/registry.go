// Package registry provides the immutable kind → strategy lookup table shared
// by the sanitizer and validator registries.
//
// A Table is built once during composition from a list of strategies and is
// read-only afterwards, so it can be shared across goroutines without
// locking. Registering two strategies for the same kind is a configuration
// error reported by New; callers treat it as fatal at startup.
package registry

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrDuplicateKind is returned when two strategies claim the same kind.
var ErrDuplicateKind = errors.New("kind already registered")

// ErrEmptyKind is returned when a strategy reports an empty kind.
var ErrEmptyKind = errors.New("strategy kind is empty")

// Kinded is implemented by every block strategy.
type Kinded interface {
	// Kind returns the single block kind this strategy handles.
	Kind() string
}

// Table maps normalised kind tokens to strategies.
type Table[S Kinded] struct {
	entries map[string]S
	order   []string // registration order
}

// New builds a Table from strategies in order.
func New[S Kinded](strategies ...S) (*Table[S], error) {
	t := &Table[S]{entries: make(map[string]S, len(strategies))}
	for _, s := range strategies {
		if err := t.register(s); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func (t *Table[S]) register(s S) error {
	kind := Normalise(s.Kind())
	if kind == "" {
		return fmt.Errorf("%w: %T", ErrEmptyKind, s)
	}
	if _, exists := t.entries[kind]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateKind, kind)
	}
	t.entries[kind] = s
	t.order = append(t.order, kind)
	return nil
}

// Lookup returns the strategy for kind. The kind is normalised first, so
// "Markdown " finds the strategy registered as "markdown".
func (t *Table[S]) Lookup(kind string) (S, bool) {
	s, ok := t.entries[Normalise(kind)]
	return s, ok
}

// Kinds returns the registered kinds sorted alphabetically.
func (t *Table[S]) Kinds() []string {
	kinds := make([]string, len(t.order))
	copy(kinds, t.order)
	sort.Strings(kinds)
	return kinds
}

// All returns the strategies in registration order.
func (t *Table[S]) All() []S {
	all := make([]S, 0, len(t.order))
	for _, k := range t.order {
		all = append(all, t.entries[k])
	}
	return all
}

// Len returns the number of registered strategies.
func (t *Table[S]) Len() int {
	return len(t.order)
}

// Normalise converts a kind token to its lookup form.
func Normalise(kind string) string {
	return strings.ToLower(strings.TrimSpace(kind))
}
