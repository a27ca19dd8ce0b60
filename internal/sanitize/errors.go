// errors.go defines the errors that abort sanitization.
//
// Both error types match ErrSanitization with errors.Is, so callers can
// separate "the request was structurally broken" from every other failure
// without listing the concrete types.

package sanitize

import (
	"errors"
	"fmt"
)

// ErrSanitization is matched by every error returned from sanitization.
var ErrSanitization = errors.New("sanitization failed")

var errNotScalar = errors.New("value must be a scalar")

// ShapeError reports input whose structure cannot be sanitized: a block that
// is not a map, a missing kind, a list where a scalar was expected.
type ShapeError struct {
	Path   string // field path, e.g. "blocks.2" or "title"
	Reason string
}

func (e *ShapeError) Error() string {
	if e.Path == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Reason)
}

// Is reports whether target is ErrSanitization.
func (e *ShapeError) Is(target error) bool {
	return target == ErrSanitization
}

// MissingHandlerError reports a block whose kind has no registered strategy.
// Unknown kinds are never passed through.
type MissingHandlerError struct {
	Kind  string
	Index int // block position, or -1 when not known
}

func (e *MissingHandlerError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("no handler registered for block kind %q", e.Kind)
	}
	return fmt.Sprintf("no handler registered for block kind %q (block %d)", e.Kind, e.Index)
}

// Is reports whether target is ErrSanitization.
func (e *MissingHandlerError) Is(target error) bool {
	return target == ErrSanitization
}
