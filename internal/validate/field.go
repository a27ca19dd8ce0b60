// field.go defines field paths used as error keys.
//
// Block-level paths are built from a scope, an index and a field name
// rather than by ad-hoc string concatenation, so every producer formats
// them the same way ("blocks.2.source").

package validate

import (
	"strconv"
	"strings"
)

// Reserved error keys that are not field paths.
const (
	// General collects violations that do not belong to a single field,
	// such as unknown top-level keys or blocks of an unsupported kind.
	General = "general"

	// Sanitization holds the single error produced when the request could
	// not be sanitized at all. It never mixes with field paths.
	Sanitization = "sanitization"
)

// Field identifies where in a request an error occurred.
type Field struct {
	Scope string // enclosing list, e.g. "blocks"; empty at top level
	Index int    // position within Scope; ignored when Scope is empty
	Name  string // field name, e.g. "source"; empty for the entry itself
}

// TopField returns the path of a top-level field.
func TopField(name string) Field {
	return Field{Name: name}
}

// BlockField returns the path of a field inside the block at index.
func BlockField(index int, name string) Field {
	return Field{Scope: "blocks", Index: index, Name: name}
}

// String formats the path in dot notation.
func (f Field) String() string {
	if f.Scope == "" {
		return f.Name
	}
	var b strings.Builder
	b.WriteString(f.Scope)
	b.WriteByte('.')
	b.WriteString(strconv.Itoa(f.Index))
	if f.Name != "" {
		b.WriteByte('.')
		b.WriteString(f.Name)
	}
	return b.String()
}

// ParseField parses a dot-notation path. Paths without a numeric second
// segment are treated as top-level names.
func ParseField(s string) Field {
	parts := strings.SplitN(s, ".", 3)
	if len(parts) < 2 {
		return Field{Name: s}
	}
	idx, err := strconv.Atoi(parts[1])
	if err != nil || idx < 0 {
		return Field{Name: s}
	}
	f := Field{Scope: parts[0], Index: idx}
	if len(parts) == 3 {
		f.Name = parts[2]
	}
	return f
}
