// item.go defines the Item entity and its factory.
//
// Items are only ever built from sanitized, validated Data. The factory does
// not repeat business rules; it checks that the fields it needs are present
// with the right types and copies them into a typed value.

package content

import (
	"errors"
	"fmt"
	"time"
)

// ErrIncomplete is returned by New when sanitized data lacks a field the
// entity cannot exist without.
var ErrIncomplete = errors.New("incomplete content data")

// Item is a single version of a stored content item.
type Item struct {
	ID        int64   // Database primary key (internal)
	Key       string  // Stable item identifier shared by all versions
	Version   int     // Version number (1, 2, 3, ...)
	Type      string  // Content type token
	Title     string  // Optional title ("" when absent)
	Summary   string  // Optional summary ("" when absent)
	Blocks    []Block // Ordered content blocks
	Author    string  // Who created this version
	Message   string  // Message for this version
	CreatedAt int64   // Unix timestamp of creation
	DeletedAt *int64  // Unix timestamp of deletion, nil if not deleted
}

// New builds an Item from sanitized data. Type and blocks are required.
func New(d Data) (*Item, error) {
	typ, ok := d.String(FieldType)
	if !ok || typ == "" {
		return nil, fmt.Errorf("%w: missing %s", ErrIncomplete, FieldType)
	}
	blocks, ok := d.Blocks()
	if !ok || len(blocks) == 0 {
		return nil, fmt.Errorf("%w: missing %s", ErrIncomplete, FieldBlocks)
	}

	it := &Item{Type: typ}
	it.Title, _ = d.String(FieldTitle)
	it.Summary, _ = d.String(FieldSummary)
	it.Blocks = cloneBlocks(blocks)
	return it, nil
}

// Apply returns a new Item with every field present in d replaced. Fields
// absent from d keep their current value. Identity and history fields are
// carried over for the caller to update.
func (it *Item) Apply(d Data) *Item {
	next := *it
	next.Blocks = cloneBlocks(it.Blocks)
	if v, ok := d.String(FieldType); ok {
		next.Type = v
	}
	if v, ok := d.String(FieldTitle); ok {
		next.Title = v
	}
	if v, ok := d.String(FieldSummary); ok {
		next.Summary = v
	}
	if v, ok := d.Blocks(); ok {
		next.Blocks = cloneBlocks(v)
	}
	return &next
}

// Data converts the item back into sanitized form. Empty optional fields are
// omitted, matching what the sanitizer produces.
func (it *Item) Data() Data {
	d := Data{
		FieldType:   it.Type,
		FieldBlocks: cloneBlocks(it.Blocks),
	}
	if it.Title != "" {
		d[FieldTitle] = it.Title
	}
	if it.Summary != "" {
		d[FieldSummary] = it.Summary
	}
	return d
}

func cloneBlocks(in []Block) []Block {
	out := make([]Block, len(in))
	for i, b := range in {
		out[i] = b.Clone()
	}
	return out
}

// ItemJSON is the API representation of an Item with an RFC3339 timestamp.
type ItemJSON struct {
	Key       string  `json:"key"`
	Version   int     `json:"version"`
	Type      string  `json:"type"`
	Title     string  `json:"title,omitempty"`
	Summary   string  `json:"summary,omitempty"`
	Blocks    []Block `json:"blocks,omitempty"`
	Author    string  `json:"author"`
	Message   string  `json:"message,omitempty"`
	CreatedAt string  `json:"created_at"`
	Deleted   bool    `json:"deleted,omitempty"`
}

// ToJSON converts an Item to its API representation. The blocks parameter
// controls whether block payloads are included.
func (it *Item) ToJSON(blocks bool) ItemJSON {
	j := ItemJSON{
		Key:       it.Key,
		Version:   it.Version,
		Type:      it.Type,
		Title:     it.Title,
		Summary:   it.Summary,
		Author:    it.Author,
		Message:   it.Message,
		CreatedAt: time.Unix(it.CreatedAt, 0).UTC().Format(time.RFC3339),
		Deleted:   it.DeletedAt != nil,
	}
	if blocks {
		j.Blocks = it.Blocks
	}
	return j
}
