// Package store defines item persistence types and the Store interface.
// Implementations handle the database work while consumers depend only on
// the interface.
package store

import (
	"encoding/json"
	"time"
)

// ItemMeta describes the latest version of an item without its blocks.
// Use it for listings where block payloads aren't needed.
type ItemMeta struct {
	Key       string // Stable item identifier
	Version   int    // Current version number
	Type      string // Content type token
	Title     string // Title of the current version
	Author    string // Author of the current version
	CreatedAt int64  // Unix timestamp of the current version
	DeletedAt *int64 // Deletion timestamp, nil if not deleted
	Blocks    int    // Number of blocks in the current version
}

// MetaJSON is the API representation of ItemMeta.
type MetaJSON struct {
	Key       string `json:"key"`
	Version   int    `json:"version"`
	Type      string `json:"type"`
	Title     string `json:"title,omitempty"`
	Author    string `json:"author"`
	CreatedAt string `json:"created_at"`
	Blocks    int    `json:"blocks"`
	Deleted   bool   `json:"deleted,omitempty"`
}

// ToJSON converts m to its API representation with an RFC3339 timestamp.
func (m *ItemMeta) ToJSON() MetaJSON {
	return MetaJSON{
		Key:       m.Key,
		Version:   m.Version,
		Type:      m.Type,
		Title:     m.Title,
		Author:    m.Author,
		CreatedAt: time.Unix(m.CreatedAt, 0).UTC().Format(time.RFC3339),
		Blocks:    m.Blocks,
		Deleted:   m.DeletedAt != nil,
	}
}

// MarshalJSON encodes a value with indentation for human-readable CLI output.
func MarshalJSON(v any) ([]byte, error) {
	return json.MarshalIndent(v, "", "  ")
}

// WriteOptions configures a write operation.
type WriteOptions struct {
	Author  string
	Message string
}

// ListOptions filters a listing.
type ListOptions struct {
	Type           string // only items whose latest version has this type
	IncludeDeleted bool   // include soft-deleted items
	DeletedOnly    bool   // only soft-deleted items
}

// Stats provides aggregate database statistics.
type Stats struct {
	Items           int64            // Active (non-deleted) item count
	DeletedItems    int64            // Soft-deleted items pending vacuum
	TotalVersions   int64            // Sum of all item versions
	Blocks          int64            // Block rows across all versions
	BlocksByKind    map[string]int64 // Block rows per kind
	Authors         int64            // Distinct authors
	OldestItem      int64            // Unix timestamp of earliest version
	NewestItem      int64            // Unix timestamp of most recent write
	OldestDeletedAt int64            // Unix timestamp of earliest soft-delete (0 if none)
}
