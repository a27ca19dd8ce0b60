package validate

import "unicode/utf8"

// Limits holds the size bounds enforced during validation. Lengths are in
// characters (runes), not bytes.
type Limits struct {
	MaxType    int // max length of type
	MaxTitle   int // max length of title
	MaxSummary int // max length of summary
	MinBlocks  int // min number of blocks when blocks is present
	MaxBlocks  int // max number of blocks
	MaxSource  int // max length of a block's source
}

// Default limits applied when not configured.
const (
	DefaultMaxType    = 50
	DefaultMaxTitle   = 255
	DefaultMaxSummary = 1000
	DefaultMinBlocks  = 1
	DefaultMaxBlocks  = 10
	DefaultMaxSource  = 100_000
)

// DefaultLimits returns the built-in limits.
func DefaultLimits() Limits {
	return Limits{
		MaxType:    DefaultMaxType,
		MaxTitle:   DefaultMaxTitle,
		MaxSummary: DefaultMaxSummary,
		MinBlocks:  DefaultMinBlocks,
		MaxBlocks:  DefaultMaxBlocks,
		MaxSource:  DefaultMaxSource,
	}
}

// Length returns the number of characters in s. Invalid UTF-8 bytes count
// as one character each.
func Length(s string) int {
	return utf8.RuneCountInString(s)
}
