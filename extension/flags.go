// flags.go defines constants for all CLI flag names.
//
// Naming convention: Flag<PascalCaseName> where name matches the kebab-case
// CLI flag (e.g., "dry-run" -> FlagDryRun).

package extension

// Flag name constants for CLI commands.
// These are used with cobra's Flags().Type() and GetType() methods.
const (
	// Boolean flags

	FlagAll           = "all"            // Include all items (including deleted)
	FlagCount         = "count"          // Only print match counts
	FlagDeleted       = "deleted"        // Include/show deleted items
	FlagDiff          = "diff"           // Show diff output
	FlagDryRun        = "dry-run"        // Preview without making changes
	FlagHTML          = "html"           // Render as HTML
	FlagIgnoreCase    = "ignore-case"    // Case insensitive matching
	FlagIncludeHidden = "include-hidden" // Include hidden files/dirs
	FlagInvertMatch   = "invert-match"   // Select non-matching lines
	FlagKeysOnly      = "keys-only"      // Only output item keys
	FlagLocal         = "local"          // Use local scope (gitignored)
	FlagLong          = "long"           // Long format output
	FlagRaw           = "raw"            // Raw output without formatting
	FlagShare         = "share"          // Mark as shared (committed)
	FlagUpdate        = "update"         // Validate with update-mode rules

	// String flags

	FlagFile      = "file"       // Read content from file
	FlagFormat    = "format"     // Export format
	FlagLines     = "lines"      // Line range (e.g., "5:10")
	FlagMetrics   = "metrics"    // Metrics listen address
	FlagNew       = "new"        // Replacement text
	FlagOld       = "old"        // Text to find
	FlagOlderThan = "older-than" // Duration threshold
	FlagType      = "type"       // Item type filter
	FlagVersions  = "versions"   // Version range (e.g., "3:5")

	// Integer flags

	FlagBlock   = "block"   // Block index
	FlagContext = "context" // Lines of context around matches
	FlagLimit   = "limit"   // Limit number of results
	FlagVersion = "version" // Specific version number
)
