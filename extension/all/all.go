// Package all imports all built-in blockd extensions.
// Import this package to register all built-in commands.
package all

import (
	// Each extension registers itself via init()
	_ "github.com/jpl-au/blockd/extension/check"
	_ "github.com/jpl-au/blockd/extension/core"
	_ "github.com/jpl-au/blockd/extension/edit"
	_ "github.com/jpl-au/blockd/extension/item"
	_ "github.com/jpl-au/blockd/extension/search"
	_ "github.com/jpl-au/blockd/extension/tag"
	_ "github.com/jpl-au/blockd/extension/transfer"
)
