// version.go implements the version command.

package core

import (
	"fmt"

	"github.com/jpl-au/blockd/cmd"
	"github.com/jpl-au/blockd/internal/block"
	"github.com/jpl-au/blockd/internal/validate"
	"github.com/jpl-au/blockd/internal/version"
	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  `Print build date, git commit, Go version, platform and the block kinds this build understands.`,
		Run: func(_ *cobra.Command, _ []string) {
			info := version.Get(builtinKinds()...)
			if cmd.JSON() {
				_ = cmd.PrintJSON(info)
				return
			}
			fmt.Fprint(cmd.Out(), info.String())
		},
	}
}

func builtinKinds() []string {
	sr, _ := block.MustRegistries(block.Strategies(validate.DefaultLimits())...)
	return sr.Kinds()
}
