// kinds.go implements "blockd kinds".

package check

import (
	"fmt"

	"github.com/jpl-au/blockd/cmd"
	"github.com/spf13/cobra"
)

func newKindsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "kinds",
		Short: "List accepted block kinds",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			p, err := loadPipeline()
			if err != nil {
				return cmd.PrintJSONError(err)
			}
			if cmd.JSON() {
				return cmd.PrintJSON(p.Kinds())
			}
			for _, k := range p.Kinds() {
				fmt.Fprintln(cmd.Out(), k)
			}
			return nil
		},
	}
}
