// guide.go implements "blockd guide". Terminal output is rendered with
// glamour; pipes get raw markdown so the pages can be fed to an LLM.

package core

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/jpl-au/blockd/cmd"
	"github.com/jpl-au/blockd/extension"
	"github.com/jpl-au/blockd/guide"
	"github.com/jpl-au/blockd/internal/log"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func newGuideCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "guide [topic]",
		Short: "Show the blockd usage guide",
		Long: `Outputs the blockd guide for LLMs and humans.

  blockd guide           # main guide
  blockd guide blocks    # block kinds and rules
  blockd guide limits    # size limits
  blockd guide mcp       # MCP tools and resources`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			name := ""
			if len(args) > 0 {
				name = args[0]
			}

			page, err := guide.Get(name)
			if err != nil {
				return cmd.PrintJSONError(err)
			}
			if cmd.JSON() {
				return cmd.PrintJSON(map[string]string{"topic": name, "content": page})
			}

			if term.IsTerminal(int(os.Stdout.Fd())) {
				if rendered, rerr := glamour.Render(page, "dark"); rerr == nil {
					fmt.Fprint(cmd.Out(), rendered)
					return nil
				}
			}
			fmt.Fprint(cmd.Out(), page)
			return nil
		},
	}
}

func guideTool(_ context.Context, _ extension.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	topic := req.GetString("topic", "")
	page, err := guide.Get(topic)

	log.Event("mcp:guide", "read").Author("mcp").Detail("topic", topic).Write(err)

	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(page), nil
}
