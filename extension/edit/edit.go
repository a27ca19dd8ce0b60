// Package edit provides the edit extension for blockd.
// It registers commands: edit.
package edit

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/jpl-au/blockd/cmd"
	"github.com/jpl-au/blockd/extension"
	"github.com/jpl-au/blockd/internal/edit"
	"github.com/jpl-au/blockd/internal/format"
	"github.com/jpl-au/blockd/internal/library"
	"github.com/jpl-au/blockd/internal/log"
	"github.com/jpl-au/blockd/internal/service"
	"github.com/jpl-au/blockd/internal/store"
	"github.com/jpl-au/blockd/internal/validate"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/spf13/cobra"
)

func init() {
	extension.Register(&Extension{})
}

// Extension implements the edit extension.
type Extension struct {
	svc service.Service
}

var (
	_ extension.Extension     = (*Extension)(nil)
	_ extension.Initializable = (*Extension)(nil)
)

// Name returns "edit".
func (e *Extension) Name() string { return "edit" }

// Init receives the shared service from the extension context.
func (e *Extension) Init(ctx extension.Context) error {
	e.svc = ctx.Service()
	return nil
}

// Commands returns the edit command.
func (e *Extension) Commands() []*cobra.Command {
	return []*cobra.Command{e.newEditCmd()}
}

func (e *Extension) newEditCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "edit <key> [old] [new]",
		Short: "Partial edit of a block via search/replace or line range",
		Long: `Edit the source of one block and store the result as a new version.
The edited item goes through the pipeline like any other update.

Search/replace mode edits the first block containing the text, or the
block given with -b:
  blockd edit KEY "old text" "new text"
  blockd edit KEY --old "old text" --new "new text"
  blockd edit KEY -i "OLD TEXT" "new text"   # case-insensitive
  blockd edit KEY -b 2 "x := 1" "x := 2"

Line range mode replaces lines of a block (default 0) with stdin:
  blockd edit KEY -b 1 -l 5:10 <<< "replacement content"`,
		Args: cobra.RangeArgs(1, 3),
		RunE: e.runEdit,
	}
	c.Flags().String(extension.FlagOld, "", "Text to find")
	c.Flags().String(extension.FlagNew, "", "Text to replace with")
	c.Flags().StringP(extension.FlagLines, "l", "", "Line range (e.g., 5:10)")
	c.Flags().IntP(extension.FlagBlock, "b", -1, "Block index (default: first match)")
	c.Flags().BoolP(extension.FlagIgnoreCase, "i", false, "Case-insensitive matching")
	return c
}

func (e *Extension) runEdit(c *cobra.Command, args []string) error {
	key := args[0]
	lineRange, _ := c.Flags().GetString(extension.FlagLines)
	opts := edit.Options{Author: cmd.Author(), Message: cmd.Message()}
	opts.Block, _ = c.Flags().GetInt(extension.FlagBlock)

	w := cmd.Out()
	if cmd.JSON() {
		w = io.Discard
	}

	var result edit.Result
	var res validate.Result
	var err error
	if lineRange != "" {
		result, res, err = e.editLines(c.Context(), w, key, lineRange, opts)
	} else {
		old, _ := c.Flags().GetString(extension.FlagOld)
		repl, _ := c.Flags().GetString(extension.FlagNew)
		ignoreCase, _ := c.Flags().GetBool(extension.FlagIgnoreCase)
		if len(args) >= 3 {
			old, repl = args[1], args[2]
		}
		result, res, err = edit.Replace(c.Context(), w, e.svc, key, old, repl, ignoreCase, opts)
	}

	log.Event("edit:edit", "edit").
		Author(cmd.Author()).
		Item(key).
		ResultVersion(result.Version).
		Detail("block", result.Block).
		Write(err)

	if errors.Is(err, library.ErrInvalid) {
		c.SilenceUsage = true
		c.SilenceErrors = true
		if cmd.JSON() {
			_ = cmd.PrintJSON(res)
		} else {
			_ = format.Result(cmd.Out(), res)
		}
		return err
	}
	if errors.Is(err, library.ErrUnchanged) {
		if !cmd.JSON() {
			fmt.Fprintf(cmd.Out(), "No changes to %s (v%d)\n", key, result.Version)
		}
		return cmd.PrintJSON(result)
	}
	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("edit %q: %w", key, err))
	}
	return cmd.PrintJSON(result)
}

func (e *Extension) editLines(ctx context.Context, w io.Writer, key, lineRange string, opts edit.Options) (edit.Result, validate.Result, error) {
	start, end, err := edit.ParseLineRange(lineRange)
	if err != nil {
		return edit.Result{Key: key}, validate.Result{}, err
	}
	repl, err := io.ReadAll(os.Stdin)
	if err != nil {
		return edit.Result{Key: key}, validate.Result{}, fmt.Errorf("read stdin: %w", err)
	}
	return edit.Lines(ctx, w, e.svc, key, start, end, string(repl), opts)
}

// MCPTools returns blockd_edit.
func (e *Extension) MCPTools() []extension.MCPTool {
	return []extension.MCPTool{{
		Tool: mcp.NewTool("blockd_edit",
			mcp.WithDescription("Replace the first occurrence of text in one block of an item and store a new version. Prefer this over blockd_update for small changes."),
			mcp.WithString("key", mcp.Required(), mcp.Description("Item key")),
			mcp.WithString("old", mcp.Required(), mcp.Description("Text to find")),
			mcp.WithString("new", mcp.Description("Replacement text (empty deletes)")),
			mcp.WithNumber("block", mcp.Description("Block index (default: first block containing old)")),
			mcp.WithBoolean("ignore_case", mcp.Description("Case-insensitive matching")),
			mcp.WithString("message", mcp.Description("Version message")),
		),
		Handler: editTool,
	}}
}

type invalidResponse struct {
	Error  string          `json:"error"`
	Result validate.Result `json:"result"`
}

func editTool(ctx context.Context, extCtx extension.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	key, err := req.RequireString("key")
	if err != nil {
		return mcp.NewToolResultError("key is required"), nil //nolint:nilerr
	}
	old, err := req.RequireString("old")
	if err != nil {
		return mcp.NewToolResultError("old is required"), nil //nolint:nilerr
	}
	opts := edit.Options{
		Block:   req.GetInt("block", -1),
		Author:  "mcp",
		Message: req.GetString("message", ""),
	}

	result, res, err := edit.Replace(ctx, io.Discard, extCtx.Service(), key, old,
		req.GetString("new", ""), req.GetBool("ignore_case", false), opts)

	log.Event("mcp:edit", "edit").Author("mcp").
		Item(key).
		ResultVersion(result.Version).
		Write(err)

	switch {
	case errors.Is(err, library.ErrInvalid):
		data, merr := store.MarshalJSON(invalidResponse{Error: err.Error(), Result: res})
		if merr != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		out := mcp.NewToolResultText(string(data))
		out.IsError = true
		return out, nil
	case errors.Is(err, library.ErrUnchanged):
	case err != nil:
		return mcp.NewToolResultError(err.Error()), nil
	}

	data, err := store.MarshalJSON(result)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
