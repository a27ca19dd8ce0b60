// config.go implements the "blockd config" command for configuration management.
//
// Local config (.blockd/config.yaml) takes precedence over global
// (~/.blockd/config.yaml). --local selects the local file even before it
// exists.

package core

import (
	"fmt"

	"github.com/jpl-au/blockd/cmd"
	"github.com/jpl-au/blockd/extension"
	"github.com/jpl-au/blockd/internal/config"
	"github.com/jpl-au/blockd/internal/log"
	"github.com/spf13/cobra"
)

func newConfigCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "config [key] [value]",
		Short: "View or set config values",
		Long: `View or set config values.

  blockd config                          # show config
  blockd config limits.max_blocks        # show one value
  blockd config limits.max_blocks 20     # set a value

Configuration locations:
  Global: ~/.blockd/config.yaml
  Local:  .blockd/config.yaml

Uses local config if it exists, otherwise global.
Writes go to the same place reads come from.
Use --local to use local config instead.`,
		Args: cobra.MaximumNArgs(2),
		RunE: runConfig,
	}
	c.Flags().Bool(extension.FlagLocal, false, "Use local config (.blockd/config.yaml)")
	return c
}

// configValue is the JSON shape of a get or set.
type configValue struct {
	Key      string `json:"key"`
	Value    string `json:"value"`
	Scope    string `json:"scope"`
	Explicit bool   `json:"explicit"`
}

func scopeName(cfg *config.Config) string {
	if cfg.Scope() == config.ScopeLocal {
		return "local"
	}
	return "global"
}

func runConfig(c *cobra.Command, args []string) error {
	load := config.Load
	if local, _ := c.Flags().GetBool(extension.FlagLocal); local {
		load = func() (*config.Config, error) { return config.LoadScope(config.ScopeLocal) }
	}
	cfg, err := load()
	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("config load: %w", err))
	}

	if len(args) == 0 {
		log.Event("core:config", "list").Author(cmd.Author()).Write(nil)
		all := cfg.All()
		if cmd.JSON() {
			return cmd.PrintJSON(all)
		}
		for _, k := range config.ValidKeys() {
			suffix := ""
			if !cfg.IsSet(k) {
				suffix = "  (default)"
			}
			fmt.Fprintf(cmd.Out(), "%s: %s%s\n", k, all[k], suffix)
		}
		return nil
	}

	key, action := args[0], "get"
	if len(args) == 2 {
		action = "set"
		err = cfg.Set(key, args[1])
		if err == nil {
			err = cfg.Save()
		}
	}
	v := configValue{Key: key, Scope: scopeName(cfg), Explicit: cfg.IsSet(key)}
	if err == nil {
		v.Value, err = cfg.Get(key)
	}

	log.Event("core:config", action).Author(cmd.Author()).
		Detail("key", key).
		Detail("scope", v.Scope).
		Write(err)

	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("config %s %q: %w", action, key, err))
	}
	if !cmd.JSON() {
		if action == "set" {
			fmt.Fprintf(cmd.Out(), "%s = %s (%s)\n", key, v.Value, v.Scope)
		} else {
			fmt.Fprintln(cmd.Out(), v.Value)
		}
	}
	return cmd.PrintJSON(v)
}
