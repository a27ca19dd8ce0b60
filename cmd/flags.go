/*
Copyright © 2026 James Lawson (jpl-au) <hello@caelisco.net>
*/

// flags.go holds the global flags and the accessors extensions use to read
// them and to write output.

package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/jpl-au/blockd/internal/config"
	"github.com/spf13/cobra"
)

var validOutputFormats = []string{"json"}

// globals holds the values of the persistent flags.
var globals struct {
	output  string
	author  string
	message string
	force   bool
	debug   bool
	db      string
	dir     string
}

var (
	out io.Writer = os.Stdout
	in  io.Reader = os.Stdin
)

// Out returns the writer commands print to.
func Out() io.Writer { return out }

// In returns the reader content is read from when no file is given.
func In() io.Reader { return in }

// SetOut replaces the output writer.
func SetOut(w io.Writer) { out = w }

// SetIn replaces the input reader.
func SetIn(r io.Reader) { in = r }

// Output returns the --output value.
func Output() string { return globals.output }

// JSON reports whether -o json was given.
func JSON() bool { return globals.output == "json" }

// Author returns --author, or the configured author.name when unset.
func Author() string { return globals.author }

// Message returns --message.
func Message() string { return globals.message }

// Force returns --force.
func Force() bool { return globals.force }

// DB returns the store name from --db or BLOCKD_DB.
func DB() string { return flagOrEnv(globals.db, "BLOCKD_DB") }

// Dir returns the project directory from --dir or BLOCKD_DIR. Empty means
// discover .blockd from the working directory.
func Dir() string { return flagOrEnv(globals.dir, "BLOCKD_DIR") }

func flagOrEnv(v, env string) string {
	if v != "" {
		return v
	}
	return os.Getenv(env)
}

// PrintJSON writes v as one line of JSON when -o json is set, and does
// nothing otherwise. HTML in block sources is not escaped.
func PrintJSON(v any) error {
	if !JSON() {
		return nil
	}
	enc := json.NewEncoder(out)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	return nil
}

// PrintJSONError reports err as {"error": ...} in JSON mode and returns nil
// so cobra prints nothing further. Outside JSON mode err is returned as is.
func PrintJSONError(err error) error {
	if !JSON() || err == nil {
		return err
	}
	_ = PrintJSON(map[string]string{"error": err.Error()})
	return nil
}

// configuredAuthor returns author.name from config, or "".
func configuredAuthor() string {
	cfg, err := config.Load()
	if err != nil {
		return ""
	}
	return cfg.Author.Name
}

func init() {
	f := rootCmd.PersistentFlags()
	f.StringVarP(&globals.output, "output", "o", "", "Output format: json")
	f.StringVarP(&globals.author, "author", "a", "", "Version attribution")
	f.StringVarP(&globals.message, "message", "m", "", "Version message")
	f.BoolVar(&globals.force, "force", false, "Skip confirmations")
	f.BoolVar(&globals.debug, "debug", false, "Log operations to stderr (also BLOCKD_DEBUG=1)")
	f.StringVar(&globals.db, "db", "", "Database name (e.g., drafts for blockd-drafts.db)")
	f.StringVar(&globals.dir, "dir", "", "Project directory (skip discovery, use explicit path)")

	_ = rootCmd.RegisterFlagCompletionFunc("output", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return validOutputFormats, cobra.ShellCompDirectiveNoFileComp
	})
}
