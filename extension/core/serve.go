// serve.go implements the "blockd serve" command for MCP server operation.
//
// Serve blocks handling MCP requests over stdio and manages its own service
// lifecycle. With --metrics it also serves Prometheus metrics over HTTP.

package core

import (
	"errors"
	"log/slog"
	"net/http"
	"path/filepath"
	"time"

	"github.com/jpl-au/blockd/cmd"
	"github.com/jpl-au/blockd/extension"
	"github.com/jpl-au/blockd/internal/mcp"
	"github.com/jpl-au/blockd/internal/metrics"
	"github.com/jpl-au/blockd/internal/repo"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "serve",
		Short: "Start MCP server",
		Long: `Start an MCP (Model Context Protocol) server over stdio for LLM integration.

Use --db to serve a specific database:
  blockd serve --db drafts    # serve blockd-drafts.db

Use --metrics to expose Prometheus metrics:
  blockd serve --metrics :9090`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}
	c.Flags().String(extension.FlagMetrics, "", "Serve Prometheus metrics on this address (e.g. :9090)")
	return c
}

func runServe(c *cobra.Command, _ []string) error {
	addr, _ := c.Flags().GetString(extension.FlagMetrics)
	if addr != "" {
		srv := metricsServer(addr)
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.Error("metrics server failed", "addr", addr, "error", err)
			}
		}()
		defer srv.Close()
	}

	dir := ""
	if d := cmd.Dir(); d != "" {
		dir = filepath.Join(d, repo.Dir)
	}
	return mcp.Serve(cmd.DB(), dir)
}

func metricsServer(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	return &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}
