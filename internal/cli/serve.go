package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/matzehuels/hexgrid/internal/config"
	"github.com/matzehuels/hexgrid/internal/server"
	"github.com/matzehuels/hexgrid/pkg/buildinfo"
	"github.com/matzehuels/hexgrid/pkg/cache"
)

// apiKeyPrefix keeps API cache entries apart from CLI runs sharing a cache.
const apiKeyPrefix = "api:"

// serveCommand creates the serve command for the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the layout HTTP API",
		Long: `Serve the layout HTTP API.

Routes:
  POST /v1/layouts   place entities and render artifacts
  GET  /healthz      liveness probe
  GET  /version      build information

The server stops gracefully on SIGINT or SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("addr") {
				addr = c.cfg.Server.Addr
			}
			return c.runServe(cmd.Context(), addr, noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", config.DefaultAddr, "listen address (env "+config.EnvAddr+")")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr string, noCache bool) error {
	runner, err := c.newRunner(ctx, noCache, cache.NewScopedKeyer(nil, apiKeyPrefix))
	if err != nil {
		return err
	}
	defer runner.Close()

	srv := server.New(runner, c.Logger, server.Options{
		RequestTimeout: c.cfg.Server.RequestTimeout,
		MaxBodyBytes:   c.cfg.Server.MaxBodyBytes,
	})

	printInfo("Serving %s on %s", appName, StyleHighlight.Render(addr))
	printKeyValue("version", buildinfo.Get().Version)
	printKeyValue("timeout", c.cfg.Server.RequestTimeout.String())
	printNewline()

	return srv.ListenAndServe(ctx, addr, c.cfg.Server.ShutdownTimeout)
}
