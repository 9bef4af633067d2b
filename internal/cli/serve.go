package cli

import (
	"github.com/spf13/cobra"

	"github.com/visualnotes/visualnotes/pkg/cache"
	"github.com/visualnotes/visualnotes/pkg/observability"
	"github.com/visualnotes/visualnotes/pkg/server"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string
	var noCache bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve renders over HTTP",
		Long: `Start an HTTP server exposing the render pipeline.

  GET  /healthz
  GET  /version
  GET  /formats
  GET  /stats
  POST /render?format=svg   (scene JSON body)
  POST /replay?format=png   (replay script YAML body)

The [cache] section of the config selects the backend; set redis_addr to
share rendered artifacts between server instances.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := c.Config.Server
			if cmd.Flags().Changed("addr") {
				cfg.Addr = addr
			}

			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()
			if _, ok := runner.Cache.(*cache.RedisCache); ok {
				c.Logger.Info("using redis cache", "addr", c.Config.Cache.RedisAddr)
			}

			counters := observability.NewCounters()
			counters.Install()
			defer observability.Reset()

			srv := server.New(runner, server.Config{
				Addr:        cfg.Addr,
				ReadTimeout: cfg.ReadTimeout,
				MaxBody:     cfg.MaxBody,
				Defaults:    c.Config.PipelineOptions(),
				Counters:    counters,
				Logger:      c.Logger,
			})
			return srv.ListenAndServe(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the artifact cache")

	return cmd
}
