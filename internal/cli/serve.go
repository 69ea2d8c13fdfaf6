package cli

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/matzehuels/sliced/pkg/api"
	"github.com/matzehuels/sliced/pkg/cache"
	"github.com/matzehuels/sliced/pkg/observability/prom"
)

// serveCommand runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr      string
		noCache   bool
		noMetrics bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the layout and render API over HTTP",
		Long: `Serve the layout and render API over HTTP.

Endpoints:
  GET  /healthz     liveness and build information
  POST /v1/layout   page assignment for image ratios
  POST /v1/render   rendered document for base64-encoded images
  GET  /metrics     Prometheus metrics

Set ` + envRedisURL + ` to share the render cache between instances.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()
			runner.Keyer = cache.NewScopedKeyer(nil, "api:")

			var opts []api.Option
			if !noMetrics {
				metrics := prom.New(prometheus.DefaultRegisterer)
				metrics.Register()
				opts = append(opts, api.WithMetrics(metrics.Handler()))
			}

			srv := api.New(runner, c.Logger, opts...)
			printInfo("Listening on %s", StyleValue.Render(addr))
			return srv.ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&noMetrics, "no-metrics", false, "disable the /metrics endpoint")

	return cmd
}
