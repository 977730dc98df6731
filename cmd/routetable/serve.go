package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/vango-dev/routetable/internal/errors"
	"github.com/vango-dev/routetable/internal/server"
	"github.com/vango-dev/routetable/internal/telemetry"
	"github.com/vango-dev/routetable/internal/watch"
	"github.com/vango-dev/routetable/pkg/router"
)

func serveCmd(flags *globalFlags) *cobra.Command {
	var (
		port       int
		host       string
		watchFiles bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the route table over HTTP",
		Long: `Serve the route table over HTTP.

Pages are rendered on the server. The /_nav websocket lets the
browser navigate without full page loads. /_routes lists the
table as JSON and /metrics exposes Prometheus metrics.

Examples:
  routetable serve
  routetable serve --port=9090
  routetable serve --manifest=routes.yaml
  routetable serve --watch`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, flags, host, port, watchFiles)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to listen on (default from routetable.json)")
	cmd.Flags().StringVarP(&host, "host", "H", "", "Host to bind to (default from routetable.json)")
	cmd.Flags().BoolVarP(&watchFiles, "watch", "w", false, "Reload the manifest and chunks when they change")

	return cmd
}

func runServe(cmd *cobra.Command, flags *globalFlags, host string, port int, watchFiles bool) error {
	rt, err := setup(flags)
	if err != nil {
		return err
	}
	if port > 0 {
		rt.cfg.Server.Port = port
	}
	if host != "" {
		rt.cfg.Server.Host = host
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.SetupTracing(ctx, rt.cfg.Tracing)
	if err != nil {
		warn(cmd.ErrOrStderr(), "tracing disabled: %v", err)
	}
	defer shutdownTracing(context.Background())

	srvConfig := &server.Config{
		Address:     rt.cfg.Address(),
		LoadTimeout: rt.cfg.LoadTimeout(),
		NavRate:     rt.cfg.Server.NavRate,
		MetricsPath: rt.cfg.Metrics.Path,
	}
	if rt.gatherer != nil {
		srvConfig.MetricsHandler = promhttp.HandlerFor(rt.gatherer, promhttp.HandlerOpts{})
	}

	srv := server.New(rt.registry, rt.shell, srvConfig)
	if rt.metrics != nil {
		srv.SetMetrics(rt.metrics)
	}

	out := cmd.OutOrStdout()
	success(out, "Serving %d routes on http://%s", rt.registry.Len(), rt.cfg.Address())
	if m := rt.cfg.ManifestPath(); m != "" {
		info(out, "manifest: %s", m)
	}
	if rt.gatherer != nil {
		info(out, "metrics:  %s", rt.cfg.Metrics.Path)
	}

	if watchFiles {
		paths := rt.watchPaths()
		if len(paths) == 0 {
			warn(out, "--watch: no manifest or chunk directory configured, nothing to watch")
		} else {
			w := watch.New(watch.Config{Paths: paths})
			w.OnChange(func(changes []watch.Change) {
				reloadChanged(rt, srv, changes)
			})
			go w.Start(ctx)
			info(out, "watching: %s", strings.Join(paths, ", "))
		}
	}
	fmt.Fprintln(out)

	if err := srv.Run(ctx); err != nil {
		return errors.New("E160").Wrap(err)
	}
	return nil
}

// reloadChanged applies watched file changes to a running server. A
// manifest that fails to load or validate leaves the current table in
// place.
func reloadChanged(rt *instance, srv *server.Server, changes []watch.Change) {
	logger := slog.Default().With("component", "watch")
	for _, c := range changes {
		switch c.Type {
		case watch.ChangeManifest:
			roots, err := rt.readRoutes()
			if err == nil {
				var reg *router.Registry
				if reg, err = rt.buildRegistry(roots); err == nil {
					rt.registry = reg
					rt.resetCache()
					srv.SetRegistry(reg)
					logger.Info("manifest reloaded", "path", c.Path, "routes", reg.Len())
					continue
				}
			}
			logger.Warn("manifest reload failed, keeping current routes", "path", c.Path, "error", err)
		case watch.ChangeChunk:
			rt.resetCache()
			srv.NotifyReload()
			logger.Info("chunks changed", "path", c.Path)
		case watch.ChangeConfig:
			logger.Warn("config changed, restart to apply", "path", c.Path)
		}
	}
}
