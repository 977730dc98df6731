package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/vango-dev/routetable/internal/app"
	"github.com/vango-dev/routetable/internal/config"
	"github.com/vango-dev/routetable/internal/errors"
	"github.com/vango-dev/routetable/internal/manifest"
	"github.com/vango-dev/routetable/internal/telemetry"
	"github.com/vango-dev/routetable/pkg/middleware"
	"github.com/vango-dev/routetable/pkg/router"
	"github.com/vango-dev/routetable/pkg/view"
)

// brand is shown in page titles and the shell header.
const brand = "routetable"

// instance is everything a command needs, built from config.
type instance struct {
	cfg          *config.Config
	shell        *app.Shell
	manifestPath string
	roots        []*router.RouteNode
	registry     *router.Registry

	middleware []router.Middleware
	cache      *view.Cache

	// Set when metrics are enabled.
	metrics  *middleware.Metrics
	gatherer *prometheus.Registry
}

// loadConfig reads routetable.json and environment overrides and installs
// the configured logger as the slog default.
func loadConfig(flags *globalFlags) (*config.Config, error) {
	cfg, err := config.Load(flags.dir)
	if err != nil {
		return nil, err
	}
	if flags.manifest != "" {
		cfg.Routes.Manifest = flags.manifest
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	slog.SetDefault(telemetry.NewLogger(os.Stderr, cfg))
	return cfg, nil
}

// loadRoutes builds the route nodes without validating them.
func loadRoutes(flags *globalFlags) (*instance, error) {
	cfg, err := loadConfig(flags)
	if err != nil {
		return nil, err
	}

	rt := &instance{
		cfg:          cfg,
		shell:        app.NewShell(brand),
		manifestPath: cfg.ManifestPath(),
	}
	if flags.manifest != "" {
		rt.manifestPath = flags.manifest
	}

	roots, err := rt.readRoutes()
	if err != nil {
		return nil, err
	}
	rt.roots = roots
	return rt, nil
}

// readRoutes reads the manifest, or returns the built-in table when none
// is configured.
func (rt *instance) readRoutes() ([]*router.RouteNode, error) {
	src := chunkSource(rt.cfg)
	if rt.manifestPath == "" {
		return app.GeneralRoutes(src, rt.shell.Layout), nil
	}
	return manifest.Load(rt.manifestPath, app.Binder(src, rt.shell))
}

// setup loads the routes and builds a validated registry with the
// configured middleware.
func setup(flags *globalFlags) (*instance, error) {
	rt, err := loadRoutes(flags)
	if err != nil {
		return nil, err
	}

	// Outermost first: the span covers metrics and cache.
	rt.middleware = []router.Middleware{middleware.OpenTelemetry()}
	if rt.cfg.Metrics.Enabled {
		rt.gatherer = prometheus.NewRegistry()
		rt.gatherer.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		rt.metrics = middleware.NewMetrics(
			middleware.WithRegistry(rt.gatherer),
			middleware.WithNamespace(rt.cfg.Metrics.Namespace),
		)
		rt.middleware = append(rt.middleware, rt.metrics.Middleware())
	}
	if rt.cfg.Chunks.Cache {
		rt.cache = view.NewCache()
		rt.middleware = append(rt.middleware, rt.cache.Middleware())
	}

	reg, err := rt.buildRegistry(rt.roots)
	if err != nil {
		return nil, err
	}
	rt.registry = reg
	return rt, nil
}

// buildRegistry validates roots and, on success, points the shell menu at
// the new table.
func (rt *instance) buildRegistry(roots []*router.RouteNode) (*router.Registry, error) {
	reg, err := router.NewValidated(roots, router.WithMiddleware(rt.middleware...))
	if err != nil {
		return nil, errors.New("E122").Wrap(err).
			WithSuggestion("Run 'routetable validate' to list every problem")
	}
	rt.shell.SetMenu(reg.Menu())
	return reg, nil
}

// resetCache drops cached views so the next load reads chunks again.
func (rt *instance) resetCache() {
	if rt.cache != nil {
		rt.cache.Reset()
	}
}

// watchPaths lists the on-disk sources of the route table.
func (rt *instance) watchPaths() []string {
	var paths []string
	if p := rt.cfg.Path(); p != "" {
		paths = append(paths, p)
	}
	if rt.manifestPath != "" {
		paths = append(paths, rt.manifestPath)
	}
	if p := rt.cfg.ChunksPath(); p != "" && !rt.cfg.UseS3() {
		paths = append(paths, p)
	}
	return paths
}

// chunkSource picks S3, a chunk directory or the built-in chunks.
func chunkSource(cfg *config.Config) view.Source {
	switch {
	case cfg.UseS3():
		s3cfg := cfg.Chunks.S3
		return view.NewS3Source(newS3Client(s3cfg), s3cfg.Bucket, s3cfg.Prefix).
			WithExtension(cfg.Chunks.Extension)
	case cfg.ChunksPath() != "":
		return view.NewFSSource(os.DirFS(cfg.ChunksPath())).
			WithExtension(cfg.Chunks.Extension)
	default:
		return view.NewFSSource(app.Chunks())
	}
}

// newS3Client builds a client from explicit settings. Without an access
// key, requests are anonymous, which suits public buckets.
func newS3Client(c config.S3Config) *s3.Client {
	opts := s3.Options{
		Region:       c.Region,
		UsePathStyle: c.PathStyle,
		Credentials:  aws.AnonymousCredentials{},
	}
	if opts.Region == "" {
		opts.Region = "us-east-1"
	}
	if c.Endpoint != "" {
		opts.BaseEndpoint = aws.String(c.Endpoint)
	}
	if c.AccessKeyID != "" {
		creds := aws.Credentials{
			AccessKeyID:     c.AccessKeyID,
			SecretAccessKey: c.SecretAccessKey,
			Source:          "routetable config",
		}
		opts.Credentials = aws.CredentialsProviderFunc(func(context.Context) (aws.Credentials, error) {
			return creds, nil
		})
	}
	return s3.New(opts)
}
