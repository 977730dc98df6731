package middleware

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/vango-dev/routetable/pkg/router"
	"github.com/vango-dev/routetable/pkg/view"
)

// MetricsConfig configures the Prometheus metrics.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "routetable").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for load duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus metrics.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "routetable",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics holds the route table collectors.
//
// Collected:
//   - routetable_view_loads_total{route,status}
//   - routetable_view_load_duration_seconds{route}
//   - routetable_view_load_errors_total{route,error_type}
//   - routetable_resolutions_total{result}
type Metrics struct {
	loadsTotal   *prometheus.CounterVec
	loadDuration *prometheus.HistogramVec
	loadErrors   *prometheus.CounterVec
	resolutions  *prometheus.CounterVec
}

// NewMetrics creates and registers the collectors. Registering twice with
// the same registry panics, so create one Metrics per registry.
func NewMetrics(opts ...MetricsOption) *Metrics {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	return &Metrics{
		loadsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "view_loads_total",
			Help:        "Total number of view loads by route and status",
			ConstLabels: config.ConstLabels,
		}, []string{"route", "status"}),

		loadDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "view_load_duration_seconds",
			Help:        "View load duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"route"}),

		loadErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "view_load_errors_total",
			Help:        "Total number of failed view loads by error type",
			ConstLabels: config.ConstLabels,
		}, []string{"route", "error_type"}),

		resolutions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "resolutions_total",
			Help:        "Total number of path resolutions by result",
			ConstLabels: config.ConstLabels,
		}, []string{"result"}),
	}
}

// Prometheus is shorthand for NewMetrics(opts...).Middleware().
func Prometheus(opts ...MetricsOption) router.Middleware {
	return NewMetrics(opts...).Middleware()
}

// Middleware times and counts every view load. Labels use route names, which
// are bounded by the route table.
func (m *Metrics) Middleware() router.Middleware {
	return func(route *router.RouteNode, next router.ViewLoader) router.ViewLoader {
		return func(ctx context.Context) (router.View, error) {
			start := time.Now()
			v, err := next(ctx)
			m.loadDuration.WithLabelValues(route.Name).Observe(time.Since(start).Seconds())

			status := "success"
			if err != nil {
				status = "error"
				m.loadErrors.WithLabelValues(route.Name, categorizeError(err)).Inc()
			}
			m.loadsTotal.WithLabelValues(route.Name, status).Inc()
			return v, err
		}
	}
}

// RecordResolve counts a resolution as a hit or a miss.
func (m *Metrics) RecordResolve(matched bool) {
	result := "miss"
	if matched {
		result = "hit"
	}
	m.resolutions.WithLabelValues(result).Inc()
}

// categorizeError maps load errors to a small set of label values.
func categorizeError(err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "canceled"
	case errors.Is(err, view.ErrChunkNotFound):
		return "not_found"
	case errors.Is(err, view.ErrInvalidChunkName), errors.Is(err, view.ErrChunkTooLarge):
		return "invalid_chunk"
	case errors.Is(err, router.ErrNoLoader):
		return "no_loader"
	default:
		return "internal"
	}
}
