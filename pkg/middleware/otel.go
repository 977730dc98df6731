package middleware

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/routetable/pkg/router"
)

// Default tracer name.
const defaultTracerName = "routetable"

// OTelConfig configures the OpenTelemetry middleware.
type OTelConfig struct {
	// TracerName is the name of the tracer (default: "routetable").
	TracerName string

	// TracerProvider overrides the global provider.
	TracerProvider trace.TracerProvider

	// Filter determines which routes to trace. If nil, all are traced.
	Filter func(route *router.RouteNode) bool

	// AttributeExtractor adds custom attributes per route.
	AttributeExtractor func(route *router.RouteNode) []attribute.KeyValue
}

// OTelOption configures the OpenTelemetry middleware.
type OTelOption func(*OTelConfig)

// WithTracerName sets the tracer name.
func WithTracerName(name string) OTelOption {
	return func(c *OTelConfig) {
		c.TracerName = name
	}
}

// WithTracerProvider sets the tracer provider.
func WithTracerProvider(tp trace.TracerProvider) OTelOption {
	return func(c *OTelConfig) {
		c.TracerProvider = tp
	}
}

// WithRouteFilter sets a filter function for routes.
func WithRouteFilter(filter func(route *router.RouteNode) bool) OTelOption {
	return func(c *OTelConfig) {
		c.Filter = filter
	}
}

// WithAttributeExtractor sets a custom attribute extractor.
func WithAttributeExtractor(extractor func(route *router.RouteNode) []attribute.KeyValue) OTelOption {
	return func(c *OTelConfig) {
		c.AttributeExtractor = extractor
	}
}

// OpenTelemetry creates middleware that wraps each view load in a span.
// The span context is passed to the loader, so chunk fetches made with it
// (e.g. S3 requests) become child spans.
//
// The tracer comes from the global provider unless WithTracerProvider is set:
//
//	tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exporter))
//	otel.SetTracerProvider(tp)
func OpenTelemetry(opts ...OTelOption) router.Middleware {
	config := OTelConfig{TracerName: defaultTracerName}
	for _, opt := range opts {
		opt(&config)
	}

	var tracer trace.Tracer
	if config.TracerProvider != nil {
		tracer = config.TracerProvider.Tracer(config.TracerName)
	} else {
		tracer = otel.Tracer(config.TracerName)
	}

	return func(route *router.RouteNode, next router.ViewLoader) router.ViewLoader {
		if config.Filter != nil && !config.Filter(route) {
			return next
		}
		return func(ctx context.Context) (router.View, error) {
			attrs := []attribute.KeyValue{
				attribute.String("routetable.route", route.Name),
				attribute.String("routetable.path", route.Path),
			}
			if config.AttributeExtractor != nil {
				attrs = append(attrs, config.AttributeExtractor(route)...)
			}

			spanCtx, span := tracer.Start(ctx, "routetable.load_view",
				trace.WithSpanKind(trace.SpanKindInternal),
				trace.WithAttributes(attrs...),
			)
			defer span.End()

			v, err := next(spanCtx)
			if err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
			} else {
				span.SetStatus(codes.Ok, "")
			}
			return v, err
		}
	}
}
