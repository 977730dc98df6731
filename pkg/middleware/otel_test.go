package middleware

import (
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/routetable/pkg/router"
)

func newRecorder() (*tracetest.SpanRecorder, *sdktrace.TracerProvider) {
	rec := tracetest.NewSpanRecorder()
	return rec, sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
}

func TestOpenTelemetryRecordsSpans(t *testing.T) {
	rec, tp := newRecorder()

	var sawSpan bool
	node := &router.RouteNode{Path: "/general", Name: "GeneralServices", Loader: func(ctx context.Context) (router.View, error) {
		sawSpan = trace.SpanContextFromContext(ctx).IsValid()
		return okView, nil
	}}
	fail := errors.New("s3 unavailable")
	broken := &router.RouteNode{Path: "/broken", Name: "Broken", Loader: func(context.Context) (router.View, error) {
		return nil, fail
	}}

	mw := OpenTelemetry(
		WithTracerProvider(tp),
		WithTracerName("test"),
		WithAttributeExtractor(func(*router.RouteNode) []attribute.KeyValue {
			return []attribute.KeyValue{attribute.String("test.attr", "ok")}
		}),
	)
	r := router.New([]*router.RouteNode{node, broken}, router.WithMiddleware(mw))
	ctx := context.Background()

	if _, err := r.ResolveView(ctx, node).Wait(ctx); err != nil {
		t.Fatal(err)
	}
	if _, err := r.ResolveView(ctx, broken).Wait(ctx); !errors.Is(err, fail) {
		t.Fatalf("error = %v, want %v", err, fail)
	}
	if !sawSpan {
		t.Error("loader should receive the span context")
	}

	spans := rec.Ended()
	if len(spans) != 2 {
		t.Fatalf("ended spans = %d, want 2", len(spans))
	}
	attrs := make(map[attribute.Key]string)
	for _, kv := range spans[0].Attributes() {
		attrs[kv.Key] = kv.Value.Emit()
	}
	if attrs["routetable.route"] != "GeneralServices" || attrs["routetable.path"] != "/general" || attrs["test.attr"] != "ok" {
		t.Errorf("attributes = %v", attrs)
	}
	if spans[0].Status().Code != codes.Ok {
		t.Errorf("success span status = %v", spans[0].Status())
	}
	if spans[1].Status().Code != codes.Error {
		t.Errorf("failure span status = %v", spans[1].Status())
	}
}

func TestOpenTelemetryFilter(t *testing.T) {
	rec, tp := newRecorder()
	node := &router.RouteNode{Name: "Skipped", Loader: router.Static(okView)}

	mw := OpenTelemetry(WithTracerProvider(tp), WithRouteFilter(func(r *router.RouteNode) bool {
		return r.Name != "Skipped"
	}))
	r := router.New([]*router.RouteNode{node}, router.WithMiddleware(mw))
	if _, err := r.ResolveView(context.Background(), node).Wait(context.Background()); err != nil {
		t.Fatal(err)
	}
	if n := len(rec.Ended()); n != 0 {
		t.Errorf("ended spans = %d, want 0", n)
	}
}
