package middleware

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/vango-dev/routetable/pkg/router"
	"github.com/vango-dev/routetable/pkg/vdom"
	"github.com/vango-dev/routetable/pkg/view"
)

var okView = router.ViewFunc(func(router.Params) *vdom.VNode { return vdom.Text("ok") })

func TestMetricsMiddlewareRecordsSuccessAndError(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(WithRegistry(reg))

	good := &router.RouteNode{Name: "GeneralServices", Loader: router.Static(okView)}
	bad := &router.RouteNode{Name: "Broken", Loader: func(context.Context) (router.View, error) {
		return nil, fmt.Errorf("fetch: %w", view.ErrChunkNotFound)
	}}
	r := router.New([]*router.RouteNode{good, bad}, router.WithMiddleware(m.Middleware()))
	ctx := context.Background()

	if _, err := r.ResolveView(ctx, good).Wait(ctx); err != nil {
		t.Fatal(err)
	}
	if _, err := r.ResolveView(ctx, bad).Wait(ctx); err == nil {
		t.Fatal("expected error from Broken")
	}

	if got := testutil.ToFloat64(m.loadsTotal.WithLabelValues("GeneralServices", "success")); got != 1 {
		t.Errorf("view_loads_total(success) = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.loadsTotal.WithLabelValues("Broken", "error")); got != 1 {
		t.Errorf("view_loads_total(error) = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.loadErrors.WithLabelValues("Broken", "not_found")); got != 1 {
		t.Errorf("view_load_errors_total(not_found) = %v, want 1", got)
	}
	if got := testutil.CollectAndCount(m.loadDuration); got != 2 {
		t.Errorf("duration series = %d, want 2", got)
	}
}

func TestMetricsRecordResolve(t *testing.T) {
	m := NewMetrics(WithRegistry(prometheus.NewRegistry()), WithNamespace("app"))
	m.RecordResolve(true)
	m.RecordResolve(false)
	m.RecordResolve(false)

	if got := testutil.ToFloat64(m.resolutions.WithLabelValues("hit")); got != 1 {
		t.Errorf("hits = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.resolutions.WithLabelValues("miss")); got != 2 {
		t.Errorf("misses = %v, want 2", got)
	}
}

func TestPrometheusRegistersCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	mw := Prometheus(WithRegistry(reg), WithSubsystem("ui"), WithBuckets([]float64{0.1, 1}),
		WithConstLabels(prometheus.Labels{"app": "test"}))

	node := &router.RouteNode{Name: "X", Loader: router.Static(okView)}
	r := router.New([]*router.RouteNode{node}, router.WithMiddleware(mw))
	if _, err := r.ResolveView(context.Background(), node).Wait(context.Background()); err != nil {
		t.Fatal(err)
	}

	families, err := reg.Gather()
	if err != nil {
		t.Fatal(err)
	}
	names := make(map[string]bool)
	for _, f := range families {
		names[f.GetName()] = true
	}
	for _, want := range []string{"routetable_ui_view_loads_total", "routetable_ui_view_load_duration_seconds"} {
		if !names[want] {
			t.Errorf("missing metric family %s in %v", want, names)
		}
	}
}

func TestCategorizeError(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{context.DeadlineExceeded, "timeout"},
		{fmt.Errorf("wrap: %w", context.Canceled), "canceled"},
		{view.ErrChunkNotFound, "not_found"},
		{view.ErrChunkTooLarge, "invalid_chunk"},
		{&router.LoadError{Route: "x", Err: router.ErrNoLoader}, "no_loader"},
		{errors.New("boom"), "internal"},
	}
	for _, tt := range tests {
		if got := categorizeError(tt.err); got != tt.want {
			t.Errorf("categorizeError(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}
