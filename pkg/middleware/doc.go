// Package middleware provides router.Middleware for observing view loads.
//
//	metrics := middleware.NewMetrics(middleware.WithNamespace("myapp"))
//
//	reg := router.MustNew(routes, router.WithMiddleware(
//	    middleware.OpenTelemetry(),
//	    metrics.Middleware(),
//	))
//
//	http.Handle("/metrics", promhttp.Handler())
package middleware
