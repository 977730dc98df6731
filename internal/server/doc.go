// Package server serves a route table over HTTP.
//
// Routes:
//   - GET /*         resolve the path, load the view, render the composed page
//   - GET /_routes   flattened route table and menu as JSON
//   - GET /_nav      websocket for live navigation without full page loads
//   - GET /_nav.js   the navigation client
//   - GET /metrics   Prometheus metrics, when a metrics handler is set
//
// Non-canonical paths are redirected with 308. Paths that cannot be
// canonicalized are rejected with 400. A path with no route renders the
// not-found page with status 404; a failed view load renders the error
// panel inside the route's layouts with status 500.
package server
