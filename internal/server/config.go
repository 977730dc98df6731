package server

import (
	"net/http"
	"time"
)

// Config holds server settings.
type Config struct {
	// Address is the listen address (default ":8080").
	Address string

	// LoadTimeout bounds a single view load (default 10s).
	LoadTimeout time.Duration

	// NavRate limits live navigations per second per connection.
	// Zero disables the limit.
	NavRate float64

	// NavBurst is the limiter burst (default 5).
	NavBurst int

	// MetricsPath is where MetricsHandler is mounted (default "/metrics").
	MetricsPath string

	// MetricsHandler serves metrics. Nil disables the endpoint.
	MetricsHandler http.Handler

	// CheckOrigin validates websocket origins. Nil uses gorilla's
	// same-origin check.
	CheckOrigin func(r *http.Request) bool

	// MaxMessageSize caps incoming websocket frames (default 4KB).
	MaxMessageSize int64

	// ShutdownTimeout bounds graceful shutdown (default 10s).
	ShutdownTimeout time.Duration

	// ReadHeaderTimeout for the HTTP server (default 5s).
	ReadHeaderTimeout time.Duration
}

// DefaultConfig returns the default server configuration.
func DefaultConfig() *Config {
	return &Config{
		Address:           ":8080",
		LoadTimeout:       10 * time.Second,
		NavBurst:          5,
		MetricsPath:       "/metrics",
		MaxMessageSize:    4 * 1024,
		ShutdownTimeout:   10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

// withDefaults fills unset fields from DefaultConfig.
func (c *Config) withDefaults() *Config {
	defaults := DefaultConfig()
	if c == nil {
		return defaults
	}
	out := *c
	if out.Address == "" {
		out.Address = defaults.Address
	}
	if out.LoadTimeout <= 0 {
		out.LoadTimeout = defaults.LoadTimeout
	}
	if out.NavBurst <= 0 {
		out.NavBurst = defaults.NavBurst
	}
	if out.MetricsPath == "" {
		out.MetricsPath = defaults.MetricsPath
	}
	if out.MaxMessageSize <= 0 {
		out.MaxMessageSize = defaults.MaxMessageSize
	}
	if out.ShutdownTimeout <= 0 {
		out.ShutdownTimeout = defaults.ShutdownTimeout
	}
	if out.ReadHeaderTimeout <= 0 {
		out.ReadHeaderTimeout = defaults.ReadHeaderTimeout
	}
	return &out
}
