package telemetry

import (
	"io"
	"log/slog"

	"github.com/vango-dev/routetable/internal/config"
)

// NewLogger builds the process logger from the log config. Format "json"
// selects slog's JSON handler, anything else the text handler.
func NewLogger(w io.Writer, cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.LogLevel()}
	if cfg.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
