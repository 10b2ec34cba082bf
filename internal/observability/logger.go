package observability

import (
	"io"
	"log/slog"
	"os"
)

// NewLogger writes human-readable text at debug level in dev and JSON at info
// level everywhere else.
func NewLogger(env string) *slog.Logger {
	return newLogger(env, os.Stdout)
}

func newLogger(env string, w io.Writer) *slog.Logger {
	var handler slog.Handler

	if env == "dev" {
		handler = slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug})
	} else {
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})
	}

	return slog.New(NewTraceHandler(handler)).With("service", "userhub", "env", env)
}
