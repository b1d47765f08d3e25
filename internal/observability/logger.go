package observability

import (
	"io"
	"log/slog"
	"os"
)

// NewLogger returns the JSON process logger. level ("debug", "info", "warn", "error") overrides
// the env default: debug in dev, info everywhere else.
func NewLogger(env, level string) *slog.Logger {
	return newLogger(os.Stdout, env, level)
}

func newLogger(w io.Writer, env, level string) *slog.Logger {
	lvl := slog.LevelInfo
	if env == "dev" {
		lvl = slog.LevelDebug
	}

	if level != "" {
		// unknown names keep the env default
		_ = lvl.UnmarshalText([]byte(level))
	}

	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl})

	return slog.New(NewTraceHandler(handler)).With("service", "devevent", "env", env)
}
