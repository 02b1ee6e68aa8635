package logging

import (
	"log/slog"
	"os"
	"strings"
)

// New builds the process-wide slog.Logger. Logs go to stderr so the CLI
// can print run summaries on stdout without interleaving.
func New(level string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(level)}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

// parseLevel maps a config level string to a slog level. Unknown values
// fall back to info rather than failing startup.
func parseLevel(value string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
