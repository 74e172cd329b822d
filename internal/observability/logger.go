package observability

import (
	"io"
	"log/slog"
	"strings"
)

// NewCLILogger builds a logger on w with the same level and format rules as
// the shared service logger, which always writes to stdout. The CLI keeps
// stdout for command output, so its logs go to stderr. It does not replace
// the slog default.
func NewCLILogger(w io.Writer, level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: levelOf(level)}
	if strings.EqualFold(format, "text") {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

func levelOf(s string) slog.Level {
	if strings.EqualFold(s, "warning") {
		s = "warn"
	}
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}
