package config

import (
	"io"
	"log/slog"
)

// NewLogger builds the CLI logger for a validated config. The silent level
// discards everything.
func NewLogger(cfg *Config, w io.Writer) *slog.Logger {
	var level slog.Level
	switch cfg.LogLevel {
	case LogLevelSilent:
		return slog.New(slog.DiscardHandler)
	case LogLevelDebug:
		level = slog.LevelDebug
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.LogFormat == LogFormatJSON {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
