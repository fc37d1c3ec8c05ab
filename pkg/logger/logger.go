package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Options selects level, output format and destination. Output defaults to
// os.Stdout.
type Options struct {
	Level       string
	Format      string
	Environment string
	AddSource   bool
	Output      io.Writer
}

func New(opts Options) *slog.Logger {
	out := opts.Output
	if out == nil {
		out = os.Stdout
	}

	handlerOpts := &slog.HandlerOptions{
		Level:     parseLevel(opts.Level),
		AddSource: opts.AddSource,
	}

	var handler slog.Handler
	if useJSON(opts.Format, opts.Environment) {
		handler = slog.NewJSONHandler(out, handlerOpts)
	} else {
		handler = slog.NewTextHandler(out, handlerOpts)
	}

	return slog.New(handler).With(
		slog.String("environment", opts.Environment),
	)
}

// prod always logs JSON; other environments follow the configured format.
func useJSON(format, environment string) bool {
	return strings.ToLower(environment) == "prod" || strings.ToLower(format) == "json"
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
