// Package logger builds the application's structured logger on top of
// log/slog: text output during development, JSON in production or when
// requested, and an environment attribute on every record.
package logger
