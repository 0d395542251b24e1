// Package logger builds configured slog loggers and provides typed
// attribute helpers for the subsystem's common log fields.
package logger
