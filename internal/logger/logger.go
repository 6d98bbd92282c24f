// Package logger wraps slog with package-level helpers so call sites stay
// one-line. The level comes from TRANSLATOR_LOG_LEVEL, with
// TRANSLATOR_DEBUG=true kept as a shortcut for debug.
package logger

import (
	"log/slog"
	"os"
	"strings"
)

var log *slog.Logger

func init() {
	opts := &slog.HandlerOptions{Level: levelFromEnv()}
	log = slog.New(slog.NewTextHandler(os.Stderr, opts))
}

func levelFromEnv() slog.Level {
	if os.Getenv("TRANSLATOR_DEBUG") == "true" {
		return slog.LevelDebug
	}

	switch strings.ToLower(os.Getenv("TRANSLATOR_LOG_LEVEL")) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func Debug(msg string, args ...any) {
	log.Debug(msg, args...)
}

func Info(msg string, args ...any) {
	log.Info(msg, args...)
}

func Warn(msg string, args ...any) {
	log.Warn(msg, args...)
}

func Error(msg string, args ...any) {
	log.Error(msg, args...)
}

func Fatal(msg string, args ...any) {
	log.Error(msg, args...)
	os.Exit(1)
}
