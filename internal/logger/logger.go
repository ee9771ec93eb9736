package logger

import (
	"log/slog"
	"os"
	"strings"
)

var Logger *slog.Logger

// Init configures the global logger. An empty level falls back to the
// LOG_LEVEL / DEBUG_MODE env vars so early startup code can log too.
func Init(level string) {
	if level == "" {
		level = os.Getenv("LOG_LEVEL")
	}

	lvl := slog.LevelInfo
	switch strings.ToUpper(level) {
	case "DEBUG":
		lvl = slog.LevelDebug
	case "WARN", "WARNING":
		lvl = slog.LevelWarn
	case "ERROR":
		lvl = slog.LevelError
	}
	if os.Getenv("DEBUG_MODE") == "true" {
		lvl = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: lvl,
	}

	Logger = slog.New(slog.NewTextHandler(os.Stdout, opts))
	slog.SetDefault(Logger)
}

func Info(msg string, args ...any) {
	slog.Info(msg, args...)
}

func Error(msg string, args ...any) {
	slog.Error(msg, args...)
}

func Debug(msg string, args ...any) {
	slog.Debug(msg, args...)
}

func Warn(msg string, args ...any) {
	slog.Warn(msg, args...)
}
