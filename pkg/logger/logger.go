package logger

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
)

var (
	Log   *slog.Logger
	level slog.LevelVar
)

func init() {
	// Usable before Init (tests, scripts); Init swaps in the configured level.
	Log = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: &level}))
}

// Init configures the JSON logger with the given level name.
func Init(levelName string) {
	if err := SetLevel(levelName); err != nil {
		level.Set(slog.LevelInfo)
	}
	// JSON handler for production-ready logging
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: &level,
	})
	Log = slog.New(handler)
}

// SetLevel accepts debug, info, warn/warning or error (case-insensitive).
func SetLevel(name string) error {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		level.Set(slog.LevelDebug)
	case "", "info":
		level.Set(slog.LevelInfo)
	case "warn", "warning":
		level.Set(slog.LevelWarn)
	case "error":
		level.Set(slog.LevelError)
	default:
		return fmt.Errorf("unknown log level: %s", name)
	}
	return nil
}
