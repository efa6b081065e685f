// Package logger configures the process-wide slog logger.
package logger

import (
	"log/slog"
	"os"
)

var level = new(slog.LevelVar)

func init() {
	level.Set(slog.LevelInfo)
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}

// Default returns the process-wide logger.
func Default() *slog.Logger {
	return slog.Default()
}

// SetVerbose switches debug logging on or off.
func SetVerbose(verbose bool) {
	if verbose {
		level.Set(slog.LevelDebug)
	} else {
		level.Set(slog.LevelInfo)
	}
}
