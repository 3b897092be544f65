package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Init configures the global slog logger.
// In production it writes JSON for log aggregation, otherwise the text handler.
// level overrides the default level when it parses (debug, info, warn, error).
func Init(environment, level string) *slog.Logger {
	return InitWriter(os.Stdout, environment, level)
}

// InitWriter is Init with an explicit destination. The board UI owns the
// terminal, so it logs to a file instead of stdout.
func InitWriter(w io.Writer, environment, level string) *slog.Logger {
	production := strings.ToLower(environment) == "production"

	lvl := slog.LevelDebug
	if production {
		lvl = slog.LevelInfo
	}
	if level != "" {
		var parsed slog.Level
		if err := parsed.UnmarshalText([]byte(level)); err == nil {
			lvl = parsed
		}
	}

	var handler slog.Handler
	if production {
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl})
	} else {
		handler = slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// WithActor returns a logger carrying the acting user for one command
func WithActor(logger *slog.Logger, actorID int64) *slog.Logger {
	return logger.With("actor_id", actorID)
}

// WithTask returns a logger scoped to a single task
func WithTask(logger *slog.Logger, taskID int64) *slog.Logger {
	return logger.With("task_id", taskID)
}
