package ivory

import (
	"io"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with ivory-specific helpers.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses the default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{Logger: slog.New(handler)}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	return &Logger{Logger: slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
func NewJSONLogger(level slog.Level) *Logger {
	return &Logger{Logger: slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))}
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return &Logger{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

// LogSave logs a whole-store save.
func (l *Logger) LogSave(path string, rows, columns int, err error) {
	if err != nil {
		l.Error("save failed",
			"path", path,
			"error", err,
		)
	} else {
		l.Info("store saved",
			"path", path,
			"rows", rows,
			"columns", columns,
		)
	}
}

// LogLoad logs a whole-store load.
func (l *Logger) LogLoad(path string, rows, columns int, err error) {
	if err != nil {
		l.Error("load failed",
			"path", path,
			"error", err,
		)
	} else {
		l.Info("store loaded",
			"path", path,
			"rows", rows,
			"columns", columns,
		)
	}
}

// LogRename logs a rename of the backing file.
func (l *Logger) LogRename(newName string, err error) {
	if err != nil {
		l.Warn("rename refused",
			"new_name", newName,
			"error", err,
		)
	} else {
		l.Info("store renamed",
			"new_name", newName,
		)
	}
}

// LogExport logs a snapshot export to a blob store.
func (l *Logger) LogExport(key string, size int, err error) {
	if err != nil {
		l.Error("export failed",
			"key", key,
			"error", err,
		)
	} else {
		l.Info("snapshot exported",
			"key", key,
			"size", size,
		)
	}
}
