package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"
)

// Config controls level, encoding and destination of a Logger.
type Config struct {
	Level  string    // debug, info, warn, error
	Format string    // text or json
	Output io.Writer // defaults to os.Stderr
}

// DefaultConfig logs warnings and above as text to stderr.
func DefaultConfig() Config {
	return Config{
		Level:  "warn",
		Format: "text",
		Output: os.Stderr,
	}
}

// Logger wraps slog.Logger with operation-oriented helpers.
type Logger struct {
	*slog.Logger
}

func New(config Config) *Logger {
	output := config.Output
	if output == nil {
		output = os.Stderr
	}

	opts := &slog.HandlerOptions{Level: ParseLevel(config.Level)}

	var handler slog.Handler
	if strings.EqualFold(config.Format, "json") {
		handler = slog.NewJSONHandler(output, opts)
	} else {
		handler = slog.NewTextHandler(output, opts)
	}

	return &Logger{Logger: slog.New(handler)}
}

// ParseLevel maps a level name to a slog.Level. Unknown names become info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func (l *Logger) WithOperation(operation string) *Logger {
	return &Logger{Logger: l.With("operation", operation)}
}

func (l *Logger) WithComponent(component string) *Logger {
	return &Logger{Logger: l.With("component", component)}
}

func (l *Logger) WithError(err error) *Logger {
	if err == nil {
		return l
	}
	return &Logger{Logger: l.With("error", err.Error())}
}

func (l *Logger) DebugOperation(operation string, attrs ...any) {
	l.Debug("operation", append([]any{"operation", operation}, attrs...)...)
}

func (l *Logger) InfoOperation(operation string, attrs ...any) {
	l.Info("operation", append([]any{"operation", operation}, attrs...)...)
}

func (l *Logger) ErrorOperation(operation string, err error, attrs ...any) {
	args := append([]any{"operation", operation}, attrs...)
	if err != nil {
		args = append(args, "error", err.Error())
	}
	l.Error("operation failed", args...)
}

// Performance records how long an operation took, in milliseconds.
func (l *Logger) Performance(operation string, duration time.Duration, attrs ...any) {
	args := append([]any{
		"operation", operation,
		"duration_ms", duration.Milliseconds(),
	}, attrs...)
	l.Debug("performance", args...)
}
