package logger

import (
	"sync/atomic"
	"time"
)

// global is the process-wide logger used by the package-level helpers.
var global atomic.Pointer[Logger]

func init() {
	global.Store(New(DefaultConfig()))
}

// SetGlobalLogger replaces the process-wide logger. A nil logger is ignored.
func SetGlobalLogger(logger *Logger) {
	if logger == nil {
		return
	}
	global.Store(logger)
}

func GetGlobalLogger() *Logger {
	return global.Load()
}

// Configure builds a logger from config and installs it globally.
func Configure(config Config) {
	SetGlobalLogger(New(config))
}

func Debug(msg string, attrs ...any) { GetGlobalLogger().Debug(msg, attrs...) }

func Info(msg string, attrs ...any) { GetGlobalLogger().Info(msg, attrs...) }

func Warn(msg string, attrs ...any) { GetGlobalLogger().Warn(msg, attrs...) }

func Error(msg string, attrs ...any) { GetGlobalLogger().Error(msg, attrs...) }

func DebugOperation(operation string, attrs ...any) {
	GetGlobalLogger().DebugOperation(operation, attrs...)
}

func InfoOperation(operation string, attrs ...any) {
	GetGlobalLogger().InfoOperation(operation, attrs...)
}

func ErrorOperation(operation string, err error, attrs ...any) {
	GetGlobalLogger().ErrorOperation(operation, err, attrs...)
}

func Performance(operation string, duration time.Duration, attrs ...any) {
	GetGlobalLogger().Performance(operation, duration, attrs...)
}

// WithComponent binds to the logger installed at call time, not to later
// Configure calls.
func WithComponent(component string) *Logger {
	return GetGlobalLogger().WithComponent(component)
}

func WithOperation(operation string) *Logger {
	return GetGlobalLogger().WithOperation(operation)
}

func WithError(err error) *Logger {
	return GetGlobalLogger().WithError(err)
}
