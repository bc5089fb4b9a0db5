package logging

import (
	"os"
	"time"

	"github.com/charmbracelet/log"
)

// Logger is the global logger instance. It writes to stderr so stdout stays
// reserved for command output.
var Logger = log.NewWithOptions(os.Stderr, log.Options{
	ReportTimestamp: true,
	TimeFormat:      time.RFC3339,
	Level:           log.InfoLevel,
})

// SetDebug switches the global level between Info and Debug.
func SetDebug(debug bool) {
	if debug {
		Logger.SetLevel(log.DebugLevel)
	} else {
		Logger.SetLevel(log.InfoLevel)
	}
}

// Info logs an info message
func Info(msg string, keyvals ...interface{}) {
	Logger.Info(msg, keyvals...)
}

// Debug logs a debug message
func Debug(msg string, keyvals ...interface{}) {
	Logger.Debug(msg, keyvals...)
}

// Warn logs a warning message
func Warn(msg string, keyvals ...interface{}) {
	Logger.Warn(msg, keyvals...)
}

// Error logs an error message
func Error(msg string, keyvals ...interface{}) {
	Logger.Error(msg, keyvals...)
}

// Fatal logs an error message and exits
func Fatal(msg string, keyvals ...interface{}) {
	Logger.Fatal(msg, keyvals...)
}

// WithPrefix returns a logger with a prefix
func WithPrefix(prefix string) *log.Logger {
	return Logger.WithPrefix(prefix)
}
