package logger

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// LogLevel constants
const (
	LogLevelError = "error"
	LogLevelWarn  = "warn"
	LogLevelInfo  = "info"
	LogLevelDebug = "debug"
	LogLevelTrace = "trace"
)

// Output formats
const (
	FormatJSON = "json"
	FormatText = "text"
)

// LoggingSettings is the subset of configuration the logger needs
type LoggingSettings struct {
	Level  string
	Format string
	File   string
}

// Logger implements ILogger on top of a logrus entry
type Logger struct {
	entry *logrus.Entry
	file  *os.File // nil unless logging to a file
}

// NewLogger creates a logrus-backed logger. An unreadable level falls back to info,
// an unopenable file falls back to stdout.
func NewLogger(settings LoggingSettings) *Logger {
	base := logrus.New()

	level, err := logrus.ParseLevel(strings.ToLower(settings.Level))
	if err != nil {
		level = logrus.InfoLevel
	}
	base.SetLevel(level)

	if strings.ToLower(settings.Format) == FormatText {
		base.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		base.SetFormatter(&logrus.JSONFormatter{})
	}

	var output io.Writer = os.Stdout
	var file *os.File
	if settings.File != "" {
		// Use 0600 permissions (owner read/write only)
		f, err := os.OpenFile(settings.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
		if err != nil {
			base.WithError(err).Warnf("Failed to open log file %s, logging to stdout", settings.File)
		} else {
			output = f
			file = f
		}
	}
	base.SetOutput(output)

	return &Logger{entry: logrus.NewEntry(base), file: file}
}

// NewFromLogrus wraps an existing logrus logger
func NewFromLogrus(l *logrus.Logger) *Logger {
	return &Logger{entry: logrus.NewEntry(l)}
}

// LogInfo logs an info message
func (l *Logger) LogInfo(format string, args ...interface{}) {
	l.entry.Infof(format, args...)
}

// LogWarn logs a warning message
func (l *Logger) LogWarn(format string, args ...interface{}) {
	l.entry.Warnf(format, args...)
}

// LogError logs an error message
func (l *Logger) LogError(format string, args ...interface{}) {
	l.entry.Errorf(format, args...)
}

// LogDebug logs a debug message
func (l *Logger) LogDebug(format string, args ...interface{}) {
	l.entry.Debugf(format, args...)
}

// With returns a logger carrying an additional structured field.
// Derived loggers do not own the log file.
func (l *Logger) With(key string, value interface{}) ILogger {
	return &Logger{entry: l.entry.WithField(key, value)}
}

// Close closes the log file, if any. Later messages go to stderr.
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	l.entry.Logger.SetOutput(os.Stderr)
	err := l.file.Close()
	l.file = nil
	return err
}

// IsDebugEnabled checks if debug logging is enabled
func (l *Logger) IsDebugEnabled() bool {
	return l.entry.Logger.IsLevelEnabled(logrus.DebugLevel)
}

var _ ILogger = (*Logger)(nil)
