package logger

import (
	"fmt"
	"sync"
)

// ILogger is an interface for dependency injection
// Allows testing with mock loggers and flexibility in log implementation
type ILogger interface {
	LogInfo(format string, args ...interface{})
	LogWarn(format string, args ...interface{})
	LogError(format string, args ...interface{})
	LogDebug(format string, args ...interface{})

	// With returns a logger that attaches key=value to every message
	With(key string, value interface{}) ILogger
}

// NullLogger discards everything
type NullLogger struct{}

// NewNullLogger creates a logger that drops all messages
func NewNullLogger() ILogger {
	return NullLogger{}
}

func (NullLogger) LogInfo(format string, args ...interface{})  {}
func (NullLogger) LogWarn(format string, args ...interface{})  {}
func (NullLogger) LogError(format string, args ...interface{}) {}
func (NullLogger) LogDebug(format string, args ...interface{}) {}

// With returns the same discarding logger
func (n NullLogger) With(key string, value interface{}) ILogger { return n }

// MockLogger is a logger for testing that records formatted log messages.
// Loggers derived with With share the recorded messages and the recorded fields.
type MockLogger struct {
	mu            sync.Mutex
	InfoMessages  []string
	WarnMessages  []string
	ErrorMessages []string
	DebugMessages []string
	Fields        map[string]interface{}
}

// NewMockLogger creates a new mock logger for testing
func NewMockLogger() *MockLogger {
	return &MockLogger{
		InfoMessages:  make([]string, 0),
		WarnMessages:  make([]string, 0),
		ErrorMessages: make([]string, 0),
		DebugMessages: make([]string, 0),
		Fields:        make(map[string]interface{}),
	}
}

// LogInfo records an info message
func (l *MockLogger) LogInfo(format string, args ...interface{}) {
	l.record(&l.InfoMessages, format, args)
}

// LogWarn records a warning message
func (l *MockLogger) LogWarn(format string, args ...interface{}) {
	l.record(&l.WarnMessages, format, args)
}

// LogError records an error message
func (l *MockLogger) LogError(format string, args ...interface{}) {
	l.record(&l.ErrorMessages, format, args)
}

// LogDebug records a debug message
func (l *MockLogger) LogDebug(format string, args ...interface{}) {
	l.record(&l.DebugMessages, format, args)
}

// With records the field and returns the same mock
func (l *MockLogger) With(key string, value interface{}) ILogger {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Fields[key] = value
	return l
}

func (l *MockLogger) record(dst *[]string, format string, args []interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	*dst = append(*dst, fmt.Sprintf(format, args...))
}

// Reset clears all recorded messages
func (l *MockLogger) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.InfoMessages = l.InfoMessages[:0]
	l.WarnMessages = l.WarnMessages[:0]
	l.ErrorMessages = l.ErrorMessages[:0]
	l.DebugMessages = l.DebugMessages[:0]
	l.Fields = make(map[string]interface{})
}

// HasInfoMessage checks if an info message was logged
func (l *MockLogger) HasInfoMessage() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.InfoMessages) > 0
}

// HasWarnMessage checks if a warning message was logged
func (l *MockLogger) HasWarnMessage() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.WarnMessages) > 0
}

// HasErrorMessage checks if an error message was logged
func (l *MockLogger) HasErrorMessage() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.ErrorMessages) > 0
}

// HasDebugMessage checks if a debug message was logged
func (l *MockLogger) HasDebugMessage() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.DebugMessages) > 0
}

var (
	_ ILogger = NullLogger{}
	_ ILogger = (*MockLogger)(nil)
)
