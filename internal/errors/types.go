package errors

import (
	"errors"
	"fmt"
)

// ErrorSeverity defines the severity level of an error
type ErrorSeverity int

const (
	SeverityInfo ErrorSeverity = iota
	SeverityWarning
	SeverityError
	SeverityCritical
)

// String returns the string representation of the severity
func (s ErrorSeverity) String() string {
	switch s {
	case SeverityInfo:
		return "INFO"
	case SeverityWarning:
		return "WARNING"
	case SeverityError:
		return "ERROR"
	case SeverityCritical:
		return "CRITICAL"
	default:
		return "UNKNOWN"
	}
}

// Parser failure kinds. Every *ParserError matches exactly one of these with errors.Is.
var (
	ErrUnknownValueKind      = errors.New("unknown value kind")
	ErrUnknownUnit           = errors.New("unknown unit")
	ErrMissingKey            = errors.New("missing settings key")
	ErrNotAnInteger          = errors.New("settings value is not an integer")
	ErrInvalidHour           = errors.New("forecast hour out of range")
	ErrMultiTopicBatch       = errors.New("batch spans several topics")
	ErrMalformedPayload      = errors.New("malformed payload")
	ErrUnsupportedSourceType = errors.New("unsupported source value type")
	ErrInvalidRecordState    = errors.New("record is not valid")
	ErrForecastSlotMissing   = errors.New("forecast slot missing")
)

// Diagnostic codes, one per failure kind
const (
	CodeUnknownValueKind      = 10
	CodeUnknownUnit           = 11
	CodeMissingKey            = 20
	CodeNotAnInteger          = 21
	CodeInvalidHour           = 22
	CodeMultiTopicBatch       = 30
	CodeMalformedPayload      = 40
	CodeUnsupportedSourceType = 50
	CodeInvalidRecordState    = 51
	CodeForecastSlotMissing   = 60
	CodeGeneric               = 99
)

type kindInfo struct {
	severity ErrorSeverity
	code     int
}

// Item-level problems are warnings: a batch skips the item and carries on.
var kinds = map[error]kindInfo{
	ErrUnknownValueKind:      {SeverityError, CodeUnknownValueKind},
	ErrUnknownUnit:           {SeverityError, CodeUnknownUnit},
	ErrMissingKey:            {SeverityWarning, CodeMissingKey},
	ErrNotAnInteger:          {SeverityWarning, CodeNotAnInteger},
	ErrInvalidHour:           {SeverityWarning, CodeInvalidHour},
	ErrMultiTopicBatch:       {SeverityError, CodeMultiTopicBatch},
	ErrMalformedPayload:      {SeverityError, CodeMalformedPayload},
	ErrUnsupportedSourceType: {SeverityWarning, CodeUnsupportedSourceType},
	ErrInvalidRecordState:    {SeverityWarning, CodeInvalidRecordState},
	ErrForecastSlotMissing:   {SeverityInfo, CodeForecastSlotMissing},
}

// ParserError is the error type returned by every parser operation
type ParserError struct {
	Op       string        // Operation that failed
	Err      error         // Failure kind, one of the Err* sentinels
	Cause    error         // Underlying error, may be nil
	Severity ErrorSeverity // Error severity
	Code     int           // Diagnostic code
}

// New creates a parser error of the given kind. Severity and code follow the kind.
func New(op string, kind error, cause error) *ParserError {
	info, ok := kinds[kind]
	if !ok {
		info = kindInfo{SeverityError, CodeGeneric}
	}
	return &ParserError{
		Op:       op,
		Err:      kind,
		Cause:    cause,
		Severity: info.severity,
		Code:     info.code,
	}
}

// Newf creates a parser error whose cause is a formatted message
func Newf(op string, kind error, format string, args ...interface{}) *ParserError {
	return New(op, kind, fmt.Errorf(format, args...))
}

// Error implements the error interface
func (e *ParserError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v: %v", e.Severity, e.Op, e.Err, e.Cause)
	}
	return fmt.Sprintf("[%s] %s: %v", e.Severity, e.Op, e.Err)
}

// Unwrap exposes both the kind and the cause to errors.Is and errors.As
func (e *ParserError) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Err}
	}
	return []error{e.Err, e.Cause}
}

// KindOf returns the failure kind of err, or nil if err is not a parser error
func KindOf(err error) error {
	var pe *ParserError
	if errors.As(err, &pe) {
		return pe.Err
	}
	return nil
}

// IsRecoverable returns true if a batch may skip the failing item and continue
func IsRecoverable(err error) bool {
	if err == nil {
		return true
	}

	var pe *ParserError
	if errors.As(err, &pe) {
		return pe.Severity <= SeverityWarning
	}
	return false
}

// GetDiagnosticCode extracts the diagnostic code from an error
func GetDiagnosticCode(err error) int {
	if err == nil {
		return 0
	}

	var pe *ParserError
	if errors.As(err, &pe) {
		return pe.Code
	}
	return CodeGeneric
}
