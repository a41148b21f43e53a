package errors

import (
	"errors"

	"esg-node-parser/internal/logger"
)

// DiagnosticRecorder receives a code for every handled error
type DiagnosticRecorder interface {
	RecordDiagnostic(op string, code int)
}

// Handler provides centralized error reporting to the caller's diagnostic channel
type Handler struct {
	log      logger.ILogger
	recorder DiagnosticRecorder
}

// NewHandler creates a new error handler. recorder may be nil.
func NewHandler(log logger.ILogger, recorder DiagnosticRecorder) *Handler {
	if log == nil {
		log = logger.NewNullLogger()
	}
	return &Handler{
		log:      log,
		recorder: recorder,
	}
}

// HandleWith logs an error at a level matching its severity and records its
// diagnostic code. A nil log falls back to the handler's logger.
func (h *Handler) HandleWith(log logger.ILogger, err error) {
	if err == nil {
		return
	}
	if log == nil {
		log = h.log
	}

	var pe *ParserError
	if !errors.As(err, &pe) {
		log.LogError("Untyped error: %v", err)
		h.record("unknown", GetDiagnosticCode(err))
		return
	}

	switch pe.Severity {
	case SeverityCritical, SeverityError:
		log.LogError("%s", pe.Error())
	case SeverityWarning:
		log.LogWarn("%s", pe.Error())
	default:
		log.LogDebug("%s", pe.Error())
	}
	h.record(pe.Op, GetDiagnosticCode(pe))
}

func (h *Handler) record(op string, code int) {
	if h.recorder != nil {
		h.recorder.RecordDiagnostic(op, code)
	}
}
