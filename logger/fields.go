package logger

import (
	"go.uber.org/zap"
)

// Standard field names for consistent structured logging.
const (
	// Identity and context
	FieldRequestID = "request_id"
	FieldSessionID = "session_id"

	// Components
	FieldComponent = "component"

	// Operations
	FieldOperation = "operation"
	FieldMethod    = "method"
	FieldPath      = "path"
	FieldQuery     = "query"
	FieldEvent     = "event"
	FieldSeq       = "seq"

	// Timing
	FieldDurationMS = "duration_ms"

	// Errors
	FieldError = "error"

	// Counts and sizes
	FieldCount = "count"

	// Status
	FieldStatus = "status"
	FieldState  = "state"

	// Files and network
	FieldFile    = "file"
	FieldAddress = "address"

	// Domain
	FieldIngredient = "ingredient"
	FieldCategory   = "category"
	FieldToken      = "token"
	FieldQuantity   = "quantity"
)

// ComponentLogger returns a named logger for a specific component.
// This is the preferred way to get a logger for dependency injection.
//
//	store := catalog.NewStore(database, logger.ComponentLogger("catalog"))
func ComponentLogger(name string) *zap.SugaredLogger {
	return Logger.Named(name)
}

// ChildLogger creates a child logger with additional context.
//
//	sessionLogger := logger.ChildLogger(base, logger.FieldSessionID, id)
func ChildLogger(parent *zap.SugaredLogger, keysAndValues ...interface{}) *zap.SugaredLogger {
	return parent.With(keysAndValues...)
}
