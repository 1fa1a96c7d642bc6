// Package errors provides error handling for larder.
//
// It re-exports github.com/cockroachdb/errors so every package wraps, annotates
// and inspects errors the same way:
//
//	if err := store.Create(ctx, name, ""); err != nil {
//	    return errors.Wrapf(err, "add ingredient %q", name)
//	}
//
//	return errors.WithHint(err, "quantities look like 2, 1.5, 1/2 or 1 1/2")
//
// For full documentation see: https://pkg.go.dev/github.com/cockroachdb/errors
package errors

import (
	crdb "github.com/cockroachdb/errors"
)

// Creation and wrapping
var (
	New          = crdb.New
	Newf         = crdb.Newf
	Wrap         = crdb.Wrap
	Wrapf        = crdb.Wrapf
	WithStack    = crdb.WithStack
	WithMessage  = crdb.WithMessage
	WithMessagef = crdb.WithMessagef
)

// User-facing hints and details
var (
	WithHint      = crdb.WithHint
	WithHintf     = crdb.WithHintf
	WithDetail    = crdb.WithDetail
	WithDetailf   = crdb.WithDetailf
	GetAllHints   = crdb.GetAllHints
	GetAllDetails = crdb.GetAllDetails
	FlattenHints  = crdb.FlattenHints
)

// Inspection
var (
	Is        = crdb.Is
	IsAny     = crdb.IsAny
	As        = crdb.As
	Unwrap    = crdb.Unwrap
	UnwrapAll = crdb.UnwrapAll
)

// GetStack returns the reportable stack trace attached to err, if any.
var GetStack = crdb.GetReportableStackTrace

// Sentinel errors shared across packages. Wrap them to add context; test for
// them with errors.Is.
var (
	// ErrNotFound indicates the requested ingredient (or other resource) does not exist
	ErrNotFound = New("not found")

	// ErrInvalidRequest indicates malformed input from a caller
	ErrInvalidRequest = New("invalid request")

	// ErrConflict indicates a uniqueness violation, e.g. a duplicate ingredient name
	ErrConflict = New("resource conflict")
)

// IsNotFound reports whether err is or wraps ErrNotFound.
func IsNotFound(err error) bool {
	return err != nil && Is(err, ErrNotFound)
}

// IsInvalidRequest reports whether err is or wraps ErrInvalidRequest.
func IsInvalidRequest(err error) bool {
	return err != nil && Is(err, ErrInvalidRequest)
}

// IsConflict reports whether err is or wraps ErrConflict.
func IsConflict(err error) bool {
	return err != nil && Is(err, ErrConflict)
}

// NewNotFoundf creates an ErrNotFound with a formatted message.
func NewNotFoundf(format string, args ...interface{}) error {
	return Wrapf(ErrNotFound, format, args...)
}

// NewInvalidRequestf creates an ErrInvalidRequest with a formatted message.
func NewInvalidRequestf(format string, args ...interface{}) error {
	return Wrapf(ErrInvalidRequest, format, args...)
}

// NewConflictf creates an ErrConflict with a formatted message.
func NewConflictf(format string, args ...interface{}) error {
	return Wrapf(ErrConflict, format, args...)
}
