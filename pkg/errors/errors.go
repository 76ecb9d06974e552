// Package errors provides structured error types for hexgrid.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across CLI and API
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// The placement core reports four codes, all fatal to the current call:
//   - DEGENERATE_EXTENT: every entity shares one longitude or one latitude
//   - INSUFFICIENT_GRID_SIZE: the grid cannot hold every entity
//   - INVARIANT_VIOLATION: the occupancy index was corrupted (always a bug)
//   - RESOLUTION_DID_NOT_CONVERGE: collision resolution exceeded its iteration cap
//
// The remaining codes cover input files, configuration and the HTTP API.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInsufficientGridSize, "grid %dx%d too small", cols, rows)
//	if errors.Is(err, errors.ErrCodeInsufficientGridSize) {
//	    // ask the user for a larger grid
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInvalidInput, origErr, "read %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Placement core errors
	ErrCodeDegenerateExtent     Code = "DEGENERATE_EXTENT"
	ErrCodeInsufficientGridSize Code = "INSUFFICIENT_GRID_SIZE"
	ErrCodeInvariantViolation   Code = "INVARIANT_VIOLATION"
	ErrCodeNotConverged         Code = "RESOLUTION_DID_NOT_CONVERGE"

	// Input validation errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidColumn Code = "INVALID_COLUMN"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidColor  Code = "INVALID_COLOR"
	ErrCodeInvalidPath   Code = "INVALID_PATH"
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"

	// Resource not found errors
	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// IsUserError reports whether err was caused by the caller's input rather
// than by a defect. Callers may retry user errors with adjusted parameters.
func IsUserError(err error) bool {
	switch GetCode(err) {
	case ErrCodeDegenerateExtent, ErrCodeInsufficientGridSize,
		ErrCodeInvalidInput, ErrCodeInvalidColumn, ErrCodeInvalidFormat,
		ErrCodeInvalidColor, ErrCodeInvalidPath, ErrCodeInvalidConfig,
		ErrCodeFileNotFound, ErrCodeNotFound, ErrCodeUnsupported:
		return true
	}
	return false
}
