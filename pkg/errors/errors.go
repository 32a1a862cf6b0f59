// Package errors provides structured error types for the dqg tool.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across CLI and library entry points
//   - Machine-readable error codes for programmatic handling
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow the failure taxonomy of the tool:
//   - INVALID_*: domain errors (caller or invariant bugs, fail fast)
//   - LITERAL_OVERFLOW, SUBPROCESS_*, PARSE_*: resource and configuration
//     errors, recoverable only by aborting the current iteration
//
// Expected outcomes of the search (non-descriptive quotients, exhausted
// generator sets, iteration caps) are never represented as errors; they are
// first-class result values in pkg/search.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeSizeMismatch, "permutation sizes %d and %d differ", n, m)
//	if errors.Is(err, errors.ErrCodeSizeMismatch) {
//	    // Handle domain error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeSubprocess, origErr, "spawn %s", cmd)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Domain errors: caller or invariant bugs.
	ErrCodeSizeMismatch  Code = "INVALID_SIZE_MISMATCH"
	ErrCodeOutOfRange    Code = "INVALID_INDEX"
	ErrCodeUnknownOrbit  Code = "INVALID_ORBIT_LOOKUP"
	ErrCodeEmptyInput    Code = "INVALID_EMPTY_INPUT"
	ErrCodeInvalidGraph  Code = "INVALID_GRAPH"
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"

	// Resource and configuration errors.
	ErrCodeLiteralOverflow Code = "LITERAL_OVERFLOW"
	ErrCodeSubprocess      Code = "SUBPROCESS_FAILURE"
	ErrCodeParse           Code = "PARSE_ERROR"
	ErrCodeSolver          Code = "SOLVER_FAILURE"
	ErrCodeFileNotFound    Code = "FILE_NOT_FOUND"

	// Internal errors.
	ErrCodeInternal Code = "INTERNAL_ERROR"
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
