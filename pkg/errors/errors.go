// Package errors provides structured error types for topcat.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the library and the CLI
//   - Machine-readable error codes for programmatic handling
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Every failure topcat can report has its own code. Only [ErrCodeNoNameDefined]
// is recoverable: the offending file is skipped. Every other code aborts the
// run without writing any output.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeMissingDependency, "%s depends on %s but it is missing", a, b)
//	if errors.Is(err, errors.ErrCodeMissingDependency) {
//	    // Handle the missing dependency
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeIO, origErr, "read %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Header errors
	ErrCodeNoNameDefined Code = "NO_NAME_DEFINED"
	ErrCodeTooManyNames  Code = "TOO_MANY_NAMES"
	ErrCodeInvalidLayer  Code = "INVALID_LAYER"

	// Graph construction errors
	ErrCodeNameClash         Code = "NAME_CLASH"
	ErrCodeMissingExist      Code = "MISSING_EXIST"
	ErrCodeMissingDependency Code = "MISSING_DEPENDENCY"
	ErrCodeInvalidDependency Code = "INVALID_DEPENDENCY"
	ErrCodeCyclicDependency  Code = "CYCLIC_DEPENDENCY"

	// Usage errors
	ErrCodeGraphMissing  Code = "GRAPH_MISSING"
	ErrCodeAlreadyBuilt  Code = "ALREADY_BUILT"
	ErrCodeUnknownLayer  Code = "UNKNOWN_LAYER"
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"
	ErrCodeStaleOutput   Code = "STALE_OUTPUT"

	// Environment errors
	ErrCodeIO Code = "IO_ERROR"

	// Internal errors
	ErrCodeInternal Code = "INTERNAL_ERROR"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Path    string // File the error originated from (optional)
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

// WithPath records the file the error originated from and returns e.
func (e *Error) WithPath(path string) *Error {
	e.Path = path
	return e
}

// coder is implemented by error types that carry a code without embedding *Error.
type coder interface {
	Code() Code
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error, or any error exposing a
// Code method, with a matching code.
func Is(err error, code Code) bool {
	return GetCode(err) == code
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error carries no code.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	var c coder
	if errors.As(err, &c) {
		return c.Code()
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
