// Package errors provides structured error types for iongraph.
//
// This package defines error codes that enable:
//   - Consistent error handling across the CLI and the HTTP API
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Input or IR validation failures
//   - Layout-specific codes correspond directly to the malformed-IR taxonomy
//     described for the layout engine: a header without exactly one
//     backedge predecessor, a loopDepth that disagrees with the loop tree,
//     or a backedge block with the wrong successor count.
//   - NOT_FOUND, *_NOT_FOUND: Resource not found
//   - INTERNAL_ERROR, UNSUPPORTED: Unexpected internal errors and
//     unsupported operations
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidIR, "block %s: no predecessors", id)
//	if errors.Is(err, errors.ErrCodeInvalidIR) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeMissingBackedge, origErr, "header %s", id)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input / IR validation errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidIR     Code = "INVALID_IR"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidStyle  Code = "INVALID_STYLE"
	ErrCodeInvalidPass   Code = "INVALID_PASS"

	// Layout engine errors: malformed IR that the engine must abort on
	ErrCodeMissingBackedge   Code = "MISSING_BACKEDGE"
	ErrCodeMultipleBackedges Code = "MULTIPLE_BACKEDGES"
	ErrCodeLoopDepthMismatch Code = "LOOP_DEPTH_MISMATCH"
	ErrCodeBadBackedgeBlock  Code = "BAD_BACKEDGE_BLOCK"
	ErrCodeSyntheticHeader   Code = "SYNTHETIC_HEADER_ACCESS"

	// Resource not found errors
	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodePassNotFound Code = "PASS_NOT_FOUND"
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
