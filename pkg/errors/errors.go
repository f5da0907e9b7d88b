// Package errors provides structured error types for the diaflow engine.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across CLI and HTTP surfaces
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Codes map onto the conversion failure taxonomy:
//   - MALFORMED_HANDLE: a composite handle ID failed to decode
//   - UNRESOLVED_REFERENCE: a label or ID points at nothing
//   - GRAMMAR_PARSE: a single flow line did not match the grammar
//   - CATASTROPHIC_PARSE: input is not parseable as the format at all
//
// The first three are recoverable: converters drop the offending element,
// record a warning and continue. CATASTROPHIC_PARSE is a hard error for the
// structured formats and a degraded one-node diagram for the flow format.
//
// # Usage
//
//	err := errors.New(errors.CodeMalformedHandle, "handle %q: no direction suffix", id)
//	if errors.Is(err, errors.CodeMalformedHandle) {
//	    // drop the arrow, keep converting
//	}
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for the conversion taxonomy plus general categories.
const (
	// Recoverable per-element conversion failures.
	CodeMalformedHandle     Code = "MALFORMED_HANDLE"
	CodeUnresolvedReference Code = "UNRESOLVED_REFERENCE"
	CodeGrammarParse        Code = "GRAMMAR_PARSE"

	// Hard conversion failures.
	CodeCatastrophicParse Code = "CATASTROPHIC_PARSE"

	// Input validation.
	CodeInvalidFormat  Code = "INVALID_FORMAT"
	CodeInvalidDiagram Code = "INVALID_DIAGRAM"
	CodeInvalidInput   Code = "INVALID_INPUT"

	// Everything else.
	CodeInternal Code = "INTERNAL_ERROR"
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

// Is reports whether err carries the given error code.
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
