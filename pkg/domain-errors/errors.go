// Package domainerrors provides the coded error type used across the engine.
//
// Services attach a machine-readable Code to every error they return so
// callers (HTTP layer, orchestrator) can branch on the class of failure
// without string matching. Denials are not errors: a denied decision is a
// well-formed result, and nothing in this package models it.
package domainerrors

import (
	"errors"
	"fmt"
)

// Code classifies an error for programmatic handling.
type Code string

const (
	// CodeValidation marks a malformed request or rule shape rejected
	// before evaluation.
	CodeValidation Code = "validation"

	// CodeBadRequest marks a structurally broken request body.
	CodeBadRequest Code = "bad_request"

	// CodeInvalidInput marks a field that failed domain-level parsing
	// (IDs, enums, amounts).
	CodeInvalidInput Code = "invalid_input"

	// CodeNotFound marks a missing loan request, lender, or rule set.
	CodeNotFound Code = "not_found"

	// CodeConflict marks contention on a shared write (ledger buckets).
	// Retried internally; surfaces as CodeDependency when retries run out.
	CodeConflict Code = "conflict"

	// CodeDependency marks a failed read from a collaborator store. The
	// orchestrator must surface this rather than silently approve or deny.
	CodeDependency Code = "dependency"

	// CodeUnauthorized marks a missing or invalid caller identity.
	CodeUnauthorized Code = "unauthorized"

	// CodeInternal marks everything else. Messages for internal errors are
	// never exposed to HTTP callers.
	CodeInternal Code = "internal"
)

// Error is the concrete coded error. Use errors.As / HasCode to inspect.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// New creates a coded error with no underlying cause.
func New(code Code, message string) error {
	return &Error{Code: code, Message: message}
}

// Newf creates a coded error with a formatted message.
func Newf(code Code, format string, args ...any) error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a code and message to an underlying error. A nil err returns
// nil so call sites can wrap unconditionally.
func Wrap(err error, code Code, message string) error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Message: message, Err: err}
}

// HasCode reports whether err (or anything it wraps) carries the given code.
func HasCode(err error, code Code) bool {
	var coded *Error
	if errors.As(err, &coded) {
		return coded.Code == code
	}
	return false
}

// CodeOf extracts the code from err, defaulting to CodeInternal for uncoded
// errors so unknown failures never map to client-fault statuses.
func CodeOf(err error) Code {
	var coded *Error
	if errors.As(err, &coded) {
		return coded.Code
	}
	return CodeInternal
}
