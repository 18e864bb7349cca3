// Package queryerr provides the tagged error variants propagated between
// the Semantic Translator, Query Builder, Executor, and Intent Router.
package queryerr

import (
	"errors"
	"fmt"
)

// Kind categorizes a query pipeline failure.
type Kind string

const (
	KindBadRequest      Kind = "BadRequest"
	KindValidationError Kind = "ValidationError"
	KindMappingError    Kind = "MappingError"
	KindExecutionError  Kind = "ExecutionError"
	KindEmptyResult     Kind = "EmptyResult"
	KindLLMUnavailable  Kind = "LLMUnavailable"
	KindTimeout         Kind = "Timeout"
	KindCancelled       Kind = "Cancelled"
	KindInternal        Kind = "Internal"
)

// IsRetryable returns true if this kind suggests retrying the operation may succeed.
func (k Kind) IsRetryable() bool {
	switch k {
	case KindTimeout, KindLLMUnavailable:
		return true
	default:
		return false
	}
}

// Error is a structured failure from any pipeline stage.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

// New creates an Error of the given kind with a message.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap creates an Error of the given kind wrapping an underlying cause.
func Wrap(kind Kind, cause error, message string) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
	}
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %v", e.Kind, e.Cause)
	}
	return fmt.Sprintf("[%s]", e.Kind)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is extracts a *Error from err via errors.As.
func Is(err error) (*Error, bool) {
	var qe *Error
	if errors.As(err, &qe) {
		return qe, true
	}
	return nil, false
}

// KindOf returns the Kind of err, or KindInternal if err is not a *Error.
func KindOf(err error) Kind {
	if qe, ok := Is(err); ok {
		return qe.Kind
	}
	return KindInternal
}
