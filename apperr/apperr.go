// Package apperr holds the typed errors returned by the placement, pricing and
// manifest engines. Callers decide user-facing messaging from the Code.
package apperr

import (
	"errors"
	"net/http"
)

// Code is a machine-readable error category.
type Code string

const (
	CodeInvalidInput         Code = "invalid_input"
	CodeBoundsViolation      Code = "bounds_violation"
	CodeNotFound             Code = "not_found"
	CodeUpstreamUnavailable  Code = "upstream_unavailable"
	CodeUnresolvedPricingRow Code = "unresolved_pricing_row"
	CodeConflict             Code = "conflict"
	CodeInternal             Code = "internal"
)

// Error is the engine error type with structured metadata.
type Error struct {
	Code     Code
	Message  string
	Metadata map[string]any
	Cause    error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error by code.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// New creates an error with a code and message.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap creates an error that wraps an underlying cause.
func Wrap(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}

// WithMetadata creates an error carrying details for the caller.
func WithMetadata(code Code, message string, metadata map[string]any) *Error {
	return &Error{Code: code, Message: message, Metadata: metadata}
}

func InvalidInput(message string) *Error { return New(CodeInvalidInput, message) }

func NotFound(message string) *Error { return New(CodeNotFound, message) }

func Upstream(message string, cause error) *Error {
	return Wrap(CodeUpstreamUnavailable, message, cause)
}

// CodeOf extracts the code from err, or CodeInternal when err is not an *Error.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeInternal
}

// IsCode reports whether err carries the given code anywhere in its chain.
func IsCode(err error, code Code) bool {
	return errors.Is(err, &Error{Code: code})
}

// MetadataOf returns the metadata of the first *Error in the chain.
func MetadataOf(err error) map[string]any {
	var e *Error
	if errors.As(err, &e) {
		return e.Metadata
	}
	return nil
}

// HTTPStatus maps an error to the status code the HTTP layer responds with.
func HTTPStatus(err error) int {
	switch CodeOf(err) {
	case CodeInvalidInput:
		return http.StatusBadRequest
	case CodeBoundsViolation, CodeUnresolvedPricingRow:
		return http.StatusUnprocessableEntity
	case CodeNotFound:
		return http.StatusNotFound
	case CodeUpstreamUnavailable:
		return http.StatusBadGateway
	case CodeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
