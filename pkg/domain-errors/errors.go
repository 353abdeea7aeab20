// Package domainerrors provides coded errors for the registry services.
// Services attach a Code describing the failure kind; the HTTP layer maps
// codes to statuses in one place. Stores do not use this package directly —
// they return pkg/platform/sentinel errors which services translate.
package domainerrors

import (
	"errors"
	"fmt"
)

type Code string

const (
	CodeBadRequest       Code = "bad_request"
	CodeValidation       Code = "validation"
	CodeInvalidInput     Code = "invalid_input"
	CodeConflict         Code = "conflict"
	CodeNotFound         Code = "not_found"
	CodeUnauthorized     Code = "unauthorized"
	CodeForbidden        Code = "forbidden"
	CodeInvalidReference Code = "invalid_reference"

	// CodeInvariantViolation marks a model constructor or transition guard
	// rejecting a state the registries must never hold.
	CodeInvariantViolation Code = "invariant_violation"

	CodeInternal Code = "internal"
)

// Error is a coded domain error. The wrapped error, when present, carries the
// infrastructure cause and stays out of client responses.
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

// New creates a coded error without a cause.
func New(code Code, message string) error {
	return &Error{Code: code, Message: message}
}

// Wrap attaches a code and message to an underlying cause.
func Wrap(err error, code Code, message string) error {
	return &Error{Code: code, Message: message, Err: err}
}

// HasCode reports whether err (or anything it wraps) carries the given code.
func HasCode(err error, code Code) bool {
	var domainErr *Error
	if errors.As(err, &domainErr) {
		return domainErr.Code == code
	}
	return false
}

// CodeOf extracts the code from err, defaulting to CodeInternal for errors
// that did not originate in a service.
func CodeOf(err error) Code {
	var domainErr *Error
	if errors.As(err, &domainErr) {
		return domainErr.Code
	}
	return CodeInternal
}

// MessageOf extracts the client-safe message from err.
func MessageOf(err error) string {
	var domainErr *Error
	if errors.As(err, &domainErr) {
		return domainErr.Message
	}
	return "internal error"
}
