package common

import (
	"github.com/cockroachdb/errors"
)

type Code string

const (
	CodeNotFound          Code = "not_found"
	CodeForbidden         Code = "forbidden"
	CodeUnauthorized      Code = "unauthorized"
	CodeConflict          Code = "conflict"
	CodeInvalidState      Code = "invalid_state"
	CodeExpired           Code = "expired"
	CodeInvalidStatus     Code = "invalid_status"
	CodeInvalidTransition Code = "invalid_transition"
	CodeValidation        Code = "validation"
	CodeRateLimited       Code = "rate_limited"
	CodeInternal          Code = "internal"
)

// Error is the error type every layer returns to the HTTP boundary.
// Err keeps the underlying cause for logs and is never rendered to clients.
type Error struct {
	Code    Code
	Message string
	Fields  map[string]string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return string(e.Code) + ": " + e.Message + ": " + e.Err.Error()
	}
	return string(e.Code) + ": " + e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func NewError(code Code, message string, err error) error {
	if err != nil {
		err = errors.WithStack(err)
	}
	return &Error{Code: code, Message: message, Err: err}
}

func NewValidationError(message string, fields map[string]string) error {
	return &Error{Code: CodeValidation, Message: message, Fields: fields}
}

// NewValidationErrorWithCode is NewValidationError for input errors that carry
// their own code, such as an unknown application status.
func NewValidationErrorWithCode(code Code, message string, fields map[string]string) error {
	return &Error{Code: code, Message: message, Fields: fields}
}

func Is(err error, code Code) bool {
	return CodeOf(err) == code
}

// CodeOf returns the code of the first *Error in the chain, or CodeInternal.
func CodeOf(err error) Code {
	if err == nil {
		return ""
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeInternal
}

func AsError(err error) (*Error, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
