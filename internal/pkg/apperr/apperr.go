package apperr

import (
	"errors"

	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
)

// Kind classifies an error for the caller. Every domain sentinel carries one.
type Kind string

const (
	KindNotFound   Kind = "not_found"
	KindConflict   Kind = "conflict"
	KindForbidden  Kind = "forbidden"
	KindValidation Kind = "validation_failed"
	KindInternal   Kind = "internal"
)

// Error is a domain error with a human readable message.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func NotFound(message string) *Error {
	return New(KindNotFound, message)
}

func Conflict(message string) *Error {
	return New(KindConflict, message)
}

func Forbidden(message string) *Error {
	return New(KindForbidden, message)
}

func Validation(message string) *Error {
	return New(KindValidation, message)
}

// KindOf walks the error chain and reports the kind of the first domain error found.
// Field validation errors are ValidationFailed; anything unrecognised is Internal.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}

	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}

	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		return KindValidation
	}

	return KindInternal
}

// Message returns the domain message of err, or fallback when err carries none.
func Message(err error, fallback string) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return fallback
}
