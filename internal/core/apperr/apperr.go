// Package apperr holds the failure taxonomy shared by the use cases and the HTTP adapter.
package apperr

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is wrapped by repositories when an id does not resolve.
	ErrNotFound = errors.New("not found")
	// ErrForbidden is returned when the caller does not own the post.
	ErrForbidden = errors.New("not authorized")
)

type AuthReason string

const (
	AuthMissing AuthReason = "missing"
	AuthInvalid AuthReason = "invalid"
)

// AuthError rejects a request before any repository access.
type AuthError struct {
	Reason AuthReason
	Err    error
}

func (e *AuthError) Error() string {
	if e.Reason == AuthMissing {
		return "not authenticated"
	}
	if e.Err != nil {
		return "invalid token: " + e.Err.Error()
	}
	return "invalid token"
}

func (e *AuthError) Unwrap() error { return e.Err }

func Missing() error { return &AuthError{Reason: AuthMissing} }

func Invalid(err error) error { return &AuthError{Reason: AuthInvalid, Err: err} }

// ValidationError is a client-input defect on a single field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Reason)
}

func Validation(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// ServerError wraps an unexpected store failure. Data is an optional
// diagnostic payload that is safe to show to the caller.
type ServerError struct {
	Message string
	Data    any
	Err     error
}

func (e *ServerError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *ServerError) Unwrap() error { return e.Err }

func Server(message string, err error) error {
	return &ServerError{Message: message, Err: err}
}

// NotFoundf wraps ErrNotFound with context.
func NotFoundf(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrNotFound)...)
}

func IsAuth(err error) bool {
	var ae *AuthError
	return errors.As(err, &ae)
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
