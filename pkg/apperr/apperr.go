// Package apperr defines the application error taxonomy shared by the
// upstream clients and the MCP tool pipeline. Every failure carries a kind,
// an HTTP-flavored status code used for logging, and an isOperational flag
// distinguishing expected failures from bug-class events.
package apperr

import (
	"errors"
	"fmt"
)

// Kind identifies the error category.
type Kind string

// Error kinds.
const (
	KindValidation     Kind = "validation"
	KindAuthentication Kind = "authentication"
	KindNotFound       Kind = "not_found"
	KindRateLimit      Kind = "rate_limit"
	KindExternal       Kind = "external"
	KindInternal       Kind = "internal"
)

// Error is the tagged application error.
type Error struct {
	Kind          Kind
	Message       string
	StatusCode    int
	IsOperational bool
	Cause         error
}

// Error implements the error interface.
func (e *Error) Error() (msg string) {
	msg = e.Message
	return msg
}

// Unwrap exposes the wrapped cause, if any.
func (e *Error) Unwrap() (cause error) {
	cause = e.Cause
	return cause
}

// NewValidation creates a validation error (400).
func NewValidation(message string) (err *Error) {
	err = &Error{
		Kind:          KindValidation,
		Message:       message,
		StatusCode:    400,
		IsOperational: true,
	}
	return err
}

// NewAuthentication creates an authentication error (401).
func NewAuthentication(message string) (err *Error) {
	if message == "" {
		message = "Autenticação falhou"
	}
	err = &Error{
		Kind:          KindAuthentication,
		Message:       message,
		StatusCode:    401,
		IsOperational: true,
	}
	return err
}

// NewNotFound creates a not-found error (404).
func NewNotFound(message string) (err *Error) {
	if message == "" {
		message = "Recurso não encontrado"
	}
	err = &Error{
		Kind:          KindNotFound,
		Message:       message,
		StatusCode:    404,
		IsOperational: true,
	}
	return err
}

// NewRateLimit creates a rate-limit error (429).
func NewRateLimit(message string) (err *Error) {
	if message == "" {
		message = "Limite de requisições excedido"
	}
	err = &Error{
		Kind:          KindRateLimit,
		Message:       message,
		StatusCode:    429,
		IsOperational: true,
	}
	return err
}

// NewExternal creates an external error (502) optionally wrapping the
// underlying cause.
func NewExternal(message string, cause error) (err *Error) {
	err = &Error{
		Kind:          KindExternal,
		Message:       message,
		StatusCode:    502,
		IsOperational: true,
		Cause:         cause,
	}
	return err
}

// NewInternal creates a generic non-operational error (500).
func NewInternal(message string) (err *Error) {
	err = &Error{
		Kind:          KindInternal,
		Message:       message,
		StatusCode:    500,
		IsOperational: false,
	}
	return err
}

// Newf creates a generic non-operational error with a formatted message.
func Newf(format string, args ...interface{}) (err *Error) {
	err = NewInternal(fmt.Sprintf(format, args...))
	return err
}

// As extracts an *Error from an arbitrary error chain.
func As(err error) (appErr *Error, ok bool) {
	ok = errors.As(err, &appErr)
	return appErr, ok
}

// IsOperational reports whether the error is an expected, operational
// failure. Unknown error types are treated as non-operational.
func IsOperational(err error) (operational bool) {
	appErr, ok := As(err)
	if ok {
		operational = appErr.IsOperational
	}
	return operational
}
