// Package auth implements the authentication gate of the HTTP transport.
// Methods are composed into a Chain; rejections carry the HTTP status of
// the decisive failure.
package auth

import (
	"net/http"
	"strings"
)

// Method represents an authentication method.
type Method interface {
	// Name returns the human-readable name of this auth method.
	Name() string

	// Authenticate attempts to authenticate the request.
	// Returns nil error if authentication succeeds, *Error otherwise.
	Authenticate(r *http.Request) (*Result, error)
}

// Result contains information about an authenticated request.
type Result struct {
	Authenticated bool   `json:"authenticated"`
	KeyID         string `json:"keyId,omitempty"`
	Subject       string `json:"subject,omitempty"`
	Method        string `json:"method"`
}

// Error is an authentication rejection with its HTTP status.
type Error struct {
	Status  int
	Message string
}

// Error implements the error interface.
func (e *Error) Error() (msg string) {
	msg = e.Message
	return msg
}

// NewError creates an authentication error.
func NewError(status int, message string) (err *Error) {
	err = &Error{Status: status, Message: message}
	return err
}

// extractBearerToken pulls the token out of the Authorization header. The
// header must be exactly "Bearer <token>".
func extractBearerToken(r *http.Request) (token string, err error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		err = NewError(http.StatusUnauthorized, "Missing Authorization header")
		return token, err
	}

	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		err = NewError(http.StatusUnauthorized, "Invalid Authorization header format. Expected: Bearer <token>")
		return token, err
	}

	token = parts[1]
	return token, err
}
