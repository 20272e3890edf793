package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"log/slog"
	"net/http"
)

// APIKeyAuth authenticates bearer tokens against a static key set.
type APIKeyAuth struct {
	keys   []string
	logger *slog.Logger
}

// NewAPIKeyAuth creates a new API key authenticator.
func NewAPIKeyAuth(keys []string, logger *slog.Logger) (auth *APIKeyAuth) {
	auth = &APIKeyAuth{
		keys:   keys,
		logger: logger,
	}
	return auth
}

// Name returns the auth method name.
func (a *APIKeyAuth) Name() (name string) {
	name = "api-key"
	return name
}

// Authenticate validates the bearer token against the configured key set.
// An empty key set authenticates every request with a warning. The raw
// token is never logged; successful results carry only the key fingerprint.
func (a *APIKeyAuth) Authenticate(r *http.Request) (result *Result, err error) {
	if len(a.keys) == 0 {
		a.logger.Warn("no API keys configured, allowing unauthenticated access")
		result = &Result{
			Authenticated: true,
			Method:        a.Name(),
			Subject:       "anonymous",
		}
		return result, err
	}

	var token string
	token, err = extractBearerToken(r)
	if err != nil {
		return result, err
	}

	for _, key := range a.keys {
		if constantTimeEqual(token, key) {
			result = &Result{
				Authenticated: true,
				Method:        a.Name(),
				KeyID:         KeyID(key),
			}
			return result, err
		}
	}

	err = NewError(http.StatusForbidden, "Invalid API key")
	return result, err
}

// KeyID returns the loggable fingerprint of an API key, the first 16 hex
// characters of its SHA-256 digest.
func KeyID(key string) (id string) {
	sum := sha256.Sum256([]byte(key))
	id = hex.EncodeToString(sum[:])[:16]
	return id
}

// constantTimeEqual compares two strings without leaking where they
// diverge. Length mismatches burn a self-comparison so the timing profile
// stays flat.
func constantTimeEqual(a, b string) (equal bool) {
	if len(a) != len(b) {
		subtle.ConstantTimeCompare([]byte(a), []byte(a))
		return equal
	}

	equal = subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
	return equal
}
