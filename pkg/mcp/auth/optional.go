package auth

import (
	"log/slog"
	"net/http"
)

// Optional wraps a method so that failure never rejects the request. Any
// error, including a recovered panic, degrades to an anonymous result.
type Optional struct {
	method Method
	logger *slog.Logger
}

// NewOptional wraps a method in non-blocking mode.
func NewOptional(method Method, logger *slog.Logger) (opt *Optional) {
	opt = &Optional{
		method: method,
		logger: logger,
	}
	return opt
}

// Name returns the auth method name.
func (o *Optional) Name() (name string) {
	name = "optional-" + o.method.Name()
	return name
}

// Authenticate never returns an error. Failed or panicking authentication
// yields the anonymous result.
func (o *Optional) Authenticate(r *http.Request) (result *Result, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			o.logger.Warn("panic in optional authentication",
				slog.String("method", o.method.Name()),
				slog.Any("panic", rec))
			result = anonymousResult()
		}
	}()

	result, methodErr := o.method.Authenticate(r)
	if methodErr != nil {
		o.logger.Debug("optional authentication failed, continuing as anonymous",
			slog.String("method", o.method.Name()),
			slog.String("error", methodErr.Error()))
		result = anonymousResult()
	}

	return result, err
}

// anonymousResult is the degraded identity Optional falls back to.
func anonymousResult() (result *Result) {
	result = &Result{
		Authenticated: false,
		Method:        "anonymous",
		Subject:       "anonymous",
	}
	return result
}
