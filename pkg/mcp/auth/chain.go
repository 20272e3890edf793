package auth

import (
	"log/slog"
	"net/http"
)

// Chain tries multiple authentication methods in order.
type Chain struct {
	methods []Method
	logger  *slog.Logger
}

// NewChain creates a new authentication chain.
func NewChain(methods []Method, logger *slog.Logger) (chain *Chain) {
	chain = &Chain{
		methods: methods,
		logger:  logger,
	}
	return chain
}

// Authenticate tries each method in order until one succeeds. A chain with
// no methods allows every request. On total failure the error of the last
// method is returned, preserving its HTTP status.
func (c *Chain) Authenticate(r *http.Request) (result *Result, err error) {
	if len(c.methods) == 0 {
		result = &Result{
			Authenticated: true,
			Method:        "none",
			Subject:       "anonymous",
		}
		return result, err
	}

	var lastErr error
	for _, method := range c.methods {
		result, err = method.Authenticate(r)
		if err == nil {
			c.logger.Debug("authentication succeeded",
				slog.String("method", method.Name()),
				slog.String("key_id", result.KeyID))
			return result, err
		}
		lastErr = err
		c.logger.Debug("authentication failed",
			slog.String("method", method.Name()),
			slog.String("error", err.Error()))
	}

	err = lastErr
	if _, ok := err.(*Error); !ok {
		err = NewError(http.StatusUnauthorized, err.Error())
	}

	return result, err
}

// Name returns the chain name.
func (c *Chain) Name() (name string) {
	name = "auth-chain"
	return name
}
