package auth

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/neviim/mcppatrimonio/pkg/metrics"
)

type contextKey string

// ResultContextKey stores the authentication result on the request context.
const ResultContextKey contextKey = "auth-result"

// Middleware gates an HTTP handler behind an authentication chain.
// Rejections are rendered as JSON with the status of the decisive failure.
func Middleware(chain *Chain, logger *slog.Logger) (middleware func(http.Handler) http.Handler) {
	middleware = func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			result, err := chain.Authenticate(r)
			if err != nil {
				metrics.AuthAttemptsTotal.WithLabelValues(metrics.StatusError).Inc()

				status := http.StatusUnauthorized
				var authErr *Error
				if errors.As(err, &authErr) {
					status = authErr.Status
				}

				logger.Warn("authentication rejected",
					slog.String("path", r.URL.Path),
					slog.Int("status", status),
					slog.String("error", err.Error()))

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(status)
				_ = json.NewEncoder(w).Encode(map[string]string{
					"error":   http.StatusText(status),
					"message": err.Error(),
				})
				return
			}

			metrics.AuthAttemptsTotal.WithLabelValues(metrics.StatusSuccess).Inc()

			ctx := context.WithValue(r.Context(), ResultContextKey, result)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
	return middleware
}

// ResultFromContext retrieves the authentication result stored by the
// middleware.
func ResultFromContext(ctx context.Context) (result *Result, exists bool) {
	result, exists = ctx.Value(ResultContextKey).(*Result)
	return result, exists
}
