package middleware

import (
	"net/http"

	logpkg "github.com/benvon/todo-everyday/internal/logger"
	"github.com/benvon/todo-everyday/internal/request"
	"go.uber.org/zap"
)

// Audit logs abuse and failure signals for monitoring
func Audit(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			wrapped := newStatusRecorder(w)

			next.ServeHTTP(wrapped, r)

			statusCode := wrapped.statusCode
			log := logpkg.FromContext(r.Context(), logger)
			fields := []zap.Field{
				zap.String("method", r.Method),
				zap.String("path", logpkg.SanitizePath(r.URL.Path)),
				zap.String("ip", logpkg.SanitizeString(request.ClientIP(r), logpkg.MaxGeneralStringLength)),
			}

			switch {
			case statusCode == http.StatusTooManyRequests:
				log.Warn("rate_limit_violation", fields...)
			case statusCode == http.StatusRequestEntityTooLarge:
				log.Warn("oversized_request", fields...)
			case statusCode >= http.StatusInternalServerError:
				log.Warn("server_error_response", append(fields, zap.Int("status_code", statusCode))...)
			}
		})
	}
}
