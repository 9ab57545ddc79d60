package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"
)

// Logging returns a middleware that logs every request with its status and
// duration. Server errors are logged at error level, client errors at warn.
func Logging() mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			wrapped := wrap(w)

			next.ServeHTTP(wrapped, r)

			args := []any{
				"method", r.Method,
				"path", r.URL.Path,
				"route", routeOf(r),
				"status", wrapped.statusCode,
				"duration_ms", time.Since(start).Milliseconds(),
			}
			if userID := GetUserID(r.Context()); userID != "" {
				args = append(args, "id_usuario", userID)
			}

			switch {
			case wrapped.statusCode >= http.StatusInternalServerError:
				slog.Error("HTTP request failed", args...)
			case wrapped.statusCode >= http.StatusBadRequest:
				slog.Warn("HTTP request rejected", args...)
			default:
				slog.Info("HTTP request", args...)
			}
		})
	}
}
