package middleware

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/restaurante/backend/internal/metrics"
)

// Metrics returns a middleware recording request count, duration and
// in-flight requests, labelled by route template.
func Metrics(m *metrics.Metrics) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			m.IncInFlight()
			defer m.DecInFlight()

			wrapped := wrap(w)
			next.ServeHTTP(wrapped, r)

			m.RecordHTTPRequest(r.Method, routeOf(r), wrapped.statusCode, time.Since(start))
		})
	}
}
