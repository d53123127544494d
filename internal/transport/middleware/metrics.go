package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/heartmarshall/painstats-backend/internal/metrics"
)

// Metrics returns middleware that records request count and latency per
// route pattern. It reads the pattern the mux stored on the request, so it
// must wrap the mux directly, with no request-copying middleware in between.
func Metrics(m *metrics.Metrics) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(sw, r)

			pattern := r.Pattern
			if pattern == "" {
				pattern = "unmatched"
			}

			m.HTTPRequestsTotal.WithLabelValues(pattern, r.Method, strconv.Itoa(sw.status)).Inc()
			m.HTTPRequestDuration.WithLabelValues(pattern, r.Method).Observe(time.Since(start).Seconds())
		})
	}
}
