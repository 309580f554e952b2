package middleware

import (
	"net/http"
	"time"

	"github.com/HammerMeetNail/planwise/internal/metrics"
)

const unmatchedRoute = "unmatched"

// HTTPMetrics records request counts and latencies per route pattern.
type HTTPMetrics struct{}

func NewHTTPMetrics() *HTTPMetrics {
	return &HTTPMetrics{}
}

// Apply must wrap the ServeMux so r.Pattern is populated once next returns.
func (m *HTTPMetrics) Apply(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := newResponseRecorder(w)

		next.ServeHTTP(recorder, r)

		route := r.Pattern
		if route == "" {
			route = unmatchedRoute
		}
		metrics.RecordHTTPRequest(r.Method, route, recorder.statusCode, time.Since(start))
	})
}
