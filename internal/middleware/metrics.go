package middleware

import (
	"net/http"
	"time"
)

// RequestRecorder receives one observation per finished request
type RequestRecorder interface {
	RecordHTTPRequest(route, method string, status int, duration time.Duration)
}

// Metrics records each request's route template, method, status and duration
func Metrics(recorder RequestRecorder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			wrapped := NewResponseWriter(w)

			next.ServeHTTP(wrapped, r)

			recorder.RecordHTTPRequest(RouteTemplate(r), r.Method, wrapped.Status(), time.Since(start))
		})
	}
}
