package middleware

import (
	"net/http"
	"time"

	"github.com/felixge/httpsnoop"
)

const timeoutBody = `{"error":"Request timeout"}`

// Timeout answers 503 with a JSON error once a request runs past timeout.
func Timeout(timeout time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		th := http.TimeoutHandler(next, timeout, timeoutBody)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			th.ServeHTTP(jsonOnUnavailable(w), r)
		})
	}
}

// jsonOnUnavailable labels a 503 as JSON when nothing upstream set a content
// type. http.TimeoutHandler writes its body without one.
func jsonOnUnavailable(w http.ResponseWriter) http.ResponseWriter {
	return httpsnoop.Wrap(w, httpsnoop.Hooks{
		WriteHeader: func(next httpsnoop.WriteHeaderFunc) httpsnoop.WriteHeaderFunc {
			return func(code int) {
				if code == http.StatusServiceUnavailable && w.Header().Get("Content-Type") == "" {
					w.Header().Set("Content-Type", "application/json")
				}
				next(code)
			}
		},
	})
}
