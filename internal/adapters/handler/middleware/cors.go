package middleware

import "net/http"

const (
	allowOrigin  = "*"
	allowMethods = "POST, OPTIONS"
	allowHeaders = "authorization, x-client-info, apikey, content-type"
)

// CORS sets the permissive cross-origin headers on every response, errors
// included, so browser callers can read error bodies.
func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		SetCORSHeaders(w.Header())
		next.ServeHTTP(w, r)
	})
}

func SetCORSHeaders(h http.Header) {
	h.Set("Access-Control-Allow-Origin", allowOrigin)
	h.Set("Access-Control-Allow-Methods", allowMethods)
	h.Set("Access-Control-Allow-Headers", allowHeaders)
}
