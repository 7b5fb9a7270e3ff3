package middleware

import "net/http"

// NoStore keeps shell pages out of the HTTP cache and the back/forward cache,
// so a signed-out visitor cannot restore a dashboard from history.
func NoStore() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set("Cache-Control", "no-store, max-age=0")
			h.Set("Pragma", "no-cache")
			h.Add("Vary", "HX-Request")
			next.ServeHTTP(w, r)
		})
	}
}
