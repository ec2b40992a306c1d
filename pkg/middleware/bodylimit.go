package middleware

import "net/http"

// BodyLimit caps request body size for JSON and form payloads in both
// modes. Reads past the limit fail, and handlers decoding through the
// wrapped body surface a 413 to the client via http.MaxBytesReader.
func BodyLimit(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			}
			next.ServeHTTP(w, r)
		})
	}
}
