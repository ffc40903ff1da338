// AngelaMos | 2026
// bodylimit.go

package middleware

import (
	"net/http"
)

// BodyLimit caps request bodies at n bytes. Decoders reading past the cap
// get an *http.MaxBytesError.
func BodyLimit(n int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if n > 0 && r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, n)
			}
			next.ServeHTTP(w, r)
		})
	}
}
