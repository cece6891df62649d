package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/sasakorman/taxrunner/internal/api/apierr"
)

// AdminKey guards a route with the shared admin key, supplied as the
// `key` query parameter. An empty configured key disables the route
// entirely rather than leaving it open.
func AdminKey(adminKey string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			supplied := r.URL.Query().Get("key")
			if adminKey == "" ||
				subtle.ConstantTimeCompare([]byte(supplied), []byte(adminKey)) != 1 {
				apierr.WriteError(w, apierr.NewUnauthorizedError())
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
