package middleware

import (
	"net/http"

	"github.com/google/uuid"
)

// RequestID tags every request with an X-Request-ID header, generating one
// when the client did not send its own. The ID is echoed on the response and
// ends up in error envelopes.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.New().String()
			r.Header.Set("X-Request-ID", id)
		}
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r)
	})
}
