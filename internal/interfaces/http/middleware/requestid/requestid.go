package requestid

import (
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/quirino/oauth-code-service/internal/domain"
)

// Propagate copies the request ID assigned by chi's RequestID middleware
// into the domain context so handlers can attach it to their logs without
// importing chi.
func Propagate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id := middleware.GetReqID(r.Context()); id != "" {
			r = r.WithContext(domain.WithRequestID(r.Context(), id))
		}
		next.ServeHTTP(w, r)
	})
}
