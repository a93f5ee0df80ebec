package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/lytedev/netlify-ddns/internal/domain"
)

type contextKey string

const IdentityContextKey contextKey = "identity"

// Authenticator resolves an Authorization header to an identity.
type Authenticator interface {
	Authenticate(header string) (domain.Identity, error)
}

// BasicAuth creates authentication middleware. Requests without a valid
// identity are rejected with the authenticator's error.
func BasicAuth(authn Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, err := authn.Authenticate(r.Header.Get("Authorization"))
			if err != nil {
				var httpErr *domain.HTTPError
				if !errors.As(err, &httpErr) {
					httpErr = domain.ErrUnknownServer
				}
				writeError(w, httpErr)
				return
			}

			ctx := context.WithValue(r.Context(), IdentityContextKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetIdentityFromContext retrieves the authenticated identity from the
// request context.
func GetIdentityFromContext(ctx context.Context) (domain.Identity, bool) {
	identity, ok := ctx.Value(IdentityContextKey).(domain.Identity)
	return identity, ok
}

func writeError(w http.ResponseWriter, err *domain.HTTPError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(err.Status)
	json.NewEncoder(w).Encode(err)
}
