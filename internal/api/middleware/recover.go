package middleware

import (
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/lytedev/netlify-ddns/internal/domain"
	"go.uber.org/zap"
)

// Recoverer turns a panic into a generic unknown_server_error response and
// logs the panic value.
func Recoverer(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				log.Error("panic while serving request",
					zap.String("request_id", chimw.GetReqID(r.Context())),
					zap.Any("panic", rec),
					zap.Stack("stack"))
				writeError(w, domain.ErrUnknownServer)
			}()

			next.ServeHTTP(w, r)
		})
	}
}
