package middleware

import (
	"net/http"
	"strconv"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/lytedev/netlify-ddns/internal/metrics"
)

// CountRequests counts responses by status code.
func CountRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		defer func() {
			metrics.Requests.WithLabelValues(strconv.Itoa(ww.Status())).Inc()
		}()
		next.ServeHTTP(ww, r)
	})
}
