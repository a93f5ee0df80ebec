package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/lytedev/netlify-ddns/internal/api/handler"
	"github.com/lytedev/netlify-ddns/internal/api/middleware"
	"github.com/lytedev/netlify-ddns/internal/service"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Update endpoints. The second path is kept for clients configured against
// older releases.
const (
	ReplaceAllPath       = "/v1/netlify-ddns/replace-all-relevant-user-dns-records"
	LegacyReplaceAllPath = "/v1/netlify-ddns/replace-all-dns-records"
)

// Options configures the router.
type Options struct {
	// TrustProxyHeaders takes the client address from X-Forwarded-For or
	// X-Real-IP instead of the connection.
	TrustProxyHeaders bool
}

// NewRouter creates a new HTTP router with all routes configured.
func NewRouter(
	authn middleware.Authenticator,
	ddnsService *service.DDNSService,
	log *zap.Logger,
	opts Options,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimw.RequestID)
	if opts.TrustProxyHeaders {
		r.Use(chimw.RealIP)
	}
	r.Use(middleware.Logger(log))
	r.Use(middleware.Recoverer(log))

	r.NotFound(handler.NotFound)
	r.MethodNotAllowed(handler.MethodNotAllowed)

	// Health check and metrics (no auth required)
	r.Get("/health", handler.Health)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	// Method routing happens before authentication, so a GET is rejected
	// with bad_method without credentials.
	ddnsHandler := handler.NewDDNSHandler(ddnsService, log)
	update := r.With(middleware.CountRequests, middleware.BasicAuth(authn))
	update.Post(ReplaceAllPath, ddnsHandler.ReplaceAll)
	update.Post(LegacyReplaceAllPath, ddnsHandler.ReplaceAll)

	return r
}
