package handler

import (
	"fmt"
	"net/http"
	"net/netip"

	"github.com/lytedev/netlify-ddns/internal/api/middleware"
	"github.com/lytedev/netlify-ddns/internal/domain"
	"github.com/lytedev/netlify-ddns/internal/service"
	"go.uber.org/zap"
)

// TokenHeader carries a caller-supplied Netlify API token.
const TokenHeader = "netlify-token"

// DDNSHandler handles DNS replacement requests.
type DDNSHandler struct {
	service *service.DDNSService
	log     *zap.Logger
}

// NewDDNSHandler creates a new DDNSHandler.
func NewDDNSHandler(svc *service.DDNSService, log *zap.Logger) *DDNSHandler {
	return &DDNSHandler{service: svc, log: log}
}

// ReplaceAll points every record of the authenticated user at the address
// the request came from.
func (h *DDNSHandler) ReplaceAll(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.GetIdentityFromContext(r.Context())
	if !ok {
		respondError(w, domain.ErrNoAuth)
		return
	}

	addr, err := RemoteAddr(r)
	if err != nil {
		handleError(w, h.log, err)
		return
	}

	results, err := h.service.ReplaceAll(r.Context(), identity, addr, r.Header.Get(TokenHeader))
	if err != nil {
		handleError(w, h.log, err)
		return
	}

	if results == nil {
		results = []domain.DomainResult{}
	}
	respondJSON(w, http.StatusOK, results)
}

// RemoteAddr returns the observed client address. IPv4-mapped IPv6
// addresses are returned as IPv4.
func RemoteAddr(r *http.Request) (netip.Addr, error) {
	if ap, err := netip.ParseAddrPort(r.RemoteAddr); err == nil {
		return ap.Addr().Unmap().WithZone(""), nil
	}
	addr, err := netip.ParseAddr(r.RemoteAddr)
	if err != nil {
		return netip.Addr{}, fmt.Errorf("parsing remote address %q: %w", r.RemoteAddr, err)
	}
	return addr.Unmap().WithZone(""), nil
}
