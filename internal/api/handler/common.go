package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/lytedev/netlify-ddns/internal/domain"
	"go.uber.org/zap"
)

// respondJSON writes a JSON response.
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// respondError writes a JSON error response.
func respondError(w http.ResponseWriter, err *domain.HTTPError) {
	respondJSON(w, err.Status, err)
}

// handleError converts domain errors to HTTP errors. Anything that is not
// an *domain.HTTPError is logged and reported as unknown_server_error.
func handleError(w http.ResponseWriter, log *zap.Logger, err error) {
	var httpErr *domain.HTTPError
	if errors.As(err, &httpErr) {
		respondError(w, httpErr)
		return
	}
	log.Error("unhandled error", zap.Error(err))
	respondError(w, domain.ErrUnknownServer)
}

// NotFound responds with not_found for unknown paths.
func NotFound(w http.ResponseWriter, r *http.Request) {
	respondError(w, domain.ErrNotFound)
}

// MethodNotAllowed responds with bad_method.
func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	respondError(w, domain.ErrBadMethod)
}

// Health reports that the process is serving.
func Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
