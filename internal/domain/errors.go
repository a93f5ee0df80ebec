package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// HTTPError is an error that is safe to show to the client. It is rendered
// as {"id": ..., "status": ..., "message": ...}.
type HTTPError struct {
	ID      string `json:"id"`
	Status  int    `json:"status"`
	Message string `json:"message"`
}

// Error implements the error interface.
func (e *HTTPError) Error() string {
	return fmt.Sprintf("%s (%d): %s", e.ID, e.Status, e.Message)
}

// Is reports whether target is an *HTTPError with the same ID.
func (e *HTTPError) Is(target error) bool {
	t, ok := target.(*HTTPError)
	if !ok {
		return false
	}
	return e.ID == t.ID
}

// Request-level errors. Every one of these aborts the request before any
// domain is reconciled.
var (
	// Malformed or missing credentials (AuthError).
	ErrNoAuth = &HTTPError{
		ID:      "no_auth",
		Status:  http.StatusUnauthorized,
		Message: "No HTTP Basic authentication credentials provided.",
	}
	ErrInvalidBasicAuthBase64 = &HTTPError{
		ID:      "invalid_http_basic_auth_base64",
		Status:  http.StatusBadRequest,
		Message: "Failed to base64-decode username and password from HTTP Basic auth",
	}
	ErrEmptyUsername = &HTTPError{
		ID:      "http_basic_auth_empty_username",
		Status:  http.StatusBadRequest,
		Message: "Username must not be blank",
	}
	ErrEmptyPassword = &HTTPError{
		ID:      "http_basic_auth_empty_password",
		Status:  http.StatusBadRequest,
		Message: "Password must not be blank",
	}
	ErrFailedToAuthenticate = &HTTPError{
		ID:      "failed_to_authenticate",
		Status:  http.StatusUnauthorized,
		Message: "User does not exist or password incorrect",
	}
	ErrUnconfiguredUser = &HTTPError{
		ID:      "unconfigured_user_for_dns_replace",
		Status:  http.StatusUnauthorized,
		Message: "This user is not configured to replace DNS records for any domains.",
	}

	// Missing per-request provider credential (ConfigError).
	ErrNoProviderToken = &HTTPError{
		ID:      "no_netlify_api_token",
		Status:  http.StatusBadRequest,
		Message: "No Netlify API token is configured; send one in the netlify-token header.",
	}

	// Routing.
	ErrNotFound = &HTTPError{
		ID:      "not_found",
		Status:  http.StatusNotFound,
		Message: "Not Found",
	}
	ErrBadMethod = &HTTPError{
		ID:      "bad_method",
		Status:  http.StatusMethodNotAllowed,
		Message: "This endpoint only accepts POST requests",
	}

	// Anything not classified above.
	ErrUnknownServer = &HTTPError{
		ID:      "unknown_server_error",
		Status:  http.StatusInternalServerError,
		Message: "Unknown Server Error",
	}
)

// ConfigError is a missing or invalid configuration value.
type ConfigError struct {
	Key     string
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: %s", e.Key, e.Message)
}

// ProviderError is a provider API call that returned a non-success status.
// Body holds the raw response for diagnostics; it is never sent to clients.
type ProviderError struct {
	Op         string
	Zone       string
	StatusCode int
	Body       string
}

// Error implements the error interface.
func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s %s: provider returned status %d", e.Op, e.Zone, e.StatusCode)
}

// IsProviderError reports whether err wraps a *ProviderError.
func IsProviderError(err error) bool {
	var pe *ProviderError
	return errors.As(err, &pe)
}
