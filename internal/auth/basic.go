// Package auth authenticates callers with HTTP Basic credentials.
package auth

import (
	"encoding/base64"
	"strings"

	"github.com/lytedev/netlify-ddns/internal/credentials"
	"github.com/lytedev/netlify-ddns/internal/domain"
	"go.uber.org/zap"
)

const basicScheme = "basic "

// Authenticator checks Authorization headers against the credential store.
type Authenticator struct {
	store *credentials.Store
	log   *zap.Logger
}

// NewAuthenticator creates an Authenticator.
func NewAuthenticator(store *credentials.Store, log *zap.Logger) *Authenticator {
	return &Authenticator{store: store, log: log}
}

// ParseBasic decodes an Authorization header value into username and
// password. The scheme name is case-insensitive and the password may
// contain ':'.
func ParseBasic(header string) (username, password string, err error) {
	if len(header) < len(basicScheme) || !strings.EqualFold(header[:len(basicScheme)], basicScheme) {
		return "", "", domain.ErrNoAuth
	}

	decoded, err := base64.StdEncoding.DecodeString(strings.TrimSpace(header[len(basicScheme):]))
	if err != nil {
		return "", "", domain.ErrInvalidBasicAuthBase64
	}

	username, password, _ = strings.Cut(string(decoded), ":")
	if username == "" {
		return "", "", domain.ErrEmptyUsername
	}
	if password == "" {
		return "", "", domain.ErrEmptyPassword
	}
	return username, password, nil
}

// Authenticate resolves header to an identity. Unknown users and wrong
// passwords both yield domain.ErrFailedToAuthenticate.
func (a *Authenticator) Authenticate(header string) (domain.Identity, error) {
	username, password, err := ParseBasic(header)
	if err != nil {
		return "", err
	}

	ok, exists := a.store.Authenticate(username, password)
	if !ok {
		reason := "wrong password"
		if !exists {
			reason = "unknown user"
		}
		a.log.Warn("authentication failed", zap.String("user", username), zap.String("reason", reason))
		return "", domain.ErrFailedToAuthenticate
	}
	return domain.Identity(username), nil
}
