// Package credentials holds the immutable user and domain mapping tables.
package credentials

import (
	"context"
	"crypto/subtle"
	"fmt"
	"slices"

	"github.com/lytedev/netlify-ddns/internal/domain"
	"github.com/lytedev/netlify-ddns/internal/storage"
	"github.com/lytedev/netlify-ddns/internal/validation"
	"go.uber.org/zap"
)

// Store is a read-only snapshot of the credential and mapping tables. It is
// built once at startup and shared by every request without locking.
type Store struct {
	users    map[string]domain.PasswordSet
	mappings map[string]domain.Mapping
}

// New validates the tables and copies them into a Store.
func New(users domain.Users, mappings domain.Mappings) (*Store, error) {
	if err := validation.ValidateUsers(users).Err(); err != nil {
		return nil, fmt.Errorf("invalid users table: %w", err)
	}
	if err := validation.ValidateMappings(mappings).Err(); err != nil {
		return nil, fmt.Errorf("invalid mappings table: %w", err)
	}

	s := &Store{
		users:    make(map[string]domain.PasswordSet, len(users)),
		mappings: make(map[string]domain.Mapping, len(mappings)),
	}
	for username, passwords := range users {
		s.users[username] = slices.Clone(passwords)
	}
	for username, mapping := range mappings {
		s.mappings[username] = cloneMapping(mapping)
	}
	return s, nil
}

// Load reads both tables from src and builds a Store. Users present in the
// mapping table but not in the users table can never authenticate; they are
// logged and otherwise ignored.
func Load(ctx context.Context, src storage.Storage, log *zap.Logger) (*Store, error) {
	users, err := src.LoadUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading users: %w", err)
	}
	mappings, err := src.LoadMappings(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading mappings: %w", err)
	}

	store, err := New(users, mappings)
	if err != nil {
		return nil, err
	}

	for username := range mappings {
		if _, ok := users[username]; !ok {
			log.Warn("mapping configured for unknown user", zap.String("user", username))
		}
	}
	log.Info("loaded credential tables",
		zap.Int("users", len(store.users)),
		zap.Int("mappings", len(store.mappings)))

	return store, nil
}

// Authenticate reports whether password is one of username's accepted
// passwords. The second result reports whether the user exists at all; it
// is for logging only and must not reach the client.
func (s *Store) Authenticate(username, password string) (ok bool, userExists bool) {
	passwords, exists := s.users[username]
	if !exists {
		return false, false
	}
	matched := 0
	for _, candidate := range passwords {
		matched |= subtle.ConstantTimeCompare([]byte(candidate), []byte(password))
	}
	return matched == 1, true
}

// Mapping returns the domains configured for username.
func (s *Store) Mapping(username domain.Identity) (domain.Mapping, bool) {
	m, ok := s.mappings[string(username)]
	if !ok {
		return domain.Mapping{}, false
	}
	return cloneMapping(m), true
}

func cloneMapping(m domain.Mapping) domain.Mapping {
	out := domain.Mapping{Domains: make([]domain.DomainMapping, len(m.Domains))}
	for i, dm := range m.Domains {
		out.Domains[i] = domain.DomainMapping{
			Name:       dm.Name,
			Subdomains: slices.Clone(dm.Subdomains),
		}
	}
	return out
}
