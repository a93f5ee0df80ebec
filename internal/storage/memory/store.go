package memory

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/lytedev/netlify-ddns/internal/domain"
	"github.com/lytedev/netlify-ddns/internal/storage"
)

// Store holds the tables in memory. It backs the JSON environment variable
// configuration and is used directly in tests.
type Store struct {
	users    domain.Users
	mappings domain.Mappings
}

// Ensure Store implements storage.Storage.
var _ storage.Storage = (*Store)(nil)

// New creates a store over the given tables. Nil tables are treated as empty.
func New(users domain.Users, mappings domain.Mappings) *Store {
	if users == nil {
		users = domain.Users{}
	}
	if mappings == nil {
		mappings = domain.Mappings{}
	}
	return &Store{users: users, mappings: mappings}
}

// FromJSON parses the JSON-encoded credential and mapping tables.
func FromJSON(usersJSON, mappingsJSON string) (*Store, error) {
	var users domain.Users
	if err := json.Unmarshal([]byte(usersJSON), &users); err != nil {
		return nil, fmt.Errorf("parsing users JSON: %w", err)
	}
	var mappings domain.Mappings
	if err := json.Unmarshal([]byte(mappingsJSON), &mappings); err != nil {
		return nil, fmt.Errorf("parsing mappings JSON: %w", err)
	}
	return New(users, mappings), nil
}

func (s *Store) Close() error { return nil }

func (s *Store) LoadUsers(ctx context.Context) (domain.Users, error) {
	return s.users, nil
}

func (s *Store) LoadMappings(ctx context.Context) (domain.Mappings, error) {
	return s.mappings, nil
}
