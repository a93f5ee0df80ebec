package storage

import (
	"context"

	"github.com/lytedev/netlify-ddns/internal/domain"
)

// Storage is a source of the credential and domain mapping tables. The
// tables are read once at startup; nothing writes to a Storage at runtime.
// Implementations must be safe for concurrent use.
type Storage interface {
	// Close releases the underlying resources.
	Close() error

	// LoadUsers returns the username to accepted-passwords table.
	LoadUsers(ctx context.Context) (domain.Users, error)

	// LoadMappings returns the username to domains table. Domains keep
	// their configured order.
	LoadMappings(ctx context.Context) (domain.Mappings, error)
}
