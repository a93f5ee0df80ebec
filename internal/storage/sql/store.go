package sql

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/lytedev/netlify-ddns/internal/domain"
	"github.com/lytedev/netlify-ddns/internal/storage"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// Store reads the credential and mapping tables from a SQL database.
type Store struct {
	db     *sqlx.DB
	driver string
}

// Ensure Store implements storage.Storage.
var _ storage.Storage = (*Store)(nil)

// New connects to the database and brings the schema up to date.
func New(driver, dsn string) (*Store, error) {
	db, err := sqlx.Connect(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	goose.SetBaseFS(embedMigrations)
	if err := goose.SetDialect(driver); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting goose dialect: %w", err)
	}

	if err := goose.Up(db.DB, "migrations"); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return &Store{db: db, driver: driver}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

type passwordRow struct {
	Username string `db:"username"`
	Password string `db:"password"`
}

// LoadUsers reads every user with their accepted passwords. A user row with
// no passwords is returned with an empty set so validation can reject it.
func (s *Store) LoadUsers(ctx context.Context) (domain.Users, error) {
	var usernames []string
	if err := s.db.SelectContext(ctx, &usernames,
		`SELECT username FROM ddns_users ORDER BY username`); err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}

	users := make(domain.Users, len(usernames))
	for _, u := range usernames {
		users[u] = domain.PasswordSet{}
	}

	var rows []passwordRow
	if err := s.db.SelectContext(ctx, &rows,
		`SELECT username, password FROM ddns_user_passwords ORDER BY username, password`); err != nil {
		return nil, fmt.Errorf("listing passwords: %w", err)
	}
	for _, row := range rows {
		if _, ok := users[row.Username]; !ok {
			continue
		}
		users[row.Username] = append(users[row.Username], row.Password)
	}

	return users, nil
}

type domainRow struct {
	Username string `db:"username"`
	Domain   string `db:"domain"`
}

type subdomainRow struct {
	Username   string        `db:"username"`
	Domain     string        `db:"domain"`
	Name       string        `db:"name"`
	TTLSeconds sql.NullInt64 `db:"ttl_seconds"`
}

// LoadMappings reads every user's domains and subdomains in position order.
func (s *Store) LoadMappings(ctx context.Context) (domain.Mappings, error) {
	var domains []domainRow
	if err := s.db.SelectContext(ctx, &domains,
		`SELECT username, domain FROM ddns_user_domains ORDER BY username, position, domain`); err != nil {
		return nil, fmt.Errorf("listing domains: %w", err)
	}

	var subdomains []subdomainRow
	if err := s.db.SelectContext(ctx, &subdomains,
		`SELECT username, domain, name, ttl_seconds FROM ddns_user_subdomains
		 ORDER BY username, domain, position, name`); err != nil {
		return nil, fmt.Errorf("listing subdomains: %w", err)
	}

	type key struct{ username, domain string }
	subsByDomain := make(map[key][]domain.Subdomain)
	for _, row := range subdomains {
		sub := domain.Subdomain{Name: row.Name}
		if row.TTLSeconds.Valid {
			if row.TTLSeconds.Int64 < 0 || row.TTLSeconds.Int64 > int64(^uint32(0)) {
				return nil, fmt.Errorf("subdomain %s of %s: ttl_seconds %d out of range",
					row.Name, row.Domain, row.TTLSeconds.Int64)
			}
			sub.TTLSeconds = uint32(row.TTLSeconds.Int64)
		}
		k := key{row.Username, row.Domain}
		subsByDomain[k] = append(subsByDomain[k], sub)
	}

	mappings := make(domain.Mappings)
	for _, row := range domains {
		m := mappings[row.Username]
		m.Domains = append(m.Domains, domain.DomainMapping{
			Name:       row.Domain,
			Subdomains: subsByDomain[key{row.Username, row.Domain}],
		})
		mappings[row.Username] = m
	}

	return mappings, nil
}
