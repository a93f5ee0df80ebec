package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v9"
	"github.com/joho/godotenv"
	"github.com/lytedev/netlify-ddns/internal/domain"
)

// Credential table sources.
const (
	CredentialsSourceEnv = "env"
	CredentialsSourceSQL = "sql"
)

// Config holds all configuration for the application.
type Config struct {
	Server      ServerConfig
	Netlify     NetlifyConfig
	Credentials CredentialsConfig
	Database    DatabaseConfig
	Log         LogConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host              string `env:"BIND_HOST" envDefault:"localhost"`
	Port              int    `env:"BIND_PORT" envDefault:"8080"`
	TrustProxyHeaders bool   `env:"TRUST_PROXY_HEADERS" envDefault:"false"`
}

// NetlifyConfig holds Netlify API configuration.
type NetlifyConfig struct {
	DefaultToken   string        `env:"DEFAULT_NETLIFY_API_TOKEN"`
	DefaultTTL     uint32        `env:"DEFAULT_NETLIFY_DDNS_TTL" envDefault:"120"`
	Endpoint       string        `env:"NETLIFY_API_ENDPOINT" envDefault:"https://api.netlify.com/api/v1"`
	RequestTimeout time.Duration `env:"NETLIFY_REQUEST_TIMEOUT" envDefault:"30s"`
	FileShim       string        `env:"NETLIFY_FILE_SHIM"` // Path to file for testing shim (disables real API)
}

// CredentialsConfig selects where the user and mapping tables come from.
type CredentialsConfig struct {
	Source       string `env:"CREDENTIALS_SOURCE" envDefault:"env"`
	UsersJSON    string `env:"NETLIFY_DDNS_USERS_JSON" envDefault:"{}"`
	MappingsJSON string `env:"NETLIFY_DDNS_MAPPINGS_JSON" envDefault:"{}"`
}

// DatabaseConfig holds database configuration.
type DatabaseConfig struct {
	Driver string `env:"DB_DRIVER" envDefault:"sqlite3"`
	DSN    string `env:"DB_DSN" envDefault:"data/netlify-ddns.db"`
}

// LogConfig holds logger configuration.
type LogConfig struct {
	Level    string `env:"LOG_LEVEL" envDefault:"info"`
	Encoding string `env:"LOG_ENCODING" envDefault:"json"`
}

// Load loads configuration from environment variables. A .env file in the
// working directory is read first; variables already set take precedence.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}
	return parse()
}

func parse() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(&cfg.Server); err != nil {
		return nil, fmt.Errorf("parsing server config: %w", err)
	}
	if err := env.Parse(&cfg.Netlify); err != nil {
		return nil, fmt.Errorf("parsing netlify config: %w", err)
	}
	if err := env.Parse(&cfg.Credentials); err != nil {
		return nil, fmt.Errorf("parsing credentials config: %w", err)
	}
	if err := env.Parse(&cfg.Database); err != nil {
		return nil, fmt.Errorf("parsing database config: %w", err)
	}
	if err := env.Parse(&cfg.Log); err != nil {
		return nil, fmt.Errorf("parsing log config: %w", err)
	}

	return cfg, nil
}

// Addr returns the server address in host:port format.
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return &domain.ConfigError{Key: "BIND_PORT", Message: "must be between 1 and 65535"}
	}
	if c.Netlify.DefaultTTL == 0 {
		return &domain.ConfigError{Key: "DEFAULT_NETLIFY_DDNS_TTL", Message: "must be greater than 0"}
	}
	if c.Netlify.RequestTimeout <= 0 {
		return &domain.ConfigError{Key: "NETLIFY_REQUEST_TIMEOUT", Message: "must be positive"}
	}

	switch c.Credentials.Source {
	case CredentialsSourceEnv:
	case CredentialsSourceSQL:
		switch c.Database.Driver {
		case "sqlite3", "postgres":
		default:
			return &domain.ConfigError{Key: "DB_DRIVER", Message: fmt.Sprintf("unsupported driver %q", c.Database.Driver)}
		}
		if c.Database.DSN == "" {
			return &domain.ConfigError{Key: "DB_DSN", Message: "is required when CREDENTIALS_SOURCE=sql"}
		}
	default:
		return &domain.ConfigError{Key: "CREDENTIALS_SOURCE", Message: fmt.Sprintf("must be %q or %q", CredentialsSourceEnv, CredentialsSourceSQL)}
	}

	switch c.Log.Encoding {
	case "json", "console":
	default:
		return &domain.ConfigError{Key: "LOG_ENCODING", Message: `must be "json" or "console"`}
	}

	return nil
}

// UseFileShim returns true if the file shim should be used instead of the real API.
func (c *Config) UseFileShim() bool {
	return c.Netlify.FileShim != ""
}
