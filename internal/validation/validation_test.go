package validation

import (
	"strings"
	"testing"

	"github.com/lytedev/netlify-ddns/internal/domain"
)

func TestValidateDomainName(t *testing.T) {
	tests := []struct {
		name    string
		domain  string
		wantErr bool
	}{
		{"valid", "lyte.dev", false},
		{"valid nested", "home.example.co.uk", false},
		{"empty", "", true},
		{"single label", "localhost", true},
		{"trailing dot", "lyte.dev.", true},
		{"empty label", "lyte..dev", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDomainName(tt.domain)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateDomainName(%q) error = %v, wantErr %v", tt.domain, err, tt.wantErr)
			}
		})
	}
}

func TestValidateSubdomainName(t *testing.T) {
	tests := []struct {
		name    string
		sub     string
		wantErr bool
	}{
		{"apex", "@", false},
		{"single label", "home", false},
		{"multiple labels", "testing-netlify-ddns.testing-area.h", false},
		{"empty", "", true},
		{"leading dot", ".home", true},
		{"trailing dot", "home.", true},
		{"empty label", "a..b", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSubdomainName(tt.sub)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateSubdomainName(%q) error = %v, wantErr %v", tt.sub, err, tt.wantErr)
			}
		})
	}
}

func TestValidateUsers(t *testing.T) {
	tests := []struct {
		name    string
		users   domain.Users
		wantErr bool
	}{
		{"single password", domain.Users{"alice": {"pw"}}, false},
		{"password set", domain.Users{"alice": {"pw1", "pw2"}}, false},
		{"empty username", domain.Users{"": {"pw"}}, true},
		{"colon in username", domain.Users{"a:b": {"pw"}}, true},
		{"no passwords", domain.Users{"alice": {}}, true},
		{"empty password", domain.Users{"alice": {"pw", ""}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := ValidateUsers(tt.users)
			if errs.HasErrors() != tt.wantErr {
				t.Errorf("ValidateUsers() errors = %v, wantErr %v", errs, tt.wantErr)
			}
		})
	}
}

func TestValidateMappings(t *testing.T) {
	valid := domain.Mapping{Domains: []domain.DomainMapping{{
		Name:       "lyte.dev",
		Subdomains: []domain.Subdomain{{Name: "@"}, {Name: "home", TTLSeconds: 60}},
	}}}

	tests := []struct {
		name     string
		mappings domain.Mappings
		wantErr  string
	}{
		{"valid", domain.Mappings{"alice": valid}, ""},
		{
			"invalid domain",
			domain.Mappings{"alice": {Domains: []domain.DomainMapping{{Name: "nodots", Subdomains: []domain.Subdomain{{Name: "@"}}}}}},
			"two labels",
		},
		{
			"duplicate domain",
			domain.Mappings{"alice": {Domains: []domain.DomainMapping{
				{Name: "lyte.dev", Subdomains: []domain.Subdomain{{Name: "@"}}},
				{Name: "LYTE.dev", Subdomains: []domain.Subdomain{{Name: "www"}}},
			}}},
			"more than once",
		},
		{
			"duplicate subdomain",
			domain.Mappings{"alice": {Domains: []domain.DomainMapping{
				{Name: "lyte.dev", Subdomains: []domain.Subdomain{{Name: "home"}, {Name: "Home"}}},
			}}},
			"more than once",
		},
		{
			"empty subdomain name",
			domain.Mappings{"alice": {Domains: []domain.DomainMapping{
				{Name: "lyte.dev", Subdomains: []domain.Subdomain{{Name: ""}}},
			}}},
			"Name",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := ValidateMappings(tt.mappings)
			if tt.wantErr == "" {
				if errs.HasErrors() {
					t.Fatalf("unexpected errors: %v", errs)
				}
				return
			}
			if !errs.HasErrors() {
				t.Fatalf("expected error containing %q, got none", tt.wantErr)
			}
			found := false
			for _, e := range errs {
				if strings.Contains(e.Message, tt.wantErr) {
					found = true
				}
			}
			if !found {
				t.Errorf("expected an error containing %q, got %v", tt.wantErr, errs)
			}
		})
	}
}

func TestValidationErrors_Err(t *testing.T) {
	var errs ValidationErrors
	if errs.Err() != nil {
		t.Error("expected nil error for empty collection")
	}
	errs.Add("users.bob", "bob", "bad")
	if errs.Err() == nil {
		t.Error("expected non-nil error")
	}
	if got := errs.Error(); got != "users.bob: bad" {
		t.Errorf("unexpected message %q", got)
	}
}
