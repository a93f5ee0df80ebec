// Package validation checks the credential and domain mapping tables before
// they are frozen into the credential store.
package validation

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/lytedev/netlify-ddns/internal/domain"
	"github.com/miekg/dns"
)

var structValidator = validator.New(validator.WithRequiredStructEnabled())

// ValidateDomainName checks that name is a syntactically valid domain name
// with at least two labels.
func ValidateDomainName(name string) error {
	if name == "" {
		return fmt.Errorf("domain must not be empty")
	}
	if strings.HasSuffix(name, ".") {
		return fmt.Errorf("domain must not end with a dot")
	}
	labels, ok := dns.IsDomainName(name)
	if !ok {
		return fmt.Errorf("%q is not a valid domain name", name)
	}
	if labels < 2 {
		return fmt.Errorf("%q must have at least two labels", name)
	}
	return nil
}

// ValidateSubdomainName checks a subdomain name relative to its domain.
// "@" is the apex; anything else must be a valid relative name.
func ValidateSubdomainName(name string) error {
	if name == domain.Apex {
		return nil
	}
	if name == "" {
		return fmt.Errorf("subdomain name must not be empty (use %q for the apex)", domain.Apex)
	}
	if strings.HasSuffix(name, ".") || strings.HasPrefix(name, ".") {
		return fmt.Errorf("subdomain %q must be relative and must not start or end with a dot", name)
	}
	if _, ok := dns.IsDomainName(name); !ok {
		return fmt.Errorf("%q is not a valid subdomain name", name)
	}
	return nil
}

// ValidateUsers checks the credential table.
func ValidateUsers(users domain.Users) ValidationErrors {
	var errs ValidationErrors
	for username, passwords := range users {
		field := "users." + username
		switch {
		case username == "":
			errs.Add("users", username, "username must not be empty")
			continue
		case strings.Contains(username, ":"):
			errs.Add(field, username, "username must not contain ':'")
		}
		if len(passwords) == 0 {
			errs.Add(field, username, "at least one password is required")
		}
		for _, pw := range passwords {
			if pw == "" {
				errs.Add(field, username, "passwords must not be empty")
				break
			}
		}
	}
	return errs
}

// ValidateMappings checks the domain mapping table.
func ValidateMappings(mappings domain.Mappings) ValidationErrors {
	var errs ValidationErrors
	for username, mapping := range mappings {
		field := "mappings." + username
		if username == "" {
			errs.Add("mappings", username, "username must not be empty")
			continue
		}
		if err := structValidator.Struct(mapping); err != nil {
			errs.Add(field, username, err.Error())
		}

		seenDomains := make(map[string]bool, len(mapping.Domains))
		for _, dm := range mapping.Domains {
			domainField := field + ".domains." + dm.Name
			if err := ValidateDomainName(dm.Name); err != nil {
				errs.Add(domainField, dm.Name, err.Error())
				continue
			}
			key := strings.ToLower(dm.Name)
			if seenDomains[key] {
				errs.Add(domainField, dm.Name, "domain is configured more than once")
			}
			seenDomains[key] = true

			seenSubs := make(map[string]bool, len(dm.Subdomains))
			for _, sub := range dm.Subdomains {
				if err := ValidateSubdomainName(sub.Name); err != nil {
					errs.Add(domainField+".subdomains", sub.Name, err.Error())
					continue
				}
				subKey := strings.ToLower(sub.Name)
				if seenSubs[subKey] {
					errs.Add(domainField+".subdomains", sub.Name, "subdomain is configured more than once")
				}
				seenSubs[subKey] = true
			}
		}
	}
	return errs
}
