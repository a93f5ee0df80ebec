package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/netip"
)

// PasswordSet is the set of passwords accepted for one user. The JSON form
// may be a single string or an array of strings; both decode to a set.
type PasswordSet []string

// UnmarshalJSON accepts either "pw" or ["pw1", "pw2"].
func (p *PasswordSet) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*p = PasswordSet{single}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return fmt.Errorf("password must be a string or an array of strings")
	}
	*p = PasswordSet(many)
	return nil
}

// Users maps usernames to their accepted passwords.
type Users map[string]PasswordSet

// Subdomain is one configured name within a domain.
type Subdomain struct {
	Name       string `json:"name" db:"name" validate:"required"`
	TTLSeconds uint32 `json:"ttlSeconds,omitempty" db:"ttl_seconds"`
}

// DomainMapping is the configuration of one domain owned by a user.
type DomainMapping struct {
	Name       string      `json:"-" db:"domain" validate:"required"`
	Subdomains []Subdomain `json:"subdomains" validate:"dive"`
}

// DesiredRecords expands the subdomain configuration into the records that
// should point at addr. A zero TTL falls back to defaultTTL.
func (d DomainMapping) DesiredRecords(addr netip.Addr, defaultTTL uint32) []DesiredRecord {
	addr = addr.Unmap()
	recordType := RecordTypeFor(addr)
	records := make([]DesiredRecord, 0, len(d.Subdomains))
	for _, sub := range d.Subdomains {
		ttl := sub.TTLSeconds
		if ttl == 0 {
			ttl = defaultTTL
		}
		records = append(records, DesiredRecord{
			Type:       recordType,
			Hostname:   NewHostname(d.Name, sub.Name),
			Value:      addr,
			TTLSeconds: ttl,
		})
	}
	return records
}

// Mapping is the set of domains a user may update, in configuration order.
type Mapping struct {
	Domains []DomainMapping `validate:"dive"`
}

// UnmarshalJSON decodes {"domains": {"<domain>": {...}, ...}} keeping the
// order in which the domains appear.
func (m *Mapping) UnmarshalJSON(data []byte) error {
	var raw struct {
		Domains json.RawMessage `json:"domains"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	m.Domains = nil
	if len(raw.Domains) == 0 || bytes.Equal(raw.Domains, []byte("null")) {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw.Domains))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("domains must be an object keyed by domain name")
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		name, ok := tok.(string)
		if !ok {
			return fmt.Errorf("unexpected token %v in domains", tok)
		}
		var dm DomainMapping
		if err := dec.Decode(&dm); err != nil {
			return fmt.Errorf("domain %s: %w", name, err)
		}
		dm.Name = name
		m.Domains = append(m.Domains, dm)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}

// Mappings maps usernames to the domains they own.
type Mappings map[string]Mapping

// Identity is the authenticated username. It is only used as a key into the
// mapping table.
type Identity string
