package domain

import (
	"encoding/json"
	"strings"

	"github.com/miekg/dns"
)

// Apex is the subdomain name that refers to the zone itself.
const Apex = "@"

// Hostname is a record name inside a zone. It carries both the zone and the
// name relative to it so that the absolute and relative forms never have to
// be derived by string surgery at the call site.
type Hostname struct {
	zone  string
	local string
}

// canonical lowercases s and strips the trailing root dot.
func canonical(s string) string {
	if s == "" {
		return ""
	}
	return strings.TrimSuffix(dns.CanonicalName(s), ".")
}

// NewHostname builds the hostname for a configured subdomain of zone.
// "@" and "" both refer to the zone apex.
func NewHostname(zone, subdomain string) Hostname {
	local := canonical(subdomain)
	if local == "" || local == Apex {
		local = Apex
	}
	return Hostname{zone: canonical(zone), local: local}
}

// ParseHostname interprets an absolute hostname reported by the provider
// relative to zone. It returns false when fqdn is not inside zone.
func ParseHostname(zone, fqdn string) (Hostname, bool) {
	z := canonical(zone)
	name := canonical(fqdn)
	if z == "" || name == "" {
		return Hostname{}, false
	}
	if name == z {
		return Hostname{zone: z, local: Apex}, true
	}
	local, ok := strings.CutSuffix(name, "."+z)
	if !ok || local == "" {
		return Hostname{}, false
	}
	return Hostname{zone: z, local: local}, true
}

// Zone returns the zone the hostname belongs to.
func (h Hostname) Zone() string { return h.zone }

// Local returns the name relative to the zone, "@" for the apex.
func (h Hostname) Local() string { return h.local }

// IsApex reports whether h is the zone itself.
func (h Hostname) IsApex() bool { return h.local == Apex }

// Relative returns the name relative to the zone as the provider expects it
// on creation: empty for the apex.
func (h Hostname) Relative() string {
	if h.IsApex() {
		return ""
	}
	return h.local
}

// FQDN returns the absolute hostname without the trailing dot.
func (h Hostname) FQDN() string {
	if h.IsApex() {
		return h.zone
	}
	return h.local + "." + h.zone
}

// String implements fmt.Stringer.
func (h Hostname) String() string { return h.FQDN() }

// MarshalJSON renders the absolute hostname.
func (h Hostname) MarshalJSON() ([]byte, error) {
	return json.Marshal(h.FQDN())
}
