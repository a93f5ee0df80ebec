package domain

import (
	"encoding/json"
	"net/netip"

	"github.com/miekg/dns"
)

// RecordType is a DNS resource record type name as the provider spells it.
type RecordType string

// Address record types managed by the service.
var (
	RecordTypeA    = RecordType(dns.TypeToString[dns.TypeA])
	RecordTypeAAAA = RecordType(dns.TypeToString[dns.TypeAAAA])
)

// RecordTypeFor returns AAAA for IPv6 addresses and A otherwise.
// IPv4-mapped IPv6 addresses count as IPv4.
func RecordTypeFor(addr netip.Addr) RecordType {
	if addr.Unmap().Is4() {
		return RecordTypeA
	}
	return RecordTypeAAAA
}

// DesiredRecord is a record that should exist after reconciliation. It is
// derived per request from the caller's address and subdomain configuration.
type DesiredRecord struct {
	Type       RecordType `json:"type"`
	Hostname   Hostname   `json:"hostname"`
	Value      netip.Addr `json:"value"`
	TTLSeconds uint32     `json:"ttlSeconds"`
}

// ExistingRecord is a record as reported by the provider. ID is the only
// handle used for deletion and is always taken verbatim from the provider.
type ExistingRecord struct {
	ID         string     `json:"id"`
	Type       RecordType `json:"type"`
	Hostname   string     `json:"hostname"`
	Value      string     `json:"value"`
	TTLSeconds uint32     `json:"ttlSeconds"`
}

// Plan is the partition of one zone's records computed by the reconciler.
type Plan struct {
	Kept     []ExistingRecord
	ToDelete []string
	ToCreate []DesiredRecord
}

// Empty reports whether executing the plan would change nothing.
func (p Plan) Empty() bool {
	return len(p.ToDelete) == 0 && len(p.ToCreate) == 0
}

// SoftFailureBody is what a soft failure renders as in the response.
const SoftFailureBody = "{Empty Response}"

// Outcome is the result of a single create or delete call.
//
// Raw holds the provider's confirmation verbatim. SoftFailure means the
// provider accepted the call but its body could not be parsed. Err is set
// when the call itself failed; it never fails the owning domain.
type Outcome struct {
	Record      *ExistingRecord
	Raw         json.RawMessage
	SoftFailure bool
	Err         string
}

// MarshalJSON renders the confirmation, the soft failure marker, or the error.
func (o Outcome) MarshalJSON() ([]byte, error) {
	switch {
	case o.Err != "":
		return json.Marshal(struct {
			Error string `json:"error"`
		}{o.Err})
	case o.SoftFailure || len(o.Raw) == 0:
		return json.Marshal(SoftFailureBody)
	default:
		return o.Raw, nil
	}
}
