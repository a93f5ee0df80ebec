package domain

import "encoding/json"

// DomainResult is the outcome of reconciling one domain. Either Error is set
// or the three record lists describe what happened.
type DomainResult struct {
	Domain  string
	Kept    []ExistingRecord
	Deleted []Outcome
	Added   []Outcome
	Error   string
}

// Failed reports whether the domain could not be reconciled at all.
func (r DomainResult) Failed() bool {
	return r.Error != ""
}

// MarshalJSON renders {domain, error} for failed domains and
// {domain, kept, deleted, added} otherwise, with empty lists as [].
func (r DomainResult) MarshalJSON() ([]byte, error) {
	if r.Failed() {
		return json.Marshal(struct {
			Domain string `json:"domain"`
			Error  string `json:"error"`
		}{r.Domain, r.Error})
	}
	kept, deleted, added := r.Kept, r.Deleted, r.Added
	if kept == nil {
		kept = []ExistingRecord{}
	}
	if deleted == nil {
		deleted = []Outcome{}
	}
	if added == nil {
		added = []Outcome{}
	}
	return json.Marshal(struct {
		Domain  string           `json:"domain"`
		Kept    []ExistingRecord `json:"kept"`
		Deleted []Outcome        `json:"deleted"`
		Added   []Outcome        `json:"added"`
	}{r.Domain, kept, deleted, added})
}
