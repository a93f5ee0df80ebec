package memory

import (
	"context"
	"testing"
)

func TestFromJSON(t *testing.T) {
	store, err := FromJSON(
		`{"tester-guy": "password", "multi": ["a", "b"]}`,
		`{"tester-guy": {"domains": {"lyte.dev": {"subdomains": [{"name": "testing-netlify-ddns.testing-area.h"}]}}}}`,
	)
	if err != nil {
		t.Fatalf("FromJSON failed: %v", err)
	}

	users, _ := store.LoadUsers(context.Background())
	if len(users["multi"]) != 2 {
		t.Errorf("expected 2 passwords for multi, got %v", users["multi"])
	}

	mappings, _ := store.LoadMappings(context.Background())
	m, ok := mappings["tester-guy"]
	if !ok {
		t.Fatal("expected mapping for tester-guy")
	}
	if len(m.Domains) != 1 || m.Domains[0].Name != "lyte.dev" {
		t.Errorf("unexpected domains %+v", m.Domains)
	}
}

func TestFromJSON_Invalid(t *testing.T) {
	if _, err := FromJSON(`not json`, `{}`); err == nil {
		t.Error("expected error for invalid users JSON")
	}
	if _, err := FromJSON(`{}`, `{"u": {"domains": []}}`); err == nil {
		t.Error("expected error for domains given as an array")
	}
}

func TestNew_NilTables(t *testing.T) {
	store := New(nil, nil)
	users, err := store.LoadUsers(context.Background())
	if err != nil || users == nil {
		t.Errorf("expected empty users table, got %v, %v", users, err)
	}
}
