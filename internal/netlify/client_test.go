package netlify

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/netip"
	"testing"
	"time"

	"github.com/lytedev/netlify-ddns/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newTestClient(t *testing.T, defaultToken string, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := New(Options{Endpoint: srv.URL, DefaultToken: defaultToken, Timeout: 5 * time.Second}, zaptest.NewLogger(t))
	require.NoError(t, err)
	return c
}

func TestZoneID(t *testing.T) {
	assert.Equal(t, "lyte_dev", ZoneID("lyte.dev"))
	assert.Equal(t, "a_b_example_com", ZoneID("a.b.example.com"))
}

func TestClient_ListRecords(t *testing.T) {
	c := newTestClient(t, "default-token", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/dns_zones/lyte_dev/dns_records", r.URL.Path)
		assert.Equal(t, "default-token", r.URL.Query().Get("access_token"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"id": "r1", "hostname": "lyte.dev", "type": "A", "value": "1.2.3.4", "ttl": 120, "managed": false},
			{"id": "r2", "hostname": "lyte.dev", "type": "MX", "value": "mail.lyte.dev", "ttl": 3600}
		]`))
	})

	records, err := c.ListRecords(context.Background(), "", "lyte.dev")
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, domain.ExistingRecord{
		ID: "r1", Type: domain.RecordTypeA, Hostname: "lyte.dev", Value: "1.2.3.4", TTLSeconds: 120,
	}, records[0])
	assert.Equal(t, domain.RecordType("MX"), records[1].Type)
}

func TestClient_ListRecords_TokenOverride(t *testing.T) {
	c := newTestClient(t, "default-token", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "caller-token", r.URL.Query().Get("access_token"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	})

	records, err := c.ListRecords(context.Background(), "caller-token", "lyte.dev")
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestClient_ListRecords_ProviderError(t *testing.T) {
	c := newTestClient(t, "tok", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"code":401,"message":"Access Denied"}`))
	})

	_, err := c.ListRecords(context.Background(), "", "lyte.dev")
	require.Error(t, err)

	var pe *domain.ProviderError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, http.StatusUnauthorized, pe.StatusCode)
	assert.Equal(t, "list", pe.Op)
	assert.Contains(t, pe.Body, "Access Denied")
}

func TestClient_NoToken(t *testing.T) {
	called := false
	c := newTestClient(t, "", func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	assert.ErrorIs(t, c.CheckToken(""), domain.ErrNoProviderToken)
	assert.NoError(t, c.CheckToken("caller"))

	_, err := c.ListRecords(context.Background(), "", "lyte.dev")
	assert.ErrorIs(t, err, domain.ErrNoProviderToken)
	assert.False(t, called, "no request may be sent without a token")
}

func TestClient_CreateRecord(t *testing.T) {
	c := newTestClient(t, "tok", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/dns_zones/lyte_dev/dns_records", r.URL.Path)

		var body map[string]any
		data, _ := io.ReadAll(r.Body)
		assert.NoError(t, json.Unmarshal(data, &body))
		assert.Equal(t, "A", body["type"])
		assert.Equal(t, "home", body["hostname"])
		assert.Equal(t, "1.2.3.4", body["value"])
		assert.EqualValues(t, 60, body["ttl"])

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"new1","hostname":"home.lyte.dev","type":"A","value":"1.2.3.4","ttl":60}`))
	})

	outcome, err := c.CreateRecord(context.Background(), "", "lyte.dev", domain.DesiredRecord{
		Type:       domain.RecordTypeA,
		Hostname:   domain.NewHostname("lyte.dev", "home"),
		Value:      netip.MustParseAddr("1.2.3.4"),
		TTLSeconds: 60,
	})
	require.NoError(t, err)
	assert.False(t, outcome.SoftFailure)
	require.NotNil(t, outcome.Record)
	assert.Equal(t, "new1", outcome.Record.ID)
	assert.JSONEq(t, `{"id":"new1","hostname":"home.lyte.dev","type":"A","value":"1.2.3.4","ttl":60}`, string(outcome.Raw))
}

func TestClient_CreateRecord_ApexSendsEmptyHostname(t *testing.T) {
	c := newTestClient(t, "tok", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		assert.Equal(t, "", body["hostname"])
		w.WriteHeader(http.StatusCreated)
	})

	_, err := c.CreateRecord(context.Background(), "", "lyte.dev", domain.DesiredRecord{
		Type:       domain.RecordTypeAAAA,
		Hostname:   domain.NewHostname("lyte.dev", "@"),
		Value:      netip.MustParseAddr("2001:db8::1"),
		TTLSeconds: 120,
	})
	require.NoError(t, err)
}

func TestClient_CreateRecord_NonJSONBodyIsSoftFailure(t *testing.T) {
	c := newTestClient(t, "tok", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte("ok"))
	})

	outcome, err := c.CreateRecord(context.Background(), "", "lyte.dev", domain.DesiredRecord{
		Type:     domain.RecordTypeA,
		Hostname: domain.NewHostname("lyte.dev", "home"),
		Value:    netip.MustParseAddr("1.2.3.4"),
	})
	require.NoError(t, err)
	assert.True(t, outcome.SoftFailure)
}

func TestClient_DeleteRecord(t *testing.T) {
	c := newTestClient(t, "tok", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/dns_zones/lyte_dev/dns_records/r1", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	})

	outcome, err := c.DeleteRecord(context.Background(), "", "lyte.dev", "r1")
	require.NoError(t, err)
	assert.True(t, outcome.SoftFailure)
}

func TestClient_DeleteRecord_ProviderError(t *testing.T) {
	c := newTestClient(t, "tok", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"code":404,"message":"Not Found"}`))
	})

	_, err := c.DeleteRecord(context.Background(), "", "lyte.dev", "gone")
	assert.True(t, domain.IsProviderError(err))
}

func TestClient_TransportErrorRedactsToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	endpoint := srv.URL
	srv.Close()

	c, err := New(Options{Endpoint: endpoint, DefaultToken: "super-secret"}, zaptest.NewLogger(t))
	require.NoError(t, err)

	_, err = c.ListRecords(context.Background(), "", "lyte.dev")
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "super-secret")
	assert.False(t, domain.IsProviderError(err))
}
