// Package netlify talks to the Netlify DNS API.
package netlify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/lytedev/netlify-ddns/internal/domain"
	"go.uber.org/zap"
)

// DefaultEndpoint is the public Netlify API base URL.
const DefaultEndpoint = "https://api.netlify.com/api/v1"

// RecordClient lists, creates and deletes DNS records in one zone.
// token overrides the client's default credential when non-empty.
type RecordClient interface {
	// CheckToken fails fast when no credential is available for a request.
	CheckToken(token string) error
	ListRecords(ctx context.Context, token, zone string) ([]domain.ExistingRecord, error)
	CreateRecord(ctx context.Context, token, zone string, record domain.DesiredRecord) (domain.Outcome, error)
	DeleteRecord(ctx context.Context, token, zone, id string) (domain.Outcome, error)
}

// Client is the HTTP implementation of RecordClient.
type Client struct {
	endpoint     string
	defaultToken string
	http         *http.Client
	log          *zap.Logger
}

// Ensure Client implements RecordClient.
var _ RecordClient = (*Client)(nil)

// Options configures a Client.
type Options struct {
	Endpoint     string
	DefaultToken string
	Timeout      time.Duration
}

// New creates a Netlify API client.
func New(opts Options, log *zap.Logger) (*Client, error) {
	endpoint := opts.Endpoint
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if _, err := url.Parse(endpoint); err != nil {
		return nil, fmt.Errorf("netlify: invalid endpoint %q: %w", endpoint, err)
	}
	return &Client{
		endpoint:     strings.TrimRight(endpoint, "/"),
		defaultToken: opts.DefaultToken,
		http:         &http.Client{Timeout: opts.Timeout},
		log:          log,
	}, nil
}

// ZoneID converts a domain into Netlify's zone identifier.
func ZoneID(zone string) string {
	return strings.ReplaceAll(zone, ".", "_")
}

func (c *Client) resolveToken(token string) (string, error) {
	if token != "" {
		return token, nil
	}
	if c.defaultToken != "" {
		return c.defaultToken, nil
	}
	return "", domain.ErrNoProviderToken
}

// CheckToken returns domain.ErrNoProviderToken when neither token nor the
// default token is set.
func (c *Client) CheckToken(token string) error {
	_, err := c.resolveToken(token)
	return err
}

// record is the provider's JSON representation of a DNS record.
type record struct {
	ID       string `json:"id"`
	Hostname string `json:"hostname"`
	Type     string `json:"type"`
	Value    string `json:"value"`
	TTL      uint32 `json:"ttl"`
}

func (r record) toDomain() domain.ExistingRecord {
	return domain.ExistingRecord{
		ID:         r.ID,
		Type:       domain.RecordType(r.Type),
		Hostname:   r.Hostname,
		Value:      r.Value,
		TTLSeconds: r.TTL,
	}
}

// createRequest is the body sent to create a record. Hostname is relative
// to the zone and empty for the apex.
type createRequest struct {
	Type     string `json:"type"`
	Hostname string `json:"hostname"`
	Value    string `json:"value"`
	TTL      uint32 `json:"ttl"`
}

// doRequest builds and executes a request against the zone's record
// collection. The token is appended as the access_token query parameter.
func (c *Client) doRequest(ctx context.Context, method, token, zone, id string, body any) (*http.Response, error) {
	tok, err := c.resolveToken(token)
	if err != nil {
		return nil, err
	}

	path := c.endpoint + "/dns_zones/" + url.PathEscape(ZoneID(zone)) + "/dns_records"
	if id != "" {
		path += "/" + url.PathEscape(id)
	}
	u, err := url.Parse(path)
	if err != nil {
		return nil, fmt.Errorf("netlify: build url: %w", err)
	}
	q := u.Query()
	q.Set("access_token", tok)
	u.RawQuery = q.Encode()

	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("netlify: marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), bodyReader)
	if err != nil {
		return nil, fmt.Errorf("netlify: build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json; charset=utf-8")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		// The error text contains the URL and with it the token.
		return nil, fmt.Errorf("netlify: %s %s records: %w", method, zone, redact(err, tok))
	}
	return resp, nil
}

// ListRecords returns every record in the zone.
func (c *Client) ListRecords(ctx context.Context, token, zone string) ([]domain.ExistingRecord, error) {
	c.log.Debug("listing dns records", zap.String("zone", zone))

	resp, err := c.doRequest(ctx, http.MethodGet, token, zone, "", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("netlify: read list response for %s: %w", zone, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &domain.ProviderError{
			Op:         "list",
			Zone:       zone,
			StatusCode: resp.StatusCode,
			Body:       string(body),
		}
	}

	var records []record
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, fmt.Errorf("netlify: decode list response for %s: %w", zone, err)
	}

	out := make([]domain.ExistingRecord, 0, len(records))
	for _, r := range records {
		out = append(out, r.toDomain())
	}
	return out, nil
}

// CreateRecord creates a record in the zone. A success response whose body
// is not JSON is reported as a soft failure, not an error.
func (c *Client) CreateRecord(ctx context.Context, token, zone string, rec domain.DesiredRecord) (domain.Outcome, error) {
	c.log.Info("creating dns record",
		zap.String("zone", zone),
		zap.String("hostname", rec.Hostname.FQDN()),
		zap.String("type", string(rec.Type)),
		zap.String("value", rec.Value.String()),
		zap.Uint32("ttl", rec.TTLSeconds))

	resp, err := c.doRequest(ctx, http.MethodPost, token, zone, "", createRequest{
		Type:     string(rec.Type),
		Hostname: rec.Hostname.Relative(),
		Value:    rec.Value.String(),
		TTL:      rec.TTLSeconds,
	})
	if err != nil {
		return domain.Outcome{}, err
	}
	defer resp.Body.Close()

	return c.readOutcome(resp, "create", zone)
}

// DeleteRecord deletes the record with the given provider id.
func (c *Client) DeleteRecord(ctx context.Context, token, zone, id string) (domain.Outcome, error) {
	c.log.Info("deleting dns record", zap.String("zone", zone), zap.String("id", id))

	resp, err := c.doRequest(ctx, http.MethodDelete, token, zone, id, nil)
	if err != nil {
		return domain.Outcome{}, err
	}
	defer resp.Body.Close()

	return c.readOutcome(resp, "delete", zone)
}

// readOutcome turns a create/delete response into an Outcome.
func (c *Client) readOutcome(resp *http.Response, op, zone string) (domain.Outcome, error) {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.Outcome{}, fmt.Errorf("netlify: read %s response for %s: %w", op, zone, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return domain.Outcome{}, &domain.ProviderError{
			Op:         op,
			Zone:       zone,
			StatusCode: resp.StatusCode,
			Body:       string(body),
		}
	}

	if !isJSON(resp.Header.Get("Content-Type")) || !json.Valid(body) {
		c.log.Debug("provider returned a non-JSON body",
			zap.String("op", op), zap.String("zone", zone), zap.Int("status", resp.StatusCode))
		return domain.Outcome{SoftFailure: true}, nil
	}

	outcome := domain.Outcome{Raw: json.RawMessage(body)}
	var r record
	if err := json.Unmarshal(body, &r); err == nil && r.ID != "" {
		rec := r.toDomain()
		outcome.Record = &rec
	}
	return outcome, nil
}

func isJSON(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == "application/json"
}

func redact(err error, token string) error {
	if token == "" {
		return err
	}
	msg := strings.ReplaceAll(err.Error(), url.QueryEscape(token), "REDACTED")
	msg = strings.ReplaceAll(msg, token, "REDACTED")
	return errors.New(msg)
}
