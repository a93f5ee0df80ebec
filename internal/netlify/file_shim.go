package netlify

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/lytedev/netlify-ddns/internal/domain"
	"go.uber.org/zap"
)

// FileShim is a RecordClient that keeps zones in a local JSON file instead
// of calling Netlify. The file maps zone names to record lists.
type FileShim struct {
	filePath string
	mu       sync.Mutex
	log      *zap.Logger
}

// Ensure FileShim implements RecordClient.
var _ RecordClient = (*FileShim)(nil)

// NewFileShim creates a file-backed provider.
func NewFileShim(filePath string, log *zap.Logger) *FileShim {
	return &FileShim{filePath: filePath, log: log}
}

// CheckToken always succeeds; the shim needs no credential.
func (f *FileShim) CheckToken(string) error {
	return nil
}

func (f *FileShim) read() (map[string][]record, error) {
	data, err := os.ReadFile(f.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string][]record{}, nil
		}
		return nil, fmt.Errorf("reading zone file: %w", err)
	}

	zones := map[string][]record{}
	if len(strings.TrimSpace(string(data))) == 0 {
		return zones, nil
	}
	if err := json.Unmarshal(data, &zones); err != nil {
		return nil, fmt.Errorf("parsing zone file: %w", err)
	}
	return zones, nil
}

func (f *FileShim) write(zones map[string][]record) error {
	data, err := json.MarshalIndent(zones, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling zones: %w", err)
	}
	if err := os.WriteFile(f.filePath, data, 0644); err != nil {
		return fmt.Errorf("writing zone file: %w", err)
	}
	return nil
}

// ListRecords returns the records stored for zone. A zone missing from the
// file is reported the way the provider reports an unknown zone.
func (f *FileShim) ListRecords(ctx context.Context, token, zone string) ([]domain.ExistingRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	zones, err := f.read()
	if err != nil {
		return nil, err
	}
	records, ok := zones[zone]
	if !ok {
		return nil, &domain.ProviderError{
			Op:         "list",
			Zone:       zone,
			StatusCode: 404,
			Body:       `{"code":404,"message":"Not Found"}`,
		}
	}

	out := make([]domain.ExistingRecord, 0, len(records))
	for _, r := range records {
		out = append(out, r.toDomain())
	}
	return out, nil
}

// CreateRecord appends a record with a fresh id.
func (f *FileShim) CreateRecord(ctx context.Context, token, zone string, rec domain.DesiredRecord) (domain.Outcome, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	zones, err := f.read()
	if err != nil {
		return domain.Outcome{}, err
	}

	created := record{
		ID:       uuid.New().String(),
		Hostname: rec.Hostname.FQDN(),
		Type:     string(rec.Type),
		Value:    rec.Value.String(),
		TTL:      rec.TTLSeconds,
	}
	zones[zone] = append(zones[zone], created)
	if err := f.write(zones); err != nil {
		return domain.Outcome{}, err
	}

	raw, err := json.Marshal(created)
	if err != nil {
		return domain.Outcome{}, err
	}
	existing := created.toDomain()
	f.log.Debug("shim created record", zap.String("zone", zone), zap.String("id", created.ID))
	return domain.Outcome{Record: &existing, Raw: raw}, nil
}

// DeleteRecord removes the record with the given id. Like the provider's
// empty 204 response, a successful delete is a soft failure with no body.
func (f *FileShim) DeleteRecord(ctx context.Context, token, zone, id string) (domain.Outcome, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	zones, err := f.read()
	if err != nil {
		return domain.Outcome{}, err
	}

	records := zones[zone]
	for i, r := range records {
		if r.ID == id {
			zones[zone] = append(records[:i:i], records[i+1:]...)
			if err := f.write(zones); err != nil {
				return domain.Outcome{}, err
			}
			f.log.Debug("shim deleted record", zap.String("zone", zone), zap.String("id", id))
			return domain.Outcome{SoftFailure: true}, nil
		}
	}

	return domain.Outcome{}, &domain.ProviderError{
		Op:         "delete",
		Zone:       zone,
		StatusCode: 404,
		Body:       `{"code":404,"message":"Not Found"}`,
	}
}
