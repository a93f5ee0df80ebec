// Package reconcile converges a zone's address records to the desired set.
package reconcile

import (
	"context"
	"net/netip"

	"github.com/lytedev/netlify-ddns/internal/domain"
	"github.com/lytedev/netlify-ddns/internal/metrics"
	"github.com/lytedev/netlify-ddns/internal/netlify"
	"github.com/sourcegraph/conc"
	"github.com/sourcegraph/conc/iter"
	"go.uber.org/zap"
)

// slotKey identifies the record slot a desired record claims.
type slotKey struct {
	recordType domain.RecordType
	hostname   domain.Hostname
}

// ComputePlan partitions existing into records to keep and records to delete,
// and reports which desired records still have to be created.
//
// Existing records outside the desired slots are never touched. When the
// provider lists several records for one slot, only the first exact match is
// kept; later exact duplicates are left alone because nothing attributes them
// to a slot any more.
func ComputePlan(zone string, desired []domain.DesiredRecord, existing []domain.ExistingRecord) domain.Plan {
	working := make([]domain.DesiredRecord, len(desired))
	copy(working, desired)

	var plan domain.Plan
	for _, rec := range existing {
		hostname, ok := domain.ParseHostname(zone, rec.Hostname)
		if !ok {
			continue
		}
		key := slotKey{recordType: rec.Type, hostname: hostname}

		idx := -1
		for i, want := range working {
			if (slotKey{recordType: want.Type, hostname: want.Hostname}) == key {
				idx = i
				break
			}
		}
		if idx < 0 {
			continue
		}

		if matches(working[idx], rec) {
			plan.Kept = append(plan.Kept, rec)
			working = append(working[:idx], working[idx+1:]...)
			continue
		}
		plan.ToDelete = append(plan.ToDelete, rec.ID)
	}

	plan.ToCreate = working
	return plan
}

// matches reports whether rec already has the desired type, TTL and value.
func matches(want domain.DesiredRecord, rec domain.ExistingRecord) bool {
	if rec.Type != want.Type || rec.TTLSeconds != want.TTLSeconds {
		return false
	}
	value, err := netip.ParseAddr(rec.Value)
	if err != nil {
		return false
	}
	return value.Unmap() == want.Value.Unmap()
}

// Reconciler applies plans through a provider client.
type Reconciler struct {
	client netlify.RecordClient
	log    *zap.Logger
}

// New creates a Reconciler.
func New(client netlify.RecordClient, log *zap.Logger) *Reconciler {
	return &Reconciler{client: client, log: log}
}

// Apply issues every create and every delete in the plan concurrently. The
// two batches are independent: a stale record and its replacement may
// briefly coexist. A failed call is recorded in its outcome and never stops
// the remaining calls.
func (r *Reconciler) Apply(ctx context.Context, token, zone string, plan domain.Plan) (added, deleted []domain.Outcome) {
	log := r.log.With(zap.String("zone", zone))

	var wg conc.WaitGroup
	wg.Go(func() {
		added = iter.Map(plan.ToCreate, func(rec *domain.DesiredRecord) domain.Outcome {
			outcome, err := r.client.CreateRecord(ctx, token, zone, *rec)
			return record(log, metrics.OpCreate, rec.Hostname.FQDN(), outcome, err)
		})
	})
	wg.Go(func() {
		deleted = iter.Map(plan.ToDelete, func(id *string) domain.Outcome {
			outcome, err := r.client.DeleteRecord(ctx, token, zone, *id)
			return record(log, metrics.OpDelete, *id, outcome, err)
		})
	})
	wg.Wait()

	return added, deleted
}

// Reconcile lists the zone, computes the plan for desired and applies it.
// Only a failure to list the zone is returned as an error.
func (r *Reconciler) Reconcile(ctx context.Context, token, zone string, desired []domain.DesiredRecord) (domain.DomainResult, error) {
	existing, err := r.client.ListRecords(ctx, token, zone)
	if err != nil {
		return domain.DomainResult{}, err
	}

	plan := ComputePlan(zone, desired, existing)
	r.log.Info("computed reconciliation plan",
		zap.String("zone", zone),
		zap.Int("existing", len(existing)),
		zap.Int("kept", len(plan.Kept)),
		zap.Int("to_delete", len(plan.ToDelete)),
		zap.Int("to_create", len(plan.ToCreate)))

	added, deleted := r.Apply(ctx, token, zone, plan)
	return domain.DomainResult{
		Domain:  zone,
		Kept:    plan.Kept,
		Deleted: deleted,
		Added:   added,
	}, nil
}

func record(log *zap.Logger, op, target string, outcome domain.Outcome, err error) domain.Outcome {
	switch {
	case err != nil:
		log.Error("record operation failed", zap.String("op", op), zap.String("target", target), zap.Error(err))
		metrics.RecordOperations.WithLabelValues(op, metrics.OutcomeError).Inc()
		return domain.Outcome{Err: op + " failed for " + target}
	case outcome.SoftFailure:
		metrics.RecordOperations.WithLabelValues(op, metrics.OutcomeSoftFailure).Inc()
	default:
		metrics.RecordOperations.WithLabelValues(op, metrics.OutcomeOK).Inc()
	}
	return outcome
}
