package service

import (
	"context"
	"errors"
	"net/netip"

	"github.com/lytedev/netlify-ddns/internal/credentials"
	"github.com/lytedev/netlify-ddns/internal/domain"
	"github.com/lytedev/netlify-ddns/internal/metrics"
	"github.com/lytedev/netlify-ddns/internal/netlify"
	"github.com/lytedev/netlify-ddns/internal/reconcile"
	"github.com/sourcegraph/conc/iter"
	"go.uber.org/zap"
)

// listFailedMessage is reported for list failures that are not provider
// responses, so transport details stay in the log.
const listFailedMessage = "failed to list DNS records"

// DDNSService points every record an identity owns at that identity's
// observed address.
type DDNSService struct {
	store      *credentials.Store
	client     netlify.RecordClient
	reconciler *reconcile.Reconciler
	defaultTTL uint32
	log        *zap.Logger
}

// NewDDNSService creates a new DDNSService.
func NewDDNSService(store *credentials.Store, client netlify.RecordClient, defaultTTL uint32, log *zap.Logger) *DDNSService {
	return &DDNSService{
		store:      store,
		client:     client,
		reconciler: reconcile.New(client, log),
		defaultTTL: defaultTTL,
		log:        log,
	}
}

// ReplaceAll reconciles every domain mapped to identity concurrently and
// returns one result per domain in mapping order. token overrides the
// default provider token when non-empty.
//
// Only errors that occur before the fan-out are returned; a domain that
// cannot be reconciled is reported in its own result.
func (s *DDNSService) ReplaceAll(ctx context.Context, identity domain.Identity, addr netip.Addr, token string) ([]domain.DomainResult, error) {
	log := s.log.With(zap.String("user", string(identity)), zap.Stringer("addr", addr))

	mapping, ok := s.store.Mapping(identity)
	if !ok {
		log.Warn("authenticated user has no domain mapping")
		return nil, domain.ErrUnconfiguredUser
	}
	if err := s.client.CheckToken(token); err != nil {
		return nil, err
	}

	// Provider calls run to completion even if the caller goes away.
	ctx = context.WithoutCancel(ctx)

	log.Info("replacing dns records", zap.Int("domains", len(mapping.Domains)))
	results := iter.Map(mapping.Domains, func(dm *domain.DomainMapping) domain.DomainResult {
		return s.reconcileDomain(ctx, log, token, *dm, addr)
	})
	return results, nil
}

func (s *DDNSService) reconcileDomain(ctx context.Context, log *zap.Logger, token string, dm domain.DomainMapping, addr netip.Addr) domain.DomainResult {
	log = log.With(zap.String("domain", dm.Name))

	result, err := s.reconciler.Reconcile(ctx, token, dm.Name, dm.DesiredRecords(addr, s.defaultTTL))
	if err != nil {
		log.Error("domain reconciliation failed", zap.Error(err))
		metrics.DomainReconciliations.WithLabelValues(metrics.ResultError).Inc()
		return domain.DomainResult{Domain: dm.Name, Error: domainErrorMessage(err)}
	}

	metrics.DomainReconciliations.WithLabelValues(metrics.ResultOK).Inc()
	log.Info("domain reconciled",
		zap.Int("kept", len(result.Kept)),
		zap.Int("deleted", len(result.Deleted)),
		zap.Int("added", len(result.Added)))
	return result
}

func domainErrorMessage(err error) string {
	var pe *domain.ProviderError
	if errors.As(err, &pe) {
		return pe.Error()
	}
	var he *domain.HTTPError
	if errors.As(err, &he) {
		return he.Message
	}
	return listFailedMessage
}
