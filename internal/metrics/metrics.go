// Package metrics exposes Prometheus counters for the DDNS endpoint.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "ddns"

var Requests = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Name:      "requests_total",
	Help:      "Counter of update requests by response status.",
}, []string{"status"})

var DomainReconciliations = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Name:      "domain_reconciliations_total",
	Help:      "Counter of per-domain reconciliations by result.",
}, []string{"result"})

var RecordOperations = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Name:      "record_operations_total",
	Help:      "Counter of provider record creations and deletions by outcome.",
}, []string{"op", "outcome"})

// Label values.
const (
	ResultOK    = "ok"
	ResultError = "error"

	OpCreate = "create"
	OpDelete = "delete"

	OutcomeOK          = "ok"
	OutcomeSoftFailure = "soft_failure"
	OutcomeError       = "error"
)
