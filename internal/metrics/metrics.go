// Package metrics defines the prometheus collectors exported by fintrack.
//
// All recording methods are safe to call on a nil *Metrics, so components can
// run without instrumentation (tests, the CLI).
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "fintrack"

// Metrics groups the collectors for the record store and the RPC layer.
type Metrics struct {
	mutations      *prometheus.CounterVec
	decodeFailures *prometheus.CounterVec
	rejections     *prometheus.CounterVec
	rpcDuration    *prometheus.HistogramVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "record_mutations_total",
			Help:      "Persisted record store mutations by container and operation.",
		}, []string{"container", "op"}),
		decodeFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "blob_decode_failures_total",
			Help:      "Stored blobs that failed to parse and were treated as empty.",
		}, []string{"key"}),
		rejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "record_rejections_total",
			Help:      "Mutations rejected by record store invariants.",
		}, []string{"reason"}),
		rpcDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "rpc_duration_seconds",
			Help:      "Unary RPC latency by procedure and result code.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"procedure", "code"}),
	}
	reg.MustRegister(m.mutations, m.decodeFailures, m.rejections, m.rpcDuration)
	return m
}

// RecordMutation counts one persisted add/update/delete.
func (m *Metrics) RecordMutation(container, op string) {
	if m == nil {
		return
	}
	m.mutations.WithLabelValues(container, op).Inc()
}

// RecordDecodeFailure counts a stored blob that could not be parsed.
func (m *Metrics) RecordDecodeFailure(key string) {
	if m == nil {
		return
	}
	m.decodeFailures.WithLabelValues(key).Inc()
}

// RecordRejection counts a mutation refused by an invariant (e.g. "budget_exists").
func (m *Metrics) RecordRejection(reason string) {
	if m == nil {
		return
	}
	m.rejections.WithLabelValues(reason).Inc()
}

// ObserveRPC records the latency of one unary call.
func (m *Metrics) ObserveRPC(procedure, code string, d time.Duration) {
	if m == nil {
		return
	}
	m.rpcDuration.WithLabelValues(procedure, code).Observe(d.Seconds())
}
