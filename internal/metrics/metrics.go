// Package metrics exposes the Prometheus instrumentation surface for a
// canvasraft node: term, role, commit progress, elections, and RPC
// latencies.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles every collector a Node reports against. Callers register
// it once against a prometheus.Registerer and pass it down to the Raft
// node.
type Metrics struct {
	Term           prometheus.Gauge
	Role           *prometheus.GaugeVec
	CommitIndex    prometheus.Gauge
	LastApplied    prometheus.Gauge
	ElectionsTotal prometheus.Counter
	RPCLatency     *prometheus.HistogramVec
}

// New constructs the collector set for nodeID and registers it with reg.
func New(reg prometheus.Registerer, nodeID string) *Metrics {
	labels := prometheus.Labels{"node_id": nodeID}

	m := &Metrics{
		Term: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   "canvasraft",
			Name:        "current_term",
			Help:        "Current Raft term observed by this node.",
			ConstLabels: labels,
		}),
		Role: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace:   "canvasraft",
			Name:        "role",
			Help:        "1 for the role this node currently holds, 0 otherwise.",
			ConstLabels: labels,
		}, []string{"role"}),
		CommitIndex: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   "canvasraft",
			Name:        "commit_index",
			Help:        "Highest log index known committed.",
			ConstLabels: labels,
		}),
		LastApplied: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   "canvasraft",
			Name:        "last_applied",
			Help:        "Highest log index applied to the canvas.",
			ConstLabels: labels,
		}),
		ElectionsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "canvasraft",
			Name:        "elections_started_total",
			Help:        "Number of elections this node has started.",
			ConstLabels: labels,
		}),
		RPCLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   "canvasraft",
			Name:        "peer_rpc_duration_seconds",
			Help:        "Latency of outbound peer RPCs by method and outcome.",
			ConstLabels: labels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "outcome"}),
	}

	reg.MustRegister(m.Term, m.Role, m.CommitIndex, m.LastApplied, m.ElectionsTotal, m.RPCLatency)
	return m
}

// SetRole marks role as the node's current role and clears every other
// role gauge back to 0.
func (m *Metrics) SetRole(current string) {
	for _, r := range []string{"follower", "candidate", "leader"} {
		if r == current {
			m.Role.WithLabelValues(r).Set(1)
		} else {
			m.Role.WithLabelValues(r).Set(0)
		}
	}
}
