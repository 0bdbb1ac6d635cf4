package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// TerminalMetrics records register activity for the /metrics endpoint.
type TerminalMetrics struct {
	scans          prometheus.Counter
	lookups        *prometheus.CounterVec
	checkouts      *prometheus.CounterVec
	commitDuration prometheus.Histogram
	publishes      prometheus.Counter
}

// NewTerminalMetrics registers the terminal metrics on the provided registerer.
func NewTerminalMetrics(reg prometheus.Registerer) *TerminalMetrics {
	if reg == nil {
		return &TerminalMetrics{}
	}
	scans := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "scans_decoded_total",
		Help: "Barcodes decoded from scanner bursts.",
	})
	lookups := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "scan_lookups_total",
		Help: "Catalog lookups triggered by scans, by outcome.",
	}, []string{"outcome"})
	checkouts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkouts_total",
		Help: "Checkout attempts, by result.",
	}, []string{"result"})
	commitDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "commit_duration_seconds",
		Help:    "Duration of remote sale commits in seconds.",
		Buckets: prometheus.DefBuckets,
	})
	publishes := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "display_publishes_total",
		Help: "Snapshots pushed to the customer display channel.",
	})
	reg.MustRegister(scans, lookups, checkouts, commitDuration, publishes)
	return &TerminalMetrics{
		scans:          scans,
		lookups:        lookups,
		checkouts:      checkouts,
		commitDuration: commitDuration,
		publishes:      publishes,
	}
}

// IncScan counts a decoded barcode.
func (m *TerminalMetrics) IncScan() {
	if m == nil || m.scans == nil {
		return
	}
	m.scans.Inc()
}

// IncLookup counts a catalog lookup by outcome.
func (m *TerminalMetrics) IncLookup(outcome string) {
	if m == nil || m.lookups == nil {
		return
	}
	m.lookups.WithLabelValues(normalizeLabel(outcome)).Inc()
}

// IncCheckout counts a checkout attempt by result.
func (m *TerminalMetrics) IncCheckout(result string) {
	if m == nil || m.checkouts == nil {
		return
	}
	m.checkouts.WithLabelValues(normalizeLabel(result)).Inc()
}

// ObserveCommitDuration records how long the remote commit took.
func (m *TerminalMetrics) ObserveCommitDuration(duration time.Duration) {
	if m == nil || m.commitDuration == nil {
		return
	}
	m.commitDuration.Observe(duration.Seconds())
}

// IncPublish counts a display snapshot publish.
func (m *TerminalMetrics) IncPublish() {
	if m == nil || m.publishes == nil {
		return
	}
	m.publishes.Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
