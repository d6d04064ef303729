// Package metrics defines prometheus counters and histograms for batch
// submissions, gas usage, and the swap planner's price-impact gate.
// cmd/ladderserver serves them at /metrics; no other package in this
// module updates them.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector owns one prometheus registry and the metric handles
// registered on it; cmd/ladderserver creates one per process.
type Collector struct {
	registry *prometheus.Registry

	BatchesSubmitted     *prometheus.CounterVec
	BatchesReverted      *prometheus.CounterVec
	GasUsed              *prometheus.HistogramVec
	PriceImpactGateTrips prometheus.Counter
	NonceReleases        prometheus.Counter
	ReceiptWaitSeconds   prometheus.Histogram
}

// New constructs a Collector with a fresh registry, mirroring how the
// rest of this codebase avoids the global default registry so multiple
// instances (e.g. in tests) never collide.
func New() *Collector {
	reg := prometheus.NewRegistry()

	c := &Collector{
		registry: reg,
		BatchesSubmitted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "clladder_batches_submitted_total",
			Help: "Number of atomic multicall/modifyLiquidities batches submitted.",
		}, []string{"protocol", "operation"}),
		BatchesReverted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "clladder_batches_reverted_total",
			Help: "Number of batches that mined with a failed receipt status.",
		}, []string{"protocol", "operation"}),
		GasUsed: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "clladder_gas_used",
			Help:    "Gas used per executed transaction.",
			Buckets: prometheus.ExponentialBuckets(50_000, 2, 10),
		}, []string{"protocol", "operation"}),
		PriceImpactGateTrips: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "clladder_price_impact_gate_trips_total",
			Help: "Number of swap plans rejected by the price-impact gate.",
		}),
		NonceReleases: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "clladder_nonce_releases_total",
			Help: "Number of reserved nonces released back to the pool after a failed submission.",
		}),
		ReceiptWaitSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "clladder_receipt_wait_seconds",
			Help:    "Time spent waiting for a transaction receipt.",
			Buckets: prometheus.DefBuckets,
		}),
	}

	reg.MustRegister(
		c.BatchesSubmitted, c.BatchesReverted, c.GasUsed,
		c.PriceImpactGateTrips, c.NonceReleases, c.ReceiptWaitSeconds,
	)
	return c
}

// Handler exposes the registry over /metrics for ladderserver.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
