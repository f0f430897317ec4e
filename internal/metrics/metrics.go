// Package metrics registers the Prometheus instruments exposed by the
// ingestion health server during long fetch runs.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// TickersProcessed counts processed tickers by terminal outcome.
	TickersProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vettr_tickers_processed_total",
			Help: "Total number of tickers processed, by outcome",
		},
		[]string{"outcome"},
	)

	// BatchesCompleted counts checkpointed batches.
	BatchesCompleted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "vettr_batches_completed_total",
			Help: "Total number of batches processed and saved",
		},
	)

	// PendingTickers tracks the remaining pending set of the current run.
	PendingTickers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "vettr_pending_tickers",
			Help: "Pending tickers remaining in the current run",
		},
	)

	// ProviderFetchDuration observes the latency of provider fetches.
	ProviderFetchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "vettr_provider_fetch_duration_seconds",
			Help:    "Latency of market data provider fetches",
			Buckets: prometheus.DefBuckets,
		},
	)
)
