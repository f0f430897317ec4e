// Package ingest implements the fetch-classify-transform step and the
// batching scheduler that drives it against the status store.
package ingest

import (
	"context"
	"fmt"
	"time"

	"github.com/vettr/ingest-cli/internal/model"
	"github.com/vettr/ingest-cli/pkg/yahoo"
)

// Provider fetches the raw attribute bundle for one symbol.
type Provider interface {
	Fetch(ctx context.Context, symbol string) (*yahoo.Snapshot, error)
}

// FilterConfig is the inclusive market-cap band. Tickers outside it are
// skipped with an auditable reason, never silently dropped.
type FilterConfig struct {
	MinMarketCap float64 `mapstructure:"min_market_cap"`
	MaxMarketCap float64 `mapstructure:"max_market_cap"`
}

// Result is the classified outcome of processing one ticker.
type Result struct {
	Ticker model.Ticker
	Status model.Status
	// Reason explains skipped and failed outcomes.
	Reason string
	// MarketCap is the observed size metric, set on completion.
	MarketCap *float64
	// Record is the normalized output, set only on completion.
	Record *model.StockRecord
}

// Worker runs the per-ticker fetch-classify-transform step. Process has no
// side effects: persisting the record and the status transition is the
// scheduler's job, which keeps a crash between the two safely re-runnable.
type Worker struct {
	provider Provider
	filter   FilterConfig
	now      func() time.Time
}

// NewWorker creates a worker over the given provider and inclusion band.
func NewWorker(provider Provider, filter FilterConfig) *Worker {
	return &Worker{provider: provider, filter: filter, now: time.Now}
}

// Process fetches one ticker and classifies the outcome:
//
//	provider error        → Failed (the only outcome worth a manual retry)
//	no price signal       → Skipped, "no market data available"
//	no market cap         → Skipped, "no market cap data"
//	cap outside the band  → Skipped, reason citing bound and observed value
//	otherwise             → Completed with the normalized record attached
func (w *Worker) Process(ctx context.Context, t model.Ticker) Result {
	snap, err := w.provider.Fetch(ctx, t.ProviderSymbol)
	if err != nil {
		return Result{Ticker: t, Status: model.StatusFailed, Reason: err.Error()}
	}

	if !snap.HasPrice() {
		return Result{Ticker: t, Status: model.StatusSkipped, Reason: "no market data available"}
	}

	mc := snap.MarketCap
	if mc == nil {
		return Result{Ticker: t, Status: model.StatusSkipped, Reason: "no market cap data"}
	}
	// Inclusive band: a cap exactly at either bound stays in.
	if *mc < w.filter.MinMarketCap {
		return Result{Ticker: t, Status: model.StatusSkipped,
			Reason: fmt.Sprintf("market cap $%.0f below $%.0f minimum", *mc, w.filter.MinMarketCap)}
	}
	if *mc > w.filter.MaxMarketCap {
		return Result{Ticker: t, Status: model.StatusSkipped,
			Reason: fmt.Sprintf("market cap $%.0f above $%.0f maximum", *mc, w.filter.MaxMarketCap)}
	}

	rec := buildRecord(w.now(), t, snap)
	return Result{Ticker: t, Status: model.StatusCompleted, MarketCap: mc, Record: rec}
}
