package ingest

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/vettr/ingest-cli/internal/metrics"
	"github.com/vettr/ingest-cli/internal/model"
	"github.com/vettr/ingest-cli/internal/records"
	"github.com/vettr/ingest-cli/internal/status"
)

// SchedulerConfig controls batching and throttling.
type SchedulerConfig struct {
	// BatchSize is the number of tickers per checkpointed batch.
	BatchSize int `mapstructure:"size"`
	// SleepSec is the pause between batches, respecting provider limits.
	SleepSec int `mapstructure:"sleep_secs"`
	// Concurrency bounds parallel provider fetches within a batch.
	// 1 processes strictly sequentially.
	Concurrency int `mapstructure:"concurrency"`
	// Limit caps how many pending tickers this run processes (0 = all).
	Limit int `mapstructure:"limit"`
	// RetryFailed re-queues failed tickers before snapshotting the pending
	// set. Off by default: terminal states are only ever left explicitly.
	RetryFailed bool `mapstructure:"retry_failed"`
}

// Scheduler drives the ingestion run: it snapshots the pending set,
// processes it in fixed-size batches, and checkpoints the status store once
// per batch so a crash replays at most one batch of work.
type Scheduler struct {
	store  *status.Store
	worker *Worker
	writer *records.Writer
	cfg    SchedulerConfig

	// mu serializes all status store mutation and stats reads; fetches may
	// run concurrently but the store has a single writer.
	mu sync.Mutex
}

// NewScheduler creates a scheduler over the given store, worker, and writer.
func NewScheduler(store *status.Store, worker *Worker, writer *records.Writer, cfg SchedulerConfig) *Scheduler {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 20
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 1
	}
	return &Scheduler{store: store, worker: worker, writer: writer, cfg: cfg}
}

// Stats returns the store's current aggregate counters. Safe to call from
// the health server while a run is in progress.
func (s *Scheduler) Stats() model.Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Stats()
}

// Run processes the pending snapshot to exhaustion. It is safely
// re-invokable: a crash or cancellation mid-batch leaves saved tickers
// terminal and the rest pending, so the next run resumes where this one
// stopped. The returned stats reflect the store after the run.
func (s *Scheduler) Run(ctx context.Context) (model.Stats, error) {
	runID := uuid.New().String()
	log := zap.L().With(zap.String("run_id", runID))

	if s.cfg.RetryFailed {
		if n := s.store.ResetFailed(); n > 0 {
			log.Info("re-queued failed tickers", zap.Int("count", n))
		}
	}

	// One snapshot per run: tickers discovered mid-run wait for the next.
	pending := s.store.Pending()
	if s.cfg.Limit > 0 && len(pending) > s.cfg.Limit {
		pending = pending[:s.cfg.Limit]
	}
	if len(pending) == 0 {
		log.Info("no pending tickers to process")
		return s.Stats(), nil
	}

	log.Info("starting ingestion run",
		zap.Int("pending", len(pending)),
		zap.Int("batch_size", s.cfg.BatchSize),
		zap.Int("concurrency", s.cfg.Concurrency),
	)
	metrics.PendingTickers.Set(float64(len(pending)))

	batchNum := 0
	for start := 0; start < len(pending); start += s.cfg.BatchSize {
		end := min(start+s.cfg.BatchSize, len(pending))
		batch := pending[start:end]
		batchNum++

		err := s.processBatch(ctx, log, batch)

		// Whatever was applied before an error or cancellation is still
		// checkpointed, so the interrupted run resumes cleanly.
		if saveErr := s.save(); saveErr != nil {
			return s.Stats(), saveErr
		}
		if err != nil {
			return s.Stats(), err
		}

		metrics.BatchesCompleted.Inc()
		metrics.PendingTickers.Set(float64(len(pending) - end))

		stats := s.Stats()
		log.Info("batch complete",
			zap.Int("batch", batchNum),
			zap.Int("completed", stats.Completed),
			zap.Int("skipped", stats.Skipped),
			zap.Int("failed", stats.Failed),
			zap.Int("pending", stats.Pending),
		)

		if end < len(pending) {
			if err := s.sleep(ctx); err != nil {
				return s.Stats(), err
			}
		}
	}

	stats := s.Stats()
	log.Info("ingestion run complete",
		zap.Int("total", stats.Total),
		zap.Int("completed", stats.Completed),
		zap.Int("skipped", stats.Skipped),
		zap.Int("failed", stats.Failed),
		zap.Int("pending", stats.Pending),
	)
	return stats, nil
}

// processBatch runs every ticker of the batch through the worker. Fetches
// run under the configured concurrency bound; record writes happen before
// the status transition so a saved Completed always has its record on disk.
func (s *Scheduler) processBatch(ctx context.Context, log *zap.Logger, batch []model.Ticker) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Concurrency)

	for _, t := range batch {
		t := t
		g.Go(func() error {
			if gctx.Err() != nil {
				return gctx.Err()
			}

			started := time.Now()
			res := s.worker.Process(gctx, t)
			metrics.ProviderFetchDuration.Observe(time.Since(started).Seconds())

			// A fetch aborted by cancellation is not a provider verdict;
			// leave the ticker pending for the next run.
			if gctx.Err() != nil {
				return gctx.Err()
			}

			if res.Status == model.StatusCompleted {
				if err := s.writer.Write(t.ProviderSymbol, res.Record); err != nil {
					// Unwritable record storage is fatal for the run.
					return err
				}
			}

			s.mu.Lock()
			err := s.store.Apply(t.ProviderSymbol, res.Status, res.Reason, res.MarketCap)
			s.mu.Unlock()
			if err != nil {
				// Double-processing is a programming fault; abort loudly.
				return eris.Wrapf(err, "apply %s", t.ProviderSymbol)
			}

			metrics.TickersProcessed.WithLabelValues(string(res.Status)).Inc()
			switch res.Status {
			case model.StatusCompleted:
				log.Info("ticker completed",
					zap.String("symbol", t.ProviderSymbol),
					zap.Float64p("market_cap", res.MarketCap),
				)
			case model.StatusFailed:
				log.Warn("ticker failed",
					zap.String("symbol", t.ProviderSymbol),
					zap.String("reason", res.Reason),
				)
			default:
				log.Debug("ticker skipped",
					zap.String("symbol", t.ProviderSymbol),
					zap.String("reason", res.Reason),
				)
			}
			return nil
		})
	}

	return g.Wait()
}

func (s *Scheduler) save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Save()
}

// sleep pauses between batches and wakes immediately on cancellation.
func (s *Scheduler) sleep(ctx context.Context) error {
	if s.cfg.SleepSec <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(time.Duration(s.cfg.SleepSec) * time.Second)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
