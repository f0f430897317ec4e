package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/vettr/ingest-cli/internal/discovery"
	"github.com/vettr/ingest-cli/internal/health"
	"github.com/vettr/ingest-cli/internal/ingest"
	"github.com/vettr/ingest-cli/internal/model"
	"github.com/vettr/ingest-cli/internal/records"
	"github.com/vettr/ingest-cli/internal/status"
	"github.com/vettr/ingest-cli/pkg/yahoo"
)

var (
	fetchBatchSize   int
	fetchSleep       int
	fetchConcurrency int
	fetchLimit       int
	fetchRetryFailed bool
	fetchListen      string
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch provider data for all pending tickers",
	Long: "Merges the discovered catalog into the status store, then processes the pending\n" +
		"set in rate-limited batches. Safe to interrupt at any point: progress is\n" +
		"checkpointed once per batch and a re-run resumes where the last one stopped.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		catalog, err := discovery.LoadCatalog(cfg.Data.CatalogFile)
		if err != nil {
			return err
		}
		if len(catalog.Tickers) == 0 {
			return eris.Errorf("no tickers in %s, run 'ingest-cli discover' first", cfg.Data.CatalogFile)
		}

		store, err := status.Open(cfg.Data.StatusFile)
		if err != nil {
			return err
		}

		if added := store.Merge(catalog.Tickers); added > 0 {
			zap.L().Info("merged new tickers from catalog", zap.Int("added", added))
		}
		if err := store.Save(); err != nil {
			return err
		}

		schedCfg := cfg.Batch
		if cmd.Flags().Changed("batch-size") {
			schedCfg.BatchSize = fetchBatchSize
		}
		if cmd.Flags().Changed("sleep") {
			schedCfg.SleepSec = fetchSleep
		}
		if cmd.Flags().Changed("concurrency") {
			schedCfg.Concurrency = fetchConcurrency
		}
		if cmd.Flags().Changed("retry-failed") {
			schedCfg.RetryFailed = fetchRetryFailed
		}
		schedCfg.Limit = fetchLimit

		worker := ingest.NewWorker(yahoo.New(cfg.Provider), cfg.Filter)
		writer := records.NewWriter(cfg.Data.RecordsDir)
		sched := ingest.NewScheduler(store, worker, writer, schedCfg)

		if fetchListen != "" {
			srv := health.NewServer(fetchListen, sched.Stats)
			go func() {
				if err := srv.Run(ctx); err != nil {
					zap.L().Warn("health server stopped", zap.Error(err))
				}
			}()
		}

		stats, runErr := sched.Run(ctx)
		printSummary(stats)
		return runErr
	},
}

func init() {
	fetchCmd.Flags().IntVar(&fetchBatchSize, "batch-size", 0, "tickers per checkpointed batch (default from config)")
	fetchCmd.Flags().IntVar(&fetchSleep, "sleep", 0, "seconds to pause between batches (default from config)")
	fetchCmd.Flags().IntVar(&fetchConcurrency, "concurrency", 0, "parallel provider fetches within a batch (default from config)")
	fetchCmd.Flags().IntVar(&fetchLimit, "limit", 0, "max pending tickers to process this run (0 = all)")
	fetchCmd.Flags().BoolVar(&fetchRetryFailed, "retry-failed", false, "re-queue failed tickers before this run")
	fetchCmd.Flags().StringVar(&fetchListen, "listen", "", "serve /healthz, /status, /metrics on this address during the run")
	rootCmd.AddCommand(fetchCmd)
}

func printSummary(stats model.Stats) {
	fmt.Printf("\nRun summary:\n")
	fmt.Printf("  Total:     %d\n", stats.Total)
	fmt.Printf("  Completed: %d\n", stats.Completed)
	fmt.Printf("  Skipped:   %d\n", stats.Skipped)
	fmt.Printf("  Failed:    %d\n", stats.Failed)
	fmt.Printf("  Pending:   %d\n", stats.Pending)
}
