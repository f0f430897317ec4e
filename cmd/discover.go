package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/vettr/ingest-cli/internal/discovery"
)

var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Scrape exchange listings and refresh the ticker catalog",
	Long: "Scrapes the configured exchange listing pages and merges any new symbols\n" +
		"into the ticker catalog. Existing catalog entries are never removed.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		catalog, err := discovery.LoadCatalog(cfg.Data.CatalogFile)
		if err != nil {
			return err
		}

		scraper := discovery.NewScraper(nil, cfg.Discover.Sources)
		tickers, err := scraper.Discover(ctx)
		if err != nil {
			return err
		}

		added := discovery.MergeTickers(catalog, tickers)
		if err := discovery.SaveCatalog(cfg.Data.CatalogFile, catalog); err != nil {
			return err
		}

		zap.L().Info("catalog updated",
			zap.Int("discovered", len(tickers)),
			zap.Int("added", added),
			zap.Int("total", len(catalog.Tickers)),
		)

		fmt.Printf("Discovered %d tickers, %d new. Catalog now holds %d.\n",
			len(tickers), added, len(catalog.Tickers))
		for exchange, n := range catalog.Exchanges {
			fmt.Printf("  %-5s %d\n", exchange, n)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(discoverCmd)
}
