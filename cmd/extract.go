package main

import (
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/vettr/ingest-cli/internal/discovery"
	"github.com/vettr/ingest-cli/internal/model"
)

var extractCmd = &cobra.Command{
	Use:   "extract <blob-file>",
	Short: "Extract TSXV symbols from a raw listing blob",
	Long: "Parses a concatenated TSXV listing export (entries of the form\n" +
		"TSXV<CompanyName><SYMBOL> with no delimiters) and merges the recovered\n" +
		"symbols into the ticker catalog.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := os.ReadFile(args[0])
		if err != nil {
			return eris.Wrapf(err, "extract: read %s", args[0])
		}

		symbols := discovery.ExtractSymbols(string(raw))
		if len(symbols) == 0 {
			return eris.Errorf("extract: no symbols found in %s", args[0])
		}

		tickers := make([]model.Ticker, 0, len(symbols))
		for _, sym := range symbols {
			tickers = append(tickers, model.Ticker{
				Symbol:         sym,
				ProviderSymbol: discovery.ProviderSymbol(sym, ".V"),
				Exchange:       "TSXV",
			})
		}

		catalog, err := discovery.LoadCatalog(cfg.Data.CatalogFile)
		if err != nil {
			return err
		}
		added := discovery.MergeTickers(catalog, tickers)
		if err := discovery.SaveCatalog(cfg.Data.CatalogFile, catalog); err != nil {
			return err
		}

		zap.L().Info("blob extraction complete",
			zap.String("file", args[0]),
			zap.Int("extracted", len(symbols)),
			zap.Int("added", added),
		)

		fmt.Printf("Extracted %d symbols, %d new. Catalog now holds %d.\n",
			len(symbols), added, len(catalog.Tickers))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(extractCmd)
}
