package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/vettr/ingest-cli/internal/model"
	"github.com/vettr/ingest-cli/internal/status"
)

var statusVerbose bool

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show ingestion progress counters",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := status.Open(cfg.Data.StatusFile)
		if err != nil {
			return err
		}

		stats := store.Stats()

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintf(w, "Total:\t%d\n", stats.Total)
		fmt.Fprintf(w, "Completed:\t%d\n", stats.Completed)
		fmt.Fprintf(w, "Skipped:\t%d\n", stats.Skipped)
		fmt.Fprintf(w, "Failed:\t%d\n", stats.Failed)
		fmt.Fprintf(w, "Pending:\t%d\n", stats.Pending)
		if err := w.Flush(); err != nil {
			return err
		}

		if statusVerbose && stats.Failed > 0 {
			fmt.Println("\nFailed tickers:")
			fw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			for _, sym := range store.ByStatus(model.StatusFailed) {
				rec, _ := store.Record(sym)
				fmt.Fprintf(fw, "  %s\t%s\n", sym, rec.Reason)
			}
			if err := fw.Flush(); err != nil {
				return err
			}
		}
		return nil
	},
}

func init() {
	statusCmd.Flags().BoolVarP(&statusVerbose, "verbose", "v", false, "list failed tickers with failure reasons")
	rootCmd.AddCommand(statusCmd)
}
