package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/vettr/ingest-cli/internal/status"
)

var resetFailedFlag bool

var resetCmd = &cobra.Command{
	Use:   "reset [symbol...]",
	Short: "Return tickers to the pending set",
	Long: "Returns the named provider symbols to pending so the next fetch run\n" +
		"reprocesses them, or with --failed re-queues every failed ticker.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 && !resetFailedFlag {
			return eris.New("reset: pass provider symbols or --failed")
		}

		store, err := status.Open(cfg.Data.StatusFile)
		if err != nil {
			return err
		}

		reset := 0
		if resetFailedFlag {
			reset += store.ResetFailed()
		}
		for _, sym := range args {
			if err := store.Reset(sym); err != nil {
				return err
			}
			reset++
		}

		if err := store.Save(); err != nil {
			return err
		}

		fmt.Printf("Reset %d tickers to pending.\n", reset)
		return nil
	},
}

func init() {
	resetCmd.Flags().BoolVar(&resetFailedFlag, "failed", false, "re-queue all failed tickers")
	rootCmd.AddCommand(resetCmd)
}
