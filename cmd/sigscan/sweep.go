package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sigscan/sigscan/internal/logger"
	"github.com/sigscan/sigscan/internal/tracker"
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Fill forward outcomes of pending signals",
	Long: `Sweep checks every journaled signal that is still missing its 5- or
10-day outcome and fills whichever horizons have matured. Horizons count
trading days: the 5-day outcome is the close of the 5th bar after the
signal date. Already-filled outcomes are never recomputed.`,
	RunE: runSweep,
}

func init() {
	rootCmd.AddCommand(sweepCmd)
}

func runSweep(cmd *cobra.Command, args []string) error {
	log := logger.Must(debug)
	defer log.Sync()

	cfg, err := loadConfig(log)
	if err != nil {
		return err
	}

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reg := startMetrics(cfg, log)
	stats, err := tracker.New(store, buildProvider(cfg), reg, log).Sweep(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("Swept %d pending signals: %d updated, %d waiting for more history, %d failed.\n",
		stats.Pending, stats.Updated, stats.Waiting, stats.Failed)
	return nil
}
