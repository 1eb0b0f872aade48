package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/sigscan/sigscan/internal/core"
	"github.com/sigscan/sigscan/internal/logger"
	"github.com/sigscan/sigscan/internal/scanner"
)

var (
	scanGroup    string
	scanSymbols  []string
	scanStrategy string
	scanInterval string
	scanAsOf     string
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan a symbol universe for signals",
	Long: `Scan runs a strategy over every symbol of a group (or an explicit
symbol list). Fired signals are journaled with today's date and close.
With --as-of the scan runs against that past date instead: detection only
sees bars up to the cutoff, each hit is scored against the latest close,
and nothing is journaled.`,
	RunE: runScan,
}

func init() {
	scanCmd.Flags().StringVar(&scanGroup, "group", "", "symbol group to scan (e.g. nifty-50)")
	scanCmd.Flags().StringSliceVar(&scanSymbols, "symbols", nil, "explicit symbols to scan instead of a group")
	scanCmd.Flags().StringVar(&scanStrategy, "strategy", "macd-cross", "strategy to run")
	scanCmd.Flags().StringVar(&scanInterval, "interval", "daily", "bar interval: daily or weekly")
	scanCmd.Flags().StringVar(&scanAsOf, "as-of", "", "backtest cutoff date YYYY-MM-DD")

	rootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, args []string) error {
	log := logger.Must(debug)
	defer log.Sync()

	cfg, err := loadConfig(log)
	if err != nil {
		return err
	}

	interval := core.Interval(scanInterval)
	if !interval.Valid() {
		return fmt.Errorf("unknown interval %q (want daily or weekly)", scanInterval)
	}

	var asOf *time.Time
	if scanAsOf != "" {
		t, err := time.Parse("2006-01-02", scanAsOf)
		if err != nil {
			return fmt.Errorf("invalid as-of date (expected YYYY-MM-DD): %w", err)
		}
		asOf = &t
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	symbols := scanSymbols
	if len(symbols) == 0 {
		if scanGroup == "" {
			return fmt.Errorf("either --group or --symbols is required")
		}
		symbols, err = buildUniverse(cfg, log).Symbols(ctx, scanGroup)
		if err != nil {
			return fmt.Errorf("resolving group %q: %w", scanGroup, err)
		}
	}

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	engine, err := buildEngine(cfg, log)
	if err != nil {
		return err
	}

	reg := startMetrics(cfg, log)
	s := scanner.New(buildProvider(cfg), engine, store, reg, log)
	s.Delay = cfg.Scanner.Delay

	report, err := s.Scan(ctx, scanner.Request{
		Strategy: scanStrategy,
		Interval: interval,
		Symbols:  symbols,
		AsOf:     asOf,
	})
	if err != nil {
		return err
	}

	printReport(report)
	return nil
}

func printReport(report *scanner.Report) {
	fmt.Printf("=== Scan %s ===\n", report.RunID)
	fmt.Printf("Strategy: %s (%s)\n", report.Strategy, report.Interval)
	if report.AsOf != nil {
		fmt.Printf("As of:    %s\n", report.AsOf.Format("2006-01-02"))
	}
	fmt.Printf("Scanned:  %d symbols in %s\n\n", len(report.Results), report.Elapsed.Round(time.Millisecond))

	fired := report.Fired()
	if len(fired) == 0 {
		fmt.Println("No signals fired.")
		printSkips(report)
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	if report.AsOf != nil {
		fmt.Fprintln(w, "SYMBOL\tTHEN\tNOW\tGAIN%\tRESULT")
		for _, res := range fired {
			bt := res.Backtest
			fmt.Fprintf(w, "%s\t%.2f\t%.2f\t%+.2f\t%s\n",
				bt.Symbol, bt.PriceAtCutoff, bt.CurrentPrice, bt.GainPct, bt.Result)
		}
		w.Flush()

		stats := report.BacktestStats()
		fmt.Printf("\n%d signals: %d wins / %d losses, win rate %.1f%%, avg gain %+.2f%%\n",
			stats.Total, stats.Wins, stats.Losses, stats.WinRate, stats.AvgGain)
	} else {
		fmt.Fprintln(w, "SYMBOL\tPRICE\tCHART")
		for _, res := range fired {
			fmt.Fprintf(w, "%s\t%.2f\t%s\n", res.Symbol, res.Price, res.ChartURL)
		}
		w.Flush()
		fmt.Printf("\n%d signals journaled.\n", len(fired))
	}

	printSkips(report)
}

func printSkips(report *scanner.Report) {
	var noData, short int
	for _, res := range report.Results {
		switch res.Status {
		case scanner.StatusNoData:
			noData++
		case scanner.StatusInsufficientHistory:
			short++
		}
	}
	if noData > 0 || short > 0 {
		fmt.Printf("Skipped: %d without data, %d with insufficient history.\n", noData, short)
	}
}
