package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sigscan/sigscan/internal/core"
	"github.com/sigscan/sigscan/internal/logger"
)

var signalsCmd = &cobra.Command{
	Use:   "signals",
	Short: "Show the signal journal and forward performance",
	RunE:  runSignals,
}

func init() {
	rootCmd.AddCommand(signalsCmd)
}

func runSignals(cmd *cobra.Command, args []string) error {
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

	signals, err := store.All(context.Background())
	if err != nil {
		return err
	}
	if len(signals) == 0 {
		fmt.Println("No signals journaled yet.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "DATE\tSYMBOL\tPRICE\t5D\tGAIN5D%\tRESULT\t10D\tGAIN10D%\tRESULT")
	for _, sig := range signals {
		fmt.Fprintf(w, "%s\t%s\t%.2f\t%s\t%s\t%s\t%s\t%s\t%s\n",
			sig.Date.Format("2006-01-02"), sig.Symbol, sig.PriceAtSignal,
			fmtPrice(sig.Forward.Price5d), fmtGain(sig.Forward.Gain5d), fmtResult(sig.Forward.Result5d),
			fmtPrice(sig.Forward.Price10d), fmtGain(sig.Forward.Gain10d), fmtResult(sig.Forward.Result10d))
	}
	w.Flush()

	fmt.Println()
	printWinRate("5-day", results5d(signals))
	printWinRate("10-day", results10d(signals))
	return nil
}

func results5d(signals []core.Signal) []core.Outcome {
	var out []core.Outcome
	for _, sig := range signals {
		if sig.Forward.Result5d != nil {
			out = append(out, *sig.Forward.Result5d)
		}
	}
	return out
}

func results10d(signals []core.Signal) []core.Outcome {
	var out []core.Outcome
	for _, sig := range signals {
		if sig.Forward.Result10d != nil {
			out = append(out, *sig.Forward.Result10d)
		}
	}
	return out
}

func printWinRate(horizon string, outcomes []core.Outcome) {
	if len(outcomes) == 0 {
		fmt.Printf("%s: no outcomes yet\n", horizon)
		return
	}
	wins := 0
	for _, o := range outcomes {
		if o == core.OutcomeWin {
			wins++
		}
	}
	fmt.Printf("%s: %d/%d wins (%.1f%%)\n",
		horizon, wins, len(outcomes), float64(wins)/float64(len(outcomes))*100)
}

func fmtPrice(f *float64) string {
	if f == nil {
		return "-"
	}
	return fmt.Sprintf("%.2f", *f)
}

func fmtGain(f *float64) string {
	if f == nil {
		return "-"
	}
	return fmt.Sprintf("%+.2f", *f)
}

func fmtResult(o *core.Outcome) string {
	if o == nil {
		return "-"
	}
	return string(*o)
}
