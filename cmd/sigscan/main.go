package main

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	cfgFile string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:   "sigscan",
	Short: "sigscan - technical signal scanner for equity tickers",
	Long: `sigscan scans symbol universes for bullish technical signals such as
MACD crossovers and price crossing above a long EMA. Fired signals are
journaled and their 5- and 10-day forward outcomes tracked over time.`,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug mode")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
