package backtest

import "github.com/sigscan/sigscan/internal/core"

// Stats summarizes the backtest results of one scan run.
type Stats struct {
	Total   int
	Wins    int
	Losses  int
	WinRate float64 // Percentage of winning results
	AvgGain float64 // Mean gain percentage across results
}

// Summarize computes aggregate statistics from backtest results.
func Summarize(results []core.BacktestResult) Stats {
	if len(results) == 0 {
		return Stats{}
	}

	var wins int
	var totalGain float64
	for _, r := range results {
		totalGain += r.GainPct
		if r.Result == core.OutcomeWin {
			wins++
		}
	}

	return Stats{
		Total:   len(results),
		Wins:    wins,
		Losses:  len(results) - wins,
		WinRate: float64(wins) / float64(len(results)) * 100,
		AvgGain: totalGain / float64(len(results)),
	}
}
