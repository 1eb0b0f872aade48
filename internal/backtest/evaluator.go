package backtest

import (
	"time"

	"github.com/sigscan/sigscan/internal/core"
)

// Evaluate computes the realized gain of a fired signal from the last close
// at or before the cutoff date to the latest close in the full series.
// ok is false when no bar exists at or before the cutoff; the caller skips
// the symbol in that case rather than reporting a result.
func Evaluate(symbol string, series []core.PricePoint, cutoff time.Time) (core.BacktestResult, bool) {
	if len(series) == 0 {
		return core.BacktestResult{}, false
	}

	then := core.TrimAfter(series, cutoff)
	if len(then) == 0 {
		return core.BacktestResult{}, false
	}

	priceThen := then[len(then)-1].Close
	priceNow := series[len(series)-1].Close
	gainPct := (priceNow - priceThen) / priceThen * 100

	return core.BacktestResult{
		Symbol:        symbol,
		PriceAtCutoff: priceThen,
		CurrentPrice:  priceNow,
		GainPct:       gainPct,
		Result:        core.OutcomeOf(gainPct),
	}, true
}
