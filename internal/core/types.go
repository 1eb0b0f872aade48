package core

import "time"

// Interval selects the bar granularity of a price series.
type Interval string

const (
	IntervalDaily  Interval = "daily"
	IntervalWeekly Interval = "weekly"
)

// Valid reports whether the interval is one the system understands.
func (i Interval) Valid() bool {
	return i == IntervalDaily || i == IntervalWeekly
}

// PricePoint is a single close observation. Date carries no time-of-day and
// no timezone: providers normalize every bar to its calendar date at UTC
// midnight. Series are ordered by strictly increasing Date.
type PricePoint struct {
	Date  time.Time
	Close float64
}

// Day normalizes a timestamp to its calendar date at UTC midnight.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// TrimAfter returns the prefix of series whose dates fall at or before the
// cutoff date. Series are date-ordered, so the result is a prefix slice of
// the input.
func TrimAfter(series []PricePoint, cutoff time.Time) []PricePoint {
	cutoff = Day(cutoff)
	n := len(series)
	for n > 0 && series[n-1].Date.After(cutoff) {
		n--
	}
	return series[:n]
}

// Closes extracts the close column of a series.
func Closes(series []PricePoint) []float64 {
	out := make([]float64, len(series))
	for i, p := range series {
		out[i] = p.Close
	}
	return out
}

// Outcome classifies a realized gain.
type Outcome string

const (
	OutcomeWin  Outcome = "WIN"
	OutcomeLoss Outcome = "LOSS"
)

// OutcomeOf classifies a percentage gain. A gain of exactly zero is a loss.
func OutcomeOf(gainPct float64) Outcome {
	if gainPct > 0 {
		return OutcomeWin
	}
	return OutcomeLoss
}

// Signal is a persisted live signal. At most one signal exists per
// (Symbol, Date) pair; the store enforces this with a unique key.
type Signal struct {
	ID            int64
	Symbol        string
	Date          time.Time
	PriceAtSignal float64
	Forward       ForwardOutcome
}

// ForwardOutcome holds the realized prices 5 and 10 trading days after a
// signal fired. Fields are nil until enough future history exists; each is
// filled exactly once and never recomputed.
type ForwardOutcome struct {
	Price5d   *float64
	Gain5d    *float64
	Result5d  *Outcome
	Price10d  *float64
	Gain10d   *float64
	Result10d *Outcome
}

// Complete reports whether both horizons have been filled.
func (f ForwardOutcome) Complete() bool {
	return f.Result5d != nil && f.Result10d != nil
}

// BacktestResult is the retrospective outcome of a signal evaluated against
// a historical cutoff date. It is produced per scan run and never persisted.
type BacktestResult struct {
	Symbol        string
	PriceAtCutoff float64
	CurrentPrice  float64
	GainPct       float64
	Result        Outcome
}
