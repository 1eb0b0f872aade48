package tracker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/sigscan/sigscan/internal/core"
	"github.com/sigscan/sigscan/internal/metrics"
	"github.com/sigscan/sigscan/internal/provider"
	"github.com/sigscan/sigscan/internal/storage/signal"
)

// Tracker fills forward outcomes of persisted signals once enough future
// trading days exist. Horizons are counted in trading days, not calendar
// days: the 5-day outcome uses the 5th bar strictly after the signal date.
type Tracker struct {
	store    signal.Store
	provider provider.Provider
	metrics  *metrics.Registry
	logger   *zap.Logger
}

// New creates a Tracker. The logger is optional.
func New(store signal.Store, p provider.Provider, reg *metrics.Registry, logger ...*zap.Logger) *Tracker {
	l := zap.NewNop()
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0]
	}
	return &Tracker{
		store:    store,
		provider: p,
		metrics:  reg,
		logger:   l,
	}
}

// SweepStats summarizes one sweep over pending signals.
type SweepStats struct {
	Pending int // signals examined
	Updated int // signals that gained at least one new horizon
	Waiting int // signals without enough future bars yet
	Failed  int // signals whose price fetch failed
}

// Sweep examines every pending signal and fills whichever horizons have
// matured. A fetch failure skips that signal and moves on; the next sweep
// retries it. Filled fields are never recomputed, so running Sweep twice
// in a row is harmless.
func (t *Tracker) Sweep(ctx context.Context) (SweepStats, error) {
	start := time.Now()

	pending, err := t.store.Pending(ctx)
	if err != nil {
		return SweepStats{}, err
	}
	t.metrics.SetPendingSignals(len(pending))

	stats := SweepStats{Pending: len(pending)}
	for _, sig := range pending {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		updated, err := t.sweepOne(ctx, sig)
		switch {
		case err != nil:
			stats.Failed++
			t.metrics.RecordFetchFailure()
			t.logger.Warn("outcome sweep failed for symbol",
				zap.String("symbol", sig.Symbol),
				zap.Time("signal_date", sig.Date),
				zap.Error(err))
		case updated:
			stats.Updated++
		default:
			stats.Waiting++
		}
	}

	t.metrics.RecordSweep(time.Since(start).Seconds())
	t.logger.Info("outcome sweep complete",
		zap.Int("pending", stats.Pending),
		zap.Int("updated", stats.Updated),
		zap.Int("waiting", stats.Waiting),
		zap.Int("failed", stats.Failed))
	return stats, nil
}

func (t *Tracker) sweepOne(ctx context.Context, sig core.Signal) (bool, error) {
	series, err := t.provider.FetchSince(ctx, sig.Symbol, sig.Date)
	if err != nil {
		return false, err
	}

	// Only bars strictly after the signal date count toward the horizon;
	// the signal day itself is day zero.
	future := futureBars(series, sig.Date)

	var fwd core.ForwardOutcome
	filled := false

	if sig.Forward.Result5d == nil && len(future) >= 5 {
		price, gain, result := horizon(sig.PriceAtSignal, future[4].Close)
		fwd.Price5d, fwd.Gain5d, fwd.Result5d = &price, &gain, &result
		t.metrics.RecordOutcomeFilled("5d", string(result))
		filled = true
	}
	if sig.Forward.Result10d == nil && len(future) >= 10 {
		price, gain, result := horizon(sig.PriceAtSignal, future[9].Close)
		fwd.Price10d, fwd.Gain10d, fwd.Result10d = &price, &gain, &result
		t.metrics.RecordOutcomeFilled("10d", string(result))
		filled = true
	}

	if !filled {
		return false, nil
	}
	if err := t.store.SetForward(ctx, sig.ID, fwd); err != nil {
		return false, err
	}

	t.logger.Debug("forward outcome filled",
		zap.String("symbol", sig.Symbol),
		zap.Time("signal_date", sig.Date),
		zap.Bool("has_5d", fwd.Result5d != nil),
		zap.Bool("has_10d", fwd.Result10d != nil))
	return true, nil
}

func futureBars(series []core.PricePoint, signalDate time.Time) []core.PricePoint {
	day := core.Day(signalDate)
	for i, p := range series {
		if p.Date.After(day) {
			return series[i:]
		}
	}
	return nil
}

func horizon(priceAtSignal, futureClose float64) (price, gain float64, result core.Outcome) {
	price = futureClose
	gain = (futureClose - priceAtSignal) / priceAtSignal * 100
	result = core.OutcomeOf(gain)
	return price, gain, result
}
