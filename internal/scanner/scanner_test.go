package scanner

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sigscan/sigscan/internal/core"
	"github.com/sigscan/sigscan/internal/storage/signal"
	"github.com/sigscan/sigscan/internal/strategy"
)

type fakeProvider struct {
	series map[string][]core.PricePoint
	errs   map[string]error
	calls  []string
}

func (f *fakeProvider) FetchSeries(ctx context.Context, symbol string, interval core.Interval) ([]core.PricePoint, error) {
	f.calls = append(f.calls, symbol)
	if err := f.errs[symbol]; err != nil {
		return nil, err
	}
	return f.series[symbol], nil
}

func (f *fakeProvider) FetchSince(ctx context.Context, symbol string, start time.Time) ([]core.PricePoint, error) {
	return nil, errors.New("not used in scans")
}

// lastAbove fires whenever the final close exceeds a threshold, which lets
// tests steer detection per symbol through the price series alone.
type lastAbove struct {
	threshold float64
}

func (s *lastAbove) Name() string        { return "last-above" }
func (s *lastAbove) Description() string { return "fires when the last close exceeds a threshold" }

func (s *lastAbove) Init(cfg strategy.Config) error { return nil }
func (s *lastAbove) Detect(ctx strategy.Context) (bool, error) {
	if len(ctx.Series) < 2 {
		return false, nil
	}
	return ctx.Series[len(ctx.Series)-1].Close > s.threshold, nil
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func bars(start time.Time, closes ...float64) []core.PricePoint {
	out := make([]core.PricePoint, len(closes))
	for i, c := range closes {
		out[i] = core.PricePoint{Date: start.AddDate(0, 0, i), Close: c}
	}
	return out
}

func newTestScanner(p *fakeProvider, store signal.Store) *Scanner {
	engine := strategy.NewEngine()
	engine.Register(&lastAbove{threshold: 100})
	s := New(p, engine, store, nil)
	s.now = func() time.Time { return day(2024, 6, 3) }
	return s
}

func TestScan_LiveFiresAndPersists(t *testing.T) {
	start := day(2024, 5, 1)
	p := &fakeProvider{series: map[string][]core.PricePoint{
		"HIT.NS":  bars(start, 90, 95, 120),
		"MISS.NS": bars(start, 90, 95, 98),
	}}
	store := signal.NewMemoryStore()

	report, err := newTestScanner(p, store).Scan(context.Background(), Request{
		Strategy: "last-above",
		Interval: core.IntervalDaily,
		Symbols:  []string{"HIT.NS", "MISS.NS"},
	})
	require.NoError(t, err)
	require.Len(t, report.Results, 2)

	hit := report.Results[0]
	assert.Equal(t, StatusFired, hit.Status)
	assert.Equal(t, 120.0, hit.Price)
	assert.Equal(t, "https://www.tradingview.com/chart/?symbol=NSE:HIT", hit.ChartURL)
	assert.Nil(t, hit.Backtest)

	assert.Equal(t, StatusNoSignal, report.Results[1].Status)

	fired := report.Fired()
	require.Len(t, fired, 1)
	assert.Equal(t, "HIT.NS", fired[0].Symbol)

	// The fired signal is journaled under the scan day at the last close.
	stored, err := store.All(context.Background())
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, "HIT.NS", stored[0].Symbol)
	assert.Equal(t, day(2024, 6, 3), stored[0].Date)
	assert.Equal(t, 120.0, stored[0].PriceAtSignal)
}

func TestScan_LiveRerunSameDayDoesNotDuplicate(t *testing.T) {
	start := day(2024, 5, 1)
	p := &fakeProvider{series: map[string][]core.PricePoint{
		"HIT.NS": bars(start, 90, 95, 120),
	}}
	store := signal.NewMemoryStore()
	s := newTestScanner(p, store)

	req := Request{Strategy: "last-above", Interval: core.IntervalDaily, Symbols: []string{"HIT.NS"}}
	_, err := s.Scan(context.Background(), req)
	require.NoError(t, err)
	_, err = s.Scan(context.Background(), req)
	require.NoError(t, err)

	stored, err := store.All(context.Background())
	require.NoError(t, err)
	assert.Len(t, stored, 1)
}

func TestScan_BacktestEvaluatesWithoutPersisting(t *testing.T) {
	start := day(2024, 5, 1)
	// At the cutoff (3rd bar) the close is 110 and fires; the series later
	// runs up to 132, a 20% gain.
	p := &fakeProvider{series: map[string][]core.PricePoint{
		"HIT.NS": bars(start, 90, 95, 110, 120, 132),
	}}
	store := signal.NewMemoryStore()

	asOf := start.AddDate(0, 0, 2)
	report, err := newTestScanner(p, store).Scan(context.Background(), Request{
		Strategy: "last-above",
		Interval: core.IntervalDaily,
		Symbols:  []string{"HIT.NS"},
		AsOf:     &asOf,
	})
	require.NoError(t, err)

	res := report.Results[0]
	assert.Equal(t, StatusFired, res.Status)
	assert.Equal(t, 110.0, res.Price)
	require.NotNil(t, res.Backtest)
	assert.Equal(t, 110.0, res.Backtest.PriceAtCutoff)
	assert.Equal(t, 132.0, res.Backtest.CurrentPrice)
	assert.Equal(t, 20.0, res.Backtest.GainPct)
	assert.Equal(t, core.OutcomeWin, res.Backtest.Result)

	stats := report.BacktestStats()
	assert.Equal(t, 1, stats.Total)
	assert.Equal(t, 100.0, stats.WinRate)

	// Backtest results never reach the store.
	stored, err := store.All(context.Background())
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestScan_BacktestNeverSeesTheFuture(t *testing.T) {
	start := day(2024, 5, 1)
	// Only bars after the cutoff exceed the threshold, so detection on the
	// trimmed series must not fire.
	p := &fakeProvider{series: map[string][]core.PricePoint{
		"LATE.NS": bars(start, 90, 95, 98, 120, 130),
	}}

	asOf := start.AddDate(0, 0, 2)
	report, err := newTestScanner(p, signal.NewMemoryStore()).Scan(context.Background(), Request{
		Strategy: "last-above",
		Interval: core.IntervalDaily,
		Symbols:  []string{"LATE.NS"},
		AsOf:     &asOf,
	})
	require.NoError(t, err)
	assert.Equal(t, StatusNoSignal, report.Results[0].Status)
}

func TestScan_StatusesDistinguishFailures(t *testing.T) {
	start := day(2024, 5, 1)
	p := &fakeProvider{
		series: map[string][]core.PricePoint{
			"EMPTY.NS": nil,
			"SHORT.NS": bars(start, 120),
		},
		errs: map[string]error{"DOWN.NS": errors.New("quote service down")},
	}

	report, err := newTestScanner(p, signal.NewMemoryStore()).Scan(context.Background(), Request{
		Strategy: "last-above",
		Interval: core.IntervalDaily,
		Symbols:  []string{"DOWN.NS", "EMPTY.NS", "SHORT.NS"},
	})
	require.NoError(t, err)

	assert.Equal(t, StatusNoData, report.Results[0].Status)
	assert.Error(t, report.Results[0].Err)
	assert.Equal(t, StatusNoData, report.Results[1].Status)
	assert.NoError(t, report.Results[1].Err)
	assert.Equal(t, StatusInsufficientHistory, report.Results[2].Status)
}

func TestScan_UnknownStrategyAborts(t *testing.T) {
	p := &fakeProvider{}
	_, err := newTestScanner(p, signal.NewMemoryStore()).Scan(context.Background(), Request{
		Strategy: "no-such-strategy",
		Interval: core.IntervalDaily,
		Symbols:  []string{"ABC.NS"},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrUnknownStrategy)
	assert.Empty(t, p.calls, "no symbol should be fetched for an unknown strategy")
}

func TestScan_CancelledContextStopsEarly(t *testing.T) {
	start := day(2024, 5, 1)
	p := &fakeProvider{series: map[string][]core.PricePoint{
		"A.NS": bars(start, 90, 95, 98),
		"B.NS": bars(start, 90, 95, 98),
	}}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := newTestScanner(p, signal.NewMemoryStore()).Scan(ctx, Request{
		Strategy: "last-above",
		Interval: core.IntervalDaily,
		Symbols:  []string{"A.NS", "B.NS"},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, report.Results)
}

func TestScan_DelayRespectsCancellation(t *testing.T) {
	start := day(2024, 5, 1)
	p := &fakeProvider{series: map[string][]core.PricePoint{
		"A.NS": bars(start, 90, 95, 98),
		"B.NS": bars(start, 90, 95, 98),
	}}

	s := newTestScanner(p, signal.NewMemoryStore())
	s.Delay = time.Hour

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	done := make(chan struct{})
	go func() {
		defer close(done)
		report, err := s.Scan(ctx, Request{
			Strategy: "last-above",
			Interval: core.IntervalDaily,
			Symbols:  []string{"A.NS", "B.NS"},
		})
		assert.ErrorIs(t, err, context.Canceled)
		assert.Len(t, report.Results, 1, "only the first symbol completes before the delay")
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("scan did not stop on cancellation")
	}
}
