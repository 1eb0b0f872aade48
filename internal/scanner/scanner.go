package scanner

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sigscan/sigscan/internal/backtest"
	"github.com/sigscan/sigscan/internal/core"
	"github.com/sigscan/sigscan/internal/metrics"
	"github.com/sigscan/sigscan/internal/provider"
	"github.com/sigscan/sigscan/internal/storage/signal"
	"github.com/sigscan/sigscan/internal/strategy"
)

// minBars is the shortest series a crossover check can work with: one bar
// for the prior state and one for the current state.
const minBars = 2

// Status tells what happened to one symbol during a scan.
type Status string

const (
	StatusFired               Status = "fired"
	StatusNoSignal            Status = "no_signal"
	StatusNoData              Status = "no_data"
	StatusInsufficientHistory Status = "insufficient_history"
)

// SymbolResult is the per-symbol outcome of a scan run.
type SymbolResult struct {
	Symbol   string
	Status   Status
	Price    float64 // last close used for detection, set when fired
	ChartURL string
	Backtest *core.BacktestResult // set when fired in backtest mode
	Err      error                // non-fatal failure behind a no_data status
}

// Report is the outcome of one scan run over a symbol universe.
type Report struct {
	RunID    string
	Strategy string
	Interval core.Interval
	AsOf     *time.Time // nil for live scans
	Started  time.Time
	Elapsed  time.Duration
	Results  []SymbolResult
}

// Fired returns the results whose strategy condition held.
func (r *Report) Fired() []SymbolResult {
	var out []SymbolResult
	for _, res := range r.Results {
		if res.Status == StatusFired {
			out = append(out, res)
		}
	}
	return out
}

// BacktestStats aggregates the backtest outcomes of fired symbols.
func (r *Report) BacktestStats() backtest.Stats {
	var results []core.BacktestResult
	for _, res := range r.Results {
		if res.Backtest != nil {
			results = append(results, *res.Backtest)
		}
	}
	return backtest.Summarize(results)
}

// Request describes one scan run.
type Request struct {
	Strategy string
	Interval core.Interval
	Symbols  []string
	AsOf     *time.Time // when set, detect as of this past date instead of live
}

// Scanner runs a strategy over a symbol universe. In live mode fired signals
// are persisted; in backtest mode they are evaluated against the cutoff and
// never stored.
type Scanner struct {
	provider provider.Provider
	engine   *strategy.Engine
	store    signal.Store
	metrics  *metrics.Registry
	logger   *zap.Logger

	// Delay is the pause between consecutive symbols, a courtesy to the
	// upstream quote service. Zero disables it.
	Delay time.Duration

	now func() time.Time
}

// New creates a Scanner. The logger is optional.
func New(p provider.Provider, engine *strategy.Engine, store signal.Store, reg *metrics.Registry, logger ...*zap.Logger) *Scanner {
	l := zap.NewNop()
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0]
	}
	return &Scanner{
		provider: p,
		engine:   engine,
		store:    store,
		metrics:  reg,
		logger:   l,
		now:      time.Now,
	}
}

// Scan evaluates every symbol in the request and returns a per-symbol
// report. Symbol-level failures are recorded in the report, not returned;
// only an unknown strategy or a cancelled context aborts the run.
func (s *Scanner) Scan(ctx context.Context, req Request) (*Report, error) {
	if _, ok := s.engine.Get(req.Strategy); !ok {
		return nil, core.WrapError(core.ErrUnknownStrategy, errors.New(req.Strategy))
	}

	report := &Report{
		RunID:    uuid.NewString(),
		Strategy: req.Strategy,
		Interval: req.Interval,
		AsOf:     req.AsOf,
		Started:  s.now(),
	}

	s.logger.Info("scan started",
		zap.String("run_id", report.RunID),
		zap.String("strategy", req.Strategy),
		zap.String("interval", string(req.Interval)),
		zap.Int("symbols", len(req.Symbols)),
		zap.Bool("backtest", req.AsOf != nil))

	for i, symbol := range req.Symbols {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		result := s.scanSymbol(ctx, symbol, req)
		report.Results = append(report.Results, result)
		s.metrics.RecordSymbolScanned()

		if result.Status == StatusFired {
			s.metrics.RecordSignalFired(req.Strategy)
		}

		if s.Delay > 0 && i < len(req.Symbols)-1 {
			select {
			case <-ctx.Done():
				return report, ctx.Err()
			case <-time.After(s.Delay):
			}
		}
	}

	report.Elapsed = time.Since(report.Started)
	s.metrics.RecordScan(report.Elapsed.Seconds())
	s.logger.Info("scan complete",
		zap.String("run_id", report.RunID),
		zap.Int("fired", len(report.Fired())),
		zap.Duration("elapsed", report.Elapsed))
	return report, nil
}

func (s *Scanner) scanSymbol(ctx context.Context, symbol string, req Request) SymbolResult {
	series, err := s.provider.FetchSeries(ctx, symbol, req.Interval)
	if err != nil {
		s.metrics.RecordFetchFailure()
		s.logger.Warn("price fetch failed",
			zap.String("symbol", symbol), zap.Error(err))
		return SymbolResult{Symbol: symbol, Status: StatusNoData, Err: err}
	}
	if len(series) == 0 {
		return SymbolResult{Symbol: symbol, Status: StatusNoData}
	}

	detectOn := series
	if req.AsOf != nil {
		detectOn = core.TrimAfter(series, *req.AsOf)
	}
	if len(detectOn) < minBars {
		return SymbolResult{Symbol: symbol, Status: StatusInsufficientHistory}
	}

	fired, err := s.engine.Detect(req.Strategy, strategy.Context{Symbol: symbol, Series: detectOn})
	if err != nil {
		return SymbolResult{Symbol: symbol, Status: StatusNoSignal, Err: err}
	}
	if !fired {
		return SymbolResult{Symbol: symbol, Status: StatusNoSignal}
	}

	price := detectOn[len(detectOn)-1].Close
	result := SymbolResult{
		Symbol:   symbol,
		Status:   StatusFired,
		Price:    price,
		ChartURL: chartURL(symbol),
	}

	if req.AsOf != nil {
		bt, ok := backtest.Evaluate(symbol, series, *req.AsOf)
		if !ok {
			return SymbolResult{Symbol: symbol, Status: StatusInsufficientHistory}
		}
		result.Backtest = &bt
		return result
	}

	// Live signal: journal it under today's date. The store ignores
	// duplicates, so re-running a scan on the same day is safe.
	if err := s.store.Insert(ctx, symbol, core.Day(s.now()), price); err != nil {
		result.Err = err
		s.logger.Error("signal persist failed",
			zap.String("symbol", symbol), zap.Error(err))
	}
	return result
}

// chartURL links a symbol to its TradingView chart. NSE symbols drop their
// ".NS" quote suffix; TradingView names them under the NSE: prefix.
func chartURL(symbol string) string {
	return "https://www.tradingview.com/chart/?symbol=NSE:" + strings.TrimSuffix(symbol, ".NS")
}
