package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"sort"
	"time"

	"github.com/sigscan/sigscan/internal/core"
)

const defaultBaseURL = "https://query1.finance.yahoo.com/v8/finance/chart"

// Lookback presets per interval, mirroring the ranges the scanner expects:
// three months of daily bars, one year of weekly bars.
const (
	dailyRange  = "3mo"
	weeklyRange = "1y"
)

// validSymbol matches exchange-suffixed tickers like RELIANCE.NS, AAPL, 0700.HK
var validSymbol = regexp.MustCompile(`^[A-Za-z0-9&-]{1,12}(\.[A-Za-z]{1,4})?$`)

// validateSymbol checks if a symbol has valid format
func validateSymbol(symbol string) error {
	if symbol == "" {
		return fmt.Errorf("symbol cannot be empty")
	}
	if len(symbol) > 20 {
		return fmt.Errorf("symbol too long: %s", symbol)
	}
	if !validSymbol.MatchString(symbol) {
		return fmt.Errorf("invalid symbol format: %s", symbol)
	}
	return nil
}

// Client fetches close-price series from the Yahoo Finance chart API.
type Client struct {
	client  *http.Client
	baseURL string
}

// New creates a new Yahoo client with the given request timeout.
func New(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		client:  &http.Client{Timeout: timeout},
		baseURL: defaultBaseURL,
	}
}

// FetchSeries fetches the recent close history at the given granularity.
func (c *Client) FetchSeries(ctx context.Context, symbol string, interval core.Interval) ([]core.PricePoint, error) {
	rng, yInterval := dailyRange, "1d"
	if interval == core.IntervalWeekly {
		rng, yInterval = weeklyRange, "1wk"
	}

	url := fmt.Sprintf("%s/%s?interval=%s&range=%s", c.baseURL, symbol, yInterval, rng)
	return c.fetch(ctx, symbol, url)
}

// FetchSince fetches daily closes from the start date through now.
func (c *Client) FetchSince(ctx context.Context, symbol string, start time.Time) ([]core.PricePoint, error) {
	url := fmt.Sprintf("%s/%s?interval=1d&period1=%d&period2=%d",
		c.baseURL, symbol, core.Day(start).Unix(), time.Now().Unix())
	return c.fetch(ctx, symbol, url)
}

func (c *Client) fetch(ctx context.Context, symbol, url string) ([]core.PricePoint, error) {
	if err := validateSymbol(symbol); err != nil {
		return nil, core.WrapError(core.ErrProviderFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, core.WrapError(core.ErrProviderFailed, err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, core.WrapError(core.ErrProviderFailed, fmt.Errorf("fetching series: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, core.WrapError(core.ErrProviderFailed, fmt.Errorf("unexpected status: %d", resp.StatusCode))
	}

	var result chartResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, core.WrapError(core.ErrProviderFailed, fmt.Errorf("decoding response: %w", err))
	}

	if result.Chart.Error != nil {
		return nil, core.WrapError(core.ErrProviderFailed, fmt.Errorf("yahoo error: %s", result.Chart.Error.Description))
	}

	if len(result.Chart.Result) == 0 || len(result.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, core.WrapError(core.ErrNoData, fmt.Errorf("no data for symbol: %s", symbol))
	}

	r := result.Chart.Result[0]
	quotes := r.Indicators.Quote[0]

	series := make([]core.PricePoint, 0, len(r.Timestamp))
	for i, ts := range r.Timestamp {
		if i >= len(quotes.Close) || quotes.Close[i] == nil {
			continue // Skip missing bars
		}
		series = append(series, core.PricePoint{
			Date:  core.Day(time.Unix(int64(ts), 0).UTC()),
			Close: *quotes.Close[i],
		})
	}

	return dedupe(series), nil
}

// dedupe collapses bars landing on the same calendar date (a live partial bar
// next to the day's settled bar) keeping the later close, and guarantees
// strictly increasing dates.
func dedupe(series []core.PricePoint) []core.PricePoint {
	if len(series) < 2 {
		return series
	}

	sort.SliceStable(series, func(i, j int) bool {
		return series[i].Date.Before(series[j].Date)
	})

	out := series[:1]
	for _, p := range series[1:] {
		if p.Date.Equal(out[len(out)-1].Date) {
			out[len(out)-1] = p
			continue
		}
		out = append(out, p)
	}
	return out
}

// Yahoo API response types
type chartResponse struct {
	Chart struct {
		Result []chartResult `json:"result"`
		Error  *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

type chartResult struct {
	Timestamp  []int      `json:"timestamp"`
	Indicators indicators `json:"indicators"`
}

type indicators struct {
	Quote []quoteIndicator `json:"quote"`
}

type quoteIndicator struct {
	Close []*float64 `json:"close"`
}
