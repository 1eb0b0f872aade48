package provider

import (
	"context"
	"time"

	"github.com/sigscan/sigscan/internal/core"
)

// Provider fetches chronologically ordered close-price series with no
// duplicate dates. An empty series means no data is available for the
// symbol; callers treat that as "skip this symbol", never as fatal.
type Provider interface {
	// FetchSeries returns the recent history for scanning at the given
	// granularity, using the provider's preset lookback for the interval.
	FetchSeries(ctx context.Context, symbol string, interval core.Interval) ([]core.PricePoint, error)

	// FetchSince returns daily closes from the start date through today,
	// used to look up prices after a signal fired.
	FetchSince(ctx context.Context, symbol string, start time.Time) ([]core.PricePoint, error)
}
