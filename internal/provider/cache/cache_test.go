package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sigscan/sigscan/internal/core"
)

type countingProvider struct {
	calls  int
	series []core.PricePoint
	err    error
}

func (c *countingProvider) FetchSeries(ctx context.Context, symbol string, interval core.Interval) ([]core.PricePoint, error) {
	c.calls++
	return c.series, c.err
}

func (c *countingProvider) FetchSince(ctx context.Context, symbol string, start time.Time) ([]core.PricePoint, error) {
	c.calls++
	return c.series, c.err
}

func TestCache_ReusesFreshEntry(t *testing.T) {
	inner := &countingProvider{series: []core.PricePoint{{Close: 10}}}
	p := New(inner, time.Hour)

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if _, err := p.FetchSeries(ctx, "ABC.NS", core.IntervalDaily); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if inner.calls != 1 {
		t.Errorf("expected a single upstream fetch, got %d", inner.calls)
	}
}

func TestCache_KeyIncludesIntervalAndRange(t *testing.T) {
	inner := &countingProvider{series: []core.PricePoint{{Close: 10}}}
	p := New(inner, time.Hour)

	ctx := context.Background()
	p.FetchSeries(ctx, "ABC.NS", core.IntervalDaily)
	p.FetchSeries(ctx, "ABC.NS", core.IntervalWeekly)
	p.FetchSince(ctx, "ABC.NS", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))

	if inner.calls != 3 {
		t.Errorf("distinct keys must fetch separately, got %d calls", inner.calls)
	}
	if p.Len() != 3 {
		t.Errorf("expected 3 cache entries, got %d", p.Len())
	}
}

func TestCache_ExpiryRefetches(t *testing.T) {
	inner := &countingProvider{series: []core.PricePoint{{Close: 10}}}
	p := New(inner, time.Minute)

	current := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	p.now = func() time.Time { return current }

	ctx := context.Background()
	p.FetchSeries(ctx, "ABC.NS", core.IntervalDaily)

	current = current.Add(2 * time.Minute)
	p.FetchSeries(ctx, "ABC.NS", core.IntervalDaily)

	if inner.calls != 2 {
		t.Errorf("expired entry must refetch, got %d calls", inner.calls)
	}
}

func TestCache_DoesNotCacheFailures(t *testing.T) {
	inner := &countingProvider{err: errors.New("boom")}
	p := New(inner, time.Hour)

	ctx := context.Background()
	p.FetchSeries(ctx, "ABC.NS", core.IntervalDaily)
	p.FetchSeries(ctx, "ABC.NS", core.IntervalDaily)

	if inner.calls != 2 {
		t.Errorf("failures must not be cached, got %d calls", inner.calls)
	}
}

func TestCache_ZeroTTLDisablesCaching(t *testing.T) {
	inner := &countingProvider{series: []core.PricePoint{{Close: 10}}}
	p := New(inner, 0)

	ctx := context.Background()
	p.FetchSeries(ctx, "ABC.NS", core.IntervalDaily)
	p.FetchSeries(ctx, "ABC.NS", core.IntervalDaily)

	if inner.calls != 2 {
		t.Errorf("zero TTL must bypass the cache, got %d calls", inner.calls)
	}
}
