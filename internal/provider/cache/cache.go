package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sigscan/sigscan/internal/core"
	"github.com/sigscan/sigscan/internal/provider"
)

type entry struct {
	series []core.PricePoint
	exp    time.Time
}

// Provider memoizes fetches from an inner price provider for a fixed TTL.
// Keys are (symbol, interval, range), so a scan that revisits a symbol within
// the TTL reuses the earlier response instead of hitting the upstream API.
// Only successful fetches are cached; failures are retried on the next call.
type Provider struct {
	inner provider.Provider
	ttl   time.Duration
	now   func() time.Time

	mu      sync.RWMutex
	entries map[string]entry
}

// New wraps a provider with a TTL cache. A non-positive TTL disables caching.
func New(inner provider.Provider, ttl time.Duration) *Provider {
	return &Provider{
		inner:   inner,
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]entry),
	}
}

// FetchSeries returns the cached series when fresh, fetching otherwise.
func (p *Provider) FetchSeries(ctx context.Context, symbol string, interval core.Interval) ([]core.PricePoint, error) {
	key := fmt.Sprintf("%s|%s|preset", symbol, interval)
	return p.through(key, func() ([]core.PricePoint, error) {
		return p.inner.FetchSeries(ctx, symbol, interval)
	})
}

// FetchSince returns the cached future history when fresh, fetching otherwise.
func (p *Provider) FetchSince(ctx context.Context, symbol string, start time.Time) ([]core.PricePoint, error) {
	key := fmt.Sprintf("%s|1d|%s", symbol, core.Day(start).Format("2006-01-02"))
	return p.through(key, func() ([]core.PricePoint, error) {
		return p.inner.FetchSince(ctx, symbol, start)
	})
}

func (p *Provider) through(key string, fetch func() ([]core.PricePoint, error)) ([]core.PricePoint, error) {
	if p.ttl <= 0 {
		return fetch()
	}

	p.mu.RLock()
	e, ok := p.entries[key]
	p.mu.RUnlock()

	if ok && p.now().Before(e.exp) {
		return e.series, nil
	}

	series, err := fetch()
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	p.entries[key] = entry{series: series, exp: p.now().Add(p.ttl)}
	p.mu.Unlock()

	return series, nil
}

// Len returns the number of live cache entries, expired ones included.
func (p *Provider) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.entries)
}
