package signal

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/sigscan/sigscan/internal/core"
)

// MemoryStore is an in-memory Store with the same idempotent-insert and
// fill-once semantics as the SQLite store. It backs tests and dry runs.
type MemoryStore struct {
	mu      sync.RWMutex
	signals []core.Signal
	index   map[string]int // symbol|date -> slice position
	nextID  int64
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		index:  make(map[string]int),
		nextID: 1,
	}
}

func key(symbol string, date time.Time) string {
	return symbol + "|" + core.Day(date).Format(dateLayout)
}

// Insert records a fired signal; duplicates for the same day are no-ops.
func (m *MemoryStore) Insert(ctx context.Context, symbol string, date time.Time, price float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	k := key(symbol, date)
	if _, exists := m.index[k]; exists {
		return nil
	}

	m.signals = append(m.signals, core.Signal{
		ID:            m.nextID,
		Symbol:        symbol,
		Date:          core.Day(date),
		PriceAtSignal: price,
	})
	m.index[k] = len(m.signals) - 1
	m.nextID++
	return nil
}

// All returns every stored signal, newest signal date first.
func (m *MemoryStore) All(ctx context.Context) ([]core.Signal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]core.Signal, len(m.signals))
	copy(out, m.signals)
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

// Pending returns signals missing a forward outcome, oldest first.
func (m *MemoryStore) Pending(ctx context.Context) ([]core.Signal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []core.Signal
	for _, sig := range m.signals {
		if !sig.Forward.Complete() {
			out = append(out, sig)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// SetForward fills absent outcome fields; populated fields are kept as-is.
func (m *MemoryStore) SetForward(ctx context.Context, id int64, fwd core.ForwardOutcome) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.signals {
		if m.signals[i].ID != id {
			continue
		}
		f := &m.signals[i].Forward
		if f.Price5d == nil {
			f.Price5d = fwd.Price5d
		}
		if f.Gain5d == nil {
			f.Gain5d = fwd.Gain5d
		}
		if f.Result5d == nil {
			f.Result5d = fwd.Result5d
		}
		if f.Price10d == nil {
			f.Price10d = fwd.Price10d
		}
		if f.Gain10d == nil {
			f.Gain10d = fwd.Gain10d
		}
		if f.Result10d == nil {
			f.Result10d = fwd.Result10d
		}
		return nil
	}
	return nil
}

// Close is a no-op for the in-memory store.
func (m *MemoryStore) Close() error {
	return nil
}
