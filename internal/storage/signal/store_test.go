package signal

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/sigscan/sigscan/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func ptr[T any](v T) *T { return &v }

// eachStore runs a subtest against both Store implementations so the
// idempotency and fill-once laws are verified to match.
func eachStore(t *testing.T, fn func(t *testing.T, store Store)) {
	t.Helper()

	t.Run("sqlite", func(t *testing.T) {
		store, err := OpenSQLite(filepath.Join(t.TempDir(), "signals.db"))
		require.NoError(t, err)
		defer store.Close()
		fn(t, store)
	})

	t.Run("memory", func(t *testing.T) {
		fn(t, NewMemoryStore())
	})
}

func idBySymbol(t *testing.T, store Store, symbol string) int64 {
	t.Helper()
	all, err := store.All(context.Background())
	require.NoError(t, err)
	for _, sig := range all {
		if sig.Symbol == symbol {
			return sig.ID
		}
	}
	t.Fatalf("symbol %s not found", symbol)
	return 0
}

func TestStore_InsertIsIdempotent(t *testing.T) {
	eachStore(t, func(t *testing.T, store Store) {
		ctx := context.Background()

		require.NoError(t, store.Insert(ctx, "ABC.NS", day(2024, 1, 1), 50.0))
		// Second insert for the same day with a different price must be a
		// no-op, never an overwrite.
		require.NoError(t, store.Insert(ctx, "ABC.NS", day(2024, 1, 1), 55.0))

		signals, err := store.All(ctx)
		require.NoError(t, err)
		require.Len(t, signals, 1)
		assert.Equal(t, 50.0, signals[0].PriceAtSignal)
	})
}

func TestStore_AllOrdersNewestFirst(t *testing.T) {
	eachStore(t, func(t *testing.T, store Store) {
		ctx := context.Background()

		require.NoError(t, store.Insert(ctx, "OLD.NS", day(2024, 1, 1), 10))
		require.NoError(t, store.Insert(ctx, "MID.NS", day(2024, 2, 1), 20))
		require.NoError(t, store.Insert(ctx, "NEW.NS", day(2024, 3, 1), 30))

		signals, err := store.All(ctx)
		require.NoError(t, err)
		require.Len(t, signals, 3)
		assert.Equal(t, "NEW.NS", signals[0].Symbol)
		assert.Equal(t, "MID.NS", signals[1].Symbol)
		assert.Equal(t, "OLD.NS", signals[2].Symbol)
	})
}

func TestStore_PendingSelectsIncompleteOutcomes(t *testing.T) {
	eachStore(t, func(t *testing.T, store Store) {
		ctx := context.Background()

		require.NoError(t, store.Insert(ctx, "DONE.NS", day(2024, 1, 1), 100))
		require.NoError(t, store.Insert(ctx, "HALF.NS", day(2024, 1, 2), 100))
		require.NoError(t, store.Insert(ctx, "OPEN.NS", day(2024, 1, 3), 100))

		win := core.OutcomeWin
		full := core.ForwardOutcome{
			Price5d: ptr(105.0), Gain5d: ptr(5.0), Result5d: &win,
			Price10d: ptr(110.0), Gain10d: ptr(10.0), Result10d: &win,
		}
		half := core.ForwardOutcome{
			Price5d: ptr(105.0), Gain5d: ptr(5.0), Result5d: &win,
		}

		require.NoError(t, store.SetForward(ctx, idBySymbol(t, store, "DONE.NS"), full))
		require.NoError(t, store.SetForward(ctx, idBySymbol(t, store, "HALF.NS"), half))

		pending, err := store.Pending(ctx)
		require.NoError(t, err)
		require.Len(t, pending, 2)
		// Oldest first: the half-filled signal precedes the untouched one.
		assert.Equal(t, "HALF.NS", pending[0].Symbol)
		assert.Equal(t, "OPEN.NS", pending[1].Symbol)
	})
}

func TestStore_SetForwardFillsOnce(t *testing.T) {
	eachStore(t, func(t *testing.T, store Store) {
		ctx := context.Background()

		require.NoError(t, store.Insert(ctx, "ABC.NS", day(2024, 1, 1), 100))
		id := idBySymbol(t, store, "ABC.NS")

		win := core.OutcomeWin
		loss := core.OutcomeLoss

		first := core.ForwardOutcome{Price5d: ptr(105.0), Gain5d: ptr(5.0), Result5d: &win}
		require.NoError(t, store.SetForward(ctx, id, first))

		// A later write must not disturb already-populated fields but may
		// fill the still-absent 10-day columns.
		second := core.ForwardOutcome{
			Price5d: ptr(90.0), Gain5d: ptr(-10.0), Result5d: &loss,
			Price10d: ptr(95.0), Gain10d: ptr(-5.0), Result10d: &loss,
		}
		require.NoError(t, store.SetForward(ctx, id, second))

		signals, err := store.All(ctx)
		require.NoError(t, err)
		require.Len(t, signals, 1)

		fwd := signals[0].Forward
		require.NotNil(t, fwd.Price5d)
		assert.Equal(t, 105.0, *fwd.Price5d)
		assert.Equal(t, 5.0, *fwd.Gain5d)
		assert.Equal(t, core.OutcomeWin, *fwd.Result5d)

		require.NotNil(t, fwd.Price10d)
		assert.Equal(t, 95.0, *fwd.Price10d)
		assert.Equal(t, core.OutcomeLoss, *fwd.Result10d)
		assert.True(t, fwd.Complete())
	})
}

func TestStore_PartialOutcomeRoundTrip(t *testing.T) {
	eachStore(t, func(t *testing.T, store Store) {
		ctx := context.Background()

		require.NoError(t, store.Insert(ctx, "ABC.NS", day(2024, 1, 1), 100))

		signals, err := store.All(ctx)
		require.NoError(t, err)
		require.Len(t, signals, 1)

		fwd := signals[0].Forward
		assert.Nil(t, fwd.Price5d)
		assert.Nil(t, fwd.Result5d)
		assert.Nil(t, fwd.Price10d)
		assert.Nil(t, fwd.Result10d)
		assert.False(t, fwd.Complete())
		assert.Equal(t, day(2024, 1, 1), signals[0].Date)
	})
}

func TestOpenSQLite_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "signals.db")
	ctx := context.Background()

	store, err := OpenSQLite(path)
	require.NoError(t, err)
	require.NoError(t, store.Insert(ctx, "ABC.NS", day(2024, 1, 1), 50))
	require.NoError(t, store.Close())

	reopened, err := OpenSQLite(path)
	require.NoError(t, err)
	defer reopened.Close()

	signals, err := reopened.All(ctx)
	require.NoError(t, err)
	require.Len(t, signals, 1)
	assert.Equal(t, "ABC.NS", signals[0].Symbol)
}

func TestEncodeCSV(t *testing.T) {
	win := core.OutcomeWin
	signals := []core.Signal{
		{
			ID: 1, Symbol: "ABC.NS", Date: day(2024, 1, 1), PriceAtSignal: 100,
			Forward: core.ForwardOutcome{Price5d: ptr(105.0), Gain5d: ptr(5.0), Result5d: &win},
		},
		{ID: 2, Symbol: "XYZ.NS", Date: day(2024, 1, 2), PriceAtSignal: 50},
	}

	data, err := EncodeCSV(signals)
	require.NoError(t, err)

	want := "id,symbol,signal_date,price_at_signal,price_5d,gain_5d_pct,result_5d,price_10d,gain_10d_pct,result_10d\n" +
		"1,ABC.NS,2024-01-01,100,105,5,WIN,,,\n" +
		"2,XYZ.NS,2024-01-02,50,,,,,,\n"
	assert.Equal(t, want, string(data))
}
