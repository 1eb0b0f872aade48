package signal

import (
	"context"
	"time"

	"github.com/sigscan/sigscan/internal/core"
)

// Store is the durable journal of fired live signals and their forward
// outcomes. Backtest results never reach the store.
type Store interface {
	// Insert records a fired signal. Inserting an existing (symbol, date)
	// pair is a silent no-op: the stored row is never overwritten, so the
	// first price recorded for a day wins.
	Insert(ctx context.Context, symbol string, date time.Time, price float64) error

	// All returns every stored signal, newest signal date first.
	All(ctx context.Context) ([]core.Signal, error)

	// Pending returns signals still missing a 5-day or 10-day outcome,
	// oldest first.
	Pending(ctx context.Context) ([]core.Signal, error)

	// SetForward fills the forward outcome fields of a signal by ID.
	// Fields that are already populated keep their stored values; only
	// absent fields are written.
	SetForward(ctx context.Context, id int64, fwd core.ForwardOutcome) error

	// Close releases the underlying storage.
	Close() error
}
