package signal

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/sigscan/sigscan/internal/core"
	_ "modernc.org/sqlite" // SQLite driver
)

const dateLayout = "2006-01-02"

const schema = `
CREATE TABLE IF NOT EXISTS signals (
	id              INTEGER PRIMARY KEY AUTOINCREMENT,
	symbol          TEXT NOT NULL,
	signal_date     TEXT NOT NULL,
	price_at_signal REAL NOT NULL,
	price_5d        REAL,
	price_10d       REAL,
	result_5d       TEXT,
	result_10d      TEXT,
	gain_5d         REAL,
	gain_10d        REAL,
	UNIQUE(symbol, signal_date)
);`

// SQLiteStore persists signals in a local SQLite database. The (symbol,
// signal_date) uniqueness that makes Insert idempotent is enforced by the
// table's unique key, so it holds under concurrent insert attempts too.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the database at path and ensures the schema
// exists. A schema failure here is fatal: without the table nothing else in
// the system can run.
func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, core.WrapError(core.ErrStoreFailed, fmt.Errorf("open sqlite: %w", err))
	}

	// Single writer keeps SQLite happy under concurrent scans.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, core.WrapError(core.ErrStoreFailed, fmt.Errorf("create schema: %w", err))
	}

	return &SQLiteStore{db: db}, nil
}

// Insert records a fired signal, ignoring duplicates for the same day.
func (s *SQLiteStore) Insert(ctx context.Context, symbol string, date time.Time, price float64) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO signals (symbol, signal_date, price_at_signal)
		VALUES (?, ?, ?)
	`, symbol, core.Day(date).Format(dateLayout), price)
	if err != nil {
		return core.WrapError(core.ErrStoreFailed, fmt.Errorf("insert signal: %w", err))
	}
	return nil
}

// All returns every stored signal, newest signal date first.
func (s *SQLiteStore) All(ctx context.Context) ([]core.Signal, error) {
	return s.query(ctx, `
		SELECT id, symbol, signal_date, price_at_signal,
		       price_5d, gain_5d, result_5d, price_10d, gain_10d, result_10d
		FROM signals
		ORDER BY signal_date DESC, id DESC
	`)
}

// Pending returns signals still missing a forward outcome, oldest first.
func (s *SQLiteStore) Pending(ctx context.Context) ([]core.Signal, error) {
	return s.query(ctx, `
		SELECT id, symbol, signal_date, price_at_signal,
		       price_5d, gain_5d, result_5d, price_10d, gain_10d, result_10d
		FROM signals
		WHERE result_5d IS NULL OR result_10d IS NULL
		ORDER BY signal_date ASC, id ASC
	`)
}

// SetForward fills absent outcome fields; populated fields are kept as-is.
func (s *SQLiteStore) SetForward(ctx context.Context, id int64, fwd core.ForwardOutcome) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE signals SET
			price_5d   = COALESCE(price_5d, ?),
			gain_5d    = COALESCE(gain_5d, ?),
			result_5d  = COALESCE(result_5d, ?),
			price_10d  = COALESCE(price_10d, ?),
			gain_10d   = COALESCE(gain_10d, ?),
			result_10d = COALESCE(result_10d, ?)
		WHERE id = ?
	`, fwd.Price5d, fwd.Gain5d, outcomeArg(fwd.Result5d),
		fwd.Price10d, fwd.Gain10d, outcomeArg(fwd.Result10d), id)
	if err != nil {
		return core.WrapError(core.ErrStoreFailed, fmt.Errorf("update outcome: %w", err))
	}
	return nil
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) query(ctx context.Context, q string) ([]core.Signal, error) {
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, core.WrapError(core.ErrStoreFailed, fmt.Errorf("query signals: %w", err))
	}
	defer rows.Close()

	var signals []core.Signal
	for rows.Next() {
		sig, err := scanSignal(rows)
		if err != nil {
			return nil, core.WrapError(core.ErrStoreFailed, fmt.Errorf("scan signal: %w", err))
		}
		signals = append(signals, sig)
	}
	if err := rows.Err(); err != nil {
		return nil, core.WrapError(core.ErrStoreFailed, err)
	}
	return signals, nil
}

func scanSignal(rows *sql.Rows) (core.Signal, error) {
	var (
		sig              core.Signal
		date             string
		p5, g5, p10, g10 sql.NullFloat64
		r5, r10          sql.NullString
	)
	if err := rows.Scan(&sig.ID, &sig.Symbol, &date, &sig.PriceAtSignal,
		&p5, &g5, &r5, &p10, &g10, &r10); err != nil {
		return core.Signal{}, err
	}

	parsed, err := time.ParseInLocation(dateLayout, date, time.UTC)
	if err != nil {
		return core.Signal{}, fmt.Errorf("parse signal_date %q: %w", date, err)
	}
	sig.Date = parsed

	sig.Forward = core.ForwardOutcome{
		Price5d:   nullFloat(p5),
		Gain5d:    nullFloat(g5),
		Result5d:  nullOutcome(r5),
		Price10d:  nullFloat(p10),
		Gain10d:   nullFloat(g10),
		Result10d: nullOutcome(r10),
	}
	return sig, nil
}

func nullFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

func nullOutcome(v sql.NullString) *core.Outcome {
	if !v.Valid {
		return nil
	}
	o := core.Outcome(v.String)
	return &o
}

func outcomeArg(o *core.Outcome) any {
	if o == nil {
		return nil
	}
	return string(*o)
}
