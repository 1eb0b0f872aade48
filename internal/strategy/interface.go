package strategy

import (
	"github.com/sigscan/sigscan/internal/core"
)

// Config holds strategy configuration
type Config struct {
	Enabled bool
	Params  map[string]any
}

// Context carries the data a strategy inspects for one symbol. When a scan
// runs against a backtest cutoff, Series is already restricted to bars at or
// before the cutoff; strategies never see the future.
type Context struct {
	Symbol string
	Series []core.PricePoint
}

// Strategy decides whether a signal fires on the final bar of a series.
type Strategy interface {
	Name() string
	Description() string
	Init(cfg Config) error

	// Detect reports whether the signal fires on the last bar of the
	// series. A series shorter than two bars never fires; that is a
	// normal "not yet" state, not an error.
	Detect(ctx Context) (bool, error)
}
