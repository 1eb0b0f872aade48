package emacross

import (
	"fmt"

	"github.com/sigscan/sigscan/internal/core"
	"github.com/sigscan/sigscan/internal/indicator"
	"github.com/sigscan/sigscan/internal/strategy"
)

// EMACross fires when the close crosses above a long EMA: the previous bar
// closed below its EMA and the last bar closed above it.
type EMACross struct {
	span int
}

// New creates a new long-EMA cross strategy with the given span.
func New(span int) *EMACross {
	if span <= 0 {
		span = indicator.LongSpan
	}
	return &EMACross{span: span}
}

func (e *EMACross) Name() string {
	return "ema-cross"
}

func (e *EMACross) Description() string {
	return fmt.Sprintf("Price crosses above EMA%d", e.span)
}

func (e *EMACross) Init(cfg strategy.Config) error {
	if span, ok := cfg.Params["span"].(int); ok && span > 0 {
		e.span = span
	}
	return nil
}

func (e *EMACross) Detect(ctx strategy.Context) (bool, error) {
	if len(ctx.Series) < 2 {
		return false, nil // Not enough bars
	}

	closes := core.Closes(ctx.Series)
	ema := indicator.EMA(closes, e.span)

	n := len(closes)
	prevBelow := closes[n-2] < ema[n-2]
	currAbove := closes[n-1] > ema[n-1]

	return prevBelow && currAbove, nil
}
