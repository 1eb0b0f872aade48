package macdcross

import (
	"fmt"

	"github.com/sigscan/sigscan/internal/core"
	"github.com/sigscan/sigscan/internal/indicator"
	"github.com/sigscan/sigscan/internal/strategy"
)

// MACDCross fires on a bullish MACD crossover: the MACD line closes below its
// signal line on the previous bar and above it on the last bar.
type MACDCross struct{}

// New creates a new MACD crossover strategy
func New() *MACDCross {
	return &MACDCross{}
}

func (m *MACDCross) Name() string {
	return "macd-cross"
}

func (m *MACDCross) Description() string {
	return fmt.Sprintf("MACD bullish crossover (%d/%d/%d)",
		indicator.FastSpan, indicator.SlowSpan, indicator.SignalSpan)
}

func (m *MACDCross) Init(cfg strategy.Config) error {
	return nil
}

func (m *MACDCross) Detect(ctx strategy.Context) (bool, error) {
	if len(ctx.Series) < 2 {
		return false, nil // Not enough bars
	}

	macd := indicator.ComputeMACD(core.Closes(ctx.Series))

	n := len(macd.Line)
	prevBelow := macd.Line[n-2] < macd.Signal[n-2]
	currAbove := macd.Line[n-1] > macd.Signal[n-1]

	return prevBelow && currAbove, nil
}
