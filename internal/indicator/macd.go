package indicator

// EMA spans used by the MACD family and the long-trend filter.
const (
	FastSpan   = 12
	SlowSpan   = 26
	SignalSpan = 9
	LongSpan   = 200
)

// MACD holds the MACD family of series. Every slice is aligned index-for-index
// with the input closes and has the same length.
type MACD struct {
	Fast   []float64 // EMA(12) of close
	Slow   []float64 // EMA(26) of close
	Line   []float64 // Fast - Slow
	Signal []float64 // EMA(9) of Line
	Hist   []float64 // Line - Signal
}

// ComputeMACD derives the MACD series from a close-price sequence. A single
// point yields a single-point result where every value equals its seed.
func ComputeMACD(closes []float64) MACD {
	fast := EMA(closes, FastSpan)
	slow := EMA(closes, SlowSpan)

	line := make([]float64, len(closes))
	for i := range closes {
		line[i] = fast[i] - slow[i]
	}

	signal := EMA(line, SignalSpan)

	hist := make([]float64, len(closes))
	for i := range closes {
		hist[i] = line[i] - signal[i]
	}

	return MACD{
		Fast:   fast,
		Slow:   slow,
		Line:   line,
		Signal: signal,
		Hist:   hist,
	}
}
