package indicator

import (
	"math"
	"testing"
)

func TestEMA_SeededAtFirstPrice(t *testing.T) {
	prices := []float64{10, 11, 9, 8, 12, 13}

	ema := EMA(prices, 12)

	if len(ema) != len(prices) {
		t.Fatalf("expected %d values, got %d", len(prices), len(ema))
	}
	if ema[0] != 10 {
		t.Errorf("EMA must be seeded at the first price, got %f", ema[0])
	}
}

func TestEMA_Recursion(t *testing.T) {
	prices := []float64{10, 12}

	// span 3 -> alpha = 0.5: ema[1] = 12*0.5 + 10*0.5 = 11
	ema := EMA(prices, 3)

	if ema[1] != 11 {
		t.Errorf("ema[1] = %f, want 11", ema[1])
	}
}

func TestEMA_SinglePoint(t *testing.T) {
	ema := EMA([]float64{42.5}, 26)

	if len(ema) != 1 {
		t.Fatalf("expected 1 value, got %d", len(ema))
	}
	if ema[0] != 42.5 {
		t.Errorf("single-point EMA should equal the seed, got %f", ema[0])
	}
}

func TestEMA_Empty(t *testing.T) {
	if ema := EMA(nil, 12); len(ema) != 0 {
		t.Errorf("expected empty result, got %d values", len(ema))
	}
}

func TestComputeMACD_LengthAndIdentity(t *testing.T) {
	prices := []float64{10, 11, 9, 8, 12, 13}

	m := ComputeMACD(prices)

	for name, series := range map[string][]float64{
		"fast": m.Fast, "slow": m.Slow, "line": m.Line, "signal": m.Signal, "hist": m.Hist,
	} {
		if len(series) != len(prices) {
			t.Errorf("%s has length %d, want %d", name, len(series), len(prices))
		}
	}

	// MACD[i] = EMA12[i] - EMA26[i] and Hist[i] = Line[i] - Signal[i] exactly
	for i := range prices {
		if m.Line[i] != m.Fast[i]-m.Slow[i] {
			t.Errorf("line[%d] = %f, want %f", i, m.Line[i], m.Fast[i]-m.Slow[i])
		}
		if m.Hist[i] != m.Line[i]-m.Signal[i] {
			t.Errorf("hist[%d] = %f, want %f", i, m.Hist[i], m.Line[i]-m.Signal[i])
		}
	}
}

func TestComputeMACD_SinglePoint(t *testing.T) {
	m := ComputeMACD([]float64{100})

	// All seeds: fast = slow = 100, line = 0, signal = 0, hist = 0
	if m.Fast[0] != 100 || m.Slow[0] != 100 {
		t.Errorf("fast/slow seeds = %f/%f, want 100/100", m.Fast[0], m.Slow[0])
	}
	if m.Line[0] != 0 || m.Signal[0] != 0 || m.Hist[0] != 0 {
		t.Errorf("line/signal/hist = %f/%f/%f, want zeros", m.Line[0], m.Signal[0], m.Hist[0])
	}
}

func TestComputeMACD_SignalIsEMAOfLine(t *testing.T) {
	prices := []float64{10, 11, 9, 8, 12, 13, 14, 12, 15}

	m := ComputeMACD(prices)
	want := EMA(m.Line, SignalSpan)

	for i := range want {
		if math.Abs(m.Signal[i]-want[i]) > 1e-12 {
			t.Errorf("signal[%d] = %f, want %f", i, m.Signal[i], want[i])
		}
	}
}
