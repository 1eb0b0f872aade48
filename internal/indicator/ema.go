package indicator

// EMA calculates an exponential moving average seeded at the series start:
// ema[0] = prices[0], then ema[i] = prices[i]*alpha + ema[i-1]*(1-alpha)
// with alpha = 2/(span+1). The result has the same length as the input, so
// there is no warm-up gap; early values simply carry more seed weight.
func EMA(prices []float64, span int) []float64 {
	if len(prices) == 0 {
		return nil
	}

	alpha := 2.0 / float64(span+1)
	result := make([]float64, len(prices))
	result[0] = prices[0]

	for i := 1; i < len(prices); i++ {
		result[i] = prices[i]*alpha + result[i-1]*(1-alpha)
	}

	return result
}
