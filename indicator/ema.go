package indicator

// EMA computes the exponential moving average of the provided series.
//
// The seed value is the simple mean of the first period points and subsequent
// values use the standard 2/(period+1) multiplier. The result always matches
// the input length: indices before period-1 are backfilled with the seed
// value so callers can index the result unconditionally. A series shorter
// than the period yields the first value repeated throughout.
func EMA(series []float64, period int) []float64 {
	if len(series) == 0 {
		return []float64{}
	}

	ema := make([]float64, len(series))
	if len(series) < period {
		for idx := range ema {
			ema[idx] = series[0]
		}
		return ema
	}

	var sum float64
	for idx := 0; idx < period; idx++ {
		sum += series[idx]
	}
	ema[period-1] = sum / float64(period)

	multiplier := 2 / (float64(period) + 1)
	for idx := period; idx < len(series); idx++ {
		ema[idx] = (series[idx]-ema[idx-1])*multiplier + ema[idx-1]
	}

	// Backfill the warm-up range with the first real value.
	for idx := 0; idx < period-1; idx++ {
		ema[idx] = ema[period-1]
	}

	return ema
}
