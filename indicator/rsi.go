package indicator

import "math"

const (
	// DefaultRSIPeriod is the standard lookback period for the RSI.
	DefaultRSIPeriod = 14
	// overboughtRSI is the threshold above which the market is overbought.
	overboughtRSI = 70
	// oversoldRSI is the threshold below which the market is oversold.
	oversoldRSI = 30
	// neutralRSI is the placeholder value used during indicator warm-up.
	neutralRSI = 50
)

// RSIPoint represents a unit RSI entry for a market.
type RSIPoint struct {
	Value      float64
	Overbought bool
	Oversold   bool
}

func newRSIPoint(rsi float64) RSIPoint {
	return RSIPoint{
		Value:      rsi,
		Overbought: rsi > overboughtRSI,
		Oversold:   rsi < oversoldRSI,
	}
}

// RSI computes the relative strength index of the provided closes using
// Wilder smoothing. The result matches the input length; warm-up indices are
// filled with a neutral 50. When the average loss is zero the relative
// strength is defined as 100, yielding an RSI of 100 for a gain-only series.
func RSI(closes []float64, period int) []RSIPoint {
	points := make([]RSIPoint, 0, len(closes))
	if len(closes) < period+1 {
		for range closes {
			points = append(points, newRSIPoint(neutralRSI))
		}
		return points
	}

	changes := make([]float64, 0, len(closes)-1)
	for idx := 1; idx < len(closes); idx++ {
		changes = append(changes, closes[idx]-closes[idx-1])
	}

	// Seed the averages over the first period of deltas.
	var avgGain, avgLoss float64
	for idx := 0; idx < period; idx++ {
		if changes[idx] > 0 {
			avgGain += changes[idx]
		} else {
			avgLoss += math.Abs(changes[idx])
		}
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)

	computed := make([]RSIPoint, 0, len(changes)-period+1)
	computed = append(computed, newRSIPoint(rsiFromAverages(avgGain, avgLoss)))

	for idx := period; idx < len(changes); idx++ {
		change := changes[idx]
		gain, loss := 0.0, 0.0
		if change > 0 {
			gain = change
		} else {
			loss = math.Abs(change)
		}

		avgGain = (avgGain*float64(period-1) + gain) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + loss) / float64(period)
		computed = append(computed, newRSIPoint(rsiFromAverages(avgGain, avgLoss)))
	}

	// Pad the warm-up range with neutral entries.
	for len(points) < len(closes)-len(computed) {
		points = append(points, newRSIPoint(neutralRSI))
	}
	points = append(points, computed...)

	return points
}

// rsiFromAverages converts smoothed gain/loss averages to an RSI value.
func rsiFromAverages(avgGain, avgLoss float64) float64 {
	rs := float64(100)
	if avgLoss != 0 {
		rs = avgGain / avgLoss
	}

	return 100 - (100 / (1 + rs))
}
