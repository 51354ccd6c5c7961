package indicator

const (
	// DefaultMACDFastPeriod is the standard fast EMA period for the MACD.
	DefaultMACDFastPeriod = 12
	// DefaultMACDSlowPeriod is the standard slow EMA period for the MACD.
	DefaultMACDSlowPeriod = 26
	// DefaultMACDSignalPeriod is the standard signal EMA period for the MACD.
	DefaultMACDSignalPeriod = 9
)

// MACDPoint represents a unit MACD entry for a market.
type MACDPoint struct {
	Line      float64
	Signal    float64
	Histogram float64
}

// MACD computes the moving average convergence divergence of the provided
// closes. The macd line is the fast EMA minus the slow EMA, the signal line
// is an EMA of the macd line, and the histogram is their difference. The
// result matches the input length and is zero-filled when the input is
// shorter than the slow period.
func MACD(closes []float64, fast, slow, signal int) []MACDPoint {
	points := make([]MACDPoint, len(closes))
	if len(closes) < slow {
		return points
	}

	fastEMA := EMA(closes, fast)
	slowEMA := EMA(closes, slow)

	line := make([]float64, len(closes))
	for idx := range closes {
		line[idx] = fastEMA[idx] - slowEMA[idx]
	}

	signalLine := EMA(line, signal)

	for idx := range closes {
		points[idx] = MACDPoint{
			Line:      line[idx],
			Signal:    signalLine[idx],
			Histogram: line[idx] - signalLine[idx],
		}
	}

	return points
}
