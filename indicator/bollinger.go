package indicator

import "math"

const (
	// DefaultBollingerPeriod is the standard lookback period for bollinger bands.
	DefaultBollingerPeriod = 20
	// DefaultBollingerStdDev is the standard deviation multiple for the bands.
	DefaultBollingerStdDev = 2
)

// BollingerPoint represents a unit bollinger bands entry for a market.
type BollingerPoint struct {
	Upper     float64
	Middle    float64
	Lower     float64
	Bandwidth float64
}

// Bollinger computes bollinger bands over the provided closes using a rolling
// mean and population standard deviation. The result matches the input
// length. Pre-period indices repeat the first computed band rather than
// zeroes, which avoids spurious zero-width bands at the start of a series.
// Input shorter than the period yields a zero-filled result.
func Bollinger(closes []float64, period int, stdDev float64) []BollingerPoint {
	points := make([]BollingerPoint, len(closes))
	if len(closes) < period {
		return points
	}

	for idx := period - 1; idx < len(closes); idx++ {
		window := closes[idx-period+1 : idx+1]

		var sum float64
		for _, close := range window {
			sum += close
		}
		mean := sum / float64(period)

		var variance float64
		for _, close := range window {
			variance += math.Pow(close-mean, 2)
		}
		variance /= float64(period)
		std := math.Sqrt(variance)

		upper := mean + stdDev*std
		lower := mean - stdDev*std

		points[idx] = BollingerPoint{
			Upper:     upper,
			Middle:    mean,
			Lower:     lower,
			Bandwidth: (upper - lower) / mean * 100,
		}
	}

	// Repeat the first computed band through the warm-up range.
	for idx := 0; idx < period-1; idx++ {
		points[idx] = points[period-1]
	}

	return points
}
