package indicator

import "github.com/fnolab/pulse/shared"

// VWAP computes the cumulative volume weighted average price over the
// provided bars. A bar with no volume contributes a unit volume, which
// degrades the result to a cumulative average of typical prices rather than
// a true VWAP. The result matches the input length.
func VWAP(bars []*shared.Candlestick) []float64 {
	vwap := make([]float64, 0, len(bars))

	var cumulativeTPV, cumulativeVolume float64
	for _, bar := range bars {
		typicalPrice := bar.TypicalPrice()
		volume := bar.Volume
		if volume == 0 {
			volume = 1
		}

		cumulativeTPV += typicalPrice * volume
		cumulativeVolume += volume

		value := typicalPrice
		if cumulativeVolume > 0 {
			value = cumulativeTPV / cumulativeVolume
		}
		vwap = append(vwap, value)
	}

	return vwap
}
