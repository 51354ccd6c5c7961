package indicator

import (
	"math"

	"github.com/fnolab/pulse/shared"
)

const (
	// DefaultSupertrendPeriod is the standard ATR period for the supertrend.
	DefaultSupertrendPeriod = 10
	// DefaultSupertrendMultiplier is the standard ATR band multiplier.
	DefaultSupertrendMultiplier = 3
)

// TrendDirection represents the direction of the supertrend band.
type TrendDirection int

const (
	TrendUp TrendDirection = iota
	TrendDown
)

// String stringifies the provided trend direction.
func (t TrendDirection) String() string {
	switch t {
	case TrendDown:
		return "down"
	default:
		return "up"
	}
}

// SupertrendPoint represents a unit supertrend entry for a market.
type SupertrendPoint struct {
	Value float64
	Trend TrendDirection
}

// Supertrend computes the ATR based supertrend band over the provided bars.
// The band flips only when the close crosses the active band value. The
// result matches the input length; the first period entries are
// {value: 0, trend: up} placeholders and carry no signal until warm-up
// completes.
func Supertrend(bars []*shared.Candlestick, period int, multiplier float64) []SupertrendPoint {
	points := make([]SupertrendPoint, len(bars))
	if len(bars) < period {
		return points
	}

	// True range per bar, using the widest of the three range definitions.
	trueRanges := make([]float64, 0, len(bars)-1)
	for idx := 1; idx < len(bars); idx++ {
		tr := math.Max(bars[idx].High-bars[idx].Low,
			math.Max(math.Abs(bars[idx].High-bars[idx-1].Close),
				math.Abs(bars[idx].Low-bars[idx-1].Close)))
		trueRanges = append(trueRanges, tr)
	}

	// Simple moving average of the true range.
	atr := make([]float64, 0, len(trueRanges))
	for idx := period - 1; idx < len(trueRanges); idx++ {
		var sum float64
		for _, tr := range trueRanges[idx-period+1 : idx+1] {
			sum += tr
		}
		atr = append(atr, sum/float64(period))
	}

	for idx := period; idx < len(bars); idx++ {
		hl2 := (bars[idx].High + bars[idx].Low) / 2

		var atrValue float64
		if idx-period < len(atr) {
			atrValue = atr[idx-period]
		} else if len(atr) > 0 {
			atrValue = atr[0]
		}

		upperBand := hl2 + multiplier*atrValue
		lowerBand := hl2 - multiplier*atrValue

		point := SupertrendPoint{Value: upperBand, Trend: TrendUp}
		switch {
		case idx == period:
			if bars[idx].Close <= point.Value {
				point.Trend = TrendDown
			}
		default:
			prev := points[idx-1]
			switch prev.Trend {
			case TrendUp:
				point.Value = math.Max(lowerBand, prev.Value)
				point.Trend = TrendUp
				if bars[idx].Close < point.Value {
					point.Trend = TrendDown
					point.Value = upperBand
				}
			case TrendDown:
				point.Value = math.Min(upperBand, prev.Value)
				point.Trend = TrendDown
				if bars[idx].Close > point.Value {
					point.Trend = TrendUp
					point.Value = lowerBand
				}
			}
		}

		points[idx] = point
	}

	return points
}
