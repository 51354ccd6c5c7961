package priceaction

import (
	"testing"

	"github.com/fnolab/pulse/shared"
	"github.com/peterldowns/testy/assert"
)

// zigzagBars builds a candlestick series whose swing highs and lows drift by
// the provided step per cycle.
func zigzagBars(count int, base, step float64) []*shared.Candlestick {
	bars := make([]*shared.Candlestick, count)
	for idx := range bars {
		level := base + step*float64(idx/4)

		// Peak on every second bar of each four bar cycle.
		offset := float64(0)
		if idx%4 == 1 {
			offset = 5
		}
		if idx%4 == 3 {
			offset = -5
		}

		price := level + offset
		bars[idx] = &shared.Candlestick{
			Open:  price,
			High:  price + 1,
			Low:   price - 1,
			Close: price,
		}
	}

	return bars
}

func TestAnalyzeStructure(t *testing.T) {
	// Ensure fewer bars than the lookback yields neutral defaults.
	neutral := AnalyzeStructure(zigzagBars(10, 100, 2), DefaultLookback)
	assert.Equal(t, neutral, MarketStructure{})

	// Ensure rising swings classify as higher highs and higher lows.
	up := AnalyzeStructure(zigzagBars(24, 100, 3), DefaultLookback)
	assert.Equal(t, up.Structure, HigherHighsHigherLows)
	assert.Equal(t, up.Trend, Uptrend)
	assert.True(t, up.HigherHighs)
	assert.True(t, up.HigherLows)
	assert.True(t, up.Trending())

	// Ensure falling swings classify as lower highs and lower lows.
	down := AnalyzeStructure(zigzagBars(24, 100, -3), DefaultLookback)
	assert.Equal(t, down.Structure, LowerHighsLowerLows)
	assert.Equal(t, down.Trend, Downtrend)
	assert.True(t, down.Trending())

	// Ensure a flat zigzag yields no directional structure.
	flat := AnalyzeStructure(zigzagBars(24, 100, 0), DefaultLookback)
	assert.Equal(t, flat.Structure, NeutralStructure)
	assert.Equal(t, flat.Trend, RangeTrend)
	assert.False(t, flat.Trending())
}
