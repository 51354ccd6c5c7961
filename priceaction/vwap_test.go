package priceaction

import (
	"testing"

	"github.com/fnolab/pulse/shared"
	"github.com/peterldowns/testy/assert"
)

// flatBars builds candlesticks pinned to the provided price.
func flatBars(count int, price float64) []*shared.Candlestick {
	bars := make([]*shared.Candlestick, count)
	for idx := range bars {
		bars[idx] = &shared.Candlestick{
			Open:   price,
			High:   price,
			Low:    price,
			Close:  price,
			Volume: 1,
		}
	}

	return bars
}

func TestAnalyzeVWAPPosition(t *testing.T) {
	// Ensure an empty series yields a weak at-vwap read.
	assert.Equal(t, AnalyzeVWAPPosition(nil), VWAPAnalysis{})

	// Ensure price pinned to the vwap reads as at vwap.
	at := AnalyzeVWAPPosition(flatBars(10, 100))
	assert.Equal(t, at.Position, AtVWAP)
	assert.Equal(t, at.Strength, shared.Weak)

	// Ensure a close well above the vwap reads as strongly above.
	bars := flatBars(10, 100)
	bars = append(bars, &shared.Candlestick{
		Open: 100, High: 103, Low: 100, Close: 103, Volume: 1,
	})
	above := AnalyzeVWAPPosition(bars)
	assert.Equal(t, above.Position, AboveVWAP)
	assert.Equal(t, above.Strength, shared.Strong)
	if above.Distance <= 0 {
		t.Errorf("expected positive vwap distance, got %.2f", above.Distance)
	}

	// Ensure a close well below the vwap reads as strongly below.
	bars = flatBars(10, 100)
	bars = append(bars, &shared.Candlestick{
		Open: 100, High: 100, Low: 97, Close: 97, Volume: 1,
	})
	below := AnalyzeVWAPPosition(bars)
	assert.Equal(t, below.Position, BelowVWAP)
	assert.Equal(t, below.Strength, shared.Strong)
	if below.Distance >= 0 {
		t.Errorf("expected negative vwap distance, got %.2f", below.Distance)
	}
}

func TestAnalyzeBreakout(t *testing.T) {
	// Ensure fewer bars than the window yields no breakout.
	assert.Equal(t, AnalyzeBreakout(flatBars(10, 100), DefaultLookback), BreakoutAnalysis{})

	// Build a range bound window between 90 and 110.
	window := make([]*shared.Candlestick, DefaultLookback)
	for idx := range window {
		window[idx] = &shared.Candlestick{Open: 100, High: 110, Low: 90, Close: 100}
	}

	// Ensure a close just inside resistance does not confirm a breakout.
	inside := append(append([]*shared.Candlestick{}, window...),
		&shared.Candlestick{Open: 100, High: 110, Low: 100, Close: 110})
	analysis := AnalyzeBreakout(inside, DefaultLookback)
	assert.False(t, analysis.IsBreakout)
	assert.Equal(t, analysis.Direction, NoBreakout)
	assert.Equal(t, analysis.Resistance, float64(110))
	assert.Equal(t, analysis.Support, float64(90))
	assert.Equal(t, analysis.Describe(), "none")

	// Ensure a decisive close above resistance confirms a strong breakout.
	upside := append(append([]*shared.Candlestick{}, window...),
		&shared.Candlestick{Open: 100, High: 112, Low: 100, Close: 111})
	analysis = AnalyzeBreakout(upside, DefaultLookback)
	assert.True(t, analysis.IsBreakout)
	assert.Equal(t, analysis.Direction, BreakoutUp)
	assert.Equal(t, analysis.Strength, shared.Strong)
	assert.Equal(t, analysis.Describe(), "up strong")

	// Ensure a decisive close below support confirms a strong breakout.
	downside := append(append([]*shared.Candlestick{}, window...),
		&shared.Candlestick{Open: 100, High: 100, Low: 88, Close: 89})
	analysis = AnalyzeBreakout(downside, DefaultLookback)
	assert.True(t, analysis.IsBreakout)
	assert.Equal(t, analysis.Direction, BreakoutDown)
	assert.Equal(t, analysis.Strength, shared.Strong)
	assert.Equal(t, analysis.Describe(), "down strong")
}
