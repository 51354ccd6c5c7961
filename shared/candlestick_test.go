package shared

import (
	"testing"

	"github.com/peterldowns/testy/assert"
)

func TestFetchSentiment(t *testing.T) {
	tests := []struct {
		name   string
		candle Candlestick
		want   Sentiment
	}{
		{
			name: "neutral candle",
			candle: Candlestick{
				Open:  5,
				Close: 5,
				High:  9,
				Low:   1,
			},
			want: Neutral,
		},
		{
			name: "bullish candle",
			candle: Candlestick{
				Open:  5,
				Close: 15,
				High:  20,
				Low:   1,
			},
			want: Bullish,
		},
		{
			name: "bearish candle",
			candle: Candlestick{
				Open:  15,
				Close: 5,
				High:  20,
				Low:   1,
			},
			want: Bearish,
		},
	}

	for _, test := range tests {
		sentiment := test.candle.FetchSentiment()
		if sentiment != test.want {
			t.Errorf("%s: expected %s sentiment, got %s",
				test.name, test.want.String(), sentiment.String())
		}
	}
}

func TestCandlestickAnatomy(t *testing.T) {
	candle := Candlestick{
		Open:  12,
		Close: 15,
		High:  18,
		Low:   10,
	}

	assert.Equal(t, candle.Body(), float64(3))
	assert.Equal(t, candle.Range(), float64(8))
	assert.Equal(t, candle.UpperShadow(), float64(3))
	assert.Equal(t, candle.LowerShadow(), float64(2))
	assert.Equal(t, candle.TypicalPrice(), float64(43)/3)
}
