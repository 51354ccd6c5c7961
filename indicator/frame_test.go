package indicator

import (
	"testing"

	"github.com/fnolab/pulse/shared"
	"github.com/peterldowns/testy/assert"
)

func TestMACD(t *testing.T) {
	// Ensure input shorter than the slow period is zero-filled.
	short := MACD([]float64{1, 2, 3}, DefaultMACDFastPeriod, DefaultMACDSlowPeriod, DefaultMACDSignalPeriod)
	assert.Equal(t, short, make([]MACDPoint, 3))

	// Ensure a rising series ends with the fast EMA above the slow EMA and
	// the histogram consistent with the line and signal.
	closes := make([]float64, 40)
	for idx := range closes {
		closes[idx] = 100 + float64(idx)
	}
	points := MACD(closes, DefaultMACDFastPeriod, DefaultMACDSlowPeriod, DefaultMACDSignalPeriod)
	assert.Equal(t, len(points), len(closes))

	last := points[len(points)-1]
	if last.Line <= 0 {
		t.Errorf("expected positive macd line for rising series, got %.4f", last.Line)
	}
	assert.Equal(t, last.Histogram, last.Line-last.Signal)
}

func TestBollinger(t *testing.T) {
	// Ensure input shorter than the period is zero-filled.
	short := Bollinger([]float64{1, 2}, DefaultBollingerPeriod, DefaultBollingerStdDev)
	assert.Equal(t, short, make([]BollingerPoint, 2))

	// Ensure a flat series collapses the bands onto the mean.
	closes := make([]float64, 25)
	for idx := range closes {
		closes[idx] = 100
	}
	points := Bollinger(closes, DefaultBollingerPeriod, DefaultBollingerStdDev)
	assert.Equal(t, len(points), len(closes))
	for idx := range points {
		assert.Equal(t, points[idx], BollingerPoint{Upper: 100, Middle: 100, Lower: 100, Bandwidth: 0})
	}

	// Ensure the bands widen with dispersion and bracket the mean.
	varied := []float64{95, 105, 90, 110, 100, 95, 105, 90, 110, 100,
		95, 105, 90, 110, 100, 95, 105, 90, 110, 100, 95}
	points = Bollinger(varied, DefaultBollingerPeriod, DefaultBollingerStdDev)
	last := points[len(points)-1]
	if last.Upper <= last.Middle || last.Lower >= last.Middle {
		t.Errorf("expected bands to bracket the mean, got upper %.2f middle %.2f lower %.2f",
			last.Upper, last.Middle, last.Lower)
	}
	if last.Bandwidth <= 0 {
		t.Errorf("expected positive bandwidth for dispersed series, got %.2f", last.Bandwidth)
	}
}

func TestVWAP(t *testing.T) {
	// Ensure volume weighting favours the higher volume bar.
	bars := []*shared.Candlestick{
		{High: 11, Low: 9, Close: 10, Volume: 1},
		{High: 21, Low: 19, Close: 20, Volume: 3},
	}
	vwap := VWAP(bars)
	assert.Equal(t, vwap[0], float64(10))
	assert.Equal(t, vwap[1], 17.5)

	// Ensure bars without volume degrade to a cumulative typical price average.
	unweighted := []*shared.Candlestick{
		{High: 11, Low: 9, Close: 10},
		{High: 21, Low: 19, Close: 20},
	}
	vwap = VWAP(unweighted)
	assert.Equal(t, vwap[1], float64(15))
}

func TestComputeFrames(t *testing.T) {
	closes := make([]float64, 60)
	for idx := range closes {
		closes[idx] = 100 + float64(idx)
	}
	bars := makeBars(closes)
	for idx := range bars {
		bars[idx].Volume = float64(idx + 1)
	}

	frames := ComputeFrames(bars)
	assert.Equal(t, len(frames), len(bars))

	// Ensure the frame bundle reflects the rising market at the tail.
	last := frames[len(frames)-1]
	if last.EMA9 <= last.EMA21 || last.EMA21 <= last.EMA50 {
		t.Errorf("expected fast emas above slow emas for rising series, got %.2f %.2f %.2f",
			last.EMA9, last.EMA21, last.EMA50)
	}
	if last.RSI.Value <= 50 {
		t.Errorf("expected rsi above 50 for rising series, got %.2f", last.RSI.Value)
	}
	if last.MACD.Line <= 0 {
		t.Errorf("expected positive macd line for rising series, got %.4f", last.MACD.Line)
	}
	assert.Equal(t, last.Supertrend.Trend, TrendUp)
	if last.VWAP >= bars[len(bars)-1].Close {
		t.Errorf("expected vwap to lag the close on a rising series, got %.2f", last.VWAP)
	}
}
