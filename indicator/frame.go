package indicator

import "github.com/fnolab/pulse/shared"

const (
	// Fast, medium and slow EMA periods bundled into each frame.
	fastEMAPeriod   = 9
	mediumEMAPeriod = 21
	slowEMAPeriod   = 50
)

// Frame represents the per-bar bundle of indicator values for a market.
type Frame struct {
	EMA9       float64
	EMA21      float64
	EMA50      float64
	RSI        RSIPoint
	MACD       MACDPoint
	Bollinger  BollingerPoint
	Supertrend SupertrendPoint
	VWAP       float64
}

// ComputeFrames computes one indicator frame per input bar using the default
// indicator parameters. Frames before an indicator's minimum period hold that
// indicator's documented warm-up placeholder, so every frame is safe to read.
func ComputeFrames(bars []*shared.Candlestick) []Frame {
	closes := make([]float64, len(bars))
	for idx := range bars {
		closes[idx] = bars[idx].Close
	}

	ema9 := EMA(closes, fastEMAPeriod)
	ema21 := EMA(closes, mediumEMAPeriod)
	ema50 := EMA(closes, slowEMAPeriod)
	rsi := RSI(closes, DefaultRSIPeriod)
	macd := MACD(closes, DefaultMACDFastPeriod, DefaultMACDSlowPeriod, DefaultMACDSignalPeriod)
	bollinger := Bollinger(closes, DefaultBollingerPeriod, DefaultBollingerStdDev)
	supertrend := Supertrend(bars, DefaultSupertrendPeriod, DefaultSupertrendMultiplier)
	vwap := VWAP(bars)

	frames := make([]Frame, len(bars))
	for idx := range bars {
		frames[idx] = Frame{
			EMA9:       ema9[idx],
			EMA21:      ema21[idx],
			EMA50:      ema50[idx],
			RSI:        rsi[idx],
			MACD:       macd[idx],
			Bollinger:  bollinger[idx],
			Supertrend: supertrend[idx],
			VWAP:       vwap[idx],
		}
	}

	return frames
}
