// Package pattern classifies the most recent candlesticks of a series into a
// single named reversal or continuation pattern.
package pattern

import (
	"fmt"

	"github.com/fnolab/pulse/shared"
)

// Kind represents a named candlestick pattern.
type Kind int

const (
	BullishEngulfing Kind = iota
	BearishEngulfing
	Hammer
	ShootingStar
	Doji
	InsideBar
	BullishMarubozu
	BearishMarubozu
)

// String stringifies the provided pattern kind.
func (k Kind) String() string {
	switch k {
	case BullishEngulfing:
		return "bullish_engulfing"
	case BearishEngulfing:
		return "bearish_engulfing"
	case Hammer:
		return "hammer"
	case ShootingStar:
		return "shooting_star"
	case Doji:
		return "doji"
	case InsideBar:
		return "inside_bar"
	case BullishMarubozu:
		return "bullish_marubozu"
	case BearishMarubozu:
		return "bearish_marubozu"
	default:
		return "unknown"
	}
}

// Detection represents a classified candlestick pattern with a strength
// rating. Detections describe the latest bar only and are computed fresh on
// each call.
type Detection struct {
	Kind        Kind
	Strength    shared.Strength
	Description string
}

// Detect classifies the latest bar of the provided series. Detectors run in
// a fixed priority order and the first match wins; the ordering is the tie
// break policy for bars that satisfy multiple shape constraints. Fewer than
// two bars yields nil, as does a bar matching no pattern.
func Detect(bars []*shared.Candlestick) *Detection {
	if len(bars) < 2 {
		return nil
	}

	current := bars[len(bars)-1]
	previous := bars[len(bars)-2]

	detectors := []func() *Detection{
		func() *Detection { return detectBullishEngulfing(current, previous) },
		func() *Detection { return detectBearishEngulfing(current, previous) },
		func() *Detection { return detectHammer(current) },
		func() *Detection { return detectShootingStar(current) },
		func() *Detection { return detectDoji(current) },
		func() *Detection { return detectInsideBar(current, previous) },
		func() *Detection { return detectMarubozu(current) },
	}

	for _, detect := range detectors {
		if detection := detect(); detection != nil {
			return detection
		}
	}

	return nil
}

// detectBullishEngulfing matches a bullish candle whose body strictly engulfs
// the preceding bearish candle's body.
func detectBullishEngulfing(current, previous *shared.Candlestick) *Detection {
	if previous.FetchSentiment() != shared.Bearish || current.FetchSentiment() != shared.Bullish {
		return nil
	}

	currBody := current.Body()
	prevRange := previous.Range()

	if current.Open < previous.Close && current.Close > previous.Open && currBody > previous.Body() {
		strength := shared.Weak
		switch {
		case currBody > prevRange*0.7:
			strength = shared.Strong
		case currBody > prevRange*0.5:
			strength = shared.Moderate
		}

		return &Detection{
			Kind:        BullishEngulfing,
			Strength:    strength,
			Description: fmt.Sprintf("Bullish Engulfing (%s) - Potential reversal to upside", strength.String()),
		}
	}

	return nil
}

// detectBearishEngulfing mirrors the bullish engulfing condition.
func detectBearishEngulfing(current, previous *shared.Candlestick) *Detection {
	if previous.FetchSentiment() != shared.Bullish || current.FetchSentiment() != shared.Bearish {
		return nil
	}

	currBody := current.Body()
	prevRange := previous.Range()

	if current.Open > previous.Close && current.Close < previous.Open && currBody > previous.Body() {
		strength := shared.Weak
		switch {
		case currBody > prevRange*0.7:
			strength = shared.Strong
		case currBody > prevRange*0.5:
			strength = shared.Moderate
		}

		return &Detection{
			Kind:        BearishEngulfing,
			Strength:    strength,
			Description: fmt.Sprintf("Bearish Engulfing (%s) - Potential reversal to downside", strength.String()),
		}
	}

	return nil
}

// detectHammer matches a small body with a long lower shadow and little to
// no upper shadow.
func detectHammer(candle *shared.Candlestick) *Detection {
	candleRange := candle.Range()
	if candleRange == 0 {
		return nil
	}

	bodyRatio := candle.Body() / candleRange
	lowerShadowRatio := candle.LowerShadow() / candleRange
	upperShadowRatio := candle.UpperShadow() / candleRange

	if bodyRatio < 0.3 && lowerShadowRatio > 0.6 && upperShadowRatio < 0.2 {
		strength := shared.Moderate
		if lowerShadowRatio > 0.75 {
			strength = shared.Strong
		}

		return &Detection{
			Kind:        Hammer,
			Strength:    strength,
			Description: fmt.Sprintf("Hammer (%s) - Potential bullish reversal", strength.String()),
		}
	}

	return nil
}

// detectShootingStar mirrors the hammer with the shadows swapped.
func detectShootingStar(candle *shared.Candlestick) *Detection {
	candleRange := candle.Range()
	if candleRange == 0 {
		return nil
	}

	bodyRatio := candle.Body() / candleRange
	upperShadowRatio := candle.UpperShadow() / candleRange
	lowerShadowRatio := candle.LowerShadow() / candleRange

	if bodyRatio < 0.3 && upperShadowRatio > 0.6 && lowerShadowRatio < 0.2 {
		strength := shared.Moderate
		if upperShadowRatio > 0.75 {
			strength = shared.Strong
		}

		return &Detection{
			Kind:        ShootingStar,
			Strength:    strength,
			Description: fmt.Sprintf("Shooting Star (%s) - Potential bearish reversal", strength.String()),
		}
	}

	return nil
}

// detectDoji matches a candle with a very small body relative to its range.
func detectDoji(candle *shared.Candlestick) *Detection {
	candleRange := candle.Range()
	if candleRange == 0 {
		return nil
	}

	bodyRatio := candle.Body() / candleRange
	if bodyRatio < 0.1 {
		strength := shared.Moderate
		if bodyRatio < 0.05 {
			strength = shared.Strong
		}

		return &Detection{
			Kind:        Doji,
			Strength:    strength,
			Description: fmt.Sprintf("Doji (%s) - Indecision, potential reversal", strength.String()),
		}
	}

	return nil
}

// detectInsideBar matches a candle fully contained within the previous
// candle's range.
func detectInsideBar(current, previous *shared.Candlestick) *Detection {
	contained := current.High <= previous.High && current.Low >= previous.Low
	strictly := current.High < previous.High || current.Low > previous.Low

	if contained && strictly {
		strength := shared.Moderate
		if current.Range() < previous.Range()*0.5 {
			strength = shared.Strong
		}

		return &Detection{
			Kind:        InsideBar,
			Strength:    strength,
			Description: fmt.Sprintf("Inside Bar (%s) - Consolidation, watch for breakout", strength.String()),
		}
	}

	return nil
}

// detectMarubozu matches a candle whose body spans nearly its entire range.
func detectMarubozu(candle *shared.Candlestick) *Detection {
	candleRange := candle.Range()
	if candleRange == 0 {
		return nil
	}

	bodyRatio := candle.Body() / candleRange
	if bodyRatio > 0.95 {
		strength := shared.Moderate
		if bodyRatio > 0.98 {
			strength = shared.Strong
		}

		kind := BearishMarubozu
		direction := "Bearish"
		pressure := "selling"
		if candle.FetchSentiment() == shared.Bullish {
			kind = BullishMarubozu
			direction = "Bullish"
			pressure = "buying"
		}

		return &Detection{
			Kind:        kind,
			Strength:    strength,
			Description: fmt.Sprintf("%s Marubozu (%s) - Strong %s pressure", direction, strength.String(), pressure),
		}
	}

	return nil
}
