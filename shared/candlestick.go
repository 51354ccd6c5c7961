package shared

import (
	"math"
	"time"
)

// Sentiment represents the candlestick sentiment.
type Sentiment int

const (
	Neutral Sentiment = iota
	Bullish
	Bearish
)

// String stringifies the provided sentiment.
func (s Sentiment) String() string {
	switch s {
	case Bullish:
		return "bullish"
	case Bearish:
		return "bearish"
	default:
		return "neutral"
	}
}

// Candlestick represents a unit price bar for a market.
type Candlestick struct {
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
	Date   time.Time

	// Metadata fields.
	Market    string
	Timeframe Timeframe
}

// FetchSentiment returns the provided candlestick's sentiment.
func (c *Candlestick) FetchSentiment() Sentiment {
	sentiment := c.Close - c.Open
	switch {
	case sentiment < 0:
		return Bearish
	case sentiment > 0:
		return Bullish
	default:
		return Neutral
	}
}

// Body returns the size of the candlestick's body.
func (c *Candlestick) Body() float64 {
	return math.Abs(c.Close - c.Open)
}

// Range returns the full high-to-low range of the candlestick.
func (c *Candlestick) Range() float64 {
	return c.High - c.Low
}

// UpperShadow returns the range of the wick above the candlestick's body.
func (c *Candlestick) UpperShadow() float64 {
	return c.High - math.Max(c.Open, c.Close)
}

// LowerShadow returns the range of the wick below the candlestick's body.
func (c *Candlestick) LowerShadow() float64 {
	return math.Min(c.Open, c.Close) - c.Low
}

// TypicalPrice returns the average of the candlestick's high, low and close.
func (c *Candlestick) TypicalPrice() float64 {
	return (c.High + c.Low + c.Close) / 3
}
