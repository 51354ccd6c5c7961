package priceaction

import (
	"math"

	"github.com/fnolab/pulse/indicator"
	"github.com/fnolab/pulse/shared"
)

const (
	// atVWAPBandPercent is the distance within which price is considered at vwap.
	atVWAPBandPercent = 0.1
	// moderateVWAPDistancePercent is the minimum distance for a moderate read.
	moderateVWAPDistancePercent = 0.5
	// strongVWAPDistancePercent is the minimum distance for a strong read.
	strongVWAPDistancePercent = 1
)

// VWAPPosition represents where price sits relative to the vwap.
type VWAPPosition int

const (
	AtVWAP VWAPPosition = iota
	AboveVWAP
	BelowVWAP
)

// String stringifies the provided vwap position.
func (p VWAPPosition) String() string {
	switch p {
	case AboveVWAP:
		return "above"
	case BelowVWAP:
		return "below"
	default:
		return "at"
	}
}

// VWAPAnalysis represents the vwap positional bias of a market.
type VWAPAnalysis struct {
	Position VWAPPosition
	// Distance is the percentage distance of price from the vwap.
	Distance float64
	Strength shared.Strength
}

// AnalyzeVWAPPosition compares the latest close against the latest vwap
// value. An empty series yields a weak at-vwap read.
func AnalyzeVWAPPosition(bars []*shared.Candlestick) VWAPAnalysis {
	if len(bars) == 0 {
		return VWAPAnalysis{}
	}

	vwap := indicator.VWAP(bars)
	currentPrice := bars[len(bars)-1].Close
	currentVWAP := vwap[len(vwap)-1]

	distance := (currentPrice - currentVWAP) / currentVWAP * 100
	absDistance := math.Abs(distance)

	analysis := VWAPAnalysis{Distance: distance}
	switch {
	case distance > atVWAPBandPercent:
		analysis.Position = AboveVWAP
	case distance < -atVWAPBandPercent:
		analysis.Position = BelowVWAP
	}

	switch {
	case absDistance > strongVWAPDistancePercent:
		analysis.Strength = shared.Strong
	case absDistance > moderateVWAPDistancePercent:
		analysis.Strength = shared.Moderate
	}

	return analysis
}
