// Package priceaction derives market structure, vwap positioning and
// breakout reads from a rolling window of candlestick data.
package priceaction

import "github.com/fnolab/pulse/shared"

const (
	// DefaultLookback is the standard lookback window for structure and
	// breakout analysis.
	DefaultLookback = 20
)

// Trend represents the prevailing market trend.
type Trend int

const (
	RangeTrend Trend = iota
	Uptrend
	Downtrend
)

// String stringifies the provided trend.
func (t Trend) String() string {
	switch t {
	case Uptrend:
		return "uptrend"
	case Downtrend:
		return "downtrend"
	default:
		return "range"
	}
}

// Structure represents the swing point structure of a market.
type Structure int

const (
	NeutralStructure Structure = iota
	HigherHighsHigherLows
	LowerHighsLowerLows
	MixedStructure
)

// String stringifies the provided structure.
func (s Structure) String() string {
	switch s {
	case HigherHighsHigherLows:
		return "HH_HL"
	case LowerHighsLowerLows:
		return "LH_LL"
	case MixedStructure:
		return "MIXED"
	default:
		return "NEUTRAL"
	}
}

// MarketStructure represents the swing point derived structure of a market
// over a lookback window.
type MarketStructure struct {
	Trend       Trend
	Structure   Structure
	HigherHighs bool
	HigherLows  bool
	LowerHighs  bool
	LowerLows   bool
}

// AnalyzeStructure scans the interior bars of the lookback window for local
// swing highs and lows and compares the two most recent swings on each side.
// Fewer bars than the lookback yields neutral range defaults.
func AnalyzeStructure(bars []*shared.Candlestick, lookback int) MarketStructure {
	if len(bars) < lookback {
		return MarketStructure{}
	}

	recent := bars[len(bars)-lookback:]

	// A swing high/low is a bar whose high/low exceeds both neighbours.
	swingHighs := make([]float64, 0, lookback)
	swingLows := make([]float64, 0, lookback)
	for idx := 1; idx < len(recent)-1; idx++ {
		if recent[idx].High > recent[idx-1].High && recent[idx].High > recent[idx+1].High {
			swingHighs = append(swingHighs, recent[idx].High)
		}
		if recent[idx].Low < recent[idx-1].Low && recent[idx].Low < recent[idx+1].Low {
			swingLows = append(swingLows, recent[idx].Low)
		}
	}

	structure := MarketStructure{}
	if len(swingHighs) >= 2 {
		structure.HigherHighs = swingHighs[len(swingHighs)-1] > swingHighs[len(swingHighs)-2]
		structure.LowerHighs = swingHighs[len(swingHighs)-1] < swingHighs[len(swingHighs)-2]
	}
	if len(swingLows) >= 2 {
		structure.HigherLows = swingLows[len(swingLows)-1] > swingLows[len(swingLows)-2]
		structure.LowerLows = swingLows[len(swingLows)-1] < swingLows[len(swingLows)-2]
	}

	switch {
	case structure.HigherHighs && structure.HigherLows:
		structure.Structure = HigherHighsHigherLows
		structure.Trend = Uptrend
	case structure.LowerHighs && structure.LowerLows:
		structure.Structure = LowerHighsLowerLows
		structure.Trend = Downtrend
	case (structure.HigherHighs && structure.LowerLows) || (structure.LowerHighs && structure.HigherLows):
		structure.Structure = MixedStructure
	}

	return structure
}

// Trending reports whether the structure indicates a trending market.
func (m *MarketStructure) Trending() bool {
	return m.Structure == HigherHighsHigherLows || m.Structure == LowerHighsLowerLows
}
