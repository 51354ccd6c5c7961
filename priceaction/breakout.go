package priceaction

import "github.com/fnolab/pulse/shared"

const (
	// breakoutThresholdPercent is the fraction of the lookback range a close
	// must clear beyond a level to confirm a breakout.
	breakoutThresholdPercent = 0.02
	// moderateBreakoutDistance is the minimum percent of range beyond the
	// level for a moderate breakout.
	moderateBreakoutDistance = 1.5
	// strongBreakoutDistance is the minimum percent of range beyond the
	// level for a strong breakout.
	strongBreakoutDistance = 3
)

// BreakoutDirection represents the direction of a confirmed breakout.
type BreakoutDirection int

const (
	NoBreakout BreakoutDirection = iota
	BreakoutUp
	BreakoutDown
)

// String stringifies the provided breakout direction.
func (d BreakoutDirection) String() string {
	switch d {
	case BreakoutUp:
		return "up"
	case BreakoutDown:
		return "down"
	default:
		return "none"
	}
}

// BreakoutAnalysis represents the breakout read of a market over a lookback
// window.
type BreakoutAnalysis struct {
	IsBreakout bool
	Direction  BreakoutDirection
	Strength   shared.Strength
	Resistance float64
	Support    float64
}

// AnalyzeBreakout derives resistance and support from the lookback window
// excluding the current bar and confirms a breakout when the current close
// clears either level by more than two percent of the window range. Fewer
// than lookback+1 bars yields no breakout.
func AnalyzeBreakout(bars []*shared.Candlestick, lookback int) BreakoutAnalysis {
	if len(bars) < lookback+1 {
		return BreakoutAnalysis{}
	}

	recent := bars[len(bars)-lookback-1:]
	current := recent[len(recent)-1]
	window := recent[:len(recent)-1]

	resistance := window[0].High
	support := window[0].Low
	for idx := range window {
		if window[idx].High > resistance {
			resistance = window[idx].High
		}
		if window[idx].Low < support {
			support = window[idx].Low
		}
	}

	analysis := BreakoutAnalysis{Resistance: resistance, Support: support}

	levelRange := resistance - support
	if levelRange == 0 {
		return analysis
	}

	threshold := levelRange * breakoutThresholdPercent
	switch {
	case current.Close > resistance+threshold:
		analysis.IsBreakout = true
		analysis.Direction = BreakoutUp

		distance := (current.Close - resistance) / levelRange * 100
		switch {
		case distance > strongBreakoutDistance:
			analysis.Strength = shared.Strong
		case distance > moderateBreakoutDistance:
			analysis.Strength = shared.Moderate
		}
	case current.Close < support-threshold:
		analysis.IsBreakout = true
		analysis.Direction = BreakoutDown

		distance := (support - current.Close) / levelRange * 100
		switch {
		case distance > strongBreakoutDistance:
			analysis.Strength = shared.Strong
		case distance > moderateBreakoutDistance:
			analysis.Strength = shared.Moderate
		}
	}

	return analysis
}

// Describe summarizes the breakout read for feature reporting.
func (b *BreakoutAnalysis) Describe() string {
	if !b.IsBreakout {
		return "none"
	}

	return b.Direction.String() + " " + b.Strength.String()
}
