// Package optionchain aggregates an option chain snapshot into exposure
// classifications, an implied volatility regime, the put/call ratio and the
// max pain strike.
package optionchain

import (
	"math"

	"github.com/fnolab/pulse/shared"
)

// Buildup represents the directional delta positioning of an option chain.
type Buildup int

const (
	BalancedBuildup Buildup = iota
	CallBuildup
	PutBuildup
)

// String stringifies the provided buildup.
func (b Buildup) String() string {
	switch b {
	case CallBuildup:
		return "call"
	case PutBuildup:
		return "put"
	default:
		return "balanced"
	}
}

// Thresholds holds the dataset scale dependent constants used to tier
// aggregated exposures. The defaults are calibrated for NSE index option
// chains; callers with differently scaled data should supply their own.
type Thresholds struct {
	// GammaHigh and GammaModerate tier the near-ATM gamma exposure sum.
	GammaHigh     float64
	GammaModerate float64
	// ThetaHigh and ThetaModerate tier the chain-wide theta decay sum.
	ThetaHigh     float64
	ThetaModerate float64
	// IVExpanding and IVContracting bound the stable iv regime.
	IVExpanding   float64
	IVContracting float64
	// BuildupRatio is the dominance ratio for a one-sided delta buildup.
	BuildupRatio float64
	// ATMBandPercent is the spot-relative band treated as near ATM.
	ATMBandPercent float64
}

// DefaultThresholds returns the standard exposure thresholds.
func DefaultThresholds() Thresholds {
	return Thresholds{
		GammaHigh:      1_000_000,
		GammaModerate:  500_000,
		ThetaHigh:      500_000,
		ThetaModerate:  200_000,
		IVExpanding:    20,
		IVContracting:  12,
		BuildupRatio:   1.2,
		ATMBandPercent: 0.02,
	}
}

// Analysis represents the aggregated read of an option chain snapshot.
type Analysis struct {
	DeltaBuildup  Buildup
	GammaExposure shared.ExposureTier
	ThetaDecay    shared.ExposureTier
	IVRegime      shared.IVRegime
	PCR           float64
	MaxPain       float64
	ATMStrike     float64
}

// Analyze aggregates the provided option chain snapshot. An empty chain
// yields neutral defaults with the spot price standing in for the ATM and
// max pain strikes.
func Analyze(snapshot *shared.OptionChainSnapshot, spotPrice float64, thresholds Thresholds) Analysis {
	if snapshot.Empty() {
		return Analysis{
			PCR:       1,
			MaxPain:   spotPrice,
			ATMStrike: spotPrice,
		}
	}

	atmStrike := snapshot.ATMStrike(spotPrice)

	var totalCallDelta, totalPutDelta float64
	var totalGamma, totalTheta float64
	var totalCallOI, totalPutOI float64
	var ivSum float64

	for idx := range snapshot.Quotes {
		quote := &snapshot.Quotes[idx]

		totalCallDelta += quote.Call.Delta * quote.Call.OI
		totalPutDelta += math.Abs(quote.Put.Delta) * quote.Put.OI
		totalTheta += math.Abs(quote.Call.Theta)*quote.Call.OI + math.Abs(quote.Put.Theta)*quote.Put.OI

		// Gamma exposure only matters close to the money.
		if math.Abs(quote.Strike-atmStrike) < spotPrice*thresholds.ATMBandPercent {
			totalGamma += (quote.Call.Gamma + quote.Put.Gamma) * (quote.Call.OI + quote.Put.OI)
		}

		totalCallOI += quote.Call.OI
		totalPutOI += quote.Put.OI
		ivSum += quote.Call.IV + quote.Put.IV
	}

	analysis := Analysis{ATMStrike: atmStrike}

	switch {
	case totalCallDelta > totalPutDelta*thresholds.BuildupRatio:
		analysis.DeltaBuildup = CallBuildup
	case totalPutDelta > totalCallDelta*thresholds.BuildupRatio:
		analysis.DeltaBuildup = PutBuildup
	}

	switch {
	case totalGamma > thresholds.GammaHigh:
		analysis.GammaExposure = shared.HighExposure
	case totalGamma > thresholds.GammaModerate:
		analysis.GammaExposure = shared.ModerateExposure
	}

	switch {
	case totalTheta > thresholds.ThetaHigh:
		analysis.ThetaDecay = shared.HighExposure
	case totalTheta > thresholds.ThetaModerate:
		analysis.ThetaDecay = shared.ModerateExposure
	}

	avgIV := ivSum / float64(len(snapshot.Quotes)*2)
	switch {
	case avgIV > thresholds.IVExpanding:
		analysis.IVRegime = shared.ExpandingIV
	case avgIV < thresholds.IVContracting:
		analysis.IVRegime = shared.ContractingIV
	}

	analysis.PCR = 1
	if totalCallOI > 0 {
		analysis.PCR = totalPutOI / totalCallOI
	}

	// Max pain is the strike with the highest combined open interest; ties
	// resolve to the first occurrence in strike-ascending order.
	maxPain := snapshot.Quotes[0].Strike
	maxOI := snapshot.Quotes[0].Call.OI + snapshot.Quotes[0].Put.OI
	for idx := range snapshot.Quotes {
		combined := snapshot.Quotes[idx].Call.OI + snapshot.Quotes[idx].Put.OI
		if combined > maxOI {
			maxOI = combined
			maxPain = snapshot.Quotes[idx].Strike
		}
	}
	analysis.MaxPain = maxPain

	return analysis
}

// WriterPressure classifies which option writers are under pressure from
// the put/call ratio.
func (a *Analysis) WriterPressure() shared.WriterPressure {
	switch {
	case a.PCR > 1.2:
		return shared.PutWriterPressure
	case a.PCR < 0.8:
		return shared.CallWriterPressure
	default:
		return shared.BalancedPressure
	}
}
