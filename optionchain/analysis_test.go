package optionchain

import (
	"testing"

	"github.com/fnolab/pulse/shared"
	"github.com/peterldowns/testy/assert"
)

func TestAnalyzeEmptyChain(t *testing.T) {
	// Ensure an empty chain yields the documented neutral defaults with the
	// spot price standing in for the strike reads.
	analysis := Analyze(&shared.OptionChainSnapshot{}, 22000, DefaultThresholds())
	assert.Equal(t, analysis, Analysis{
		PCR:       1,
		MaxPain:   22000,
		ATMStrike: 22000,
	})

	// Ensure a nil snapshot is treated the same way.
	analysis = Analyze(nil, 22000, DefaultThresholds())
	assert.Equal(t, analysis.PCR, float64(1))
	assert.Equal(t, analysis.MaxPain, float64(22000))
}

func TestAnalyze(t *testing.T) {
	spot := 22010.0
	snapshot := &shared.OptionChainSnapshot{
		Symbol:    "NIFTY",
		SpotPrice: spot,
		Quotes: []shared.OptionQuote{
			{
				Strike: 21900,
				Call:   shared.OptionSide{OI: 100_000, IV: 15, Delta: 0.7, Gamma: 0.001, Theta: -3},
				Put:    shared.OptionSide{OI: 300_000, IV: 16, Delta: -0.3, Gamma: 0.001, Theta: -2},
			},
			{
				Strike: 22000,
				Call:   shared.OptionSide{OI: 200_000, IV: 15, Delta: 0.55, Gamma: 0.002, Theta: -4},
				Put:    shared.OptionSide{OI: 400_000, IV: 15, Delta: -0.45, Gamma: 0.002, Theta: -3},
			},
			{
				Strike: 22100,
				Call:   shared.OptionSide{OI: 150_000, IV: 14, Delta: 0.4, Gamma: 0.001, Theta: -3},
				Put:    shared.OptionSide{OI: 100_000, IV: 14, Delta: -0.6, Gamma: 0.001, Theta: -2},
			},
		},
	}

	analysis := Analyze(snapshot, spot, DefaultThresholds())

	// Put delta weighted oi dominates the call side by more than the
	// dominance ratio.
	assert.Equal(t, analysis.DeltaBuildup, PutBuildup)

	// The 22000 strike is the closest to spot and holds the largest
	// combined open interest.
	assert.Equal(t, analysis.ATMStrike, float64(22000))
	assert.Equal(t, analysis.MaxPain, float64(22000))

	// All three strikes fall inside the ATM band; the summed gamma exposure
	// stays below the moderate tier.
	assert.Equal(t, analysis.GammaExposure, shared.LowExposure)

	// Chain wide theta decay crosses the high tier.
	assert.Equal(t, analysis.ThetaDecay, shared.HighExposure)

	// Average iv of 14.83 sits inside the stable band.
	assert.Equal(t, analysis.IVRegime, shared.StableIV)

	// PCR = 800k puts / 450k calls.
	if analysis.PCR < 1.77 || analysis.PCR > 1.78 {
		t.Errorf("expected pcr near 1.78, got %.4f", analysis.PCR)
	}

	// A pcr this elevated puts put writers under pressure.
	assert.Equal(t, analysis.WriterPressure(), shared.PutWriterPressure)
}

func TestWriterPressure(t *testing.T) {
	tests := []struct {
		name string
		pcr  float64
		want shared.WriterPressure
	}{
		{name: "elevated pcr", pcr: 1.5, want: shared.PutWriterPressure},
		{name: "depressed pcr", pcr: 0.5, want: shared.CallWriterPressure},
		{name: "balanced pcr", pcr: 1.0, want: shared.BalancedPressure},
	}

	for _, test := range tests {
		analysis := Analysis{PCR: test.pcr}
		if pressure := analysis.WriterPressure(); pressure != test.want {
			t.Errorf("%s: expected %s writer pressure, got %s",
				test.name, test.want.String(), pressure.String())
		}
	}
}
