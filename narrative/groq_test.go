package narrative

import (
	"strings"
	"testing"

	"github.com/fnolab/pulse/shared"
	"github.com/peterldowns/testy/assert"
)

func TestGroqConfigValidate(t *testing.T) {
	// Ensure a missing api key fails validation.
	cfg := &GroqConfig{}
	assert.Error(t, cfg.Validate())

	// Ensure defaults are applied for the endpoint and model.
	cfg = &GroqConfig{APIKey: "key"}
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, cfg.BaseURL, DefaultBaseURL)
	assert.Equal(t, cfg.Model, DefaultModel)
}

func TestBuildUserPrompt(t *testing.T) {
	summary := &shared.FeatureSummary{
		Timeframe: shared.FiveMinute,
		PriceAction: shared.PriceActionFeatures{
			Structure:    "HH_HL",
			VWAPPosition: "above",
			Breakout:     "none",
		},
		Indicators: shared.IndicatorFeatures{
			EMA9:            22110,
			EMA21:           22080,
			EMA50:           22010,
			RSI:             61.2,
			MACDHistogram:   4.5,
			SupertrendTrend: "up",
		},
		OptionChain: shared.OptionChainFeatures{
			DeltaBuildup:  "call",
			GammaExposure: "moderate",
			ThetaDecay:    "low",
			IVRegime:      "stable",
			PCR:           1.1,
		},
		Sentiment: shared.SentimentFeatures{
			Bias:       "bullish",
			Momentum:   "moderate",
			Volatility: "moderate",
			TrendType:  "trending",
		},
		Candlestick:  "Bullish Engulfing (strong) - Potential reversal to upside",
		CurrentPrice: 22150,
	}

	prompt := BuildUserPrompt(summary)
	for _, want := range []string{
		"5m timeframe",
		"CURRENT PRICE: 22150.00",
		"Market Structure: HH_HL",
		"VWAP Position: above",
		"RSI: 61.20",
		"Delta Buildup: call",
		"Put/Call Ratio: 1.10",
		"Bias: bullish",
		"CANDLESTICK PATTERN: Bullish Engulfing",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("expected prompt to contain %q", want)
		}
	}

	// Ensure the candlestick section is omitted when no pattern was detected.
	summary.Candlestick = ""
	prompt = BuildUserPrompt(summary)
	if strings.Contains(prompt, "CANDLESTICK PATTERN") {
		t.Error("expected no candlestick section without a detection")
	}
}

func TestParseInsight(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    *shared.NarrativeInsight
		wantErr bool
	}{
		{
			name: "complete payload",
			content: `{"bias":"bullish","confidence":"high",
				"priceRange":{"upper":0.8,"lower":-0.4},
				"reasoning":"Momentum favours upside."}`,
			want: &shared.NarrativeInsight{
				Bias:       shared.BullishBias,
				Confidence: shared.Strong,
				PriceRange: shared.PriceRange{Upper: 0.8, Lower: -0.4},
				Reasoning:  "Momentum favours upside.",
			},
		},
		{
			name:    "missing price range falls back to defaults",
			content: `{"bias":"bearish","confidence":"medium","reasoning":"Weak breadth."}`,
			want: &shared.NarrativeInsight{
				Bias:       shared.BearishBias,
				Confidence: shared.Moderate,
				PriceRange: shared.PriceRange{Upper: 0.5, Lower: -0.5},
				Reasoning:  "Weak breadth.",
			},
		},
		{
			name:    "unknown confidence degrades to weak",
			content: `{"bias":"neutral","confidence":"certain","reasoning":"Flat."}`,
			want: &shared.NarrativeInsight{
				Bias:       shared.NeutralBias,
				Confidence: shared.Weak,
				PriceRange: shared.PriceRange{Upper: 0.5, Lower: -0.5},
				Reasoning:  "Flat.",
			},
		},
		{
			name:    "invalid json",
			content: "not-json{",
			wantErr: true,
		},
		{
			name:    "missing reasoning",
			content: `{"bias":"bullish"}`,
			wantErr: true,
		},
		{
			name:    "unknown bias",
			content: `{"bias":"sideways","reasoning":"Unclear."}`,
			wantErr: true,
		},
	}

	for _, test := range tests {
		insight, err := ParseInsight(test.content)
		if test.wantErr {
			if err == nil {
				t.Errorf("%s: expected an error", test.name)
			}
			continue
		}

		if err != nil {
			t.Errorf("%s: unexpected error: %v", test.name, err)
			continue
		}
		assert.Equal(t, insight, test.want)
	}
}
