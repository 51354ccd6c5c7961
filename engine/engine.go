// Package engine fuses indicator, pattern, price action and option chain
// reads into a per-timeframe market sentiment verdict.
package engine

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/fnolab/pulse/indicator"
	"github.com/fnolab/pulse/optionchain"
	"github.com/fnolab/pulse/pattern"
	"github.com/fnolab/pulse/priceaction"
	"github.com/fnolab/pulse/shared"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	// MinAnalysisBars is the minimum number of bars required for an
	// analysis cycle.
	MinAnalysisBars = 20
	// defaultClassifyTimeout bounds the narrative classifier call.
	defaultClassifyTimeout = time.Second * 10
	// strongMomentumScore and moderateMomentumScore tier the momentum read.
	strongMomentumScore   = 0.6
	moderateMomentumScore = 0.3
	// defaultPriceRangePercent bounds the probable move when no narrative
	// insight is available.
	defaultPriceRangePercent = 0.5
)

// Classifier defines the requirements of the external narrative classifier.
// Implementations may fail in any shape; the engine converts every failure
// into its deterministic fallback.
type Classifier interface {
	// Classify returns a narrative insight for the provided feature summary.
	Classify(ctx context.Context, summary *shared.FeatureSummary) (*shared.NarrativeInsight, error)
}

// EngineConfig represents the analysis engine configuration.
type EngineConfig struct {
	// Classifier is the external narrative classifier. It may be nil, in
	// which case every cycle uses the rule based fallback.
	Classifier Classifier
	// ClassifyTimeout bounds the classifier call per cycle.
	ClassifyTimeout time.Duration
	// Thresholds are the option chain exposure thresholds.
	Thresholds optionchain.Thresholds
	// Logger represents the application logger.
	Logger *zerolog.Logger
}

// Engine represents the market analysis engine. Each invocation is a
// stateless transform; no state persists across calls.
type Engine struct {
	cfg *EngineConfig
}

// NewEngine initializes a new analysis engine.
func NewEngine(cfg *EngineConfig) *Engine {
	if cfg.ClassifyTimeout == 0 {
		cfg.ClassifyTimeout = defaultClassifyTimeout
	}

	return &Engine{cfg: cfg}
}

// Input represents the inputs of one analysis cycle for one timeframe.
type Input struct {
	Bars         []*shared.Candlestick
	Chain        *shared.OptionChainSnapshot
	SpotPrice    float64
	Timeframe    shared.Timeframe
	Availability shared.Availability
}

// Analyze runs one analysis cycle. It never returns an error: insufficient
// data and classifier failures both degrade to documented defaults.
func (e *Engine) Analyze(ctx context.Context, input *Input) *shared.AnalysisResult {
	if len(input.Bars) < MinAnalysisBars || input.Chain.Empty() ||
		input.SpotPrice <= 0 || input.Availability == shared.Unavailable {
		return e.degenerateResult(input.Timeframe)
	}

	// Compute all feature reads independently.
	frames := indicator.ComputeFrames(input.Bars)
	latest := frames[len(frames)-1]

	structure := priceaction.AnalyzeStructure(input.Bars, priceaction.DefaultLookback)
	vwap := priceaction.AnalyzeVWAPPosition(input.Bars)
	breakout := priceaction.AnalyzeBreakout(input.Bars, priceaction.DefaultLookback)
	detection := pattern.Detect(input.Bars)
	chain := optionchain.Analyze(input.Chain, input.SpotPrice, e.cfg.Thresholds)

	bias, votes := fuseSentiment(&structure, &latest, &vwap)
	momentum := momentumStrength(&latest)
	volatility := chain.IVRegime.VolatilityLevel()
	risk := riskLevel(&chain, volatility, momentum)
	strategy := suggestStrategy(input.Timeframe, momentum, risk, bias)

	result := &shared.AnalysisResult{
		ID:                 uuid.New().String(),
		Timeframe:          input.Timeframe,
		Bias:               bias,
		Confidence:         shared.Weak,
		MomentumStrength:   momentum,
		Volatility:         chain.IVRegime,
		RiskLevel:          risk,
		SuggestedStrategy:  strategy,
		WriterPressure:     chain.WriterPressure(),
		PriceRange:         shared.PriceRange{Upper: defaultPriceRangePercent, Lower: -defaultPriceRangePercent},
		GreeksInsight:      greeksInsight(&chain),
		Inference:          inference(bias, &vwap, &breakout, &structure),
		CreatedOn:          time.Now(),
	}
	if detection != nil {
		result.CandlestickInsight = detection.Description
	}

	summary := buildFeatureSummary(input, &latest, &structure, &vwap, &breakout, &chain, detection,
		bias, momentum, volatility)

	insight := e.classify(ctx, summary)
	switch {
	case insight != nil:
		result.Bias = insight.Bias
		result.Confidence = insight.Confidence
		result.PriceRange = insight.PriceRange
		result.Reasoning = insight.Reasoning
	default:
		result.Reasoning = fallbackReasoning(bias, votes)
		result.Fallback = true
	}

	return result
}

// classify runs the narrative classifier under the configured timeout. Any
// failure shape yields nil so the caller takes the fallback path.
func (e *Engine) classify(ctx context.Context, summary *shared.FeatureSummary) *shared.NarrativeInsight {
	if e.cfg.Classifier == nil {
		return nil
	}

	classifyCtx, cancel := context.WithTimeout(ctx, e.cfg.ClassifyTimeout)
	defer cancel()

	insight, err := e.cfg.Classifier.Classify(classifyCtx, summary)
	if err != nil {
		if e.cfg.Logger != nil {
			e.cfg.Logger.Error().Msgf("classifying %s feature summary: %v", summary.Timeframe.String(), err)
		}
		return nil
	}

	return insight
}

// degenerateResult is the sole error signalling mechanism of the engine:
// insufficient data yields a neutral, high risk, avoid-trade verdict.
func (e *Engine) degenerateResult(timeframe shared.Timeframe) *shared.AnalysisResult {
	return &shared.AnalysisResult{
		ID:                uuid.New().String(),
		Timeframe:         timeframe,
		Bias:              shared.NeutralBias,
		Confidence:        shared.Weak,
		MomentumStrength:  shared.Weak,
		Volatility:        shared.StableIV,
		RiskLevel:         shared.HighRisk,
		SuggestedStrategy: shared.AvoidTrade,
		WriterPressure:    shared.BalancedPressure,
		GreeksInsight:     "Insufficient data for analysis",
		Inference:         "Waiting for more data to generate analysis.",
		Reasoning:         "Insufficient data for analysis.",
		Fallback:          true,
		CreatedOn:         time.Now(),
	}
}

// voteTally tracks the bullish and bearish votes of the sentiment voters.
type voteTally struct {
	bullish []string
	bearish []string
}

// fuseSentiment counts bullish against bearish votes across the five
// independent sentiment voters. A bias is only declared when one side wins
// by more than one vote; the margin is a deliberate anti-flicker tie break,
// not a simple majority.
func fuseSentiment(structure *priceaction.MarketStructure, latest *indicator.Frame,
	vwap *priceaction.VWAPAnalysis) (shared.Bias, voteTally) {
	votes := voteTally{}

	switch structure.Trend {
	case priceaction.Uptrend:
		votes.bullish = append(votes.bullish, "uptrend structure")
	case priceaction.Downtrend:
		votes.bearish = append(votes.bearish, "downtrend structure")
	}

	switch {
	case latest.RSI.Value > 50:
		votes.bullish = append(votes.bullish, fmt.Sprintf("RSI %.1f above 50", latest.RSI.Value))
	case latest.RSI.Value < 50:
		votes.bearish = append(votes.bearish, fmt.Sprintf("RSI %.1f below 50", latest.RSI.Value))
	}

	switch {
	case latest.MACD.Histogram > 0:
		votes.bullish = append(votes.bullish, "positive MACD histogram")
	case latest.MACD.Histogram < 0:
		votes.bearish = append(votes.bearish, "negative MACD histogram")
	}

	switch latest.Supertrend.Trend {
	case indicator.TrendUp:
		votes.bullish = append(votes.bullish, "supertrend up")
	default:
		votes.bearish = append(votes.bearish, "supertrend down")
	}

	switch vwap.Position {
	case priceaction.AboveVWAP:
		votes.bullish = append(votes.bullish, "price above VWAP")
	case priceaction.BelowVWAP:
		votes.bearish = append(votes.bearish, "price below VWAP")
	}

	bias := shared.NeutralBias
	switch {
	case len(votes.bullish) > len(votes.bearish)+1:
		bias = shared.BullishBias
	case len(votes.bearish) > len(votes.bullish)+1:
		bias = shared.BearishBias
	}

	return bias, votes
}

// momentumStrength averages the normalized RSI distance from 50 and the
// normalized MACD histogram to line ratio.
func momentumStrength(latest *indicator.Frame) shared.Strength {
	rsiStrength := math.Abs(latest.RSI.Value-50) / 50
	macdStrength := math.Abs(latest.MACD.Histogram) / math.Max(math.Abs(latest.MACD.Line), 1)
	score := (rsiStrength + macdStrength) / 2

	switch {
	case score > strongMomentumScore:
		return shared.Strong
	case score > moderateMomentumScore:
		return shared.Moderate
	default:
		return shared.Weak
	}
}

// riskLevel rates the cycle risk from gamma exposure, the volatility regime
// and momentum.
func riskLevel(chain *optionchain.Analysis, volatility shared.VolatilityLevel,
	momentum shared.Strength) shared.RiskLevel {
	switch {
	case chain.GammaExposure == shared.HighExposure || chain.IVRegime == shared.ExpandingIV:
		return shared.HighRisk
	case volatility == shared.LowVolatility && momentum == shared.Weak:
		return shared.LowRisk
	default:
		return shared.MediumRisk
	}
}

// suggestStrategy picks the suggested trading approach. The rules run in a
// fixed order: the scalping check precedes the avoid-trade check so a strong
// momentum one-minute read is only overridden when risk actually is high.
func suggestStrategy(timeframe shared.Timeframe, momentum shared.Strength,
	risk shared.RiskLevel, bias shared.Bias) shared.Strategy {
	switch {
	case timeframe == shared.OneMinute && momentum == shared.Strong:
		return shared.Scalping
	case risk == shared.HighRisk || bias == shared.NeutralBias:
		return shared.AvoidTrade
	default:
		return shared.Intraday
	}
}

// greeksInsight summarizes the option chain exposure reads.
func greeksInsight(chain *optionchain.Analysis) string {
	var sb strings.Builder

	if chain.GammaExposure == shared.HighExposure {
		sb.WriteString("High gamma exposure near ATM, fast moves expected. ")
	}
	switch chain.DeltaBuildup {
	case optionchain.CallBuildup:
		sb.WriteString("Delta: Positive call buildup. ")
	case optionchain.PutBuildup:
		sb.WriteString("Delta: Put buildup indicating hedging. ")
	}
	if chain.ThetaDecay == shared.HighExposure {
		sb.WriteString("Theta: Favoring option sellers. ")
	}

	if sb.Len() == 0 {
		return "Greeks analysis neutral."
	}

	return strings.TrimSpace(sb.String())
}

// inference derives the cycle's plain language read, preferring continuation
// reads, then breakouts, then structural cautions.
func inference(bias shared.Bias, vwap *priceaction.VWAPAnalysis,
	breakout *priceaction.BreakoutAnalysis, structure *priceaction.MarketStructure) string {
	switch {
	case bias == shared.BullishBias && vwap.Position == priceaction.AboveVWAP:
		return "Market shows higher probability of upside continuation if price sustains above VWAP."
	case bias == shared.BearishBias && vwap.Position == priceaction.BelowVWAP:
		return "Market shows higher probability of downside continuation if price remains below VWAP."
	case breakout.IsBreakout:
		direction := "Upward"
		if breakout.Direction == priceaction.BreakoutDown {
			direction = "Downward"
		}
		return fmt.Sprintf("%s breakout detected with %s strength. Monitor for continuation.",
			direction, breakout.Strength.String())
	case structure.Structure == priceaction.MixedStructure:
		return "Mixed market structure suggests range-bound movement. Wait for clear directional bias."
	default:
		return "Market structure is neutral. Monitor key levels for directional confirmation."
	}
}

// buildFeatureSummary assembles the structured feature vector handed to the
// narrative classifier.
func buildFeatureSummary(input *Input, latest *indicator.Frame,
	structure *priceaction.MarketStructure, vwap *priceaction.VWAPAnalysis,
	breakout *priceaction.BreakoutAnalysis, chain *optionchain.Analysis,
	detection *pattern.Detection, bias shared.Bias, momentum shared.Strength,
	volatility shared.VolatilityLevel) *shared.FeatureSummary {
	trendType := "range_bound"
	if structure.Trending() {
		trendType = "trending"
	}

	summary := &shared.FeatureSummary{
		Timeframe: input.Timeframe,
		PriceAction: shared.PriceActionFeatures{
			Structure:    structure.Structure.String(),
			VWAPPosition: vwap.Position.String(),
			Breakout:     breakout.Describe(),
		},
		Indicators: shared.IndicatorFeatures{
			EMA9:            latest.EMA9,
			EMA21:           latest.EMA21,
			EMA50:           latest.EMA50,
			RSI:             latest.RSI.Value,
			MACDHistogram:   latest.MACD.Histogram,
			BollingerUpper:  latest.Bollinger.Upper,
			BollingerMiddle: latest.Bollinger.Middle,
			BollingerLower:  latest.Bollinger.Lower,
			SupertrendValue: latest.Supertrend.Value,
			SupertrendTrend: latest.Supertrend.Trend.String(),
		},
		OptionChain: shared.OptionChainFeatures{
			DeltaBuildup:  chain.DeltaBuildup.String(),
			GammaExposure: chain.GammaExposure.String(),
			ThetaDecay:    chain.ThetaDecay.String(),
			IVRegime:      chain.IVRegime.String(),
			PCR:           chain.PCR,
		},
		Sentiment: shared.SentimentFeatures{
			Bias:       bias.String(),
			Momentum:   momentum.String(),
			Volatility: volatility.String(),
			TrendType:  trendType,
		},
		CurrentPrice: input.SpotPrice,
	}
	if detection != nil {
		summary.Candlestick = detection.Description
	}

	return summary
}

// fallbackReasoning derives a deterministic reasoning string from the
// dominant sentiment voters when the narrative classifier is unavailable.
func fallbackReasoning(bias shared.Bias, votes voteTally) string {
	dominant := votes.bullish
	if bias == shared.BearishBias {
		dominant = votes.bearish
	}

	switch {
	case bias == shared.NeutralBias || len(dominant) == 0:
		return fmt.Sprintf("Narrative analysis unavailable. Signals are split %d bullish to %d bearish, suggesting a neutral bias.",
			len(votes.bullish), len(votes.bearish))
	default:
		return fmt.Sprintf("Narrative analysis unavailable. Rule-based read is %s on %d of 5 signals: %s.",
			bias.String(), len(dominant), strings.Join(dominant, ", "))
	}
}
