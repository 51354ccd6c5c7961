// Package narrative provides the external narrative classifier client. The
// classifier is an OpenAI compatible chat completion endpoint (Groq) that
// turns a structured feature summary into a natural language bias,
// confidence, price range and reasoning payload.
package narrative

import (
	"context"
	"errors"
	"fmt"

	"github.com/fnolab/pulse/shared"
	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"
	"github.com/tidwall/gjson"
)

const (
	// DefaultBaseURL is the Groq OpenAI compatible endpoint.
	DefaultBaseURL = "https://api.groq.com/openai/v1"
	// DefaultModel is the default classification model.
	DefaultModel = "llama3-8b-8192"
	// completionTemperature and maxCompletionTokens bound the generation.
	completionTemperature = 0.7
	maxCompletionTokens   = 1000
)

// systemPrompt instructs the model to produce probabilistic, never certain,
// market commentary.
const systemPrompt = `You are an expert trading analyst specializing in Indian F&O markets.
Your role is to analyze market data and provide PROBABILISTIC insights, NOT guarantees.
Always use language like "higher probability", "likely range", "if momentum sustains".
NEVER use words like "guaranteed", "sure shot", "100% certain", or "definitely".

Analyze the provided market data and give:
1. Market bias (Bullish/Bearish/Neutral)
2. Confidence strength (Low/Medium/High)
3. Probable next price range (upper and lower bounds)
4. Reasoning based on all provided indicators`

// GroqConfig represents the configuration for the Groq classifier.
type GroqConfig struct {
	// APIKey is the Groq API key.
	APIKey string
	// BaseURL overrides the Groq endpoint, primarily for tests.
	BaseURL string
	// Model is the classification model.
	Model string
	// Logger represents the application logger.
	Logger *zerolog.Logger
}

// Validate asserts the config has sane inputs.
func (cfg *GroqConfig) Validate() error {
	var errs error

	if cfg.APIKey == "" {
		errs = errors.Join(errs, fmt.Errorf("groq api key cannot be an empty string"))
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}

	return errs
}

// GroqClassifier classifies feature summaries through the Groq chat
// completion API.
type GroqClassifier struct {
	cfg    *GroqConfig
	client *openai.Client
}

// NewGroqClassifier initializes a new Groq classifier.
func NewGroqClassifier(cfg *GroqConfig) (*GroqClassifier, error) {
	err := cfg.Validate()
	if err != nil {
		return nil, fmt.Errorf("validating groq config: %w", err)
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	clientCfg.BaseURL = cfg.BaseURL

	return &GroqClassifier{
		cfg:    cfg,
		client: openai.NewClientWithConfig(clientCfg),
	}, nil
}

// Classify returns a narrative insight for the provided feature summary.
// The call honours context cancellation so superseded analysis cycles can
// be discarded without blocking.
func (c *GroqClassifier) Classify(ctx context.Context, summary *shared.FeatureSummary) (*shared.NarrativeInsight, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.cfg.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: BuildUserPrompt(summary)},
		},
		Temperature:    completionTemperature,
		MaxTokens:      maxCompletionTokens,
		ResponseFormat: &openai.ChatCompletionResponseFormat{Type: openai.ChatCompletionResponseFormatTypeJSONObject},
	})
	if err != nil {
		return nil, fmt.Errorf("requesting chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no choices in chat completion response")
	}

	insight, err := ParseInsight(resp.Choices[0].Message.Content)
	if err != nil {
		return nil, fmt.Errorf("parsing narrative insight: %w", err)
	}

	if c.cfg.Logger != nil {
		c.cfg.Logger.Debug().Msgf("classified %s summary as %s (%s confidence)",
			summary.Timeframe.String(), insight.Bias.String(), insight.Confidence.String())
	}

	return insight, nil
}

// BuildUserPrompt renders the feature summary as the classification prompt.
func BuildUserPrompt(summary *shared.FeatureSummary) string {
	candlestick := ""
	if summary.Candlestick != "" {
		candlestick = fmt.Sprintf("CANDLESTICK PATTERN: %s\n\n", summary.Candlestick)
	}

	return fmt.Sprintf(`Analyze this %s timeframe market data:

CURRENT PRICE: %.2f

PRICE ACTION:
- Market Structure: %s
- VWAP Position: %s
- Breakout Status: %s

TECHNICAL INDICATORS:
- EMA 9: %.2f
- EMA 21: %.2f
- EMA 50: %.2f
- RSI: %.2f
- MACD: %.2f
- Bollinger Bands: Upper %.2f, Middle %.2f, Lower %.2f
- Supertrend: %.2f (%s)

OPTION CHAIN & GREEKS:
- Delta Buildup: %s
- Gamma Exposure: %s
- Theta Decay: %s
- IV Regime: %s
- Put/Call Ratio: %.2f

MARKET SENTIMENT:
- Bias: %s
- Momentum: %s
- Volatility: %s
- Trend Type: %s

%sBased on ALL this data, provide:
1. Market Bias (Bullish/Bearish/Neutral)
2. Confidence Strength (Low/Medium/High)
3. Probable Next Price Range (upper and lower bounds as percentages from current price)
4. Detailed reasoning explaining how each factor contributes to your analysis

Format your response as JSON:
{
  "bias": "bullish|bearish|neutral",
  "confidence": "low|medium|high",
  "priceRange": {
    "upper": <percentage above current>,
    "lower": <percentage below current>
  },
  "reasoning": "<detailed explanation>"
}`,
		summary.Timeframe.String(),
		summary.CurrentPrice,
		summary.PriceAction.Structure,
		summary.PriceAction.VWAPPosition,
		summary.PriceAction.Breakout,
		summary.Indicators.EMA9,
		summary.Indicators.EMA21,
		summary.Indicators.EMA50,
		summary.Indicators.RSI,
		summary.Indicators.MACDHistogram,
		summary.Indicators.BollingerUpper,
		summary.Indicators.BollingerMiddle,
		summary.Indicators.BollingerLower,
		summary.Indicators.SupertrendValue,
		summary.Indicators.SupertrendTrend,
		summary.OptionChain.DeltaBuildup,
		summary.OptionChain.GammaExposure,
		summary.OptionChain.ThetaDecay,
		summary.OptionChain.IVRegime,
		summary.OptionChain.PCR,
		summary.Sentiment.Bias,
		summary.Sentiment.Momentum,
		summary.Sentiment.Volatility,
		summary.Sentiment.TrendType,
		candlestick)
}

// ParseInsight parses the classifier's JSON payload. A payload missing the
// bias or reasoning fields is malformed.
func ParseInsight(content string) (*shared.NarrativeInsight, error) {
	if !gjson.Valid(content) {
		return nil, fmt.Errorf("classifier payload is not valid json")
	}

	parsed := gjson.Parse(content)
	biasField := parsed.Get("bias")
	reasoning := parsed.Get("reasoning")
	if !biasField.Exists() || !reasoning.Exists() {
		return nil, fmt.Errorf("classifier payload missing bias or reasoning")
	}

	insight := &shared.NarrativeInsight{
		Reasoning: reasoning.String(),
		PriceRange: shared.PriceRange{
			Upper: 0.5,
			Lower: -0.5,
		},
	}

	switch biasField.String() {
	case "bullish":
		insight.Bias = shared.BullishBias
	case "bearish":
		insight.Bias = shared.BearishBias
	case "neutral":
		insight.Bias = shared.NeutralBias
	default:
		return nil, fmt.Errorf("unknown classifier bias: %s", biasField.String())
	}

	switch parsed.Get("confidence").String() {
	case "high":
		insight.Confidence = shared.Strong
	case "medium":
		insight.Confidence = shared.Moderate
	default:
		insight.Confidence = shared.Weak
	}

	if upper := parsed.Get("priceRange.upper"); upper.Exists() {
		insight.PriceRange.Upper = upper.Float()
	}
	if lower := parsed.Get("priceRange.lower"); lower.Exists() {
		insight.PriceRange.Lower = lower.Float()
	}

	return insight, nil
}
