package shared

// PriceActionFeatures summarizes the price action reads for a timeframe.
type PriceActionFeatures struct {
	Structure    string
	VWAPPosition string
	Breakout     string
}

// IndicatorFeatures summarizes the latest indicator values for a timeframe.
type IndicatorFeatures struct {
	EMA9            float64
	EMA21           float64
	EMA50           float64
	RSI             float64
	MACDHistogram   float64
	BollingerUpper  float64
	BollingerMiddle float64
	BollingerLower  float64
	SupertrendValue float64
	SupertrendTrend string
}

// OptionChainFeatures summarizes the option chain analytics for a timeframe.
type OptionChainFeatures struct {
	DeltaBuildup  string
	GammaExposure string
	ThetaDecay    string
	IVRegime      string
	PCR           float64
}

// SentimentFeatures summarizes the fused sentiment reads for a timeframe.
type SentimentFeatures struct {
	Bias       string
	Momentum   string
	Volatility string
	TrendType  string
}

// FeatureSummary is the structured feature vector assembled by the analysis
// engine and handed to the external narrative classifier.
type FeatureSummary struct {
	Timeframe    Timeframe
	PriceAction  PriceActionFeatures
	Indicators   IndicatorFeatures
	OptionChain  OptionChainFeatures
	Sentiment    SentimentFeatures
	Candlestick  string
	CurrentPrice float64
}

// PriceRange represents probable price bounds as percentages from the
// current price.
type PriceRange struct {
	Upper float64
	Lower float64
}

// NarrativeInsight is the payload returned by the external narrative
// classifier for a feature summary.
type NarrativeInsight struct {
	Bias       Bias
	Confidence Strength
	PriceRange PriceRange
	Reasoning  string
}
