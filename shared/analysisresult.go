package shared

import "time"

// AnalysisResult is the terminal artifact of one analysis cycle for one
// timeframe. Results are immutable once published; a new cycle produces a
// new result.
type AnalysisResult struct {
	ID                 string
	Timeframe          Timeframe
	Bias               Bias
	Confidence         Strength
	MomentumStrength   Strength
	Volatility         IVRegime
	RiskLevel          RiskLevel
	SuggestedStrategy  Strategy
	WriterPressure     WriterPressure
	PriceRange         PriceRange
	GreeksInsight      string
	CandlestickInsight string
	Inference          string
	Reasoning          string
	Fallback           bool
	CreatedOn          time.Time
}
