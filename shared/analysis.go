package shared

// Bias represents the directional market bias.
type Bias int

const (
	NeutralBias Bias = iota
	BullishBias
	BearishBias
)

// String stringifies the provided bias.
func (b Bias) String() string {
	switch b {
	case BullishBias:
		return "bullish"
	case BearishBias:
		return "bearish"
	default:
		return "neutral"
	}
}

// Strength represents a three tier strength rating.
type Strength int

const (
	Weak Strength = iota
	Moderate
	Strong
)

// String stringifies the provided strength.
func (s Strength) String() string {
	switch s {
	case Strong:
		return "strong"
	case Moderate:
		return "moderate"
	default:
		return "weak"
	}
}

// RiskLevel represents the risk rating of an analysis cycle.
type RiskLevel int

const (
	MediumRisk RiskLevel = iota
	LowRisk
	HighRisk
)

// String stringifies the provided risk level.
func (r RiskLevel) String() string {
	switch r {
	case LowRisk:
		return "low"
	case HighRisk:
		return "high"
	default:
		return "medium"
	}
}

// Strategy represents the suggested trading approach for an analysis cycle.
type Strategy int

const (
	Intraday Strategy = iota
	Scalping
	AvoidTrade
)

// String stringifies the provided strategy.
func (s Strategy) String() string {
	switch s {
	case Scalping:
		return "scalping"
	case AvoidTrade:
		return "avoid_trade"
	default:
		return "intraday"
	}
}

// VolatilityLevel represents the prevailing volatility regime.
type VolatilityLevel int

const (
	ModerateVolatility VolatilityLevel = iota
	LowVolatility
	HighVolatility
)

// String stringifies the provided volatility level.
func (v VolatilityLevel) String() string {
	switch v {
	case LowVolatility:
		return "low"
	case HighVolatility:
		return "high"
	default:
		return "moderate"
	}
}

// ExposureTier represents a tiered magnitude classification for aggregated
// option exposures.
type ExposureTier int

const (
	LowExposure ExposureTier = iota
	ModerateExposure
	HighExposure
)

// String stringifies the provided exposure tier.
func (e ExposureTier) String() string {
	switch e {
	case HighExposure:
		return "high"
	case ModerateExposure:
		return "moderate"
	default:
		return "low"
	}
}

// IVRegime represents the implied volatility regime of an option chain.
type IVRegime int

const (
	StableIV IVRegime = iota
	ExpandingIV
	ContractingIV
)

// String stringifies the provided iv regime.
func (r IVRegime) String() string {
	switch r {
	case ExpandingIV:
		return "expanding"
	case ContractingIV:
		return "contracting"
	default:
		return "stable"
	}
}

// VolatilityLevel reinterprets the iv regime as a volatility level for
// sentiment purposes.
func (r IVRegime) VolatilityLevel() VolatilityLevel {
	switch r {
	case ExpandingIV:
		return HighVolatility
	case ContractingIV:
		return LowVolatility
	default:
		return ModerateVolatility
	}
}

// WriterPressure represents which option writers are under pressure.
type WriterPressure int

const (
	BalancedPressure WriterPressure = iota
	CallWriterPressure
	PutWriterPressure
)

// String stringifies the provided writer pressure.
func (w WriterPressure) String() string {
	switch w {
	case CallWriterPressure:
		return "CE"
	case PutWriterPressure:
		return "PE"
	default:
		return "balanced"
	}
}

// Availability represents the data availability tri-state reported by the
// fetch layer for an analysis cycle.
type Availability int

const (
	Live Availability = iota
	StaleCache
	Unavailable
)

// String stringifies the provided availability.
func (a Availability) String() string {
	switch a {
	case Live:
		return "live"
	case StaleCache:
		return "stale-cache"
	default:
		return "unavailable"
	}
}
