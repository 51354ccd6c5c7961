// Package greeks estimates option price sensitivities with the
// Black-Scholes model.
package greeks

import (
	"math"
	"time"
)

const (
	// DefaultRiskFreeRate is the annualized risk free rate assumed when the
	// caller does not supply one.
	DefaultRiskFreeRate = 0.065
	// daysPerYear converts calendar days to year fractions.
	daysPerYear = 365
)

// OptionType represents the side of an option contract.
type OptionType int

const (
	Call OptionType = iota
	Put
)

// String stringifies the provided option type.
func (o OptionType) String() string {
	switch o {
	case Put:
		return "put"
	default:
		return "call"
	}
}

// Greeks represents the price sensitivities of a single option. Theta is
// reported per calendar day; vega and rho per one percentage point of
// implied volatility and rate respectively.
type Greeks struct {
	Delta float64
	Gamma float64
	Theta float64
	Vega  float64
	Rho   float64
}

// Input holds the pricing inputs for a greeks computation. Volatility is a
// decimal (0.20 for 20%) and the risk free rate an annualized decimal.
type Input struct {
	SpotPrice    float64
	StrikePrice  float64
	DaysToExpiry float64
	RiskFreeRate float64
	Volatility   float64
	OptionType   OptionType
}

// Compute estimates the Black-Scholes greeks for the provided inputs.
// Non-positive spot, strike, volatility or time is not an error: the
// degenerate guard returns a safe default with an at-the-money delta sign
// instead of propagating division-by-zero artifacts.
func Compute(input Input) Greeks {
	if input.DaysToExpiry <= 0 || input.Volatility <= 0 ||
		input.SpotPrice <= 0 || input.StrikePrice <= 0 {
		delta := 0.5
		if input.OptionType == Put {
			delta = -0.5
		}
		return Greeks{Delta: delta}
	}

	S := input.SpotPrice
	K := input.StrikePrice
	T := input.DaysToExpiry / daysPerYear
	r := input.RiskFreeRate
	sigma := input.Volatility

	sqrtT := math.Sqrt(T)
	d1 := (math.Log(S/K) + (r+0.5*sigma*sigma)*T) / (sigma * sqrtT)
	d2 := d1 - sigma*sqrtT

	nd1 := normPDF(d1)

	var delta, theta, rho float64
	switch input.OptionType {
	case Call:
		delta = normCDF(d1)
		theta = (-(S*nd1*sigma)/(2*sqrtT) - r*K*math.Exp(-r*T)*normCDF(d2)) / daysPerYear
		rho = K * T * math.Exp(-r*T) * normCDF(d2) / 100
	case Put:
		delta = normCDF(d1) - 1
		theta = (-(S*nd1*sigma)/(2*sqrtT) + r*K*math.Exp(-r*T)*normCDF(-d2)) / daysPerYear
		rho = -K * T * math.Exp(-r*T) * normCDF(-d2) / 100
	}

	// Gamma and vega are option type invariant.
	gamma := nd1 / (S * sigma * sqrtT)
	vega := S * nd1 * sqrtT / 100

	return Greeks{
		Delta: math.Max(-1, math.Min(1, delta)),
		Gamma: math.Max(0, gamma),
		Theta: theta,
		Vega:  math.Max(0, vega),
		Rho:   rho,
	}
}

// ComputeOptionGreeks estimates greeks for an option chain row. The implied
// volatility is a percentage (15 for 15%).
func ComputeOptionGreeks(spotPrice, strikePrice float64, expiry time.Time, ivPercent float64,
	optionType OptionType, riskFreeRate float64) Greeks {
	return Compute(Input{
		SpotPrice:    spotPrice,
		StrikePrice:  strikePrice,
		DaysToExpiry: float64(DaysToExpiry(expiry, time.Now())),
		RiskFreeRate: riskFreeRate,
		Volatility:   ivPercent / 100,
		OptionType:   optionType,
	})
}

// DaysToExpiry returns the number of calendar days from now until expiry,
// rounded up and floored at zero.
func DaysToExpiry(expiry, now time.Time) int {
	days := int(math.Ceil(expiry.Sub(now).Hours() / 24))
	if days < 0 {
		days = 0
	}

	return days
}

// normCDF approximates the standard normal cumulative distribution function
// using the Abramowitz-Stegun rational approximation (maximum error of
// roughly 1.5e-7).
func normCDF(x float64) float64 {
	const (
		a1 = 0.254829592
		a2 = -0.284496736
		a3 = 1.421413741
		a4 = -1.453152027
		a5 = 1.061405429
		p  = 0.3275911
	)

	sign := 1.0
	if x < 0 {
		sign = -1.0
	}
	x = math.Abs(x) / math.Sqrt2

	t := 1 / (1 + p*x)
	y := 1 - (((((a5*t+a4)*t)+a3)*t+a2)*t+a1)*t*math.Exp(-x*x)

	return 0.5 * (1 + sign*y)
}

// normPDF is the standard normal probability density function.
func normPDF(x float64) float64 {
	return math.Exp(-0.5*x*x) / math.Sqrt(2*math.Pi)
}
