package shared

import (
	"math"
	"time"
)

// OptionSide represents the per-strike snapshot values for one side (call or put)
// of an option contract.
type OptionSide struct {
	OI       float64
	OIChange float64
	Volume   float64
	IV       float64
	LTP      float64
	Delta    float64
	Gamma    float64
	Theta    float64
	Vega     float64
}

// OptionQuote represents the per-strike snapshot of an option chain entry.
type OptionQuote struct {
	Strike float64
	Call   OptionSide
	Put    OptionSide
}

// OptionChainSnapshot represents a point-in-time capture of an option chain,
// ordered ascending by strike. Snapshots are value objects and are never
// mutated after capture.
type OptionChainSnapshot struct {
	Symbol     string
	SpotPrice  float64
	Expiry     time.Time
	Quotes     []OptionQuote
	CapturedAt time.Time
}

// Empty reports whether the snapshot holds no quotes.
func (s *OptionChainSnapshot) Empty() bool {
	return s == nil || len(s.Quotes) == 0
}

// ATMStrike returns the strike closest to the provided spot price.
func (s *OptionChainSnapshot) ATMStrike(spot float64) float64 {
	if s.Empty() {
		return spot
	}

	atm := s.Quotes[0].Strike
	for idx := range s.Quotes {
		if math.Abs(s.Quotes[idx].Strike-spot) < math.Abs(atm-spot) {
			atm = s.Quotes[idx].Strike
		}
	}

	return atm
}
