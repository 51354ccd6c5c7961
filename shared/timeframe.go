package shared

import (
	"fmt"
	"time"
)

const (
	// DateLayout is the format layout for parsing dates.
	DateLayout = "2006-01-02 15:04:05"
	// KolkataLocation is the timezone name for the Indian market session.
	KolkataLocation = "Asia/Kolkata"
)

// Timeframe represents the market data time period.
type Timeframe int

const (
	OneMinute Timeframe = iota
	FiveMinute
	FifteenMinute
)

// String stringifies the provided timeframe.
func (t Timeframe) String() string {
	switch t {
	case OneMinute:
		return "1m"
	case FiveMinute:
		return "5m"
	case FifteenMinute:
		return "15m"
	default:
		return "unknown"
	}
}

// Duration returns the bar duration of the provided timeframe.
func (t Timeframe) Duration() time.Duration {
	switch t {
	case OneMinute:
		return time.Minute
	case FiveMinute:
		return time.Minute * 5
	case FifteenMinute:
		return time.Minute * 15
	default:
		return time.Minute
	}
}

// KolkataTime returns the current time in kolkata (IST).
func KolkataTime() (time.Time, *time.Location, error) {
	loc, err := time.LoadLocation(KolkataLocation)
	if err != nil {
		return time.Time{}, nil, fmt.Errorf("loading kolkata timezone: %w", err)
	}

	now := time.Now().In(loc)
	return now, loc, nil
}
