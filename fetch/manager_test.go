package fetch

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/fnolab/pulse/shared"
	"github.com/peterldowns/testy/assert"
	"github.com/rs/zerolog"
)

// fakeFetcher serves canned chain and tick data for manager tests.
type fakeFetcher struct {
	chain    *shared.OptionChainSnapshot
	chainErr error
	ticks    []Tick
	ticksErr error
}

func (f *fakeFetcher) FetchOptionChain(_ context.Context, _ string) (*shared.OptionChainSnapshot, error) {
	return f.chain, f.chainErr
}

func (f *fakeFetcher) FetchIntradayTicks(_ context.Context, _ string) ([]Tick, error) {
	return f.ticks, f.ticksErr
}

func newTestManager(t *testing.T, fetcher ChainFetcher) *Manager {
	t.Helper()

	logger := zerolog.Nop()
	mgr, err := NewManager(&ManagerConfig{
		Fetcher: fetcher,
		Symbol:  "NIFTY",
		Logger:  &logger,
	})
	assert.NoError(t, err)

	return mgr
}

func TestManagerValidation(t *testing.T) {
	logger := zerolog.Nop()

	_, err := NewManager(&ManagerConfig{Symbol: "NIFTY", Logger: &logger})
	assert.Error(t, err)

	_, err = NewManager(&ManagerConfig{Fetcher: &fakeFetcher{}, Logger: &logger})
	assert.Error(t, err)
}

func TestManagerChainAvailability(t *testing.T) {
	fetcher := &fakeFetcher{
		chain: &shared.OptionChainSnapshot{
			Symbol:     "NIFTY",
			SpotPrice:  22010,
			Quotes:     []shared.OptionQuote{{Strike: 22000}},
			CapturedAt: time.Now(),
		},
	}
	mgr := newTestManager(t, fetcher)

	// Ensure a manager with no capture reports unavailable.
	chain, availability := mgr.ChainSnapshot()
	assert.Equal(t, availability, shared.Unavailable)
	assert.True(t, chain.Empty())

	// Ensure a fresh capture reports live.
	assert.NoError(t, mgr.RefreshOptionChain(context.Background()))
	chain, availability = mgr.ChainSnapshot()
	assert.Equal(t, availability, shared.Live)
	assert.False(t, chain.Empty())
	assert.Equal(t, mgr.SpotPrice(), float64(22010))

	// Ensure a failed refresh keeps the previous capture.
	fetcher.chainErr = fmt.Errorf("upstream unavailable")
	assert.Error(t, mgr.RefreshOptionChain(context.Background()))
	chain, _ = mgr.ChainSnapshot()
	assert.False(t, chain.Empty())

	// Ensure an aged capture degrades to stale rather than vanishing.
	mgr.chainMtx.Lock()
	mgr.chain.CapturedAt = time.Now().Add(-time.Minute * 10)
	mgr.chainMtx.Unlock()
	chain, availability = mgr.ChainSnapshot()
	assert.Equal(t, availability, shared.StaleCache)
	assert.False(t, chain.Empty())
}

func TestManagerCandles(t *testing.T) {
	start := time.Date(2025, 10, 30, 9, 15, 0, 0, time.UTC)
	fetcher := &fakeFetcher{
		ticks: []Tick{
			{At: start, Price: 100},
			{At: start.Add(time.Minute), Price: 102},
			{At: start.Add(time.Minute * 2), Price: 101},
		},
	}
	mgr := newTestManager(t, fetcher)

	// Ensure a refresh rebuilds the snapshot for the timeframe.
	assert.NoError(t, mgr.RefreshCandles(context.Background(), shared.OneMinute))
	snapshot := mgr.CandleSnapshot(shared.OneMinute)
	assert.Equal(t, snapshot.Count(), int32(3))
	assert.Equal(t, snapshot.Last().Close, float64(101))

	// Ensure a failed refresh surfaces an error and leaves the snapshot.
	fetcher.ticksErr = fmt.Errorf("upstream unavailable")
	assert.Error(t, mgr.RefreshCandles(context.Background(), shared.OneMinute))
	assert.Equal(t, mgr.CandleSnapshot(shared.OneMinute).Count(), int32(3))

	// Ensure direct candle updates land on the right timeframe.
	mgr.UpdateCandle(&shared.Candlestick{Close: 105, Timeframe: shared.FiveMinute})
	assert.Equal(t, mgr.CandleSnapshot(shared.FiveMinute).Count(), int32(1))

	// Without a chain capture the spot price falls back to the latest close.
	assert.Equal(t, mgr.SpotPrice(), float64(101))
}
