package fetch

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/fnolab/pulse/shared"
	"github.com/rs/zerolog"
)

const (
	// chainStaleAfter is the age past which a cached option chain snapshot
	// is reported as stale.
	chainStaleAfter = time.Minute * 3
)

// ChainFetcher retrieves market data for an index symbol.
type ChainFetcher interface {
	// FetchOptionChain fetches the normalized option chain for the symbol.
	FetchOptionChain(ctx context.Context, symbol string) (*shared.OptionChainSnapshot, error)
	// FetchIntradayTicks fetches the intraday price observations for the symbol.
	FetchIntradayTicks(ctx context.Context, symbol string) ([]Tick, error)
}

// ManagerConfig represents the configuration for the market data manager.
type ManagerConfig struct {
	// Fetcher represents the market data fetcher.
	Fetcher ChainFetcher
	// Symbol is the index symbol being tracked.
	Symbol string
	// Logger represents the application logger.
	Logger *zerolog.Logger
}

// Manager represents the market data manager. It maintains rolling candle
// snapshots per timeframe and the latest option chain capture, degrading to
// stale data when fetches fail rather than fabricating fresh values.
type Manager struct {
	cfg *ManagerConfig

	candlesMtx sync.RWMutex
	candles    map[shared.Timeframe]*shared.CandlestickSnapshot

	chainMtx sync.RWMutex
	chain    *shared.OptionChainSnapshot
}

// NewManager initializes the market data manager.
func NewManager(cfg *ManagerConfig) (*Manager, error) {
	if cfg.Fetcher == nil {
		return nil, fmt.Errorf("fetcher cannot be nil")
	}
	if cfg.Symbol == "" {
		return nil, fmt.Errorf("symbol cannot be an empty string")
	}

	candles := make(map[shared.Timeframe]*shared.CandlestickSnapshot)
	for _, timeframe := range []shared.Timeframe{shared.OneMinute, shared.FiveMinute, shared.FifteenMinute} {
		snapshot, err := shared.NewCandlestickSnapshot(shared.SnapshotSize)
		if err != nil {
			return nil, fmt.Errorf("creating candlestick snapshot: %w", err)
		}
		candles[timeframe] = snapshot
	}

	return &Manager{
		cfg:     cfg,
		candles: candles,
	}, nil
}

// RefreshOptionChain fetches a fresh option chain capture. A failed fetch
// leaves the previous capture in place.
func (m *Manager) RefreshOptionChain(ctx context.Context) error {
	snapshot, err := m.cfg.Fetcher.FetchOptionChain(ctx, m.cfg.Symbol)
	if err != nil {
		return fmt.Errorf("refreshing option chain for %s: %w", m.cfg.Symbol, err)
	}

	m.chainMtx.Lock()
	m.chain = snapshot
	m.chainMtx.Unlock()

	return nil
}

// ChainSnapshot returns the latest option chain capture and its availability.
func (m *Manager) ChainSnapshot() (*shared.OptionChainSnapshot, shared.Availability) {
	m.chainMtx.RLock()
	defer m.chainMtx.RUnlock()

	switch {
	case m.chain == nil:
		return nil, shared.Unavailable
	case time.Since(m.chain.CapturedAt) > chainStaleAfter:
		return m.chain, shared.StaleCache
	default:
		return m.chain, shared.Live
	}
}

// RefreshCandles fetches the intraday ticks and rebuilds the candle snapshot
// for the provided timeframe.
func (m *Manager) RefreshCandles(ctx context.Context, timeframe shared.Timeframe) error {
	ticks, err := m.cfg.Fetcher.FetchIntradayTicks(ctx, m.cfg.Symbol)
	if err != nil {
		return fmt.Errorf("refreshing candles (%s) for %s: %w", timeframe.String(), m.cfg.Symbol, err)
	}

	candles := BuildCandles(ticks, m.cfg.Symbol, timeframe)
	if len(candles) == 0 {
		return fmt.Errorf("no candles built from intraday ticks for %s", m.cfg.Symbol)
	}

	snapshot, err := shared.NewCandlestickSnapshot(shared.SnapshotSize)
	if err != nil {
		return fmt.Errorf("creating candlestick snapshot: %w", err)
	}
	for idx := range candles {
		snapshot.Update(&candles[idx])
	}

	m.candlesMtx.Lock()
	m.candles[timeframe] = snapshot
	m.candlesMtx.Unlock()

	return nil
}

// UpdateCandle appends the provided candle to the snapshot for its timeframe.
func (m *Manager) UpdateCandle(candle *shared.Candlestick) {
	m.candlesMtx.RLock()
	snapshot, ok := m.candles[candle.Timeframe]
	m.candlesMtx.RUnlock()
	if !ok {
		m.cfg.Logger.Error().Msgf("no candle snapshot for timeframe %s", candle.Timeframe.String())
		return
	}

	snapshot.Update(candle)
}

// CandleSnapshot returns the candle snapshot for the provided timeframe.
func (m *Manager) CandleSnapshot(timeframe shared.Timeframe) *shared.CandlestickSnapshot {
	m.candlesMtx.RLock()
	defer m.candlesMtx.RUnlock()

	return m.candles[timeframe]
}

// SpotPrice returns the most recent spot price known to the manager, favouring
// the option chain's underlying value over the latest one minute close.
func (m *Manager) SpotPrice() float64 {
	m.chainMtx.RLock()
	chain := m.chain
	m.chainMtx.RUnlock()

	if chain != nil && chain.SpotPrice > 0 {
		return chain.SpotPrice
	}

	m.candlesMtx.RLock()
	snapshot := m.candles[shared.OneMinute]
	m.candlesMtx.RUnlock()

	if last := snapshot.Last(); last != nil {
		return last.Close
	}

	return 0
}
