package shared

import (
	"errors"
	"sync"

	"go.uber.org/atomic"
)

const (
	// SnapshotSize is the default number of entries for a candlestick snapshot,
	// sized to comfortably cover the analysis lookback windows.
	SnapshotSize = 120
)

// CandlestickSnapshot represents a rolling window of candlestick data.
type CandlestickSnapshot struct {
	data    []*Candlestick
	dataMtx sync.RWMutex
	start   atomic.Int32
	count   atomic.Int32
	size    atomic.Int32
}

// NewCandlestickSnapshot initializes a new candlestick snapshot.
func NewCandlestickSnapshot(size int32) (*CandlestickSnapshot, error) {
	if size <= 0 {
		return nil, errors.New("snapshot size must be positive")
	}

	snapshot := &CandlestickSnapshot{
		data: make([]*Candlestick, size),
	}

	snapshot.size.Store(size)
	return snapshot, nil
}

// Update adds the provided candlestick to the snapshot.
func (s *CandlestickSnapshot) Update(candle *Candlestick) {
	s.dataMtx.Lock()
	defer s.dataMtx.Unlock()

	start := s.start.Load()
	count := s.count.Load()
	size := s.size.Load()
	end := (start + count) % size
	s.data[end] = candle

	if count == size {
		// Overwrite the oldest entry when the snapshot is at capacity.
		s.start.Store((start + 1) % size)
	} else {
		s.count.Add(1)
	}
}

// Last returns the last added entry for the snapshot.
func (s *CandlestickSnapshot) Last() *Candlestick {
	s.dataMtx.RLock()
	defer s.dataMtx.RUnlock()

	start := s.start.Load()
	count := s.count.Load()
	size := s.size.Load()
	if count == 0 {
		return nil
	}

	end := (start + count - 1) % size
	return s.data[end]
}

// Count returns the number of entries currently held by the snapshot.
func (s *CandlestickSnapshot) Count() int32 {
	return s.count.Load()
}

// LastN fetches the last n number of elements from the snapshot, oldest first.
func (s *CandlestickSnapshot) LastN(n int32) []*Candlestick {
	s.dataMtx.RLock()
	defer s.dataMtx.RUnlock()

	if n <= 0 {
		return nil
	}

	start := s.start.Load()
	count := s.count.Load()
	size := s.size.Load()

	// Clamp the number of elements expected if it is greater than the snapshot count.
	if n > count {
		n = count
	}

	set := make([]*Candlestick, n)
	start = (start + count - n + size) % size

	for i := range n {
		idx := (start + i) % size
		set[i] = s.data[idx]
	}

	return set
}

// Closes returns the close prices of the last n elements, oldest first.
func (s *CandlestickSnapshot) Closes(n int32) []float64 {
	candles := s.LastN(n)
	closes := make([]float64, len(candles))
	for idx := range candles {
		closes[idx] = candles[idx].Close
	}

	return closes
}
