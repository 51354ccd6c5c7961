package indicator

import (
	"testing"

	"github.com/peterldowns/testy/assert"
)

func TestEMA(t *testing.T) {
	// Ensure an empty series yields an empty result.
	assert.Equal(t, EMA([]float64{}, 3), []float64{})

	// Ensure a series shorter than the period repeats the first value.
	short := EMA([]float64{5, 9}, 3)
	assert.Equal(t, short, []float64{5, 5})

	// Ensure the seed is the simple mean of the first period values, the
	// warm-up range is backfilled with the seed, and subsequent values use
	// the standard multiplier.
	ema := EMA([]float64{1, 2, 3, 4, 5}, 3)
	assert.Equal(t, ema, []float64{2, 2, 2, 3, 4})

	// Ensure the result always matches the input length.
	series := make([]float64, 37)
	for idx := range series {
		series[idx] = float64(idx * idx % 11)
	}
	assert.Equal(t, len(EMA(series, 9)), len(series))
}
