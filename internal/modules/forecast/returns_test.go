package forecast

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogReturns(t *testing.T) {
	prices := []float64{100, 110, 99, 120.5}

	returns, err := LogReturns(prices)
	require.NoError(t, err)
	require.Len(t, returns, len(prices)-1)

	assert.InDelta(t, math.Log(110.0/100.0), returns[0], 1e-12)
	assert.InDelta(t, math.Log(99.0/110.0), returns[1], 1e-12)
	assert.InDelta(t, math.Log(120.5/99.0), returns[2], 1e-12)
}

func TestLogReturns_RoundTrip(t *testing.T) {
	// exp(cumulative sum of log returns) · price[0] must reconstruct the
	// original series.
	prices := []float64{73.4, 75.1, 74.9, 80.0, 79.95, 81.3}

	returns, err := LogReturns(prices)
	require.NoError(t, err)

	cumulative := 0.0
	for i, r := range returns {
		cumulative += r
		reconstructed := prices[0] * math.Exp(cumulative)
		assert.InDelta(t, prices[i+1], reconstructed, 1e-9)
	}
}

func TestLogReturns_InvalidInput(t *testing.T) {
	tests := []struct {
		name   string
		prices []float64
	}{
		{"empty", nil},
		{"single price", []float64{100}},
		{"zero price", []float64{100, 0, 110}},
		{"negative price", []float64{100, -5, 110}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LogReturns(tt.prices)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestEstimateStatistics(t *testing.T) {
	returns := []float64{0.01, -0.02, 0.03, 0.00}

	stats, err := EstimateStatistics(returns)
	require.NoError(t, err)

	assert.InDelta(t, 0.005, stats.Drift, 1e-12)
	// Sample standard deviation with n-1 normalization.
	assert.InDelta(t, 0.0208166599946613, stats.Volatility, 1e-12)
}

func TestEstimateStatistics_ConstantSeries(t *testing.T) {
	// A constant-price series yields all-zero log returns, so volatility
	// must be exactly zero.
	prices := []float64{50, 50, 50, 50}
	returns, err := LogReturns(prices)
	require.NoError(t, err)

	stats, err := EstimateStatistics(returns)
	require.NoError(t, err)
	assert.Zero(t, stats.Drift)
	assert.Zero(t, stats.Volatility)
}

func TestEstimateStatistics_SingleReturn(t *testing.T) {
	stats, err := EstimateStatistics([]float64{0.015})
	require.NoError(t, err)
	assert.InDelta(t, 0.015, stats.Drift, 1e-12)
	assert.Zero(t, stats.Volatility)
}

func TestEstimateStatistics_Empty(t *testing.T) {
	_, err := EstimateStatistics(nil)
	assert.ErrorIs(t, err, ErrInvalidInput)
}
