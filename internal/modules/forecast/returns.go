// Package forecast implements Monte Carlo price forecasting for individual
// stocks and weighted portfolios. Historical log returns drive a geometric
// random walk: drift and volatility are estimated from the return series,
// many independent price paths are simulated per stock, and per-stock paths
// are combined into a portfolio value distribution under fixed weights.
package forecast

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

// StockStatistics holds the estimated per-period log-return parameters for
// one stock.
type StockStatistics struct {
	Drift      float64 `json:"drift"`
	Volatility float64 `json:"volatility"`
}

// LogReturns converts a chronologically ordered price series into a series of
// log returns: element i is ln(prices[i+1] / prices[i]). The result has
// length len(prices) - 1.
//
// Returns ErrInvalidInput if fewer than two prices are given or any price is
// not strictly positive.
func LogReturns(prices []float64) ([]float64, error) {
	if len(prices) < 2 {
		return nil, fmt.Errorf("%w: need at least 2 prices, got %d", ErrInvalidInput, len(prices))
	}

	returns := make([]float64, len(prices)-1)
	for i := 0; i < len(prices)-1; i++ {
		if prices[i] <= 0 {
			return nil, fmt.Errorf("%w: non-positive price %v at index %d", ErrInvalidInput, prices[i], i)
		}
		if prices[i+1] <= 0 {
			return nil, fmt.Errorf("%w: non-positive price %v at index %d", ErrInvalidInput, prices[i+1], i+1)
		}
		returns[i] = math.Log(prices[i+1] / prices[i])
	}

	return returns, nil
}

// EstimateStatistics derives drift and volatility from a log-return series.
// Drift is the arithmetic mean; volatility is the sample standard deviation
// (n-1 normalization). A single-element series has zero volatility.
//
// Returns ErrInvalidInput for an empty series.
func EstimateStatistics(logReturns []float64) (StockStatistics, error) {
	if len(logReturns) == 0 {
		return StockStatistics{}, fmt.Errorf("%w: empty log-return series", ErrInvalidInput)
	}

	s := StockStatistics{
		Drift: stat.Mean(logReturns, nil),
	}
	if len(logReturns) > 1 {
		s.Volatility = stat.StdDev(logReturns, nil)
	}

	return s, nil
}
