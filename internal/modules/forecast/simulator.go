package forecast

import (
	"fmt"
	"math"
	"math/rand/v2"
	"runtime"
	"sync"

	"gonum.org/v1/gonum/stat/distuv"
)

// NormalStreams derives independent, reproducible standard-normal sources
// from a base seed. Each (stream, trial) pair gets its own PCG source, so
// trials can be simulated concurrently without sharing a generator and the
// result is identical regardless of scheduling. The stream index separates
// stocks simulated under the same base seed.
type NormalStreams struct {
	seed   uint64
	stream uint64
}

// NewNormalStreams creates the stream family for one stock. stream is
// typically the stock's index within a portfolio run.
func NewNormalStreams(seed uint64, stream int) NormalStreams {
	return NormalStreams{seed: seed, stream: uint64(stream)}
}

// Trial returns the standard normal source for a single trial.
func (s NormalStreams) Trial(trial int) distuv.Normal {
	return distuv.Normal{
		Mu:    0,
		Sigma: 1,
		Src:   rand.NewPCG(s.seed, s.stream<<32|uint64(trial)),
	}
}

// SimulatePaths generates a trials × (days+1) matrix of simulated prices for
// one stock under a geometric random walk. Column 0 is startPrice for every
// trial; each subsequent step multiplies by
//
//	exp((drift - 0.5·volatility²) + volatility·Z)
//
// with a fresh standard-normal Z per (trial, day). The -0.5·volatility² term
// is the Itô correction: it keeps the mean simulated log-price increment
// aligned with the empirical drift.
//
// Trials are independent and run concurrently; each draws from its own
// stream, so two calls with the same arguments produce identical matrices.
//
// Returns ErrInvalidParameter if trials <= 0, days <= 0, startPrice <= 0, or
// stats.Volatility < 0.
func SimulatePaths(stats StockStatistics, startPrice float64, trials, days int, streams NormalStreams) (PathMatrix, error) {
	if trials <= 0 {
		return nil, fmt.Errorf("%w: trials must be positive, got %d", ErrInvalidParameter, trials)
	}
	if days <= 0 {
		return nil, fmt.Errorf("%w: days must be positive, got %d", ErrInvalidParameter, days)
	}
	if startPrice <= 0 {
		return nil, fmt.Errorf("%w: start price must be positive, got %v", ErrInvalidParameter, startPrice)
	}
	if stats.Volatility < 0 {
		return nil, fmt.Errorf("%w: volatility must be non-negative, got %v", ErrInvalidParameter, stats.Volatility)
	}

	itoDrift := stats.Drift - 0.5*stats.Volatility*stats.Volatility

	matrix := make(PathMatrix, trials)
	workers := runtime.GOMAXPROCS(0)
	if workers > trials {
		workers = trials
	}

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for t := w; t < trials; t += workers {
				normal := streams.Trial(t)
				row := make([]float64, days+1)
				row[0] = startPrice
				for d := 1; d <= days; d++ {
					row[d] = row[d-1] * math.Exp(itoDrift+stats.Volatility*normal.Rand())
				}
				matrix[t] = row
			}
		}(w)
	}
	wg.Wait()

	return matrix, nil
}
