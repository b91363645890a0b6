package forecast

import (
	"fmt"

	"github.com/montanaflynn/stats"
)

// DefaultPercentiles are the final-distribution percentiles reported when a
// caller does not request a specific set.
var DefaultPercentiles = []float64{5, 25, 50, 75, 95}

// Percentile is a single percentile of a final-value distribution.
type Percentile struct {
	P     float64 `json:"p"`
	Value float64 `json:"value"`
}

// Summary reduces a path matrix's final-day distribution into reportable
// scalars plus the per-trial total returns that produced them.
type Summary struct {
	Mean        float64      `json:"mean"`
	StdDev      float64      `json:"std_dev"`
	Percentiles []Percentile `json:"percentiles,omitempty"`
	MeanReturn  float64      `json:"mean_return"`

	// Returns holds final/initial - 1 per trial. Kept out of JSON payloads;
	// consumers that need the full distribution (histograms) read it directly.
	Returns []float64 `json:"-"`
}

// Summarize computes final-column statistics for a price or portfolio path
// matrix. percentiles are expressed in (0, 100]; pass nil for
// DefaultPercentiles.
//
// Returns ErrInvalidInput for an empty matrix and ErrInvalidParameter for a
// percentile outside (0, 100].
func Summarize(m PathMatrix, percentiles []float64) (Summary, error) {
	if m.Trials() == 0 || m.Steps() == 0 {
		return Summary{}, fmt.Errorf("%w: empty matrix", ErrInvalidInput)
	}
	if percentiles == nil {
		percentiles = DefaultPercentiles
	}
	for _, p := range percentiles {
		if p <= 0 || p > 100 {
			return Summary{}, fmt.Errorf("%w: percentile %v outside (0, 100]", ErrInvalidParameter, p)
		}
	}

	final := m.FinalColumn()

	mean, err := stats.Mean(final)
	if err != nil {
		return Summary{}, fmt.Errorf("computing mean: %w", err)
	}

	stdDev := 0.0
	if len(final) > 1 {
		stdDev, err = stats.StandardDeviationSample(final)
		if err != nil {
			return Summary{}, fmt.Errorf("computing standard deviation: %w", err)
		}
	}

	summary := Summary{
		Mean:    mean,
		StdDev:  stdDev,
		Returns: make([]float64, m.Trials()),
	}

	for _, p := range percentiles {
		v, err := percentileOf(final, p)
		if err != nil {
			return Summary{}, fmt.Errorf("computing percentile %v: %w", p, err)
		}
		summary.Percentiles = append(summary.Percentiles, Percentile{P: p, Value: v})
	}

	for t, row := range m {
		summary.Returns[t] = row[len(row)-1]/row[0] - 1
	}
	meanReturn, err := stats.Mean(summary.Returns)
	if err != nil {
		return Summary{}, fmt.Errorf("computing mean return: %w", err)
	}
	summary.MeanReturn = meanReturn

	return summary, nil
}

// percentileOf is stats.Percentile with the low-rank edges handled: a
// single-value distribution is a point mass, and a percentile whose rank
// (p/100 · n) falls below the first sorted element clamps to the minimum
// instead of erroring. Small trial counts are valid inputs, so a requested
// p5 of 10 trials must resolve rather than abort the run.
func percentileOf(values []float64, p float64) (float64, error) {
	if len(values) == 1 {
		return values[0], nil
	}
	if float64(len(values))*p/100 < 1 {
		return stats.Min(values)
	}
	return stats.Percentile(values, p)
}
