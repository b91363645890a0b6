package forecast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize(t *testing.T) {
	// Final column: 1, 2, 3, 4.
	m := PathMatrix{
		{10, 1},
		{10, 2},
		{10, 3},
		{10, 4},
	}

	summary, err := Summarize(m, []float64{25, 50, 75})
	require.NoError(t, err)

	assert.InDelta(t, 2.5, summary.Mean, 1e-12)
	assert.InDelta(t, 1.2909944487358056, summary.StdDev, 1e-12)

	require.Len(t, summary.Percentiles, 3)
	assert.Equal(t, 25.0, summary.Percentiles[0].P)
	assert.InDelta(t, 1.0, summary.Percentiles[0].Value, 1e-12)
	assert.InDelta(t, 2.0, summary.Percentiles[1].Value, 1e-12)
	assert.InDelta(t, 3.0, summary.Percentiles[2].Value, 1e-12)

	require.Len(t, summary.Returns, 4)
	assert.InDelta(t, 1.0/10-1, summary.Returns[0], 1e-12)
	assert.InDelta(t, 4.0/10-1, summary.Returns[3], 1e-12)
	assert.InDelta(t, 2.5/10-1, summary.MeanReturn, 1e-12)
}

func TestSummarize_DefaultPercentiles(t *testing.T) {
	m := make(PathMatrix, 100)
	for i := range m {
		m[i] = []float64{100, float64(i + 1)}
	}

	summary, err := Summarize(m, nil)
	require.NoError(t, err)
	require.Len(t, summary.Percentiles, len(DefaultPercentiles))
	for i, p := range DefaultPercentiles {
		assert.Equal(t, p, summary.Percentiles[i].P)
	}
}

func TestSummarize_FewTrials(t *testing.T) {
	// 10 trials with the default percentiles: p5 has rank 0.5, below the
	// first sorted element, and must clamp to the minimum final value
	// instead of failing the summary.
	m := make(PathMatrix, 10)
	for i := range m {
		m[i] = []float64{100, float64(10 * (i + 1))}
	}

	summary, err := Summarize(m, nil)
	require.NoError(t, err)

	require.Len(t, summary.Percentiles, len(DefaultPercentiles))
	assert.Equal(t, 5.0, summary.Percentiles[0].P)
	assert.InDelta(t, 10.0, summary.Percentiles[0].Value, 1e-12)
	// p95 has rank 9.5 and interpolates normally.
	assert.InDelta(t, 95.0, summary.Percentiles[4].Value, 1e-12)
}

func TestSummarize_TwoTrials(t *testing.T) {
	m := PathMatrix{{100, 80}, {100, 120}}

	summary, err := Summarize(m, []float64{5, 50, 95})
	require.NoError(t, err)

	require.Len(t, summary.Percentiles, 3)
	assert.InDelta(t, 80.0, summary.Percentiles[0].Value, 1e-12)
	assert.InDelta(t, 80.0, summary.Percentiles[1].Value, 1e-12)
	assert.InDelta(t, 100.0, summary.Percentiles[2].Value, 1e-12)
}

func TestSummarize_SingleTrial(t *testing.T) {
	m := PathMatrix{{100, 110}}

	summary, err := Summarize(m, []float64{50})
	require.NoError(t, err)

	assert.Equal(t, 110.0, summary.Mean)
	assert.Zero(t, summary.StdDev)
	require.Len(t, summary.Percentiles, 1)
	assert.Equal(t, 110.0, summary.Percentiles[0].Value)
}

func TestSummarize_InvalidPercentile(t *testing.T) {
	m := PathMatrix{{100, 110}, {100, 90}}

	for _, p := range []float64{0, -5, 101} {
		_, err := Summarize(m, []float64{p})
		assert.ErrorIs(t, err, ErrInvalidParameter, "percentile %v", p)
	}
}

func TestSummarize_EmptyMatrix(t *testing.T) {
	_, err := Summarize(PathMatrix{}, nil)
	assert.ErrorIs(t, err, ErrInvalidInput)
}
