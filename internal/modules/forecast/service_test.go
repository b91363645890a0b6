package forecast

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jershred/Monte-Carlo-tool/internal/modules/history"
	"github.com/Jershred/Monte-Carlo-tool/pkg/logger"
)

// fakeSource serves fixed price series from memory.
type fakeSource map[string]history.PriceSeries

func (f fakeSource) GetSeries(symbol string) (history.PriceSeries, error) {
	series, ok := f[symbol]
	if !ok {
		return history.PriceSeries{}, fmt.Errorf("unknown symbol %s", symbol)
	}
	return series, nil
}

func makeSeries(symbol string, prices ...float64) history.PriceSeries {
	base := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	series := history.PriceSeries{Symbol: symbol}
	for i, p := range prices {
		series.Points = append(series.Points, history.PricePoint{
			Date:  base.AddDate(0, 0, i),
			Price: p,
		})
	}
	return series
}

func testService(t *testing.T, source PriceSource) *Service {
	t.Helper()
	log := logger.New(logger.Config{Level: "error"})
	return NewService(source, nil, Defaults{Trials: 64, Days: 16}, log)
}

func TestForecastStock(t *testing.T) {
	source := fakeSource{
		"ACME": makeSeries("ACME", 100, 102, 101, 105, 104, 108),
	}
	svc := testService(t, source)

	fc, err := svc.ForecastStock("ACME", 32, 10, 5, []float64{50})
	require.NoError(t, err)

	assert.Equal(t, "ACME", fc.Symbol)
	assert.Equal(t, 108.0, fc.StartPrice, "start price must be the last historical price")
	assert.Equal(t, 32, fc.Paths.Trials())
	assert.Equal(t, 11, fc.Paths.Steps())
	assert.Greater(t, fc.Stats.Volatility, 0.0)
}

func TestForecastStock_UnknownSymbol(t *testing.T) {
	svc := testService(t, fakeSource{})

	_, err := svc.ForecastStock("NOPE", 10, 10, 1, nil)
	assert.Error(t, err)
}

func TestForecastStock_InsufficientHistory(t *testing.T) {
	source := fakeSource{"ACME": makeSeries("ACME", 100)}
	svc := testService(t, source)

	_, err := svc.ForecastStock("ACME", 10, 10, 1, nil)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestForecastPortfolio(t *testing.T) {
	source := fakeSource{
		"AAA": makeSeries("AAA", 100, 101, 103, 102, 106),
		"BBB": makeSeries("BBB", 50, 49, 51, 52, 50),
	}
	svc := testService(t, source)

	cfg := PortfolioConfig{
		Symbols:           []string{"AAA", "BBB"},
		Weights:           []float64{0.6, 0.4},
		Trials:            64,
		Days:              16,
		InitialInvestment: 1000,
		Seed:              42,
		Percentiles:       []float64{50},
	}

	result, err := svc.ForecastPortfolio(cfg)
	require.NoError(t, err)

	assert.NotEmpty(t, result.ID)
	require.Len(t, result.Stocks, 2)
	assert.Equal(t, 64, result.Portfolio.Trials())
	assert.Equal(t, 17, result.Portfolio.Steps())

	// Every trial starts at the invested amount.
	for trial := 0; trial < result.Portfolio.Trials(); trial++ {
		assert.InDelta(t, 1000.0, result.Portfolio[trial][0], 1e-9)
	}
}

func TestForecastPortfolio_Deterministic(t *testing.T) {
	source := fakeSource{
		"AAA": makeSeries("AAA", 100, 101, 103, 102, 106),
		"BBB": makeSeries("BBB", 50, 49, 51, 52, 50),
	}
	svc := testService(t, source)

	cfg := PortfolioConfig{
		Symbols:           []string{"AAA", "BBB"},
		Weights:           []float64{0.5, 0.5},
		Trials:            64,
		Days:              16,
		InitialInvestment: 1000,
		Seed:              7,
		Percentiles:       []float64{50},
	}

	a, err := svc.ForecastPortfolio(cfg)
	require.NoError(t, err)
	b, err := svc.ForecastPortfolio(cfg)
	require.NoError(t, err)

	assert.Equal(t, a.Portfolio, b.Portfolio, "identical seeds must reproduce the portfolio matrix")
	assert.Equal(t, a.Summary, b.Summary)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestForecastPortfolio_StocksIndependent(t *testing.T) {
	// Two stocks with identical histories must still follow different
	// simulated paths under a shared base seed.
	series := makeSeries("X", 100, 101, 103, 102, 106)
	aaa, bbb := series, series
	aaa.Symbol, bbb.Symbol = "AAA", "BBB"
	source := fakeSource{"AAA": aaa, "BBB": bbb}
	svc := testService(t, source)

	result, err := svc.ForecastPortfolio(PortfolioConfig{
		Symbols:           []string{"AAA", "BBB"},
		Weights:           []float64{0.5, 0.5},
		Trials:            32,
		Days:              16,
		InitialInvestment: 1000,
		Seed:              11,
		Percentiles:       []float64{50},
	})
	require.NoError(t, err)

	assert.NotEqual(t, result.Stocks[0].Paths, result.Stocks[1].Paths)
}

func TestForecastPortfolio_Validation(t *testing.T) {
	source := fakeSource{
		"AAA": makeSeries("AAA", 100, 101, 103),
	}
	svc := testService(t, source)

	tests := []struct {
		name string
		cfg  PortfolioConfig
	}{
		{"no symbols", PortfolioConfig{InitialInvestment: 1000}},
		{"weight count mismatch", PortfolioConfig{
			Symbols: []string{"AAA"}, Weights: []float64{0.5, 0.5}, InitialInvestment: 1000,
		}},
		{"weights do not sum to 1", PortfolioConfig{
			Symbols: []string{"AAA"}, Weights: []float64{0.9}, InitialInvestment: 1000,
		}},
		{"zero investment", PortfolioConfig{
			Symbols: []string{"AAA"}, Weights: []float64{1.0},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.ForecastPortfolio(tt.cfg)
			assert.ErrorIs(t, err, ErrInvalidParameter)
		})
	}
}

func TestRunRecord(t *testing.T) {
	result := &PortfolioForecast{
		ID:        "run-1",
		CreatedAt: time.Now().UTC(),
		Config:    PortfolioConfig{Symbols: []string{"AAA"}},
		Stocks: []StockForecast{
			{Symbol: "AAA", Summary: Summary{Mean: 123}},
		},
		Summary: Summary{Mean: 456},
	}

	rec := result.RunRecord()
	assert.Equal(t, "run-1", rec.ID)
	assert.Equal(t, 456.0, rec.Summary.Mean)
	require.Contains(t, rec.StockSummaries, "AAA")
	assert.Equal(t, 123.0, rec.StockSummaries["AAA"].Mean)
}
