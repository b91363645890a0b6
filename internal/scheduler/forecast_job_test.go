package scheduler

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jershred/Monte-Carlo-tool/internal/modules/forecast"
	"github.com/Jershred/Monte-Carlo-tool/internal/modules/history"
	"github.com/Jershred/Monte-Carlo-tool/pkg/logger"
)

type staticSource map[string]history.PriceSeries

func (s staticSource) GetSeries(symbol string) (history.PriceSeries, error) {
	series, ok := s[symbol]
	if !ok {
		return history.PriceSeries{}, fmt.Errorf("unknown symbol %s", symbol)
	}
	return series, nil
}

func fixtureSeries(symbol string, prices ...float64) history.PriceSeries {
	base := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	series := history.PriceSeries{Symbol: symbol}
	for i, p := range prices {
		series.Points = append(series.Points, history.PricePoint{Date: base.AddDate(0, 0, i), Price: p})
	}
	return series
}

func TestForecastJob_Run(t *testing.T) {
	log := logger.New(logger.Config{Level: "error"})
	source := staticSource{
		"AAA": fixtureSeries("AAA", 100, 102, 101, 104),
	}
	service := forecast.NewService(source, nil, forecast.Defaults{Trials: 64, Days: 8}, log)

	job := NewForecastJob(service, forecast.PortfolioConfig{
		Symbols:           []string{"AAA"},
		Weights:           []float64{1.0},
		Trials:            64,
		Days:              8,
		InitialInvestment: 1000,
		Percentiles:       []float64{50},
	}, log)

	assert.Equal(t, "portfolio_forecast", job.Name())
	require.NoError(t, job.Run())
}

func TestForecastJob_PropagatesErrors(t *testing.T) {
	log := logger.New(logger.Config{Level: "error"})
	service := forecast.NewService(staticSource{}, nil, forecast.Defaults{}, log)

	job := NewForecastJob(service, forecast.PortfolioConfig{
		Symbols:           []string{"MISSING"},
		Weights:           []float64{1.0},
		InitialInvestment: 1000,
	}, log)

	assert.Error(t, job.Run())
}
