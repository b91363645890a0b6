package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 1000, cfg.DefaultTrials)
	assert.Equal(t, 365, cfg.DefaultDays)
	assert.Equal(t, 1000.0, cfg.InitialInvestment)
	assert.Empty(t, cfg.ForecastSchedule)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9999")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("DEFAULT_TRIALS", "5000")
	t.Setenv("PORTFOLIO_SYMBOLS", "SAF.PA, AIR.PA ,UBS")
	t.Setenv("PORTFOLIO_WEIGHTS", "0.4,0.3,0.3")
	t.Setenv("INITIAL_INVESTMENT", "2500")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9999, cfg.Port)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 5000, cfg.DefaultTrials)
	assert.Equal(t, []string{"SAF.PA", "AIR.PA", "UBS"}, cfg.Symbols)
	assert.Equal(t, []float64{0.4, 0.3, 0.3}, cfg.Weights)
	assert.Equal(t, 2500.0, cfg.InitialInvestment)
}

func TestLoad_ScheduleRequiresPortfolio(t *testing.T) {
	t.Setenv("FORECAST_SCHEDULE", "@daily")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_ScheduleWeightCountMismatch(t *testing.T) {
	t.Setenv("FORECAST_SCHEDULE", "@daily")
	t.Setenv("PORTFOLIO_SYMBOLS", "AAA,BBB")
	t.Setenv("PORTFOLIO_WEIGHTS", "1.0")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_BadInt(t *testing.T) {
	t.Setenv("PORT", "not-a-number")

	_, err := Load()
	assert.Error(t, err)
}
