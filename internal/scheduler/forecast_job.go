package scheduler

import (
	"github.com/rs/zerolog"

	"github.com/Jershred/Monte-Carlo-tool/internal/modules/forecast"
)

// ForecastJob periodically re-runs the configured portfolio forecast so the
// API always serves a recent run. Runs are persisted by the forecast service.
type ForecastJob struct {
	service *forecast.Service
	config  forecast.PortfolioConfig
	log     zerolog.Logger
}

// NewForecastJob creates the scheduled forecast job. The config's seed is
// left at zero so every scheduled run draws fresh randomness.
func NewForecastJob(service *forecast.Service, config forecast.PortfolioConfig, log zerolog.Logger) *ForecastJob {
	return &ForecastJob{
		service: service,
		config:  config,
		log:     log.With().Str("job", "portfolio_forecast").Logger(),
	}
}

// Name implements Job.
func (j *ForecastJob) Name() string {
	return "portfolio_forecast"
}

// Run implements Job.
func (j *ForecastJob) Run() error {
	cfg := j.config
	cfg.Seed = 0

	result, err := j.service.ForecastPortfolio(cfg)
	if err != nil {
		return err
	}

	j.log.Info().
		Str("run_id", result.ID).
		Float64("mean_final_value", result.Summary.Mean).
		Msg("Scheduled forecast stored")

	return nil
}
