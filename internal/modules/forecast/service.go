package forecast

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Jershred/Monte-Carlo-tool/internal/modules/history"
)

// PriceSource provides historical price series by symbol. The SQLite history
// store satisfies this; the CLI substitutes an in-memory source built from
// CSV files.
type PriceSource interface {
	GetSeries(symbol string) (history.PriceSeries, error)
}

// PortfolioConfig describes one portfolio simulation run. It is immutable for
// the duration of the run.
type PortfolioConfig struct {
	Symbols           []string  `json:"symbols"`
	Weights           []float64 `json:"weights"`
	Trials            int       `json:"trials"`
	Days              int       `json:"days"`
	InitialInvestment float64   `json:"initial_investment"`
	Seed              uint64    `json:"seed"`
	Percentiles       []float64 `json:"percentiles,omitempty"`
}

// StockForecast is the simulation result for a single stock. Paths is
// excluded from JSON payloads; API consumers get the summary, renderers and
// tests read the matrix directly.
type StockForecast struct {
	Symbol     string          `json:"symbol"`
	StartPrice float64         `json:"start_price"`
	Stats      StockStatistics `json:"stats"`
	Summary    Summary         `json:"summary"`
	Paths      PathMatrix      `json:"-"`
}

// PortfolioForecast is the result of a full portfolio simulation run.
type PortfolioForecast struct {
	ID        string          `json:"id"`
	CreatedAt time.Time       `json:"created_at"`
	Config    PortfolioConfig `json:"config"`
	Stocks    []StockForecast `json:"stocks"`
	Summary   Summary         `json:"summary"`
	Portfolio PathMatrix      `json:"-"`
}

// Defaults supplies fallback simulation parameters for requests that omit
// them.
type Defaults struct {
	Trials int
	Days   int
}

// Service orchestrates the forecasting pipeline: price series in, per-stock
// path matrices and portfolio summaries out. Completed portfolio runs are
// persisted when a run repository is configured.
type Service struct {
	source   PriceSource
	runs     *RunRepository
	defaults Defaults
	log      zerolog.Logger
}

// NewService creates a forecast service. runs may be nil to disable run
// persistence.
func NewService(source PriceSource, runs *RunRepository, defaults Defaults, log zerolog.Logger) *Service {
	if defaults.Trials <= 0 {
		defaults.Trials = 1000
	}
	if defaults.Days <= 0 {
		defaults.Days = 365
	}
	return &Service{
		source:   source,
		runs:     runs,
		defaults: defaults,
		log:      log.With().Str("component", "forecast_service").Logger(),
	}
}

// Defaults returns the service's fallback trials/days.
func (s *Service) Defaults() Defaults {
	return s.defaults
}

// ForecastStock runs the full single-stock pipeline: load prices, compute log
// returns, estimate drift/volatility, simulate paths, summarize. A zero seed
// is replaced with a time-derived one.
func (s *Service) ForecastStock(symbol string, trials, days int, seed uint64, percentiles []float64) (*StockForecast, error) {
	if trials <= 0 {
		trials = s.defaults.Trials
	}
	if days <= 0 {
		days = s.defaults.Days
	}
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	series, err := s.source.GetSeries(symbol)
	if err != nil {
		return nil, fmt.Errorf("loading series for %s: %w", symbol, err)
	}

	return s.forecastStock(series, trials, days, NewNormalStreams(seed, 0), percentiles)
}

func (s *Service) forecastStock(series history.PriceSeries, trials, days int, streams NormalStreams, percentiles []float64) (*StockForecast, error) {
	prices := series.Prices()

	logReturns, err := LogReturns(prices)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", series.Symbol, err)
	}

	stats, err := EstimateStatistics(logReturns)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", series.Symbol, err)
	}

	startPrice, _ := series.LastPrice()
	paths, err := SimulatePaths(stats, startPrice, trials, days, streams)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", series.Symbol, err)
	}

	summary, err := Summarize(paths, percentiles)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", series.Symbol, err)
	}

	return &StockForecast{
		Symbol:     series.Symbol,
		StartPrice: startPrice,
		Stats:      stats,
		Summary:    summary,
		Paths:      paths,
	}, nil
}

// ForecastPortfolio simulates every stock independently (in parallel, each on
// its own seeded stream family), aggregates the paths under the configured
// weights, and summarizes both the portfolio and each stock. The completed
// run is saved when a run repository is configured; a save failure is logged
// but does not fail the forecast.
func (s *Service) ForecastPortfolio(cfg PortfolioConfig) (*PortfolioForecast, error) {
	if len(cfg.Symbols) == 0 {
		return nil, fmt.Errorf("%w: no symbols provided", ErrInvalidParameter)
	}
	if len(cfg.Weights) != len(cfg.Symbols) {
		return nil, fmt.Errorf("%w: %d weights for %d symbols", ErrInvalidParameter, len(cfg.Weights), len(cfg.Symbols))
	}
	if err := ValidateWeights(cfg.Weights); err != nil {
		return nil, err
	}
	if cfg.InitialInvestment <= 0 {
		return nil, fmt.Errorf("%w: initial investment must be positive, got %v", ErrInvalidParameter, cfg.InitialInvestment)
	}
	if cfg.Trials <= 0 {
		cfg.Trials = s.defaults.Trials
	}
	if cfg.Days <= 0 {
		cfg.Days = s.defaults.Days
	}
	if cfg.Seed == 0 {
		cfg.Seed = uint64(time.Now().UnixNano())
	}

	started := time.Now()

	stocks := make([]StockForecast, len(cfg.Symbols))
	errs := make([]error, len(cfg.Symbols))

	var wg sync.WaitGroup
	for i, symbol := range cfg.Symbols {
		wg.Add(1)
		go func(i int, symbol string) {
			defer wg.Done()

			series, err := s.source.GetSeries(symbol)
			if err != nil {
				errs[i] = fmt.Errorf("loading series for %s: %w", symbol, err)
				return
			}

			// Stream family i keeps this stock's draws independent of
			// every other stock under the shared base seed.
			fc, err := s.forecastStock(series, cfg.Trials, cfg.Days, NewNormalStreams(cfg.Seed, i), cfg.Percentiles)
			if err != nil {
				errs[i] = err
				return
			}
			stocks[i] = *fc
		}(i, symbol)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	paths := make([]PathMatrix, len(stocks))
	for i, fc := range stocks {
		paths[i] = fc.Paths
	}

	portfolio, err := AggregatePortfolio(paths, cfg.Weights, cfg.InitialInvestment)
	if err != nil {
		return nil, err
	}

	summary, err := Summarize(portfolio, cfg.Percentiles)
	if err != nil {
		return nil, err
	}

	result := &PortfolioForecast{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		Config:    cfg,
		Stocks:    stocks,
		Summary:   summary,
		Portfolio: portfolio,
	}

	s.log.Info().
		Str("run_id", result.ID).
		Int("stocks", len(stocks)).
		Int("trials", cfg.Trials).
		Int("days", cfg.Days).
		Dur("elapsed", time.Since(started)).
		Float64("mean_final_value", summary.Mean).
		Msg("Portfolio forecast completed")

	if s.runs != nil {
		if err := s.runs.Save(result.RunRecord()); err != nil {
			s.log.Error().Err(err).Str("run_id", result.ID).Msg("Failed to save forecast run")
		}
	}

	return result, nil
}

// RunRecord converts a forecast into its persisted form (summaries only, no
// matrices).
func (f *PortfolioForecast) RunRecord() RunRecord {
	stockSummaries := make(map[string]Summary, len(f.Stocks))
	for _, fc := range f.Stocks {
		stockSummaries[fc.Symbol] = fc.Summary
	}
	return RunRecord{
		ID:             f.ID,
		CreatedAt:      f.CreatedAt,
		Config:         f.Config,
		Summary:        f.Summary,
		StockSummaries: stockSummaries,
	}
}
