package render

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/Jershred/Monte-Carlo-tool/internal/modules/forecast"
)

// Handler serves chart PNGs over HTTP. The forecast endpoints run a fresh
// simulation and render one view of its output; the history endpoint charts
// stored prices as-is.
type Handler struct {
	service *forecast.Service
	prices  forecast.PriceSource
	log     zerolog.Logger
}

// NewHandler creates a new render handler.
func NewHandler(service *forecast.Service, prices forecast.PriceSource, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		prices:  prices,
		log:     log.With().Str("handler", "render").Logger(),
	}
}

// RegisterRoutes registers all render routes on the given router.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/render", func(r chi.Router) {
		r.Post("/portfolio/histogram", h.HandlePortfolioHistogram)
		r.Post("/portfolio/composition", h.HandleComposition)
		r.Post("/portfolio/returns", h.HandleReturns)
		r.Post("/stock/{symbol}/paths", h.HandleStockPaths)
		r.Post("/stock/{symbol}/histogram", h.HandleStockHistogram)
		r.Get("/stock/{symbol}/history", h.HandleStockHistory)
	})
}

// HandleStockHistory handles GET /api/render/stock/{symbol}/history. No
// simulation is run; it charts the stored price series.
func (h *Handler) HandleStockHistory(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")

	series, err := h.prices.GetSeries(symbol)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, "Failed to load series: "+err.Error())
		return
	}
	if len(series.Points) == 0 {
		h.writeError(w, http.StatusNotFound, "No price data for "+symbol)
		return
	}

	png, err := HistoricalChart(series)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.writePNG(w, png)
}

// HandlePortfolioHistogram handles POST /api/render/portfolio/histogram.
func (h *Handler) HandlePortfolioHistogram(w http.ResponseWriter, r *http.Request) {
	cfg, ok := h.decodePortfolio(w, r)
	if !ok {
		return
	}

	result, err := h.service.ForecastPortfolio(cfg)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	png, err := HistogramChart(
		"Distribution of final portfolio values",
		result.Portfolio.FinalColumn(),
		"Initial investment", result.Config.InitialInvestment,
	)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.writePNG(w, png)
}

// HandleComposition handles POST /api/render/portfolio/composition. It only
// needs symbols and weights; no simulation is run.
func (h *Handler) HandleComposition(w http.ResponseWriter, r *http.Request) {
	cfg, ok := h.decodePortfolio(w, r)
	if !ok {
		return
	}
	if err := forecast.ValidateWeights(cfg.Weights); err != nil {
		h.writeServiceError(w, err)
		return
	}

	png, err := CompositionPieChart(cfg.Symbols, cfg.Weights)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.writePNG(w, png)
}

// HandleReturns handles POST /api/render/portfolio/returns.
func (h *Handler) HandleReturns(w http.ResponseWriter, r *http.Request) {
	cfg, ok := h.decodePortfolio(w, r)
	if !ok {
		return
	}

	result, err := h.service.ForecastPortfolio(cfg)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	symbols := make([]string, len(result.Stocks))
	returnsPct := make([]float64, len(result.Stocks))
	for i, fc := range result.Stocks {
		symbols[i] = fc.Symbol
		returnsPct[i] = fc.Summary.MeanReturn * 100
	}

	png, err := ReturnsBarChart(symbols, returnsPct)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.writePNG(w, png)
}

// HandleStockPaths handles POST /api/render/stock/{symbol}/paths.
func (h *Handler) HandleStockPaths(w http.ResponseWriter, r *http.Request) {
	fc, ok := h.forecastStock(w, r)
	if !ok {
		return
	}

	png, err := PathFanChart(fc.Symbol, fc.Paths)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.writePNG(w, png)
}

// HandleStockHistogram handles POST /api/render/stock/{symbol}/histogram.
func (h *Handler) HandleStockHistogram(w http.ResponseWriter, r *http.Request) {
	fc, ok := h.forecastStock(w, r)
	if !ok {
		return
	}

	png, err := HistogramChart(
		"Distribution of final "+fc.Symbol+" prices",
		fc.Paths.FinalColumn(),
		"Current price", fc.StartPrice,
	)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.writePNG(w, png)
}

func (h *Handler) decodePortfolio(w http.ResponseWriter, r *http.Request) (forecast.PortfolioConfig, bool) {
	var cfg forecast.PortfolioConfig
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return forecast.PortfolioConfig{}, false
	}
	return cfg, true
}

func (h *Handler) forecastStock(w http.ResponseWriter, r *http.Request) (*forecast.StockForecast, bool) {
	symbol := chi.URLParam(r, "symbol")
	if symbol == "" {
		h.writeError(w, http.StatusBadRequest, "Missing symbol")
		return nil, false
	}

	var req forecast.StockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return nil, false
	}

	fc, err := h.service.ForecastStock(symbol, req.Trials, req.Days, req.Seed, req.Percentiles)
	if err != nil {
		h.writeServiceError(w, err)
		return nil, false
	}

	return fc, true
}

func (h *Handler) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, forecast.ErrInvalidInput),
		errors.Is(err, forecast.ErrInvalidParameter),
		errors.Is(err, forecast.ErrShapeMismatch):
		h.writeError(w, http.StatusBadRequest, err.Error())
	default:
		h.writeError(w, http.StatusInternalServerError, "Forecast failed: "+err.Error())
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode response")
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}

func (h *Handler) writePNG(w http.ResponseWriter, png []byte) {
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(png); err != nil {
		h.log.Error().Err(err).Msg("Failed to write chart")
	}
}
