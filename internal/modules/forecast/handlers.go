package forecast

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// Handler handles forecast HTTP requests.
type Handler struct {
	service *Service
	runs    *RunRepository
	log     zerolog.Logger
}

// NewHandler creates a new forecast handler. runs may be nil when run
// persistence is disabled; the run endpoints then return 404.
func NewHandler(service *Service, runs *RunRepository, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		runs:    runs,
		log:     log.With().Str("handler", "forecast").Logger(),
	}
}

// StockRequest is the body of POST /api/forecast/stock/{symbol}.
type StockRequest struct {
	Trials      int       `json:"trials"`
	Days        int       `json:"days"`
	Seed        uint64    `json:"seed,omitempty"`
	Percentiles []float64 `json:"percentiles,omitempty"`
}

// HandlePortfolio handles POST /api/forecast/portfolio.
func (h *Handler) HandlePortfolio(w http.ResponseWriter, r *http.Request) {
	var cfg PortfolioConfig
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	result, err := h.service.ForecastPortfolio(cfg)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, result)
}

// HandleStock handles POST /api/forecast/stock/{symbol}.
func (h *Handler) HandleStock(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")
	if symbol == "" {
		h.writeError(w, http.StatusBadRequest, "Missing symbol")
		return
	}

	var req StockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	result, err := h.service.ForecastStock(symbol, req.Trials, req.Days, req.Seed, req.Percentiles)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, result)
}

// HandleListRuns handles GET /api/forecast/runs.
func (h *Handler) HandleListRuns(w http.ResponseWriter, r *http.Request) {
	if h.runs == nil {
		h.writeError(w, http.StatusNotFound, "Run persistence is disabled")
		return
	}

	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed <= 0 {
			h.writeError(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = parsed
	}

	records, err := h.runs.List(limit)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, "Failed to list runs: "+err.Error())
		return
	}
	if records == nil {
		records = []RunRecord{}
	}

	h.writeJSON(w, http.StatusOK, records)
}

// HandleGetRun handles GET /api/forecast/runs/{id}.
func (h *Handler) HandleGetRun(w http.ResponseWriter, r *http.Request) {
	if h.runs == nil {
		h.writeError(w, http.StatusNotFound, "Run persistence is disabled")
		return
	}

	id := chi.URLParam(r, "id")
	rec, err := h.runs.Get(id)
	if err != nil {
		if errors.Is(err, ErrRunNotFound) {
			h.writeError(w, http.StatusNotFound, "Run not found")
			return
		}
		h.writeError(w, http.StatusInternalServerError, "Failed to load run: "+err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, rec)
}

// writeServiceError maps pipeline errors to HTTP statuses: violated input or
// parameter invariants are client errors, everything else is a 500.
func (h *Handler) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput),
		errors.Is(err, ErrInvalidParameter),
		errors.Is(err, ErrShapeMismatch):
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
