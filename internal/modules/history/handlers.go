package history

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// Handler handles price history HTTP requests.
type Handler struct {
	store *Store
	log   zerolog.Logger
}

// NewHandler creates a new history handler.
func NewHandler(store *Store, log zerolog.Logger) *Handler {
	return &Handler{
		store: store,
		log:   log.With().Str("handler", "history").Logger(),
	}
}

// RegisterRoutes registers all history routes on the given router.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/history", func(r chi.Router) {
		r.Get("/", h.HandleListSymbols)
		r.Post("/import", h.HandleImport)
		r.Get("/{symbol}", h.HandleGetSeries)
	})
}

// HandleListSymbols handles GET /api/history.
func (h *Handler) HandleListSymbols(w http.ResponseWriter, r *http.Request) {
	symbols, err := h.store.Symbols()
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, "Failed to list symbols: "+err.Error())
		return
	}
	if symbols == nil {
		symbols = []string{}
	}
	h.writeJSON(w, http.StatusOK, symbols)
}

// HandleGetSeries handles GET /api/history/{symbol}.
func (h *Handler) HandleGetSeries(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")

	series, err := h.store.GetSeries(symbol)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, "Failed to load series: "+err.Error())
		return
	}
	if len(series.Points) == 0 {
		h.writeError(w, http.StatusNotFound, "No price data for "+symbol)
		return
	}

	h.writeJSON(w, http.StatusOK, series)
}

// HandleImport handles POST /api/history/import. It accepts a multipart form
// with one or more CSV files under the "files" field; each file's symbol is
// derived from its file name.
func (h *Handler) HandleImport(w http.ResponseWriter, r *http.Request) {
	const maxImportSize = 32 << 20 // 32 MiB

	if err := r.ParseMultipartForm(maxImportSize); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid multipart form: "+err.Error())
		return
	}

	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		h.writeError(w, http.StatusBadRequest, "No files provided")
		return
	}

	imported := make(map[string]int, len(files))
	for _, header := range files {
		f, err := header.Open()
		if err != nil {
			h.writeError(w, http.StatusBadRequest, "Failed to open "+header.Filename+": "+err.Error())
			return
		}

		series, err := ReadCSV(f, symbolFromFilename(header.Filename))
		f.Close()
		if err != nil {
			h.writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		if err := h.store.UpsertSeries(series); err != nil {
			h.writeError(w, http.StatusInternalServerError, "Failed to store "+series.Symbol+": "+err.Error())
			return
		}
		imported[series.Symbol] = len(series.Points)
	}

	h.log.Info().Int("files", len(files)).Msg("Imported price series")
	h.writeJSON(w, http.StatusOK, map[string]any{"imported": imported})
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
