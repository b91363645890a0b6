package forecast

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// RegisterRoutes registers all forecast routes on the given router.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/forecast", func(r chi.Router) {
		// Large trial counts take a while.
		r.Use(middleware.Timeout(120 * time.Second))

		r.Post("/portfolio", h.HandlePortfolio)
		r.Post("/stock/{symbol}", h.HandleStock)
		r.Get("/runs", h.HandleListRuns)
		r.Get("/runs/{id}", h.HandleGetRun)
	})
}
