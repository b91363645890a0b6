package render

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jershred/Monte-Carlo-tool/internal/modules/forecast"
	"github.com/Jershred/Monte-Carlo-tool/internal/modules/history"
	"github.com/Jershred/Monte-Carlo-tool/pkg/logger"
)

type fixtureSource map[string]history.PriceSeries

func (f fixtureSource) GetSeries(symbol string) (history.PriceSeries, error) {
	series, ok := f[symbol]
	if !ok {
		return history.PriceSeries{}, fmt.Errorf("unknown symbol %s", symbol)
	}
	return series, nil
}

func testRouter(t *testing.T) *chi.Mux {
	t.Helper()

	source := fixtureSource{
		"ACME": sampleSeries("ACME"),
		// Known symbol with nothing stored yet.
		"EMPTY": {Symbol: "EMPTY"},
	}

	log := logger.New(logger.Config{Level: "error"})
	service := forecast.NewService(source, nil, forecast.Defaults{Trials: 32, Days: 8}, log)
	handler := NewHandler(service, source, log)

	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		handler.RegisterRoutes(r)
	})
	return r
}

func TestHandleStockHistory(t *testing.T) {
	router := testRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/render/stock/ACME/history", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.NotEmpty(t, rec.Body.Bytes())
}

func TestHandleStockHistory_NoData(t *testing.T) {
	router := testRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/render/stock/EMPTY/history", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
