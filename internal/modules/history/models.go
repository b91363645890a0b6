// Package history manages historical daily price series: importing them from
// CSV files and persisting them in a SQLite store. The forecast pipeline
// consumes the ordered price values; everything else here is plumbing.
package history

import "time"

// PricePoint is one observed daily price.
type PricePoint struct {
	Date  time.Time `json:"date"`
	Price float64   `json:"price"`
}

// PriceSeries is a chronologically ordered price history for one instrument.
// Series are treated as immutable once loaded.
type PriceSeries struct {
	Symbol string       `json:"symbol"`
	Points []PricePoint `json:"points"`
}

// Prices returns the price values in chronological order.
func (s PriceSeries) Prices() []float64 {
	out := make([]float64, len(s.Points))
	for i, p := range s.Points {
		out[i] = p.Price
	}
	return out
}

// LastPrice returns the most recent price, or false for an empty series.
func (s PriceSeries) LastPrice() (float64, bool) {
	if len(s.Points) == 0 {
		return 0, false
	}
	return s.Points[len(s.Points)-1].Price, true
}
