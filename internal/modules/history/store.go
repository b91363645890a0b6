package history

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// Store persists daily price series in SQLite. Dates are stored as Unix
// timestamps; reads always return points in chronological order.
type Store struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewStore creates a price history store on an open database connection.
func NewStore(db *sql.DB, log zerolog.Logger) *Store {
	return &Store{
		db:  db,
		log: log.With().Str("component", "history_store").Logger(),
	}
}

// InitSchema creates the daily_prices table if it does not exist.
func (s *Store) InitSchema() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS daily_prices (
			symbol TEXT NOT NULL,
			date   INTEGER NOT NULL,
			open   REAL NOT NULL,
			PRIMARY KEY (symbol, date)
		)
	`)
	if err != nil {
		return fmt.Errorf("creating daily_prices table: %w", err)
	}
	return nil
}

// UpsertSeries writes all points of a series, replacing existing rows for the
// same (symbol, date).
func (s *Store) UpsertSeries(series PriceSeries) error {
	if series.Symbol == "" {
		return fmt.Errorf("series has no symbol")
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT OR REPLACE INTO daily_prices (symbol, date, open) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing upsert: %w", err)
	}
	defer stmt.Close()

	for _, p := range series.Points {
		if _, err := stmt.Exec(series.Symbol, p.Date.Unix(), p.Price); err != nil {
			return fmt.Errorf("upserting %s %s: %w", series.Symbol, p.Date.Format("2006-01-02"), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing upsert: %w", err)
	}

	s.log.Debug().
		Str("symbol", series.Symbol).
		Int("points", len(series.Points)).
		Msg("Stored price series")

	return nil
}

// GetSeries fetches the full price series for a symbol in chronological
// order. A symbol with no rows yields an empty series, not an error.
func (s *Store) GetSeries(symbol string) (PriceSeries, error) {
	rows, err := s.db.Query(`
		SELECT date, open
		FROM daily_prices
		WHERE symbol = ?
		ORDER BY date ASC
	`, symbol)
	if err != nil {
		return PriceSeries{}, fmt.Errorf("querying prices for %s: %w", symbol, err)
	}
	defer rows.Close()

	series := PriceSeries{Symbol: symbol}
	for rows.Next() {
		var dateUnix int64
		var open float64
		if err := rows.Scan(&dateUnix, &open); err != nil {
			return PriceSeries{}, fmt.Errorf("scanning price row: %w", err)
		}
		series.Points = append(series.Points, PricePoint{
			Date:  time.Unix(dateUnix, 0).UTC(),
			Price: open,
		})
	}
	if err := rows.Err(); err != nil {
		return PriceSeries{}, fmt.Errorf("iterating price rows: %w", err)
	}

	return series, nil
}

// Symbols lists all symbols present in the store.
func (s *Store) Symbols() ([]string, error) {
	rows, err := s.db.Query(`SELECT DISTINCT symbol FROM daily_prices ORDER BY symbol`)
	if err != nil {
		return nil, fmt.Errorf("querying symbols: %w", err)
	}
	defer rows.Close()

	var symbols []string
	for rows.Next() {
		var sym string
		if err := rows.Scan(&sym); err != nil {
			return nil, fmt.Errorf("scanning symbol: %w", err)
		}
		symbols = append(symbols, sym)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating symbols: %w", err)
	}

	return symbols, nil
}
