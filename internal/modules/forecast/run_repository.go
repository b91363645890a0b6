package forecast

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// ErrRunNotFound is returned by Get for an unknown run id.
var ErrRunNotFound = errors.New("forecast run not found")

// RunRecord is the persisted form of a completed portfolio forecast: the run
// configuration plus summaries. Matrices are never persisted.
type RunRecord struct {
	ID             string             `json:"id"`
	CreatedAt      time.Time          `json:"created_at"`
	Config         PortfolioConfig    `json:"config"`
	Summary        Summary            `json:"summary"`
	StockSummaries map[string]Summary `json:"stock_summaries,omitempty"`
}

// RunRepository stores forecast run records in SQLite.
type RunRepository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRunRepository creates a run repository on an open database connection.
func NewRunRepository(db *sql.DB, log zerolog.Logger) *RunRepository {
	return &RunRepository{
		db:  db,
		log: log.With().Str("component", "run_repository").Logger(),
	}
}

// InitSchema creates the forecast_runs table if it does not exist.
func (r *RunRepository) InitSchema() error {
	_, err := r.db.Exec(`
		CREATE TABLE IF NOT EXISTS forecast_runs (
			id         TEXT PRIMARY KEY,
			created_at INTEGER NOT NULL,
			config     TEXT NOT NULL,
			summary    TEXT NOT NULL,
			stocks     TEXT NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("creating forecast_runs table: %w", err)
	}
	return nil
}

// Save inserts a run record.
func (r *RunRepository) Save(rec RunRecord) error {
	configJSON, err := json.Marshal(rec.Config)
	if err != nil {
		return fmt.Errorf("marshaling run config: %w", err)
	}
	summaryJSON, err := json.Marshal(rec.Summary)
	if err != nil {
		return fmt.Errorf("marshaling run summary: %w", err)
	}
	stocksJSON, err := json.Marshal(rec.StockSummaries)
	if err != nil {
		return fmt.Errorf("marshaling stock summaries: %w", err)
	}

	_, err = r.db.Exec(
		`INSERT INTO forecast_runs (id, created_at, config, summary, stocks) VALUES (?, ?, ?, ?, ?)`,
		rec.ID, rec.CreatedAt.Unix(), string(configJSON), string(summaryJSON), string(stocksJSON),
	)
	if err != nil {
		return fmt.Errorf("inserting forecast run %s: %w", rec.ID, err)
	}

	r.log.Debug().Str("run_id", rec.ID).Msg("Saved forecast run")
	return nil
}

// Get fetches a single run by id. Returns ErrRunNotFound for unknown ids.
func (r *RunRepository) Get(id string) (RunRecord, error) {
	row := r.db.QueryRow(
		`SELECT id, created_at, config, summary, stocks FROM forecast_runs WHERE id = ?`, id,
	)
	rec, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return RunRecord{}, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	return rec, err
}

// List fetches the most recent runs, newest first.
func (r *RunRepository) List(limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := r.db.Query(
		`SELECT id, created_at, config, summary, stocks FROM forecast_runs ORDER BY created_at DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("querying forecast runs: %w", err)
	}
	defer rows.Close()

	var records []RunRecord
	for rows.Next() {
		rec, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating forecast runs: %w", err)
	}

	return records, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (RunRecord, error) {
	var rec RunRecord
	var createdUnix int64
	var configJSON, summaryJSON, stocksJSON string

	if err := row.Scan(&rec.ID, &createdUnix, &configJSON, &summaryJSON, &stocksJSON); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return RunRecord{}, err
		}
		return RunRecord{}, fmt.Errorf("scanning forecast run: %w", err)
	}

	rec.CreatedAt = time.Unix(createdUnix, 0).UTC()
	if err := json.Unmarshal([]byte(configJSON), &rec.Config); err != nil {
		return RunRecord{}, fmt.Errorf("unmarshaling run config: %w", err)
	}
	if err := json.Unmarshal([]byte(summaryJSON), &rec.Summary); err != nil {
		return RunRecord{}, fmt.Errorf("unmarshaling run summary: %w", err)
	}
	if err := json.Unmarshal([]byte(stocksJSON), &rec.StockSummaries); err != nil {
		return RunRecord{}, fmt.Errorf("unmarshaling stock summaries: %w", err)
	}

	return rec, nil
}
