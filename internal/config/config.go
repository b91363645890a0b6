// Package config provides configuration management functionality.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds application configuration. Values come from environment
// variables, optionally seeded from a .env file in the working directory.
type Config struct {
	DataDir  string // Base directory for the SQLite databases
	Port     int
	LogLevel string
	DevMode  bool

	// Fallback simulation parameters for requests that omit them.
	DefaultTrials int
	DefaultDays   int

	// Scheduled forecast. Empty schedule disables the cron job; when set,
	// Symbols/Weights/InitialInvestment describe the portfolio to re-forecast.
	ForecastSchedule  string
	Symbols           []string
	Weights           []float64
	InitialInvestment float64
}

// Load reads configuration from the environment. A missing .env file is not
// an error.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		DataDir:           getEnv("DATA_DIR", "./data"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		DevMode:           getEnvBool("DEV_MODE", false),
		ForecastSchedule:  getEnv("FORECAST_SCHEDULE", ""),
		InitialInvestment: 1000,
	}

	var err error
	if cfg.Port, err = getEnvInt("PORT", 8080); err != nil {
		return nil, err
	}
	if cfg.DefaultTrials, err = getEnvInt("DEFAULT_TRIALS", 1000); err != nil {
		return nil, err
	}
	if cfg.DefaultDays, err = getEnvInt("DEFAULT_DAYS", 365); err != nil {
		return nil, err
	}

	if v := os.Getenv("INITIAL_INVESTMENT"); v != "" {
		cfg.InitialInvestment, err = strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("parsing INITIAL_INVESTMENT: %w", err)
		}
	}

	if v := os.Getenv("PORTFOLIO_SYMBOLS"); v != "" {
		cfg.Symbols = splitList(v)
	}
	if v := os.Getenv("PORTFOLIO_WEIGHTS"); v != "" {
		for _, raw := range splitList(v) {
			w, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return nil, fmt.Errorf("parsing PORTFOLIO_WEIGHTS entry %q: %w", raw, err)
			}
			cfg.Weights = append(cfg.Weights, w)
		}
	}

	if cfg.ForecastSchedule != "" {
		if len(cfg.Symbols) == 0 {
			return nil, fmt.Errorf("FORECAST_SCHEDULE is set but PORTFOLIO_SYMBOLS is empty")
		}
		if len(cfg.Symbols) != len(cfg.Weights) {
			return nil, fmt.Errorf("PORTFOLIO_SYMBOLS has %d entries but PORTFOLIO_WEIGHTS has %d",
				len(cfg.Symbols), len(cfg.Weights))
		}
	}

	absDataDir, err := filepath.Abs(cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("resolving data dir: %w", err)
	}
	cfg.DataDir = absDataDir

	return cfg, nil
}

// HistoryDBPath returns the path of the price history database.
func (c *Config) HistoryDBPath() string {
	return filepath.Join(c.DataDir, "history.db")
}

// RunsDBPath returns the path of the forecast runs database.
func (c *Config) RunsDBPath() string {
	return filepath.Join(c.DataDir, "runs.db")
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("parsing %s: %w", key, err)
	}
	return parsed, nil
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value == "1" || strings.EqualFold(value, "true")
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
