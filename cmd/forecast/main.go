// Package main is a batch forecaster: it loads historical price CSVs, runs a
// Monte Carlo portfolio simulation, prints a summary table, and writes chart
// PNGs to an output directory.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/Jershred/Monte-Carlo-tool/internal/modules/forecast"
	"github.com/Jershred/Monte-Carlo-tool/internal/modules/history"
	"github.com/Jershred/Monte-Carlo-tool/internal/modules/render"
	"github.com/Jershred/Monte-Carlo-tool/pkg/logger"
)

// memorySource serves price series loaded from CSV files, keyed by symbol.
type memorySource map[string]history.PriceSeries

func (m memorySource) GetSeries(symbol string) (history.PriceSeries, error) {
	series, ok := m[symbol]
	if !ok {
		return history.PriceSeries{}, fmt.Errorf("no series loaded for %s", symbol)
	}
	return series, nil
}

var rootCmd = &cobra.Command{
	Use:   "forecast",
	Short: "Run a Monte Carlo portfolio forecast from price CSVs",
	Long: `Loads daily price CSVs (Date/Open columns), estimates drift and volatility
from historical log returns, simulates independent geometric random walk
trials per stock, aggregates them into a weighted portfolio, and writes
summary statistics plus chart PNGs.`,
	RunE: run,
}

func init() {
	rootCmd.Flags().StringSlice("csv", nil, "price CSV files, one per stock (required)")
	rootCmd.Flags().Float64Slice("weights", nil, "portfolio weights, one per CSV, summing to 1 (required)")
	rootCmd.Flags().Int("trials", 1000, "number of simulated trials")
	rootCmd.Flags().Int("days", 365, "forecast horizon in days")
	rootCmd.Flags().Float64("investment", 1000, "initial investment amount")
	rootCmd.Flags().Uint64("seed", 0, "random seed (0 for time-based)")
	rootCmd.Flags().Float64Slice("percentiles", nil, "percentiles to report (default 5,25,50,75,95)")
	rootCmd.Flags().String("out", "", "directory for chart PNGs (charts skipped when empty)")
	rootCmd.Flags().String("log-level", "warn", "log level (debug, info, warn, error)")
	_ = rootCmd.MarkFlagRequired("csv")
	_ = rootCmd.MarkFlagRequired("weights")
}

func run(cmd *cobra.Command, args []string) error {
	csvFiles, _ := cmd.Flags().GetStringSlice("csv")
	weights, _ := cmd.Flags().GetFloat64Slice("weights")
	trials, _ := cmd.Flags().GetInt("trials")
	days, _ := cmd.Flags().GetInt("days")
	investment, _ := cmd.Flags().GetFloat64("investment")
	seed, _ := cmd.Flags().GetUint64("seed")
	percentiles, _ := cmd.Flags().GetFloat64Slice("percentiles")
	outDir, _ := cmd.Flags().GetString("out")
	logLevel, _ := cmd.Flags().GetString("log-level")

	log := logger.New(logger.Config{Level: logLevel, Pretty: true})

	source := memorySource{}
	symbols := make([]string, 0, len(csvFiles))
	for _, path := range csvFiles {
		series, err := history.ReadCSVFile(path)
		if err != nil {
			return err
		}
		source[series.Symbol] = series
		symbols = append(symbols, series.Symbol)
	}

	service := forecast.NewService(source, nil, forecast.Defaults{Trials: trials, Days: days}, log)

	result, err := service.ForecastPortfolio(forecast.PortfolioConfig{
		Symbols:           symbols,
		Weights:           weights,
		Trials:            trials,
		Days:              days,
		InitialInvestment: investment,
		Seed:              seed,
		Percentiles:       percentiles,
	})
	if err != nil {
		return err
	}

	printSummary(result)

	if outDir != "" {
		if err := writeCharts(result, source, outDir); err != nil {
			return err
		}
		fmt.Printf("\nCharts written to %s\n", outDir)
	}

	return nil
}

func printSummary(result *forecast.PortfolioForecast) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Symbol", "Start", "Drift", "Volatility", "Mean Final", "Avg Return %"})

	for _, fc := range result.Stocks {
		table.Append([]string{
			fc.Symbol,
			fmt.Sprintf("%.2f", fc.StartPrice),
			fmt.Sprintf("%.6f", fc.Stats.Drift),
			fmt.Sprintf("%.6f", fc.Stats.Volatility),
			fmt.Sprintf("%.2f", fc.Summary.Mean),
			fmt.Sprintf("%.2f", fc.Summary.MeanReturn*100),
		})
	}
	table.Render()

	fmt.Printf("\nPortfolio after %d days (%d trials, seed %d):\n",
		result.Config.Days, result.Config.Trials, result.Config.Seed)
	fmt.Printf("  mean final value: %.2f (invested %.2f)\n",
		result.Summary.Mean, result.Config.InitialInvestment)
	fmt.Printf("  std deviation:    %.2f\n", result.Summary.StdDev)
	for _, p := range result.Summary.Percentiles {
		fmt.Printf("  p%-4g            %.2f\n", p.P, p.Value)
	}
}

func writeCharts(result *forecast.PortfolioForecast, source memorySource, outDir string) error {
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	write := func(name string, png []byte) error {
		path := filepath.Join(outDir, name)
		if err := os.WriteFile(path, png, 0644); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
		return nil
	}

	for _, fc := range result.Stocks {
		safe := strings.ReplaceAll(fc.Symbol, string(filepath.Separator), "_")

		png, err := render.HistoricalChart(source[fc.Symbol])
		if err != nil {
			return err
		}
		if err := write(safe+"_history.png", png); err != nil {
			return err
		}

		png, err = render.PathFanChart(fc.Symbol, fc.Paths)
		if err != nil {
			return err
		}
		if err := write(safe+"_paths.png", png); err != nil {
			return err
		}

		png, err = render.HistogramChart(
			"Distribution of final "+fc.Symbol+" prices",
			fc.Paths.FinalColumn(),
			"Current price", fc.StartPrice,
		)
		if err != nil {
			return err
		}
		if err := write(safe+"_histogram.png", png); err != nil {
			return err
		}
	}

	png, err := render.HistogramChart(
		"Distribution of final portfolio values",
		result.Portfolio.FinalColumn(),
		"Initial investment", result.Config.InitialInvestment,
	)
	if err != nil {
		return err
	}
	if err := write("portfolio_histogram.png", png); err != nil {
		return err
	}

	png, err = render.CompositionPieChart(result.Config.Symbols, result.Config.Weights)
	if err != nil {
		return err
	}
	if err := write("portfolio_composition.png", png); err != nil {
		return err
	}

	symbols := make([]string, len(result.Stocks))
	returnsPct := make([]float64, len(result.Stocks))
	for i, fc := range result.Stocks {
		symbols[i] = fc.Symbol
		returnsPct[i] = fc.Summary.MeanReturn * 100
	}
	png, err = render.ReturnsBarChart(symbols, returnsPct)
	if err != nil {
		return err
	}
	return write("stock_returns.png", png)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
