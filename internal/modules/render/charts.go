// Package render turns forecast outputs into PNG charts. It is a pure
// consumer: every function takes read-only simulation results and performs no
// forecasting computation of its own.
package render

import (
	"fmt"
	"math"
	"strconv"

	charts "github.com/vicanso/go-charts/v2"

	"github.com/Jershred/Monte-Carlo-tool/internal/modules/forecast"
	"github.com/Jershred/Monte-Carlo-tool/internal/modules/history"
)

const (
	chartWidth  = 800
	chartHeight = 600

	// HistogramBins is the bin count used for final-distribution histograms.
	HistogramBins = 30

	// maxFanTrials caps how many trials a path fan chart draws; rendering
	// thousands of lines is slow and unreadable.
	maxFanTrials = 100
)

// PathFanChart renders a subset of a stock's simulated price paths as a line
// chart, one line per trial.
func PathFanChart(symbol string, paths forecast.PathMatrix) ([]byte, error) {
	if paths.Trials() == 0 || paths.Steps() == 0 {
		return nil, fmt.Errorf("no paths to render")
	}

	shown := paths.Trials()
	if shown > maxFanTrials {
		shown = maxFanTrials
	}

	series := make([][]float64, shown)
	for t := 0; t < shown; t++ {
		series[t] = paths[t]
	}

	xLabels := make([]string, paths.Steps())
	for d := range xLabels {
		xLabels[d] = strconv.Itoa(d)
	}

	p, err := charts.LineRender(
		series,
		charts.TitleTextOptionFunc(fmt.Sprintf("Simulated %s price paths (%d of %d trials)", symbol, shown, paths.Trials())),
		charts.XAxisOptionFunc(charts.XAxisOption{
			Data:        xLabels,
			SplitNumber: 10,
			BoundaryGap: charts.FalseFlag(),
		}),
		charts.ThemeOptionFunc(charts.ThemeLight),
		charts.WidthOptionFunc(chartWidth),
		charts.HeightOptionFunc(chartHeight),
	)
	if err != nil {
		return nil, fmt.Errorf("rendering path fan: %w", err)
	}

	return p.Bytes()
}

// HistoricalChart renders a stock's loaded price history as a line chart,
// dates on the x axis.
func HistoricalChart(series history.PriceSeries) ([]byte, error) {
	if len(series.Points) == 0 {
		return nil, fmt.Errorf("no price history to render")
	}

	xLabels := make([]string, len(series.Points))
	for i, p := range series.Points {
		xLabels[i] = p.Date.Format("2006-01-02")
	}

	p, err := charts.LineRender(
		[][]float64{series.Prices()},
		charts.TitleTextOptionFunc(fmt.Sprintf("Historical %s prices (%d days)", series.Symbol, len(series.Points))),
		charts.XAxisOptionFunc(charts.XAxisOption{
			Data:        xLabels,
			SplitNumber: 10,
			BoundaryGap: charts.FalseFlag(),
		}),
		charts.ThemeOptionFunc(charts.ThemeLight),
		charts.WidthOptionFunc(chartWidth),
		charts.HeightOptionFunc(chartHeight),
	)
	if err != nil {
		return nil, fmt.Errorf("rendering price history: %w", err)
	}

	return p.Bytes()
}

// HistogramChart renders the distribution of final values as a bar chart with
// HistogramBins equal-width bins. refValue (e.g. the starting price or the
// invested amount) is shown in the title for context.
func HistogramChart(title string, values []float64, refLabel string, refValue float64) ([]byte, error) {
	if len(values) == 0 {
		return nil, fmt.Errorf("no values to render")
	}

	counts, labels := binValues(values, HistogramBins)

	p, err := charts.BarRender(
		[][]float64{counts},
		charts.TitleTextOptionFunc(fmt.Sprintf("%s\n%s: %.2f", title, refLabel, refValue)),
		charts.XAxisOptionFunc(charts.XAxisOption{
			Data:        labels,
			SplitNumber: 6,
		}),
		charts.ThemeOptionFunc(charts.ThemeLight),
		charts.WidthOptionFunc(chartWidth),
		charts.HeightOptionFunc(chartHeight),
	)
	if err != nil {
		return nil, fmt.Errorf("rendering histogram: %w", err)
	}

	return p.Bytes()
}

// CompositionPieChart renders portfolio weights as a pie chart.
func CompositionPieChart(symbols []string, weights []float64) ([]byte, error) {
	if len(symbols) == 0 || len(symbols) != len(weights) {
		return nil, fmt.Errorf("symbols and weights must be non-empty and matched")
	}

	values := make([]float64, len(weights))
	labels := make([]string, len(weights))
	for i, w := range weights {
		values[i] = w * 100
		labels[i] = fmt.Sprintf("%s (%.1f%%)", symbols[i], w*100)
	}

	p, err := charts.PieRender(
		values,
		charts.TitleTextOptionFunc("Portfolio composition"),
		charts.LegendOptionFunc(charts.LegendOption{
			Data: labels,
			Top:  charts.PositionTop,
		}),
		charts.ThemeOptionFunc(charts.ThemeLight),
		charts.WidthOptionFunc(chartWidth),
		charts.HeightOptionFunc(chartHeight),
	)
	if err != nil {
		return nil, fmt.Errorf("rendering composition pie: %w", err)
	}

	return p.Bytes()
}

// ReturnsBarChart renders the average simulated return (in percent) of each
// stock as a bar chart.
func ReturnsBarChart(symbols []string, avgReturnsPct []float64) ([]byte, error) {
	if len(symbols) == 0 || len(symbols) != len(avgReturnsPct) {
		return nil, fmt.Errorf("symbols and returns must be non-empty and matched")
	}

	p, err := charts.BarRender(
		[][]float64{avgReturnsPct},
		charts.TitleTextOptionFunc("Average simulated returns (%)"),
		charts.XAxisOptionFunc(charts.XAxisOption{
			Data: symbols,
		}),
		charts.ThemeOptionFunc(charts.ThemeLight),
		charts.WidthOptionFunc(chartWidth),
		charts.HeightOptionFunc(chartHeight),
	)
	if err != nil {
		return nil, fmt.Errorf("rendering returns bars: %w", err)
	}

	return p.Bytes()
}

// binValues buckets values into bins equal-width bins and returns the counts
// plus a label per bin (the bin's lower edge). All values land in a bin; the
// maximum value goes into the last one.
func binValues(values []float64, bins int) ([]float64, []string) {
	lo, hi := values[0], values[0]
	for _, v := range values {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}

	counts := make([]float64, bins)
	labels := make([]string, bins)

	width := (hi - lo) / float64(bins)
	if width == 0 {
		// Degenerate distribution: everything in one bin.
		counts[0] = float64(len(values))
		for i := range labels {
			labels[i] = fmt.Sprintf("%.2f", lo)
		}
		return counts, labels
	}

	for _, v := range values {
		idx := int(math.Floor((v - lo) / width))
		if idx >= bins {
			idx = bins - 1
		}
		counts[idx]++
	}
	for i := range labels {
		labels[i] = fmt.Sprintf("%.2f", lo+float64(i)*width)
	}

	return counts, labels
}
