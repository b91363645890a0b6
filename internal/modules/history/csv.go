package history

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gocarina/gocsv"
)

// csvRow maps the Date/Open columns of a daily price CSV export. Open is read
// as a string because exports frequently contain empty or "null" cells.
type csvRow struct {
	Date string `csv:"Date"`
	Open string `csv:"Open"`
}

// ReadCSV parses a daily price CSV (Date, Open columns, dates as YYYY-MM-DD)
// into a PriceSeries. Rows with an empty, "null", or zero open are skipped
// rather than rejected. The surviving points are sorted chronologically.
func ReadCSV(r io.Reader, symbol string) (PriceSeries, error) {
	var rows []csvRow
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		return PriceSeries{}, fmt.Errorf("parsing CSV for %s: %w", symbol, err)
	}

	series := PriceSeries{Symbol: symbol}
	for _, row := range rows {
		open := strings.TrimSpace(row.Open)
		if open == "" || strings.EqualFold(open, "null") {
			continue
		}

		price, err := strconv.ParseFloat(open, 64)
		if err != nil {
			return PriceSeries{}, fmt.Errorf("parsing open %q for %s: %w", row.Open, symbol, err)
		}
		if price == 0 {
			continue
		}

		date, err := time.Parse("2006-01-02", strings.TrimSpace(row.Date))
		if err != nil {
			return PriceSeries{}, fmt.Errorf("parsing date %q for %s: %w", row.Date, symbol, err)
		}

		series.Points = append(series.Points, PricePoint{Date: date, Price: price})
	}

	sort.Slice(series.Points, func(i, j int) bool {
		return series.Points[i].Date.Before(series.Points[j].Date)
	})

	return series, nil
}

// ReadCSVFile reads a price CSV from disk. The symbol is derived from the
// file name with its extension stripped (e.g. "SAF.PA.csv" -> "SAF.PA").
func ReadCSVFile(path string) (PriceSeries, error) {
	f, err := os.Open(path)
	if err != nil {
		return PriceSeries{}, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	return ReadCSV(f, symbolFromFilename(path))
}

func symbolFromFilename(name string) string {
	base := filepath.Base(name)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
