package calculator

import (
	"errors"
	"strings"

	"DipWatch/internal/model"
)

// ErrInsufficientData is returned when a series cannot yield both a last
// close and a last moving-average value.
var ErrInsufficientData = errors.New("insufficient data for moving average or last close")

// Normalize returns a copy of the series with its close columns reordered by
// the given preference list. Preferred columns come first (matched
// case-insensitively), any remaining columns keep their original relative
// order. The extractor scans candidates left to right, so this is where the
// "first non-missing in fixed order" tie-break is decided.
func Normalize(series *model.PriceSeries, preferred []string) *model.PriceSeries {
	if series.Empty() || len(preferred) == 0 {
		return series
	}

	order := make([]int, 0, len(series.Columns))
	taken := make([]bool, len(series.Columns))
	for _, want := range preferred {
		for i, col := range series.Columns {
			if !taken[i] && strings.EqualFold(col, want) {
				order = append(order, i)
				taken[i] = true
			}
		}
	}
	for i := range series.Columns {
		if !taken[i] {
			order = append(order, i)
		}
	}

	out := &model.PriceSeries{
		Symbol:    series.Symbol,
		Columns:   make([]string, len(order)),
		Rows:      make([]model.PriceRow, len(series.Rows)),
		FetchedAt: series.FetchedAt,
	}
	for j, i := range order {
		out.Columns[j] = series.Columns[i]
	}
	for r, row := range series.Rows {
		values := make([]float64, len(order))
		for j, i := range order {
			if i < len(row.Values) {
				values[j] = row.Values[i]
			} else {
				values[j] = model.Missing
			}
		}
		out.Rows[r] = model.PriceRow{Time: row.Time, Values: values}
	}
	return out
}

// RollingMean computes a simple moving average over the non-missing values of
// the sequence. The result is aligned to the input: positions holding a
// missing value stay missing, and positions before the window has filled are
// missing as well.
func RollingMean(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	if window <= 0 {
		for i := range out {
			out[i] = model.Missing
		}
		return out
	}

	buf := make([]float64, 0, window)
	sum := 0.0
	for i, v := range values {
		if model.IsMissing(v) {
			out[i] = model.Missing
			continue
		}
		buf = append(buf, v)
		sum += v
		if len(buf) > window {
			sum -= buf[0]
			buf = buf[1:]
		}
		if len(buf) == window {
			out[i] = sum / float64(window)
		} else {
			out[i] = model.Missing
		}
	}
	return out
}

// Extract reduces a price series to its last available close and the last
// available value of the window-length moving average.
//
// The tail scan deliberately does not assume the final row is complete: the
// provider can deliver a trailing row with no prices yet (intraday fetch), or
// carry a redundant parallel close column. Each row is scanned left to right
// and the first non-missing candidate wins; the close and the moving average
// are located independently of each other.
func Extract(series *model.PriceSeries, window int) (model.ExtractedPoint, error) {
	if series.Empty() {
		return model.ExtractedPoint{}, ErrInsufficientData
	}

	// Moving average per column, aligned to the row index.
	cols := len(series.Columns)
	ma := make([][]float64, cols)
	for c := 0; c < cols; c++ {
		column := make([]float64, len(series.Rows))
		for r, row := range series.Rows {
			if c < len(row.Values) {
				column[r] = row.Values[c]
			} else {
				column[r] = model.Missing
			}
		}
		ma[c] = RollingMean(column, window)
	}

	lastClose, ok := lastCandidate(series.Rows, func(r, c int) float64 {
		if c < len(series.Rows[r].Values) {
			return series.Rows[r].Values[c]
		}
		return model.Missing
	}, cols)
	if !ok {
		return model.ExtractedPoint{}, ErrInsufficientData
	}

	lastMA, ok := lastCandidate(series.Rows, func(r, c int) float64 {
		return ma[c][r]
	}, cols)
	if !ok {
		return model.ExtractedPoint{}, ErrInsufficientData
	}

	return model.ExtractedPoint{LastClose: lastClose, LastMA: lastMA}, nil
}

// lastCandidate scans rows from the tail and returns the first non-missing
// value in column order within the most recent row that has one.
func lastCandidate(rows []model.PriceRow, at func(r, c int) float64, cols int) (float64, bool) {
	for r := len(rows) - 1; r >= 0; r-- {
		for c := 0; c < cols; c++ {
			if v := at(r, c); !model.IsMissing(v) {
				return v, true
			}
		}
	}
	return 0, false
}
