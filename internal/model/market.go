package model

import (
	"math"
	"time"
)

// Missing marks an absent value in a price row.
var Missing = math.NaN()

// IsMissing reports whether v is an absent value.
func IsMissing(v float64) bool { return math.IsNaN(v) }

// PriceRow is one trading day. Values holds the closing price candidates for
// that day, one per column in PriceSeries.Columns; absent values are NaN.
type PriceRow struct {
	Time   time.Time
	Values []float64
}

// PriceSeries holds raw daily closing data for one instrument. A provider can
// return more than one parallel close column for a symbol (e.g. raw close and
// adjusted close); Columns names them in the provider's layout order.
type PriceSeries struct {
	Symbol    string
	Columns   []string
	Rows      []PriceRow
	FetchedAt time.Time
}

// Empty reports whether the series has no usable shape at all.
func (s *PriceSeries) Empty() bool {
	return s == nil || len(s.Rows) == 0 || len(s.Columns) == 0
}
