package collector

import (
	"context"
	"time"

	"DipWatch/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
// Series maps symbol to a canned response; Err, when set, fails every fetch.
type MockFetcher struct {
	Price  float64
	Series map[string]*model.PriceSeries
	Err    error
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchDailySeries(_ context.Context, symbol string, lookbackDays int) (*model.PriceSeries, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if s, ok := m.Series[symbol]; ok {
		return s, nil
	}
	return GenerateMockSeries(symbol, m.Price, lookbackDays), nil
}

// GenerateMockSeries builds a gently trending single-column series around
// basePrice with one row per calendar day.
func GenerateMockSeries(symbol string, basePrice float64, days int) *model.PriceSeries {
	series := &model.PriceSeries{
		Symbol:    symbol,
		Columns:   []string{"close"},
		Rows:      make([]model.PriceRow, days),
		FetchedAt: time.Now(),
	}
	for i := 0; i < days; i++ {
		p := basePrice * (1 + float64(i-days/2)*0.0005)
		series.Rows[i] = model.PriceRow{
			Time:   time.Now().AddDate(0, 0, -(days - i)),
			Values: []float64{p},
		}
	}
	return series
}
