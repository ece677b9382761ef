package collector

import (
	"context"

	"DipWatch/internal/model"
)

// Fetcher defines the interface for fetching historical market data.
type Fetcher interface {
	// FetchDailySeries returns the daily closing series for symbol over a
	// trailing window of lookbackDays calendar days ending today.
	FetchDailySeries(ctx context.Context, symbol string, lookbackDays int) (*model.PriceSeries, error)
	Name() string
}
