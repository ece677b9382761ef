package scanner

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"DipWatch/internal/collector"
	"DipWatch/internal/config"
	"DipWatch/internal/model"
	"DipWatch/internal/strategy"
)

type fakeFetcher struct {
	series map[string]*model.PriceSeries
}

func (f *fakeFetcher) Name() string { return "fake" }

func (f *fakeFetcher) FetchDailySeries(_ context.Context, symbol string, _ int) (*model.PriceSeries, error) {
	s, ok := f.series[symbol]
	if !ok {
		return nil, errors.New("upstream unavailable")
	}
	return s, nil
}

func testConfig(instruments ...config.Instrument) *config.Config {
	cfg := &config.Config{Instruments: instruments, Policy: strategy.DefaultPolicy()}
	cfg.DataSource.MAWindow = 200
	cfg.DataSource.LookbackDays = 1000
	cfg.DataSource.CloseColumns = []string{"close", "adjclose"}
	return cfg
}

func TestScan_SkipsFailedInstruments(t *testing.T) {
	instruments := []config.Instrument{
		{Name: "A", Symbol: "AAA"},
		{Name: "B", Symbol: "BBB"}, // fetch fails
		{Name: "C", Symbol: "CCC"},
		{Name: "D", Symbol: "DDD"}, // fetch fails
		{Name: "E", Symbol: "EEE"},
		{Name: "F", Symbol: "FFF"},
	}
	fetcher := &fakeFetcher{series: map[string]*model.PriceSeries{
		"AAA": collector.GenerateMockSeries("AAA", 5000, 400),
		"CCC": collector.GenerateMockSeries("CCC", 20000, 400),
		"EEE": collector.GenerateMockSeries("EEE", 18000, 400),
		"FFF": collector.GenerateMockSeries("FFF", 60000, 400),
	}}

	s := NewScanner(fetcher, testConfig(instruments...), nil, nil)
	results, err := s.Scan(context.Background())
	require.NoError(t, err)

	require.Len(t, results, 4)
	// Configuration order is preserved.
	assert.Equal(t, "A", results[0].Index)
	assert.Equal(t, "C", results[1].Index)
	assert.Equal(t, "E", results[2].Index)
	assert.Equal(t, "F", results[3].Index)
}

func TestScan_AllFail(t *testing.T) {
	instruments := []config.Instrument{
		{Name: "A", Symbol: "AAA"},
		{Name: "B", Symbol: "BBB"},
	}
	fetcher := &fakeFetcher{series: map[string]*model.PriceSeries{}}

	s := NewScanner(fetcher, testConfig(instruments...), nil, nil)
	_, err := s.Scan(context.Background())
	assert.ErrorIs(t, err, ErrNoResults)
}

func TestScan_SkipsInsufficientData(t *testing.T) {
	// Series shorter than the MA window is dropped, the rest still report.
	fetcher := &fakeFetcher{series: map[string]*model.PriceSeries{
		"AAA": collector.GenerateMockSeries("AAA", 5000, 50),
		"BBB": collector.GenerateMockSeries("BBB", 5000, 400),
	}}
	cfg := testConfig(
		config.Instrument{Name: "A", Symbol: "AAA"},
		config.Instrument{Name: "B", Symbol: "BBB"},
	)

	s := NewScanner(fetcher, cfg, nil, nil)
	results, err := s.Scan(context.Background())
	require.NoError(t, err)

	require.Len(t, results, 1)
	assert.Equal(t, "B", results[0].Index)
}

func TestScan_SkipsEmptySeries(t *testing.T) {
	fetcher := &fakeFetcher{series: map[string]*model.PriceSeries{
		"AAA": {Symbol: "AAA"},
		"BBB": collector.GenerateMockSeries("BBB", 5000, 400),
	}}
	cfg := testConfig(
		config.Instrument{Name: "A", Symbol: "AAA"},
		config.Instrument{Name: "B", Symbol: "BBB"},
	)

	s := NewScanner(fetcher, cfg, nil, nil)
	results, err := s.Scan(context.Background())
	require.NoError(t, err)

	require.Len(t, results, 1)
	assert.Equal(t, "B", results[0].Index)
}
