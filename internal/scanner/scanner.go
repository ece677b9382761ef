package scanner

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"DipWatch/internal/calculator"
	"DipWatch/internal/collector"
	"DipWatch/internal/config"
	"DipWatch/internal/metrics"
	"DipWatch/internal/model"
	"DipWatch/internal/recorder"
	"DipWatch/internal/strategy"
)

// ErrNoResults is returned when every configured instrument failed to produce
// a recommendation.
var ErrNoResults = errors.New("no results available")

// Scanner runs the batch: fetch, extract, classify, one instrument at a time.
// Per-instrument failures are absorbed here; only total failure surfaces.
type Scanner struct {
	fetcher      collector.Fetcher
	instruments  []config.Instrument
	policy       strategy.Policy
	window       int
	lookbackDays int
	closeColumns []string
	rec          recorder.Recorder
	met          *metrics.Registry
}

// NewScanner creates a Scanner. rec and met may be nil.
func NewScanner(fetcher collector.Fetcher, cfg *config.Config, rec recorder.Recorder, met *metrics.Registry) *Scanner {
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	return &Scanner{
		fetcher:      fetcher,
		instruments:  cfg.Instruments,
		policy:       cfg.Policy,
		window:       cfg.DataSource.MAWindow,
		lookbackDays: cfg.DataSource.LookbackDays,
		closeColumns: cfg.DataSource.CloseColumns,
		rec:          rec,
		met:          met,
	}
}

// Scan produces one DipResult per instrument that could be fetched and
// extracted, in configuration order. Instruments that fail are skipped; a
// transient problem with one index must never block results for the others.
func (s *Scanner) Scan(ctx context.Context) ([]model.DipResult, error) {
	start := time.Now()
	results := make([]model.DipResult, 0, len(s.instruments))

	for _, inst := range s.instruments {
		res, ok := s.scanOne(ctx, inst)
		if !ok {
			continue
		}
		results = append(results, res)
	}

	elapsed := time.Since(start)
	if err := s.rec.RecordScan(&recorder.ScanEvent{
		Instruments: len(s.instruments),
		Reported:    len(results),
		DurationMS:  elapsed.Milliseconds(),
	}); err != nil {
		log.Error().Err(err).Msg("record scan")
	}
	if s.met != nil {
		s.met.ScanDuration.Observe(elapsed.Seconds())
		s.met.Reported.Set(float64(len(results)))
	}

	if len(results) == 0 {
		if s.met != nil {
			s.met.ScansTotal.WithLabelValues("empty").Inc()
		}
		return nil, ErrNoResults
	}
	if s.met != nil {
		s.met.ScansTotal.WithLabelValues("ok").Inc()
	}

	log.Info().Int("instruments", len(s.instruments)).Int("reported", len(results)).
		Dur("elapsed", elapsed).Msg("scan complete")
	return results, nil
}

func (s *Scanner) scanOne(ctx context.Context, inst config.Instrument) (model.DipResult, bool) {
	fetchStart := time.Now()
	series, err := s.fetcher.FetchDailySeries(ctx, inst.Symbol, s.lookbackDays)
	fetchElapsed := time.Since(fetchStart)

	evt := &recorder.FetchEvent{
		Symbol:     inst.Symbol,
		Source:     s.fetcher.Name(),
		OK:         err == nil,
		DurationMS: fetchElapsed.Milliseconds(),
	}
	if err != nil {
		evt.Err = err.Error()
	} else {
		evt.Rows = len(series.Rows)
	}
	if recErr := s.rec.RecordFetch(evt); recErr != nil {
		log.Error().Err(recErr).Msg("record fetch")
	}
	if s.met != nil {
		s.met.FetchDuration.Observe(fetchElapsed.Seconds())
		result := "ok"
		if err != nil {
			result = "error"
		}
		s.met.FetchesTotal.WithLabelValues(inst.Symbol, result).Inc()
	}

	if err != nil {
		log.Warn().Err(err).Str("index", inst.Name).Str("symbol", inst.Symbol).
			Msg("fetch failed, skipping instrument")
		return model.DipResult{}, false
	}
	if series.Empty() {
		log.Warn().Str("index", inst.Name).Str("symbol", inst.Symbol).
			Msg("empty series, skipping instrument")
		return model.DipResult{}, false
	}

	point, err := calculator.Extract(calculator.Normalize(series, s.closeColumns), s.window)
	if err != nil {
		log.Warn().Err(err).Str("index", inst.Name).Str("symbol", inst.Symbol).
			Msg("extraction failed, skipping instrument")
		return model.DipResult{}, false
	}

	return strategy.Classify(inst.Name, inst.Symbol, point, s.policy), true
}
