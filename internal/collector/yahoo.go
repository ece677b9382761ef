package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"DipWatch/internal/model"
)

const defaultYahooBaseURL = "https://query1.finance.yahoo.com"

// YahooFetcher implements Fetcher using the Yahoo Finance chart API.
// Requests are paced through a token bucket and guarded by a circuit breaker
// so a misbehaving upstream fails fast instead of eating the request budget.
type YahooFetcher struct {
	BaseURL string
	Client  *http.Client

	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker
}

// NewYahooFetcher creates a new Yahoo Finance fetcher. proxyURL may be empty.
func NewYahooFetcher(proxyURL string) *YahooFetcher {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &YahooFetcher{
		BaseURL: defaultYahooBaseURL,
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
		limiter: rate.NewLimiter(rate.Limit(2), 2),
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:    "yahoo",
			Timeout: 60 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 5
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				log.Warn().Str("breaker", name).
					Str("from", from.String()).Str("to", to.String()).
					Msg("circuit breaker state change")
			},
		}),
	}
}

func (f *YahooFetcher) Name() string { return "yahoo" }

// yahooChart is the response structure from the Yahoo Finance chart API.
// Close values are pointers: the API emits JSON null for non-trading days and
// for the trailing bar before it settles.
type yahooChart struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []*float64 `json:"close"`
				} `json:"quote"`
				Adjclose []struct {
					Adjclose []*float64 `json:"adjclose"`
				} `json:"adjclose"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

func toValue(v *float64) float64 {
	if v == nil {
		return model.Missing
	}
	return *v
}

// FetchDailySeries fetches daily bars for the trailing lookbackDays calendar
// days. Null holes in the upstream arrays are preserved as missing values;
// dropping them is the extractor's decision, not the transport's.
func (f *YahooFetcher) FetchDailySeries(ctx context.Context, symbol string, lookbackDays int) (*model.PriceSeries, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("yahoo rate limit: %w", err)
	}

	end := time.Now()
	start := end.AddDate(0, 0, -lookbackDays)
	u := fmt.Sprintf("%s/v8/finance/chart/%s?interval=1d&period1=%d&period2=%d",
		f.BaseURL, url.PathEscape(symbol), start.Unix(), end.Unix())

	body, err := f.breaker.Execute(func() (interface{}, error) {
		return f.get(ctx, u)
	})
	if err != nil {
		return nil, err
	}

	var chart yahooChart
	if err := json.Unmarshal(body.([]byte), &chart); err != nil {
		return nil, fmt.Errorf("yahoo decode: %w", err)
	}
	if chart.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo api error: %s", chart.Chart.Error.Description)
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Timestamp) == 0 {
		return nil, fmt.Errorf("yahoo: no data returned for %s", symbol)
	}

	result := chart.Chart.Result[0]

	// Each quote block and each adjclose block is one parallel close column.
	columns := make([]string, 0, 2)
	closes := make([][]*float64, 0, 2)
	for _, q := range result.Indicators.Quote {
		columns = append(columns, "close")
		closes = append(closes, q.Close)
	}
	for _, a := range result.Indicators.Adjclose {
		columns = append(columns, "adjclose")
		closes = append(closes, a.Adjclose)
	}
	if len(columns) == 0 {
		return nil, fmt.Errorf("yahoo: no close data for %s", symbol)
	}

	series := &model.PriceSeries{
		Symbol:    symbol,
		Columns:   columns,
		Rows:      make([]model.PriceRow, len(result.Timestamp)),
		FetchedAt: time.Now(),
	}
	for i, ts := range result.Timestamp {
		values := make([]float64, len(columns))
		for c, col := range closes {
			if i < len(col) {
				values[c] = toValue(col[i])
			} else {
				values[c] = model.Missing
			}
		}
		series.Rows[i] = model.PriceRow{Time: time.Unix(ts, 0), Values: values}
	}

	log.Debug().Str("symbol", symbol).Int("rows", len(series.Rows)).
		Strs("columns", columns).Msg("yahoo series fetched")
	return series, nil
}

func (f *YahooFetcher) get(ctx context.Context, u string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("yahoo fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("yahoo read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("yahoo: status %d, body: %s", resp.StatusCode, string(body))
	}
	return body, nil
}
