package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds all Prometheus metrics for DipWatch.
type Registry struct {
	ScanDuration  prometheus.Histogram
	ScansTotal    *prometheus.CounterVec
	FetchesTotal  *prometheus.CounterVec
	FetchDuration prometheus.Histogram
	Reported      prometheus.Gauge
	HTTPRequests  *prometheus.CounterVec
}

// NewRegistry creates the metrics and registers them with reg.
func NewRegistry(reg prometheus.Registerer) *Registry {
	r := &Registry{
		ScanDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "dipwatch_scan_duration_seconds",
			Help:    "Duration of a full batch scan in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}),
		ScansTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dipwatch_scans_total",
			Help: "Total batch scans by result",
		}, []string{"result"}),
		FetchesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dipwatch_fetches_total",
			Help: "Total upstream fetches by symbol and result",
		}, []string{"symbol", "result"}),
		FetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "dipwatch_fetch_duration_seconds",
			Help:    "Duration of one upstream fetch in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		Reported: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "dipwatch_instruments_reported",
			Help: "Instruments that produced a recommendation in the last scan",
		}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dipwatch_http_requests_total",
			Help: "HTTP requests by path and status code",
		}, []string{"path", "code"}),
	}

	reg.MustRegister(
		r.ScanDuration,
		r.ScansTotal,
		r.FetchesTotal,
		r.FetchDuration,
		r.Reported,
		r.HTTPRequests,
	)
	return r
}
