package metrics

import (
	"log"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"AHRSentinel/internal/model"
)

// Metrics holds all Prometheus metrics for report runs and price updates.
type Metrics struct {
	Registry *prometheus.Registry

	CurrentIndicator prometheus.Gauge
	CurrentPrice     prometheus.Gauge
	ReturnRatio      *prometheus.GaugeVec // labels: threshold
	PurchaseCount    *prometheus.GaugeVec // labels: threshold
	ReportRuns       *prometheus.CounterVec
	PriceFetchFail   *prometheus.CounterVec // labels: source
	ReportBuildDur   prometheus.Histogram
}

// NewMetrics registers and returns all metrics on a private registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		CurrentIndicator: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "ahr_sentinel_indicator",
			Help: "Latest AHR999 value (NaN when not yet defined)",
		}),
		CurrentPrice: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "ahr_sentinel_price_usd",
			Help: "Latest BTC price in the series",
		}),
		ReturnRatio: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "ahr_sentinel_threshold_return_ratio",
			Help: "Simulated return ratio per threshold",
		}, []string{"threshold"}),
		PurchaseCount: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "ahr_sentinel_threshold_purchases",
			Help: "Simulated purchase count per threshold",
		}, []string{"threshold"}),
		ReportRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ahr_sentinel_report_runs_total",
			Help: "Report builds by result",
		}, []string{"result"}),
		PriceFetchFail: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ahr_sentinel_price_fetch_failures_total",
			Help: "Failed price fetches by source",
		}, []string{"source"}),
		ReportBuildDur: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "ahr_sentinel_report_build_duration_seconds",
			Help:    "Time to build the report from the price file",
			Buckets: prometheus.DefBuckets,
		}),
	}
	m.Registry.MustRegister(
		m.CurrentIndicator, m.CurrentPrice, m.ReturnRatio, m.PurchaseCount,
		m.ReportRuns, m.PriceFetchFail, m.ReportBuildDur,
	)
	return m
}

// ObserveReport publishes the headline numbers of a finished report.
func (m *Metrics) ObserveReport(r *model.Report, took time.Duration) {
	m.ReportRuns.WithLabelValues("ok").Inc()
	m.ReportBuildDur.Observe(took.Seconds())
	m.CurrentPrice.Set(r.CurrentPrice.InexactFloat64())
	m.CurrentIndicator.Set(r.CurrentIndicator.OrElse(math.NaN()))
	for _, s := range r.Summaries {
		label := strconv.FormatFloat(s.Threshold, 'f', -1, 64)
		m.ReturnRatio.WithLabelValues(label).Set(s.ReturnRatio.InexactFloat64())
		m.PurchaseCount.WithLabelValues(label).Set(float64(s.PurchaseCount))
	}
}

// ObserveFailure counts a failed report build.
func (m *Metrics) ObserveFailure() {
	m.ReportRuns.WithLabelValues("error").Inc()
}

// ObserveFetchFailure counts a failed fetch from one price source.
func (m *Metrics) ObserveFetchFailure(source string, _ error) {
	m.PriceFetchFail.WithLabelValues(source).Inc()
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr. Blocks until the server fails.
func (m *Metrics) Serve(addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	log.Printf("[INFO] metrics listening on %s", addr)
	return http.ListenAndServe(addr, mux)
}
