package metrics

import (
	"errors"
	"math"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"AHRSentinel/internal/model"
)

func TestObserveReport(t *testing.T) {
	m := NewMetrics()
	m.ObserveReport(&model.Report{
		CurrentPrice:     decimal.NewFromInt(65000),
		CurrentIndicator: model.Some(0.82),
		Summaries: []model.ValuationSummary{
			{Threshold: 1.0, PurchaseCount: 3, ReturnRatio: decimal.RequireFromString("0.25")},
			{Threshold: 0.4, ReturnRatio: decimal.Zero},
		},
	}, 20*time.Millisecond)

	assert.Equal(t, 65000.0, testutil.ToFloat64(m.CurrentPrice))
	assert.Equal(t, 0.82, testutil.ToFloat64(m.CurrentIndicator))
	assert.Equal(t, 0.25, testutil.ToFloat64(m.ReturnRatio.WithLabelValues("1")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.PurchaseCount.WithLabelValues("1")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.PurchaseCount.WithLabelValues("0.4")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ReportRuns.WithLabelValues("ok")))
}

func TestObserveReport_AbsentIndicatorIsNaN(t *testing.T) {
	m := NewMetrics()
	m.ObserveReport(&model.Report{CurrentPrice: decimal.NewFromInt(1)}, 0)
	assert.True(t, math.IsNaN(testutil.ToFloat64(m.CurrentIndicator)))
}

func TestFailuresAndHandler(t *testing.T) {
	m := NewMetrics()
	m.ObserveFailure()
	m.ObserveFetchFailure("coingecko", errors.New("timeout"))
	m.ObserveFetchFailure("coingecko", errors.New("timeout"))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.ReportRuns.WithLabelValues("error")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.PriceFetchFail.WithLabelValues("coingecko")))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	assert.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), `ahr_sentinel_price_fetch_failures_total{source="coingecko"} 2`)
}
