package scheduler

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"AHRSentinel/internal/calculator"
	"AHRSentinel/internal/collector"
	"AHRSentinel/internal/metrics"
	"AHRSentinel/internal/model"
	"AHRSentinel/internal/notifier"
	"AHRSentinel/internal/pipeline"
	"AHRSentinel/internal/recorder"
	"AHRSentinel/internal/report"
	"AHRSentinel/internal/series"
	"AHRSentinel/internal/strategy"
)

var start = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func newTestScheduler(t *testing.T, days int) (*Scheduler, *collector.MockFetcher) {
	t.Helper()
	dir := t.TempDir()
	paths := Paths{
		PriceFile:     filepath.Join(dir, "btc-price.csv"),
		ReportFile:    filepath.Join(dir, "out", "ahr999_data.json"),
		DashboardFile: filepath.Join(dir, "out", "index.html"),
	}
	if days > 0 {
		obs := make([]model.Observation, days)
		for i := range obs {
			p := 50000 + 10000*math.Sin(float64(i)/30)
			obs[i] = model.Observation{Date: start.AddDate(0, 0, i), Price: decimal.NewFromFloat(p).Round(0)}
		}
		s, err := series.New(obs)
		require.NoError(t, err)
		require.NoError(t, series.SaveFile(paths.PriceFile, s))
	}

	fetcher := &collector.MockFetcher{Price: decimal.NewFromInt(61000)}
	pc := pipeline.Config{
		Engine: calculator.DefaultEngineParams(),
		Strategy: strategy.Params{
			StartDate:   start.AddDate(0, 0, 200),
			Thresholds:  strategy.DefaultThresholds,
			SpendAmount: decimal.NewFromInt(100),
		},
		HistoryLen: 90,
	}
	s := NewScheduler(context.Background(), collector.NewUpdater(fetcher, paths.PriceFile), pc, paths,
		notifier.NewTelegramNotifier("", "", ""), recorder.NewNoopRecorder(), metrics.NewMetrics())
	s.Now = func() time.Time { return start.AddDate(0, 0, days).Add(9 * time.Hour) }
	return s, fetcher
}

func TestBuildReport_WritesOutputs(t *testing.T) {
	s, _ := newTestScheduler(t, 300)

	r, err := s.BuildReport(context.Background())
	require.NoError(t, err)
	assert.Equal(t, start.AddDate(0, 0, 299), r.AsOf)
	assert.Len(t, r.History, 90)

	saved, err := report.Load(s.Paths.ReportFile)
	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.Equal(t, r.AsOf, saved.AsOf)

	html, err := os.ReadFile(s.Paths.DashboardFile)
	require.NoError(t, err)
	assert.Contains(t, string(html), r.AsOf.Format(model.DateLayout))

	assert.Equal(t, 1.0, testutil.ToFloat64(s.Metrics.ReportRuns.WithLabelValues("ok")))
}

func TestBuildReport_EmptySeriesFails(t *testing.T) {
	s, _ := newTestScheduler(t, 0)

	_, err := s.BuildReport(context.Background())
	assert.ErrorIs(t, err, model.ErrEmptySeries)
	assert.NoFileExists(t, s.Paths.ReportFile)
	assert.Equal(t, 1.0, testutil.ToFloat64(s.Metrics.ReportRuns.WithLabelValues("error")))
}

func TestBuildReport_CancelledContext(t *testing.T) {
	s, _ := newTestScheduler(t, 300)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.BuildReport(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestUpdatePrice_AppendsToday(t *testing.T) {
	s, _ := newTestScheduler(t, 300)

	obs, err := s.UpdatePrice(context.Background())
	require.NoError(t, err)
	assert.Equal(t, start.AddDate(0, 0, 300), obs.Date)

	r, err := s.BuildReport(context.Background())
	require.NoError(t, err)
	assert.Equal(t, obs.Date, r.AsOf)
	assert.True(t, r.CurrentPrice.Equal(decimal.NewFromInt(61000)))
}

func TestHandleCommand(t *testing.T) {
	s, fetcher := newTestScheduler(t, 300)

	assert.Equal(t, "暂无报告", s.HandleCommand("/ahr999"))
	assert.Contains(t, s.HandleCommand("help"), "查看AHR999")

	assert.Empty(t, s.HandleCommand("/update"))
	assert.Equal(t, 1, fetcher.Calls)

	today := start.AddDate(0, 0, 300).Format(model.DateLayout)
	assert.Contains(t, s.HandleCommand("/ahr999"), today)
	assert.Contains(t, s.HandleCommand("/summary"), "≤1")
}

func TestRegister_BadCron(t *testing.T) {
	s, _ := newTestScheduler(t, 0)
	assert.Error(t, s.Register("not a cron"))
	assert.NoError(t, s.Register("0 5 0 * * *"))
}
