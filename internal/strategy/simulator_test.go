package strategy

import (
	"math"
	"slices"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"AHRSentinel/internal/model"
)

var start = time.Date(2025, 10, 6, 0, 0, 0, 0, time.UTC)

func point(offset int, price int64, value model.Optional) model.IndicatorPoint {
	return model.IndicatorPoint{
		Date:  start.AddDate(0, 0, offset),
		Price: decimal.NewFromInt(price),
		Value: value,
	}
}

func params(thresholds ...float64) Params {
	return Params{StartDate: start, Thresholds: thresholds, SpendAmount: decimal.NewFromInt(100)}
}

func TestParams_Validate(t *testing.T) {
	tests := []struct {
		name string
		p    Params
		ok   bool
	}{
		{"defaults", params(DefaultThresholds...), true},
		{"empty", params(), false},
		{"duplicate", params(0.5, 0.7, 0.5), false},
		{"zero threshold", params(0), false},
		{"negative threshold", params(-0.3), false},
		{"NaN threshold", params(1.0, math.NaN()), false},
		{"infinite threshold", params(math.Inf(1)), false},
		{"zero spend", Params{StartDate: start, Thresholds: []float64{1}, SpendAmount: decimal.Zero}, false},
		{"negative spend", Params{StartDate: start, Thresholds: []float64{1}, SpendAmount: decimal.NewFromInt(-5)}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.p.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, model.ErrInvalidConfig)
			}
		})
	}
}

func TestSimulate_RejectsInvalidParams(t *testing.T) {
	_, err := Simulate(slices.Values([]model.IndicatorPoint{}), params(0.5, 0.5))
	assert.ErrorIs(t, err, model.ErrInvalidConfig)
}

func TestSimulate_TwoQualifyingDays(t *testing.T) {
	points := []model.IndicatorPoint{
		point(0, 100, model.Some(0.4)),
		point(1, 80, model.Some(0.9)),
		point(2, 50, model.Some(0.45)),
	}
	ledgers, err := Simulate(slices.Values(points), params(0.5))
	require.NoError(t, err)
	require.Len(t, ledgers, 1)

	l := ledgers[0]
	require.Len(t, l.Purchases, 2)
	assert.True(t, l.CumulativeQuantity().Equal(decimal.NewFromInt(3)))
	assert.True(t, l.CumulativeSpent().Equal(decimal.NewFromInt(200)))
	assert.Equal(t, points[0].Date, l.Purchases[0].Date)
	assert.Equal(t, points[2].Date, l.Purchases[1].Date)
	assert.Equal(t, 0.45, l.Purchases[1].Indicator)
}

func TestSimulate_MultipleThresholdsFireTogether(t *testing.T) {
	points := []model.IndicatorPoint{point(0, 100, model.Some(0.3))}
	ledgers, err := Simulate(slices.Values(points), params(1.0, 0.5, 0.3, 0.2))
	require.NoError(t, err)

	counts := map[float64]int{}
	for _, l := range ledgers {
		counts[l.Threshold] = len(l.Purchases)
	}
	assert.Equal(t, map[float64]int{1.0: 1, 0.5: 1, 0.3: 1, 0.2: 0}, counts)
}

func TestSimulate_MonotonicThresholdInclusion(t *testing.T) {
	var points []model.IndicatorPoint
	for i, v := range []float64{0.35, 0.55, 0.72, 0.95, 1.2, 0.41, 0.6} {
		points = append(points, point(i, int64(100+i), model.Some(v)))
	}
	ledgers, err := Simulate(slices.Values(points), params(DefaultThresholds...))
	require.NoError(t, err)

	dates := func(l model.ThresholdLedger) map[time.Time]bool {
		m := map[time.Time]bool{}
		for _, p := range l.Purchases {
			m[p.Date] = true
		}
		return m
	}
	for _, lo := range ledgers {
		for _, hi := range ledgers {
			if lo.Threshold >= hi.Threshold {
				continue
			}
			hiDates := dates(hi)
			for d := range dates(lo) {
				assert.True(t, hiDates[d], "purchase at %v under %v missing from %v", d, lo.Threshold, hi.Threshold)
			}
		}
	}
}

func TestSimulate_SkipsEarlyAndAbsentPoints(t *testing.T) {
	points := []model.IndicatorPoint{
		point(-2, 100, model.Some(0.1)),
		point(-1, 100, model.None()),
		point(0, 100, model.None()),
		point(1, 100, model.Some(0.2)),
	}
	ledgers, err := Simulate(slices.Values(points), params(1.0))
	require.NoError(t, err)
	require.Len(t, ledgers[0].Purchases, 1)
	assert.Equal(t, start.AddDate(0, 0, 1), ledgers[0].Purchases[0].Date)
}

func TestSimulate_BoundaryIsInclusive(t *testing.T) {
	points := []model.IndicatorPoint{point(0, 100, model.Some(0.5))}
	ledgers, err := Simulate(slices.Values(points), params(0.5))
	require.NoError(t, err)
	assert.Len(t, ledgers[0].Purchases, 1)
}

func TestClassifyZone(t *testing.T) {
	tests := []struct {
		value model.Optional
		label string
	}{
		{model.None(), "N/A"},
		{model.Some(0.3), "Excellent Buy Zone"},
		{model.Some(0.45), "Excellent Buy Zone"},
		{model.Some(0.6), "Good Buy Zone"},
		{model.Some(0.7), "Good Buy Zone"},
		{model.Some(1.0), "Moderate Buy"},
		{model.Some(1.2), "Hold"},
		{model.Some(1.5), "Hold"},
		{model.Some(2.4), "Overvalued"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.label, ClassifyZone(tt.value).Label, "value %v", tt.value)
	}
}
