// Package report assembles, persists and renders the run report.
package report

import (
	"fmt"
	"time"

	"AHRSentinel/internal/calculator"
	"AHRSentinel/internal/model"
	"AHRSentinel/internal/portfolio"
	"AHRSentinel/internal/strategy"
)

// DefaultHistoryLen is the number of trailing points kept in a report.
const DefaultHistoryLen = 365

// Options controls report assembly.
type Options struct {
	HistoryLen    int
	StrategyStart time.Time
}

// Assemble combines the run's outputs. points must be the engine output for obs.
func Assemble(obs []model.Observation, points []model.IndicatorPoint, ledgers []model.ThresholdLedger, opts Options) (*model.Report, error) {
	if len(obs) == 0 || len(points) == 0 {
		return nil, model.ErrEmptySeries
	}
	if len(points) != len(obs) {
		return nil, fmt.Errorf("assemble: %d points for %d observations", len(points), len(obs))
	}
	if opts.HistoryLen <= 0 {
		return nil, fmt.Errorf("%w: history length must be positive, got %d", model.ErrInvalidConfig, opts.HistoryLen)
	}

	last := obs[len(obs)-1]
	current := points[len(points)-1].Value

	from := len(points) - opts.HistoryLen
	if from < 0 {
		from = 0
	}
	history := make([]model.IndicatorPoint, len(points)-from)
	copy(history, points[from:])

	return &model.Report{
		AsOf:             last.Date,
		CurrentPrice:     last.Price,
		CurrentIndicator: current,
		CurrentZone:      strategy.ClassifyZone(current),
		StrategyStart:    opts.StrategyStart,
		Summaries:        portfolio.ValuateAll(ledgers, last.Price),
		History:          history,
		Range:            historyRange(history, last.Price.InexactFloat64()),
	}, nil
}

func historyRange(history []model.IndicatorPoint, current float64) model.PriceRange {
	prices := make([]float64, len(history))
	for i, p := range history {
		prices[i] = p.Price.InexactFloat64()
	}
	high, low, err := calculator.PriceRange(prices)
	if err != nil {
		return model.PriceRange{}
	}
	pos, err := calculator.RangePosition(current, high, low)
	if err != nil {
		pos = 0.5
	}
	return model.PriceRange{High: high, Low: low, Position: pos}
}
