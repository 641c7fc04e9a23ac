package strategy

import (
	"fmt"
	"iter"
	"math"
	"time"

	"github.com/shopspring/decimal"

	"AHRSentinel/internal/model"
)

// DefaultThresholds are the indicator ceilings tracked by default.
var DefaultThresholds = []float64{1.0, 0.9, 0.8, 0.7, 0.6, 0.5, 0.4}

// Params configures a simulation run.
type Params struct {
	StartDate   time.Time
	Thresholds  []float64
	SpendAmount decimal.Decimal
}

// Validate rejects empty, duplicate, non-finite or non-positive thresholds and a
// non-positive spend.
func (p Params) Validate() error {
	if len(p.Thresholds) == 0 {
		return fmt.Errorf("%w: at least one threshold is required", model.ErrInvalidConfig)
	}
	seen := make(map[float64]bool, len(p.Thresholds))
	for _, t := range p.Thresholds {
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return fmt.Errorf("%w: threshold %v must be finite", model.ErrInvalidConfig, t)
		}
		if t <= 0 {
			return fmt.Errorf("%w: threshold %v must be positive", model.ErrInvalidConfig, t)
		}
		if seen[t] {
			return fmt.Errorf("%w: duplicate threshold %v", model.ErrInvalidConfig, t)
		}
		seen[t] = true
	}
	if !p.SpendAmount.IsPositive() {
		return fmt.Errorf("%w: spend amount %s must be positive", model.ErrInvalidConfig, p.SpendAmount)
	}
	return nil
}

// Simulate folds the indicator stream into one ledger per threshold.
// A point buys on every threshold at or above its indicator value, so a single
// day may append to several ledgers. Points before StartDate or without a value
// never buy. Ledgers are returned in configured threshold order.
func Simulate(points iter.Seq[model.IndicatorPoint], p Params) ([]model.ThresholdLedger, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	ledgers := make([]model.ThresholdLedger, len(p.Thresholds))
	for i, t := range p.Thresholds {
		ledgers[i] = model.ThresholdLedger{Threshold: t}
	}

	for pt := range points {
		value, ok := pt.Value.Get()
		if !ok || pt.Date.Before(p.StartDate) || !pt.Price.IsPositive() {
			continue
		}
		for i := range ledgers {
			if value > ledgers[i].Threshold {
				continue
			}
			ledgers[i].Purchases = append(ledgers[i].Purchases, model.Purchase{
				Date:        pt.Date,
				Price:       pt.Price,
				AmountSpent: p.SpendAmount,
				Quantity:    p.SpendAmount.Div(pt.Price),
				Indicator:   value,
			})
		}
	}
	return ledgers, nil
}
