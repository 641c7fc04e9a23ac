package calculator

import (
	"fmt"
	"iter"
	"time"

	"AHRSentinel/internal/model"
)

// EngineParams configures the indicator derivation.
type EngineParams struct {
	Window  int
	Genesis time.Time
	CurveA  float64
	CurveB  float64
}

// DefaultEngineParams returns the standard AHR999 calibration.
func DefaultEngineParams() EngineParams {
	return EngineParams{
		Window:  DefaultWindow,
		Genesis: GenesisDate,
		CurveA:  DefaultCurveA,
		CurveB:  DefaultCurveB,
	}
}

// Engine derives an IndicatorPoint for every observation of a series.
type Engine struct {
	params EngineParams
}

// NewEngine validates params and returns an Engine.
func NewEngine(params EngineParams) (*Engine, error) {
	if params.Window <= 0 {
		return nil, fmt.Errorf("%w: window must be positive, got %d", model.ErrInvalidConfig, params.Window)
	}
	return &Engine{params: params}, nil
}

// Points returns a lazy sequence with one point per observation, in input order.
// Observations must be non-empty and strictly ascending by date; the engine does
// not sort. Each range over the sequence recomputes from the first observation.
func (e *Engine) Points(obs []model.Observation) (iter.Seq[model.IndicatorPoint], error) {
	if len(obs) == 0 {
		return nil, model.ErrEmptySeries
	}
	for i := 1; i < len(obs); i++ {
		if !obs[i].Date.After(obs[i-1].Date) {
			return nil, fmt.Errorf("%w: %s follows %s", model.ErrUnsortedInput,
				obs[i].Date.Format(model.DateLayout), obs[i-1].Date.Format(model.DateLayout))
		}
	}

	return func(yield func(model.IndicatorPoint) bool) {
		window := NewSlidingAverage(e.params.Window)
		for _, o := range obs {
			price := o.Price.InexactFloat64()
			avg := window.Push(price)
			fair := FairValue(o.Date, e.params.Genesis, e.params.CurveA, e.params.CurveB)
			pt := model.IndicatorPoint{
				Date:            o.Date,
				Price:           o.Price,
				TrailingAverage: avg,
				FairValue:       fair,
				Value:           AHR999(price, avg, fair),
			}
			if !yield(pt) {
				return
			}
		}
	}, nil
}

// Collect materializes a point sequence.
func Collect(seq iter.Seq[model.IndicatorPoint]) []model.IndicatorPoint {
	var out []model.IndicatorPoint
	for pt := range seq {
		out = append(out, pt)
	}
	return out
}
