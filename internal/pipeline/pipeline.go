// Package pipeline runs a full report build over a price history.
package pipeline

import (
	"fmt"

	"AHRSentinel/internal/calculator"
	"AHRSentinel/internal/model"
	"AHRSentinel/internal/report"
	"AHRSentinel/internal/strategy"
)

// Config holds everything a run needs besides the prices.
type Config struct {
	Engine     calculator.EngineParams
	Strategy   strategy.Params
	HistoryLen int
}

// Run derives indicators, simulates every threshold and assembles the report.
// Any configuration or input error aborts the run; no partial report is returned.
func Run(obs []model.Observation, cfg Config) (*model.Report, error) {
	if err := cfg.Strategy.Validate(); err != nil {
		return nil, err
	}
	engine, err := calculator.NewEngine(cfg.Engine)
	if err != nil {
		return nil, err
	}
	seq, err := engine.Points(obs)
	if err != nil {
		return nil, fmt.Errorf("derive indicators: %w", err)
	}
	ledgers, err := strategy.Simulate(seq, cfg.Strategy)
	if err != nil {
		return nil, fmt.Errorf("simulate: %w", err)
	}
	r, err := report.Assemble(obs, calculator.Collect(seq), ledgers, report.Options{
		HistoryLen:    cfg.HistoryLen,
		StrategyStart: cfg.Strategy.StartDate,
	})
	if err != nil {
		return nil, fmt.Errorf("assemble report: %w", err)
	}
	return r, nil
}
