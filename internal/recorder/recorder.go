package recorder

import (
	"github.com/google/uuid"

	"AHRSentinel/internal/model"
)

// PriceUpdateEvent records one ingestion of the day's price.
type PriceUpdateEvent struct {
	Date   string
	Price  float64
	Source string
}

// Recorder persists historical data for analysis.
type Recorder interface {
	// RecordReport stores the run and its per-threshold summaries, returning the run ID.
	RecordReport(r *model.Report) (uuid.UUID, error)
	// RecordHistory upserts indicator points by date.
	RecordHistory(points []model.IndicatorPoint) error
	RecordPriceUpdate(evt *PriceUpdateEvent) error
	Close() error
}
