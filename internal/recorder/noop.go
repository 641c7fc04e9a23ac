package recorder

import (
	"github.com/google/uuid"

	"AHRSentinel/internal/model"
)

// NoopRecorder is a no-op implementation used when SQLite is not configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder {
	return &NoopRecorder{}
}

func (n *NoopRecorder) RecordReport(_ *model.Report) (uuid.UUID, error) {
	return uuid.Nil, nil
}

func (n *NoopRecorder) RecordHistory(_ []model.IndicatorPoint) error {
	return nil
}

func (n *NoopRecorder) RecordPriceUpdate(_ *PriceUpdateEvent) error {
	return nil
}

func (n *NoopRecorder) Close() error {
	return nil
}
