package recorder

import "github.com/pravin12patre/Real-Time-Vehicle-Pricing/internal/model"

// NoopRecorder validates and discards events. Used when SQLite is not configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordPricingEvent(evt *model.PricingEventSnapshot) error {
	return Validate(evt)
}

func (n *NoopRecorder) PricingEvents(_ string, _ int) ([]model.PricingEventSnapshot, error) {
	return []model.PricingEventSnapshot{}, nil
}

func (n *NoopRecorder) Close() error { return nil }
