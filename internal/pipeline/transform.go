package pipeline

import (
	"context"
	"log/slog"

	"github.com/couchcryptid/rainwater-harvest-service/internal/domain"
	"github.com/couchcryptid/rainwater-harvest-service/internal/observability"
)

// EstimateTransformer implements Transformer by running the runoff model on
// each submission, with optional geocoding of the selected region.
type EstimateTransformer struct {
	geocoder domain.Geocoder
	metrics  *observability.Metrics
	logger   *slog.Logger
}

// NewTransformer creates an EstimateTransformer. Pass a nil geocoder to
// disable geocoding enrichment.
func NewTransformer(geocoder domain.Geocoder, metrics *observability.Metrics, logger *slog.Logger) *EstimateTransformer {
	return &EstimateTransformer{
		geocoder: geocoder,
		metrics:  metrics,
		logger:   logger,
	}
}

func (t *EstimateTransformer) Transform(ctx context.Context, raw domain.RawEvent) (domain.OutputEvent, error) {
	sub, err := domain.ParseSubmission(raw)
	if err != nil {
		return domain.OutputEvent{}, err
	}

	rec := domain.EstimateSubmission(sub)
	rec = domain.EnrichWithGeocoding(ctx, rec, t.geocoder, t.logger)

	out, err := domain.SerializeEstimateRecord(rec)
	if err != nil {
		return domain.OutputEvent{}, err
	}
	t.metrics.EstimatesByStructure.WithLabelValues(string(rec.Estimate.RechargeStructure)).Inc()
	return out, nil
}
