package metrics

import (
	"context"

	"github.com/rs/zerolog"
)

// Source is the inbound contract against the external metrics store.
type Source interface {
	FetchPortfolio(ctx context.Context, level EntityLevel, lookbackDays int) ([]EntityMetrics, error)
	FetchEntityHistory(ctx context.Context, entityID string, level EntityLevel, lookbackDays int) ([]HistoricalDataPoint, error)
	FetchHourlyHistory(ctx context.Context, entityID string, level EntityLevel, lookbackDays int) ([]HistoricalDataPoint, error)
}

// Repository wraps a Source and absorbs storage failures: a broken fetch is
// logged and surfaced as an empty collection, letting the engine produce a
// "no data available" result instead of failing the whole call.
type Repository struct {
	source Source
	logger zerolog.Logger
}

// NewRepository wires a Source into a Repository.
func NewRepository(source Source, logger zerolog.Logger) *Repository {
	return &Repository{
		source: source,
		logger: logger.With().Str("component", "metrics_repository").Logger(),
	}
}

// Portfolio fetches the aggregated entity rows for a level and window.
func (r *Repository) Portfolio(ctx context.Context, level EntityLevel, lookbackDays int) []EntityMetrics {
	rows, err := r.source.FetchPortfolio(ctx, level, lookbackDays)
	if err != nil {
		r.logger.Error().Err(err).Str("level", string(level)).Int("lookback_days", lookbackDays).
			Msg("portfolio fetch failed; returning empty set")
		return nil
	}
	return rows
}

// EntityHistory fetches daily observations for one entity, oldest first.
func (r *Repository) EntityHistory(ctx context.Context, entityID string, level EntityLevel, lookbackDays int) []HistoricalDataPoint {
	rows, err := r.source.FetchEntityHistory(ctx, entityID, level, lookbackDays)
	if err != nil {
		r.logger.Error().Err(err).Str("entity_id", entityID).Int("lookback_days", lookbackDays).
			Msg("entity history fetch failed; returning empty set")
		return nil
	}
	return rows
}

// HourlyHistory fetches hour-granular observations for one entity.
func (r *Repository) HourlyHistory(ctx context.Context, entityID string, level EntityLevel, lookbackDays int) []HistoricalDataPoint {
	rows, err := r.source.FetchHourlyHistory(ctx, entityID, level, lookbackDays)
	if err != nil {
		r.logger.Error().Err(err).Str("entity_id", entityID).Int("lookback_days", lookbackDays).
			Msg("hourly history fetch failed; returning empty set")
		return nil
	}
	return rows
}
