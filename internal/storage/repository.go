package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"campaign-sim/internal/metrics"
)

var (
	// ErrNotConfigured indicates the storage pool was not initialised.
	ErrNotConfigured = errors.New("storage: pool not configured")
)

const (
	// Portfolio rows aggregate the current window, but the WHERE clause spans
	// the 3x prior window so paused entities (prior spend, no current spend)
	// still surface as enable candidates.
	fetchPortfolioSQL = `SELECT
        entity_id,
        entity_name,
        platform,
        COALESCE(SUM(spend_cents) FILTER (WHERE day >= $2), 0),
        COALESCE(SUM(conversions) FILTER (WHERE day >= $2), 0),
        COALESCE(SUM(impressions) FILTER (WHERE day >= $2), 0),
        COALESCE(SUM(clicks)      FILTER (WHERE day >= $2), 0)
    FROM entity_daily_metrics
    WHERE entity_level = $1
      AND day >= $3
    GROUP BY entity_id, entity_name, platform
    HAVING SUM(spend_cents) > 0
    ORDER BY 4 DESC, entity_id;`

	// The calendar join synthesises zero rows for inactive days; downstream
	// day counting depends on those rows being present.
	fetchEntityHistorySQL = `SELECT
        d.day::date,
        COALESCE(m.spend_cents, 0),
        COALESCE(m.conversions, 0),
        COALESCE(m.impressions, 0),
        COALESCE(m.clicks, 0)
    FROM generate_series($3::date, CURRENT_DATE, interval '1 day') AS d(day)
    LEFT JOIN entity_daily_metrics m
      ON m.day = d.day::date
     AND m.entity_id = $1
     AND m.entity_level = $2
    ORDER BY d.day;`

	fetchHourlyHistorySQL = `SELECT
        day,
        hour,
        spend_cents,
        conversions,
        impressions,
        clicks
    FROM entity_hourly_metrics
    WHERE entity_id = $1
      AND entity_level = $2
      AND day >= $3
    ORDER BY day, hour;`
)

// Store reads aggregated ad performance rows out of PostgreSQL.
type Store struct {
	pool *pgxpool.Pool
}

var _ metrics.Source = (*Store)(nil)

// NewStore wires a pgx pool into a Store.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Close releases the underlying pool resources.
func (s *Store) Close() {
	if s == nil || s.pool == nil {
		return
	}
	s.pool.Close()
}

func (s *Store) getPool() (*pgxpool.Pool, error) {
	if s == nil || s.pool == nil {
		return nil, ErrNotConfigured
	}
	return s.pool, nil
}

// FetchPortfolio returns one aggregated row per entity with spend in the
// current or prior (3x lookback) window.
func (s *Store) FetchPortfolio(ctx context.Context, level metrics.EntityLevel, lookbackDays int) ([]metrics.EntityMetrics, error) {
	pool, err := s.getPool()
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	windowStart := now.AddDate(0, 0, -lookbackDays)
	priorStart := now.AddDate(0, 0, -3*lookbackDays)

	rows, queryErr := pool.Query(ctx, fetchPortfolioSQL, string(level), windowStart, priorStart)
	if queryErr != nil {
		return nil, fmt.Errorf("fetch portfolio: %w", queryErr)
	}
	defer rows.Close()

	entities := make([]metrics.EntityMetrics, 0)
	for rows.Next() {
		entity, scanErr := scanEntityMetrics(rows, level)
		if scanErr != nil {
			return nil, scanErr
		}
		entities = append(entities, entity)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return entities, nil
}

// FetchEntityHistory returns daily observations ordered by date ascending,
// including zero-spend/zero-conversion days.
func (s *Store) FetchEntityHistory(ctx context.Context, entityID string, level metrics.EntityLevel, lookbackDays int) ([]metrics.HistoricalDataPoint, error) {
	pool, err := s.getPool()
	if err != nil {
		return nil, err
	}

	windowStart := time.Now().UTC().AddDate(0, 0, -lookbackDays)

	rows, queryErr := pool.Query(ctx, fetchEntityHistorySQL, entityID, string(level), windowStart)
	if queryErr != nil {
		return nil, fmt.Errorf("fetch entity history: %w", queryErr)
	}
	defer rows.Close()

	points := make([]metrics.HistoricalDataPoint, 0, lookbackDays)
	for rows.Next() {
		var p metrics.HistoricalDataPoint
		if scanErr := rows.Scan(&p.Date, &p.SpendCents, &p.Conversions, &p.Impressions, &p.Clicks); scanErr != nil {
			return nil, fmt.Errorf("scan entity history: %w", scanErr)
		}
		points = append(points, p)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return points, nil
}

// FetchHourlyHistory returns hour-granular observations; an empty result is
// valid and triggers the caller's benchmark fallback.
func (s *Store) FetchHourlyHistory(ctx context.Context, entityID string, level metrics.EntityLevel, lookbackDays int) ([]metrics.HistoricalDataPoint, error) {
	pool, err := s.getPool()
	if err != nil {
		return nil, err
	}

	windowStart := time.Now().UTC().AddDate(0, 0, -lookbackDays)

	rows, queryErr := pool.Query(ctx, fetchHourlyHistorySQL, entityID, string(level), windowStart)
	if queryErr != nil {
		return nil, fmt.Errorf("fetch hourly history: %w", queryErr)
	}
	defer rows.Close()

	points := make([]metrics.HistoricalDataPoint, 0)
	for rows.Next() {
		var p metrics.HistoricalDataPoint
		var hour int
		if scanErr := rows.Scan(&p.Date, &hour, &p.SpendCents, &p.Conversions, &p.Impressions, &p.Clicks); scanErr != nil {
			return nil, fmt.Errorf("scan hourly history: %w", scanErr)
		}
		p.Hour = &hour
		points = append(points, p)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return points, nil
}

func scanEntityMetrics(rows pgx.Rows, level metrics.EntityLevel) (metrics.EntityMetrics, error) {
	var e metrics.EntityMetrics
	if err := rows.Scan(
		&e.ID,
		&e.Name,
		&e.Platform,
		&e.SpendCents,
		&e.Conversions,
		&e.Impressions,
		&e.Clicks,
	); err != nil {
		return metrics.EntityMetrics{}, fmt.Errorf("scan portfolio row: %w", err)
	}

	e.EntityType = level
	if e.Impressions > 0 {
		e.CTR = float64(e.Clicks) / float64(e.Impressions)
	}
	if e.Clicks > 0 {
		e.CPCCents = float64(e.SpendCents) / float64(e.Clicks)
	}
	return e, nil
}
