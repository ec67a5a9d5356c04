package metrics

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
)

type stubSource struct {
	portfolio []EntityMetrics
	history   []HistoricalDataPoint
	err       error
}

func (s *stubSource) FetchPortfolio(ctx context.Context, level EntityLevel, lookbackDays int) ([]EntityMetrics, error) {
	return s.portfolio, s.err
}

func (s *stubSource) FetchEntityHistory(ctx context.Context, entityID string, level EntityLevel, lookbackDays int) ([]HistoricalDataPoint, error) {
	return s.history, s.err
}

func (s *stubSource) FetchHourlyHistory(ctx context.Context, entityID string, level EntityLevel, lookbackDays int) ([]HistoricalDataPoint, error) {
	return s.history, s.err
}

func TestRepositoryAbsorbsSourceErrors(t *testing.T) {
	repo := NewRepository(&stubSource{err: errors.New("connection refused")}, zerolog.Nop())
	ctx := context.Background()

	if rows := repo.Portfolio(ctx, LevelCampaign, 30); len(rows) != 0 {
		t.Fatalf("expected empty portfolio on error, got %d rows", len(rows))
	}
	if rows := repo.EntityHistory(ctx, "c1", LevelCampaign, 90); len(rows) != 0 {
		t.Fatalf("expected empty history on error, got %d rows", len(rows))
	}
	if rows := repo.HourlyHistory(ctx, "c1", LevelCampaign, 14); len(rows) != 0 {
		t.Fatalf("expected empty hourly history on error, got %d rows", len(rows))
	}
}

func TestRepositoryPassesThroughRows(t *testing.T) {
	src := &stubSource{
		portfolio: []EntityMetrics{{ID: "c1", Name: "Brand", SpendCents: 1000}},
		history:   []HistoricalDataPoint{{SpendCents: 100, Conversions: 1}},
	}
	repo := NewRepository(src, zerolog.Nop())
	ctx := context.Background()

	rows := repo.Portfolio(ctx, LevelCampaign, 30)
	if len(rows) != 1 || rows[0].ID != "c1" {
		t.Fatalf("unexpected portfolio rows: %+v", rows)
	}
	if got := repo.EntityHistory(ctx, "c1", LevelCampaign, 90); len(got) != 1 {
		t.Fatalf("unexpected history rows: %+v", got)
	}
}

func TestParseLevel(t *testing.T) {
	cases := []struct {
		in   string
		want EntityLevel
		ok   bool
	}{
		{"campaign", LevelCampaign, true},
		{"ad_group", LevelAdGroup, true},
		{"ad", LevelAd, true},
		{"", "", false},
		{"keyword", "", false},
	}
	for _, c := range cases {
		got, ok := ParseLevel(c.in)
		if ok != c.ok || (ok && got != c.want) {
			t.Fatalf("ParseLevel(%q) = %q, %v; expected %q, %v", c.in, got, ok, c.want, c.ok)
		}
	}
}
