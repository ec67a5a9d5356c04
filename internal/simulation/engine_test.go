package simulation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"campaign-sim/internal/metrics"
)

type fakeSource struct {
	portfolio []metrics.EntityMetrics
	history   map[string][]metrics.HistoricalDataPoint
	hourly    map[string][]metrics.HistoricalDataPoint
	err       error
}

func (f *fakeSource) FetchPortfolio(ctx context.Context, level metrics.EntityLevel, lookbackDays int) ([]metrics.EntityMetrics, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.portfolio, nil
}

func (f *fakeSource) FetchEntityHistory(ctx context.Context, entityID string, level metrics.EntityLevel, lookbackDays int) ([]metrics.HistoricalDataPoint, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.history[entityID], nil
}

func (f *fakeSource) FetchHourlyHistory(ctx context.Context, entityID string, level metrics.EntityLevel, lookbackDays int) ([]metrics.HistoricalDataPoint, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.hourly[entityID], nil
}

func newTestEngine(src *fakeSource) *Engine {
	repo := metrics.NewRepository(src, zerolog.Nop())
	return NewEngine(repo, Config{}, zerolog.Nop())
}

func TestEngineSimulatePause(t *testing.T) {
	engine := newTestEngine(&fakeSource{
		portfolio: []metrics.EntityMetrics{
			testEntity("c1", "Brand", 10000, 5),
			testEntity("c2", "Prospecting", 40000, 45),
		},
	})

	res := engine.Simulate(context.Background(), Request{
		Action:    ActionPause,
		TargetRef: "Brand",
		Level:     metrics.LevelCampaign,
	})

	if !res.Success {
		t.Fatalf("expected success: %s", res.MathExplanation)
	}
	if res.Action != ActionPause || res.EntityID != "c1" || res.EntityName != "Brand" {
		t.Fatalf("result not stamped with action and entity: %+v", res)
	}
	approx(t, "spend", res.SimulatedState.TotalSpendCents, 40000, 1e-9)
}

func TestEngineUnknownAction(t *testing.T) {
	engine := newTestEngine(&fakeSource{})

	res := engine.Simulate(context.Background(), Request{
		Action:    ActionType("boost"),
		TargetRef: "c1",
		Level:     metrics.LevelCampaign,
	})

	if res.Success {
		t.Fatal("unknown action must not succeed")
	}
	if !strings.Contains(res.MathExplanation, "boost") {
		t.Fatalf("explanation should name the rejected action, got %s", res.MathExplanation)
	}
}

func TestEngineEmptyPortfolio(t *testing.T) {
	engine := newTestEngine(&fakeSource{err: errors.New("connection refused")})

	res := engine.Simulate(context.Background(), Request{
		Action:    ActionPause,
		TargetRef: "c1",
		Level:     metrics.LevelCampaign,
	})

	if res.Success {
		t.Fatal("a broken store must surface as an unsuccessful result, not a panic")
	}
	if res.Confidence != ConfidenceLow {
		t.Fatalf("expected low confidence, got %s", res.Confidence)
	}
	if !strings.Contains(res.MathExplanation, "No entity metrics") {
		t.Fatalf("unexpected explanation: %s", res.MathExplanation)
	}
}

func TestEngineTargetNotFoundListsCandidates(t *testing.T) {
	var entities []metrics.EntityMetrics
	for i := 0; i < 15; i++ {
		entities = append(entities, testEntity(fmt.Sprintf("c%d", i), fmt.Sprintf("Campaign %d", i), 1000, 1))
	}
	engine := newTestEngine(&fakeSource{portfolio: entities})

	res := engine.Simulate(context.Background(), Request{
		Action:    ActionPause,
		TargetRef: "does-not-exist",
		Level:     metrics.LevelCampaign,
	})

	if res.Success {
		t.Fatal("an unresolvable target must not succeed")
	}
	if n := strings.Count(res.MathExplanation, ";") + 1; n != maxCandidates {
		t.Fatalf("expected %d candidates in the explanation, got %d: %s", maxCandidates, n, res.MathExplanation)
	}
}

func TestEngineReallocationGuards(t *testing.T) {
	engine := newTestEngine(&fakeSource{
		portfolio: []metrics.EntityMetrics{
			testEntity("c1", "Brand", 20000, 10),
			testEntity("c2", "Prospecting", 15000, 8),
		},
	})

	res := engine.Simulate(context.Background(), Request{
		Action:    ActionReallocate,
		TargetRef: "c1",
		Level:     metrics.LevelCampaign,
		Params:    ActionParams{AmountCents: 5000},
	})
	if res.Success || !strings.Contains(res.MathExplanation, "destination") {
		t.Fatalf("missing destination should be rejected, got %+v", res)
	}

	res = engine.Simulate(context.Background(), Request{
		Action:       ActionReallocate,
		TargetRef:    "c1",
		SecondaryRef: "Brand",
		Level:        metrics.LevelCampaign,
		Params:       ActionParams{AmountCents: 5000},
	})
	if res.Success || !strings.Contains(res.MathExplanation, "same entity") {
		t.Fatalf("self-reallocation should be rejected, got %+v", res)
	}
}

func TestEngineReallocationEndToEnd(t *testing.T) {
	engine := newTestEngine(&fakeSource{
		portfolio: []metrics.EntityMetrics{
			testEntity("c1", "Brand", 20000, 10),
			testEntity("c2", "Prospecting", 15000, 8),
		},
		history: map[string][]metrics.HistoricalDataPoint{
			"c1": powerLawHistory(20, 10000, 1000, 2, 0.5),
			"c2": powerLawHistory(20, 10000, 1000, 2, 0.5),
		},
	})

	res := engine.Simulate(context.Background(), Request{
		Action:       ActionReallocate,
		TargetRef:    "Brand",
		SecondaryRef: "Prospecting",
		Level:        metrics.LevelCampaign,
		Params:       ActionParams{AmountCents: 5000},
	})

	if !res.Success {
		t.Fatalf("expected success: %s", res.MathExplanation)
	}
	if res.SimulatedState.SpendChangePct != 0 {
		t.Fatalf("reallocation must conserve total spend, got %f%%", res.SimulatedState.SpendChangePct)
	}
}

func TestEngineBudgetChangeFetchesModelWindow(t *testing.T) {
	engine := newTestEngine(&fakeSource{
		portfolio: []metrics.EntityMetrics{testEntity("c1", "Brand", 20000, 283)},
		history: map[string][]metrics.HistoricalDataPoint{
			"c1": powerLawHistory(20, 10000, 1000, 2, 0.5),
		},
	})

	res := engine.Simulate(context.Background(), Request{
		Action:    ActionBudgetChange,
		TargetRef: "c1",
		Level:     metrics.LevelCampaign,
		Params:    ActionParams{BudgetChangePct: 20},
	})

	if !res.Success {
		t.Fatalf("expected success: %s", res.MathExplanation)
	}
	if res.Model == nil || res.Model.DataPoints != 20 {
		t.Fatalf("expected the fitted model over 20 days attached, got %+v", res.Model)
	}
}
