package simulation

import (
	"math"
	"strings"
	"testing"

	"campaign-sim/internal/metrics"
)

func testEntity(id, name string, spendCents int64, conversions float64) metrics.EntityMetrics {
	return metrics.EntityMetrics{
		ID:          id,
		Name:        name,
		Platform:    "google",
		EntityType:  metrics.LevelCampaign,
		SpendCents:  spendCents,
		Conversions: conversions,
		Impressions: 100000,
		Clicks:      2000,
		CTR:         0.02,
		CPCCents:    float64(spendCents) / 2000,
	}
}

func approx(t *testing.T, name string, got, want, tolerance float64) {
	t.Helper()
	if math.Abs(got-want) > tolerance {
		t.Fatalf("%s: expected %f, got %f", name, want, got)
	}
}

func TestBuildPortfolioState(t *testing.T) {
	target := testEntity("c1", "Brand", 10000, 5)
	entities := []metrics.EntityMetrics{target, testEntity("c2", "Prospecting", 40000, 45)}

	state := BuildPortfolioState(entities, target)

	if state.TotalSpendCents != 50000 {
		t.Fatalf("expected total spend 50000, got %d", state.TotalSpendCents)
	}
	approx(t, "blended cac", state.BlendedCACCents, 1000, 1e-9)
	approx(t, "entity cac", state.Entity.CACCents, 2000, 1e-9)
	// Entity CAC 2000 vs blended 1000: 50% less efficient than average.
	approx(t, "efficiency", state.Entity.EfficiencyVsAverage, -50, 1e-9)
}

func TestBuildPortfolioStateZeroConversionsNeutral(t *testing.T) {
	target := testEntity("c1", "Brand", 10000, 0)
	state := BuildPortfolioState([]metrics.EntityMetrics{target}, target)

	if state.Entity.CACCents != 0 || state.Entity.EfficiencyVsAverage != 0 {
		t.Fatalf("zero conversions must be neutral, got %+v", state.Entity)
	}
}

func TestSimulatePauseArithmetic(t *testing.T) {
	target := testEntity("c1", "Brand", 10000, 5)
	entities := []metrics.EntityMetrics{target, testEntity("c2", "Prospecting", 40000, 45)}
	state := BuildPortfolioState(entities, target)

	res := simulatePause(state, target)

	if !res.Success {
		t.Fatalf("pause should succeed: %s", res.MathExplanation)
	}
	if res.Confidence != ConfidenceHigh {
		t.Fatalf("pause is exact arithmetic, expected high confidence, got %s", res.Confidence)
	}
	sim := res.SimulatedState
	approx(t, "spend", sim.TotalSpendCents, 40000, 1e-9)
	approx(t, "conversions", sim.TotalConversions, 45, 1e-9)
	approx(t, "cac", sim.BlendedCACCents, 888.889, 0.001)
	approx(t, "cac change", sim.CACChangePct, -11.111, 0.001)
	approx(t, "spend change", sim.SpendChangePct, -20, 1e-9)
	approx(t, "conversion change", sim.ConversionChangePct, -10, 1e-9)
}

func TestSimulatePauseOnlySource(t *testing.T) {
	target := testEntity("c1", "Brand", 10000, 5)
	state := BuildPortfolioState([]metrics.EntityMetrics{target}, target)

	res := simulatePause(state, target)

	if !res.Success || res.Confidence != ConfidenceHigh {
		t.Fatalf("100%%-loss scenario is still exact arithmetic: %+v", res)
	}
	if res.SimulatedState.TotalConversions != 0 {
		t.Fatalf("expected total loss, got %f conversions", res.SimulatedState.TotalConversions)
	}
	approx(t, "conversion change", res.SimulatedState.ConversionChangePct, -100, 1e-9)
}

func TestSimulateEnable(t *testing.T) {
	target := testEntity("c1", "Paused", 0, 0)
	entities := []metrics.EntityMetrics{target, testEntity("c2", "Active", 50000, 50)}
	state := BuildPortfolioState(entities, target)

	spends := make([]int64, 90)
	conversions := make([]float64, 90)
	for i := 0; i < 20; i++ {
		spends[i] = 1000
		conversions[i] = 2
	}
	history := dailyHistory(spends, conversions)

	res := simulateEnable(state, target, history, 30)

	if !res.Success {
		t.Fatalf("enable should succeed: %s", res.MathExplanation)
	}
	if res.Confidence != ConfidenceMedium {
		t.Fatalf("20 active days should earn medium, got %s", res.Confidence)
	}
	approx(t, "spend", res.SimulatedState.TotalSpendCents, 80000, 1e-6)
	approx(t, "conversions", res.SimulatedState.TotalConversions, 110, 1e-6)
}

func TestSimulateEnableTooFewActiveDays(t *testing.T) {
	target := testEntity("c1", "Paused", 0, 0)
	state := BuildPortfolioState([]metrics.EntityMetrics{target}, target)

	history := dailyHistory([]int64{0, 1000, 0, 1000}, []float64{0, 1, 0, 1})

	res := simulateEnable(state, target, history, 30)

	if res.Success {
		t.Fatal("2 active days must decline to simulate")
	}
	if res.Confidence != ConfidenceLow {
		t.Fatalf("expected low confidence, got %s", res.Confidence)
	}
}

func TestSimulateBudgetChangePropagatesConfidence(t *testing.T) {
	target := testEntity("c1", "Brand", 20000, 2*math.Sqrt(20000))
	entities := []metrics.EntityMetrics{target, testEntity("c2", "Prospecting", 40000, 45)}
	state := BuildPortfolioState(entities, target)
	history := powerLawHistory(20, 10000, 1000, 2, 0.5)

	res := simulateBudgetChange(state, target, history, 20)

	if !res.Success {
		t.Fatalf("budget change should succeed: %s", res.MathExplanation)
	}
	if res.Confidence != ConfidenceHigh {
		t.Fatalf("expected the fit's high confidence to propagate, got %s", res.Confidence)
	}
	if res.Model == nil || math.Abs(res.Model.Alpha-0.5) > 1e-6 {
		t.Fatalf("expected fitted model attached, got %+v", res.Model)
	}
}

func TestSimulateBudgetChangeLargeMoveWarning(t *testing.T) {
	target := testEntity("c1", "Brand", 20000, 2*math.Sqrt(20000))
	state := BuildPortfolioState([]metrics.EntityMetrics{target}, target)
	history := powerLawHistory(20, 10000, 1000, 2, 0.5)

	res := simulateBudgetChange(state, target, history, 80)

	found := false
	for _, assumption := range res.Assumptions {
		if strings.Contains(assumption, "50%") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a steep-curve warning beyond +/-50%%, got %v", res.Assumptions)
	}
}

func TestSimulateBudgetChangeRejectsFullCut(t *testing.T) {
	target := testEntity("c1", "Brand", 20000, 10)
	state := BuildPortfolioState([]metrics.EntityMetrics{target}, target)

	res := simulateBudgetChange(state, target, nil, -100)

	if res.Success {
		t.Fatal("a -100% budget change must be rejected")
	}
}

func TestSimulateAudienceChangeAlwaysLow(t *testing.T) {
	target := testEntity("c1", "Brand", 20000, 10)
	entities := []metrics.EntityMetrics{target, testEntity("c2", "Prospecting", 40000, 45)}
	state := BuildPortfolioState(entities, target)

	for _, action := range []string{AudienceExpand, AudienceNarrow, AudienceShift} {
		res := simulateAudienceChange(state, target, action, 30)
		if !res.Success {
			t.Fatalf("audience %s should succeed: %s", action, res.MathExplanation)
		}
		if res.Confidence != ConfidenceLow {
			t.Fatalf("audience heuristics are never better than low, got %s for %s", res.Confidence, action)
		}
	}
}

func TestSimulateAudienceChangeUnknownAction(t *testing.T) {
	target := testEntity("c1", "Brand", 20000, 10)
	state := BuildPortfolioState([]metrics.EntityMetrics{target}, target)

	res := simulateAudienceChange(state, target, "boost", 30)

	if res.Success {
		t.Fatal("unknown audience action must fail")
	}
}

func TestSimulateAudienceShiftHoldsReach(t *testing.T) {
	target := testEntity("c1", "Brand", 20000, 10)
	state := BuildPortfolioState([]metrics.EntityMetrics{target}, target)

	res := simulateAudienceChange(state, target, AudienceShift, 40)

	// Shift holds impressions, CTR, and CPC multipliers at 1.0.
	approx(t, "spend", res.SimulatedState.TotalSpendCents, 20000, 1e-6)
	approx(t, "conversions", res.SimulatedState.TotalConversions, 10, 1e-6)
}

func TestSimulateBidChange(t *testing.T) {
	target := testEntity("c1", "Brand", 20000, 10)
	entities := []metrics.EntityMetrics{target, testEntity("c2", "Prospecting", 40000, 45)}
	state := BuildPortfolioState(entities, target)

	res := simulateBidChange(state, target, 20, "")

	if !res.Success {
		t.Fatalf("bid change should succeed: %s", res.MathExplanation)
	}
	if res.Confidence != ConfidenceLow {
		t.Fatalf("bid heuristics are never better than low, got %s", res.Confidence)
	}

	// win-rate (1.2)^0.75, conversions scale with win rate.
	winRate := math.Pow(1.2, 0.75)
	wantConversions := 45 + 10*winRate
	approx(t, "conversions", res.SimulatedState.TotalConversions, wantConversions, 1e-6)
}

func TestSimulateBidChangeNamedStrategy(t *testing.T) {
	target := testEntity("c1", "Brand", 20000, 10)
	state := BuildPortfolioState([]metrics.EntityMetrics{target}, target)

	res := simulateBidChange(state, target, 0, "target_cpa")
	if !res.Success {
		t.Fatalf("known strategy should succeed: %s", res.MathExplanation)
	}

	res = simulateBidChange(state, target, 0, "win_everything")
	if res.Success {
		t.Fatal("unknown strategy must fail")
	}
	if !strings.Contains(res.MathExplanation, "maximize_clicks") {
		t.Fatalf("failure should list known strategies, got %s", res.MathExplanation)
	}
}

func TestSimulateBidChangeRequiresParams(t *testing.T) {
	target := testEntity("c1", "Brand", 20000, 10)
	state := BuildPortfolioState([]metrics.EntityMetrics{target}, target)

	if res := simulateBidChange(state, target, 0, ""); res.Success {
		t.Fatal("bid change with no parameters must fail")
	}
	if res := simulateBidChange(state, target, -100, ""); res.Success {
		t.Fatal("a -100% bid change must fail")
	}
}

func TestSimulateScheduleChangeBenchmarkFallback(t *testing.T) {
	target := testEntity("c1", "Brand", 24000, 24)
	entities := []metrics.EntityMetrics{target, testEntity("c2", "Prospecting", 40000, 45)}
	state := BuildPortfolioState(entities, target)

	res := simulateScheduleChange(state, target, nil, nil, []int{0, 1})

	if !res.Success {
		t.Fatalf("schedule change should succeed: %s", res.MathExplanation)
	}
	if res.Confidence != ConfidenceLow {
		t.Fatalf("benchmark fallback must be low confidence, got %s", res.Confidence)
	}
	// Hours 0+1 carry 1.8% of the benchmark distribution.
	approx(t, "spend", res.SimulatedState.TotalSpendCents, 64000-24000*0.018, 1e-6)
}

func TestSimulateScheduleChangeRealHourlyData(t *testing.T) {
	target := testEntity("c1", "Brand", 24000, 24)
	state := BuildPortfolioState([]metrics.EntityMetrics{target}, target)

	// 14 days x 24 hours, active 08:00-19:00 at a flat rate.
	var hourly []metrics.HistoricalDataPoint
	for day := 0; day < 14; day++ {
		for hour := 0; hour < 24; hour++ {
			h := hour
			p := metrics.HistoricalDataPoint{Hour: &h}
			if hour >= 8 && hour < 20 {
				p.SpendCents = 100
				p.Conversions = 0.1
			}
			hourly = append(hourly, p)
		}
	}

	res := simulateScheduleChange(state, target, hourly, nil, []int{12})

	if res.Confidence != ConfidenceMedium {
		t.Fatalf("real hourly data should earn medium, got %s", res.Confidence)
	}
	// Hour 12 carries 1/12 of the active spend.
	approx(t, "spend", res.SimulatedState.TotalSpendCents, 24000-24000.0/12, 1e-6)
}

func TestSimulateScheduleChangeValidatesHours(t *testing.T) {
	target := testEntity("c1", "Brand", 24000, 24)
	state := BuildPortfolioState([]metrics.EntityMetrics{target}, target)

	if res := simulateScheduleChange(state, target, nil, []int{25}, nil); res.Success {
		t.Fatal("hour 25 must be rejected")
	}
	if res := simulateScheduleChange(state, target, nil, nil, nil); res.Success {
		t.Fatal("empty schedule change must be rejected")
	}
}
