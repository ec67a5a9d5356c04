package simulation

import (
	"fmt"
	"strings"

	"campaign-sim/internal/metrics"
)

const (
	// minActiveDays is the least history acceptable for an enable estimate;
	// mediumActiveDays earns the medium tier.
	minActiveDays    = 3
	mediumActiveDays = 14
)

// simulateEnable projects re-enabling a paused entity from its historical
// active-day averages, scaled to the portfolio's lookback window so both
// sides of the comparison cover the same period.
func simulateEnable(state PortfolioState, target metrics.EntityMetrics, history []metrics.HistoricalDataPoint, windowDays int) Result {
	var activeDays int
	var activeSpend int64
	var activeConversions float64
	for _, p := range history {
		if p.SpendCents > 0 {
			activeDays++
			activeSpend += p.SpendCents
			activeConversions += p.Conversions
		}
	}

	if activeDays < minActiveDays {
		return Result{
			Success:      false,
			CurrentState: &state,
			Confidence:   ConfidenceLow,
			MathExplanation: fmt.Sprintf(
				"Cannot simulate enabling %s: only %d active days found in the last %d days (need at least %d to estimate a daily run rate).",
				entityLabel(target), activeDays, len(history), minActiveDays),
		}
	}

	avgDailySpend := float64(activeSpend) / float64(activeDays)
	avgDailyConversions := activeConversions / float64(activeDays)

	addSpend := avgDailySpend * float64(windowDays)
	addConversions := avgDailyConversions * float64(windowDays)

	sim := projectState(state,
		float64(state.TotalSpendCents)+addSpend,
		state.TotalConversions+addConversions)

	confidence := ConfidenceLow
	if activeDays >= mediumActiveDays {
		confidence = ConfidenceMedium
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Enable %s: average over %d active days is %s/day and %s conversions/day.\n",
		entityLabel(target), activeDays, dollars(avgDailySpend), count(avgDailyConversions))
	fmt.Fprintf(&b, "Scaled to the %d-day window: +%s spend, +%s conversions.\n",
		windowDays, dollars(addSpend), count(addConversions))
	explainTransition(&b, state, sim)

	return Result{
		Success:        true,
		CurrentState:   &state,
		SimulatedState: &sim,
		Confidence:     confidence,
		Assumptions: []string{
			"The entity resumes at its historical active-day average; platform relearning and seasonality are not modelled.",
		},
		MathExplanation: b.String(),
	}
}
