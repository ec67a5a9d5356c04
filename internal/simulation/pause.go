package simulation

import (
	"fmt"
	"strings"

	"campaign-sim/internal/metrics"
)

// simulatePause projects the portfolio with the target's exact spend and
// conversions subtracted. This is arithmetic, not a model, so confidence is
// always high.
func simulatePause(state PortfolioState, target metrics.EntityMetrics) Result {
	newSpend := float64(state.TotalSpendCents - target.SpendCents)
	newConversions := state.TotalConversions - target.Conversions

	var b strings.Builder
	fmt.Fprintf(&b, "Pause %s: subtract its window spend %s and %s conversions from the portfolio.\n",
		entityLabel(target), dollarsInt(target.SpendCents), count(target.Conversions))

	if newConversions <= 0 || newSpend <= 0 {
		sim := projectState(state, 0, 0)
		b.WriteString("This entity is the portfolio's only source of activity; pausing it removes 100% of conversions.\n")
		explainTransition(&b, state, sim)
		return Result{
			Success:        true,
			CurrentState:   &state,
			SimulatedState: &sim,
			Confidence:     ConfidenceHigh,
			Assumptions: []string{
				"Exact subtraction of observed values; no redistribution of demand to other entities is modelled.",
			},
			MathExplanation: b.String(),
		}
	}

	sim := projectState(state, newSpend, newConversions)
	explainTransition(&b, state, sim)

	return Result{
		Success:        true,
		CurrentState:   &state,
		SimulatedState: &sim,
		Confidence:     ConfidenceHigh,
		Assumptions: []string{
			"Exact subtraction of observed values; no redistribution of demand to other entities is modelled.",
		},
		MathExplanation: b.String(),
	}
}
