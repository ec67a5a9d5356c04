package simulation

import (
	"fmt"
	"strings"

	"campaign-sim/internal/metrics"
)

// simulateReallocation moves a fixed amount from one entity to another and
// predicts each side independently. Total spend is unchanged by
// construction, so spend_change_percent is exactly zero.
func simulateReallocation(state PortfolioState, from, to metrics.EntityMetrics, fromHistory, toHistory []metrics.HistoricalDataPoint, amountCents int64) Result {
	if amountCents <= 0 {
		return Result{
			Success:         false,
			CurrentState:    &state,
			Confidence:      ConfidenceLow,
			MathExplanation: "Reallocation requires a positive amount to move.",
		}
	}
	if amountCents > from.SpendCents {
		return Result{
			Success:      false,
			CurrentState: &state,
			Confidence:   ConfidenceLow,
			MathExplanation: fmt.Sprintf(
				"Cannot move %s out of %s: it only spent %s in the window.",
				dollarsInt(amountCents), entityLabel(from), dollarsInt(from.SpendCents)),
		}
	}

	fromNewSpend := float64(from.SpendCents - amountCents)
	toNewSpend := float64(to.SpendCents + amountCents)

	predFrom := PredictConversions(fromHistory, from.SpendCents, from.Conversions, fromNewSpend)
	predTo := PredictConversions(toHistory, to.SpendCents, to.Conversions, toNewSpend)

	deltaFrom := predFrom.Conversions - from.Conversions
	deltaTo := predTo.Conversions - to.Conversions

	newConversions := state.TotalConversions + deltaFrom + deltaTo
	sim := projectState(state, float64(state.TotalSpendCents), newConversions)
	sim.SpendChangePct = 0

	confidence := combineConfidence(predFrom.Confidence, predTo.Confidence)

	assumptions := []string{
		"Both entities follow independent power-law response curves; auction interaction between them is not modelled.",
		"Total spend is conserved: the amount removed from the source is added to the destination.",
	}
	if predFrom.Calibrated || predTo.Calibrated {
		assumptions = append(assumptions,
			fmt.Sprintf("At least one side uses single-point calibration with industry-prior alpha=%.1f.", priorAlpha))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Reallocate %s from %s to %s.\n",
		dollarsInt(amountCents), entityLabel(from), entityLabel(to))
	fmt.Fprintf(&b, "Source: spend %s -> %s, conversions %s -> %s (%s confidence).\n",
		dollarsInt(from.SpendCents), dollars(fromNewSpend),
		count(from.Conversions), count(predFrom.Conversions), predFrom.Confidence)
	fmt.Fprintf(&b, "Destination: spend %s -> %s, conversions %s -> %s (%s confidence).\n",
		dollarsInt(to.SpendCents), dollars(toNewSpend),
		count(to.Conversions), count(predTo.Conversions), predTo.Confidence)
	fmt.Fprintf(&b, "Net conversion delta: %s%s.\n", plusSign(deltaFrom+deltaTo), count(deltaFrom+deltaTo))
	explainTransition(&b, state, sim)

	model := predTo.Model
	if predFrom.Confidence.rank() < predTo.Confidence.rank() {
		model = predFrom.Model
	}

	return Result{
		Success:         true,
		CurrentState:    &state,
		SimulatedState:  &sim,
		Confidence:      confidence,
		Assumptions:     assumptions,
		MathExplanation: b.String(),
		Model:           &model,
	}
}

func plusSign(v float64) string {
	if v >= 0 {
		return "+"
	}
	return ""
}
