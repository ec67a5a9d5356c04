package simulation

import (
	"fmt"
	"strings"

	"campaign-sim/internal/metrics"
)

// largeChangePct marks budget moves far from the observed operating point.
const largeChangePct = 50

// simulateBudgetChange applies the diminishing-returns predictor at the
// target's new spend level and rolls the delta into the portfolio. The
// predictor's confidence tier propagates unchanged.
func simulateBudgetChange(state PortfolioState, target metrics.EntityMetrics, history []metrics.HistoricalDataPoint, changePct float64) Result {
	if changePct == 0 {
		return Result{
			Success:         false,
			CurrentState:    &state,
			Confidence:      ConfidenceLow,
			MathExplanation: "Budget change requires a non-zero percentage.",
		}
	}
	if changePct <= -100 {
		return Result{
			Success:         false,
			CurrentState:    &state,
			Confidence:      ConfidenceLow,
			MathExplanation: "A budget cut of 100% or more is a pause; simulate the pause action instead.",
		}
	}

	newEntitySpend := float64(target.SpendCents) * (1 + changePct/100)
	pred := PredictConversions(history, target.SpendCents, target.Conversions, newEntitySpend)

	newSpend := float64(state.TotalSpendCents) - float64(target.SpendCents) + newEntitySpend
	newConversions := state.TotalConversions - target.Conversions + pred.Conversions
	sim := projectState(state, newSpend, newConversions)

	assumptions := []string{
		"Conversion response follows a power law of spend; other entities are unaffected.",
	}
	if pred.Calibrated {
		assumptions = append(assumptions,
			fmt.Sprintf("No usable regression; single-point calibration with industry-prior alpha=%.1f reproduces today's observation exactly.", priorAlpha))
	}
	if pred.Model.Extrapolating {
		assumptions = append(assumptions,
			"Projected spend is outside the historically observed range; the fitted curve is unverified there.")
	}
	if changePct > largeChangePct || changePct < -largeChangePct {
		assumptions = append(assumptions,
			fmt.Sprintf("Changes beyond +/-%d%% sit far from the observed operating point, where the response curve is steeper than the fit suggests.", largeChangePct))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Budget change %s for %s: entity spend %s -> %s.\n",
		signedPct(changePct), entityLabel(target), dollarsInt(target.SpendCents), dollars(newEntitySpend))
	explainModel(&b, pred.Model)
	fmt.Fprintf(&b, "Predicted entity conversions: %s -> %s.\n",
		count(target.Conversions), count(pred.Conversions))
	explainTransition(&b, state, sim)

	model := pred.Model
	return Result{
		Success:         true,
		CurrentState:    &state,
		SimulatedState:  &sim,
		Confidence:      pred.Confidence,
		Assumptions:     assumptions,
		MathExplanation: b.String(),
		Model:           &model,
	}
}
