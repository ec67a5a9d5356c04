package simulation

import (
	"fmt"
	"math"
	"strings"

	"campaign-sim/internal/metrics"
)

// Audience actions and their heuristic multipliers. A wider audience buys
// reach at the cost of relevance and (usually) cheaper clicks; narrowing is
// the opposite; shifting holds reach and leaves relevance uncertain.
const (
	AudienceExpand = "expand"
	AudienceNarrow = "narrow"
	AudienceShift  = "shift"
)

// defaultReachPct is assumed when no reach estimate is supplied.
const defaultReachPct = 20

type audienceMultipliers struct {
	ctr float64
	cpc float64
}

var audienceTable = map[string]audienceMultipliers{
	AudienceExpand: {ctr: 0.90, cpc: 0.95},
	AudienceNarrow: {ctr: 1.12, cpc: 1.06},
	AudienceShift:  {ctr: 1.00, cpc: 1.00},
}

// simulateAudienceChange scales impressions by the estimated reach change
// and applies fixed relevance/price multipliers. Conversion rate per click
// is held constant. The multipliers are not fitted to data, so confidence
// is always low.
func simulateAudienceChange(state PortfolioState, target metrics.EntityMetrics, action string, reachPct float64) Result {
	mults, ok := audienceTable[action]
	if !ok {
		return Result{
			Success:      false,
			CurrentState: &state,
			Confidence:   ConfidenceLow,
			MathExplanation: fmt.Sprintf(
				"Unknown audience action %q; expected %s, %s, or %s.",
				action, AudienceExpand, AudienceNarrow, AudienceShift),
		}
	}
	if target.Impressions == 0 || target.Clicks == 0 {
		return Result{
			Success:      false,
			CurrentState: &state,
			Confidence:   ConfidenceLow,
			MathExplanation: fmt.Sprintf(
				"Cannot simulate an audience change for %s: no impression/click data in the window.",
				entityLabel(target)),
		}
	}

	reach := math.Abs(reachPct)
	if reach == 0 {
		reach = defaultReachPct
	}

	var imprMult float64
	switch action {
	case AudienceExpand:
		imprMult = 1 + reach/100
	case AudienceNarrow:
		imprMult = 1 - reach/100
		if imprMult < 0.05 {
			imprMult = 0.05
		}
	default: // shift keeps reach constant
		imprMult = 1
	}

	ctr := float64(target.Clicks) / float64(target.Impressions)
	cpc := float64(target.SpendCents) / float64(target.Clicks)
	conversionsPerClick := target.Conversions / float64(target.Clicks)

	newImpressions := float64(target.Impressions) * imprMult
	newClicks := newImpressions * ctr * mults.ctr
	newEntitySpend := newClicks * cpc * mults.cpc
	newEntityConversions := newClicks * conversionsPerClick

	sim := projectState(state,
		float64(state.TotalSpendCents)-float64(target.SpendCents)+newEntitySpend,
		state.TotalConversions-target.Conversions+newEntityConversions)

	assumptions := []string{
		"Reach, relevance, and price multipliers are fixed heuristics, not fitted to this account's data.",
		"Conversion rate per click is held constant across the audience change.",
	}
	if action == AudienceShift {
		assumptions = append(assumptions,
			"A shifted audience's relevance is unknown; the projection assumes performance parity with the current audience.")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Audience %s for %s (reach change %s):\n", action, entityLabel(target), signedPct(signedReach(action, reach)))
	fmt.Fprintf(&b, "Impressions x%.2f, CTR x%.2f, CPC x%.2f.\n", imprMult, mults.ctr, mults.cpc)
	fmt.Fprintf(&b, "Entity: %s clicks -> %.0f clicks, spend %s -> %s, conversions %s -> %s.\n",
		fmt.Sprint(target.Clicks), newClicks,
		dollarsInt(target.SpendCents), dollars(newEntitySpend),
		count(target.Conversions), count(newEntityConversions))
	explainTransition(&b, state, sim)

	return Result{
		Success:         true,
		CurrentState:    &state,
		SimulatedState:  &sim,
		Confidence:      ConfidenceLow,
		Assumptions:     assumptions,
		MathExplanation: b.String(),
	}
}

func signedReach(action string, reach float64) float64 {
	switch action {
	case AudienceNarrow:
		return -reach
	case AudienceShift:
		return 0
	default:
		return reach
	}
}
