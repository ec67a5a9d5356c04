package simulation

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"campaign-sim/internal/metrics"
)

// Auction elasticity exponents for an explicit bid change: win rate scales
// roughly with bid^0.75 and paid CPC with bid^0.5 under second-price-like
// auctions. Fixed heuristics, not regressed from this account's auctions.
const (
	winRateExponent = 0.75
	cpcExponent     = 0.5
)

type bidMultipliers struct {
	winRate float64
	cpc     float64
}

var bidStrategies = map[string]bidMultipliers{
	"maximize_conversions": {winRate: 1.15, cpc: 1.20},
	"target_cpa":           {winRate: 0.95, cpc: 0.88},
	"maximize_clicks":      {winRate: 1.20, cpc: 1.05},
}

// simulateBidChange projects a bid delta or a named strategy switch through
// win-rate and CPC multipliers, holding conversion rate per click constant.
// Always low confidence.
func simulateBidChange(state PortfolioState, target metrics.EntityMetrics, bidPct float64, strategy string) Result {
	var mults bidMultipliers
	var label string

	switch {
	case strategy != "":
		known, ok := bidStrategies[strategy]
		if !ok {
			return Result{
				Success:      false,
				CurrentState: &state,
				Confidence:   ConfidenceLow,
				MathExplanation: fmt.Sprintf(
					"Unknown bid strategy %q; known strategies: %s.", strategy, knownStrategies()),
			}
		}
		mults = known
		label = fmt.Sprintf("switch to %s", strategy)
	case bidPct != 0:
		factor := 1 + bidPct/100
		if factor <= 0 {
			return Result{
				Success:         false,
				CurrentState:    &state,
				Confidence:      ConfidenceLow,
				MathExplanation: "A bid cut of 100% or more leaves no auction presence to model.",
			}
		}
		mults = bidMultipliers{
			winRate: math.Pow(factor, winRateExponent),
			cpc:     math.Pow(factor, cpcExponent),
		}
		label = fmt.Sprintf("bid %s", signedPct(bidPct))
	default:
		return Result{
			Success:         false,
			CurrentState:    &state,
			Confidence:      ConfidenceLow,
			MathExplanation: "Bid change requires either a non-zero percentage or a named strategy.",
		}
	}

	if target.Clicks == 0 {
		return Result{
			Success:      false,
			CurrentState: &state,
			Confidence:   ConfidenceLow,
			MathExplanation: fmt.Sprintf(
				"Cannot simulate a bid change for %s: no click data in the window.", entityLabel(target)),
		}
	}

	cpc := float64(target.SpendCents) / float64(target.Clicks)
	newClicks := float64(target.Clicks) * mults.winRate
	newEntitySpend := newClicks * cpc * mults.cpc
	newEntityConversions := target.Conversions * mults.winRate

	sim := projectState(state,
		float64(state.TotalSpendCents)-float64(target.SpendCents)+newEntitySpend,
		state.TotalConversions-target.Conversions+newEntityConversions)

	var b strings.Builder
	fmt.Fprintf(&b, "Bid change (%s) for %s: win-rate x%.3f, CPC x%.3f.\n",
		label, entityLabel(target), mults.winRate, mults.cpc)
	fmt.Fprintf(&b, "Entity: clicks %d -> %.0f, spend %s -> %s, conversions %s -> %s.\n",
		target.Clicks, newClicks,
		dollarsInt(target.SpendCents), dollars(newEntitySpend),
		count(target.Conversions), count(newEntityConversions))
	explainTransition(&b, state, sim)

	return Result{
		Success:        true,
		CurrentState:   &state,
		SimulatedState: &sim,
		Confidence:     ConfidenceLow,
		Assumptions: []string{
			"Win-rate and CPC elasticities are generic auction heuristics, not fitted to this account's auction data.",
			"Conversion rate per click is held constant across the bid change.",
		},
		MathExplanation: b.String(),
	}
}

func knownStrategies() string {
	names := make([]string, 0, len(bidStrategies))
	for name := range bidStrategies {
		names = append(names, name)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}
