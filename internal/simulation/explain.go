package simulation

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"campaign-sim/internal/metrics"
)

var hundred = decimal.NewFromInt(100)

// dollars renders a cent amount as "$x.xx" for derivation text.
func dollars(cents float64) string {
	return "$" + decimal.NewFromFloat(cents).Div(hundred).StringFixed(2)
}

func dollarsInt(cents int64) string {
	return "$" + decimal.NewFromInt(cents).Div(hundred).StringFixed(2)
}

// signedPct renders a percentage with an explicit sign, e.g. "+12.5%".
func signedPct(v float64) string {
	s := decimal.NewFromFloat(v).StringFixed(1)
	if v >= 0 {
		return "+" + s + "%"
	}
	return s + "%"
}

func count(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(1)
}

// percentChange is relative to base; a zero base yields 0, not infinity.
func percentChange(base, next float64) float64 {
	if base == 0 {
		return 0
	}
	return (next - base) / base * 100
}

// projectState derives the simulated portfolio from new totals, with all
// percent changes expressed against the current state.
func projectState(state PortfolioState, newSpendCents, newConversions float64) SimulatedState {
	if newSpendCents < 0 {
		newSpendCents = 0
	}
	if newConversions < 0 {
		newConversions = 0
	}

	var blended float64
	if newConversions > 0 {
		blended = newSpendCents / newConversions
	}

	return SimulatedState{
		TotalSpendCents:     newSpendCents,
		TotalConversions:    newConversions,
		BlendedCACCents:     blended,
		SpendChangePct:      percentChange(float64(state.TotalSpendCents), newSpendCents),
		ConversionChangePct: percentChange(state.TotalConversions, newConversions),
		CACChangePct:        percentChange(state.BlendedCACCents, blended),
	}
}

// explainTransition writes the standard before/after portfolio lines shared
// by every simulator's derivation text.
func explainTransition(b *strings.Builder, state PortfolioState, sim SimulatedState) {
	fmt.Fprintf(b, "Portfolio spend: %s -> %s (%s)\n",
		dollarsInt(state.TotalSpendCents), dollars(sim.TotalSpendCents), signedPct(sim.SpendChangePct))
	fmt.Fprintf(b, "Portfolio conversions: %s -> %s (%s)\n",
		count(state.TotalConversions), count(sim.TotalConversions), signedPct(sim.ConversionChangePct))
	fmt.Fprintf(b, "Blended CAC: %s -> %s (%s)",
		dollars(state.BlendedCACCents), dollars(sim.BlendedCACCents), signedPct(sim.CACChangePct))
}

func explainModel(b *strings.Builder, model Model) {
	fmt.Fprintf(b, "Fitted model: conversions = %.4g * spend^%.2f (R^2=%.2f over %d active days)\n",
		model.K, model.Alpha, model.RSquared, model.DataPoints)
	if model.Extrapolating {
		b.WriteString("Projection extrapolates beyond the observed spend range.\n")
	}
}

func entityLabel(e metrics.EntityMetrics) string {
	return fmt.Sprintf("%q (%s)", e.Name, e.ID)
}
