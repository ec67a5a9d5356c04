package simulation

import "campaign-sim/internal/metrics"

// BuildPortfolioState sums spend and conversions across all entities at one
// level and computes the target's standalone CAC plus its efficiency
// relative to the blended average. Zero-conversion ratios are treated as
// neutral (0), not as errors.
func BuildPortfolioState(entities []metrics.EntityMetrics, target metrics.EntityMetrics) PortfolioState {
	var totalSpend int64
	var totalConversions float64
	for _, e := range entities {
		totalSpend += e.SpendCents
		totalConversions += e.Conversions
	}

	var blended float64
	if totalConversions > 0 {
		blended = float64(totalSpend) / totalConversions
	}

	var entityCAC float64
	if target.Conversions > 0 {
		entityCAC = float64(target.SpendCents) / target.Conversions
	}

	var efficiency float64
	if entityCAC > 0 && blended > 0 {
		efficiency = (blended/entityCAC - 1) * 100
	}

	return PortfolioState{
		TotalSpendCents:  totalSpend,
		TotalConversions: totalConversions,
		BlendedCACCents:  blended,
		Entity: EntityState{
			CACCents:            entityCAC,
			EfficiencyVsAverage: efficiency,
		},
	}
}
