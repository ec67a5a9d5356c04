package simulation

import (
	"fmt"
	"strings"

	"campaign-sim/internal/metrics"
)

// minHourlyPoints is one full week of hourly rows; below that the industry
// benchmark profile stands in for the entity's own hourly distribution.
const minHourlyPoints = 168

// benchmarkHourShare is a fixed industry hour-of-day spend/conversion
// distribution: quiet overnight, ramping through the morning, peaking in
// the evening. The 24 shares sum to 1.
var benchmarkHourShare = [24]float64{
	0.010, 0.008, 0.006, 0.005, 0.005, 0.008,
	0.015, 0.028, 0.042, 0.050, 0.055, 0.058,
	0.060, 0.058, 0.055, 0.052, 0.055, 0.060,
	0.068, 0.072, 0.070, 0.062, 0.055, 0.043,
}

// simulateScheduleChange adds/removes hours of day from the target's
// delivery schedule. Removed hours subtract their historical share of spend
// and conversions; added hours are estimated at the entity's flat average
// hourly rate, converting at the portfolio's blended CAC.
func simulateScheduleChange(state PortfolioState, target metrics.EntityMetrics, hourly []metrics.HistoricalDataPoint, addHours, removeHours []int) Result {
	add, addOK := normalizeHours(addHours)
	remove, removeOK := normalizeHours(removeHours)
	if !addOK || !removeOK {
		return Result{
			Success:         false,
			CurrentState:    &state,
			Confidence:      ConfidenceLow,
			MathExplanation: "Schedule hours must be within 0-23.",
		}
	}
	if len(add) == 0 && len(remove) == 0 {
		return Result{
			Success:         false,
			CurrentState:    &state,
			Confidence:      ConfidenceLow,
			MathExplanation: "Schedule change requires at least one hour to add or remove.",
		}
	}

	spendShare, convShare, realData := hourProfiles(hourly)

	var removedSpendFrac, removedConvFrac float64
	for _, h := range remove {
		removedSpendFrac += spendShare[h]
		removedConvFrac += convShare[h]
	}

	// Each added hour is assumed to perform like the mean hour of a full
	// day at the entity's current intensity.
	addedFrac := float64(len(add)) / 24

	removedSpend := float64(target.SpendCents) * removedSpendFrac
	removedConversions := target.Conversions * removedConvFrac
	addedSpend := float64(target.SpendCents) * addedFrac

	var addedConversions float64
	if state.BlendedCACCents > 0 {
		addedConversions = addedSpend / state.BlendedCACCents
	}

	newEntitySpend := float64(target.SpendCents) - removedSpend + addedSpend
	newEntityConversions := target.Conversions - removedConversions + addedConversions
	if newEntitySpend < 0 {
		newEntitySpend = 0
	}
	if newEntityConversions < 0 {
		newEntityConversions = 0
	}

	sim := projectState(state,
		float64(state.TotalSpendCents)-float64(target.SpendCents)+newEntitySpend,
		state.TotalConversions-target.Conversions+newEntityConversions)

	confidence := ConfidenceLow
	profileSource := "industry hour-of-day benchmark"
	assumptions := []string{
		"Hour-of-day performance shares are independent: removing an hour does not shift demand into adjacent hours.",
		"Added hours convert at the portfolio's blended CAC.",
	}
	if realData {
		confidence = ConfidenceMedium
		profileSource = fmt.Sprintf("%d hourly observations", len(hourly))
	} else {
		assumptions = append(assumptions,
			fmt.Sprintf("Fewer than %d hourly observations available; the hourly profile is an industry benchmark, not this entity's data.", minHourlyPoints))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Schedule change for %s using %s.\n", entityLabel(target), profileSource)
	if len(remove) > 0 {
		fmt.Fprintf(&b, "Removed hours %v carry %.1f%% of spend and %.1f%% of conversions: -%s, -%s conversions.\n",
			remove, removedSpendFrac*100, removedConvFrac*100, dollars(removedSpend), count(removedConversions))
	}
	if len(add) > 0 {
		fmt.Fprintf(&b, "Added hours %v at the average hourly rate: +%s, +%s conversions.\n",
			add, dollars(addedSpend), count(addedConversions))
	}
	explainTransition(&b, state, sim)

	return Result{
		Success:         true,
		CurrentState:    &state,
		SimulatedState:  &sim,
		Confidence:      confidence,
		Assumptions:     assumptions,
		MathExplanation: b.String(),
	}
}

// hourProfiles builds per-hour spend/conversion shares from real hourly
// rows, or falls back to the benchmark when coverage is too thin.
func hourProfiles(hourly []metrics.HistoricalDataPoint) (spendShare, convShare [24]float64, real bool) {
	if len(hourly) < minHourlyPoints {
		return benchmarkHourShare, benchmarkHourShare, false
	}

	var hourSpend, hourConversions [24]float64
	var totalSpend, totalConversions float64
	for _, p := range hourly {
		if p.Hour == nil || *p.Hour < 0 || *p.Hour > 23 {
			continue
		}
		hourSpend[*p.Hour] += float64(p.SpendCents)
		hourConversions[*p.Hour] += p.Conversions
		totalSpend += float64(p.SpendCents)
		totalConversions += p.Conversions
	}
	if totalSpend <= 0 {
		return benchmarkHourShare, benchmarkHourShare, false
	}

	for h := 0; h < 24; h++ {
		spendShare[h] = hourSpend[h] / totalSpend
		if totalConversions > 0 {
			convShare[h] = hourConversions[h] / totalConversions
		} else {
			convShare[h] = spendShare[h]
		}
	}
	return spendShare, convShare, true
}

func normalizeHours(hours []int) ([]int, bool) {
	seen := make(map[int]bool, len(hours))
	out := make([]int, 0, len(hours))
	for _, h := range hours {
		if h < 0 || h > 23 {
			return nil, false
		}
		if seen[h] {
			continue
		}
		seen[h] = true
		out = append(out, h)
	}
	return out, true
}
