package simulation

import (
	"math"

	"campaign-sim/internal/metrics"
)

const (
	// minModelDays is the minimum history length before a fit is attempted.
	minModelDays = 14

	// fitR2Gate is the minimum fit quality for trusting the regression;
	// highR2Gate is the threshold for high confidence.
	fitR2Gate  = 0.6
	highR2Gate = 0.8

	// extrapolationPad widens the observed spend range by half the range on
	// each side; predictions outside that window are flagged.
	extrapolationPad = 0.5
)

// Prediction is the outcome of projecting conversions at a new spend level.
type Prediction struct {
	Conversions float64
	Model       Model
	Confidence  Confidence
	// Calibrated marks the single-point fallback: the model reproduces
	// today's observation exactly and carries no evidence about response to
	// a different spend level.
	Calibrated bool
}

// PredictConversions projects the target's conversions at newSpendCents.
//
// With at least minModelDays of history and a fit above fitR2Gate, the
// fitted model is used; the confidence tier comes from R-squared, capped at
// medium when the projection extrapolates beyond the observed spend range.
// Otherwise a single-point calibration with the industry-prior alpha is
// used, and confidence is unconditionally low: more days of history do not
// earn a higher tier when the regression itself failed.
func PredictConversions(history []metrics.HistoricalDataPoint, spendCents int64, conversions float64, newSpendCents float64) Prediction {
	if len(history) >= minModelDays {
		model := FitPowerLaw(history)
		if model.K > 0 && model.RSquared > fitR2Gate {
			predicted := 0.0
			if newSpendCents > 0 {
				predicted = model.K * math.Pow(newSpendCents, model.Alpha)
			}

			confidence := ConfidenceMedium
			if model.RSquared > highR2Gate {
				confidence = ConfidenceHigh
			}

			lo, hi := observedSpendWindow(history)
			if newSpendCents < lo || newSpendCents > hi {
				model.Extrapolating = true
				confidence = capConfidence(confidence, ConfidenceMedium)
			}

			return Prediction{
				Conversions: predicted,
				Model:       model,
				Confidence:  confidence,
			}
		}
	}

	return calibratePrediction(history, spendCents, conversions, newSpendCents)
}

// calibratePrediction solves k from the current spend/conversion pair with
// alpha fixed at the industry prior. Zero degrees of freedom.
func calibratePrediction(history []metrics.HistoricalDataPoint, spendCents int64, conversions float64, newSpendCents float64) Prediction {
	model := Model{Alpha: priorAlpha, DataPoints: len(history)}
	if spendCents > 0 && conversions > 0 {
		model.K = conversions / math.Pow(float64(spendCents), priorAlpha)
	}

	predicted := 0.0
	if newSpendCents > 0 {
		predicted = model.K * math.Pow(newSpendCents, priorAlpha)
	}

	return Prediction{
		Conversions: predicted,
		Model:       model,
		Confidence:  ConfidenceLow,
		Calibrated:  true,
	}
}

// observedSpendWindow returns the extrapolation bounds derived from the
// spend levels actually observed on active days.
func observedSpendWindow(history []metrics.HistoricalDataPoint) (float64, float64) {
	minSpend := math.Inf(1)
	maxSpend := math.Inf(-1)
	for _, p := range history {
		if p.SpendCents <= 0 {
			continue
		}
		s := float64(p.SpendCents)
		if s < minSpend {
			minSpend = s
		}
		if s > maxSpend {
			maxSpend = s
		}
	}
	if minSpend > maxSpend {
		return 0, 0
	}

	span := maxSpend - minSpend
	return minSpend - extrapolationPad*span, maxSpend + extrapolationPad*span
}
