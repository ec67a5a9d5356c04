package simulation

import (
	"math"

	"campaign-sim/internal/metrics"
)

const (
	// alphaFloor/alphaCeil bound the fitted exponent: below 0.3 implies
	// implausible super-diminishing returns (noise), above 1.0 implies
	// increasing returns to scale, which violates the model's premise.
	alphaFloor = 0.3
	alphaCeil  = 1.0

	// priorAlpha is the industry-prior exponent used when no fit exists.
	priorAlpha = 0.7

	// minFitPoints is the minimum number of strictly-positive observations
	// required before a regression is attempted.
	minFitPoints = 7
)

// FitPowerLaw fits conversions = k * spend^alpha by ordinary least squares
// on (ln spend, ln conversions) pairs. Only observations with both spend
// and conversions strictly positive enter the regression; zero days are the
// caller's concern for day counting, not the fitter's.
//
// A degenerate result (k=0, alpha=priorAlpha, r_squared=0) signals "no
// usable fit": too few valid points, or all spend values identical.
func FitPowerLaw(history []metrics.HistoricalDataPoint) Model {
	xs := make([]float64, 0, len(history))
	ys := make([]float64, 0, len(history))
	for _, p := range history {
		if p.SpendCents > 0 && p.Conversions > 0 {
			xs = append(xs, math.Log(float64(p.SpendCents)))
			ys = append(ys, math.Log(p.Conversions))
		}
	}

	n := len(xs)
	if n < minFitPoints {
		return degenerateModel(n)
	}

	var sumX, sumY, sumXY, sumXX float64
	for i := 0; i < n; i++ {
		sumX += xs[i]
		sumY += ys[i]
		sumXY += xs[i] * ys[i]
		sumXX += xs[i] * xs[i]
	}

	fn := float64(n)
	denom := fn*sumXX - sumX*sumX
	if math.Abs(denom) < 1e-9 {
		// All spend values identical: the slope is unidentifiable.
		return degenerateModel(n)
	}

	alphaRaw := (fn*sumXY - sumX*sumY) / denom
	alpha := clampAlpha(alphaRaw)

	// Refit the intercept with the clamped slope held fixed. Keeping the
	// unclamped intercept alongside a clamped slope biases predictions.
	meanX := sumX / fn
	meanY := sumY / fn
	lnK := meanY - alpha*meanX

	// R^2 is reported against the clamped model's residuals, since the
	// clamped model is the one used for prediction.
	var ssRes, ssTot float64
	for i := 0; i < n; i++ {
		res := ys[i] - (lnK + alpha*xs[i])
		ssRes += res * res
		dev := ys[i] - meanY
		ssTot += dev * dev
	}

	var rSquared float64
	if ssTot > 0 {
		rSquared = 1 - ssRes/ssTot
		if rSquared < 0 {
			rSquared = 0
		}
	}

	return Model{
		K:          math.Exp(lnK),
		Alpha:      alpha,
		RSquared:   rSquared,
		DataPoints: n,
	}
}

func clampAlpha(alpha float64) float64 {
	if alpha < alphaFloor {
		return alphaFloor
	}
	if alpha > alphaCeil {
		return alphaCeil
	}
	return alpha
}

func degenerateModel(n int) Model {
	return Model{K: 0, Alpha: priorAlpha, RSquared: 0, DataPoints: n}
}
