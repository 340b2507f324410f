package core

import (
	"math"

	"github.com/shopspring/decimal"
)

const (
	// weightSumTolerance is how far the weight sum may drift from 100.
	weightSumTolerance = 1e-6

	integerPrecision int32 = 0
	scorePrecision   int32 = 2 // high-value scores are reported to 0.01
)

var hundred = decimal.NewFromInt(100)

// finite coerces NaN and infinities to zero.
func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// toDecimal converts an input figure to a decimal, coercing non-finite values
// to zero. decimal.NewFromFloat panics on NaN and infinities.
func toDecimal(v float64) decimal.Decimal {
	return decimal.NewFromFloat(finite(v))
}

// MeetsThreshold returns true if the score meets or exceeds the threshold.
// Uses decimal comparison so that 70 and 70.0000 compare equal however the
// float was produced.
func MeetsThreshold(score, threshold float64) bool {
	return toDecimal(score).GreaterThanOrEqual(toDecimal(threshold))
}

// scaledRatio returns num × scale / den, dividing last so that ratios that are
// exact in rational arithmetic stay exact. A zero denominator yields zero.
func scaledRatio(num, scale, den decimal.Decimal) decimal.Decimal {
	if den.IsZero() {
		return decimal.Zero
	}
	return num.Mul(scale).Div(den)
}

// formatInteger rounds half away from zero to a whole number.
func formatInteger(d decimal.Decimal) string {
	return d.Round(integerPrecision).String()
}

// formatScore rounds half away from zero to two decimal places. Trailing zeros
// are dropped, so 58.50 renders as 58.5 and 100000.00 as 100000.
func formatScore(d decimal.Decimal) string {
	return d.Round(scorePrecision).String()
}

// formatPercentSum renders a weight sum the way it was entered (90, 99.5).
func formatPercentSum(sum float64) string {
	return toDecimal(sum).String()
}
