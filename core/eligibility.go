package core

import "github.com/shopspring/decimal"

// TechnicalPassThreshold is the minimum technical score for the SME and
// national policies.
const TechnicalPassThreshold = 70.0

// DefaultMinTechnicalPass is the high-value policy threshold used when the
// caller does not supply one.
const DefaultMinTechnicalPass = 70.0

// SMEExclusion returns the exclusion reason for an SME bidder, or ReasonNone.
func SMEExclusion(b SMEBidder) ExclusionReason {
	if !MeetsThreshold(b.TechnicalScore, TechnicalPassThreshold) {
		return ReasonTechnicalBelowThreshold
	}
	return ReasonNone
}

// NationalExclusion returns the first exclusion rule a national bidder
// triggers, evaluated in precedence order: commitment to the mandatory items,
// technical threshold, then mandatory value against the submitted price.
func NationalExclusion(b NationalBidder) ExclusionReason {
	if !b.Committed {
		return ReasonNotCommitted
	}
	if !MeetsThreshold(b.TechnicalScore, TechnicalPassThreshold) {
		return ReasonTechnicalBelowThreshold
	}
	if CompetitivePrice(b.Price, b.MandatoryItemsValue).IsNegative() {
		return ReasonMandatoryExceedsPrice
	}
	return ReasonNone
}

// HighValueExclusion returns the exclusion reason for a high-value bidder.
// A zero local-content target excludes the bidder whatever its other figures.
func HighValueExclusion(b HighValueBidder, minTechnicalPass float64) ExclusionReason {
	if toDecimal(b.LocalContentTarget).IsZero() {
		return ReasonNoLocalContent
	}
	if !MeetsThreshold(b.TechnicalScoreAverage, minTechnicalPass) {
		return ReasonTechnicalBelowThreshold
	}
	return ReasonNone
}

// EnforceEligibility splits outcomes into eligible and excluded sets using the
// reason already recorded on each outcome. Excluded outcomes have every score
// reset to zero. The returned slices preserve input order.
func EnforceEligibility(outcomes []Outcome) (eligible []Outcome, excluded []Outcome) {
	eligible = make([]Outcome, 0, len(outcomes))
	excluded = make([]Outcome, 0)

	for i := range outcomes {
		if outcomes[i].Reason == ReasonNone {
			outcomes[i].Eligible = true
			eligible = append(eligible, outcomes[i])
			continue
		}
		outcomes[i].Eligible = false
		zeroScores(&outcomes[i])
		excluded = append(excluded, outcomes[i])
	}

	return eligible, excluded
}

func zeroScores(o *Outcome) {
	o.FinancialSubScore = decimal.Zero
	o.TechnicalSubScore = decimal.Zero
	o.FinancialScore = decimal.Zero
	o.TechnicalScore = decimal.Zero
	o.Composite = decimal.Zero
}

// excludedBidders builds the exclusion summary for a set of excluded outcomes.
func excludedBidders(excluded []Outcome, detail func(Outcome) string) []ExcludedBidder {
	if len(excluded) == 0 {
		return nil
	}
	result := make([]ExcludedBidder, 0, len(excluded))
	for _, o := range excluded {
		result = append(result, ExcludedBidder{
			Bidder: o.Bidder,
			Reason: o.Reason,
			Detail: detail(o),
		})
	}
	return result
}
