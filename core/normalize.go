package core

import "github.com/shopspring/decimal"

// references are the normalization anchors taken from the eligible set only.
type references struct {
	minPrice     decimal.Decimal
	maxTechnical decimal.Decimal
}

// computeReferences finds the lowest price and highest technical figure over
// the eligible outcomes. price selects which price the policy normalizes on.
// Callers must pass at least one outcome.
func computeReferences(eligible []Outcome, price func(Outcome) decimal.Decimal) references {
	refs := references{
		minPrice:     price(eligible[0]),
		maxTechnical: eligible[0].Technical,
	}
	for _, o := range eligible[1:] {
		refs.minPrice = decimal.Min(refs.minPrice, price(o))
		refs.maxTechnical = decimal.Max(refs.maxTechnical, o.Technical)
	}
	return refs
}

func effectivePriceOf(o Outcome) decimal.Decimal { return o.EffectivePrice }

func submittedPriceOf(o Outcome) decimal.Decimal { return o.Price }

// applyWeightedScores fills the sub-scores and composite of an eligible
// outcome from its effective price and technical figure.
//
//	financialSubScore = min / effective × 100
//	financialScore    = min / effective × financialPercent
//	technicalSubScore = technical / maxTechnical × 100
//	technicalScore    = technical / maxTechnical × technicalPercent
//	composite         = financialScore + technicalScore
func applyWeightedScores(o *Outcome, refs references, weights WeightConfig) {
	financialPercent := toDecimal(weights.FinancialPercent)
	technicalPercent := toDecimal(weights.TechnicalPercent)

	o.FinancialSubScore = scaledRatio(refs.minPrice, hundred, o.EffectivePrice)
	o.FinancialScore = scaledRatio(refs.minPrice, financialPercent, o.EffectivePrice)
	o.TechnicalSubScore = scaledRatio(o.Technical, hundred, refs.maxTechnical)
	o.TechnicalScore = scaledRatio(o.Technical, technicalPercent, refs.maxTechnical)
	o.Composite = o.FinancialScore.Add(o.TechnicalScore)
}
