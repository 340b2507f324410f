package core

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// NationalRequest evaluates bidders under the national product preference
// policy. MandatoryItemCount only appears in the non-commitment message.
type NationalRequest struct {
	Bidders            []NationalBidder `json:"bidders"`
	Weights            WeightConfig     `json:"weights"`
	MandatoryItemCount int              `json:"mandatory_item_count"`
}

// Policy implements Request.
func (NationalRequest) Policy() Policy { return PolicyNational }

func (r NationalRequest) evaluate(e Evaluator) *EvaluationResult {
	return e.National(r.Bidders, r.Weights, r.MandatoryItemCount)
}

// National runs the national product preference policy:
//  1. Abort with an error row if the weights do not sum to 100
//  2. Apply the exclusion rules in precedence order
//  3. Price eligible bidders: effective = (price − mandatory) × 1.10 × (1 − share),
//     award = effective + mandatory
//  4. Score eligible bidders against the lowest effective price for display
//  5. Award to the lowest award price
//
// The weighted scores are informational. Ranking and the winner follow award
// price only.
func (e Evaluator) National(bidders []NationalBidder, weights WeightConfig, mandatoryItemCount int) *EvaluationResult {
	l := e.Labels()

	if !weights.Valid() {
		message := fmt.Sprintf(l.NationalWeightSumError, formatPercentSum(weights.Sum()))
		return &EvaluationResult{
			Policy:   PolicyNational,
			Status:   StatusInvalidWeights,
			Warnings: []string{message},
			Payload:  statusPayload(l.NationalTitle, l.WarningColumn, message, l.NoWinner),
		}
	}

	outcomes := make([]Outcome, len(bidders))
	for i, b := range bidders {
		outcomes[i] = Outcome{
			Bidder:    bidderName(b.Name, i),
			Index:     i,
			Reason:    NationalExclusion(b),
			Price:     toDecimal(b.Price),
			Technical: toDecimal(b.TechnicalScore),
		}
		priceNationalBidder(&outcomes[i], b)
	}

	eligible, excluded := EnforceEligibility(outcomes)
	excludedSummary := excludedBidders(excluded, func(o Outcome) string {
		return l.nationalReason(o.Reason, mandatoryItemCount)
	})

	if len(eligible) == 0 {
		return &EvaluationResult{
			Policy:   PolicyNational,
			Status:   StatusNoEligibleBidder,
			Outcomes: outcomes,
			Excluded: excludedSummary,
			Payload:  statusPayload(l.NationalTitle, l.StatusColumn, l.NationalNoEligibleBidder, l.NoWinner),
		}
	}

	refs := computeReferences(eligible, effectivePriceOf)
	for i := range outcomes {
		if outcomes[i].Eligible {
			applyWeightedScores(&outcomes[i], refs, weights)
		}
	}

	ranked := RankByAwardPrice(outcomes)
	winner := firstEligible(ranked)

	cols := l.NationalColumns
	rows := make([]Row, 0, len(ranked))
	for _, o := range ranked {
		b := bidders[o.Index]
		rows = append(rows, Row{
			cols.Bidder:         o.Bidder,
			cols.Status:         l.nationalStatus(o.Reason),
			cols.Reason:         l.nationalReason(o.Reason, mandatoryItemCount),
			cols.Price:          formatInteger(o.Price),
			cols.Technical:      formatInteger(o.Technical),
			cols.Mandatory:      formatInteger(toDecimal(b.MandatoryItemsValue)),
			cols.Foreign:        formatInteger(toDecimal(b.ForeignProductsValue)),
			cols.National:       formatInteger(toDecimal(b.NationalProductsValue)),
			cols.NationalShare:  formatInteger(o.NationalShare),
			cols.EffectivePrice: formatInteger(o.EffectivePrice),
			cols.AwardPrice:     formatInteger(o.AwardPrice),
			cols.FinancialScore: formatInteger(o.FinancialScore),
			cols.TechnicalScore: formatInteger(o.TechnicalScore),
			cols.Composite:      formatInteger(o.Composite),
		})
	}

	return &EvaluationResult{
		Policy:   PolicyNational,
		Status:   StatusAwarded,
		Outcomes: ranked,
		Winner:   winner,
		Excluded: excludedSummary,
		Payload: ResultPayload{
			Title:      l.NationalTitle,
			Columns:    cols.list(),
			Rows:       rows,
			WinnerText: fmt.Sprintf(l.NationalWinner, winner.Bidder, formatInteger(winner.AwardPrice)),
		},
	}
}

// priceNationalBidder fills the national share, effective price and award
// price. The share is reported for every bidder that passed the commitment and
// technical checks, including those later excluded because the mandatory
// items exceed their price. Prices stay zero for every excluded bidder.
func priceNationalBidder(o *Outcome, b NationalBidder) {
	o.NationalShare = decimal.Zero
	o.EffectivePrice = decimal.Zero
	o.AwardPrice = decimal.Zero

	switch o.Reason {
	case ReasonNotCommitted, ReasonTechnicalBelowThreshold:
		return
	}

	o.NationalShare = NationalSharePercent(b.NationalProductsValue, b.ForeignProductsValue)
	if o.Reason != ReasonNone {
		return
	}

	competitive := CompetitivePrice(b.Price, b.MandatoryItemsValue)
	o.EffectivePrice = NationalEffectivePrice(competitive, b.NationalProductsValue, b.ForeignProductsValue)
	o.AwardPrice = NationalAwardPrice(o.EffectivePrice, b.MandatoryItemsValue)
}

func (l *Labels) nationalStatus(reason ExclusionReason) string {
	switch reason {
	case ReasonNone:
		return l.NationalStatusEligible
	case ReasonNotCommitted:
		return l.NationalStatusNotCommitted
	case ReasonTechnicalBelowThreshold:
		return l.NationalStatusTechnical
	default:
		return l.NationalStatusExcluded
	}
}

func (l *Labels) nationalReason(reason ExclusionReason, mandatoryItemCount int) string {
	switch reason {
	case ReasonNone:
		return l.NationalReasonEligible
	case ReasonNotCommitted:
		return fmt.Sprintf(l.NationalReasonNotCommitted, mandatoryItemCount)
	case ReasonTechnicalBelowThreshold:
		return l.technicalReason(TechnicalPassThreshold)
	default:
		return l.NationalReasonMandatoryOver
	}
}
