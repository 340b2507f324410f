package core

import (
	"fmt"
)

// SMERequest evaluates bidders under the SME preference policy.
type SMERequest struct {
	Bidders []SMEBidder  `json:"bidders"`
	Weights WeightConfig `json:"weights"`
}

// Policy implements Request.
func (SMERequest) Policy() Policy { return PolicySME }

func (r SMERequest) evaluate(e Evaluator) *EvaluationResult {
	return e.SME(r.Bidders, r.Weights)
}

// SME runs the SME preference policy:
//  1. Load non-SME prices by 10%
//  2. Exclude bidders below the technical threshold
//  3. Normalize against the lowest effective price and highest technical score
//     among passing bidders
//  4. Rank by composite score and declare the top bidder if it passed
//
// A weight sum other than 100 does not stop the evaluation; the result carries
// a warning row instead.
func (e Evaluator) SME(bidders []SMEBidder, weights WeightConfig) *EvaluationResult {
	l := e.Labels()

	outcomes := make([]Outcome, len(bidders))
	for i, b := range bidders {
		outcomes[i] = Outcome{
			Bidder:         bidderName(b.Name, i),
			Index:          i,
			Reason:         SMEExclusion(b),
			Price:          toDecimal(b.Price),
			Technical:      toDecimal(b.TechnicalScore),
			EffectivePrice: SMEEffectivePrice(b.Price, b.IsSME),
		}
	}

	eligible, excluded := EnforceEligibility(outcomes)
	excludedSummary := excludedBidders(excluded, func(Outcome) string {
		return l.technicalReason(TechnicalPassThreshold)
	})

	if len(eligible) == 0 {
		return &EvaluationResult{
			Policy:   PolicySME,
			Status:   StatusNoPassingBidder,
			Outcomes: outcomes,
			Excluded: excludedSummary,
			Payload:  statusPayload(l.SMETitle, l.StatusColumn, l.SMENoPassingBidder, l.NoWinner),
		}
	}

	refs := computeReferences(eligible, effectivePriceOf)
	for i := range outcomes {
		if outcomes[i].Eligible {
			applyWeightedScores(&outcomes[i], refs, weights)
		}
	}

	ranked := RankByComposite(outcomes)

	result := &EvaluationResult{
		Policy:   PolicySME,
		Status:   StatusAwarded,
		Outcomes: ranked,
		Excluded: excludedSummary,
	}

	top := ranked[0]
	winnerText := l.SMETopScorerIneligible
	if top.Eligible {
		result.Winner = &top
		winnerText = fmt.Sprintf(l.SMEWinner, top.Bidder, formatInteger(top.Composite))
	} else {
		result.Status = StatusTopScorerIneligible
	}

	cols := l.SMEColumns
	rows := make([]Row, 0, len(ranked))
	for _, o := range ranked {
		rows = append(rows, Row{
			cols.Bidder:         o.Bidder,
			cols.Price:          formatInteger(o.Price),
			cols.Technical:      formatInteger(o.Technical),
			cols.SMECertified:   yesNo(l, bidders[o.Index].IsSME),
			cols.EffectivePrice: formatInteger(o.EffectivePrice),
			cols.FinancialScore: formatInteger(o.FinancialScore),
			cols.TechnicalScore: formatInteger(o.TechnicalScore),
			cols.Composite:      formatInteger(o.Composite),
		})
	}

	payload := ResultPayload{
		Title:      l.SMETitle,
		Columns:    cols.list(),
		Rows:       rows,
		WinnerText: winnerText,
	}

	if !weights.Valid() {
		warning := fmt.Sprintf(l.SMEWeightSumWarning, formatPercentSum(weights.Sum()))
		payload = prependWarning(payload, l.WarningColumn, warning)
		result.Warnings = append(result.Warnings, warning)
	}

	result.Payload = payload
	return result
}
