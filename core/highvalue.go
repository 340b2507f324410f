package core

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// High-value formula constants.
var (
	highValueFinancialWeight = decimal.RequireFromString("0.60")
	highValueTechnicalWeight = decimal.RequireFromString("0.40")
	localContentMultiplier   = decimal.RequireFromString("0.50")
	listedCompanyBonus       = decimal.RequireFromString("0.05")
	technicalScale           = decimal.NewFromInt(60)
)

// HighValueRequest evaluates bidders under the high-value project policy.
// MinTechnicalPass is applied as given; callers wanting the standard threshold
// pass DefaultMinTechnicalPass.
type HighValueRequest struct {
	Bidders          []HighValueBidder `json:"bidders"`
	MinTechnicalPass float64           `json:"min_technical_pass"`
}

// Policy implements Request.
func (HighValueRequest) Policy() Policy { return PolicyHighValue }

func (r HighValueRequest) evaluate(e Evaluator) *EvaluationResult {
	return e.HighValue(r.Bidders, r.MinTechnicalPass)
}

// HighValue runs the high-value project preference policy. Weights are fixed
// by the formula, so no weight configuration is taken.
//
//	financialScore = min/price × 100 × 0.60 + (local×0.50 + baseline×0.50 + listed 0.05) × 0.40
//	technicalScore = technical/maxTechnical × 60
//	finalScore     = financialScore × 0.40 + technicalScore
//
// Every bidder is ranked by final score, excluded bidders at zero, and the
// first eligible bidder in that order wins. Scores are reported to two decimals.
func (e Evaluator) HighValue(bidders []HighValueBidder, minTechnicalPass float64) *EvaluationResult {
	l := e.Labels()

	outcomes := make([]Outcome, len(bidders))
	for i, b := range bidders {
		outcomes[i] = Outcome{
			Bidder:         bidderName(b.Name, i),
			Index:          i,
			Reason:         HighValueExclusion(b, minTechnicalPass),
			Price:          toDecimal(b.Price),
			Technical:      toDecimal(b.TechnicalScoreAverage),
			EffectivePrice: toDecimal(b.Price),
		}
	}

	eligible, excluded := EnforceEligibility(outcomes)
	excludedSummary := excludedBidders(excluded, func(o Outcome) string {
		if o.Reason == ReasonNoLocalContent {
			return l.HighValueReasonLocal
		}
		return l.technicalReason(minTechnicalPass)
	})

	if len(eligible) == 0 {
		return &EvaluationResult{
			Policy:   PolicyHighValue,
			Status:   StatusNoEligibleBidder,
			Outcomes: outcomes,
			Excluded: excludedSummary,
			Payload:  statusPayload(l.HighValueTitle, l.StatusColumn, l.HighValueNoEligibleBidder, l.NoWinner),
		}
	}

	refs := computeReferences(eligible, submittedPriceOf)
	for i := range outcomes {
		if outcomes[i].Eligible {
			applyHighValueScores(&outcomes[i], bidders[outcomes[i].Index], refs)
		}
	}

	ranked := RankByComposite(outcomes)
	winner := firstEligible(ranked)

	cols := l.HighValueColumns
	rows := make([]Row, 0, len(ranked))
	for _, o := range ranked {
		rows = append(rows, Row{
			cols.Bidder:           o.Bidder,
			cols.Price:            formatScore(o.Price),
			cols.TechnicalAverage: formatScore(o.Technical),
			cols.TechnicalScore:   formatScore(o.TechnicalScore),
			cols.FinancialScore:   formatScore(o.FinancialScore),
			cols.FinalScore:       formatScore(o.Composite),
		})
	}

	result := &EvaluationResult{
		Policy:   PolicyHighValue,
		Status:   StatusAwarded,
		Outcomes: ranked,
		Winner:   winner,
		Excluded: excludedSummary,
		Payload: ResultPayload{
			Title:      l.HighValueResultTitle,
			Columns:    cols.list(),
			Rows:       rows,
			WinnerText: l.HighValueNoWinner,
		},
	}
	if winner == nil {
		result.Status = StatusNoEligibleBidder
		return result
	}
	result.Payload.WinnerText = fmt.Sprintf(l.HighValueWinner, winner.Bidder, formatScore(winner.Composite))
	return result
}

// applyHighValueScores fills the scores of an eligible high-value outcome.
// FinancialScore and TechnicalScore hold the formula's financial and technical
// scores, Composite the final score.
func applyHighValueScores(o *Outcome, b HighValueBidder, refs references) {
	financialWeightTerm := scaledRatio(refs.minPrice, hundred.Mul(highValueFinancialWeight), o.Price)

	localScore := toDecimal(b.LocalContentTarget).Mul(localContentMultiplier)
	baselineScore := decimal.Zero
	if baseline := toDecimal(b.BaselineSharePercent); !baseline.IsZero() {
		baselineScore = baseline.Mul(localContentMultiplier)
	}
	listedScore := decimal.Zero
	if b.IsListedCompany {
		listedScore = listedCompanyBonus
	}
	contentScore := localScore.Add(baselineScore).Add(listedScore).Mul(highValueTechnicalWeight)

	o.FinancialSubScore = scaledRatio(refs.minPrice, hundred, o.Price)
	o.TechnicalSubScore = scaledRatio(o.Technical, hundred, refs.maxTechnical)
	o.FinancialScore = financialWeightTerm.Add(contentScore)
	o.TechnicalScore = scaledRatio(o.Technical, technicalScale, refs.maxTechnical)
	o.Composite = o.FinancialScore.Mul(highValueTechnicalWeight).Add(o.TechnicalScore)
}
