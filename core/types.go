package core

import (
	"math"

	"github.com/shopspring/decimal"
)

// Policy identifies one of the preference evaluation policies.
type Policy string

const (
	PolicySME       Policy = "sme"
	PolicyNational  Policy = "national"
	PolicyHighValue Policy = "high_value"
)

// Status describes how an evaluation terminated.
type Status string

const (
	// StatusAwarded means a winner was selected.
	StatusAwarded Status = "awarded"

	// StatusNoPassingBidder means no SME bidder reached the technical threshold.
	StatusNoPassingBidder Status = "no_passing_bidder"

	// StatusNoEligibleBidder means every bidder triggered an exclusion rule.
	StatusNoEligibleBidder Status = "no_eligible_bidder"

	// StatusInvalidWeights means the weight configuration aborted the evaluation.
	StatusInvalidWeights Status = "invalid_weights"

	// StatusTopScorerIneligible means the top-ranked bidder failed the technical
	// threshold, so no winner is declared.
	StatusTopScorerIneligible Status = "top_scorer_ineligible"
)

// ExclusionReason is a machine-readable code for why a bidder was excluded.
type ExclusionReason string

const (
	ReasonNone                    ExclusionReason = ""
	ReasonTechnicalBelowThreshold ExclusionReason = "technical_below_threshold"
	ReasonNotCommitted            ExclusionReason = "not_committed"
	ReasonMandatoryExceedsPrice   ExclusionReason = "mandatory_exceeds_price"
	ReasonNoLocalContent          ExclusionReason = "no_local_content"
)

// SMEBidder is a bidder under the SME preference policy.
type SMEBidder struct {
	Name           string  `json:"name"`
	Price          float64 `json:"price"`
	TechnicalScore float64 `json:"technical_score"`
	IsSME          bool    `json:"is_sme"`
}

// NationalBidder is a bidder under the national product preference policy.
type NationalBidder struct {
	Name                  string  `json:"name"`
	Committed             bool    `json:"committed"`
	TechnicalScore        float64 `json:"technical_score"`
	Price                 float64 `json:"price"`
	MandatoryItemsValue   float64 `json:"mandatory_items_value"`
	ForeignProductsValue  float64 `json:"foreign_products_value"`
	NationalProductsValue float64 `json:"national_products_value"`
}

// HighValueBidder is a bidder under the high-value project preference policy.
type HighValueBidder struct {
	Name                  string  `json:"name"`
	Price                 float64 `json:"price"`
	TechnicalScoreAverage float64 `json:"technical_score_average"`
	LocalContentTarget    float64 `json:"local_content_target"`
	BaselineSharePercent  float64 `json:"baseline_share_percent"`
	IsListedCompany       bool    `json:"is_listed_company"`
}

// WeightConfig holds the technical and financial weights as percentages.
// Each percentage is applied as a fraction of 100 whatever the sum is.
type WeightConfig struct {
	TechnicalPercent float64 `json:"technical_percent"`
	FinancialPercent float64 `json:"financial_percent"`
}

// DefaultWeights returns the 40/60 technical/financial split.
func DefaultWeights() WeightConfig {
	return WeightConfig{TechnicalPercent: 40, FinancialPercent: 60}
}

// Sum returns the total of both percentages.
func (w WeightConfig) Sum() float64 {
	return finite(w.TechnicalPercent) + finite(w.FinancialPercent)
}

// Valid reports whether the percentages sum to 100 within weightSumTolerance.
func (w WeightConfig) Valid() bool {
	return math.Abs(w.Sum()-100) <= weightSumTolerance
}

// Outcome is the computed evaluation of one bidder.
//
// FinancialSubScore and TechnicalSubScore are normalized to 100 against the best
// eligible bidder; FinancialScore and TechnicalScore are the weighted
// contributions that add up to Composite. Excluded bidders carry zero in every
// score field.
type Outcome struct {
	Bidder   string          `json:"bidder"`
	Index    int             `json:"index"`
	Rank     int             `json:"rank"`
	Eligible bool            `json:"eligible"`
	Reason   ExclusionReason `json:"reason,omitempty"`

	// Price and Technical are the submitted figures after numeric coercion.
	Price          decimal.Decimal `json:"price"`
	Technical      decimal.Decimal `json:"technical"`
	EffectivePrice decimal.Decimal `json:"effective_price"`
	AwardPrice     decimal.Decimal `json:"award_price"`
	NationalShare  decimal.Decimal `json:"national_share_percent"`

	FinancialSubScore decimal.Decimal `json:"financial_sub_score"`
	TechnicalSubScore decimal.Decimal `json:"technical_sub_score"`
	FinancialScore    decimal.Decimal `json:"financial_score"`
	TechnicalScore    decimal.Decimal `json:"technical_score"`
	Composite         decimal.Decimal `json:"composite"`
}

// ExcludedBidder records a bidder that did not pass the eligibility rules.
type ExcludedBidder struct {
	Bidder string          `json:"bidder"`
	Reason ExclusionReason `json:"reason"`
	Detail string          `json:"detail"`
}

// Row maps a column name to its formatted value.
type Row map[string]string

// Values returns the row cells in column order. Missing cells are empty.
func (r Row) Values(columns []string) []string {
	values := make([]string, len(columns))
	for i, col := range columns {
		values[i] = r[col]
	}
	return values
}

// ResultPayload is the tabular report handed to a presentation layer.
type ResultPayload struct {
	Title      string   `json:"title"`
	Columns    []string `json:"columns"`
	Rows       []Row    `json:"rows"`
	WinnerText string   `json:"winner_text"`
	Warnings   []string `json:"warnings,omitempty"`
}

// EvaluationResult contains the complete results of running one policy.
type EvaluationResult struct {
	Policy Policy `json:"policy"`
	Status Status `json:"status"`

	// Outcomes lists every bidder in ranking order. It is nil when the
	// evaluation aborted before any per-bidder computation.
	Outcomes []Outcome `json:"outcomes,omitempty"`

	// Winner is the selected bidder (nil if no winner)
	Winner *Outcome `json:"winner,omitempty"`

	Excluded []ExcludedBidder `json:"excluded,omitempty"`
	Warnings []string         `json:"warnings,omitempty"`

	Payload ResultPayload `json:"payload"`
}

// Awarded reports whether a winner was selected.
func (r *EvaluationResult) Awarded() bool {
	return r.Status == StatusAwarded && r.Winner != nil
}
