package core

import (
	"fmt"
	"testing"

	"github.com/peterldowns/testy/assert"
	"github.com/peterldowns/testy/check"
)

func highValueScenario() []HighValueBidder {
	return []HighValueBidder{
		{Name: "A", Price: 100000, TechnicalScoreAverage: 80, LocalContentTarget: 30, BaselineSharePercent: 10, IsListedCompany: true},
		{Name: "B", Price: 95000, TechnicalScoreAverage: 78, LocalContentTarget: 25, BaselineSharePercent: 0, IsListedCompany: false},
	}
}

func TestHighValue_Scenario(t *testing.T) {
	result := EvaluateHighValue(highValueScenario(), DefaultMinTechnicalPass)

	check.Equal(t, PolicyHighValue, result.Policy)
	check.Equal(t, StatusAwarded, result.Status)
	assert.Equal(t, 2, len(result.Outcomes))

	// A: 95000/100000 × 60 = 57, content (15 + 5 + 0.05) × 0.40 = 8.02
	a := result.Outcomes[0]
	check.Equal(t, "A", a.Bidder)
	check.Equal(t, "65.02", a.FinancialScore.String())
	check.Equal(t, "60", a.TechnicalScore.String())
	check.Equal(t, "86.008", a.Composite.String())

	// B: 60 + 12.5 × 0.40 = 65, 78/80 × 60 = 58.5
	b := result.Outcomes[1]
	check.Equal(t, "B", b.Bidder)
	check.Equal(t, "65", b.FinancialScore.String())
	check.Equal(t, "58.5", b.TechnicalScore.String())
	check.Equal(t, "84.5", b.Composite.String())

	assert.NotNil(t, result.Winner)
	check.Equal(t, "A", result.Winner.Bidder)

	check.Equal(t, arabicLabels.HighValueResultTitle, result.Payload.Title)
	check.Equal(t, []string{"A", "100000", "80", "60", "65.02", "86.01"}, result.Payload.Rows[0].Values(result.Payload.Columns))
	check.Equal(t, []string{"B", "95000", "78", "58.5", "65", "84.5"}, result.Payload.Rows[1].Values(result.Payload.Columns))
	check.Equal(t, fmt.Sprintf(arabicLabels.HighValueWinner, "A", "86.01"), result.Payload.WinnerText)
}

func TestHighValue_ZeroLocalContentExcluded(t *testing.T) {
	bidders := append(highValueScenario(), HighValueBidder{
		Name: "C", Price: 1000, TechnicalScoreAverage: 100, LocalContentTarget: 0, BaselineSharePercent: 50, IsListedCompany: true,
	})

	result := EvaluateHighValue(bidders, DefaultMinTechnicalPass)

	assert.NotNil(t, result.Winner)
	check.Equal(t, "A", result.Winner.Bidder)

	// C ranks last with zero scores and leaves the references untouched
	c := result.Outcomes[2]
	check.Equal(t, "C", c.Bidder)
	check.False(t, c.Eligible)
	check.Equal(t, ReasonNoLocalContent, c.Reason)
	check.True(t, c.Composite.IsZero())
	check.True(t, c.FinancialScore.IsZero())
	check.True(t, c.TechnicalScore.IsZero())
	check.Equal(t, "86.008", result.Outcomes[0].Composite.String())

	assert.Equal(t, 1, len(result.Excluded))
	check.Equal(t, arabicLabels.HighValueReasonLocal, result.Excluded[0].Detail)
}

func TestHighValue_NoEligibleBidder(t *testing.T) {
	bidders := []HighValueBidder{
		{Name: "A", Price: 1000, TechnicalScoreAverage: 95, LocalContentTarget: 0},
		{Name: "B", Price: 2000, TechnicalScoreAverage: 60, LocalContentTarget: 40},
	}

	result := EvaluateHighValue(bidders, DefaultMinTechnicalPass)

	check.Equal(t, StatusNoEligibleBidder, result.Status)
	check.Nil(t, result.Winner)
	check.Equal(t, arabicLabels.HighValueTitle, result.Payload.Title)
	check.Equal(t, arabicLabels.HighValueNoEligibleBidder, result.Payload.Rows[0][arabicLabels.StatusColumn])

	assert.Equal(t, 2, len(result.Excluded))
	check.Equal(t, ReasonNoLocalContent, result.Excluded[0].Reason)
	check.Equal(t, ReasonTechnicalBelowThreshold, result.Excluded[1].Reason)
	check.Equal(t, fmt.Sprintf(arabicLabels.BelowMinimum, "70"), result.Excluded[1].Detail)
}

func TestHighValue_CustomThreshold(t *testing.T) {
	bidders := []HighValueBidder{
		{Name: "A", Price: 1000, TechnicalScoreAverage: 85, LocalContentTarget: 10},
		{Name: "B", Price: 900, TechnicalScoreAverage: 75, LocalContentTarget: 10},
	}

	result := EvaluateHighValue(bidders, 80)

	assert.NotNil(t, result.Winner)
	check.Equal(t, "A", result.Winner.Bidder)
	assert.Equal(t, 1, len(result.Excluded))
	check.Equal(t, "B", result.Excluded[0].Bidder)
	check.Equal(t, fmt.Sprintf(arabicLabels.BelowMinimum, "80"), result.Excluded[0].Detail)

	// Only A is eligible, so it is its own price and technical reference
	check.Equal(t, "60", result.Winner.TechnicalScore.String())
}

func TestHighValue_TwoDecimalRounding(t *testing.T) {
	bidders := []HighValueBidder{
		{Name: "A", Price: 300, TechnicalScoreAverage: 90, LocalContentTarget: 1},
		{Name: "B", Price: 700, TechnicalScoreAverage: 70, LocalContentTarget: 1},
	}

	result := EvaluateHighValue(bidders, DefaultMinTechnicalPass)

	// B: 300/700 × 60 = 25.714..., 70/90 × 60 = 46.666...
	row := result.Payload.Rows[1]
	cols := arabicLabels.HighValueColumns
	check.Equal(t, "B", row[cols.Bidder])
	check.Equal(t, "46.67", row[cols.TechnicalScore])
	check.Equal(t, "25.91", row[cols.FinancialScore])
}
