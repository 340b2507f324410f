package core

import (
	"math"
	"testing"

	"github.com/peterldowns/testy/check"
	"github.com/shopspring/decimal"
)

func TestMeetsThreshold(t *testing.T) {
	tests := []struct {
		name      string
		score     float64
		threshold float64
		expected  bool
	}{
		{"above threshold", 80, 70, true},
		{"at threshold", 70, 70, true},
		{"just below threshold", 69.99, 70, false},
		{"zero threshold", 0, 0, true},
		{"NaN score coerced to zero", math.NaN(), 70, false},
		{"infinite score coerced to zero", math.Inf(1), 70, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			check.Equal(t, tt.expected, MeetsThreshold(tt.score, tt.threshold))
		})
	}
}

func TestNationalExclusion_Precedence(t *testing.T) {
	tests := []struct {
		name     string
		bidder   NationalBidder
		expected ExclusionReason
	}{
		{
			name:     "not committed wins over every other rule",
			bidder:   NationalBidder{Committed: false, TechnicalScore: 10, Price: 100, MandatoryItemsValue: 500},
			expected: ReasonNotCommitted,
		},
		{
			name:     "technical failure wins over mandatory value",
			bidder:   NationalBidder{Committed: true, TechnicalScore: 60, Price: 100, MandatoryItemsValue: 500},
			expected: ReasonTechnicalBelowThreshold,
		},
		{
			name:     "mandatory value exceeds price",
			bidder:   NationalBidder{Committed: true, TechnicalScore: 80, Price: 100, MandatoryItemsValue: 500},
			expected: ReasonMandatoryExceedsPrice,
		},
		{
			name:     "mandatory equal to price stays eligible",
			bidder:   NationalBidder{Committed: true, TechnicalScore: 80, Price: 500, MandatoryItemsValue: 500},
			expected: ReasonNone,
		},
		{
			name:     "eligible",
			bidder:   NationalBidder{Committed: true, TechnicalScore: 70, Price: 1000, MandatoryItemsValue: 100},
			expected: ReasonNone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			check.Equal(t, tt.expected, NationalExclusion(tt.bidder))
		})
	}
}

func TestHighValueExclusion(t *testing.T) {
	tests := []struct {
		name      string
		bidder    HighValueBidder
		threshold float64
		expected  ExclusionReason
	}{
		{
			name:      "zero local content excludes a strong bidder",
			bidder:    HighValueBidder{Price: 1, TechnicalScoreAverage: 100, LocalContentTarget: 0},
			threshold: 70,
			expected:  ReasonNoLocalContent,
		},
		{
			name:      "below caller threshold",
			bidder:    HighValueBidder{Price: 1, TechnicalScoreAverage: 75, LocalContentTarget: 20},
			threshold: 80,
			expected:  ReasonTechnicalBelowThreshold,
		},
		{
			name:      "custom threshold lets a lower score pass",
			bidder:    HighValueBidder{Price: 1, TechnicalScoreAverage: 65, LocalContentTarget: 20},
			threshold: 60,
			expected:  ReasonNone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			check.Equal(t, tt.expected, HighValueExclusion(tt.bidder, tt.threshold))
		})
	}
}

func TestEnforceEligibility(t *testing.T) {
	outcomes := []Outcome{
		{Bidder: "A", Index: 0, Reason: ReasonNone, Composite: decimal.NewFromInt(90)},
		{Bidder: "B", Index: 1, Reason: ReasonTechnicalBelowThreshold, Composite: decimal.NewFromInt(95), FinancialScore: decimal.NewFromInt(50)},
		{Bidder: "C", Index: 2, Reason: ReasonNone, Composite: decimal.NewFromInt(80)},
	}

	eligible, excluded := EnforceEligibility(outcomes)

	check.Equal(t, 2, len(eligible))
	check.Equal(t, 1, len(excluded))
	check.Equal(t, "A", eligible[0].Bidder)
	check.Equal(t, "C", eligible[1].Bidder)
	check.Equal(t, "B", excluded[0].Bidder)

	// Flags are recorded on the caller's slice
	check.True(t, outcomes[0].Eligible)
	check.False(t, outcomes[1].Eligible)
	check.True(t, outcomes[2].Eligible)

	// Excluded bidders carry zero scores
	check.True(t, outcomes[1].Composite.IsZero())
	check.True(t, outcomes[1].FinancialScore.IsZero())
	check.True(t, excluded[0].Composite.IsZero())
}

func TestEnforceEligibility_Empty(t *testing.T) {
	eligible, excluded := EnforceEligibility(nil)
	check.Equal(t, 0, len(eligible))
	check.Equal(t, 0, len(excluded))
}
