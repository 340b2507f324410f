package core

import (
	"testing"

	"github.com/peterldowns/testy/check"
	"github.com/shopspring/decimal"
)

func outcomeNames(outcomes []Outcome) []string {
	names := make([]string, len(outcomes))
	for i, o := range outcomes {
		names[i] = o.Bidder
	}
	return names
}

func TestRankByComposite(t *testing.T) {
	tests := []struct {
		name     string
		outcomes []Outcome
		expected []string
	}{
		{
			name: "descending composite",
			outcomes: []Outcome{
				{Bidder: "A", Composite: decimal.NewFromInt(50)},
				{Bidder: "B", Composite: decimal.NewFromInt(90)},
				{Bidder: "C", Composite: decimal.NewFromInt(70)},
			},
			expected: []string{"B", "C", "A"},
		},
		{
			name: "ties keep input order",
			outcomes: []Outcome{
				{Bidder: "A", Composite: decimal.NewFromInt(80)},
				{Bidder: "B", Composite: decimal.NewFromInt(90)},
				{Bidder: "C", Composite: decimal.NewFromInt(80)},
				{Bidder: "D", Composite: decimal.NewFromInt(80)},
			},
			expected: []string{"B", "A", "C", "D"},
		},
		{
			name:     "empty",
			outcomes: []Outcome{},
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ranked := RankByComposite(tt.outcomes)
			check.Equal(t, tt.expected, outcomeNames(ranked))
			for i, o := range ranked {
				check.Equal(t, i+1, o.Rank)
			}
		})
	}
}

func TestRankByComposite_DoesNotReorderInput(t *testing.T) {
	outcomes := []Outcome{
		{Bidder: "A", Composite: decimal.NewFromInt(1)},
		{Bidder: "B", Composite: decimal.NewFromInt(2)},
	}

	RankByComposite(outcomes)

	check.Equal(t, []string{"A", "B"}, outcomeNames(outcomes))
	check.Equal(t, 0, outcomes[0].Rank)
}

func TestRankByAwardPrice(t *testing.T) {
	outcomes := []Outcome{
		{Bidder: "X1", Eligible: false, AwardPrice: decimal.Zero},
		{Bidder: "A", Eligible: true, AwardPrice: decimal.NewFromInt(500)},
		{Bidder: "X2", Eligible: false, AwardPrice: decimal.Zero},
		{Bidder: "B", Eligible: true, AwardPrice: decimal.NewFromInt(300)},
		{Bidder: "C", Eligible: true, AwardPrice: decimal.NewFromInt(500)},
	}

	ranked := RankByAwardPrice(outcomes)

	check.Equal(t, []string{"B", "A", "C", "X1", "X2"}, outcomeNames(ranked))
	check.Equal(t, 5, ranked[4].Rank)
}

func TestFirstEligible(t *testing.T) {
	ranked := []Outcome{
		{Bidder: "X", Eligible: false},
		{Bidder: "A", Eligible: true},
		{Bidder: "B", Eligible: true},
	}

	winner := firstEligible(ranked)
	check.NotNil(t, winner)
	check.Equal(t, "A", winner.Bidder)

	// Returned value is a copy
	winner.Bidder = "changed"
	check.Equal(t, "A", ranked[1].Bidder)

	check.Nil(t, firstEligible([]Outcome{{Bidder: "X"}}))
	check.Nil(t, firstEligible(nil))
}
