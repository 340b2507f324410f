package core

import (
	"sort"
)

// RankByComposite orders outcomes by composite score, highest first. The sort
// is stable, so exact ties keep their input order. Ranks are assigned 1..n on
// the returned copy; the input slice is not reordered.
func RankByComposite(outcomes []Outcome) []Outcome {
	ranked := make([]Outcome, len(outcomes))
	copy(ranked, outcomes)

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Composite.GreaterThan(ranked[j].Composite)
	})

	assignRanks(ranked)
	return ranked
}

// RankByAwardPrice orders eligible outcomes by award price, lowest first,
// followed by the excluded outcomes in input order. Ties keep input order.
func RankByAwardPrice(outcomes []Outcome) []Outcome {
	ranked := make([]Outcome, len(outcomes))
	copy(ranked, outcomes)

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Eligible != ranked[j].Eligible {
			return ranked[i].Eligible
		}
		if !ranked[i].Eligible {
			return false
		}
		return ranked[i].AwardPrice.LessThan(ranked[j].AwardPrice)
	})

	assignRanks(ranked)
	return ranked
}

// firstEligible returns the first eligible outcome in ranking order.
func firstEligible(ranked []Outcome) *Outcome {
	for i := range ranked {
		if ranked[i].Eligible {
			winner := ranked[i]
			return &winner
		}
	}
	return nil
}

func assignRanks(ranked []Outcome) {
	for i := range ranked {
		ranked[i].Rank = i + 1
	}
}
