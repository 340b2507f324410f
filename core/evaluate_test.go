package core

import (
	"encoding/json"
	"sync"
	"testing"

	"github.com/peterldowns/testy/assert"
	"github.com/peterldowns/testy/check"
)

func TestEvaluate_DispatchesByPolicy(t *testing.T) {
	tests := []struct {
		name   string
		req    Request
		policy Policy
		winner string
	}{
		{"sme", SMERequest{Bidders: smeScenario(), Weights: DefaultWeights()}, PolicySME, "A"},
		{"national", NationalRequest{Bidders: nationalScenario(), Weights: DefaultWeights(), MandatoryItemCount: 2}, PolicyNational, "A"},
		{"high value", HighValueRequest{Bidders: highValueScenario(), MinTechnicalPass: DefaultMinTechnicalPass}, PolicyHighValue, "A"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			check.Equal(t, tt.policy, tt.req.Policy())

			result := Evaluate(tt.req)
			assert.NotNil(t, result)
			check.Equal(t, tt.policy, result.Policy)
			assert.NotNil(t, result.Winner)
			check.Equal(t, tt.winner, result.Winner.Bidder)
		})
	}
}

func TestEvaluate_Idempotent(t *testing.T) {
	requests := []Request{
		SMERequest{Bidders: smeScenario(), Weights: WeightConfig{TechnicalPercent: 30, FinancialPercent: 60}},
		NationalRequest{Bidders: nationalScenario(), Weights: DefaultWeights()},
		HighValueRequest{Bidders: highValueScenario(), MinTechnicalPass: 70},
	}

	for _, req := range requests {
		t.Run(string(req.Policy()), func(t *testing.T) {
			first, err := json.Marshal(Evaluate(req).Payload)
			assert.NoError(t, err)
			second, err := json.Marshal(Evaluate(req).Payload)
			assert.NoError(t, err)

			check.Equal(t, string(first), string(second))
			check.Equal(t, ComputeResultHash(Evaluate(req).Payload), ComputeResultHash(Evaluate(req).Payload))
		})
	}
}

func TestEvaluate_DoesNotMutateInput(t *testing.T) {
	bidders := smeScenario()
	snapshot := smeScenario()

	EvaluateSME(bidders, DefaultWeights())

	check.Equal(t, snapshot, bidders)
}

func TestEvaluate_Concurrent(t *testing.T) {
	req := NationalRequest{Bidders: nationalScenario(), Weights: DefaultWeights()}
	want := ComputeResultHash(Evaluate(req).Payload)

	var wg sync.WaitGroup
	hashes := make([]string, 32)
	for i := range hashes {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			hashes[i] = ComputeResultHash(Evaluate(req).Payload)
		}(i)
	}
	wg.Wait()

	for _, got := range hashes {
		check.Equal(t, want, got)
	}
}

func TestEvaluate_MalformedNumbersCoerced(t *testing.T) {
	bidders := []SMEBidder{
		{Name: "A", Price: 1000, TechnicalScore: 80, IsSME: true},
		{Name: "B", Price: 0, TechnicalScore: 90, IsSME: true},
	}

	result := EvaluateSME(bidders, DefaultWeights())

	// A zero reference price gives every bidder a zero financial score
	// instead of a division error.
	assert.NotNil(t, result.Winner)
	for _, o := range result.Outcomes {
		check.Equal(t, "0", o.FinancialScore.String())
	}
	check.Equal(t, "B", result.Winner.Bidder)
	check.Equal(t, StatusAwarded, result.Status)
}

func TestEvaluator_ZeroValueUsesDefaultLabels(t *testing.T) {
	var e Evaluator

	withExcluded := append(smeScenario(), SMEBidder{Name: "C", Price: 50000, TechnicalScore: 10})
	sme := e.SME(withExcluded, DefaultWeights())
	check.Equal(t, EvaluateSME(withExcluded, DefaultWeights()).Payload, sme.Payload)

	national := e.National(nationalScenario(), DefaultWeights(), 2)
	check.Equal(t, EvaluateNational(nationalScenario(), DefaultWeights(), 2).Payload, national.Payload)

	highValue := e.HighValue(highValueScenario(), DefaultMinTechnicalPass)
	check.Equal(t, EvaluateHighValue(highValueScenario(), DefaultMinTechnicalPass).Payload, highValue.Payload)

	check.True(t, e.Labels() == arabicLabels)
}
