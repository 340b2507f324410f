package core

import (
	"golang.org/x/text/language"
)

// Request is the closed set of evaluation requests: SMERequest,
// NationalRequest and HighValueRequest.
type Request interface {
	Policy() Policy
	evaluate(e Evaluator) *EvaluationResult
	coerced() Request
}

// Evaluator runs the preference policies and assembles their reports in one
// label language. It holds no mutable state and is safe for concurrent use.
type Evaluator struct {
	labels *Labels
}

// NewEvaluator returns an Evaluator whose reports use the catalogue that best
// matches tag.
func NewEvaluator(tag language.Tag) Evaluator {
	return Evaluator{labels: LabelsFor(tag)}
}

// Labels returns the catalogue used by this Evaluator.
func (e Evaluator) Labels() *Labels {
	if e.labels == nil {
		return arabicLabels
	}
	return e.labels
}

// Evaluate runs the policy matching req.
//
// Processing flow, shared by every policy:
//  1. Apply policy price adjustments
//  2. Partition bidders by the policy's exclusion rules
//  3. Normalize against the eligible set only
//  4. Rank and select the winner
//  5. Assemble the rounded report
func (e Evaluator) Evaluate(req Request) *EvaluationResult {
	if e.labels == nil {
		e.labels = arabicLabels
	}
	return req.evaluate(e)
}

var defaultEvaluator = Evaluator{labels: arabicLabels}

// Evaluate runs req with the default (Arabic) report labels.
func Evaluate(req Request) *EvaluationResult {
	return defaultEvaluator.Evaluate(req)
}

// EvaluateSME runs the SME preference policy with the default labels.
func EvaluateSME(bidders []SMEBidder, weights WeightConfig) *EvaluationResult {
	return defaultEvaluator.SME(bidders, weights)
}

// EvaluateNational runs the national product preference policy with the
// default labels.
func EvaluateNational(bidders []NationalBidder, weights WeightConfig, mandatoryItemCount int) *EvaluationResult {
	return defaultEvaluator.National(bidders, weights, mandatoryItemCount)
}

// EvaluateHighValue runs the high-value project policy with the default labels.
func EvaluateHighValue(bidders []HighValueBidder, minTechnicalPass float64) *EvaluationResult {
	return defaultEvaluator.HighValue(bidders, minTechnicalPass)
}
