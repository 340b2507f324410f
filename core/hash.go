package core

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"strings"
)

// ComputeResultHash fingerprints a result payload.
//
// Formula: SHA256(title + "|" + columns + "|" + row_1 + ... + "|" + winner_text + "|" + warnings)
// where every field is Go-quoted and row cells are written in column order.
//
// Two payloads hash equal exactly when they render identically, which is the
// idempotence guarantee of every policy.
func ComputeResultHash(payload ResultPayload) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%q", payload.Title)

	b.WriteString("|")
	writeQuoted(&b, payload.Columns)

	for _, row := range payload.Rows {
		b.WriteString("|")
		writeQuoted(&b, row.Values(payload.Columns))
	}

	fmt.Fprintf(&b, "|%q|", payload.WinnerText)
	writeQuoted(&b, payload.Warnings)

	hash := sha256.Sum256([]byte(b.String()))
	return fmt.Sprintf("%x", hash)
}

// ComputeRequestHash fingerprints an evaluation request.
//
// Formula: SHA256(policy + "|" + json(request))
//
// JSON field order follows the struct definitions, so equal requests always
// produce the same bytes. NaN and infinite figures hash as 0, the value the
// policies evaluate them as.
func ComputeRequestHash(req Request) (string, error) {
	data, err := json.Marshal(req.coerced())
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}
	hash := sha256.Sum256([]byte(string(req.Policy()) + "|" + string(data)))
	return fmt.Sprintf("%x", hash), nil
}

func (w WeightConfig) coerced() WeightConfig {
	return WeightConfig{
		TechnicalPercent: finite(w.TechnicalPercent),
		FinancialPercent: finite(w.FinancialPercent),
	}
}

func (r SMERequest) coerced() Request {
	bidders := make([]SMEBidder, len(r.Bidders))
	for i, b := range r.Bidders {
		b.Price = finite(b.Price)
		b.TechnicalScore = finite(b.TechnicalScore)
		bidders[i] = b
	}
	return SMERequest{Bidders: bidders, Weights: r.Weights.coerced()}
}

func (r NationalRequest) coerced() Request {
	bidders := make([]NationalBidder, len(r.Bidders))
	for i, b := range r.Bidders {
		b.TechnicalScore = finite(b.TechnicalScore)
		b.Price = finite(b.Price)
		b.MandatoryItemsValue = finite(b.MandatoryItemsValue)
		b.ForeignProductsValue = finite(b.ForeignProductsValue)
		b.NationalProductsValue = finite(b.NationalProductsValue)
		bidders[i] = b
	}
	return NationalRequest{Bidders: bidders, Weights: r.Weights.coerced(), MandatoryItemCount: r.MandatoryItemCount}
}

func (r HighValueRequest) coerced() Request {
	bidders := make([]HighValueBidder, len(r.Bidders))
	for i, b := range r.Bidders {
		b.Price = finite(b.Price)
		b.TechnicalScoreAverage = finite(b.TechnicalScoreAverage)
		b.LocalContentTarget = finite(b.LocalContentTarget)
		b.BaselineSharePercent = finite(b.BaselineSharePercent)
		bidders[i] = b
	}
	return HighValueRequest{Bidders: bidders, MinTechnicalPass: finite(r.MinTechnicalPass)}
}

func writeQuoted(b *strings.Builder, values []string) {
	for i, v := range values {
		if i > 0 {
			b.WriteString(",")
		}
		fmt.Fprintf(b, "%q", v)
	}
}
