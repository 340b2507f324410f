package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/cloudx-io/opentender/core"
	"github.com/cloudx-io/opentender/receipt"
	"github.com/cloudx-io/opentender/tenderapi"
)

// Output formats.
const (
	formatText = "text"
	formatJSON = "json"
	formatCSV  = "csv"
)

func checkFormat(format string, allowed ...string) error {
	for _, f := range allowed {
		if format == f {
			return nil
		}
	}
	return fmt.Errorf("unknown format %q (want %s)", format, strings.Join(allowed, ", "))
}

// writeEvaluation renders an evaluation response in the requested format.
func writeEvaluation(w io.Writer, format string, resp tenderapi.EvaluationResponse) error {
	switch format {
	case formatJSON:
		return writeJSON(w, resp)
	case formatCSV:
		return writeCSV(w, resp.Result.Payload)
	default:
		return writeText(w, resp)
	}
}

func writeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// writeCSV writes the payload table: a header row of column names followed by
// one record per result row.
func writeCSV(w io.Writer, payload core.ResultPayload) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(payload.Columns); err != nil {
		return err
	}
	for _, row := range payload.Rows {
		if err := cw.Write(row.Values(payload.Columns)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func writeText(w io.Writer, resp tenderapi.EvaluationResponse) error {
	payload := resp.Result.Payload

	fmt.Fprintln(w, payload.Title)
	fmt.Fprintln(w, strings.Repeat("=", 34))
	fmt.Fprintln(w)

	for _, warning := range payload.Warnings {
		fmt.Fprintf(w, "! %s\n", warning)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(payload.Columns, "\t"))
	for _, row := range payload.Rows {
		fmt.Fprintln(tw, strings.Join(row.Values(payload.Columns), "\t"))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if len(resp.Result.Excluded) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Excluded:")
		for _, ex := range resp.Result.Excluded {
			fmt.Fprintf(w, "  - %s: %s\n", ex.Bidder, ex.Detail)
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, payload.WinnerText)

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Status:      %s\n", resp.Result.Status)
	fmt.Fprintf(w, "Result Hash: %s\n", resp.ResultHash)
	if resp.Receipt != "" {
		fmt.Fprintf(w, "Receipt:     %s\n", resp.Receipt)
	}
	return nil
}

// writeValidation renders a receipt validation result.
func writeValidation(w io.Writer, format string, result *receipt.ValidationResult) error {
	if format == formatJSON {
		output := map[string]any{
			"valid":             result.IsValid(),
			"signature_valid":   result.SignatureValid,
			"key_id_valid":      result.KeyIDValid,
			"input_hash_valid":  result.InputHashValid,
			"result_hash_valid": result.ResultHashValid,
			"winner_valid":      result.WinnerValid,
			"details":           result.ValidationDetails,
		}
		if result.Receipt != nil {
			output["receipt"] = result.Receipt
		}
		return writeJSON(w, output)
	}

	fmt.Fprintln(w, "Evaluation Receipt Validator")
	fmt.Fprintln(w, "============================")
	fmt.Fprintln(w)

	if r := result.Receipt; r != nil {
		fmt.Fprintln(w, "Receipt:")
		fmt.Fprintf(w, "  Receipt ID:  %s\n", r.ReceiptID)
		if r.RequestID != "" {
			fmt.Fprintf(w, "  Request ID:  %s\n", r.RequestID)
		}
		fmt.Fprintf(w, "  Policy:      %s\n", r.Policy)
		fmt.Fprintf(w, "  Status:      %s\n", r.Status)
		fmt.Fprintf(w, "  Winner:      %s\n", r.Winner)
		fmt.Fprintf(w, "  Key ID:      %s\n", r.KeyID)
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, "Summary:")
	fmt.Fprintf(w, "  Signature Valid:     %v\n", result.SignatureValid)
	fmt.Fprintf(w, "  Key ID Valid:        %v\n", result.KeyIDValid)
	fmt.Fprintf(w, "  Input Hash Valid:    %v\n", result.InputHashValid)
	fmt.Fprintf(w, "  Result Hash Valid:   %v\n", result.ResultHashValid)
	fmt.Fprintf(w, "  Winner Valid:        %v\n", result.WinnerValid)

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Details:")
	for _, detail := range result.ValidationDetails {
		fmt.Fprintf(w, "  - %s\n", detail)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "============================")
	if result.IsValid() {
		fmt.Fprintln(w, "VALIDATION: ✓ PASSED")
	} else {
		fmt.Fprintln(w, "VALIDATION: ✗ FAILED")
	}
	return nil
}
