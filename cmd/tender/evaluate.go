package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/cloudx-io/opentender/receipt"
	"github.com/cloudx-io/opentender/server"
	"github.com/cloudx-io/opentender/tenderapi"
)

var evaluateFlags struct {
	input      string
	format     string
	lang       string
	receiptKey string
	receiptOut string
}

var evaluateCmd = &cobra.Command{
	Use:   "evaluate <sme|national|highvalue>",
	Short: "Evaluate a tender under one preference policy",
	Long: `Evaluate a set of bidders under the SME, national product or high-value
project preference policy and print the result table.

The input is a JSON or YAML evaluation request, given as a file path, inline
text, or "-" for standard input. The request type is taken from the policy
argument; a "type" field in the input must agree with it. Weights, the
technical pass mark and the mandatory item count default to the configuration.

Input Format:
  bidders:
    - name: A
      price: 100000
      technical_score: 80
      is_sme: true
  weights:
    technical_percent: 40
    financial_percent: 60

Examples:
  # Evaluate an SME tender from a YAML file
  tender evaluate sme --input bids.yaml

  # English report as CSV
  tender evaluate national --input bids.json --lang en --format csv

  # Sign a receipt for the result
  tender evaluate highvalue --input bids.yaml --receipt-key keys/receipt_private.pem --receipt-out receipt.b64

Exit Codes:
  0 - A winner was selected
  1 - No winner
  2 - Invalid input or runtime error`,
	Args: cobra.ExactArgs(1),
	RunE: runEvaluate,
}

func init() {
	rootCmd.AddCommand(evaluateCmd)

	evaluateCmd.Flags().StringVarP(&evaluateFlags.input, "input", "i", "-", "evaluation request (file path, inline JSON/YAML, or - for stdin)")
	evaluateCmd.Flags().StringVarP(&evaluateFlags.format, "format", "f", formatText, "output format: text, json or csv")
	evaluateCmd.Flags().StringVar(&evaluateFlags.lang, "lang", "", "report language, e.g. ar or en (overrides the request)")
	evaluateCmd.Flags().StringVar(&evaluateFlags.receiptKey, "receipt-key", "", "PEM private key used to sign an evaluation receipt")
	evaluateCmd.Flags().StringVar(&evaluateFlags.receiptOut, "receipt-out", "", "write the base64 receipt to this file")
}

func runEvaluate(cmd *cobra.Command, args []string) error {
	requestType, err := policyType(args[0])
	if err != nil {
		return invalid("%w", err)
	}
	if err := checkFormat(evaluateFlags.format, formatText, formatJSON, formatCSV); err != nil {
		return invalid("%w", err)
	}

	data, err := readInput(evaluateFlags.input, cmd.InOrStdin())
	if err != nil {
		return invalid("read input: %w", err)
	}
	req, err := decodeRequest(data)
	if err != nil {
		return invalid("%w", err)
	}
	if req.Type != "" && req.Type != requestType {
		return invalid("input type %q does not match policy %q", req.Type, args[0])
	}
	req.Type = requestType
	if evaluateFlags.lang != "" {
		req.Language = evaluateFlags.lang
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	var opts []server.Option
	if evaluateFlags.receiptKey != "" {
		km, err := receipt.LoadKeyManager(evaluateFlags.receiptKey)
		if err != nil {
			return invalid("load receipt key: %w", err)
		}
		issuer, err := receipt.NewIssuer(km)
		if err != nil {
			return invalid("create receipt issuer: %w", err)
		}
		opts = append(opts, server.WithIssuer(issuer))
	}

	srv, err := server.New(cfg, newLogger(), opts...)
	if err != nil {
		return invalid("%w", err)
	}

	resp := srv.ProcessEvaluation(*req)
	if !resp.Success {
		return invalid("%s", resp.Message)
	}

	if evaluateFlags.receiptOut != "" {
		if resp.Receipt == "" {
			return invalid("--receipt-out requires --receipt-key or receipts enabled in the configuration")
		}
		if err := writeReceiptFile(evaluateFlags.receiptOut, resp.Receipt); err != nil {
			return invalid("write receipt: %w", err)
		}
	}

	if err := writeEvaluation(cmd.OutOrStdout(), evaluateFlags.format, resp); err != nil {
		return invalid("write output: %w", err)
	}

	if !resp.Result.Awarded() {
		return failed()
	}
	return nil
}

func writeReceiptFile(path string, r tenderapi.ReceiptCOSEBase64) error {
	// #nosec G306 - receipts are public audit artefacts.
	return os.WriteFile(path, []byte(r.String()+"\n"), 0o644)
}
