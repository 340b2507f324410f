package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cloudx-io/opentender/core"
	"github.com/cloudx-io/opentender/receipt"
	"github.com/cloudx-io/opentender/server"
)

const (
	privateKeyFile = "receipt_private.pem"
	publicKeyFile  = "receipt_public.pem"
)

var receiptFlags struct {
	output    string
	receipt   string
	publicKey string
	request   string
	policy    string
	lang      string
	format    string
}

var receiptCmd = &cobra.Command{
	Use:   "receipt",
	Short: "Manage evaluation receipts",
	Long: `Generate receipt signing keys and verify signed evaluation receipts.

A receipt is a COSE_Sign1 message (ES256) over a CBOR document holding the
policy, status, winner, and SHA-256 hashes of the request and result table.

Subcommands:
  keygen - Generate a new ECDSA P-256 signing key
  verify - Verify a receipt signature and, optionally, re-evaluate the request`,
}

var receiptKeygenCmd = &cobra.Command{
	Use:   "keygen",
	Short: "Generate a receipt signing key",
	Long: `Generate an ECDSA P-256 keypair for receipt signing.

The keys are saved as PEM files:
  - Public key:  receipt_public.pem  (0644)
  - Private key: receipt_private.pem (0600)

Examples:
  tender receipt keygen --out /etc/tender/keys`,
	Args: cobra.NoArgs,
	RunE: runReceiptKeygen,
}

var receiptVerifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verify an evaluation receipt",
	Long: `Verify the signature of an evaluation receipt. When the original request is
supplied it is re-evaluated and the input hash, result hash and winner are
compared with the receipt.

The result hash covers the localised report, so --lang must match the
language the receipt was issued with.

Examples:
  # Signature only
  tender receipt verify --receipt receipt.b64 --public-key keys/receipt_public.pem

  # Full audit against the original request
  tender receipt verify --receipt receipt.b64 --public-key keys/receipt_public.pem \
    --request bids.yaml --policy sme

Exit Codes:
  0 - Validation passed
  1 - Validation failed
  2 - Invalid input or runtime error`,
	Args: cobra.NoArgs,
	RunE: runReceiptVerify,
}

func init() {
	rootCmd.AddCommand(receiptCmd)
	receiptCmd.AddCommand(receiptKeygenCmd, receiptVerifyCmd)

	receiptKeygenCmd.Flags().StringVarP(&receiptFlags.output, "out", "o", "./keys", "output directory")

	receiptVerifyCmd.Flags().StringVar(&receiptFlags.receipt, "receipt", "", "receipt (file path or inline base64, base64url or gzip form)")
	receiptVerifyCmd.Flags().StringVar(&receiptFlags.publicKey, "public-key", "", "PEM public key file")
	receiptVerifyCmd.Flags().StringVar(&receiptFlags.request, "request", "", "original evaluation request (file path or inline JSON/YAML)")
	receiptVerifyCmd.Flags().StringVar(&receiptFlags.policy, "policy", "", "policy of the request when its type field is absent")
	receiptVerifyCmd.Flags().StringVar(&receiptFlags.lang, "lang", "", "report language the receipt was issued with")
	receiptVerifyCmd.Flags().StringVarP(&receiptFlags.format, "format", "f", formatText, "output format: text or json")
	_ = receiptVerifyCmd.MarkFlagRequired("receipt")
	_ = receiptVerifyCmd.MarkFlagRequired("public-key")
}

func runReceiptKeygen(cmd *cobra.Command, _ []string) error {
	km, err := receipt.NewKeyManager()
	if err != nil {
		return invalid("failed to generate key: %w", err)
	}
	privatePEM, err := km.PrivateKeyPEM()
	if err != nil {
		return invalid("failed to encode private key: %w", err)
	}
	publicPEM, err := km.PublicKeyPEM()
	if err != nil {
		return invalid("failed to encode public key: %w", err)
	}

	if err := os.MkdirAll(receiptFlags.output, 0o750); err != nil {
		return invalid("failed to create output directory: %w", err)
	}

	publicPath := filepath.Join(receiptFlags.output, publicKeyFile)
	// #nosec G306 - public key is meant to be shared.
	if err := os.WriteFile(publicPath, []byte(publicPEM), 0o644); err != nil {
		return invalid("failed to save public key: %w", err)
	}
	privatePath := filepath.Join(receiptFlags.output, privateKeyFile)
	if err := os.WriteFile(privatePath, privatePEM, 0o600); err != nil {
		return invalid("failed to save private key: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Key ID:      %s\n", km.KeyID)
	fmt.Fprintf(out, "Public Key:  %s\n", publicPath)
	fmt.Fprintf(out, "Private Key: %s\n", privatePath)
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Configuration snippet:")
	fmt.Fprintln(out, "receipts:")
	fmt.Fprintln(out, "  enabled: true")
	fmt.Fprintf(out, "  signing_key_path: %q\n", privatePath)
	return nil
}

func runReceiptVerify(cmd *cobra.Command, _ []string) error {
	if err := checkFormat(receiptFlags.format, formatText, formatJSON); err != nil {
		return invalid("%w", err)
	}

	coseBytes, err := readReceipt(receiptFlags.receipt, cmd.InOrStdin())
	if err != nil {
		return invalid("read receipt: %w", err)
	}
	publicPEM, err := os.ReadFile(receiptFlags.publicKey)
	if err != nil {
		return invalid("read public key: %w", err)
	}

	input := &receipt.ValidationInput{
		Receipt:      coseBytes,
		PublicKeyPEM: publicPEM,
		Evaluator:    core.NewEvaluator(core.ParseLanguage(receiptFlags.lang)),
	}

	if receiptFlags.request != "" {
		coreReq, lang, err := loadAuditRequest(cmd)
		if err != nil {
			return err
		}
		input.Request = coreReq
		input.Evaluator = core.NewEvaluator(core.ParseLanguage(lang))
	}

	result, err := receipt.Validate(input)
	if err != nil {
		return invalid("validation error: %w", err)
	}

	if err := writeValidation(cmd.OutOrStdout(), receiptFlags.format, result); err != nil {
		return invalid("write output: %w", err)
	}
	if !result.IsValid() {
		return failed()
	}
	return nil
}

// loadAuditRequest reads the original request and converts it with the same
// defaults the evaluation used. It also returns the report language: --lang,
// else the request's language, else the configured default.
func loadAuditRequest(cmd *cobra.Command) (core.Request, string, error) {
	data, err := readInput(receiptFlags.request, cmd.InOrStdin())
	if err != nil {
		return nil, "", invalid("read request: %w", err)
	}
	req, err := decodeRequest(data)
	if err != nil {
		return nil, "", invalid("%w", err)
	}
	if receiptFlags.policy != "" {
		requestType, err := policyType(receiptFlags.policy)
		if err != nil {
			return nil, "", invalid("%w", err)
		}
		req.Type = requestType
	}

	cfg, err := loadConfig()
	if err != nil {
		return nil, "", err
	}
	coreReq, err := req.ToCoreRequest(server.RequestDefaults(cfg.Evaluation))
	if err != nil {
		return nil, "", invalid("%w", err)
	}

	lang := receiptFlags.lang
	if lang == "" {
		lang = req.Language
	}
	if lang == "" {
		lang = cfg.Evaluation.DefaultLanguage
	}
	return coreReq, lang, nil
}
