package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cloudx-io/opentender/tenderapi"
)

// readInput returns the contents of the file named by input, or input itself
// when no such file exists. "-" reads standard input.
func readInput(input string, stdin io.Reader) ([]byte, error) {
	if input == "-" {
		return io.ReadAll(stdin)
	}
	// Try reading as file first
	if data, err := os.ReadFile(input); err == nil {
		return data, nil
	}
	// Treat as inline JSON or YAML
	return []byte(input), nil
}

// decodeRequest parses a JSON or YAML evaluation request.
func decodeRequest(data []byte) (*tenderapi.EvaluationRequest, error) {
	var req tenderapi.EvaluationRequest
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("empty input")
	}

	if json.Valid(trimmed) {
		if err := json.Unmarshal(trimmed, &req); err != nil {
			return nil, fmt.Errorf("parse JSON request: %w", err)
		}
		return &req, nil
	}
	if err := yaml.Unmarshal(trimmed, &req); err != nil {
		return nil, fmt.Errorf("parse YAML request: %w", err)
	}
	return &req, nil
}

// policyType maps a policy argument to its request type tag.
func policyType(arg string) (string, error) {
	switch strings.ToLower(arg) {
	case "sme":
		return tenderapi.TypeSMERequest, nil
	case "national":
		return tenderapi.TypeNationalRequest, nil
	case "highvalue", "high-value", "high_value":
		return tenderapi.TypeHighValueRequest, nil
	default:
		return "", fmt.Errorf("unknown policy %q (want sme, national or highvalue)", arg)
	}
}

// readReceipt decodes a receipt given as a file path or inline text in any of
// the supported encodings: standard base64, URL-safe base64 or gzip base64url.
func readReceipt(input string, stdin io.Reader) (tenderapi.ReceiptCOSE, error) {
	data, err := readInput(input, stdin)
	if err != nil {
		return nil, err
	}
	text := strings.TrimSpace(string(data))
	if text == "" {
		return nil, fmt.Errorf("empty receipt")
	}

	if coseBytes, err := tenderapi.ReceiptCOSEGzip(text).Decompress(); err == nil {
		return coseBytes, nil
	}
	if coseBytes, err := tenderapi.ReceiptCOSEBase64(text).Decode(); err == nil {
		return coseBytes, nil
	}
	coseBytes, err := tenderapi.ReceiptCOSEURLBase64(text).Decode()
	if err != nil {
		return nil, fmt.Errorf("receipt is not base64, base64url or gzip base64url: %w", err)
	}
	return coseBytes, nil
}
