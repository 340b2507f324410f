package receipt

import (
	"errors"
	"fmt"

	"github.com/cloudx-io/opentender/core"
	"github.com/cloudx-io/opentender/tenderapi"
)

// ValidationInput contains everything needed to audit a receipt.
type ValidationInput struct {
	Receipt      tenderapi.ReceiptCOSE
	PublicKeyPEM []byte

	// Request, if set, is re-evaluated and compared with the receipt.
	Request   core.Request
	Evaluator core.Evaluator
}

// ValidationResult reports each receipt check separately.
type ValidationResult struct {
	Receipt           *Receipt
	SignatureValid    bool
	KeyIDValid        bool
	InputHashValid    bool
	ResultHashValid   bool
	WinnerValid       bool
	ValidationDetails []string
}

// IsValid returns true if every check passed.
func (r *ValidationResult) IsValid() bool {
	return r.SignatureValid && r.KeyIDValid && r.InputHashValid && r.ResultHashValid && r.WinnerValid
}

// Validate audits a receipt. Without a Request only the signature is checked
// and the remaining checks pass vacuously.
//
// Returns:
//   - ValidationResult with detailed results (call result.IsValid() to check overall status)
//   - error if validation cannot be performed (e.g., unparsable key or receipt)
func Validate(input *ValidationInput) (*ValidationResult, error) {
	publicKey, err := ParsePublicKeyPEM(input.PublicKeyPEM)
	if err != nil {
		return nil, err
	}

	result := &ValidationResult{}

	r, err := Verify(input.Receipt, publicKey)
	switch {
	case errors.Is(err, ErrSignatureInvalid):
		result.ValidationDetails = append(result.ValidationDetails, fmt.Sprintf("Signature invalid: %v", err))
		return result, nil
	case err != nil:
		return nil, err
	}
	result.Receipt = r
	result.SignatureValid = true
	result.ValidationDetails = append(result.ValidationDetails, "Signature valid")

	// The key ID is not covered by the signature check, so compare it with
	// the key that verified the receipt.
	keyID, err := ComputeKeyID(publicKey)
	if err != nil {
		return nil, err
	}
	result.KeyIDValid = keyID == r.KeyID
	if result.KeyIDValid {
		result.ValidationDetails = append(result.ValidationDetails, fmt.Sprintf("Key ID %s matches public key", keyID))
	} else {
		result.ValidationDetails = append(result.ValidationDetails,
			fmt.Sprintf("Key ID mismatch: receipt %s, public key %s", r.KeyID, keyID))
	}

	if input.Request == nil {
		result.InputHashValid = true
		result.ResultHashValid = true
		result.WinnerValid = true
		result.ValidationDetails = append(result.ValidationDetails, "No request supplied; content checks skipped")
		return result, nil
	}

	inputHash, err := core.ComputeRequestHash(input.Request)
	if err != nil {
		return nil, fmt.Errorf("hash request: %w", err)
	}
	result.InputHashValid = inputHash == r.InputHash
	if result.InputHashValid {
		result.ValidationDetails = append(result.ValidationDetails, "Input hash matches request")
	} else {
		result.ValidationDetails = append(result.ValidationDetails,
			fmt.Sprintf("Input hash mismatch: receipt %s, request %s", r.InputHash, inputHash))
	}

	evaluation := input.Evaluator.Evaluate(input.Request)

	resultHash := core.ComputeResultHash(evaluation.Payload)
	result.ResultHashValid = resultHash == r.ResultHash
	if result.ResultHashValid {
		result.ValidationDetails = append(result.ValidationDetails, "Result hash matches re-evaluation")
	} else {
		result.ValidationDetails = append(result.ValidationDetails,
			fmt.Sprintf("Result hash mismatch: receipt %s, re-evaluation %s (check the report language)", r.ResultHash, resultHash))
	}

	winner := ""
	if evaluation.Winner != nil {
		winner = evaluation.Winner.Bidder
	}
	result.WinnerValid = winner == r.Winner && string(evaluation.Status) == r.Status
	if result.WinnerValid {
		result.ValidationDetails = append(result.ValidationDetails, fmt.Sprintf("Winner %q and status %s confirmed", r.Winner, r.Status))
	} else {
		result.ValidationDetails = append(result.ValidationDetails,
			fmt.Sprintf("Winner mismatch: receipt %q (%s), re-evaluation %q (%s)", r.Winner, r.Status, winner, evaluation.Status))
	}

	return result, nil
}
