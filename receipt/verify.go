package receipt

import (
	"crypto/ecdsa"
	"errors"
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"github.com/veraison/go-cose"

	"github.com/cloudx-io/opentender/core"
)

var (
	// ErrSignatureInvalid is returned when the COSE signature does not verify.
	ErrSignatureInvalid = errors.New("receipt signature verification failed")

	// ErrInputMismatch is returned when the receipt was issued for other input.
	ErrInputMismatch = errors.New("receipt input hash does not match request")

	// ErrResultMismatch is returned when the receipt does not describe the
	// result being checked.
	ErrResultMismatch = errors.New("receipt does not match evaluation result")
)

// Verify checks the ES256 signature of a receipt against publicKey and
// returns the decoded receipt.
func Verify(coseBytes []byte, publicKey *ecdsa.PublicKey) (*Receipt, error) {
	msg, err := parseSign1(coseBytes)
	if err != nil {
		return nil, err
	}

	alg, err := msg.Headers.Protected.Algorithm()
	if err != nil {
		return nil, fmt.Errorf("read algorithm header: %w", err)
	}
	if alg != cose.AlgorithmES256 {
		return nil, fmt.Errorf("%w: unexpected algorithm %v", ErrSignatureInvalid, alg)
	}

	verifier, err := cose.NewVerifier(cose.AlgorithmES256, publicKey)
	if err != nil {
		return nil, fmt.Errorf("create verifier: %w", err)
	}
	if err := msg.Verify(nil, verifier); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSignatureInvalid, err)
	}

	var r Receipt
	if err := cbor.Unmarshal(msg.Payload, &r); err != nil {
		return nil, fmt.Errorf("decode receipt payload: %w", err)
	}
	return &r, nil
}

// VerifyAgainst verifies the signature and then checks that the receipt was
// issued for req and describes result.
func VerifyAgainst(coseBytes []byte, publicKey *ecdsa.PublicKey, req core.Request, result *core.EvaluationResult) (*Receipt, error) {
	r, err := Verify(coseBytes, publicKey)
	if err != nil {
		return nil, err
	}

	inputHash, err := core.ComputeRequestHash(req)
	if err != nil {
		return nil, fmt.Errorf("hash request: %w", err)
	}
	if r.InputHash != inputHash {
		return r, ErrInputMismatch
	}

	if r.ResultHash != core.ComputeResultHash(result.Payload) {
		return r, fmt.Errorf("%w: result hash differs", ErrResultMismatch)
	}
	if r.Policy != string(result.Policy) || r.Status != string(result.Status) {
		return r, fmt.Errorf("%w: policy or status differs", ErrResultMismatch)
	}

	winner := ""
	if result.Winner != nil {
		winner = result.Winner.Bidder
	}
	if r.Winner != winner {
		return r, fmt.Errorf("%w: winner %q, receipt names %q", ErrResultMismatch, winner, r.Winner)
	}

	return r, nil
}
