// Package receipt issues and verifies signed evaluation receipts.
//
// A receipt binds the fingerprint of an evaluation request to the fingerprint
// of its result payload, the winner and the terminal status. It is encoded as
// deterministic CBOR and signed as a COSE_Sign1 message with ES256.
package receipt

import (
	"crypto/rand"
	"fmt"
	"time"

	"github.com/fxamacker/cbor/v2"
	"github.com/google/uuid"
	"github.com/veraison/go-cose"

	"github.com/cloudx-io/opentender/core"
	"github.com/cloudx-io/opentender/tenderapi"
)

// ContentType is set in the protected header of every receipt.
const ContentType = "application/vnd.opentender.receipt+cbor"

// Receipt is the signed payload.
type Receipt struct {
	ReceiptID  string `cbor:"receipt_id" json:"receipt_id"`
	RequestID  string `cbor:"request_id,omitempty" json:"request_id,omitempty"`
	Policy     string `cbor:"policy" json:"policy"`
	Status     string `cbor:"status" json:"status"`
	Winner     string `cbor:"winner,omitempty" json:"winner,omitempty"`
	InputHash  string `cbor:"input_hash" json:"input_hash"`
	ResultHash string `cbor:"result_hash" json:"result_hash"`
	KeyID      string `cbor:"key_id" json:"key_id"`
	IssuedAt   int64  `cbor:"issued_at" json:"issued_at"` // Unix seconds
}

var encMode = mustEncMode()

func mustEncMode() cbor.EncMode {
	mode, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("receipt: cbor encoding mode: %v", err))
	}
	return mode
}

// Issuer signs receipts with one key.
type Issuer struct {
	km     *KeyManager
	signer cose.Signer
	now    func() time.Time
	newID  func() string
}

// NewIssuer creates an Issuer for km.
func NewIssuer(km *KeyManager) (*Issuer, error) {
	signer, err := cose.NewSigner(cose.AlgorithmES256, km.privateKey)
	if err != nil {
		return nil, fmt.Errorf("create signer: %w", err)
	}
	return &Issuer{
		km:     km,
		signer: signer,
		now:    time.Now,
		newID:  func() string { return uuid.New().String() },
	}, nil
}

// KeyManager returns the key the Issuer signs with.
func (i *Issuer) KeyManager() *KeyManager { return i.km }

// Build assembles the receipt for an evaluation without signing it.
func (i *Issuer) Build(req core.Request, requestID string, result *core.EvaluationResult) (*Receipt, error) {
	inputHash, err := core.ComputeRequestHash(req)
	if err != nil {
		return nil, fmt.Errorf("hash request: %w", err)
	}

	r := &Receipt{
		ReceiptID:  i.newID(),
		RequestID:  requestID,
		Policy:     string(result.Policy),
		Status:     string(result.Status),
		InputHash:  inputHash,
		ResultHash: core.ComputeResultHash(result.Payload),
		KeyID:      i.km.KeyID,
		IssuedAt:   i.now().Unix(),
	}
	if result.Winner != nil {
		r.Winner = result.Winner.Bidder
	}
	return r, nil
}

// Issue builds and signs the receipt for an evaluation.
func (i *Issuer) Issue(req core.Request, requestID string, result *core.EvaluationResult) (tenderapi.ReceiptCOSE, *Receipt, error) {
	r, err := i.Build(req, requestID, result)
	if err != nil {
		return nil, nil, err
	}

	coseBytes, err := i.Sign(r)
	if err != nil {
		return nil, nil, err
	}
	return coseBytes, r, nil
}

// Sign encodes r and signs it as a tagged COSE_Sign1 message.
func (i *Issuer) Sign(r *Receipt) (tenderapi.ReceiptCOSE, error) {
	payload, err := encMode.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("marshal receipt: %w", err)
	}

	msg := cose.NewSign1Message()
	msg.Headers.Protected.SetAlgorithm(cose.AlgorithmES256)
	msg.Headers.Protected[cose.HeaderLabelContentType] = ContentType
	msg.Headers.Unprotected[cose.HeaderLabelKeyID] = []byte(i.km.KeyID)
	msg.Payload = payload

	if err := msg.Sign(rand.Reader, nil, i.signer); err != nil {
		return nil, fmt.Errorf("sign receipt: %w", err)
	}

	data, err := msg.MarshalCBOR()
	if err != nil {
		return nil, fmt.Errorf("marshal COSE_Sign1: %w", err)
	}
	return tenderapi.ReceiptCOSE(data), nil
}

// ExtractCOSEPayload returns the payload of a COSE_Sign1 message without
// checking its signature. Tagged and untagged messages are accepted.
func ExtractCOSEPayload(coseBytes []byte) ([]byte, error) {
	msg, err := parseSign1(coseBytes)
	if err != nil {
		return nil, err
	}
	return msg.Payload, nil
}

// DecodeReceipt decodes the receipt payload without checking its signature.
func DecodeReceipt(coseBytes []byte) (*Receipt, error) {
	payload, err := ExtractCOSEPayload(coseBytes)
	if err != nil {
		return nil, err
	}
	var r Receipt
	if err := cbor.Unmarshal(payload, &r); err != nil {
		return nil, fmt.Errorf("decode receipt payload: %w", err)
	}
	return &r, nil
}

func parseSign1(coseBytes []byte) (*cose.Sign1Message, error) {
	var msg cose.Sign1Message
	if err := msg.UnmarshalCBOR(coseBytes); err == nil {
		return &msg, nil
	}

	var untagged cose.UntaggedSign1Message
	if err := untagged.UnmarshalCBOR(coseBytes); err != nil {
		return nil, fmt.Errorf("parse COSE_Sign1: %w", err)
	}
	tagged := cose.Sign1Message(untagged)
	return &tagged, nil
}
