package tenderapi

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/cloudx-io/opentender/core"
)

// Request and response type tags carried in the "type" field.
const (
	TypeSMERequest       = "sme_request"
	TypeNationalRequest  = "national_request"
	TypeHighValueRequest = "high_value_request"
	TypeEvaluationResult = "evaluation_response"
	TypePing             = "ping"
	TypePong             = "pong"
	TypeError            = "error"
)

var (
	// ErrInvalidRequest is returned when a request fails structural validation.
	ErrInvalidRequest = errors.New("invalid evaluation request")

	// ErrUnknownRequestType is returned for a type tag that names no policy.
	ErrUnknownRequestType = errors.New("unknown request type")
)

var validate = validator.New()

// Weights is the wire form of core.WeightConfig.
type Weights struct {
	TechnicalPercent Number `json:"technical_percent" yaml:"technical_percent"`
	FinancialPercent Number `json:"financial_percent" yaml:"financial_percent"`
}

// Bidder is the wire form of a bidder for any policy. Fields a policy does
// not use are ignored when converting.
type Bidder struct {
	Name           string `json:"name,omitempty" yaml:"name"`
	Price          Number `json:"price" yaml:"price"`
	TechnicalScore Number `json:"technical_score" yaml:"technical_score"`

	IsSME Flag `json:"is_sme,omitempty" yaml:"is_sme"`

	Committed             Flag   `json:"committed,omitempty" yaml:"committed"`
	MandatoryItemsValue   Number `json:"mandatory_items_value,omitempty" yaml:"mandatory_items_value"`
	ForeignProductsValue  Number `json:"foreign_products_value,omitempty" yaml:"foreign_products_value"`
	NationalProductsValue Number `json:"national_products_value,omitempty" yaml:"national_products_value"`

	LocalContentTarget   Number `json:"local_content_target,omitempty" yaml:"local_content_target"`
	BaselineSharePercent Number `json:"baseline_share_percent,omitempty" yaml:"baseline_share_percent"`
	IsListedCompany      Flag   `json:"is_listed_company,omitempty" yaml:"is_listed_company"`
}

// EvaluationRequest is the format accepted by the evaluation server and the CLI.
type EvaluationRequest struct {
	Type               string   `json:"type" yaml:"type" validate:"required,oneof=sme_request national_request high_value_request"`
	RequestID          string   `json:"request_id,omitempty" yaml:"request_id" validate:"max=128"`
	Language           string   `json:"language,omitempty" yaml:"language" validate:"max=35"`
	Weights            *Weights `json:"weights,omitempty" yaml:"weights"`
	MinTechnicalPass   *Number  `json:"min_technical_pass,omitempty" yaml:"min_technical_pass"`
	MandatoryItemCount Number   `json:"mandatory_item_count,omitempty" yaml:"mandatory_item_count" validate:"gte=0"`
	Bidders            []Bidder `json:"bidders" yaml:"bidders" validate:"required,min=1"`
}

// Defaults fills request parameters the caller left out.
type Defaults struct {
	Weights            core.WeightConfig
	MinTechnicalPass   float64
	MandatoryItemCount int
}

// StandardDefaults returns 40/60 weights and the standard 70 technical pass.
func StandardDefaults() Defaults {
	return Defaults{
		Weights:          core.DefaultWeights(),
		MinTechnicalPass: core.DefaultMinTechnicalPass,
	}
}

// Validate checks the request structure. Numeric content is never rejected.
func (r *EvaluationRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	return nil
}

// Policy maps the type tag to a core policy.
func (r *EvaluationRequest) Policy() (core.Policy, error) {
	return PolicyForType(r.Type)
}

// PolicyForType maps a request type tag to a core policy.
func PolicyForType(requestType string) (core.Policy, error) {
	switch requestType {
	case TypeSMERequest:
		return core.PolicySME, nil
	case TypeNationalRequest:
		return core.PolicyNational, nil
	case TypeHighValueRequest:
		return core.PolicyHighValue, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownRequestType, requestType)
	}
}

// TypeForPolicy is the inverse of PolicyForType.
func TypeForPolicy(policy core.Policy) string {
	switch policy {
	case core.PolicySME:
		return TypeSMERequest
	case core.PolicyNational:
		return TypeNationalRequest
	case core.PolicyHighValue:
		return TypeHighValueRequest
	default:
		return ""
	}
}

// ToCoreRequest validates the request and converts it to the matching
// core request, applying d where parameters are absent.
func (r *EvaluationRequest) ToCoreRequest(d Defaults) (core.Request, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}

	weights := d.Weights
	if r.Weights != nil {
		weights = core.WeightConfig{
			TechnicalPercent: r.Weights.TechnicalPercent.Float64(),
			FinancialPercent: r.Weights.FinancialPercent.Float64(),
		}
	}

	switch r.Type {
	case TypeSMERequest:
		bidders := make([]core.SMEBidder, len(r.Bidders))
		for i, b := range r.Bidders {
			bidders[i] = b.SME()
		}
		return core.SMERequest{Bidders: bidders, Weights: weights}, nil

	case TypeNationalRequest:
		count := int(r.MandatoryItemCount.Float64())
		if count == 0 {
			count = d.MandatoryItemCount
		}
		bidders := make([]core.NationalBidder, len(r.Bidders))
		for i, b := range r.Bidders {
			bidders[i] = b.National()
		}
		return core.NationalRequest{Bidders: bidders, Weights: weights, MandatoryItemCount: count}, nil

	case TypeHighValueRequest:
		minPass := d.MinTechnicalPass
		if r.MinTechnicalPass != nil {
			minPass = r.MinTechnicalPass.Float64()
		}
		bidders := make([]core.HighValueBidder, len(r.Bidders))
		for i, b := range r.Bidders {
			bidders[i] = b.HighValue()
		}
		return core.HighValueRequest{Bidders: bidders, MinTechnicalPass: minPass}, nil
	}

	return nil, fmt.Errorf("%w: %q", ErrUnknownRequestType, r.Type)
}

// SME converts the wire bidder to an SME bidder.
func (b Bidder) SME() core.SMEBidder {
	return core.SMEBidder{
		Name:           b.Name,
		Price:          b.Price.Float64(),
		TechnicalScore: b.TechnicalScore.Float64(),
		IsSME:          b.IsSME.Bool(),
	}
}

// National converts the wire bidder to a national product bidder.
func (b Bidder) National() core.NationalBidder {
	return core.NationalBidder{
		Name:                  b.Name,
		Committed:             b.Committed.Bool(),
		TechnicalScore:        b.TechnicalScore.Float64(),
		Price:                 b.Price.Float64(),
		MandatoryItemsValue:   b.MandatoryItemsValue.Float64(),
		ForeignProductsValue:  b.ForeignProductsValue.Float64(),
		NationalProductsValue: b.NationalProductsValue.Float64(),
	}
}

// HighValue converts the wire bidder to a high-value project bidder.
func (b Bidder) HighValue() core.HighValueBidder {
	return core.HighValueBidder{
		Name:                  b.Name,
		Price:                 b.Price.Float64(),
		TechnicalScoreAverage: b.TechnicalScore.Float64(),
		LocalContentTarget:    b.LocalContentTarget.Float64(),
		BaselineSharePercent:  b.BaselineSharePercent.Float64(),
		IsListedCompany:       b.IsListedCompany.Bool(),
	}
}

// EvaluationResponse is returned by the evaluation server for every
// evaluation request.
type EvaluationResponse struct {
	Type           string                 `json:"type"`
	Success        bool                   `json:"success"`
	Message        string                 `json:"message"`
	RequestID      string                 `json:"request_id,omitempty"`
	Result         *core.EvaluationResult `json:"result,omitempty"`
	ResultHash     string                 `json:"result_hash,omitempty"`
	Receipt        ReceiptCOSEBase64      `json:"receipt_cose_base64,omitempty"`
	ProcessingTime int64                  `json:"processing_time_ms"`
}

// PongResponse answers a ping.
type PongResponse struct {
	Type      string `json:"type"`
	Message   string `json:"message"`
	Timestamp int64  `json:"timestamp"`
}

// ErrorResponse reports a request the server could not process.
type ErrorResponse struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// NewErrorResponse builds an ErrorResponse from a formatted message.
func NewErrorResponse(format string, args ...any) ErrorResponse {
	return ErrorResponse{Type: TypeError, Message: fmt.Sprintf(format, args...)}
}
