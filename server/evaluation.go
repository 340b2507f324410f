package server

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/cloudx-io/opentender/core"
	"github.com/cloudx-io/opentender/tenderapi"
)

// ProcessEvaluation evaluates one request and, when an issuer is configured,
// signs a receipt over the request and the result.
func (s *Server) ProcessEvaluation(req tenderapi.EvaluationRequest) tenderapi.EvaluationResponse {
	startTime := time.Now()
	s.logger.Info("processing evaluation",
		zap.String("request_type", req.Type),
		zap.String("request_id", req.RequestID),
		zap.Int("bidders", len(req.Bidders)))

	coreReq, err := req.ToCoreRequest(s.defaults)
	if err != nil {
		s.metrics.RecordRequestError("invalid_request")
		return tenderapi.EvaluationResponse{
			Type:           tenderapi.TypeEvaluationResult,
			Success:        false,
			Message:        fmt.Sprintf("Invalid request: %v", err),
			RequestID:      req.RequestID,
			ProcessingTime: time.Since(startTime).Milliseconds(),
		}
	}

	evaluator := s.evaluator
	if req.Language != "" {
		evaluator = core.NewEvaluator(core.ParseLanguage(req.Language))
	}

	result := evaluator.Evaluate(coreReq)
	s.metrics.RecordEvaluation(string(result.Policy), string(result.Status), time.Since(startTime))

	response := tenderapi.EvaluationResponse{
		Type:       tenderapi.TypeEvaluationResult,
		Success:    true,
		Message:    fmt.Sprintf("Evaluated %d bidders: %s", len(req.Bidders), result.Status),
		RequestID:  req.RequestID,
		Result:     result,
		ResultHash: core.ComputeResultHash(result.Payload),
	}

	if s.issuer != nil {
		coseBytes, r, err := s.issuer.Issue(coreReq, req.RequestID, result)
		if err != nil {
			s.logger.Error("receipt signing failed", zap.Error(err))
			s.metrics.RecordRequestError("receipt")
			return tenderapi.EvaluationResponse{
				Type:           tenderapi.TypeEvaluationResult,
				Success:        false,
				Message:        fmt.Sprintf("Receipt signing failed: %v", err),
				RequestID:      req.RequestID,
				ProcessingTime: time.Since(startTime).Milliseconds(),
			}
		}
		response.Receipt = coseBytes.EncodeBase64()
		s.metrics.RecordReceipt()
		s.logger.Debug("receipt issued", zap.String("receipt_id", r.ReceiptID))
	}

	response.ProcessingTime = time.Since(startTime).Milliseconds()

	s.logger.Info("evaluation complete",
		zap.String("policy", string(result.Policy)),
		zap.String("status", string(result.Status)),
		zap.String("winner", winnerName(result)),
		zap.Int("excluded", len(result.Excluded)),
		zap.Int64("processing_ms", response.ProcessingTime))

	return response
}

func winnerName(result *core.EvaluationResult) string {
	if result.Winner == nil {
		return "none"
	}
	return result.Winner.Bidder
}
