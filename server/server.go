// Package server runs the evaluation server: one JSON request per
// connection over TCP or vsock, answered by one JSON response.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"time"

	"github.com/mdlayher/vsock"
	"go.uber.org/zap"

	"github.com/cloudx-io/opentender/config"
	"github.com/cloudx-io/opentender/core"
	"github.com/cloudx-io/opentender/receipt"
	"github.com/cloudx-io/opentender/tenderapi"
)

// Server evaluates tender requests received on a listener.
type Server struct {
	cfg       config.ServerConfig
	logger    *zap.Logger
	evaluator core.Evaluator
	defaults  tenderapi.Defaults
	issuer    *receipt.Issuer
	metrics   *Metrics

	semaphore chan struct{}
	wg        sync.WaitGroup
}

// Option configures a Server.
type Option func(*Server)

// WithIssuer signs a receipt for every evaluation. It overrides the
// receipts section of the configuration.
func WithIssuer(issuer *receipt.Issuer) Option {
	return func(s *Server) { s.issuer = issuer }
}

// WithMetrics records Prometheus metrics for the server.
func WithMetrics(m *Metrics) Option {
	return func(s *Server) { s.metrics = m }
}

// New creates a Server from cfg. When receipts are enabled without a signing
// key path an ephemeral key is generated.
func New(cfg *config.Config, logger *zap.Logger, opts ...Option) (*Server, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Server{
		cfg:       cfg.Server,
		logger:    logger,
		evaluator: core.NewEvaluator(core.ParseLanguage(cfg.Evaluation.DefaultLanguage)),
		defaults:  RequestDefaults(cfg.Evaluation),
		semaphore: make(chan struct{}, cfg.Server.MaxWorkers),
	}

	if cfg.Receipts.Enabled {
		issuer, err := newIssuer(cfg.Receipts, logger)
		if err != nil {
			return nil, err
		}
		s.issuer = issuer
	}

	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// RequestDefaults returns the request parameters applied when a request
// leaves them out.
func RequestDefaults(cfg config.EvaluationConfig) tenderapi.Defaults {
	return tenderapi.Defaults{
		Weights:            cfg.Weights(),
		MinTechnicalPass:   cfg.MinTechnicalPass,
		MandatoryItemCount: cfg.MandatoryItemCount,
	}
}

func newIssuer(cfg config.ReceiptsConfig, logger *zap.Logger) (*receipt.Issuer, error) {
	var (
		km  *receipt.KeyManager
		err error
	)
	if cfg.SigningKeyPath == "" {
		km, err = receipt.NewKeyManager()
		if err != nil {
			return nil, fmt.Errorf("failed to initialize key manager: %w", err)
		}
		logger.Warn("no receipt signing key configured, using an ephemeral key",
			zap.String("key_id", km.KeyID))
	} else {
		km, err = receipt.LoadKeyManager(cfg.SigningKeyPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load receipt signing key: %w", err)
		}
		logger.Info("receipt signing key loaded",
			zap.String("path", cfg.SigningKeyPath),
			zap.String("key_id", km.KeyID))
	}
	return receipt.NewIssuer(km)
}

// Listen opens the listener named by the server configuration.
func (s *Server) Listen() (net.Listener, error) {
	switch s.cfg.Transport {
	case "vsock":
		listener, err := vsock.Listen(s.cfg.VsockPort, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create vsock listener: %w", err)
		}
		return listener, nil
	default:
		listener, err := net.Listen("tcp", s.cfg.ListenAddress)
		if err != nil {
			return nil, fmt.Errorf("failed to create tcp listener: %w", err)
		}
		return listener, nil
	}
}

// ListenAndServe opens the configured listener and serves until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context) error {
	listener, err := s.Listen()
	if err != nil {
		return err
	}
	return s.Serve(ctx, listener)
}

// Serve accepts connections on listener until ctx is done, then waits for
// in-flight connections. The listener is closed on return.
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
		case <-stop:
		}
		if err := listener.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
			s.logger.Error("failed to close listener", zap.Error(err))
		}
	}()

	s.logger.Info("evaluation server listening",
		zap.String("transport", s.cfg.Transport),
		zap.String("address", listener.Addr().String()),
		zap.Int("max_workers", cap(s.semaphore)),
		zap.Bool("receipts", s.issuer != nil))

	for {
		conn, err := listener.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				s.wg.Wait()
				s.logger.Info("evaluation server stopped")
				return nil
			}
			s.logger.Error("failed to accept connection", zap.Error(err))
			continue
		}

		// Acquire worker slot, rejecting immediately if the pool is full
		select {
		case s.semaphore <- struct{}{}:
			s.wg.Add(1)
			go func(c net.Conn) {
				defer s.wg.Done()
				defer func() { <-s.semaphore }()
				s.handleConnection(c)
			}(conn)
		default:
			s.metrics.RecordRejectedConnection()
			s.logger.Info("no workers available, rejecting connection (pool full)")
			if err := conn.Close(); err != nil {
				s.logger.Error("failed to close rejected connection", zap.Error(err))
			}
		}
	}
}

func (s *Server) handleConnection(conn net.Conn) {
	s.metrics.connectionOpened()
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("panic recovered in handleConnection", zap.Any("panic", r))
		}
		if err := conn.Close(); err != nil {
			s.logger.Error("failed to close connection", zap.Error(err))
		}
		s.metrics.connectionClosed()
	}()

	_ = conn.SetReadDeadline(time.Now().Add(s.cfg.ReadTimeout))

	limit := int64(s.cfg.MaxRequestKB) * 1024
	var raw json.RawMessage
	if err := json.NewDecoder(io.LimitReader(conn, limit)).Decode(&raw); err != nil {
		s.logger.Error("failed to read request", zap.Error(err))
		s.metrics.RecordRequestError("read")
		s.writeResponse(conn, "unreadable", tenderapi.NewErrorResponse("Failed to read request: %v", err))
		return
	}

	requestType, response := s.Handle(raw)
	s.writeResponse(conn, requestType, response)
}

func (s *Server) writeResponse(conn net.Conn, requestType string, response any) {
	encoder := json.NewEncoder(conn)
	if err := encoder.Encode(response); err != nil {
		s.logger.Error("failed to encode response", zap.Error(err))
		return
	}
	s.logger.Debug("sent response", zap.String("request_type", requestType))
}

// Handle dispatches one raw JSON request by its "type" field and returns the
// type and the response to send.
func (s *Server) Handle(raw []byte) (string, any) {
	var baseReq struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(raw, &baseReq); err != nil {
		s.logger.Error("failed to decode base request", zap.Error(err))
		s.metrics.RecordRequestError("decode")
		return "", tenderapi.NewErrorResponse("Failed to decode request: %v", err)
	}

	s.logger.Info("received request", zap.String("request_type", baseReq.Type))

	switch baseReq.Type {
	case tenderapi.TypePing:
		return baseReq.Type, tenderapi.PongResponse{
			Type:      tenderapi.TypePong,
			Message:   "evaluation server is healthy",
			Timestamp: time.Now().Unix(),
		}

	case tenderapi.TypeSMERequest, tenderapi.TypeNationalRequest, tenderapi.TypeHighValueRequest:
		var req tenderapi.EvaluationRequest
		if err := json.Unmarshal(raw, &req); err != nil {
			s.logger.Error("failed to decode evaluation request", zap.Error(err))
			s.metrics.RecordRequestError("decode")
			return baseReq.Type, tenderapi.NewErrorResponse("Failed to decode %s: %v", baseReq.Type, err)
		}
		return baseReq.Type, s.ProcessEvaluation(req)

	default:
		s.metrics.RecordRequestError("unknown_type")
		return baseReq.Type, tenderapi.NewErrorResponse("Unknown request type: %s", baseReq.Type)
	}
}
