package server

import (
	"context"
	"encoding/json"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/peterldowns/testy/assert"
	"github.com/peterldowns/testy/check"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"
	"golang.org/x/text/language"

	"github.com/cloudx-io/opentender/config"
	"github.com/cloudx-io/opentender/core"
	"github.com/cloudx-io/opentender/receipt"
	"github.com/cloudx-io/opentender/tenderapi"
)

func newTestServer(t *testing.T, cfg *config.Config, opts ...Option) *Server {
	t.Helper()
	if cfg == nil {
		cfg = config.Default()
	}
	s, err := New(cfg, zap.NewNop(), opts...)
	assert.NoError(t, err)
	return s
}

func smeRequest() tenderapi.EvaluationRequest {
	return tenderapi.EvaluationRequest{
		Type:      tenderapi.TypeSMERequest,
		RequestID: "tender-42",
		Bidders: []tenderapi.Bidder{
			{Name: "A", Price: 100000, TechnicalScore: 80, IsSME: true},
			{Name: "B", Price: 95000, TechnicalScore: 78},
		},
	}
}

func TestHandle_Ping(t *testing.T) {
	s := newTestServer(t, nil)

	requestType, response := s.Handle([]byte(`{"type":"ping"}`))

	check.Equal(t, "ping", requestType)
	pong, ok := response.(tenderapi.PongResponse)
	assert.True(t, ok)
	check.Equal(t, tenderapi.TypePong, pong.Type)
	check.True(t, pong.Timestamp > 0)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		message string
	}{
		{"malformed json", `{"type":`, "Failed to decode request"},
		{"unknown type", `{"type":"auction_request"}`, "Unknown request type: auction_request"},
		{"bad bidders field", `{"type":"sme_request","bidders":"none"}`, "Failed to decode sme_request"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMetrics()
			s := newTestServer(t, nil, WithMetrics(m))

			_, response := s.Handle([]byte(tt.raw))

			errResp, ok := response.(tenderapi.ErrorResponse)
			assert.True(t, ok)
			check.Equal(t, tenderapi.TypeError, errResp.Type)
			check.True(t, strings.HasPrefix(errResp.Message, tt.message))
			check.Equal(t, 1.0, testutil.ToFloat64(m.requestErrors))
		})
	}
}

func TestHandle_Evaluation(t *testing.T) {
	s := newTestServer(t, nil)
	raw, err := json.Marshal(smeRequest())
	assert.NoError(t, err)

	requestType, response := s.Handle(raw)

	check.Equal(t, tenderapi.TypeSMERequest, requestType)
	resp, ok := response.(tenderapi.EvaluationResponse)
	assert.True(t, ok)
	check.True(t, resp.Success)
	check.Equal(t, "tender-42", resp.RequestID)
	assert.NotNil(t, resp.Result.Winner)
	check.Equal(t, "A", resp.Result.Winner.Bidder)
}

func TestProcessEvaluation(t *testing.T) {
	m := NewMetrics()
	s := newTestServer(t, nil, WithMetrics(m))

	resp := s.ProcessEvaluation(smeRequest())

	check.True(t, resp.Success)
	check.Equal(t, tenderapi.TypeEvaluationResult, resp.Type)
	assert.NotNil(t, resp.Result)
	check.Equal(t, core.PolicySME, resp.Result.Policy)
	check.Equal(t, core.StatusAwarded, resp.Result.Status)
	check.Equal(t, core.ComputeResultHash(resp.Result.Payload), resp.ResultHash)
	check.Equal(t, "", resp.Receipt.String())
	check.Equal(t, 1.0, testutil.ToFloat64(m.evaluations.WithLabelValues("sme", "awarded")))
}

func TestProcessEvaluation_InvalidRequest(t *testing.T) {
	s := newTestServer(t, nil)

	resp := s.ProcessEvaluation(tenderapi.EvaluationRequest{Type: tenderapi.TypeNationalRequest})

	check.False(t, resp.Success)
	check.Nil(t, resp.Result)
	check.Equal(t, "", resp.ResultHash)
}

func TestProcessEvaluation_ConfiguredDefaults(t *testing.T) {
	cfg := config.Default()
	cfg.Evaluation.MinTechnicalPass = 85
	s := newTestServer(t, cfg)

	req := tenderapi.EvaluationRequest{
		Type: tenderapi.TypeHighValueRequest,
		Bidders: []tenderapi.Bidder{
			{Name: "A", Price: 1000, TechnicalScore: 80, LocalContentTarget: 40},
		},
	}

	resp := s.ProcessEvaluation(req)

	check.True(t, resp.Success)
	check.Equal(t, core.StatusNoEligibleBidder, resp.Result.Status)

	pass := tenderapi.Number(75)
	req.MinTechnicalPass = &pass
	resp = s.ProcessEvaluation(req)
	check.Equal(t, core.StatusAwarded, resp.Result.Status)
}

func TestProcessEvaluation_Language(t *testing.T) {
	s := newTestServer(t, nil)

	req := smeRequest()
	arabic := s.ProcessEvaluation(req)
	req.Language = "en-GB"
	english := s.ProcessEvaluation(req)

	check.Equal(t, core.LabelsFor(language.Arabic).SMETitle, arabic.Result.Payload.Title)
	check.Equal(t, core.LabelsFor(language.English).SMETitle, english.Result.Payload.Title)
	check.True(t, arabic.ResultHash != english.ResultHash)
}

func TestProcessEvaluation_Receipt(t *testing.T) {
	km, err := receipt.NewKeyManager()
	assert.NoError(t, err)
	issuer, err := receipt.NewIssuer(km)
	assert.NoError(t, err)

	m := NewMetrics()
	s := newTestServer(t, nil, WithIssuer(issuer), WithMetrics(m))

	resp := s.ProcessEvaluation(smeRequest())
	assert.True(t, resp.Success)
	assert.True(t, resp.Receipt != "")

	coseBytes, err := resp.Receipt.Decode()
	assert.NoError(t, err)

	r, err := receipt.Verify(coseBytes, km.PublicKey)
	assert.NoError(t, err)
	check.Equal(t, "tender-42", r.RequestID)
	check.Equal(t, "A", r.Winner)
	check.Equal(t, resp.ResultHash, r.ResultHash)
	check.Equal(t, 1.0, testutil.ToFloat64(m.receiptsIssued))
}

func TestNew_ReceiptsEnabled(t *testing.T) {
	cfg := config.Default()
	cfg.Receipts.Enabled = true

	s := newTestServer(t, cfg)
	check.NotNil(t, s.issuer)

	cfg.Receipts.SigningKeyPath = "/nonexistent/receipt.pem"
	_, err := New(cfg, zap.NewNop())
	check.Error(t, err)
}

func startServer(t *testing.T, s *Server) (string, context.CancelFunc, <-chan error) {
	t.Helper()
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	assert.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, listener) }()
	return listener.Addr().String(), cancel, done
}

func roundTrip(t *testing.T, addr string, request any) map[string]any {
	t.Helper()
	conn, err := net.DialTimeout("tcp", addr, 5*time.Second)
	assert.NoError(t, err)
	defer conn.Close()
	_ = conn.SetDeadline(time.Now().Add(5 * time.Second))

	assert.NoError(t, json.NewEncoder(conn).Encode(request))

	var response map[string]any
	assert.NoError(t, json.NewDecoder(conn).Decode(&response))
	return response
}

func TestServe_TCP(t *testing.T) {
	s := newTestServer(t, nil)
	addr, cancel, done := startServer(t, s)

	pong := roundTrip(t, addr, map[string]string{"type": "ping"})
	check.Equal(t, "pong", pong["type"])

	resp := roundTrip(t, addr, smeRequest())
	check.Equal(t, tenderapi.TypeEvaluationResult, resp["type"])
	check.Equal(t, true, resp["success"])

	cancel()
	select {
	case err := <-done:
		check.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestServe_TruncatedRequest(t *testing.T) {
	s := newTestServer(t, nil)
	addr, cancel, _ := startServer(t, s)
	defer cancel()

	conn, err := net.DialTimeout("tcp", addr, 5*time.Second)
	assert.NoError(t, err)
	defer conn.Close()
	_ = conn.SetDeadline(time.Now().Add(5 * time.Second))

	_, err = conn.Write([]byte(`{"type":"ping"`))
	assert.NoError(t, err)
	assert.NoError(t, conn.(*net.TCPConn).CloseWrite())

	var resp map[string]any
	assert.NoError(t, json.NewDecoder(conn).Decode(&resp))
	check.Equal(t, tenderapi.TypeError, resp["type"])
}

func TestServe_RejectsWhenPoolFull(t *testing.T) {
	cfg := config.Default()
	cfg.Server.MaxWorkers = 1
	cfg.Server.ReadTimeout = 5 * time.Second
	m := NewMetrics()
	s := newTestServer(t, cfg, WithMetrics(m))
	addr, cancel, _ := startServer(t, s)
	defer cancel()

	// Holds the only worker until it is closed.
	busy, err := net.Dial("tcp", addr)
	assert.NoError(t, err)
	defer busy.Close()

	rejected, err := net.Dial("tcp", addr)
	assert.NoError(t, err)
	defer rejected.Close()
	_ = rejected.SetReadDeadline(time.Now().Add(5 * time.Second))

	buf := make([]byte, 1)
	_, err = rejected.Read(buf)
	check.Error(t, err)
	check.Equal(t, 1.0, testutil.ToFloat64(m.rejectedConnections))
}
