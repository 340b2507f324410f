package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Metrics holds the Prometheus collectors for the evaluation server.
// A nil *Metrics records nothing.
type Metrics struct {
	registry *prometheus.Registry

	evaluations         *prometheus.CounterVec
	evaluationDuration  *prometheus.HistogramVec
	receiptsIssued      prometheus.Counter
	rejectedConnections prometheus.Counter
	activeConnections   prometheus.Gauge
	requestErrors       *prometheus.CounterVec
}

// NewMetrics creates the collectors on a private registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,

		evaluations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tender_evaluations_total",
				Help: "Total number of evaluations by policy and outcome status",
			},
			[]string{"policy", "status"},
		),

		evaluationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "tender_evaluation_duration_seconds",
				Help:    "Duration of evaluations in seconds",
				Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10), // 10µs to 2.6s
			},
			[]string{"policy"},
		),

		receiptsIssued: factory.NewCounter(prometheus.CounterOpts{
			Name: "tender_receipts_issued_total",
			Help: "Total number of signed evaluation receipts",
		}),

		rejectedConnections: factory.NewCounter(prometheus.CounterOpts{
			Name: "tender_rejected_connections_total",
			Help: "Connections closed because the worker pool was full",
		}),

		activeConnections: factory.NewGauge(prometheus.GaugeOpts{
			Name: "tender_active_connections",
			Help: "Connections currently being handled",
		}),

		requestErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tender_request_errors_total",
				Help: "Requests answered with an error response",
			},
			[]string{"reason"},
		),
	}
}

// Registry returns the registry the collectors are registered on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordEvaluation records one completed evaluation.
func (m *Metrics) RecordEvaluation(policy, status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.evaluations.WithLabelValues(policy, status).Inc()
	m.evaluationDuration.WithLabelValues(policy).Observe(duration.Seconds())
}

// RecordReceipt records a signed receipt.
func (m *Metrics) RecordReceipt() {
	if m == nil {
		return
	}
	m.receiptsIssued.Inc()
}

// RecordRejectedConnection records a connection refused for lack of workers.
func (m *Metrics) RecordRejectedConnection() {
	if m == nil {
		return
	}
	m.rejectedConnections.Inc()
}

// RecordRequestError records an error response.
func (m *Metrics) RecordRequestError(reason string) {
	if m == nil {
		return
	}
	m.requestErrors.WithLabelValues(reason).Inc()
}

func (m *Metrics) connectionOpened() {
	if m == nil {
		return
	}
	m.activeConnections.Inc()
}

func (m *Metrics) connectionClosed() {
	if m == nil {
		return
	}
	m.activeConnections.Dec()
}

// Handler serves /metrics from the private registry and a /healthz probe.
func (m *Metrics) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok\n"))
	})
	return mux
}

// ServeMetrics runs the metrics HTTP listener until ctx is cancelled.
func ServeMetrics(ctx context.Context, addr string, m *Metrics, logger *zap.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           m.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("failed to shut down metrics listener", zap.Error(err))
		}
	}()

	logger.Info("metrics listener started", zap.String("address", addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
