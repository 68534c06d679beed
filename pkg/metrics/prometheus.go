package metrics

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type MetricsCollector struct {
	registry           *prometheus.Registry
	operationsApplied  *prometheus.CounterVec
	operationsRejected *prometheus.CounterVec
	operationDuration  prometheus.Histogram
	accountBalance     *prometheus.GaugeVec
	logger             *slog.Logger
}

func NewMetricsCollector(logger *slog.Logger) *MetricsCollector {
	if logger == nil {
		logger = slog.Default()
	}

	registry := prometheus.NewRegistry()

	collector := &MetricsCollector{
		registry: registry,
		operationsApplied: promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
			Name: "banking_operations_applied_total",
			Help: "Total number of applied transactions by type",
		}, []string{"type"}),
		operationsRejected: promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
			Name: "banking_operations_rejected_total",
			Help: "Total number of rejected operations by type and reason",
		}, []string{"type", "reason"}),
		operationDuration: promauto.With(registry).NewHistogram(prometheus.HistogramOpts{
			Name:    "banking_operation_duration_seconds",
			Help:    "Time taken to validate and apply one operation",
			Buckets: prometheus.DefBuckets,
		}),
		accountBalance: promauto.With(registry).NewGaugeVec(prometheus.GaugeOpts{
			Name: "banking_account_balance",
			Help: "Current account balance",
		}, []string{"account_number"}),
		logger: logger,
	}

	return collector
}

func (m *MetricsCollector) RecordApplied(txType string, duration time.Duration) {
	m.operationsApplied.WithLabelValues(txType).Inc()
	m.operationDuration.Observe(duration.Seconds())
}

func (m *MetricsCollector) RecordRejected(txType, reason string, duration time.Duration) {
	m.operationsRejected.WithLabelValues(txType, reason).Inc()
	m.operationDuration.Observe(duration.Seconds())
}

func (m *MetricsCollector) UpdateAccountBalance(accountNumber string, balance float64) {
	m.accountBalance.WithLabelValues(accountNumber).Set(balance)
}

func (m *MetricsCollector) GetHandler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *MetricsCollector) StartMetricsServer(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.GetHandler())

	server := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	go func() {
		m.logger.Info("starting metrics server", slog.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			m.logger.Error("metrics server failed", slog.String("error", err.Error()))
		}
	}()

	return server
}
