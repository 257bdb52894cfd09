package telemetry

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"authorstore/internal/core/domain"
)

type AppMetrics struct {
	repositoryDuration   *prometheus.HistogramVec
	repositoryOperations *prometheus.CounterVec
	serviceOperations    *prometheus.CounterVec
	validationFailures   *prometheus.CounterVec
	cacheHits            *prometheus.CounterVec
	cacheMisses          *prometheus.CounterVec
}

func NewAppMetrics(registry prometheus.Registerer) *AppMetrics {
	metrics := &AppMetrics{
		repositoryDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "repository_operation_duration_seconds",
				Help:    "Duration of repository operations",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation", "entity"},
		),
		repositoryOperations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "repository_operations_total",
				Help: "Total number of repository operations",
			},
			[]string{"operation", "entity", "result"},
		),
		serviceOperations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "service_operations_total",
				Help: "Total number of service operations",
			},
			[]string{"service", "operation", "result"},
		),
		validationFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "validation_failures_total",
				Help: "Total number of rejected field values",
			},
			[]string{"kind"},
		),
		cacheHits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cache_hits_total",
				Help: "Total number of cache hits",
			},
			[]string{"entity"},
		),
		cacheMisses: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cache_misses_total",
				Help: "Total number of cache misses",
			},
			[]string{"entity"},
		),
	}

	registry.MustRegister(
		metrics.repositoryDuration,
		metrics.repositoryOperations,
		metrics.serviceOperations,
		metrics.validationFailures,
		metrics.cacheHits,
		metrics.cacheMisses,
	)

	return metrics
}

func (m *AppMetrics) RecordRepositoryOperation(ctx context.Context, operation, entity string, duration time.Duration, err error) {
	m.repositoryDuration.WithLabelValues(operation, entity).Observe(duration.Seconds())
	m.repositoryOperations.WithLabelValues(operation, entity, resultLabel(err)).Inc()
	m.recordValidation(err)
}

func (m *AppMetrics) RecordServiceOperation(ctx context.Context, service, operation string, err error) {
	m.serviceOperations.WithLabelValues(service, operation, resultLabel(err)).Inc()
}

func (m *AppMetrics) RecordCacheHit(ctx context.Context, entity string) {
	m.cacheHits.WithLabelValues(entity).Inc()
}

func (m *AppMetrics) RecordCacheMiss(ctx context.Context, entity string) {
	m.cacheMisses.WithLabelValues(entity).Inc()
}

func (m *AppMetrics) recordValidation(err error) {
	switch {
	case errors.Is(err, domain.ErrOutOfRange):
		m.validationFailures.WithLabelValues("out_of_range").Inc()
	case errors.Is(err, domain.ErrInvalidInput):
		m.validationFailures.WithLabelValues("invalid_input").Inc()
	}
}

func resultLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrStore):
		return "store_error"
	default:
		return "error"
	}
}
