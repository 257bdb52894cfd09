package telemetry

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"authorstore/internal/core/domain"
)

func newTestProbe(t *testing.T) (*OTELProbe, *AppMetrics, *tracetest.SpanRecorder) {
	t.Helper()

	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	otel.SetTracerProvider(provider)
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	metrics := NewAppMetrics(prometheus.NewRegistry())
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return NewOTELProbe(logger, metrics).(*OTELProbe), metrics, recorder
}

func TestOTELProbe_RepositoryOperation(t *testing.T) {
	t.Run("should end a named span with ok status", func(t *testing.T) {
		probe, metrics, recorder := newTestProbe(t)

		ctx, span := probe.StartRepositorySpan(context.Background(), "insert", "author", nil)
		probe.RecordRepositoryOperation(ctx, "insert", "author", time.Millisecond, nil)
		span.End()

		spans := recorder.Ended()
		require.Len(t, spans, 1)
		assert.Equal(t, "repository.author.insert", spans[0].Name())
		assert.Equal(t, codes.Ok, spans[0].Status().Code)
		assert.Equal(t, 1.0, testutil.ToFloat64(metrics.repositoryOperations.WithLabelValues("insert", "author", "ok")))
	})

	t.Run("should classify store and validation failures", func(t *testing.T) {
		probe, metrics, recorder := newTestProbe(t)

		storeErr := domain.NewStoreError("find", &domain.FieldError{Field: "email", Kind: domain.ErrOutOfRange, Message: "too long"})

		ctx, span := probe.StartRepositorySpan(context.Background(), "find_all", "author", nil)
		probe.RecordRepositoryOperation(ctx, "find_all", "author", time.Millisecond, storeErr)
		span.End()

		spans := recorder.Ended()
		require.Len(t, spans, 1)
		assert.Equal(t, codes.Error, spans[0].Status().Code)
		assert.Equal(t, 1.0, testutil.ToFloat64(metrics.repositoryOperations.WithLabelValues("find_all", "author", "store_error")))
		assert.Equal(t, 1.0, testutil.ToFloat64(metrics.validationFailures.WithLabelValues("out_of_range")))
	})
}

func TestOTELProbe_ServiceOperation(t *testing.T) {
	probe, metrics, _ := newTestProbe(t)

	ctx, span := probe.StartServiceSpan(context.Background(), "author", "register", nil)
	probe.RecordServiceOperation(ctx, "author", "register", time.Millisecond, errors.New("boom"))
	span.End()

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.serviceOperations.WithLabelValues("author", "register", "error")))
}

func TestOTELProbe_CacheLookup(t *testing.T) {
	probe, metrics, _ := newTestProbe(t)

	probe.RecordCacheLookup(context.Background(), "author", true)
	probe.RecordCacheLookup(context.Background(), "author", false)
	probe.RecordCacheLookup(context.Background(), "author", false)

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.cacheHits.WithLabelValues("author")))
	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.cacheMisses.WithLabelValues("author")))
}

func TestOTELProbe_BusinessEvent(t *testing.T) {
	probe, _, recorder := newTestProbe(t)

	probe.RecordBusinessEvent(context.Background(), "registered", "author", "some-id", map[string]any{"activation": true})

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "repository.author.event.registered", spans[0].Name())
}
