package port

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Telemetry lets the core emit traces and metrics without knowing the backend.
type Telemetry interface {
	// Tracing - Span creation
	StartRepositorySpan(ctx context.Context, operation string, entity string, attrs []attribute.KeyValue) (context.Context, trace.Span)
	StartServiceSpan(ctx context.Context, service string, operation string, attrs []attribute.KeyValue) (context.Context, trace.Span)

	// Repository operations
	RecordRepositoryOperation(ctx context.Context, operation string, entity string, duration time.Duration, err error)
	RecordRepositoryQuery(ctx context.Context, operation string, entity string, query string, args []any)

	// Service operations
	RecordServiceOperation(ctx context.Context, service string, operation string, duration time.Duration, err error)
	RecordCacheLookup(ctx context.Context, entity string, hit bool)

	// Business events
	RecordBusinessEvent(ctx context.Context, event string, entity string, entityID string, metadata map[string]any)

	// Errors
	RecordError(ctx context.Context, operation string, err error, metadata map[string]any)
}
