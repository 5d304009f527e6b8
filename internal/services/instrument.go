package services

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"salescli/internal/infrastructure"
)

// traced runs fn inside a span named operation and records its outcome on
// metrics. A context without a trace ID gets a fresh one.
func traced(ctx context.Context, metrics *infrastructure.Metrics, operation string, fn func(context.Context) error, attrs ...attribute.KeyValue) error {
	ctx = infrastructure.EnsureTraceID(ctx)
	ctx, span := infrastructure.Tracer().Start(ctx, operation, trace.WithAttributes(attrs...))
	defer span.End()

	start := time.Now()
	err := fn(ctx)
	metrics.RecordOperation(ctx, operation, time.Since(start), err)
	if err != nil {
		infrastructure.RecordError(ctx, err)
	}
	return err
}
